package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/platform/logger"
	"github.com/calegray/tradepost/internal/service/listing"
)

// ListingHandler handles listing-related HTTP requests.
type ListingHandler struct {
	service   listing.Service
	validator *validator.Validate
	logger    *slog.Logger
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service listing.Service, log *slog.Logger) *ListingHandler {
	if log == nil {
		log = slog.Default()
	}

	return &ListingHandler{
		service:   service,
		validator: validator.New(),
		logger:    log.With(slog.String("component", "listing_handler")),
	}
}

// Create handles POST /api/listings.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateListingRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithFieldErrors(w, r, validationErrorMessages(err))
		return
	}

	// Enum and UUID shapes are already guaranteed by the validator tags.
	categoryID := uuid.MustParse(req.CategoryID)
	condition := domain.ListingCondition(req.Condition)

	created, err := h.service.Create(r.Context(), userID, listing.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  categoryID,
		Condition:   condition,
		Location:    req.Location,
		Status:      domain.ListingStatus(req.Status),
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, listingToResponse(created))
}

// Get handles GET /api/listings/{id}.
// A successful read increments the listing's view counter.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	l, err := h.service.Read(r.Context(), optionalUserIDFromContext(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, listingToResponse(l))
}

// List handles GET /api/listings.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.service.List(r.Context(), optionalUserIDFromContext(r), query)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, listingPageToResponse(result))
}

// Update handles PUT /api/listings/{id}.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateListingRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithFieldErrors(w, r, validationErrorMessages(err))
		return
	}

	update := domain.ListingUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
	}
	if req.CategoryID != nil {
		categoryID := uuid.MustParse(*req.CategoryID)
		update.CategoryID = &categoryID
	}
	if req.Condition != nil {
		condition := domain.ListingCondition(*req.Condition)
		update.Condition = &condition
	}
	if req.Status != nil {
		status := domain.ListingStatus(*req.Status)
		update.Status = &status
	}

	updated, err := h.service.Update(r.Context(), userID, id, update)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, listingToResponse(updated))
}

// SetStatus handles PATCH /api/listings/{id}/status.
func (h *ListingHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SetListingStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithFieldErrors(w, r, validationErrorMessages(err))
		return
	}

	updated, err := h.service.SetStatus(r.Context(), userID, id, domain.ListingStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, listingToResponse(updated))
}

// Delete handles DELETE /api/listings/{id}.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("listing deleted via API", slog.String("listing_id", id.String()))

	RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "Listing deleted"})
}

// Images handles GET /api/listings/{id}/images.
func (h *ListingHandler) Images(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	images, err := h.service.Images(r.Context(), optionalUserIDFromContext(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	out := make([]ListingImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, ListingImageResponse{
			ID:        img.ID.String(),
			URL:       img.URL,
			Position:  img.Position,
			IsPrimary: img.IsPrimary,
		})
	}

	RespondWithJSON(w, r, http.StatusOK, out)
}

// parseListQuery reads the listing search filters from the URL query string.
func parseListQuery(r *http.Request) (listing.ListQuery, error) {
	q := r.URL.Query()
	var query listing.ListQuery

	if v := q.Get("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return query, domain.NewValidationError("user_id", "has invalid format", domain.ErrInvalidID)
		}
		query.OwnerID = &id
	}
	if v := q.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return query, domain.NewValidationError("category_id", "has invalid format", domain.ErrInvalidID)
		}
		query.CategoryID = &id
	}
	if v := q.Get("status"); v != "" {
		status, err := domain.ParseListingStatus(v)
		if err != nil {
			return query, err
		}
		query.Status = &status
	}
	if v := q.Get("condition"); v != "" {
		condition, err := domain.ParseListingCondition(v)
		if err != nil {
			return query, err
		}
		query.Condition = &condition
	}
	if v := q.Get("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return query, domain.NewValidationError("min_price", "must be a non-negative number", domain.ErrValidation)
		}
		query.MinPrice = &price
	}
	if v := q.Get("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return query, domain.NewValidationError("max_price", "must be a non-negative number", domain.ErrValidation)
		}
		query.MaxPrice = &price
	}
	query.Search = q.Get("q")

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > listing.MaxPageLimit {
			return query, domain.NewValidationError("limit", "must be between 1 and 100", domain.ErrValidation)
		}
		query.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return query, domain.NewValidationError("offset", "must be non-negative", domain.ErrValidation)
		}
		query.Offset = offset
	}

	return query, nil
}
