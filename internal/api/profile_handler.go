package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/service/listing"
	"github.com/calegray/tradepost/internal/store"
)

// ProfileHandler handles user profile HTTP requests.
type ProfileHandler struct {
	userStore      store.UserStore
	listingService listing.Service
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(
	userStore store.UserStore,
	listingService listing.Service,
	log *slog.Logger,
) *ProfileHandler {
	if log == nil {
		log = slog.Default()
	}

	return &ProfileHandler{
		userStore:      userStore,
		listingService: listingService,
		validator:      validator.New(),
		logger:         log.With(slog.String("component", "profile_handler")),
	}
}

// Me handles GET /api/profiles/me.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ProfileResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		Location:    user.Location,
		CreatedAt:   user.CreatedAt,
	})
}

// UpdateMe handles PUT /api/profiles/me.
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req UpdateProfileRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithFieldErrors(w, r, validationErrorMessages(err))
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user.ApplyProfileUpdate(domain.ProfileUpdate{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Location:    req.Location,
	})

	if err := h.userStore.Update(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ProfileResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		Location:    user.Location,
		CreatedAt:   user.CreatedAt,
	})
}

// MyListings handles GET /api/profiles/me/listings.
// The owner filter is pinned to the caller, so all of their statuses are
// visible and an explicit status filter narrows further.
func (h *ProfileHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	query.OwnerID = &userID

	result, err := h.listingService.List(r.Context(), &userID, query)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, listingPageToResponse(result))
}

// Get handles GET /api/profiles/{id}.
// Returns the public view of another user's profile, without the email.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, PublicProfileResponse{
		ID:          user.ID.String(),
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		Location:    user.Location,
		CreatedAt:   user.CreatedAt,
	})
}
