package api

import (
	"log/slog"
	"net/http"

	"github.com/calegray/tradepost/internal/service/listing"
	"github.com/calegray/tradepost/internal/store"
)

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	categoryStore  store.CategoryStore
	listingService listing.Service
	logger         *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(
	categoryStore store.CategoryStore,
	listingService listing.Service,
	log *slog.Logger,
) *CategoryHandler {
	if log == nil {
		log = slog.Default()
	}

	return &CategoryHandler{
		categoryStore:  categoryStore,
		listingService: listingService,
		logger:         log.With(slog.String("component", "category_handler")),
	}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryStore.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list categories")
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryToResponse(c))
	}

	RespondWithJSON(w, r, http.StatusOK, out)
}

// Get handles GET /api/categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	category, err := h.categoryStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, categoryToResponse(category))
}

// Listings handles GET /api/categories/{id}/listings.
// It returns the listings in the category, subject to the usual visibility
// rules and pagination.
func (h *CategoryHandler) Listings(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// 404 for a category that doesn't exist, rather than an empty page.
	if _, err := h.categoryStore.GetByID(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	query.CategoryID = &id

	result, err := h.listingService.List(r.Context(), optionalUserIDFromContext(r), query)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, listingPageToResponse(result))
}
