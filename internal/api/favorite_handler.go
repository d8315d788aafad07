package api

import (
	"log/slog"
	"net/http"

	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/platform/logger"
	"github.com/calegray/tradepost/internal/store"
)

// FavoriteHandler handles favorite-related HTTP requests. All routes require
// authentication.
type FavoriteHandler struct {
	favoriteStore store.FavoriteStore
	logger        *slog.Logger
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteStore store.FavoriteStore, log *slog.Logger) *FavoriteHandler {
	if log == nil {
		log = slog.Default()
	}

	return &FavoriteHandler{
		favoriteStore: favoriteStore,
		logger:        log.With(slog.String("component", "favorite_handler")),
	}
}

// List handles GET /api/favorites.
// Returns the listings the caller has favorited, newest favorite first.
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	listings, err := h.favoriteStore.ListByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list favorites")
		return
	}

	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, listingToResponse(l))
	}

	RespondWithJSON(w, r, http.StatusOK, out)
}

// Add handles POST /api/favorites/{listingID}.
// Favoriting a listing twice is a conflict surfaced as a 400.
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, listingID, ok := requireUserAndPathUUID(w, r, "listingID")
	if !ok {
		return
	}

	favorite := domain.NewFavorite(userID, listingID)
	if err := h.favoriteStore.Create(r.Context(), favorite); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("listing favorited",
		slog.String("listing_id", listingID.String()),
		slog.String("user_id", userID.String()))

	RespondWithJSON(w, r, http.StatusCreated, favorite)
}

// Remove handles DELETE /api/favorites/{listingID}.
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, listingID, ok := requireUserAndPathUUID(w, r, "listingID")
	if !ok {
		return
	}

	if err := h.favoriteStore.Delete(r.Context(), userID, listingID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "Favorite removed"})
}

// Check handles GET /api/favorites/{listingID}.
// Reports whether the caller has favorited the listing.
func (h *FavoriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, listingID, ok := requireUserAndPathUUID(w, r, "listingID")
	if !ok {
		return
	}

	favorited, err := h.favoriteStore.Exists(r.Context(), userID, listingID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check favorite")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, FavoriteStatusResponse{Favorited: favorited})
}
