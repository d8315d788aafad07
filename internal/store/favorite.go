package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/calegray/tradepost/internal/domain"
)

// FavoriteStore defines the interface for favorite data persistence.
type FavoriteStore interface {
	// Create saves a new favorite.
	// Returns ErrFavoriteExists if the user already favorited the listing.
	// Returns ErrInvalidEntity if the listing does not exist (foreign key
	// violation).
	Create(ctx context.Context, favorite *domain.Favorite) error

	// Delete removes a favorite.
	// Returns ErrFavoriteNotFound if it does not exist.
	Delete(ctx context.Context, userID, listingID uuid.UUID) error

	// Exists reports whether the user has favorited the listing.
	Exists(ctx context.Context, userID, listingID uuid.UUID) (bool, error)

	// ListByUser returns the listings favorited by the user, newest favorite
	// first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Listing, error)
}
