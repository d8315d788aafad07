package domain

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a listing as saved by a user. The (UserID, ListingID) pair is
// unique; adding the same favorite twice is a conflict.
type Favorite struct {
	UserID    uuid.UUID `json:"user_id"`
	ListingID uuid.UUID `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFavorite creates a Favorite linking the user to the listing.
func NewFavorite(userID, listingID uuid.UUID) *Favorite {
	return &Favorite{
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}
}
