package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ListingImage
var (
	ErrEmptyImageID        = errors.New("image ID cannot be empty")
	ErrEmptyImageListingID = errors.New("image listing ID cannot be empty")
	ErrEmptyImageURL       = errors.New("image URL cannot be empty")
)

// ListingImage is an ordered image attachment on a listing. The first image
// supplied at creation is marked primary. Images are removed by the database
// cascade when their listing is deleted.
type ListingImage struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// NewListingImage creates an image attachment for the given listing.
func NewListingImage(listingID uuid.UUID, url string, position int, isPrimary bool) (*ListingImage, error) {
	img := &ListingImage{
		ID:        uuid.New(),
		ListingID: listingID,
		URL:       url,
		Position:  position,
		IsPrimary: isPrimary,
		CreatedAt: time.Now().UTC(),
	}

	if err := img.Validate(); err != nil {
		return nil, err
	}

	return img, nil
}

// Validate checks if the ListingImage has valid data.
func (i *ListingImage) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyImageID
	}

	if i.ListingID == uuid.Nil {
		return ErrEmptyImageListingID
	}

	if i.URL == "" {
		return ErrEmptyImageURL
	}

	return nil
}
