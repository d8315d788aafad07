package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/service/listing"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    string    `json:"expires_at,omitempty"`
}

// CreateListingRequest defines the payload for creating a listing.
// Status may only request draft or active; a listing cannot be created
// directly into sold or archived.
type CreateListingRequest struct {
	Title       string   `json:"title"       validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"required,min=1"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	CategoryID  string   `json:"category_id" validate:"required,uuid"`
	Condition   string   `json:"condition"   validate:"required,oneof=new like_new good fair poor"`
	Location    string   `json:"location"    validate:"required,min=1"`
	Status      string   `json:"status"      validate:"omitempty,oneof=draft active"`
	ImageURLs   []string `json:"image_urls"  validate:"omitempty,dive,url"`
}

// UpdateListingRequest defines the payload for updating a listing.
// Absent fields are left unchanged.
type UpdateListingRequest struct {
	Title       *string  `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	CategoryID  *string  `json:"category_id" validate:"omitempty,uuid"`
	Condition   *string  `json:"condition"   validate:"omitempty,oneof=new like_new good fair poor"`
	Location    *string  `json:"location"    validate:"omitempty,min=1"`
	Status      *string  `json:"status"      validate:"omitempty,oneof=draft active sold archived"`
}

// SetListingStatusRequest defines the payload for the status transition
// endpoint.
type SetListingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active sold archived"`
}

// ListingResponse represents the response data for a listing.
type ListingResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	CategoryID  string     `json:"category_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Condition   string     `json:"condition"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	ViewCount   int64      `json:"view_count"`
	SoldAt      *time.Time `json:"sold_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListingPageResponse is one page of listing search results.
type ListingPageResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	HasMore  bool              `json:"has_more"`
}

// ListingImageResponse represents one image attachment on a listing.
type ListingImageResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Position  int    `json:"position"`
	IsPrimary bool   `json:"is_primary"`
}

// CategoryResponse represents the response data for a category.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// UpdateProfileRequest defines the payload for updating the caller's profile.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	Bio         *string `json:"bio"          validate:"omitempty,max=1000"`
	AvatarURL   *string `json:"avatar_url"   validate:"omitempty,url"`
	Location    *string `json:"location"     validate:"omitempty,max=200"`
}

// ProfileResponse represents the caller's own profile.
type ProfileResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublicProfileResponse represents another user's public profile view.
// It omits the email address.
type PublicProfileResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// FavoriteStatusResponse reports whether a listing is favorited by the caller.
type FavoriteStatusResponse struct {
	Favorited bool `json:"favorited"`
}

// listingToResponse converts a domain.Listing to a ListingResponse.
func listingToResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID.String(),
		OwnerID:     l.OwnerID.String(),
		CategoryID:  l.CategoryID.String(),
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Condition:   string(l.Condition),
		Location:    l.Location,
		Status:      string(l.Status),
		ViewCount:   l.ViewCount,
		SoldAt:      l.SoldAt,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// listingPageToResponse converts a service ListResult to a ListingPageResponse.
func listingPageToResponse(result *listing.ListResult) ListingPageResponse {
	out := ListingPageResponse{
		Listings: make([]ListingResponse, 0, len(result.Listings)),
		Total:    result.Total,
		Limit:    result.Limit,
		Offset:   result.Offset,
		HasMore:  result.HasMore,
	}
	for _, l := range result.Listings {
		out.Listings = append(out.Listings, listingToResponse(l))
	}
	return out
}

// categoryToResponse converts a domain.Category to a CategoryResponse.
func categoryToResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}
