package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ListingStatus represents the lifecycle state of a listing.
type ListingStatus string

// Possible listing status values
const (
	ListingStatusDraft    ListingStatus = "draft"
	ListingStatusActive   ListingStatus = "active"
	ListingStatusSold     ListingStatus = "sold"
	ListingStatusArchived ListingStatus = "archived"
)

// ListingCondition describes the physical condition of the item for sale.
type ListingCondition string

// Possible listing condition values
const (
	ConditionNew     ListingCondition = "new"
	ConditionLikeNew ListingCondition = "like_new"
	ConditionGood    ListingCondition = "good"
	ConditionFair    ListingCondition = "fair"
	ConditionPoor    ListingCondition = "poor"
)

// Common validation errors for Listing
var (
	ErrEmptyListingID       = errors.New("listing ID cannot be empty")
	ErrEmptyListingOwnerID  = errors.New("listing owner ID cannot be empty")
	ErrEmptyListingCategory = errors.New("listing category ID cannot be empty")
	ErrEmptyListingTitle    = errors.New("listing title cannot be empty")
	ErrEmptyListingDesc     = errors.New("listing description cannot be empty")
	ErrEmptyListingLocation = errors.New("listing location cannot be empty")
	ErrNegativeListingPrice = errors.New("listing price cannot be negative")
	ErrNegativeViewCount    = errors.New("listing view count cannot be negative")
	ErrInvalidInitialStatus = errors.New("a listing can only be created as draft or active")
)

// Listing represents a product offered for sale by a user.
//
// ViewCount is monotonically non-decreasing and is only ever mutated through
// the store's atomic increment, never by writing the struct back. SoldAt is
// stamped exactly once, the first time the listing transitions into sold, and
// survives any later status change.
type Listing struct {
	ID          uuid.UUID        `json:"id"`
	OwnerID     uuid.UUID        `json:"owner_id"`
	CategoryID  uuid.UUID        `json:"category_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Condition   ListingCondition `json:"condition"`
	Location    string           `json:"location"`
	Status      ListingStatus    `json:"status"`
	ViewCount   int64            `json:"view_count"`
	SoldAt      *time.Time       `json:"sold_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ParseListingStatus converts a string into a ListingStatus.
// Returns ErrInvalidStatus for unrecognized values.
func ParseListingStatus(s string) (ListingStatus, error) {
	switch ListingStatus(s) {
	case ListingStatusDraft, ListingStatusActive, ListingStatusSold, ListingStatusArchived:
		return ListingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// ParseListingCondition converts a string into a ListingCondition.
// Returns ErrInvalidCondition for unrecognized values.
func ParseListingCondition(s string) (ListingCondition, error) {
	switch ListingCondition(s) {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return ListingCondition(s), nil
	default:
		return "", ErrInvalidCondition
	}
}

// NewListing creates a new Listing owned by ownerID. The status defaults to
// draft when empty; only draft and active are accepted at creation, so a
// listing can never be born sold or archived.
func NewListing(
	ownerID, categoryID uuid.UUID,
	title, description string,
	price float64,
	condition ListingCondition,
	location string,
	status ListingStatus,
) (*Listing, error) {
	if status == "" {
		status = ListingStatusDraft
	}
	if status != ListingStatusDraft && status != ListingStatusActive {
		return nil, ErrInvalidInitialStatus
	}

	now := time.Now().UTC()
	listing := &Listing{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CategoryID:  categoryID,
		Title:       title,
		Description: description,
		Price:       price,
		Condition:   condition,
		Location:    location,
		Status:      status,
		ViewCount:   0,
		SoldAt:      nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := listing.Validate(); err != nil {
		return nil, err
	}

	return listing, nil
}

// Validate checks if the Listing has valid data.
// Returns an error if any field fails validation.
func (l *Listing) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyListingID
	}

	if l.OwnerID == uuid.Nil {
		return ErrEmptyListingOwnerID
	}

	if l.CategoryID == uuid.Nil {
		return ErrEmptyListingCategory
	}

	if l.Title == "" {
		return ErrEmptyListingTitle
	}

	if l.Description == "" {
		return ErrEmptyListingDesc
	}

	if l.Location == "" {
		return ErrEmptyListingLocation
	}

	if l.Price < 0 {
		return ErrNegativeListingPrice
	}

	if l.ViewCount < 0 {
		return ErrNegativeViewCount
	}

	if _, err := ParseListingStatus(string(l.Status)); err != nil {
		return err
	}

	if _, err := ParseListingCondition(string(l.Condition)); err != nil {
		return err
	}

	return nil
}

// IsVisibleTo reports whether the caller may read this listing. Anyone may
// read an active listing; every other status is owner-only. A nil callerID
// represents an anonymous caller.
func (l *Listing) IsVisibleTo(callerID *uuid.UUID) bool {
	if l.Status == ListingStatusActive {
		return true
	}
	return callerID != nil && *callerID == l.OwnerID
}

// ListingUpdate holds the mutable fields of a listing. Nil pointers mean
// "leave unchanged". Status transitions are unrestricted: any status may move
// to any other. The single automatic derivation is the SoldAt stamp applied by
// ApplyUpdate on the first transition into sold.
type ListingUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	CategoryID  *uuid.UUID
	Condition   *ListingCondition
	Location    *string
	Status      *ListingStatus
}

// ApplyUpdate copies the supplied fields onto the listing, stamps SoldAt the
// first time the status becomes sold, refreshes UpdatedAt, and re-validates.
// On validation failure the listing is left unchanged.
func (l *Listing) ApplyUpdate(update ListingUpdate) error {
	orig := *l

	if update.Title != nil {
		l.Title = *update.Title
	}
	if update.Description != nil {
		l.Description = *update.Description
	}
	if update.Price != nil {
		l.Price = *update.Price
	}
	if update.CategoryID != nil {
		l.CategoryID = *update.CategoryID
	}
	if update.Condition != nil {
		l.Condition = *update.Condition
	}
	if update.Location != nil {
		l.Location = *update.Location
	}
	if update.Status != nil {
		l.Status = *update.Status
		// Once set, SoldAt is never cleared or overwritten by later
		// transitions (e.g. sold -> archived keeps the original stamp).
		if l.Status == ListingStatusSold && l.SoldAt == nil {
			soldAt := time.Now().UTC()
			l.SoldAt = &soldAt
		}
	}

	if err := l.Validate(); err != nil {
		*l = orig
		return err
	}

	l.UpdatedAt = time.Now().UTC()
	return nil
}
