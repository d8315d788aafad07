// Package listing implements the listing lifecycle rules: who may read a
// listing in which status, who may transition it between statuses, and how
// the view counter is maintained. Access predicates that a managed database
// would enforce with row-level security live here in application code.
package listing

import (
	"context"

	"github.com/google/uuid"

	"github.com/calegray/tradepost/internal/domain"
)

// CreateInput carries the fields for creating a listing.
type CreateInput struct {
	Title       string
	Description string
	Price       float64
	CategoryID  uuid.UUID
	Condition   domain.ListingCondition
	Location    string
	// Status may be empty (defaults to draft) or one of draft/active.
	Status domain.ListingStatus
	// ImageURLs are recorded as ordered attachments; the first is primary.
	ImageURLs []string
}

// ListQuery describes a listing search. CallerID is nil for anonymous
// callers; the service composes the visibility predicate from it and the
// requested OwnerID before any other filter is applied.
type ListQuery struct {
	OwnerID    *uuid.UUID
	CategoryID *uuid.UUID
	Status     *domain.ListingStatus
	Condition  *domain.ListingCondition
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	Limit      int
	Offset     int
}

// ListResult is one page of listing search results.
type ListResult struct {
	Listings []*domain.Listing
	Total    int64
	Limit    int
	Offset   int
	HasMore  bool
}

// Service owns the listing lifecycle: creation, visibility-gated reads with
// view-count accounting, owner-gated mutation and deletion, and search with
// visibility composition.
type Service interface {
	// Read returns the listing if the caller may see it: active listings are
	// public, every other status is owner-only. callerID is nil for
	// anonymous reads. A permitted read bumps the view counter via the
	// store's atomic increment; an increment failure is logged and never
	// surfaced to the caller.
	// Returns ErrListingNotFound if the ID resolves to nothing, and
	// ErrAccessDenied if the listing exists but is not visible.
	Read(ctx context.Context, callerID *uuid.UUID, id uuid.UUID) (*domain.Listing, error)

	// Create makes a new listing owned by the caller. The initial status may
	// only be draft (the default) or active. Images are attached in order,
	// first one primary; attachment failures are logged and do not roll back
	// the listing.
	// Returns ErrCategoryNotFound if the category does not exist.
	Create(ctx context.Context, callerID uuid.UUID, input CreateInput) (*domain.Listing, error)

	// Update applies the supplied fields to the caller's listing. When the
	// update moves the status to sold and SoldAt is unset, SoldAt is stamped
	// with the current time as part of the same update; it is never changed
	// afterwards. No other transition restriction is enforced.
	// Returns ErrListingNotOwned when the caller is not the owner.
	Update(ctx context.Context, callerID, id uuid.UUID, update domain.ListingUpdate) (*domain.Listing, error)

	// SetStatus is Update narrowed to the status field, with the same SoldAt
	// stamping rule.
	SetStatus(ctx context.Context, callerID, id uuid.UUID, status domain.ListingStatus) (*domain.Listing, error)

	// Delete removes the caller's listing; dependent images and favorites go
	// with it (database cascade). A non-owner delete reports
	// ErrListingNotFound rather than a distinguishable denial, so it does
	// not leak the existence of other users' hidden listings.
	Delete(ctx context.Context, callerID, id uuid.UUID) error

	// List searches listings. Anonymous and third-party callers only ever
	// see active listings; a caller filtering on their own owner ID sees all
	// of their own statuses and may narrow by an explicit status filter.
	List(ctx context.Context, callerID *uuid.UUID, query ListQuery) (*ListResult, error)

	// Images returns a listing's attachments ordered by position, subject to
	// the same visibility rule as Read (without the view-count side effect).
	Images(ctx context.Context, callerID *uuid.UUID, id uuid.UUID) ([]*domain.ListingImage, error)
}
