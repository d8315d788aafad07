package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/calegray/tradepost/internal/domain"
)

// ListingFilter describes the conjunctive predicates of a listing query.
// Nil pointers mean "no constraint". The visibility predicate (which statuses
// the caller may see) is composed by the service layer, not here: Statuses is
// the already-resolved set of statuses the query is allowed to return.
type ListingFilter struct {
	OwnerID    *uuid.UUID
	CategoryID *uuid.UUID
	Statuses   []domain.ListingStatus
	Condition  *domain.ListingCondition
	MinPrice   *float64
	MaxPrice   *float64
	// Search is matched case-insensitively against title and description.
	Search string

	Limit  int
	Offset int
}

// ListingPage is one page of listing query results. Total counts all rows
// matching the filter, not just the page.
type ListingPage struct {
	Listings []*domain.Listing
	Total    int64
}

// ListingStore defines the interface for listing data persistence.
type ListingStore interface {
	// Create saves a new listing to the store.
	// Returns ErrInvalidEntity if the category or owner does not exist
	// (foreign key violation).
	Create(ctx context.Context, listing *domain.Listing) error

	// GetByID retrieves a listing by its unique ID regardless of status;
	// visibility is the service layer's concern.
	// Returns ErrListingNotFound if the listing does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)

	// Update persists the mutable fields of an existing listing, scoped to
	// the owner: the row is matched on (id, owner_id) so a non-owner update
	// affects zero rows and surfaces as ErrListingNotFound.
	// SoldAt is write-once: an already-stored stamp is kept even when the
	// given listing carries a nil or different SoldAt, so a stale snapshot
	// can never clear it.
	Update(ctx context.Context, listing *domain.Listing) error

	// Delete removes a listing, scoped to the owner like Update.
	// Dependent images and favorites are removed by the database cascade.
	// Returns ErrListingNotFound if no row matched.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// IncrementViewCount atomically adds one to the listing's view counter
	// in a single UPDATE, so concurrent reads never lose increments.
	// Returns ErrListingNotFound if the listing does not exist.
	IncrementViewCount(ctx context.Context, id uuid.UUID) error

	// List returns one page of listings matching the filter, newest first
	// with the ID as a tiebreaker so paging over equal timestamps is stable,
	// along with the total match count.
	List(ctx context.Context, filter ListingFilter) (*ListingPage, error)

	// CreateImage records an image attachment on a listing.
	CreateImage(ctx context.Context, image *domain.ListingImage) error

	// GetImages returns a listing's images ordered by position.
	GetImages(ctx context.Context, listingID uuid.UUID) ([]*domain.ListingImage, error)

	// WithTx returns a new ListingStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ListingStore
}
