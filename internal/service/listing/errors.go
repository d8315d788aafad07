package listing

import "errors"

// Common listing service errors
var (
	// ErrListingNotFound indicates the listing ID does not resolve to any
	// record the caller could ever see.
	ErrListingNotFound = errors.New("listing not found")

	// ErrAccessDenied indicates the listing exists but the caller may not
	// read it in its current status. This is deliberately distinct from
	// ErrListingNotFound so the API can answer 403 rather than 404.
	ErrAccessDenied = errors.New("access to listing denied")

	// ErrListingNotOwned indicates a mutation was attempted by someone other
	// than the owner.
	ErrListingNotOwned = errors.New("listing not owned by caller")

	// ErrCategoryNotFound indicates the referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
)
