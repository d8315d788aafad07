package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/calegray/tradepost/internal/domain"
)

// CategoryStore defines the interface for category data persistence.
// Categories are seeded by migration, so there is no write surface.
type CategoryStore interface {
	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)
}
