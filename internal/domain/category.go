package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a browsable product category. Categories are seeded by
// migration and read-only at the API; listings reference them by ID.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
