package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/platform/logger"
	"github.com/calegray/tradepost/internal/store"
)

// PostgresFavoriteStore implements the store.FavoriteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFavoriteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFavoriteStore creates a new PostgreSQL implementation of the
// FavoriteStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresFavoriteStore(db store.DBTX, logger *slog.Logger) *PostgresFavoriteStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFavoriteStore{
		db:     db,
		logger: logger.With(slog.String("component", "favorite_store")),
	}
}

// Ensure PostgresFavoriteStore implements store.FavoriteStore interface
var _ store.FavoriteStore = (*PostgresFavoriteStore)(nil)

// Create implements store.FavoriteStore.Create
// Returns store.ErrFavoriteExists on the (user_id, listing_id) unique
// violation and store.ErrInvalidEntity when the listing does not exist.
func (s *PostgresFavoriteStore) Create(ctx context.Context, favorite *domain.Favorite) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO favorites (user_id, listing_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		favorite.UserID,
		favorite.ListingID,
		favorite.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrFavoriteExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: listing %s not found",
				store.ErrInvalidEntity, favorite.ListingID)
		}
		log.Error("failed to create favorite",
			slog.String("error", err.Error()),
			slog.String("user_id", favorite.UserID.String()),
			slog.String("listing_id", favorite.ListingID.String()))
		return err
	}

	return nil
}

// Delete implements store.FavoriteStore.Delete
// Returns store.ErrFavoriteNotFound if the favorite does not exist.
func (s *PostgresFavoriteStore) Delete(ctx context.Context, userID, listingID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`

	result, err := s.db.ExecContext(ctx, query, userID, listingID)
	if err != nil {
		log.Error("failed to delete favorite",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("listing_id", listingID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return store.ErrFavoriteNotFound
	}

	return nil
}

// Exists implements store.FavoriteStore.Exists
func (s *PostgresFavoriteStore) Exists(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND listing_id = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, listingID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// ListByUser implements store.FavoriteStore.ListByUser
func (s *PostgresFavoriteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT l.id, l.owner_id, l.category_id, l.title, l.description, l.price,
		       l.condition, l.location, l.status, l.view_count, l.sold_at,
		       l.created_at, l.updated_at
		FROM listings l
		JOIN favorites f ON f.listing_id = l.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query favorites",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	listings := []*domain.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return listings, nil
}
