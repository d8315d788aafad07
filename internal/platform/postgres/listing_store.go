package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/platform/logger"
	"github.com/calegray/tradepost/internal/store"
)

// PostgresListingStore implements the store.ListingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresListingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresListingStore creates a new PostgreSQL implementation of the
// ListingStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresListingStore(db store.DBTX, logger *slog.Logger) *PostgresListingStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresListingStore{
		db:     db,
		logger: logger.With(slog.String("component", "listing_store")),
	}
}

// Ensure PostgresListingStore implements store.ListingStore interface
var _ store.ListingStore = (*PostgresListingStore)(nil)

const listingColumns = `id, owner_id, category_id, title, description, price,
	condition, location, status, view_count, sold_at, created_at, updated_at`

// Create implements store.ListingStore.Create
// Returns store.ErrInvalidEntity if the owner or category doesn't exist
// (foreign key violation).
func (s *PostgresListingStore) Create(ctx context.Context, listing *domain.Listing) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := listing.Validate(); err != nil {
		log.Warn("listing validation failed during create",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return err
	}

	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		listing.ID,
		listing.OwnerID,
		listing.CategoryID,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.Condition,
		listing.Location,
		listing.Status,
		listing.ViewCount,
		listing.SoldAt,
		listing.CreatedAt,
		listing.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during listing creation",
				slog.String("error", err.Error()),
				slog.String("listing_id", listing.ID.String()))
			return fmt.Errorf("%w: referenced owner or category not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return err
	}

	log.Info("listing created successfully",
		slog.String("listing_id", listing.ID.String()),
		slog.String("owner_id", listing.OwnerID.String()),
		slog.String("status", string(listing.Status)))
	return nil
}

// GetByID implements store.ListingStore.GetByID
// Returns store.ErrListingNotFound if the listing does not exist.
func (s *PostgresListingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrListingNotFound
		}
		log.Error("failed to get listing by ID",
			slog.String("error", err.Error()),
			slog.String("listing_id", id.String()))
		return nil, err
	}

	return listing, nil
}

// Update implements store.ListingStore.Update
// The row is matched on (id, owner_id), so a non-owner update affects zero
// rows and returns store.ErrListingNotFound.
func (s *PostgresListingStore) Update(ctx context.Context, listing *domain.Listing) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := listing.Validate(); err != nil {
		log.Warn("listing validation failed during update",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return err
	}

	// view_count is deliberately absent: it only moves through
	// IncrementViewCount. sold_at is write-once: COALESCE keeps an existing
	// stamp so a concurrent update from a pre-sale snapshot cannot clear it.
	query := `
		UPDATE listings
		SET category_id = $1, title = $2, description = $3, price = $4,
		    condition = $5, location = $6, status = $7,
		    sold_at = COALESCE(listings.sold_at, $8),
		    updated_at = $9
		WHERE id = $10 AND owner_id = $11
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		listing.CategoryID,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.Condition,
		listing.Location,
		listing.Status,
		listing.SoldAt,
		listing.UpdatedAt,
		listing.ID,
		listing.OwnerID,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced category not found",
				store.ErrInvalidEntity)
		}
		log.Error("failed to update listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		return store.ErrListingNotFound
	}

	log.Info("listing updated successfully",
		slog.String("listing_id", listing.ID.String()),
		slog.String("status", string(listing.Status)))
	return nil
}

// Delete implements store.ListingStore.Delete
// Dependent images and favorites are removed by ON DELETE CASCADE constraints
// in the schema; application code does not re-derive the cascade.
func (s *PostgresListingStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM listings WHERE id = $1 AND owner_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("listing_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		return store.ErrListingNotFound
	}

	log.Info("listing deleted successfully",
		slog.String("listing_id", id.String()))
	return nil
}

// IncrementViewCount implements store.ListingStore.IncrementViewCount
// The increment happens inside the database in a single statement, so
// concurrent reads of the same listing cannot lose updates.
func (s *PostgresListingStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE listings SET view_count = view_count + 1 WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to increment view count",
			slog.String("error", err.Error()),
			slog.String("listing_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return store.ErrListingNotFound
	}

	return nil
}

// List implements store.ListingStore.List
// Filters are conjunctive; the caller has already resolved visibility into
// the Statuses set. Results are ordered newest first.
func (s *PostgresListingStore) List(ctx context.Context, filter store.ListingFilter) (*store.ListingPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OwnerID != nil {
		conds = append(conds, "owner_id = "+arg(*filter.OwnerID))
	}
	if filter.CategoryID != nil {
		conds = append(conds, "category_id = "+arg(*filter.CategoryID))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, st := range filter.Statuses {
			placeholders = append(placeholders, arg(st))
		}
		conds = append(conds, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.Condition != nil {
		conds = append(conds, "condition = "+arg(*filter.Condition))
	}
	if filter.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*filter.MaxPrice))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		p := arg(pattern)
		conds = append(conds, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM listings` + where

	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count listings",
			slog.String("error", err.Error()))
		return nil, err
	}

	query := `SELECT ` + listingColumns + ` FROM listings` + where +
		` ORDER BY created_at DESC, id LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query listings",
			slog.String("error", err.Error()))
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
			log.Error("failed to scan listing row",
				slog.String("error", err.Error()))
			return nil, err
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return &store.ListingPage{Listings: listings, Total: total}, nil
}

// CreateImage implements store.ListingStore.CreateImage
func (s *PostgresListingStore) CreateImage(ctx context.Context, image *domain.ListingImage) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := image.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO listing_images (id, listing_id, url, position, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		image.ID,
		image.ListingID,
		image.URL,
		image.Position,
		image.IsPrimary,
		image.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: listing %s not found",
				store.ErrInvalidEntity, image.ListingID)
		}
		log.Error("failed to create listing image",
			slog.String("error", err.Error()),
			slog.String("listing_id", image.ListingID.String()))
		return err
	}

	return nil
}

// GetImages implements store.ListingStore.GetImages
func (s *PostgresListingStore) GetImages(ctx context.Context, listingID uuid.UUID) ([]*domain.ListingImage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, listing_id, url, position, is_primary, created_at
		FROM listing_images
		WHERE listing_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, listingID)
	if err != nil {
		log.Error("failed to query listing images",
			slog.String("error", err.Error()),
			slog.String("listing_id", listingID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	images := []*domain.ListingImage{}
	for rows.Next() {
		var img domain.ListingImage
		err := rows.Scan(
			&img.ID,
			&img.ListingID,
			&img.URL,
			&img.Position,
			&img.IsPrimary,
			&img.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		images = append(images, &img)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return images, nil
}

// WithTx implements store.ListingStore.WithTx
func (s *PostgresListingStore) WithTx(tx *sql.Tx) store.ListingStore {
	return &PostgresListingStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var (
		listing   domain.Listing
		status    string
		condition string
		soldAt    sql.NullTime
	)

	err := row.Scan(
		&listing.ID,
		&listing.OwnerID,
		&listing.CategoryID,
		&listing.Title,
		&listing.Description,
		&listing.Price,
		&condition,
		&listing.Location,
		&status,
		&listing.ViewCount,
		&soldAt,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	listing.Status = domain.ListingStatus(status)
	listing.Condition = domain.ListingCondition(condition)
	if soldAt.Valid {
		t := soldAt.Time
		listing.SoldAt = &t
	}

	return &listing, nil
}
