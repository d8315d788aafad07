package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/platform/logger"
	"github.com/calegray/tradepost/internal/store"
)

// Pagination bounds for List.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// service is the default Service implementation backed by the store layer.
type service struct {
	listings   store.ListingStore
	categories store.CategoryStore
	tx         store.Transactor
	logger     *slog.Logger
}

// Ensure service implements Service interface
var _ Service = (*service)(nil)

// NewService creates a Service backed by the given stores. The transactor
// scopes multi-write operations, currently listing creation with its images.
// If logger is nil, the default logger is used.
func NewService(
	listings store.ListingStore,
	categories store.CategoryStore,
	tx store.Transactor,
	log *slog.Logger,
) Service {
	if listings == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("listing store cannot be nil")
	}
	if categories == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("category store cannot be nil")
	}
	if tx == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("transactor cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &service{
		listings:   listings,
		categories: categories,
		tx:         tx,
		logger:     log.With(slog.String("component", "listing_service")),
	}
}

// Read implements Service.Read.
func (s *service) Read(ctx context.Context, callerID *uuid.UUID, id uuid.UUID) (*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	l, err := s.getListing(ctx, id)
	if err != nil {
		return nil, err
	}

	if !l.IsVisibleTo(callerID) {
		log.Debug("read denied for non-visible listing",
			slog.String("listing_id", id.String()),
			slog.String("status", string(l.Status)))
		return nil, ErrAccessDenied
	}

	// View counting is best effort: the increment is a single atomic UPDATE
	// in the store, and a failure must never fail the read itself.
	if err := s.listings.IncrementViewCount(ctx, id); err != nil {
		log.Warn("failed to increment listing view count",
			slog.String("listing_id", id.String()),
			slog.String("error", err.Error()))
	} else {
		l.ViewCount++
	}

	return l, nil
}

// Create implements Service.Create.
func (s *service) Create(ctx context.Context, callerID uuid.UUID, input CreateInput) (*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	l, err := domain.NewListing(
		callerID,
		input.CategoryID,
		input.Title,
		input.Description,
		input.Price,
		input.Condition,
		input.Location,
		input.Status,
	)
	if err != nil {
		return nil, err
	}

	// Malformed image inputs are rejected before touching the database.
	images := make([]*domain.ListingImage, 0, len(input.ImageURLs))
	for i, url := range input.ImageURLs {
		img, err := domain.NewListingImage(l.ID, url, i, i == 0)
		if err != nil {
			log.Warn("skipping invalid listing image",
				slog.String("listing_id", l.ID.String()),
				slog.Int("position", i),
				slog.String("error", err.Error()))
			continue
		}
		images = append(images, img)
	}

	// The listing and its images commit together: a failed image insert
	// rolls back the parent row instead of leaving a half-attached listing.
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		listings := s.listings.WithTx(tx)
		if err := listings.Create(ctx, l); err != nil {
			return err
		}
		for _, img := range images {
			if err := listings.CreateImage(ctx, img); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	log.Info("listing created",
		slog.String("listing_id", l.ID.String()),
		slog.String("owner_id", callerID.String()),
		slog.String("status", string(l.Status)))
	return l, nil
}

// Update implements Service.Update.
func (s *service) Update(
	ctx context.Context,
	callerID, id uuid.UUID,
	update domain.ListingUpdate,
) (*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	l, err := s.getListing(ctx, id)
	if err != nil {
		return nil, err
	}

	if l.OwnerID != callerID {
		log.Debug("update denied for non-owner",
			slog.String("listing_id", id.String()),
			slog.String("caller_id", callerID.String()))
		return nil, ErrListingNotOwned
	}

	if update.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *update.CategoryID); err != nil {
			if errors.Is(err, store.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to look up category: %w", err)
		}
	}

	if err := l.ApplyUpdate(update); err != nil {
		return nil, err
	}

	if err := s.listings.Update(ctx, l); err != nil {
		if errors.Is(err, store.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	return l, nil
}

// SetStatus implements Service.SetStatus.
func (s *service) SetStatus(
	ctx context.Context,
	callerID, id uuid.UUID,
	status domain.ListingStatus,
) (*domain.Listing, error) {
	return s.Update(ctx, callerID, id, domain.ListingUpdate{Status: &status})
}

// Delete implements Service.Delete.
func (s *service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// The delete is owner-scoped in SQL; a non-owner simply matches zero
	// rows, so existence of the listing is not leaked.
	if err := s.listings.Delete(ctx, id, callerID); err != nil {
		if errors.Is(err, store.ErrListingNotFound) {
			return ErrListingNotFound
		}
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	log.Info("listing deleted",
		slog.String("listing_id", id.String()),
		slog.String("owner_id", callerID.String()))
	return nil
}

// List implements Service.List.
func (s *service) List(ctx context.Context, callerID *uuid.UUID, query ListQuery) (*ListResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	statuses, empty := visibleStatuses(callerID, query.OwnerID, query.Status)
	if empty {
		// The explicit status filter and the visibility rule cannot both
		// hold, e.g. an anonymous caller asking for drafts.
		return &ListResult{Listings: []*domain.Listing{}, Limit: limit, Offset: offset}, nil
	}

	page, err := s.listings.List(ctx, store.ListingFilter{
		OwnerID:    query.OwnerID,
		CategoryID: query.CategoryID,
		Statuses:   statuses,
		Condition:  query.Condition,
		MinPrice:   query.MinPrice,
		MaxPrice:   query.MaxPrice,
		Search:     query.Search,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	return &ListResult{
		Listings: page.Listings,
		Total:    page.Total,
		Limit:    limit,
		Offset:   offset,
		HasMore:  page.Total > int64(offset+limit),
	}, nil
}

// Images implements Service.Images.
func (s *service) Images(ctx context.Context, callerID *uuid.UUID, id uuid.UUID) ([]*domain.ListingImage, error) {
	l, err := s.getListing(ctx, id)
	if err != nil {
		return nil, err
	}

	if !l.IsVisibleTo(callerID) {
		return nil, ErrAccessDenied
	}

	images, err := s.listings.GetImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing images: %w", err)
	}
	return images, nil
}

func (s *service) getListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// visibleStatuses resolves which statuses a query may return. Owners browsing
// their own listings see every status, optionally narrowed by an explicit
// filter. Everyone else is pinned to active; an explicit filter is
// intersected with that, which can make the result provably empty.
func visibleStatuses(
	callerID, ownerFilter *uuid.UUID,
	explicit *domain.ListingStatus,
) (statuses []domain.ListingStatus, empty bool) {
	ownQuery := callerID != nil && ownerFilter != nil && *callerID == *ownerFilter

	if ownQuery {
		if explicit != nil {
			return []domain.ListingStatus{*explicit}, false
		}
		// No constraint: every status of their own.
		return nil, false
	}

	if explicit != nil && *explicit != domain.ListingStatusActive {
		return nil, true
	}
	return []domain.ListingStatus{domain.ListingStatusActive}, false
}
