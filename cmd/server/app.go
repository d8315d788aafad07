package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/calegray/tradepost/internal/config"
	"github.com/calegray/tradepost/internal/platform/postgres"
	"github.com/calegray/tradepost/internal/service/auth"
	"github.com/calegray/tradepost/internal/service/listing"
	"github.com/calegray/tradepost/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	listingStore  store.ListingStore
	categoryStore store.CategoryStore
	favoriteStore store.FavoriteStore

	// Services
	jwtService     auth.JWTService
	passwordHasher *auth.BcryptHasher
	listingService listing.Service
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies that must be established before
// application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.listingStore = postgres.NewPostgresListingStore(db, logger)
	app.categoryStore = postgres.NewPostgresCategoryStore(db, logger)
	app.favoriteStore = postgres.NewPostgresFavoriteStore(db, logger)

	app.listingService = listing.NewService(
		app.listingStore,
		app.categoryStore,
		store.NewSQLTransactor(db),
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// tokenLifetime returns the configured access token lifetime.
func (app *application) tokenLifetime() time.Duration {
	return time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
