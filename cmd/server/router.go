package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/calegray/tradepost/internal/api"
	apiMiddleware "github.com/calegray/tradepost/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordHasher,
		app.tokenLifetime(),
		app.logger,
	)
	listingHandler := api.NewListingHandler(app.listingService, app.logger)
	categoryHandler := api.NewCategoryHandler(app.categoryStore, app.listingService, app.logger)
	profileHandler := api.NewProfileHandler(app.userStore, app.listingService, app.logger)
	favoriteHandler := api.NewFavoriteHandler(app.favoriteStore, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Public reads. Optional authentication so owners see their own
		// non-active listings.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.AuthenticateOptional)

			r.Get("/listings", listingHandler.List)
			r.Get("/listings/{id}", listingHandler.Get)
			r.Get("/listings/{id}/images", listingHandler.Images)

			r.Get("/categories", categoryHandler.List)
			r.Get("/categories/{id}", categoryHandler.Get)
			r.Get("/categories/{id}/listings", categoryHandler.Listings)

			r.Get("/profiles/{id}", profileHandler.Get)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Post("/listings", listingHandler.Create)
			r.Put("/listings/{id}", listingHandler.Update)
			r.Patch("/listings/{id}/status", listingHandler.SetStatus)
			r.Delete("/listings/{id}", listingHandler.Delete)

			r.Get("/profiles/me", profileHandler.Me)
			r.Put("/profiles/me", profileHandler.UpdateMe)
			r.Get("/profiles/me/listings", profileHandler.MyListings)

			r.Get("/favorites", favoriteHandler.List)
			r.Post("/favorites/{listingID}", favoriteHandler.Add)
			r.Delete("/favorites/{listingID}", favoriteHandler.Remove)
			r.Get("/favorites/{listingID}", favoriteHandler.Check)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
