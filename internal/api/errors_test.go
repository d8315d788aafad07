package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/service/auth"
	"github.com/calegray/tradepost/internal/service/listing"
	"github.com/calegray/tradepost/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},

		{"access denied", listing.ErrAccessDenied, http.StatusForbidden},
		{"not owned", listing.ErrListingNotOwned, http.StatusForbidden},

		{"listing not found", listing.ErrListingNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"category not found in store", store.ErrCategoryNotFound, http.StatusNotFound},
		{"favorite not found", store.ErrFavoriteNotFound, http.StatusNotFound},

		{"duplicate email", store.ErrEmailExists, http.StatusBadRequest},
		{"duplicate favorite", store.ErrFavoriteExists, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"category not found on create", listing.ErrCategoryNotFound, http.StatusBadRequest},
		{"invalid initial status", domain.ErrInvalidInitialStatus, http.StatusBadRequest},
		{"invalid status value", domain.ErrInvalidStatus, http.StatusBadRequest},
		{"negative price", domain.ErrNegativeListingPrice, http.StatusBadRequest},
		{
			"field validation error",
			domain.NewValidationError("limit", "must be between 1 and 100", domain.ErrValidation),
			http.StatusBadRequest,
		},

		{"unknown error", errors.New("pq: connection refused"), http.StatusInternalServerError},
		{"wrapped unknown error", fmt.Errorf("query failed: %w", errors.New("timeout")), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestMapErrorToStatusCodeWrapped(t *testing.T) {
	t.Parallel()

	// Errors stay mappable through fmt.Errorf wrapping.
	wrapped := fmt.Errorf("failed to update listing: %w", listing.ErrListingNotOwned)
	assert.Equal(t, http.StatusForbidden, MapErrorToStatusCode(wrapped))
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"access denied", listing.ErrAccessDenied, "You do not have access to this listing"},
		{"not owned", listing.ErrListingNotOwned, "You do not own this listing"},
		{"listing not found", listing.ErrListingNotFound, "Listing not found"},
		{"duplicate email", store.ErrEmailExists, "Email already registered"},
		{"duplicate favorite", store.ErrFavoriteExists, "Listing already in favorites"},
		{"category missing", listing.ErrCategoryNotFound, "Category not found"},
		{"internal detail hidden", errors.New("pq: relation listings does not exist"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestGetSafeErrorMessageRelaysValidationDetail(t *testing.T) {
	t.Parallel()

	err := domain.NewValidationError("min_price", "must be a non-negative number", domain.ErrValidation)
	assert.Contains(t, GetSafeErrorMessage(err), "min_price")
}
