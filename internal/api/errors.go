package api

import (
	"errors"
	"net/http"

	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/service/auth"
	"github.com/calegray/tradepost/internal/service/listing"
	"github.com/calegray/tradepost/internal/store"
)

// domainValidationErrors are domain sentinels that indicate malformed input
// rather than a server fault.
var domainValidationErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidID,
	domain.ErrInvalidStatus,
	domain.ErrInvalidCondition,
	domain.ErrInvalidInitialStatus,
	domain.ErrEmptyListingTitle,
	domain.ErrEmptyListingDesc,
	domain.ErrEmptyListingLocation,
	domain.ErrEmptyListingCategory,
	domain.ErrNegativeListingPrice,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrEmptyEmail,
	domain.ErrEmptyPassword,
	domain.ErrEmptyImageURL,
}

func isDomainValidationError(err error) bool {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, sentinel := range domainValidationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, listing.ErrAccessDenied),
		errors.Is(err, listing.ErrListingNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, listing.ErrListingNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors: conflicts (duplicate email, duplicate favorite),
	// store-level rejections and malformed entities all answer 400.
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, listing.ErrCategoryNotFound),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Invalid refresh token"

	case errors.Is(err, listing.ErrAccessDenied):
		return "You do not have access to this listing"
	case errors.Is(err, listing.ErrListingNotOwned):
		return "You do not own this listing"

	case errors.Is(err, listing.ErrListingNotFound):
		return "Listing not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrCategoryNotFound),
		errors.Is(err, listing.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, store.ErrFavoriteNotFound):
		return "Favorite not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"
	case errors.Is(err, store.ErrFavoriteExists):
		return "Listing already in favorites"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case isDomainValidationError(err):
		// Domain validation messages are written for users; safe to relay.
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status code and safe message and writes the
// error response, logging the full error detail. An explicit userMessage
// overrides the derived safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	message := userMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	RespondWithErrorAndLog(w, r, status, message, err)
}
