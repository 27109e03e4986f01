package api

import (
	"errors"
	"net/http"

	"github.com/mealio/ordering-api/internal/api/shared"
	"github.com/mealio/ordering-api/internal/service/auth"
	"github.com/mealio/ordering-api/internal/store"
)

// respondWithMappedError translates a service or store error into its HTTP
// status code and safe message and writes the failure envelope. The
// underlying error is logged with redaction; only the safe message reaches
// the client. Handlers use this for error branches that have no
// endpoint-specific contract of their own.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors. A failed credential check is a 404 as well, with
	// a message distinct from the unknown-email one.
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrCartItemNotFound):
		return http.StatusNotFound

	// The handoff reference is a credential, so a bad one is forbidden
	// rather than merely absent.
	case errors.Is(err, store.ErrHandoffNotFound):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
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
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials. Please try again."

	case errors.Is(err, store.ErrUserNotFound):
		return "We could not find any user with the email you inputted"

	case errors.Is(err, store.ErrProductNotFound):
		return "Product not found"

	case errors.Is(err, store.ErrCartItemNotFound):
		return "Cart item not found"

	case errors.Is(err, store.ErrHandoffNotFound):
		return "Invalid or expired login token"

	case errors.Is(err, store.ErrEmailExists):
		return "The email has already been taken."

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
