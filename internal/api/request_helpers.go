package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/api/middleware"
	"github.com/mealio/ordering-api/internal/api/shared"
)

// getPathUUID extracts and parses a UUID path parameter. The second return
// is false when the parameter is missing or malformed.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// requireUserID extracts the authenticated user ID placed in the context by
// the auth middleware, or writes a 401 response.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Failed to load, Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}
