package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mealio/ordering-api/internal/service/auth"
	"github.com/mealio/ordering-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid token", err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "missing token", err: auth.ErrMissingToken, want: http.StatusUnauthorized},
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, want: http.StatusNotFound},
		{name: "user not found", err: store.ErrUserNotFound, want: http.StatusNotFound},
		{name: "product not found", err: store.ErrProductNotFound, want: http.StatusNotFound},
		{name: "cart item not found", err: store.ErrCartItemNotFound, want: http.StatusNotFound},
		{name: "handoff not found", err: store.ErrHandoffNotFound, want: http.StatusForbidden},
		{name: "email exists", err: store.ErrEmailExists, want: http.StatusConflict},
		{name: "invalid entity", err: store.ErrInvalidEntity, want: http.StatusBadRequest},
		{name: "wrapped sentinel", err: fmt.Errorf("lookup: %w", store.ErrUserNotFound), want: http.StatusNotFound},
		{name: "unknown error", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: "An unexpected error occurred"},
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, want: "Invalid credentials. Please try again."},
		{name: "user not found", err: store.ErrUserNotFound, want: "We could not find any user with the email you inputted"},
		{name: "handoff not found", err: store.ErrHandoffNotFound, want: "Invalid or expired login token"},
		{name: "email exists", err: store.ErrEmailExists, want: "The email has already been taken."},
		{
			name: "unknown error stays hidden",
			err:  errors.New("pq: password authentication failed for user app"),
			want: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}
