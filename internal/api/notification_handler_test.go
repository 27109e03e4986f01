package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/mocks"
	"github.com/mealio/ordering-api/internal/service/notification"
)

func TestNotificationList(t *testing.T) {
	t.Parallel()

	newHandler := func(store *mocks.MockNotificationStore) *NotificationHandler {
		return NewNotificationHandler(notification.NewService(store, nil, slog.Default()))
	}

	t.Run("an empty feed is a normal 200", func(t *testing.T) {
		t.Parallel()

		handler := newHandler(mocks.NewMockNotificationStore())
		req := asUser(newRequest(t, http.MethodGet, "/api/notifications", nil), uuid.New())
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Status)
		assert.Empty(t, env.Notifications)
	})

	t.Run("returns only the caller's notifications", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewMockNotificationStore()
		owner := uuid.New()
		other := uuid.New()
		for _, recipient := range []uuid.UUID{owner, owner, other} {
			n, err := domain.NewNotification(recipient, domain.NotificationTypeOrderPlaced,
				domain.OrderNotificationData{ProductName: "Nasi Goreng", Quantity: 1})
			require.NoError(t, err)
			require.NoError(t, store.Create(context.Background(), n))
		}

		handler := newHandler(store)
		req := asUser(newRequest(t, http.MethodGet, "/api/notifications", nil), owner)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		require.Len(t, env.Notifications, 2)
		for _, n := range env.Notifications {
			assert.Equal(t, owner, n.UserID)
		}
	})

	t.Run("requires authentication context", func(t *testing.T) {
		t.Parallel()

		handler := newHandler(mocks.NewMockNotificationStore())
		rec := httptest.NewRecorder()
		handler.List(rec, newRequest(t, http.MethodGet, "/api/notifications", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
