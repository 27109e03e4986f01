package mocks

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/store"
)

// MockNotificationStore implements store.NotificationStore for testing.
type MockNotificationStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, notification *domain.Notification) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)

	// Data for the default in-memory implementation
	Notifications []*domain.Notification
}

// NewMockNotificationStore creates a new mock store with initialized
// defaults.
func NewMockNotificationStore() *MockNotificationStore {
	return &MockNotificationStore{}
}

var _ store.NotificationStore = (*MockNotificationStore)(nil)

// Create implements the NotificationStore interface.
func (m *MockNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, notification)
	}
	m.Notifications = append(m.Notifications, notification)
	return nil
}

// ListByUser implements the NotificationStore interface.
func (m *MockNotificationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	list := make([]*domain.Notification, 0)
	for _, n := range m.Notifications {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}
