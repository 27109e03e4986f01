package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
type NotificationStore interface {
	// Create saves a new notification.
	// Returns ErrInvalidEntity if the recipient does not exist.
	Create(ctx context.Context, notification *domain.Notification) error

	// ListByUser retrieves all notifications addressed to a user, most recent
	// first. Returns an empty slice when there are none.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
}
