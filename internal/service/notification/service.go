// Package notification stores and fans out user notifications. The stored
// row is the system of record; pub/sub delivery through the event emitter is
// best effort and never fails the triggering operation.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/events"
	"github.com/mealio/ordering-api/internal/store"
)

// Service records notifications and emits them to delivery handlers.
type Service struct {
	notifications store.NotificationStore
	emitter       events.EventEmitter
	logger        *slog.Logger
}

// NewService creates a notification Service. The emitter may be nil, in which
// case notifications are stored but not fanned out.
func NewService(notifications store.NotificationStore, emitter events.EventEmitter, logger *slog.Logger) *Service {
	return &Service{
		notifications: notifications,
		emitter:       emitter,
		logger:        logger.With(slog.String("component", "notification_service")),
	}
}

// NotifyOrderPlaced records an order_placed notification for the product
// owner and fans it out. An emit failure is logged and swallowed; the cart
// operation that triggered the notification must not fail because a side
// channel is down.
func (s *Service) NotifyOrderPlaced(ctx context.Context, ownerID uuid.UUID, data domain.OrderNotificationData) error {
	n, err := domain.NewNotification(ownerID, domain.NotificationTypeOrderPlaced, data)
	if err != nil {
		return fmt.Errorf("failed to build notification: %w", err)
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.emitter != nil {
		event, err := events.NewNotificationEvent(ownerID, n.Type, data)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to build notification event",
				slog.String("error", err.Error()),
				slog.String("notification_id", n.ID.String()))
			return nil
		}
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "notification fan-out failed",
				slog.String("error", err.Error()),
				slog.String("notification_id", n.ID.String()))
		}
	}

	return nil
}

// ListForUser returns the user's notifications, most recent first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	list, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}
