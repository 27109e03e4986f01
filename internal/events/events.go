package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationEvent is a notification fanned out to delivery handlers after
// it has been stored durably. Handlers deliver it over side channels (for
// example a Redis pub/sub feed) and must never be the system of record.
type NotificationEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type names the notification kind, e.g. "order_placed"
	Type string `json:"type"`

	// RecipientID is the user the notification is addressed to
	RecipientID uuid.UUID `json:"recipient_id"`

	// Payload carries the notification-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *NotificationEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewNotificationEvent creates a NotificationEvent for the given recipient.
func NewNotificationEvent(recipientID uuid.UUID, eventType string, payload interface{}) (*NotificationEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &NotificationEvent{
		ID:          uuid.New(),
		Type:        eventType,
		RecipientID: recipientID,
		Payload:     payloadBytes,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *NotificationEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *NotificationEvent) error
}
