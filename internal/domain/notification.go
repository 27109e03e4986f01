package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// NotificationTypeOrderPlaced is sent to a product owner when a buyer adds
// their product to a cart.
const NotificationTypeOrderPlaced = "order_placed"

// Common notification validation errors
var (
	ErrEmptyNotificationID   = errors.New("notification ID cannot be empty")
	ErrEmptyNotificationUser = errors.New("notification user cannot be empty")
	ErrEmptyNotificationType = errors.New("notification type cannot be empty")
)

// Notification is a durable message addressed to one user. Data carries the
// type-specific payload as raw JSON.
type Notification struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderNotificationData is the payload of an order_placed notification.
type OrderNotificationData struct {
	CartItemID  uuid.UUID `json:"cart_item_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	BuyerName   string    `json:"buyer_name"`
}

// NewNotification creates a new Notification addressed to the given user,
// serializing the payload to JSON.
func NewNotification(userID uuid.UUID, notificationType string, payload interface{}) (*Notification, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notificationType,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}
	if n.UserID == uuid.Nil {
		return ErrEmptyNotificationUser
	}
	if n.Type == "" {
		return ErrEmptyNotificationType
	}
	return nil
}
