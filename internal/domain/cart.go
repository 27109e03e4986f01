package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common cart validation errors
var (
	ErrEmptyCartItemID  = errors.New("cart item ID cannot be empty")
	ErrEmptyCartUser    = errors.New("cart item user cannot be empty")
	ErrEmptyCartProduct = errors.New("cart item product cannot be empty")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

// CartItem represents a (user, product) pair in a shopping cart.
// The pair is unique per cart; adding the same product again increments
// Quantity instead of creating a second row.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Product is embedded when the cart item is loaded with its product.
	Product *Product `json:"product,omitempty"`
}

// NewCartItem creates a new CartItem for the given user and product.
// A quantity below 1 is rejected.
func NewCartItem(userID, productID uuid.UUID, quantity int) (*CartItem, error) {
	now := time.Now().UTC()
	item := &CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the CartItem has valid data.
func (c *CartItem) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCartItemID
	}
	if c.UserID == uuid.Nil {
		return ErrEmptyCartUser
	}
	if c.ProductID == uuid.Nil {
		return ErrEmptyCartProduct
	}
	if c.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}
