package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
)

// CartStore defines the interface for cart item persistence.
type CartStore interface {
	// Upsert adds the given quantity of a product to a user's cart. If a row
	// for the (user, product) pair already exists its quantity is incremented,
	// otherwise a new row is created. The decision is made atomically in the
	// store, so concurrent adds for the same pair cannot produce duplicates.
	// Returns the resulting row.
	// Returns ErrInvalidEntity if the product or user does not exist.
	Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error)

	// ListByUser retrieves all cart items for a user, most recently created
	// first, with products embedded. Returns an empty slice when the cart is
	// empty.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)

	// Delete removes a single cart item owned by the given user.
	// Returns the deleted item with its product embedded, or
	// ErrCartItemNotFound if no such row exists for that user.
	Delete(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error)

	// DeleteMany removes the given cart items owned by the given user and
	// reports how many rows were actually deleted. IDs that do not exist or
	// belong to another user are skipped.
	DeleteMany(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (int64, error)
}
