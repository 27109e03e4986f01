package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
)

// ProductStore defines the interface for product data persistence.
type ProductStore interface {
	// Create saves a new product to the store.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique ID with the owner embedded.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// List retrieves all products with their owners embedded. Order is
	// store-defined. Returns an empty slice when the catalog is empty.
	List(ctx context.Context) ([]*domain.Product, error)
}
