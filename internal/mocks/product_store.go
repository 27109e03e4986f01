package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/store"
)

// MockProductStore implements store.ProductStore for testing.
type MockProductStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, product *domain.Product) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListFn    func(ctx context.Context) ([]*domain.Product, error)

	// Data for the default in-memory implementation
	Products map[uuid.UUID]*domain.Product
}

// NewMockProductStore creates a new mock store with initialized defaults.
func NewMockProductStore() *MockProductStore {
	return &MockProductStore{
		Products: make(map[uuid.UUID]*domain.Product),
	}
}

var _ store.ProductStore = (*MockProductStore)(nil)

// Create implements the ProductStore interface.
func (m *MockProductStore) Create(ctx context.Context, product *domain.Product) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, product)
	}
	m.Products[product.ID] = product
	return nil
}

// GetByID implements the ProductStore interface.
func (m *MockProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	product, exists := m.Products[id]
	if !exists {
		return nil, store.ErrProductNotFound
	}
	return product, nil
}

// List implements the ProductStore interface.
func (m *MockProductStore) List(ctx context.Context) ([]*domain.Product, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	products := make([]*domain.Product, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, p)
	}
	return products, nil
}
