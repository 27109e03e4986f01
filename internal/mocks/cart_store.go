package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/store"
)

// MockCartStore implements store.CartStore for testing. The default
// implementation honors the same (user, product) uniqueness and ownership
// rules as the real store.
type MockCartStore struct {
	// Function fields for customizable behavior
	UpsertFn     func(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)
	DeleteFn     func(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error)
	DeleteManyFn func(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (int64, error)

	// Data for the default in-memory implementation
	Items map[uuid.UUID]*domain.CartItem
}

// NewMockCartStore creates a new mock store with initialized defaults.
func NewMockCartStore() *MockCartStore {
	return &MockCartStore{
		Items: make(map[uuid.UUID]*domain.CartItem),
	}
}

var _ store.CartStore = (*MockCartStore)(nil)

// Upsert implements the CartStore interface.
func (m *MockCartStore) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, userID, productID, quantity)
	}
	for _, item := range m.Items {
		if item.UserID == userID && item.ProductID == productID {
			item.Quantity += quantity
			item.UpdatedAt = time.Now().UTC()
			return item, nil
		}
	}
	item, err := domain.NewCartItem(userID, productID, quantity)
	if err != nil {
		return nil, err
	}
	m.Items[item.ID] = item
	return item, nil
}

// ListByUser implements the CartStore interface.
func (m *MockCartStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	items := make([]*domain.CartItem, 0)
	for _, item := range m.Items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Delete implements the CartStore interface.
func (m *MockCartStore) Delete(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, itemID)
	}
	item, exists := m.Items[itemID]
	if !exists || item.UserID != userID {
		return nil, store.ErrCartItemNotFound
	}
	delete(m.Items, itemID)
	return item, nil
}

// DeleteMany implements the CartStore interface.
func (m *MockCartStore) DeleteMany(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	if m.DeleteManyFn != nil {
		return m.DeleteManyFn(ctx, userID, itemIDs)
	}
	var deleted int64
	for _, id := range itemIDs {
		if item, exists := m.Items[id]; exists && item.UserID == userID {
			delete(m.Items, id)
			deleted++
		}
	}
	return deleted, nil
}
