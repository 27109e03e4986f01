package mocks

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn              func(ctx context.Context, user *domain.User) error
	GetByIDFn             func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn          func(ctx context.Context, email string) (*domain.User, error)
	SetHandoffTokenFn     func(ctx context.Context, userID uuid.UUID, handoff string) error
	ConsumeHandoffTokenFn func(ctx context.Context, handoff string) (*domain.User, error)

	// Data for the default in-memory implementation, keyed by email
	Users map[string]*domain.User
}

// NewMockUserStore creates a new mock store with initialized defaults.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	key := strings.ToLower(user.Email)
	if _, exists := m.Users[key]; exists {
		return store.ErrEmailExists
	}
	m.Users[key] = user
	return nil
}

// GetByID implements the UserStore interface.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	user, exists := m.Users[strings.ToLower(email)]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// SetHandoffToken implements the UserStore interface.
func (m *MockUserStore) SetHandoffToken(ctx context.Context, userID uuid.UUID, handoff string) error {
	if m.SetHandoffTokenFn != nil {
		return m.SetHandoffTokenFn(ctx, userID, handoff)
	}
	for _, user := range m.Users {
		if user.ID == userID {
			user.HandoffToken = handoff
			return nil
		}
	}
	return store.ErrUserNotFound
}

// ConsumeHandoffToken implements the UserStore interface.
func (m *MockUserStore) ConsumeHandoffToken(ctx context.Context, handoff string) (*domain.User, error) {
	if m.ConsumeHandoffTokenFn != nil {
		return m.ConsumeHandoffTokenFn(ctx, handoff)
	}
	if handoff == "" {
		return nil, store.ErrHandoffNotFound
	}
	for _, user := range m.Users {
		if user.HandoffToken == handoff {
			user.HandoffToken = ""
			return user, nil
		}
	}
	return nil, store.ErrHandoffNotFound
}
