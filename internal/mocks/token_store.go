package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/store"
)

// MockTokenStore implements store.TokenStore for testing.
type MockTokenStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, token *domain.AccessToken) error
	GetByDigestFn  func(ctx context.Context, digest string) (*domain.AccessToken, error)
	DeleteByUserFn func(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUserFn  func(ctx context.Context, userID uuid.UUID) (int64, error)

	// Data for the default in-memory implementation, keyed by digest
	Tokens map[string]*domain.AccessToken
}

// NewMockTokenStore creates a new mock store with initialized defaults.
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		Tokens: make(map[string]*domain.AccessToken),
	}
}

var _ store.TokenStore = (*MockTokenStore)(nil)

// WithTx implements the TokenStore interface. The mock has no transaction
// semantics, so it returns itself.
func (m *MockTokenStore) WithTx(_ *sql.Tx) store.TokenStore {
	return m
}

// Create implements the TokenStore interface.
func (m *MockTokenStore) Create(ctx context.Context, token *domain.AccessToken) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, token)
	}
	m.Tokens[token.Digest] = token
	return nil
}

// GetByDigest implements the TokenStore interface.
func (m *MockTokenStore) GetByDigest(ctx context.Context, digest string) (*domain.AccessToken, error) {
	if m.GetByDigestFn != nil {
		return m.GetByDigestFn(ctx, digest)
	}
	token, exists := m.Tokens[digest]
	if !exists {
		return nil, store.ErrTokenNotFound
	}
	now := time.Now().UTC()
	token.LastUsedAt = &now
	return token, nil
}

// DeleteByUser implements the TokenStore interface.
func (m *MockTokenStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.DeleteByUserFn != nil {
		return m.DeleteByUserFn(ctx, userID)
	}
	var deleted int64
	for digest, token := range m.Tokens {
		if token.UserID == userID {
			delete(m.Tokens, digest)
			deleted++
		}
	}
	return deleted, nil
}

// CountByUser implements the TokenStore interface.
func (m *MockTokenStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.CountByUserFn != nil {
		return m.CountByUserFn(ctx, userID)
	}
	var count int64
	for _, token := range m.Tokens {
		if token.UserID == userID {
			count++
		}
	}
	return count, nil
}
