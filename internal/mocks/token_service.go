package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing.
type MockTokenService struct {
	// Function fields for customizable behavior
	IssueFn     func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateFn  func(ctx context.Context, plaintext string) (uuid.UUID, error)
	RevokeAllFn func(ctx context.Context, userID uuid.UUID) error

	// Data for the default implementation: plaintext token to user ID
	Sessions map[string]uuid.UUID

	// IssuedToken is returned by the default Issue implementation
	IssuedToken string

	// RevokeAllCalls records the user IDs RevokeAll was called with
	RevokeAllCalls []uuid.UUID
}

// NewMockTokenService creates a new mock service with initialized defaults.
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{
		Sessions:    make(map[string]uuid.UUID),
		IssuedToken: "test-token",
	}
}

var _ auth.TokenService = (*MockTokenService)(nil)

// Issue implements the TokenService interface. The default revokes prior
// sessions for the user and records the issued token.
func (m *MockTokenService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, userID)
	}
	for token, id := range m.Sessions {
		if id == userID {
			delete(m.Sessions, token)
		}
	}
	m.Sessions[m.IssuedToken] = userID
	return m.IssuedToken, nil
}

// Validate implements the TokenService interface.
func (m *MockTokenService) Validate(ctx context.Context, plaintext string) (uuid.UUID, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, plaintext)
	}
	userID, ok := m.Sessions[plaintext]
	if !ok {
		return uuid.Nil, auth.ErrInvalidToken
	}
	return userID, nil
}

// RevokeAll implements the TokenService interface.
func (m *MockTokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	m.RevokeAllCalls = append(m.RevokeAllCalls, userID)
	if m.RevokeAllFn != nil {
		return m.RevokeAllFn(ctx, userID)
	}
	for token, id := range m.Sessions {
		if id == userID {
			delete(m.Sessions, token)
		}
	}
	return nil
}

// MockPasswordVerifier implements auth.PasswordVerifier and
// auth.PasswordHasher for testing.
type MockPasswordVerifier struct {
	// ShouldSucceed determines whether the password comparison succeeds
	ShouldSucceed bool

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error
}

var (
	_ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)
	_ auth.PasswordHasher   = (*MockPasswordVerifier)(nil)
)

// NewMockPasswordVerifier creates a new mock verifier.
func NewMockPasswordVerifier() *MockPasswordVerifier {
	return &MockPasswordVerifier{}
}

// Compare implements the auth.PasswordVerifier interface. The default
// accepts the pair when hashedPassword is the mock hash of password and
// reports a mismatch the way the real verifier does.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed || hashedPassword == "hashed:"+password {
		return nil
	}
	return auth.ErrInvalidCredentials
}

// Hash implements the auth.PasswordHasher interface with a recognizable
// fake hash.
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}
