package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
)

// TokenStore defines the interface for access token persistence.
// Tokens are stored by digest only; the plaintext never reaches the store.
type TokenStore interface {
	// Create saves a new access token row.
	Create(ctx context.Context, token *domain.AccessToken) error

	// GetByDigest retrieves a token by the digest of its plaintext form and
	// stamps last_used_at. Returns ErrTokenNotFound if no token matches.
	GetByDigest(ctx context.Context, digest string) (*domain.AccessToken, error)

	// DeleteByUser revokes all tokens for a user and reports how many rows
	// were deleted. Called before minting a new token and on logout, which
	// keeps at most one session live per user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// CountByUser reports how many token rows a user currently holds.
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// WithTx returns a copy of the store bound to the given transaction, so
	// revoke-and-mint can run atomically.
	WithTx(tx *sql.Tx) TokenStore
}
