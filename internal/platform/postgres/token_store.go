package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/platform/logger"
	"github.com/mealio/ordering-api/internal/store"
)

// TokenStore implements the store.TokenStore interface using a PostgreSQL
// database as the storage backend.
type TokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTokenStore creates a new PostgreSQL implementation of the TokenStore
// interface.
func NewTokenStore(db store.DBTX, logger *slog.Logger) *TokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

// Ensure TokenStore implements store.TokenStore interface
var _ store.TokenStore = (*TokenStore)(nil)

// WithTx implements store.TokenStore.WithTx.
func (s *TokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &TokenStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TokenStore.Create.
func (s *TokenStore) Create(ctx context.Context, token *domain.AccessToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := token.Validate(); err != nil {
		log.Warn("token validation failed during create",
			slog.String("error", err.Error()),
			slog.String("token_id", token.ID.String()))
		return err
	}

	query := `
		INSERT INTO access_tokens (id, user_id, digest, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		token.ID,
		token.UserID,
		token.Digest,
		token.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, token.UserID)
		}

		log.Error("failed to create access token",
			slog.String("error", err.Error()),
			slog.String("token_id", token.ID.String()))
		return MapError(err)
	}

	log.Debug("access token created",
		slog.String("token_id", token.ID.String()),
		slog.String("user_id", token.UserID.String()))
	return nil
}

// GetByDigest implements store.TokenStore.GetByDigest.
// Returns store.ErrTokenNotFound if no token matches the digest.
func (s *TokenStore) GetByDigest(ctx context.Context, digest string) (*domain.AccessToken, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE access_tokens
		SET last_used_at = $1
		WHERE digest = $2
		RETURNING id, user_id, digest, created_at, last_used_at
	`

	var token domain.AccessToken
	var lastUsedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, time.Now().UTC(), digest).Scan(
		&token.ID,
		&token.UserID,
		&token.Digest,
		&token.CreatedAt,
		&lastUsedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("access token not found")
			return nil, store.ErrTokenNotFound
		}
		log.Error("failed to get access token",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if lastUsedAt.Valid {
		token.LastUsedAt = &lastUsedAt.Time
	}

	return &token, nil
}

// DeleteByUser implements store.TokenStore.DeleteByUser.
func (s *TokenStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM access_tokens WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		log.Error("failed to delete access tokens",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Debug("access tokens revoked",
		slog.String("user_id", userID.String()),
		slog.Int64("count", deleted))
	return deleted, nil
}

// CountByUser implements store.TokenStore.CountByUser.
func (s *TokenStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT count(*) FROM access_tokens WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}
