package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/platform/logger"
	"github.com/mealio/ordering-api/internal/store"
)

// TokenService manages opaque bearer tokens. The plaintext form is
// "<row id>|<random hex>" and is returned to the client exactly once; only
// its SHA-256 digest is persisted, so a database leak exposes no usable
// credentials.
type TokenService interface {
	// Issue revokes every existing token for the user and mints a new one,
	// returning the plaintext form. At most one session is live per user.
	Issue(ctx context.Context, userID uuid.UUID) (string, error)

	// Validate resolves a plaintext token to the user it was issued for.
	// Returns ErrInvalidToken if no live session matches.
	Validate(ctx context.Context, plaintext string) (uuid.UUID, error)

	// RevokeAll deletes every token for the user.
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// tokenService is the store-backed TokenService implementation.
type tokenService struct {
	tokens store.TokenStore
	db     *sql.DB
	logger *slog.Logger
}

// NewTokenService creates a TokenService backed by the given token store.
// db may be nil, in which case Issue runs without an enclosing transaction;
// tests use this with in-memory stores.
func NewTokenService(tokens store.TokenStore, db *sql.DB, logger *slog.Logger) TokenService {
	if logger == nil {
		logger = slog.Default()
	}
	return &tokenService{
		tokens: tokens,
		db:     db,
		logger: logger.With(slog.String("component", "token_service")),
	}
}

var _ TokenService = (*tokenService)(nil)

// Digest returns the hex SHA-256 digest of a plaintext token.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// NewHandoffReference generates an opaque single-use reference for the
// federated login redirect.
func NewHandoffReference() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate handoff reference: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Issue implements TokenService.Issue. Revoking prior tokens and storing the
// new one run in a single transaction, so a failure can never leave the user
// with both the old and the new session live.
func (s *tokenService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}

	id := uuid.New()
	plaintext := id.String() + "|" + hex.EncodeToString(secret)

	token, err := domain.NewAccessToken(userID, Digest(plaintext))
	if err != nil {
		return "", err
	}
	// The row ID doubles as the token prefix.
	token.ID = id

	mint := func(ctx context.Context, tokens store.TokenStore) error {
		revoked, err := tokens.DeleteByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to revoke prior tokens: %w", err)
		}
		if revoked > 0 {
			log.Debug("revoked prior sessions",
				slog.String("user_id", userID.String()),
				slog.Int64("count", revoked))
		}
		if err := tokens.Create(ctx, token); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}
		return nil
	}

	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return mint(ctx, s.tokens.WithTx(tx))
		})
	} else {
		err = mint(ctx, s.tokens)
	}
	if err != nil {
		return "", err
	}

	log.Info("token issued", slog.String("user_id", userID.String()))
	return plaintext, nil
}

// Validate implements TokenService.Validate.
func (s *tokenService) Validate(ctx context.Context, plaintext string) (uuid.UUID, error) {
	if plaintext == "" {
		return uuid.Nil, ErrMissingToken
	}
	if !strings.Contains(plaintext, "|") {
		return uuid.Nil, ErrInvalidToken
	}

	token, err := s.tokens.GetByDigest(ctx, Digest(plaintext))
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return uuid.Nil, ErrInvalidToken
		}
		return uuid.Nil, fmt.Errorf("failed to look up token: %w", err)
	}

	return token.UserID, nil
}

// RevokeAll implements TokenService.RevokeAll.
func (s *tokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.tokens.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}
