package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealio/ordering-api/internal/mocks"
	"github.com/mealio/ordering-api/internal/service/auth"
)

func TestTokenServiceIssue(t *testing.T) {
	t.Parallel()

	t.Run("returns plaintext and stores only the digest", func(t *testing.T) {
		t.Parallel()

		tokens := mocks.NewMockTokenStore()
		svc := auth.NewTokenService(tokens, nil, nil)
		userID := uuid.New()

		plaintext, err := svc.Issue(context.Background(), userID)
		require.NoError(t, err)

		parts := strings.SplitN(plaintext, "|", 2)
		require.Len(t, parts, 2)
		_, err = uuid.Parse(parts[0])
		assert.NoError(t, err, "token prefix should be the row UUID")
		assert.Len(t, parts[1], 64, "token secret should be 32 random bytes hex encoded")

		require.Len(t, tokens.Tokens, 1)
		stored, ok := tokens.Tokens[auth.Digest(plaintext)]
		require.True(t, ok, "store should be keyed by the digest, not the plaintext")
		assert.Equal(t, userID, stored.UserID)
		assert.NotContains(t, stored.Digest, "|")
	})

	t.Run("revokes prior sessions so only one token is live", func(t *testing.T) {
		t.Parallel()

		tokens := mocks.NewMockTokenStore()
		svc := auth.NewTokenService(tokens, nil, nil)
		userID := uuid.New()
		ctx := context.Background()

		var last string
		for i := 0; i < 3; i++ {
			plaintext, err := svc.Issue(ctx, userID)
			require.NoError(t, err)
			last = plaintext
		}

		require.Len(t, tokens.Tokens, 1)

		resolved, err := svc.Validate(ctx, last)
		require.NoError(t, err)
		assert.Equal(t, userID, resolved)
	})

	t.Run("keeps other users' sessions intact", func(t *testing.T) {
		t.Parallel()

		tokens := mocks.NewMockTokenStore()
		svc := auth.NewTokenService(tokens, nil, nil)
		ctx := context.Background()

		alice := uuid.New()
		bob := uuid.New()

		aliceToken, err := svc.Issue(ctx, alice)
		require.NoError(t, err)
		_, err = svc.Issue(ctx, bob)
		require.NoError(t, err)

		resolved, err := svc.Validate(ctx, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, alice, resolved)
	})

	t.Run("propagates store failure", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("connection reset")
		tokens := mocks.NewMockTokenStore()
		tokens.DeleteByUserFn = func(ctx context.Context, userID uuid.UUID) (int64, error) {
			return 0, storeErr
		}
		svc := auth.NewTokenService(tokens, nil, nil)

		_, err := svc.Issue(context.Background(), uuid.New())
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestTokenServiceValidate(t *testing.T) {
	t.Parallel()

	tokens := mocks.NewMockTokenStore()
	svc := auth.NewTokenService(tokens, nil, nil)
	ctx := context.Background()
	userID := uuid.New()

	plaintext, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	t.Run("valid token resolves to its user", func(t *testing.T) {
		resolved, err := svc.Validate(ctx, plaintext)
		require.NoError(t, err)
		assert.Equal(t, userID, resolved)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.Validate(ctx, "")
		assert.ErrorIs(t, err, auth.ErrMissingToken)
	})

	t.Run("malformed token without separator", func(t *testing.T) {
		_, err := svc.Validate(ctx, "not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("tampered secret", func(t *testing.T) {
		tampered := plaintext[:len(plaintext)-1] + "0"
		if tampered == plaintext {
			tampered = plaintext[:len(plaintext)-1] + "1"
		}
		_, err := svc.Validate(ctx, tampered)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("revoked token", func(t *testing.T) {
		require.NoError(t, svc.RevokeAll(ctx, userID))
		_, err := svc.Validate(ctx, plaintext)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
