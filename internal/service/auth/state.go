package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// stateLifetime bounds how long an OAuth redirect may stay open before the
// callback is rejected.
const stateLifetime = 10 * time.Minute

// StateSigner signs and verifies the OAuth state parameter as a short-lived
// HMAC JWT, so the callback can reject forged or replayed redirects without
// any server-side session.
type StateSigner struct {
	signingKey []byte
	timeFunc   func() time.Time // Injectable for testing
}

// NewStateSigner creates a StateSigner with the given secret.
func NewStateSigner(secret string) (*StateSigner, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("state secret must be at least 32 characters")
	}
	return &StateSigner{
		signingKey: []byte(secret),
		timeFunc:   time.Now,
	}, nil
}

// Sign produces a fresh state parameter.
func (s *StateSigner) Sign() (string, error) {
	now := s.timeFunc()

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateLifetime)),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign oauth state: %w", err)
	}
	return signed, nil
}

// Verify checks a state parameter returned by the provider callback.
// Returns ErrInvalidState if the signature or time claims fail.
func (s *StateSigner) Verify(state string) error {
	_, err := jwt.Parse(
		state,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(func() time.Time { return s.timeFunc() }),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}
