package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common access token validation errors
var (
	ErrEmptyTokenID     = errors.New("token ID cannot be empty")
	ErrEmptyTokenUser   = errors.New("token user cannot be empty")
	ErrEmptyTokenDigest = errors.New("token digest cannot be empty")
)

// AccessToken is an opaque bearer credential bound to one user. Only the
// SHA-256 digest of the plaintext token is persisted; the plaintext is shown
// to the client exactly once when the token is issued. At most one token per
// user is live at a time: issuing deletes all prior rows for that user.
type AccessToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Digest     string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// NewAccessToken creates a new AccessToken row for the given user and
// plaintext digest.
func NewAccessToken(userID uuid.UUID, digest string) (*AccessToken, error) {
	token := &AccessToken{
		ID:        uuid.New(),
		UserID:    userID,
		Digest:    digest,
		CreatedAt: time.Now().UTC(),
	}

	if err := token.Validate(); err != nil {
		return nil, err
	}

	return token, nil
}

// Validate checks if the AccessToken has valid data.
func (t *AccessToken) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTokenID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTokenUser
	}
	if t.Digest == "" {
		return ErrEmptyTokenDigest
	}
	return nil
}
