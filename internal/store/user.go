package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The caller must have hashed the
	// password already; only HashedPassword is persisted.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (case-insensitive).
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetHandoffToken stores the single-use federated login handoff reference
	// on the user row. An empty value clears it.
	// Returns ErrUserNotFound if the user does not exist.
	SetHandoffToken(ctx context.Context, userID uuid.UUID, handoff string) error

	// ConsumeHandoffToken resolves a handoff reference to its user and clears
	// the reference in the same statement, guaranteeing single use.
	// Returns ErrHandoffNotFound if no user holds the reference.
	ConsumeHandoffToken(ctx context.Context, handoff string) (*domain.User, error)
}
