package auth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/mealio/ordering-api/internal/config"
	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/store"
)

// fakeUserStore is a minimal in-memory store.UserStore for bridge tests.
type fakeUserStore struct {
	byEmail   map[string]*domain.User
	handoffs  map[uuid.UUID]string
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail:  make(map[string]*domain.User),
		handoffs: make(map[uuid.UUID]string),
	}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) SetHandoffToken(_ context.Context, userID uuid.UUID, handoff string) error {
	f.handoffs[userID] = handoff
	return nil
}

func (f *fakeUserStore) ConsumeHandoffToken(_ context.Context, handoff string) (*domain.User, error) {
	if handoff == "" {
		return nil, store.ErrHandoffNotFound
	}
	for userID, held := range f.handoffs {
		if held == handoff {
			delete(f.handoffs, userID)
			return f.GetByID(context.Background(), userID)
		}
	}
	return nil, store.ErrHandoffNotFound
}

var _ store.UserStore = (*fakeUserStore)(nil)

// fakeTokenService records issued sessions without any persistence.
type fakeTokenService struct {
	issued []uuid.UUID
}

func (f *fakeTokenService) Issue(_ context.Context, userID uuid.UUID) (string, error) {
	f.issued = append(f.issued, userID)
	return "session-" + userID.String(), nil
}

func (f *fakeTokenService) Validate(context.Context, string) (uuid.UUID, error) {
	return uuid.Nil, ErrInvalidToken
}

func (f *fakeTokenService) RevokeAll(context.Context, uuid.UUID) error { return nil }

func newTestGoogleService(t *testing.T, users store.UserStore, tokens TokenService) *GoogleService {
	t.Helper()

	signer, err := NewStateSigner(testStateSecret)
	require.NoError(t, err)

	cfg := config.OAuthConfig{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleRedirectURL:  "http://localhost:8080/api/auth/google/callback",
	}
	return NewGoogleService(cfg, signer, users, tokens, NewBcryptVerifier(), slog.Default())
}

func userInfoResponse(body string) func(context.Context, *oauth2.Token) (*http.Response, error) {
	return func(context.Context, *oauth2.Token) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		}, nil
	}
}

func TestLoginURLCarriesVerifiableState(t *testing.T) {
	t.Parallel()

	svc := newTestGoogleService(t, newFakeUserStore(), &fakeTokenService{})

	loginURL, err := svc.LoginURL()
	require.NoError(t, err)

	parsed, err := url.Parse(loginURL)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.NoError(t, svc.states.Verify(query.Get("state")))
}

func TestHandleCallbackRejectsBadState(t *testing.T) {
	t.Parallel()

	svc := newTestGoogleService(t, newFakeUserStore(), &fakeTokenService{})

	_, err := svc.HandleCallback(context.Background(), "forged", "code")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestFindOrCreateUser(t *testing.T) {
	t.Parallel()

	info := &googleUserInfo{
		ID:      "google-123",
		Email:   "ada@example.com",
		Name:    "Ada Lovelace",
		Picture: "https://example.com/ada.png",
	}

	t.Run("creates an account on first login", func(t *testing.T) {
		t.Parallel()

		users := newFakeUserStore()
		svc := newTestGoogleService(t, users, &fakeTokenService{})

		user, err := svc.findOrCreateUser(context.Background(), info)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "google-123", user.GoogleID)
		assert.Equal(t, "https://example.com/ada.png", user.ProfilePicture)
		assert.Empty(t, user.Password, "plaintext must not outlive hashing")
		assert.NotEmpty(t, user.HashedPassword)
	})

	t.Run("reuses the account on later logins", func(t *testing.T) {
		t.Parallel()

		users := newFakeUserStore()
		existing, err := domain.NewUser("Ada", "ada@example.com", "secret1")
		require.NoError(t, err)
		existing.HashedPassword = "hash"
		existing.Password = ""
		users.byEmail[existing.Email] = existing

		svc := newTestGoogleService(t, users, &fakeTokenService{})
		user, err := svc.findOrCreateUser(context.Background(), info)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
	})

	t.Run("falls back to the email when the provider sends no name", func(t *testing.T) {
		t.Parallel()

		users := newFakeUserStore()
		svc := newTestGoogleService(t, users, &fakeTokenService{})

		anonymous := *info
		anonymous.Name = ""
		user, err := svc.findOrCreateUser(context.Background(), &anonymous)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Name)
	})

	t.Run("resolves a create race by re-reading", func(t *testing.T) {
		t.Parallel()

		users := newFakeUserStore()
		winner, err := domain.NewUser("Ada", "ada@example.com", "secret1")
		require.NoError(t, err)
		winner.HashedPassword = "hash"
		winner.Password = ""

		users.createErr = store.ErrEmailExists
		svc := newTestGoogleService(t, users, &fakeTokenService{})
		// The concurrent registration lands between our lookup and create.
		users.byEmail[winner.Email] = winner

		user, err := svc.findOrCreateUser(context.Background(), info)
		require.NoError(t, err)
		assert.Equal(t, winner.ID, user.ID)
	})
}

func TestFetchUserInfo(t *testing.T) {
	t.Parallel()

	t.Run("decodes the provider response", func(t *testing.T) {
		t.Parallel()

		svc := newTestGoogleService(t, newFakeUserStore(), &fakeTokenService{})
		svc.httpGet = userInfoResponse(`{"id":"g1","email":"ada@example.com","name":"Ada"}`)

		info, err := svc.fetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "at"})
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", info.Email)
	})

	t.Run("surfaces non-200 responses", func(t *testing.T) {
		t.Parallel()

		svc := newTestGoogleService(t, newFakeUserStore(), &fakeTokenService{})
		svc.httpGet = func(context.Context, *oauth2.Token) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       io.NopCloser(bytes.NewBufferString("token expired")),
			}, nil
		}

		_, err := svc.fetchUserInfo(context.Background(), &oauth2.Token{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("surfaces transport failures", func(t *testing.T) {
		t.Parallel()

		transportErr := errors.New("connection refused")
		svc := newTestGoogleService(t, newFakeUserStore(), &fakeTokenService{})
		svc.httpGet = func(context.Context, *oauth2.Token) (*http.Response, error) {
			return nil, transportErr
		}

		_, err := svc.fetchUserInfo(context.Background(), &oauth2.Token{})
		assert.ErrorIs(t, err, transportErr)
	})
}

func TestResolveHandoff(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	tokens := &fakeTokenService{}
	svc := newTestGoogleService(t, users, tokens)

	user, err := domain.NewUser("Ada", "ada@example.com", "secret1")
	require.NoError(t, err)
	user.HashedPassword = "hash"
	user.Password = ""
	users.byEmail[user.Email] = user

	handoff, err := NewHandoffReference()
	require.NoError(t, err)
	require.NoError(t, users.SetHandoffToken(context.Background(), user.ID, handoff))

	t.Run("trades the reference for a session exactly once", func(t *testing.T) {
		resolved, token, err := svc.ResolveHandoff(context.Background(), handoff)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
		assert.NotEmpty(t, token)
		assert.Equal(t, []uuid.UUID{user.ID}, tokens.issued)

		_, _, err = svc.ResolveHandoff(context.Background(), handoff)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects unknown references", func(t *testing.T) {
		_, _, err := svc.ResolveHandoff(context.Background(), "never-issued")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
