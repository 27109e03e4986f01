package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTokenStore keeps the token in memory for session tests.
type memoryTokenStore struct {
	token string
}

func (s *memoryTokenStore) Load() (string, error) { return s.token, nil }
func (s *memoryTokenStore) Save(t string) error   { s.token = t; return nil }
func (s *memoryTokenStore) Clear() error          { s.token = ""; return nil }

func jsonHandler(status int, body map[string]interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestSessionRestore(t *testing.T) {
	t.Parallel()

	t.Run("no stored token settles unauthenticated", func(t *testing.T) {
		t.Parallel()

		session := NewSession(New("http://localhost:0"), &memoryTokenStore{})
		require.Equal(t, StateLoading, session.State())

		require.NoError(t, session.Restore(context.Background()))
		assert.Equal(t, StateUnauthenticated, session.State())
		assert.Nil(t, session.User())
	})

	t.Run("a good token settles authenticated", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(jsonHandler(http.StatusOK, map[string]interface{}{
			"status": true,
			"user":   map[string]string{"email": "ada@example.com"},
		}))
		defer server.Close()

		session := NewSession(New(server.URL), &memoryTokenStore{token: "stored-token"})
		require.NoError(t, session.Restore(context.Background()))
		assert.Equal(t, StateAuthenticated, session.State())
		require.NotNil(t, session.User())
		assert.Equal(t, "ada@example.com", session.User().Email)
	})

	t.Run("a rejected token is cleared and settles unauthenticated", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(jsonHandler(http.StatusUnauthorized, map[string]interface{}{
			"status":  false,
			"message": "Invalid token",
		}))
		defer server.Close()

		tokens := &memoryTokenStore{token: "revoked-token"}
		session := NewSession(New(server.URL), tokens)
		require.NoError(t, session.Restore(context.Background()))
		assert.Equal(t, StateUnauthenticated, session.State())
		assert.Empty(t, tokens.token, "a rejected token must not be retried")
	})

	t.Run("an unreachable server keeps the token and the state", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		tokens := &memoryTokenStore{token: "maybe-good-token"}
		session := NewSession(New(server.URL), tokens)

		err := session.Restore(context.Background())
		assert.ErrorIs(t, err, ErrServiceUnavailable)
		assert.Equal(t, StateLoading, session.State(), "nothing can be concluded about the session")
		assert.Equal(t, "maybe-good-token", tokens.token, "the token may still be good")
	})
}

func TestSessionLogin(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(jsonHandler(http.StatusOK, map[string]interface{}{
		"status": true,
		"token":  "issued-token",
		"user":   map[string]string{"email": "ada@example.com"},
	}))
	defer server.Close()

	tokens := &memoryTokenStore{}
	session := NewSession(New(server.URL), tokens)

	user, err := session.Login(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, session.State())
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "issued-token", tokens.token, "the token must be persisted")
}

func TestSessionRegisterLogsIn(t *testing.T) {
	t.Parallel()

	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		switch r.URL.Path {
		case "/register":
			jsonHandler(http.StatusCreated, map[string]interface{}{
				"status": true,
				"user":   map[string]string{"email": "ada@example.com"},
			})(w, r)
		case "/login":
			jsonHandler(http.StatusOK, map[string]interface{}{
				"status": true,
				"token":  "issued-token",
				"user":   map[string]string{"email": "ada@example.com"},
			})(w, r)
		}
	}))
	defer server.Close()

	session := NewSession(New(server.URL), &memoryTokenStore{})
	_, err := session.Register(context.Background(), "Ada", "ada@example.com", "password123", "password123")
	require.NoError(t, err)
	assert.Equal(t, []string{"/register", "/login"}, calls, "registration issues no token, so a login follows")
	assert.Equal(t, StateAuthenticated, session.State())
}

func TestSessionLogout(t *testing.T) {
	t.Parallel()

	t.Run("clears local state when the server confirms", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(jsonHandler(http.StatusOK, map[string]interface{}{
			"status":  true,
			"message": "You successfully logged out",
		}))
		defer server.Close()

		tokens := &memoryTokenStore{token: "live-token"}
		session := NewSession(New(server.URL), tokens)
		session.client.SetToken("live-token")

		require.NoError(t, session.Logout(context.Background()))
		assert.Equal(t, StateUnauthenticated, session.State())
		assert.Empty(t, tokens.token)
		assert.Empty(t, session.client.Token())
	})

	t.Run("clears local state even when the server is unreachable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		tokens := &memoryTokenStore{token: "live-token"}
		session := NewSession(New(server.URL), tokens)
		session.client.SetToken("live-token")

		require.NoError(t, session.Logout(context.Background()))
		assert.Equal(t, StateUnauthenticated, session.State())
		assert.Empty(t, tokens.token, "a lost connection must not trap the user in a session")
	})
}

func TestSessionCompleteHandoff(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(jsonHandler(http.StatusOK, map[string]interface{}{
		"status": true,
		"token":  "handoff-issued-token",
		"user":   map[string]string{"email": "ada@example.com"},
	}))
	defer server.Close()

	tokens := &memoryTokenStore{}
	session := NewSession(New(server.URL), tokens)

	user, err := session.CompleteHandoff(context.Background(), "handoff-ref")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, StateAuthenticated, session.State())
	assert.Equal(t, "handoff-issued-token", tokens.token)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
}
