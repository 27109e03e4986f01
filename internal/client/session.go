package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/mealio/ordering-api/internal/domain"
)

// State is the authentication state of the client session.
type State int

const (
	// StateLoading is the initial state, before the stored token has been
	// checked against the server.
	StateLoading State = iota

	// StateAuthenticated means a token is held and a profile fetch
	// succeeded.
	StateAuthenticated

	// StateUnauthenticated means no usable token is held.
	StateUnauthenticated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session drives the authentication state machine over a Client and a
// TokenStore. It starts in StateLoading; Restore moves it to authenticated
// or unauthenticated based on the stored token.
//
// A transport failure during Restore does not invalidate the session: the
// token may still be good, so the state is left as it was and the caller
// gets ErrServiceUnavailable to retry on. Only an actual unauthorized
// response clears the stored token.
type Session struct {
	client *Client
	tokens TokenStore
	state  State
	user   *domain.User
}

// NewSession creates a Session in StateLoading.
func NewSession(client *Client, tokens TokenStore) *Session {
	return &Session{
		client: client,
		tokens: tokens,
		state:  StateLoading,
	}
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// User returns the authenticated user, or nil outside StateAuthenticated.
func (s *Session) User() *domain.User { return s.user }

// Restore checks the stored token against the server and settles the state.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.tokens.Load()
	if err != nil {
		return err
	}
	if token == "" {
		s.toUnauthenticated()
		return nil
	}

	s.client.SetToken(token)
	user, err := s.client.Profile(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			_ = s.tokens.Clear()
			s.toUnauthenticated()
			return nil
		}
		// Reachability problems leave the state as it was.
		return err
	}

	s.state = StateAuthenticated
	s.user = user
	return nil
}

// Login authenticates with credentials and persists the resulting token.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, token, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(token); err != nil {
		return nil, err
	}
	s.state = StateAuthenticated
	s.user = user
	return user, nil
}

// Register creates an account and then logs in with the same credentials,
// since registration never issues a token.
func (s *Session) Register(ctx context.Context, name, email, password, confirmation string) (*domain.User, error) {
	if _, err := s.client.Register(ctx, name, email, password, confirmation); err != nil {
		return nil, err
	}
	return s.Login(ctx, email, password)
}

// CompleteHandoff finishes a federated login by trading the handoff
// reference for a real token.
func (s *Session) CompleteHandoff(ctx context.Context, handoff string) (*domain.User, error) {
	user, token, err := s.client.SuccessLogin(ctx, handoff)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(token); err != nil {
		return nil, err
	}
	s.state = StateAuthenticated
	s.user = user
	return user, nil
}

// Logout revokes the session server-side and clears local state. The local
// token is cleared even when the server cannot be reached, so a lost
// connection never traps the user in a session.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	if clearErr := s.tokens.Clear(); clearErr != nil {
		return clearErr
	}
	s.toUnauthenticated()
	if err != nil && !IsUnauthorized(err) && !errors.Is(err, ErrServiceUnavailable) {
		return err
	}
	return nil
}

// Client returns the underlying API client for endpoint calls once the
// session is authenticated.
func (s *Session) Client() *Client { return s.client }

func (s *Session) toUnauthenticated() {
	s.client.SetToken("")
	s.state = StateUnauthenticated
	s.user = nil
}
