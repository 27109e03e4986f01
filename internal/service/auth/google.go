package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mealio/ordering-api/internal/config"
	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/store"
)

// googleUserInfoURL is the endpoint the access token is redeemed against to
// learn who just authenticated.
const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleUserInfo is the subset of the userinfo response we consume.
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleService implements the federated login bridge: it builds the consent
// redirect, handles the provider callback and resolves the resulting handoff
// reference into an authenticated session.
//
// The callback never places a bearer token in a URL. Instead it stores a
// single-use handoff reference on the user row and redirects the browser with
// only that reference; the client trades it for a token in a second,
// same-origin round trip. The token is minted at resolution time, so an
// abandoned handoff leaves no live session behind.
type GoogleService struct {
	oauth   *oauth2.Config
	states  *StateSigner
	users   store.UserStore
	tokens  TokenService
	hasher  PasswordHasher
	logger  *slog.Logger
	httpGet func(ctx context.Context, tok *oauth2.Token) (*http.Response, error)
}

// NewGoogleService wires the bridge from configuration.
func NewGoogleService(
	cfg config.OAuthConfig,
	states *StateSigner,
	users store.UserStore,
	tokens TokenService,
	hasher PasswordHasher,
	logger *slog.Logger,
) *GoogleService {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	svc := &GoogleService{
		oauth:  oauthCfg,
		states: states,
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger.With(slog.String("component", "google_service")),
	}
	svc.httpGet = func(ctx context.Context, tok *oauth2.Token) (*http.Response, error) {
		client := oauthCfg.Client(ctx, tok)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
		if err != nil {
			return nil, err
		}
		return client.Do(req)
	}
	return svc
}

// LoginURL returns the consent page URL the browser should be sent to,
// carrying a freshly signed state parameter.
func (s *GoogleService) LoginURL() (string, error) {
	state, err := s.states.Sign()
	if err != nil {
		return "", err
	}
	return s.oauth.AuthCodeURL(state), nil
}

// HandleCallback verifies the provider callback, finds or creates the local
// user and returns the single-use handoff reference for the browser redirect.
func (s *GoogleService) HandleCallback(ctx context.Context, state, code string) (string, error) {
	if err := s.states.Verify(state); err != nil {
		return "", err
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	info, err := s.fetchUserInfo(ctx, tok)
	if err != nil {
		return "", err
	}
	if info.Email == "" {
		return "", fmt.Errorf("%w: provider returned no email", ErrInvalidState)
	}

	user, err := s.findOrCreateUser(ctx, info)
	if err != nil {
		return "", err
	}

	handoff, err := NewHandoffReference()
	if err != nil {
		return "", err
	}
	if err := s.users.SetHandoffToken(ctx, user.ID, handoff); err != nil {
		return "", fmt.Errorf("failed to store handoff reference: %w", err)
	}

	s.logger.InfoContext(ctx, "federated login callback accepted",
		slog.String("user_id", user.ID.String()))

	return handoff, nil
}

// ResolveHandoff consumes a handoff reference, revokes any prior sessions and
// issues a fresh bearer token. The reference is cleared atomically with the
// lookup, so a second call with the same value fails.
func (s *GoogleService) ResolveHandoff(ctx context.Context, handoff string) (*domain.User, string, error) {
	user, err := s.users.ConsumeHandoffToken(ctx, handoff)
	if err != nil {
		if errors.Is(err, store.ErrHandoffNotFound) {
			return nil, "", ErrInvalidToken
		}
		return nil, "", fmt.Errorf("failed to consume handoff reference: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "federated login completed",
		slog.String("user_id", user.ID.String()))

	return user, token, nil
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, tok *oauth2.Token) (*googleUserInfo, error) {
	resp, err := s.httpGet(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("user info request failed with status %d: %s", resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// findOrCreateUser locates the user by email or registers a new account with
// an unguessable throwaway password. A concurrent first login for the same
// email is resolved by re-reading after a duplicate error.
func (s *GoogleService) findOrCreateUser(ctx context.Context, info *googleUserInfo) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}

	user, err = domain.NewUser(name, info.Email, uuid.New().String())
	if err != nil {
		return nil, err
	}
	user.GoogleID = info.ID
	user.ProfilePicture = info.Picture

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return s.users.GetByEmail(ctx, info.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "registered user via federated login",
		slog.String("user_id", user.ID.String()))

	return user, nil
}
