// Package client implements the API client for the ordering service: typed
// endpoint calls, local token persistence and the session state machine the
// command line front end drives.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
)

// ErrServiceUnavailable reports that the server could not be reached at all.
// Callers must treat it differently from an APIError: the request may never
// have arrived, so nothing can be concluded about server-side state.
var ErrServiceUnavailable = errors.New("service unavailable")

// APIError is a server-side failure response: the HTTP status plus the
// message and any field errors from the response envelope.
type APIError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the error is a 401 or 403 APIError.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// envelope mirrors the server's response wrapper plus every data key any
// endpoint returns. Unused keys stay nil.
type envelope struct {
	Status        bool                   `json:"status"`
	Message       string                 `json:"message"`
	Errors        map[string][]string    `json:"errors"`
	User          *domain.User           `json:"user"`
	Token         string                 `json:"token"`
	Products      []*domain.Product      `json:"products"`
	Product       *domain.Product        `json:"product"`
	Carts         []*domain.CartItem     `json:"carts"`
	Cart          *domain.CartItem       `json:"cart"`
	Notifications []*domain.Notification `json:"notifications"`
}

// Client is a typed HTTP client for the ordering API. The zero value is not
// usable; construct with New.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a Client for the API at baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token attached to subsequent requests. An empty
// value clears it.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the currently attached bearer token.
func (c *Client) Token() string { return c.token }

// Register creates a new account. It does not log the user in.
func (c *Client) Register(ctx context.Context, name, email, password, confirmation string) (*domain.User, error) {
	body := map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": confirmation,
	}
	env, err := c.do(ctx, http.MethodPost, "/register", body)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

// Login authenticates and returns the user plus the bearer token. The token
// is also attached to the client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := c.do(ctx, http.MethodPost, "/login", body)
	if err != nil {
		return nil, "", err
	}
	c.token = env.Token
	return env.User, env.Token, nil
}

// Logout revokes the session server-side and clears the attached token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", nil)
	if err == nil || IsUnauthorized(err) {
		c.token = ""
	}
	return err
}

// Profile returns the authenticated user.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/profile", nil)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

// Products returns the catalog. An empty catalog surfaces as a 404 APIError.
func (c *Client) Products(ctx context.Context) ([]*domain.Product, error) {
	env, err := c.do(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}
	return env.Products, nil
}

// ProductDetail returns one product.
func (c *Client) ProductDetail(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	env, err := c.do(ctx, http.MethodGet, "/product-detail/"+id.String(), nil)
	if err != nil {
		return nil, err
	}
	return env.Product, nil
}

// AddToCart adds quantity units of a product to the cart and returns the
// resulting row with the server's confirmation message.
func (c *Client) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*domain.CartItem, string, error) {
	var body interface{}
	if quantity > 0 {
		body = map[string]int{"quantity": quantity}
	}
	env, err := c.do(ctx, http.MethodPost, "/add-to-cart/"+productID.String(), body)
	if err != nil {
		return nil, "", err
	}
	return env.Cart, env.Message, nil
}

// Carts returns the current user's cart rows. An empty cart surfaces as a
// 404 APIError.
func (c *Client) Carts(ctx context.Context) ([]*domain.CartItem, error) {
	env, err := c.do(ctx, http.MethodGet, "/carts", nil)
	if err != nil {
		return nil, err
	}
	return env.Carts, nil
}

// DeleteCartItem removes one cart row and returns the server's message.
func (c *Client) DeleteCartItem(ctx context.Context, id uuid.UUID) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, "/delete-cart-item/"+id.String(), nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// DeleteCartItems removes a batch of cart rows and returns the count-aware
// message.
func (c *Client) DeleteCartItems(ctx context.Context, ids []uuid.UUID) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, "/delete-cart-items", map[string][]uuid.UUID{"ids": ids})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Notifications returns the user's notification feed.
func (c *Client) Notifications(ctx context.Context) ([]*domain.Notification, error) {
	env, err := c.do(ctx, http.MethodGet, "/notifications", nil)
	if err != nil {
		return nil, err
	}
	return env.Notifications, nil
}

// SuccessLogin trades a federated login handoff reference for the user and a
// bearer token. The token is attached to the client.
func (c *Client) SuccessLogin(ctx context.Context, handoff string) (*domain.User, string, error) {
	env, err := c.do(ctx, http.MethodGet, "/success-login/"+url.PathEscape(handoff), nil)
	if err != nil {
		return nil, "", err
	}
	c.token = env.Token
	return env.User, env.Token, nil
}

// do performs one request and decodes the envelope. A transport-level
// failure maps to ErrServiceUnavailable; a non-2xx response maps to an
// APIError carrying the envelope's message and field errors.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{
			StatusCode:  resp.StatusCode,
			Message:     env.Message,
			FieldErrors: env.Errors,
		}
	}
	return &env, nil
}
