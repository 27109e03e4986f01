package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mealio/ordering-api/internal/api/shared"
	"github.com/mealio/ordering-api/internal/domain"
)

// newRequest builds a request with an optional JSON body.
func newRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// asUser attaches an authenticated user ID to the request context, the way
// the auth middleware does.
func asUser(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// withPathParam attaches a chi URL parameter to the request context.
func withPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// responseEnvelope mirrors every field a handler response may carry.
type responseEnvelope struct {
	Status        bool                   `json:"status"`
	Message       string                 `json:"message"`
	Errors        map[string][]string    `json:"errors"`
	Token         string                 `json:"token"`
	User          *domain.User           `json:"user"`
	Product       *domain.Product        `json:"product"`
	Products      []*domain.Product      `json:"products"`
	Cart          *domain.CartItem       `json:"cart"`
	Carts         []*domain.CartItem     `json:"carts"`
	Notifications []*domain.Notification `json:"notifications"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()

	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// memoryImageStore implements storage.ImageStore for handler tests.
type memoryImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemoryImageStore() *memoryImageStore {
	return &memoryImageStore{objects: make(map[string][]byte)}
}

func (s *memoryImageStore) Put(_ context.Context, path string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[path] = data
	return nil
}

func (s *memoryImageStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}
