package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithJSON(rec, req, http.StatusCreated, Envelope{Status: true, Message: "done"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Status)
	assert.Equal(t, "done", env.Message)
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithError(rec, req, http.StatusNotFound, "Product not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Status)
	assert.Equal(t, "Product not found", env.Message)
	assert.Empty(t, env.Errors)
}

func TestRespondWithValidationErrors(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	fieldErrs := map[string][]string{
		"email": {"The email has already been taken."},
	}
	RespondWithValidationErrors(rec, req, "We have an errors", fieldErrs)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Status)
	assert.Equal(t, "We have an errors", env.Message)
	assert.Equal(t, fieldErrs, env.Errors)
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	t.Run("set and get round trip", func(t *testing.T) {
		t.Parallel()

		ctx := SetTraceID(context.Background())
		traceID := GetTraceID(ctx)
		assert.Len(t, traceID, TraceIDLength*2, "hex encoding doubles the byte length")
	})

	t.Run("missing trace id reads as empty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, GetTraceID(context.Background()))
	})

	t.Run("ids are unique", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := GetTraceID(SetTraceID(context.Background()))
			assert.False(t, seen[id], "trace id %q repeated", id)
			seen[id] = true
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada"}`))
		var p payload
		require.NoError(t, DecodeJSON(req, &p))
		assert.Equal(t, "Ada", p.Name)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var p payload
		assert.Error(t, DecodeJSON(req, &p))
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{
			name:      "server errors log at error level",
			status:    http.StatusInternalServerError,
			wantLevel: "level=ERROR",
		},
		{
			name:      "client errors log at debug level",
			status:    http.StatusNotFound,
			wantLevel: "level=DEBUG",
		},
		{
			name:      "elevated client errors log at warn level",
			status:    http.StatusUnauthorized,
			opts:      []ResponseOption{WithElevatedLogLevel()},
			wantLevel: "level=WARN",
		},
	}

	for _, tt := range tests {
		tt := tt
		// slog.SetDefault is process-global, so these subtests stay serial.
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			old := slog.Default()
			slog.SetDefault(logger)
			defer slog.SetDefault(old)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			cause := errors.New("dial tcp 10.0.0.7:5432: password=hunter2 rejected")

			RespondWithErrorAndLog(rec, req, tt.status, "Something went wrong", cause, tt.opts...)

			assert.Equal(t, tt.status, rec.Code)

			var env Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Status)
			assert.Equal(t, "Something went wrong", env.Message)
			assert.NotContains(t, rec.Body.String(), "hunter2", "the cause must not reach the client")

			logOutput := buf.String()
			assert.Contains(t, logOutput, tt.wantLevel)
			assert.NotContains(t, logOutput, "hunter2", "credentials must be redacted from logs")
		})
	}
}
