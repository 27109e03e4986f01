package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mealio/ordering-api/internal/api/shared"
	"github.com/mealio/ordering-api/internal/redact"
	"github.com/mealio/ordering-api/internal/service/auth"
)

// SocialHandler handles the federated Google login flow.
type SocialHandler struct {
	google        *auth.GoogleService
	clientBaseURL string
}

// NewSocialHandler creates a new SocialHandler. clientBaseURL is where the
// browser is sent after the provider callback.
func NewSocialHandler(google *auth.GoogleService, clientBaseURL string) *SocialHandler {
	return &SocialHandler{
		google:        google,
		clientBaseURL: clientBaseURL,
	}
}

// Redirect handles GET /auth/google by sending the browser to the provider's
// consent page.
func (h *SocialHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	loginURL, err := h.google.LoginURL()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to start login", err)
		return
	}
	http.Redirect(w, r, loginURL, http.StatusFound)
}

// Callback handles GET /auth/google/callback. On success the browser is
// redirected to the client with a single-use handoff reference; the real
// bearer token never appears in a URL. The callback sits mid-redirect in a
// browser, so failures send the user back to the client's failure page
// rather than rendering a JSON envelope.
func (h *SocialHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	handoff, err := h.google.HandleCallback(r.Context(), state, code)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidState) {
			slog.Warn("rejected provider callback", "error", redact.Error(err))
		} else {
			slog.Error("provider callback failed", "error", redact.Error(err))
		}
		http.Redirect(w, r, h.clientBaseURL+"/failed-login", http.StatusFound)
		return
	}

	target := h.clientBaseURL + "/success-login/?token=" + url.QueryEscape(handoff)
	http.Redirect(w, r, target, http.StatusFound)
}

// SuccessLogin handles GET /success-login/{token}, trading the handoff
// reference for the user record and a bearer token. The reference is
// invalidated by the exchange, so a replayed URL gets a 403.
func (h *SocialHandler) SuccessLogin(w http.ResponseWriter, r *http.Request) {
	handoff := chi.URLParam(r, "token")
	if handoff == "" {
		shared.RespondWithError(w, r, http.StatusForbidden, "Invalid or expired login token")
		return
	}

	user, token, err := h.google.ResolveHandoff(r.Context(), handoff)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			shared.RespondWithError(w, r, http.StatusForbidden, "Invalid or expired login token")
			return
		}
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Status:  true,
		Message: "You successfully logged in",
		User:    user,
		Token:   token,
	})
}
