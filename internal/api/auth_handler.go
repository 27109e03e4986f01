package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mealio/ordering-api/internal/api/shared"
	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/redact"
	"github.com/mealio/ordering-api/internal/service/auth"
	"github.com/mealio/ordering-api/internal/store"
)

// AuthHandler handles registration, login, logout and profile requests.
type AuthHandler struct {
	userStore store.UserStore
	tokens    auth.TokenService
	passwords auth.PasswordVerifier
	hasher    auth.PasswordHasher
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	tokens auth.TokenService,
	verifier auth.PasswordVerifier,
	hasher auth.PasswordHasher,
) *AuthHandler {
	return &AuthHandler{
		userStore: userStore,
		tokens:    tokens,
		passwords: verifier,
		hasher:    hasher,
		validator: newValidator(),
	}
}

// Register handles POST /register. Registration never issues a token; the
// client logs in as a separate step.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, validationFailedMessage, fieldErrors(err))
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data")
		return
	}

	hashed, err := h.hasher.Hash(user.Password)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			fieldErrs := addFieldError(nil, "email", "The email has already been taken.")
			shared.RespondWithValidationErrors(w, r, validationFailedMessage, fieldErrs)
			return
		}
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, UserResponse{
		Status:  true,
		Message: "Your account is created successfully, you can login now",
		User:    user,
	})
}

// Login handles POST /login. An unknown email and a wrong password both
// produce a 404, with distinct messages.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, validationFailedMessage, fieldErrors(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				"We could not find any user with the email you inputted")
			return
		}
		respondWithMappedError(w, r, err)
		return
	}

	if err := h.passwords.Compare(user.HashedPassword, req.Password); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
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

// Logout handles POST /logout. It revokes every token for the user and
// clears any pending federated login handoff.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.tokens.RevokeAll(r.Context(), userID); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if err := h.userStore.SetHandoffToken(r.Context(), userID, ""); err != nil &&
		!errors.Is(err, store.ErrUserNotFound) {
		slog.Warn("failed to clear handoff token",
			"error", redact.Error(err), "user_id", userID)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Status:  true,
		Message: "You successfully logged out",
	})
}

// Profile handles GET /profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Failed to load, Unauthorized")
			return
		}
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{
		Status: true,
		User:   user,
	})
}
