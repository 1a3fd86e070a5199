package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/models"
	"github.com/medwaste/classify-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for accounts and sign-in.
type UserHandler struct {
	service  services.UserServiceProvider
	admin    auth.AdminCredential
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, admin auth.AdminCredential) *UserHandler {
	return &UserHandler{
		service:  service,
		admin:    admin,
		validate: validator.New(),
	}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register handles new account creation. Registering does not sign the
// caller in.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		http.Error(w, "Invalid email or password too short", http.StatusBadRequest)
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles authentication and session token generation. The bootstrap
// administrator pair is verified locally and never reaches the user store.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var identity models.Identity
	if h.admin.Match(payload.Email, payload.Password) {
		identity = h.admin.Identity()
	} else {
		user, err := h.service.AuthenticateUser(r.Context(), payload.Email, payload.Password)
		if err != nil {
			log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
			writeServiceError(w, err, "Authentication failed")
			return
		}
		identity = user.Identity()
	}

	token, err := auth.GenerateJWT(identity)
	if err != nil {
		log.Error().Err(err).Str("user_id", identity.ID).Msg("Failed to generate session token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  identity,
	})
}

// Logout clears the session cookie. The synthesized administrator has no
// backend session to end; for real accounts the token simply expires.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles the permanent deletion of an account. Callers may delete
// their own account; administrators may delete any account. Deletion fans
// out through the identity-change pipeline so the account's live sessions
// end immediately.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "id")
	if auth.RoleOf(identity) != auth.RoleAdministrator && identity.ID != id {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to delete user")
		writeServiceError(w, err, "Failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMe returns the identity the request authenticated as.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve identity from context")
		http.Error(w, "Could not retrieve identity from token", http.StatusInternalServerError)
		return
	}

	// The synthesized administrator has no account row to confirm.
	if !identity.Synthetic() {
		if _, err := h.service.GetUserByID(r.Context(), identity.ID); err != nil {
			log.Warn().Err(err).Str("user_id", identity.ID).Msg("Identity from token not found in store")
			writeServiceError(w, err, "User not found")
			return
		}
	}

	writeJSON(w, http.StatusOK, identity)
}
