package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pantryman/pantryman-be/internal/auth"
	"github.com/pantryman/pantryman-be/internal/services"
)

// AuthHandler handles HTTP requests for the account lifecycle.
type AuthHandler struct {
	service         services.AuthServiceProvider
	frontendBaseURL string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider, frontendBaseURL string) *AuthHandler {
	return &AuthHandler{service: service, frontendBaseURL: frontendBaseURL}
}

// SignupPayload defines the structure for signup requests.
type SignupPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles new account registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Signup(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Signup failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Login handles authentication and bearer token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Failed authentication attempt")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Verify consumes an email-verification token and redirects to the
// frontend login page, signalling only success or failure.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "Missing token")
		return
	}

	if h.service.VerifyEmail(r.Context(), token) {
		http.Redirect(w, r, h.frontendBaseURL+"/login?verified=true", http.StatusFound)
	} else {
		http.Redirect(w, r, h.frontendBaseURL+"/login?verified=false", http.StatusFound)
	}
}

// ResendVerification issues and emails a fresh verification token.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ResendVerification(r.Context(), payload.Email); err != nil {
		log.Warn().Err(err).Msg("Failed to resend verification email")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Verification email sent."})
}

// ChangePassword updates the authenticated user's password after
// re-verifying the current one.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve principal from context")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var payload struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), principal.UserID, payload.CurrentPassword, payload.NewPassword); err != nil {
		log.Warn().Err(err).Str("user_id", principal.UserID).Msg("Failed to change password")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully."})
}

// DeleteAccount removes the authenticated user and everything they own
// after a password confirmation.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve principal from context")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var payload struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), principal.UserID, payload.Password); err != nil {
		log.Warn().Err(err).Str("user_id", principal.UserID).Msg("Failed to delete account")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully."})
}
