package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pantryman/pantryman-be/internal/services"
)

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP status
// codes. Anything unrecognized is surfaced as an opaque 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrEmailNotVerified):
		respondError(w, http.StatusForbidden, "Please verify your email before logging in.")
	case errors.Is(err, services.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrAlreadyRegistered):
		respondError(w, http.StatusConflict, "Email is already registered")
	case errors.Is(err, services.ErrAlreadyVerified):
		respondError(w, http.StatusConflict, "Email is already verified")
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
