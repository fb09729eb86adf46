package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pantryman/pantryman-be/internal/auth"
	"github.com/pantryman/pantryman-be/internal/services"
)

// ListHandler handles HTTP requests for grocery lists.
type ListHandler struct {
	service services.ListServiceProvider
}

// NewListHandler creates a new ListHandler.
func NewListHandler(service services.ListServiceProvider) *ListHandler {
	return &ListHandler{service: service}
}

// GetAll returns all lists owned by the authenticated user.
func (h *ListHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	lists, err := h.service.GetAll(r.Context(), principal.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", principal.UserID).Msg("Failed to retrieve lists")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lists)
}

// Get returns a single list by its ID.
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	id := chi.URLParam(r, "listId")
	list, err := h.service.GetByID(r.Context(), id, principal.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// Create adds a new list for the authenticated user.
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	list, err := h.service.Create(r.Context(), principal.UserID, payload.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, list)
}

// Update renames a list.
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	id := chi.URLParam(r, "listId")
	var payload struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), id, principal.UserID, payload.Name); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "List updated"})
}

// Delete removes a list and its items.
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	id := chi.URLParam(r, "listId")
	if err := h.service.Delete(r.Context(), id, principal.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
