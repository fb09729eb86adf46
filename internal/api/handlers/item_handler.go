package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pantryman/pantryman-be/internal/auth"
	"github.com/pantryman/pantryman-be/internal/models"
	"github.com/pantryman/pantryman-be/internal/services"
)

// ItemHandler handles HTTP requests for grocery items.
type ItemHandler struct {
	service services.ItemServiceProvider
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service services.ItemServiceProvider) *ItemHandler {
	return &ItemHandler{service: service}
}

// GetAll returns the items of a list.
func (h *ItemHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	listID := chi.URLParam(r, "listId")
	items, err := h.service.GetAll(r.Context(), listID, principal.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// Create adds an item to a list.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	listID := chi.URLParam(r, "listId")
	var payload struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.Create(r.Context(), listID, principal.UserID, payload.Name, payload.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// Update applies a partial update to an item.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	itemID := chi.URLParam(r, "itemId")
	var patch models.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), itemID, principal.UserID, patch); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Item updated"})
}

// Delete removes an item.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	itemID := chi.URLParam(r, "itemId")
	if err := h.service.Delete(r.Context(), itemID, principal.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
