package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/store"
)

type ModerationHandler struct {
	Store store.Store
}

func (h *ModerationHandler) List(w http.ResponseWriter, r *http.Request) {
	words, err := h.Store.ListModerationWords()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve moderation words")
		return
	}
	if words == nil {
		words = []models.ModerationWord{}
	}
	respondJSON(w, http.StatusOK, words)
}

func (h *ModerationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word string `json:"word"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	word := strings.TrimSpace(req.Word)
	if word == "" {
		respondError(w, http.StatusBadRequest, "Word is required")
		return
	}

	id, err := h.Store.CreateModerationWord(word)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			respondError(w, http.StatusBadRequest, "Word already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to add moderation word")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
		"message": "Moderation word added successfully",
	})
}

func (h *ModerationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID *int `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == nil {
		respondError(w, http.StatusBadRequest, "Word ID is required")
		return
	}

	if err := h.Store.DeleteModerationWord(*req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Moderation word not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete moderation word")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Moderation word deleted successfully",
	})
}
