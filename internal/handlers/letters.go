package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/moderation"
	"github.com/pliu/unsent/internal/store"
	"github.com/pliu/unsent/internal/ws"
)

type LettersHandler struct {
	Store  store.Store
	Filter *moderation.Filter
	Hub    *ws.Hub
}

func (h *LettersHandler) List(w http.ResponseWriter, r *http.Request) {
	letters, err := h.Store.ListLetters()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve letters")
		return
	}
	if letters == nil {
		letters = []models.Letter{}
	}
	respondJSON(w, http.StatusOK, letters)
}

func (h *LettersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To      *string `json:"to"`
		Content *string `json:"content"`
		Author  string  `json:"author"`
		Date    string  `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.To == nil || req.Content == nil {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	// The whole submission is rejected on a match in either field.
	for _, text := range []string{*req.Content, *req.To} {
		blocked, err := h.Filter.ContainsModeratedWord(text)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to submit letter")
			return
		}
		if blocked {
			respondError(w, http.StatusBadRequest, "Your letter contains moderated content")
			return
		}
	}

	letter := models.Letter{
		Recipient: *req.To,
		Content:   *req.Content,
		Author:    req.Author,
		Date:      req.Date,
	}
	id, err := h.Store.CreateLetter(&letter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to submit letter")
		return
	}

	if h.Hub != nil {
		h.Hub.BroadcastLetter(letter)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
		"message": "Letter submitted successfully",
	})
}

func (h *LettersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID *int `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == nil {
		respondError(w, http.StatusBadRequest, "Missing letter ID")
		return
	}

	if err := h.Store.DeleteLetter(*req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Letter not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete letter")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Letter deleted successfully",
	})
}
