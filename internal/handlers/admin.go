package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pliu/unsent/internal/auth"
	"github.com/pliu/unsent/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type AdminHandler struct {
	Store  store.Store
	Tokens *auth.TokenService
}

// Login handles POST /api/admin with {action:"login",username,password}
// and returns a bearer token plus the admin's role and permission set.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action   string `json:"action"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Action != "login" {
		respondError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	admin, err := h.Store.GetAdminByUsername(req.Username)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.Tokens.Issue(admin.Username, admin.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"token":       token,
		"username":    admin.Username,
		"role":        admin.Role,
		"permissions": admin.Permissions,
		"message":     "Login successful",
	})
}
