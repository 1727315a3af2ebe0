package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pliu/unsent/internal/middleware"
	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// AdminUsersHandler manages admin accounts. All routes are mounted
// behind the manage_admins permission gate.
type AdminUsersHandler struct {
	Store store.Store
}

func (h *AdminUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Store.ListAdmins()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve admin users")
		return
	}
	if admins == nil {
		admins = []models.Admin{}
	}
	respondJSON(w, http.StatusOK, admins)
}

func (h *AdminUsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string              `json:"username"`
		Password    string              `json:"password"`
		Role        string              `json:"role"`
		Permissions *models.Permissions `json:"permissions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if req.Role == "" {
		req.Role = "Admin"
	}
	var permissions models.Permissions
	if req.Permissions != nil {
		permissions = *req.Permissions
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create admin user")
		return
	}

	admin := &models.Admin{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Permissions:  permissions,
	}
	id, err := h.Store.CreateAdmin(admin)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			respondError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create admin user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
		"message": "Admin user created successfully",
	})
}

func (h *AdminUsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          *int                `json:"id"`
		Username    *string             `json:"username"`
		Password    *string             `json:"password"`
		Role        *string             `json:"role"`
		Permissions *models.Permissions `json:"permissions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == nil {
		respondError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	if req.Username == nil && req.Password == nil && req.Role == nil && req.Permissions == nil {
		respondError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	update := store.AdminUpdate{
		Username:    req.Username,
		Role:        req.Role,
		Permissions: req.Permissions,
	}
	// Re-hash only when a new password was supplied.
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to update admin user")
			return
		}
		hashStr := string(hash)
		update.PasswordHash = &hashStr
	}

	if err := h.Store.UpdateAdmin(*req.ID, update); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			respondError(w, http.StatusNotFound, "Admin user not found")
		case errors.Is(err, store.ErrDuplicate):
			respondError(w, http.StatusBadRequest, "Username already exists")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to update admin user")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Admin user updated successfully",
	})
}

func (h *AdminUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID *int `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == nil {
		respondError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	// Identity comparison, not a store constraint.
	caller := middleware.AdminFromContext(r.Context())
	if caller != nil && caller.ID == *req.ID {
		respondError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := h.Store.DeleteAdmin(*req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Admin user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete admin user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Admin user deleted successfully",
	})
}
