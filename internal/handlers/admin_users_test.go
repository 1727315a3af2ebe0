package handlers

import (
	"net/http"
	"testing"

	"github.com/pliu/unsent/internal/models"
)

func TestAdminUsersRequiresPermission(t *testing.T) {
	env := newTestEnv(t)
	limited := env.createAdmin(t, "mod", "pw", models.Permissions{ManageModeration: true})

	rr := env.request(t, "GET", "/api/admin_users", "", nil)
	wantError(t, rr, http.StatusUnauthorized, "Unauthorized")

	rr = env.request(t, "GET", "/api/admin_users", env.token(t, limited), nil)
	wantError(t, rr, http.StatusForbidden, "Insufficient permissions")
}

func TestCreateAdminUser(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAdmin(t, "owner", "pw", models.AllPermissions())
	token := env.token(t, owner)

	rr := env.request(t, "POST", "/api/admin_users", token, map[string]any{
		"username": "editor",
		"password": "secret",
		"role":     "Editor",
		"permissions": map[string]bool{
			"manage_blog": true,
		},
	})
	wantStatus(t, rr, http.StatusOK)

	created, err := env.store.GetAdminByUsername("editor")
	if err != nil {
		t.Fatalf("Created admin not found: %v", err)
	}
	if created.Role != "Editor" || !created.Permissions.ManageBlog || created.Permissions.ManageAdmins {
		t.Errorf("Unexpected created admin: %+v", created)
	}

	// The new account can log in with the supplied password.
	rr = env.request(t, "POST", "/api/admin", "", map[string]any{
		"action": "login", "username": "editor", "password": "secret",
	})
	wantStatus(t, rr, http.StatusOK)

	rr = env.request(t, "POST", "/api/admin_users", token, map[string]any{
		"username": "editor", "password": "other",
	})
	wantError(t, rr, http.StatusBadRequest, "Username already exists")

	rr = env.request(t, "POST", "/api/admin_users", token, map[string]any{
		"username": "nopassword",
	})
	wantError(t, rr, http.StatusBadRequest, "Username and password are required")
}

func TestUpdateAdminUser(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAdmin(t, "owner", "pw", models.AllPermissions())
	editor := env.createAdmin(t, "editor", "pw", models.Permissions{})
	token := env.token(t, owner)

	rr := env.request(t, "PUT", "/api/admin_users", token, map[string]any{
		"id":   editor.ID,
		"role": "Senior Editor",
	})
	wantStatus(t, rr, http.StatusOK)

	updated, _ := env.store.GetAdminByID(editor.ID)
	if updated.Role != "Senior Editor" || updated.Username != "editor" {
		t.Errorf("Unexpected updated admin: %+v", updated)
	}

	// Password change takes effect, other fields untouched.
	rr = env.request(t, "PUT", "/api/admin_users", token, map[string]any{
		"id": editor.ID, "password": "newpass",
	})
	wantStatus(t, rr, http.StatusOK)
	rr = env.request(t, "POST", "/api/admin", "", map[string]any{
		"action": "login", "username": "editor", "password": "newpass",
	})
	wantStatus(t, rr, http.StatusOK)

	rr = env.request(t, "PUT", "/api/admin_users", token, map[string]any{"id": editor.ID})
	wantError(t, rr, http.StatusBadRequest, "No fields to update")

	rr = env.request(t, "PUT", "/api/admin_users", token, map[string]any{"role": "X"})
	wantError(t, rr, http.StatusBadRequest, "User ID is required")

	rr = env.request(t, "PUT", "/api/admin_users", token, map[string]any{"id": 9999, "role": "X"})
	wantError(t, rr, http.StatusNotFound, "Admin user not found")
}

func TestDeleteAdminUser(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAdmin(t, "owner", "pw", models.AllPermissions())
	other := env.createAdmin(t, "other", "pw", models.Permissions{})
	token := env.token(t, owner)

	// Self-deletion is rejected regardless of permission set.
	rr := env.request(t, "DELETE", "/api/admin_users", token, map[string]any{"id": owner.ID})
	wantError(t, rr, http.StatusBadRequest, "Cannot delete your own account")

	rr = env.request(t, "DELETE", "/api/admin_users", token, map[string]any{"id": other.ID})
	wantStatus(t, rr, http.StatusOK)

	// Second delete finds nothing.
	rr = env.request(t, "DELETE", "/api/admin_users", token, map[string]any{"id": other.ID})
	wantError(t, rr, http.StatusNotFound, "Admin user not found")
}

func TestDeletedAdminTokenRevoked(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAdmin(t, "owner", "pw", models.AllPermissions())
	other := env.createAdmin(t, "other", "pw", models.AllPermissions())
	otherToken := env.token(t, other)

	rr := env.request(t, "DELETE", "/api/admin_users", env.token(t, owner), map[string]any{"id": other.ID})
	wantStatus(t, rr, http.StatusOK)

	// Revocation-by-deletion: the outstanding token stops working.
	rr = env.request(t, "GET", "/api/admin_users", otherToken, nil)
	wantError(t, rr, http.StatusUnauthorized, "Unauthorized")
}
