package sqlstore

import (
	"errors"
	"testing"

	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/store"
)

func createTestAdmin(t *testing.T, username string) *models.Admin {
	t.Helper()
	admin := &models.Admin{
		Username:     username,
		PasswordHash: "hash",
		Role:         "Admin",
		Permissions:  models.Permissions{ManageLetters: true},
	}
	if _, err := testStore.CreateAdmin(admin); err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}
	return admin
}

func TestCreateAdminDuplicate(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	createTestAdmin(t, "alice")

	_, err := testStore.CreateAdmin(&models.Admin{Username: "alice", PasswordHash: "other", Role: "Admin"})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestGetAdmin(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	created := createTestAdmin(t, "alice")

	admin, err := testStore.GetAdminByUsername("alice")
	if err != nil {
		t.Fatalf("GetAdminByUsername failed: %v", err)
	}
	if admin.ID != created.ID || !admin.Permissions.ManageLetters || admin.Permissions.ManageAdmins {
		t.Errorf("Unexpected admin: %+v", admin)
	}

	if _, err := testStore.GetAdminByUsername("nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	byID, err := testStore.GetAdminByID(created.ID)
	if err != nil {
		t.Fatalf("GetAdminByID failed: %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("Expected username 'alice', got %q", byID.Username)
	}
}

func TestUpdateAdminPartial(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	admin := createTestAdmin(t, "alice")

	role := "Moderator"
	perms := models.Permissions{ManageModeration: true}
	err := testStore.UpdateAdmin(admin.ID, store.AdminUpdate{Role: &role, Permissions: &perms})
	if err != nil {
		t.Fatalf("UpdateAdmin failed: %v", err)
	}

	updated, err := testStore.GetAdminByID(admin.ID)
	if err != nil {
		t.Fatalf("GetAdminByID failed: %v", err)
	}
	if updated.Role != "Moderator" || !updated.Permissions.ManageModeration || updated.Permissions.ManageLetters {
		t.Errorf("Unexpected updated admin: %+v", updated)
	}
	if updated.Username != "alice" || updated.PasswordHash != "hash" {
		t.Error("Fields not named in the update must be untouched")
	}

	if err := testStore.UpdateAdmin(9999, store.AdminUpdate{Role: &role}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestUpdateAdminDuplicateUsername(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	createTestAdmin(t, "alice")
	bob := createTestAdmin(t, "bob")

	taken := "alice"
	err := testStore.UpdateAdmin(bob.ID, store.AdminUpdate{Username: &taken})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestDeleteAdminCascadesBlogPosts(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	admin := createTestAdmin(t, "alice")
	post := &models.BlogPost{Title: "Post", Content: "body", AuthorID: admin.ID}
	if _, _, err := testStore.CreateBlogPost(post); err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}

	if err := testStore.DeleteAdmin(admin.ID); err != nil {
		t.Fatalf("DeleteAdmin failed: %v", err)
	}

	if _, err := testStore.GetBlogPostByID(post.ID, true); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected the admin's posts to be deleted, got %v", err)
	}

	// Second delete finds no row.
	if err := testStore.DeleteAdmin(admin.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestBootstrapAdmin(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	if err := testStore.BootstrapAdmin("admin", "hash"); err != nil {
		t.Fatalf("BootstrapAdmin failed: %v", err)
	}

	owner, err := testStore.GetAdminByUsername("admin")
	if err != nil {
		t.Fatalf("GetAdminByUsername failed: %v", err)
	}
	if owner.Role != "Owner" {
		t.Errorf("Expected role 'Owner', got %q", owner.Role)
	}
	if owner.Permissions != models.AllPermissions() {
		t.Errorf("Expected full permissions, got %+v", owner.Permissions)
	}

	// Second bootstrap is a no-op.
	if err := testStore.BootstrapAdmin("admin", "other-hash"); err != nil {
		t.Fatalf("Second BootstrapAdmin failed: %v", err)
	}
	again, _ := testStore.GetAdminByUsername("admin")
	if again.PasswordHash != "hash" {
		t.Error("Bootstrap must not overwrite an existing admin")
	}
}
