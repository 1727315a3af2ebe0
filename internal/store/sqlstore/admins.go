package sqlstore

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/store"
)

func (s *SQLStore) scanAdmin(row *sql.Row) (*models.Admin, error) {
	var admin models.Admin
	var permissions string
	err := row.Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.Role, &permissions, &admin.CreatedAt, &admin.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if admin.Permissions, err = unmarshalPermissions(permissions); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *SQLStore) GetAdminByUsername(username string) (*models.Admin, error) {
	query := s.rebind("SELECT id, username, password_hash, role, permissions, created_at, updated_at FROM admins WHERE username = ?")
	return s.scanAdmin(s.db.QueryRow(query, username))
}

func (s *SQLStore) GetAdminByID(id int) (*models.Admin, error) {
	query := s.rebind("SELECT id, username, password_hash, role, permissions, created_at, updated_at FROM admins WHERE id = ?")
	return s.scanAdmin(s.db.QueryRow(query, id))
}

func (s *SQLStore) ListAdmins() ([]models.Admin, error) {
	query := "SELECT id, username, role, permissions, created_at, updated_at FROM admins ORDER BY created_at DESC, id DESC"
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		var admin models.Admin
		var permissions string
		if err := rows.Scan(&admin.ID, &admin.Username, &admin.Role, &permissions, &admin.CreatedAt, &admin.UpdatedAt); err != nil {
			return nil, err
		}
		if admin.Permissions, err = unmarshalPermissions(permissions); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

// CreateAdmin persists a new admin. PasswordHash must already be hashed.
func (s *SQLStore) CreateAdmin(admin *models.Admin) (int, error) {
	var id int
	query := s.rebind("INSERT INTO admins (username, password_hash, role, permissions) VALUES (?, ?, ?, ?) RETURNING id")
	err := s.db.QueryRow(query, admin.Username, admin.PasswordHash, admin.Role, marshalPermissions(admin.Permissions)).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrDuplicate
		}
		return 0, err
	}
	admin.ID = id
	return id, nil
}

func (s *SQLStore) UpdateAdmin(id int, update store.AdminUpdate) error {
	var fields []string
	var args []any

	if update.Username != nil {
		fields = append(fields, "username = ?")
		args = append(args, *update.Username)
	}
	if update.PasswordHash != nil {
		fields = append(fields, "password_hash = ?")
		args = append(args, *update.PasswordHash)
	}
	if update.Role != nil {
		fields = append(fields, "role = ?")
		args = append(args, *update.Role)
	}
	if update.Permissions != nil {
		fields = append(fields, "permissions = ?")
		args = append(args, marshalPermissions(*update.Permissions))
	}
	if len(fields) == 0 {
		return nil
	}
	fields = append(fields, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := s.rebind("UPDATE admins SET " + strings.Join(fields, ", ") + " WHERE id = ?")
	result, err := s.db.Exec(query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAdmin removes the admin and their blog posts.
func (s *SQLStore) DeleteAdmin(id int) error {
	// Delete owned blog posts first (foreign key reference)
	query := s.rebind("DELETE FROM blog_posts WHERE author_id = ?")
	if _, err := s.db.Exec(query, id); err != nil {
		return err
	}

	query = s.rebind("DELETE FROM admins WHERE id = ?")
	result, err := s.db.Exec(query, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// BootstrapAdmin creates the Owner account with full permissions when no
// admin with the given username exists. The system is never left without
// an administrator.
func (s *SQLStore) BootstrapAdmin(username, passwordHash string) error {
	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM admins WHERE username = ?)")
	if err := s.db.QueryRow(query, username).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	query = s.rebind("INSERT INTO admins (username, password_hash, role, permissions) VALUES (?, ?, 'Owner', ?)")
	_, err := s.db.Exec(query, username, passwordHash, marshalPermissions(models.AllPermissions()))
	if err != nil && isUniqueViolation(err) {
		// Lost a race with another bootstrap; the admin exists.
		return nil
	}
	return err
}
