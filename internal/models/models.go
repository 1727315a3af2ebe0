package models

import "time"

// Letter is a user-submitted message. Recipient and Content are stored
// encrypted at rest; structs here always carry plaintext.
type Letter struct {
	ID        int       `json:"id"`
	Recipient string    `json:"to"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"-"`
}

// Permissions is the admin capability set. Persisted as a JSON column so
// new capabilities can be added without a migration.
type Permissions struct {
	ManageLetters    bool `json:"manage_letters"`
	ManageModeration bool `json:"manage_moderation"`
	ManageAdmins     bool `json:"manage_admins"`
	ManageBlog       bool `json:"manage_blog"`
}

// AllPermissions returns the full capability set, used for the bootstrap
// Owner account.
func AllPermissions() Permissions {
	return Permissions{
		ManageLetters:    true,
		ManageModeration: true,
		ManageAdmins:     true,
		ManageBlog:       true,
	}
}

type Admin struct {
	ID           int         `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	Permissions  Permissions `json:"permissions"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type ModerationWord struct {
	ID   int    `json:"id"`
	Word string `json:"word"`
}

type BlogPost struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	AuthorID    int        `json:"author_id"`
	AuthorName  string     `json:"author_name"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
