package store

import (
	"errors"

	"github.com/pliu/unsent/internal/models"
)

// Sentinel errors mapped by handlers onto the HTTP error envelope.
var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate")
)

// AdminUpdate describes a partial admin update. Nil fields are left
// untouched. PasswordHash must already be hashed by the caller.
type AdminUpdate struct {
	Username     *string
	PasswordHash *string
	Role         *string
	Permissions  *models.Permissions
}

// BlogPostUpdate describes a partial blog post update. A non-nil Title
// regenerates the slug. Published transitions set or clear PublishedAt.
type BlogPostUpdate struct {
	Title     *string
	Content   *string
	Published *bool
}

type Store interface {
	// Letter operations. Create encrypts recipient/content before
	// persisting; List returns them decrypted, newest first.
	CreateLetter(letter *models.Letter) (int, error)
	ListLetters() ([]models.Letter, error)
	DeleteLetter(id int) error

	// Admin operations.
	GetAdminByUsername(username string) (*models.Admin, error)
	GetAdminByID(id int) (*models.Admin, error)
	ListAdmins() ([]models.Admin, error)
	CreateAdmin(admin *models.Admin) (int, error)
	UpdateAdmin(id int, update AdminUpdate) error
	DeleteAdmin(id int) error
	BootstrapAdmin(username, passwordHash string) error

	// Moderation word operations.
	ListModerationWords() ([]models.ModerationWord, error)
	CreateModerationWord(word string) (int, error)
	DeleteModerationWord(id int) error

	// Blog operations. includeUnpublished is true for admin callers.
	ListBlogPosts(includeUnpublished bool) ([]models.BlogPost, error)
	GetBlogPostByID(id int, includeUnpublished bool) (*models.BlogPost, error)
	GetBlogPostBySlug(slug string, includeUnpublished bool) (*models.BlogPost, error)
	CreateBlogPost(post *models.BlogPost) (int, string, error)
	UpdateBlogPost(id int, update BlogPostUpdate) error
	DeleteBlogPost(id int) error
}
