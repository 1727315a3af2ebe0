package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/store"
)

// Slugify lowercases the title, replaces runs of anything outside
// [a-z0-9-] with a single hyphen, and trims leading/trailing hyphens.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

// ensureUniqueSlug appends -1, -2, ... until the slug collides with no
// other post. excludeID skips the post being updated; pass 0 on create.
func (s *SQLStore) ensureUniqueSlug(slug string, excludeID int) (string, error) {
	original := slug
	for counter := 1; ; counter++ {
		var count int
		query := s.rebind("SELECT COUNT(*) FROM blog_posts WHERE slug = ? AND id != ?")
		if err := s.db.QueryRow(query, slug, excludeID).Scan(&count); err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", original, counter)
	}
}

const blogPostColumns = `b.id, b.title, b.slug, b.content, b.author_id, b.published, b.published_at, b.created_at, b.updated_at, COALESCE(a.username, 'Unknown')`

func scanBlogPost(scan func(dest ...any) error) (*models.BlogPost, error) {
	var p models.BlogPost
	var publishedAt sql.NullTime
	err := scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.AuthorID, &p.Published, &publishedAt, &p.CreatedAt, &p.UpdatedAt, &p.AuthorName)
	if err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	return &p, nil
}

func (s *SQLStore) ListBlogPosts(includeUnpublished bool) ([]models.BlogPost, error) {
	query := "SELECT " + blogPostColumns + " FROM blog_posts b LEFT JOIN admins a ON b.author_id = a.id"
	if includeUnpublished {
		query += " ORDER BY b.created_at DESC, b.id DESC"
	} else {
		query += " WHERE b.published = TRUE ORDER BY b.published_at DESC, b.id DESC"
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *SQLStore) getBlogPost(where string, arg any, includeUnpublished bool) (*models.BlogPost, error) {
	query := "SELECT " + blogPostColumns + " FROM blog_posts b LEFT JOIN admins a ON b.author_id = a.id WHERE " + where
	if !includeUnpublished {
		query += " AND b.published = TRUE"
	}
	p, err := scanBlogPost(s.db.QueryRow(s.rebind(query), arg).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return p, err
}

func (s *SQLStore) GetBlogPostByID(id int, includeUnpublished bool) (*models.BlogPost, error) {
	return s.getBlogPost("b.id = ?", id, includeUnpublished)
}

func (s *SQLStore) GetBlogPostBySlug(slug string, includeUnpublished bool) (*models.BlogPost, error) {
	return s.getBlogPost("b.slug = ?", slug, includeUnpublished)
}

// CreateBlogPost derives a unique slug from the title and persists the
// post. PublishedAt is set when the post is created already published.
func (s *SQLStore) CreateBlogPost(post *models.BlogPost) (int, string, error) {
	slug, err := s.ensureUniqueSlug(Slugify(post.Title), 0)
	if err != nil {
		return 0, "", err
	}

	var publishedAt any
	if post.Published {
		publishedAt = time.Now()
	}

	var id int
	query := s.rebind("INSERT INTO blog_posts (title, slug, content, author_id, published, published_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id")
	err = s.db.QueryRow(query, post.Title, slug, post.Content, post.AuthorID, post.Published, publishedAt).Scan(&id)
	if err != nil {
		return 0, "", err
	}
	post.ID = id
	post.Slug = slug
	return id, slug, nil
}

func (s *SQLStore) UpdateBlogPost(id int, update store.BlogPostUpdate) error {
	existing, err := s.GetBlogPostByID(id, true)
	if err != nil {
		return err
	}

	var fields []string
	var args []any

	if update.Title != nil {
		slug, err := s.ensureUniqueSlug(Slugify(*update.Title), id)
		if err != nil {
			return err
		}
		fields = append(fields, "title = ?", "slug = ?")
		args = append(args, *update.Title, slug)
	}
	if update.Content != nil {
		fields = append(fields, "content = ?")
		args = append(args, *update.Content)
	}
	if update.Published != nil {
		fields = append(fields, "published = ?")
		args = append(args, *update.Published)
		if *update.Published && !existing.Published {
			fields = append(fields, "published_at = ?")
			args = append(args, time.Now())
		} else if !*update.Published {
			fields = append(fields, "published_at = NULL")
		}
	}
	if len(fields) == 0 {
		return nil
	}
	fields = append(fields, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := s.rebind("UPDATE blog_posts SET " + strings.Join(fields, ", ") + " WHERE id = ?")
	_, err = s.db.Exec(query, args...)
	return err
}

func (s *SQLStore) DeleteBlogPost(id int) error {
	query := s.rebind("DELETE FROM blog_posts WHERE id = ?")
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
