package sqlstore

import (
	"time"

	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/store"
)

// CreateLetter encrypts recipient and content and persists the letter.
// Author defaults to "Anonymous" and date to the current time.
func (s *SQLStore) CreateLetter(letter *models.Letter) (int, error) {
	if letter.Author == "" {
		letter.Author = "Anonymous"
	}
	if letter.Date == "" {
		letter.Date = time.Now().Format(time.RFC3339)
	}

	recipient, err := s.codec.Encrypt(letter.Recipient)
	if err != nil {
		return 0, err
	}
	content, err := s.codec.Encrypt(letter.Content)
	if err != nil {
		return 0, err
	}

	var id int
	query := s.rebind("INSERT INTO letters (recipient, content, author, date) VALUES (?, ?, ?, ?) RETURNING id")
	err = s.db.QueryRow(query, recipient, content, letter.Author, letter.Date).Scan(&id)
	if err != nil {
		return 0, err
	}
	letter.ID = id
	return id, nil
}

// ListLetters returns all letters newest first with recipient and
// content decrypted. A row that fails to decrypt aborts the listing.
func (s *SQLStore) ListLetters() ([]models.Letter, error) {
	query := "SELECT id, recipient, content, author, date FROM letters ORDER BY created_at DESC, id DESC"
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var letters []models.Letter
	for rows.Next() {
		var l models.Letter
		if err := rows.Scan(&l.ID, &l.Recipient, &l.Content, &l.Author, &l.Date); err != nil {
			return nil, err
		}
		if l.Recipient, err = s.codec.Decrypt(l.Recipient); err != nil {
			return nil, err
		}
		if l.Content, err = s.codec.Decrypt(l.Content); err != nil {
			return nil, err
		}
		letters = append(letters, l)
	}
	return letters, rows.Err()
}

func (s *SQLStore) DeleteLetter(id int) error {
	query := s.rebind("DELETE FROM letters WHERE id = ?")
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
