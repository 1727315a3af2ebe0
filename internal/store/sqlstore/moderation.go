package sqlstore

import (
	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/store"
)

func (s *SQLStore) ListModerationWords() ([]models.ModerationWord, error) {
	query := "SELECT id, word FROM moderation_words ORDER BY word ASC"
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []models.ModerationWord
	for rows.Next() {
		var w models.ModerationWord
		if err := rows.Scan(&w.ID, &w.Word); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (s *SQLStore) CreateModerationWord(word string) (int, error) {
	var id int
	query := s.rebind("INSERT INTO moderation_words (word) VALUES (?) RETURNING id")
	err := s.db.QueryRow(query, word).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (s *SQLStore) DeleteModerationWord(id int) error {
	query := s.rebind("DELETE FROM moderation_words WHERE id = ?")
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
