// Package moderation gates letter submissions against the stored word
// list.
package moderation

import (
	"strings"

	"github.com/pliu/unsent/internal/models"
)

// WordSource supplies the current moderation word list.
type WordSource interface {
	ListModerationWords() ([]models.ModerationWord, error)
}

type Filter struct {
	Source WordSource
}

// ContainsModeratedWord reports whether text contains any stored word,
// case-insensitively. Linear scan over the word list; both the list and
// submissions are small.
func (f *Filter) ContainsModeratedWord(text string) (bool, error) {
	words, err := f.Source.ListModerationWords()
	if err != nil {
		return false, err
	}

	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, strings.ToLower(w.Word)) {
			return true, nil
		}
	}
	return false, nil
}
