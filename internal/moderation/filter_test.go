package moderation

import (
	"errors"
	"testing"

	"github.com/pliu/unsent/internal/models"
)

type fakeSource struct {
	words []string
	err   error
}

func (f *fakeSource) ListModerationWords() ([]models.ModerationWord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var words []models.ModerationWord
	for i, w := range f.words {
		words = append(words, models.ModerationWord{ID: i + 1, Word: w})
	}
	return words, nil
}

func TestContainsModeratedWord(t *testing.T) {
	filter := &Filter{Source: &fakeSource{words: []string{"spam", "BadWord"}}}

	tests := []struct {
		text    string
		blocked bool
	}{
		{"a perfectly fine letter", false},
		{"this contains spam somewhere", true},
		{"SPAM in caps", true},
		{"embedded badword match", true},
		{"BaDwOrD mixed case", true},
		{"spa m split up", false},
		{"", false},
	}

	for _, tt := range tests {
		blocked, err := filter.ContainsModeratedWord(tt.text)
		if err != nil {
			t.Fatalf("ContainsModeratedWord(%q) failed: %v", tt.text, err)
		}
		if blocked != tt.blocked {
			t.Errorf("ContainsModeratedWord(%q) = %v, want %v", tt.text, blocked, tt.blocked)
		}
	}
}

func TestEmptyWordList(t *testing.T) {
	filter := &Filter{Source: &fakeSource{}}

	blocked, err := filter.ContainsModeratedWord("anything goes")
	if err != nil {
		t.Fatalf("ContainsModeratedWord failed: %v", err)
	}
	if blocked {
		t.Error("Expected no match against an empty word list")
	}
}

func TestSourceErrorPropagates(t *testing.T) {
	wantErr := errors.New("db down")
	filter := &Filter{Source: &fakeSource{err: wantErr}}

	_, err := filter.ContainsModeratedWord("text")
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected source error to propagate, got %v", err)
	}
}
