package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
)

// scriptedGenerator returns canned responses in order, one per call.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	hints     []string
}

func (s *scriptedGenerator) Generate(_ context.Context, _, taskHint string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hints = append(s.hints, taskHint)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("script exhausted")
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next, nil
}

func (s *scriptedGenerator) Name() string { return "scripted" }

type fakeWordIndex struct {
	mu    sync.Mutex
	words []string
	added []string
}

func (f *fakeWordIndex) AddWord(_ context.Context, _, word, _ string, _ domain.Difficulty, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, word)
	return nil
}

func (f *fakeWordIndex) Words(context.Context, domain.Difficulty, int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.words, nil
}

func TestNewWordAcceptsValidGeneratedWord(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{" BRAVE \n", "A short hint."}}
	uc := NewWordleGenerator(gen, nil, domain.StoreStatusUnavailable, nil)

	word, err := uc.NewWord(context.Background(), domain.DifficultyMedium, nil)
	if err != nil {
		t.Fatalf("NewWord() error = %v", err)
	}
	if word.Word != "brave" {
		t.Fatalf("expected lowercased trimmed word, got %q", word.Word)
	}
	if word.Hint != "A short hint." {
		t.Fatalf("expected generated hint, got %q", word.Hint)
	}
	if gen.hints[0] != TaskWordle || gen.hints[1] != TaskHint {
		t.Fatalf("unexpected task hints: %v", gen.hints)
	}
}

func TestNewWordRetriesWrongLength(t *testing.T) {
	// Medium expects 5 letters: first two candidates are rejected.
	gen := &scriptedGenerator{responses: []string{"cat", "sixletters", "crane", "Hint."}}
	uc := NewWordleGenerator(gen, nil, domain.StoreStatusUnavailable, nil)

	word, err := uc.NewWord(context.Background(), domain.DifficultyMedium, nil)
	if err != nil {
		t.Fatalf("NewWord() error = %v", err)
	}
	if word.Word != "crane" {
		t.Fatalf("expected third candidate, got %q", word.Word)
	}
}

func TestNewWordAvoidsCompletedWords(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"crane", "slate", "Hint."}}
	uc := NewWordleGenerator(gen, nil, domain.StoreStatusUnavailable, nil)

	word, err := uc.NewWord(context.Background(), domain.DifficultyMedium, []string{"CRANE"})
	if err != nil {
		t.Fatalf("NewWord() error = %v", err)
	}
	if word.Word != "slate" {
		t.Fatalf("completed word must be skipped, got %q", word.Word)
	}
}

func TestNewWordFallsBackWhenGenerationFails(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("backend down")}
	uc := NewWordleGenerator(gen, nil, domain.StoreStatusUnavailable, nil)

	word, err := uc.NewWord(context.Background(), domain.DifficultyEasy, nil)
	if err != nil {
		t.Fatalf("NewWord() error = %v", err)
	}
	if len(word.Word) != domain.DifficultyEasy.WordLength() {
		t.Fatalf("fallback word must match tier length, got %q", word.Word)
	}
	pool := domain.FallbackWords(domain.DifficultyEasy)
	found := false
	for _, w := range pool {
		if w == word.Word {
			found = true
		}
	}
	if !found {
		t.Fatalf("fallback word %q not from the static pool", word.Word)
	}
	if word.Hint == "" {
		t.Fatalf("fallback word still needs a hint")
	}
}

func TestNewWordConsidersStoredWordsPlayed(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"crane", "slate", "Hint."}}
	words := &fakeWordIndex{words: []string{"crane"}}
	uc := NewWordleGenerator(gen, words, domain.StoreStatusAvailable, nil)

	word, err := uc.NewWord(context.Background(), domain.DifficultyMedium, nil)
	if err != nil {
		t.Fatalf("NewWord() error = %v", err)
	}
	if word.Word != "slate" {
		t.Fatalf("store-played word must be skipped, got %q", word.Word)
	}
}

func TestHintFallsBackToWordLength(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("backend down")}
	uc := NewWordleGenerator(gen, nil, domain.StoreStatusUnavailable, nil)

	hint, err := uc.Hint(context.Background(), "crane")
	if err != nil {
		t.Fatalf("Hint() error = %v", err)
	}
	if !strings.Contains(hint, "5-letter") {
		t.Fatalf("expected length fallback hint, got %q", hint)
	}
}
