package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
	"github.com/quizforge/quizforge/internal/core/ports"
)

const (
	wordAttempts      = 5
	playedWordsLookup = 100
)

// WordleGenerator produces wordle target words and hints. Word generation
// avoids words the player already completed, falling back to static pools
// when the backend cannot produce a fresh one.
type WordleGenerator struct {
	generator ports.TextGenerator
	words     ports.WordIndex
	status    domain.StoreStatus
	logger    *slog.Logger
	now       func() time.Time
}

func NewWordleGenerator(
	generator ports.TextGenerator,
	words ports.WordIndex,
	status domain.StoreStatus,
	logger *slog.Logger,
) *WordleGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordleGenerator{
		generator: generator,
		words:     words,
		status:    status,
		logger:    logger,
		now:       time.Now,
	}
}

func (g *WordleGenerator) NewWord(ctx context.Context, difficulty domain.Difficulty, completedWords []string) (domain.WordleWord, error) {
	length := difficulty.WordLength()
	completed := make(map[string]bool, len(completedWords))
	for _, w := range completedWords {
		completed[strings.ToLower(w)] = true
	}
	// Words played by anyone on this store count as used too.
	for _, w := range g.previousWords(ctx, difficulty) {
		completed[strings.ToLower(w)] = true
	}

	prompt := buildWordPrompt(length)
	for attempt := 0; attempt < wordAttempts; attempt++ {
		raw, err := g.generator.Generate(ctx, prompt, TaskWordle)
		if err != nil {
			g.logger.Warn("wordle_generation_failed", "attempt", attempt+1, "error", err)
			break
		}

		word := strings.ToLower(strings.TrimSpace(raw))
		if !isAlphabetic(word) || len(word) != length {
			continue
		}
		if completed[word] {
			g.logger.Debug("wordle_word_already_played", "word", word)
			continue
		}
		return g.finishWord(ctx, word, difficulty), nil
	}

	word := pickFallbackWord(difficulty, completed)
	g.logger.Info("wordle_fallback_word_used", "difficulty", string(difficulty), "word", word)
	return g.finishWord(ctx, word, difficulty), nil
}

func (g *WordleGenerator) Hint(ctx context.Context, word string) (string, error) {
	hint, err := g.generator.Generate(ctx, buildHintPrompt(word), TaskHint)
	if err != nil || strings.TrimSpace(hint) == "" {
		if err != nil {
			g.logger.Warn("wordle_hint_failed", "error", err)
		}
		return fmt.Sprintf("It's a %d-letter word.", len(word)), nil
	}
	return strings.TrimSpace(hint), nil
}

// finishWord attaches a hint and records the word as played, best-effort.
func (g *WordleGenerator) finishWord(ctx context.Context, word string, difficulty domain.Difficulty) domain.WordleWord {
	hint, _ := g.Hint(ctx, word)
	g.storeWord(word, hint, difficulty)
	return domain.WordleWord{Word: word, Hint: hint}
}

func (g *WordleGenerator) previousWords(ctx context.Context, difficulty domain.Difficulty) []string {
	if g.status != domain.StoreStatusAvailable || g.words == nil {
		return nil
	}
	words, err := g.words.Words(ctx, difficulty, playedWordsLookup)
	if err != nil {
		g.logger.Debug("wordle_previous_words_skipped", "error", err)
		return nil
	}
	return words
}

func (g *WordleGenerator) storeWord(word, hint string, difficulty domain.Difficulty) {
	if g.status != domain.StoreStatusAvailable || g.words == nil {
		return
	}
	createdAt := g.now().UTC()
	id := fmt.Sprintf("%s-%d", word, createdAt.UnixMilli())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := g.words.AddWord(ctx, id, word, hint, difficulty, createdAt); err != nil {
			g.logger.Warn("wordle_store_failed", "word", word, "error", err)
		}
	}()
}

func buildWordPrompt(length int) string {
	return fmt.Sprintf(`Generate a single, common, %d-letter English word suitable for a Wordle game.
The word should be engaging and not too obscure.
Only output the word itself, nothing else. For example: game`, length)
}

func buildHintPrompt(word string) string {
	return fmt.Sprintf("Generate a short, one-sentence hint for the Wordle word %q. The hint should be clever but not too obvious. Example hint for 'train': 'It runs on tracks.'", word)
}

func pickFallbackWord(difficulty domain.Difficulty, completed map[string]bool) string {
	pool := domain.FallbackWords(difficulty)
	available := make([]string, 0, len(pool))
	for _, w := range pool {
		if !completed[w] {
			available = append(available, w)
		}
	}
	if len(available) == 0 {
		available = pool
	}
	return available[rand.Intn(len(available))]
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
