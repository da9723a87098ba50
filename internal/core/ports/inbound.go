package ports

import (
	"context"

	"github.com/quizforge/quizforge/internal/core/domain"
)

// QuizService is the inbound contract for quiz generation. It degrades to a
// playable fallback quiz instead of failing for recoverable conditions.
type QuizService interface {
	GenerateQuiz(ctx context.Context, req domain.GenerationRequest) (*domain.Quiz, error)
	GenerateText(ctx context.Context, prompt, taskType string) (string, error)
}

// WordleService is the inbound contract for wordle word and hint generation.
type WordleService interface {
	NewWord(ctx context.Context, difficulty domain.Difficulty, completedWords []string) (domain.WordleWord, error)
	Hint(ctx context.Context, word string) (string, error)
}

// QuestionIndexer is the inbound contract for the asynchronous index worker.
type QuestionIndexer interface {
	IndexQuestions(ctx context.Context, job domain.IndexJob) error
}

// ProgressService is the inbound contract for progress/badge/leaderboard
// bookkeeping.
type ProgressService interface {
	Progress(ctx context.Context, username string) (*domain.UserProgress, error)
	RecordWordleResult(ctx context.Context, username string, update domain.WordleUpdate) (*domain.UserProgress, error)
	RecordQuizResult(ctx context.Context, username string, update domain.QuizUpdate) (*domain.UserProgress, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}
