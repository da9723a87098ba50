package ports

import (
	"context"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
)

// TextGenerator is the single call contract every generation backend is
// normalized to. The task hint selects a per-task model override where the
// backend supports one; it never changes the wire protocol. Implementations
// perform no retries.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, taskHint string) (string, error)
	Name() string
}

// FactChecker runs the optional batch fact-checking pass and returns only
// the sparse corrections, keyed by original position.
type FactChecker interface {
	Check(ctx context.Context, questions []domain.Question) ([]domain.Correction, error)
}

// StoreProber reports similarity-store liveness. Idempotent and safe for
// concurrent use; failures are a normal operating mode, never an error.
type StoreProber interface {
	Probe(ctx context.Context) domain.StoreStatus
}

// QuestionIndex reads and writes quiz questions in the similarity store.
type QuestionIndex interface {
	SimilarQuestions(ctx context.Context, topic string, difficulty domain.Difficulty, limit int) ([]domain.RetrievedQuestion, error)
	AddQuestion(ctx context.Context, id string, question domain.Question, topic string, difficulty domain.Difficulty, createdAt time.Time) error
	QuestionTextExists(ctx context.Context, text, topic string, difficulty domain.Difficulty) (bool, error)
}

// WordIndex stores played wordle words with their hints.
type WordIndex interface {
	AddWord(ctx context.Context, id, word, hint string, difficulty domain.Difficulty, createdAt time.Time) error
	Words(ctx context.Context, difficulty domain.Difficulty, limit int) ([]string, error)
}

// IndexQueue carries detached index jobs from the api to the worker.
type IndexQueue interface {
	PublishIndexJob(ctx context.Context, job domain.IndexJob) error
	SubscribeIndexJobs(ctx context.Context, handler func(context.Context, domain.IndexJob) error) error
}

// ProgressRepository persists per-user game progress.
type ProgressRepository interface {
	GetOrCreate(ctx context.Context, username string) (*domain.UserProgress, error)
	Update(ctx context.Context, progress *domain.UserProgress) error
}

// LeaderboardRepository maintains the display-name-keyed score table.
type LeaderboardRepository interface {
	UpsertScore(ctx context.Context, username string, score int) error
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}
