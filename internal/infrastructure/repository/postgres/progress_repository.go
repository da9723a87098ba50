package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
)

type ProgressRepository struct {
	db *sql.DB
}

func NewProgressRepository(db *sql.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetOrCreate returns the stored progress row for username, inserting a
// fresh zero-valued row when none exists yet.
func (r *ProgressRepository) GetOrCreate(ctx context.Context, username string) (*domain.UserProgress, error) {
	progress, err := r.get(ctx, username)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	fresh := &domain.UserProgress{
		Username: username,
		Wordle: domain.WordleStats{
			Difficulty:     domain.DifficultyMedium,
			CompletedWords: []string{},
		},
		Quiz: domain.QuizStats{
			Difficulty: domain.DifficultyMedium,
		},
		Badges:      []string{},
		LastUpdated: time.Now().UTC(),
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO user_progress (
	username, wordle_wins, wordle_losses, wordle_streak, wordle_difficulty, completed_words,
	quiz_total_score, quizzes_taken, quiz_avg_score, quiz_difficulty, badges, total_score, last_updated
) VALUES ($1,0,0,0,$2,'[]'::jsonb,0,0,0,$3,'[]'::jsonb,0,$4)
ON CONFLICT (username) DO NOTHING
`, username, string(fresh.Wordle.Difficulty), string(fresh.Quiz.Difficulty), fresh.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("insert progress: %w", err)
	}

	// Re-read in case a concurrent insert won the conflict.
	progress, err = r.get(ctx, username)
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *ProgressRepository) Update(ctx context.Context, progress *domain.UserProgress) error {
	wordsJSON, err := json.Marshal(progress.Wordle.CompletedWords)
	if err != nil {
		return fmt.Errorf("marshal completed words: %w", err)
	}
	badgesJSON, err := json.Marshal(progress.Badges)
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE user_progress
SET wordle_wins = $2, wordle_losses = $3, wordle_streak = $4, wordle_difficulty = $5,
	completed_words = $6, quiz_total_score = $7, quizzes_taken = $8, quiz_avg_score = $9,
	quiz_difficulty = $10, badges = $11, total_score = $12, last_updated = $13
WHERE username = $1
`,
		progress.Username,
		progress.Wordle.Wins, progress.Wordle.Losses, progress.Wordle.Streak, string(progress.Wordle.Difficulty),
		wordsJSON, progress.Quiz.TotalScore, progress.Quiz.QuizzesTaken, progress.Quiz.AvgScore,
		string(progress.Quiz.Difficulty), badgesJSON, progress.TotalScore, progress.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update progress rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("progress not found: username=%s", progress.Username)
	}
	return nil
}

func (r *ProgressRepository) get(ctx context.Context, username string) (*domain.UserProgress, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT username, wordle_wins, wordle_losses, wordle_streak, wordle_difficulty, completed_words,
	quiz_total_score, quizzes_taken, quiz_avg_score, quiz_difficulty, badges, total_score, last_updated
FROM user_progress
WHERE username = $1
`, username)

	var progress domain.UserProgress
	var wordleDifficulty, quizDifficulty string
	var wordsRaw, badgesRaw []byte

	err := row.Scan(
		&progress.Username,
		&progress.Wordle.Wins, &progress.Wordle.Losses, &progress.Wordle.Streak, &wordleDifficulty, &wordsRaw,
		&progress.Quiz.TotalScore, &progress.Quiz.QuizzesTaken, &progress.Quiz.AvgScore, &quizDifficulty,
		&badgesRaw, &progress.TotalScore, &progress.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(wordsRaw, &progress.Wordle.CompletedWords); err != nil {
		return nil, fmt.Errorf("unmarshal completed words: %w", err)
	}
	if err := json.Unmarshal(badgesRaw, &progress.Badges); err != nil {
		return nil, fmt.Errorf("unmarshal badges: %w", err)
	}
	progress.Wordle.Difficulty = domain.Difficulty(wordleDifficulty)
	progress.Quiz.Difficulty = domain.Difficulty(quizDifficulty)
	return &progress, nil
}
