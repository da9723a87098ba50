package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
	"github.com/quizforge/quizforge/internal/core/ports"
)

const defaultLeaderboardLimit = 50

// ProgressTracker owns per-user progress, badge evaluation and the
// leaderboard write path.
type ProgressTracker struct {
	progress    ports.ProgressRepository
	leaderboard ports.LeaderboardRepository
	logger      *slog.Logger
}

func NewProgressTracker(
	progress ports.ProgressRepository,
	leaderboard ports.LeaderboardRepository,
	logger *slog.Logger,
) *ProgressTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressTracker{
		progress:    progress,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

func (t *ProgressTracker) Progress(ctx context.Context, username string) (*domain.UserProgress, error) {
	if strings.TrimSpace(username) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get progress", errors.New("username is required"))
	}
	return t.progress.GetOrCreate(ctx, username)
}

func (t *ProgressTracker) RecordWordleResult(ctx context.Context, username string, update domain.WordleUpdate) (*domain.UserProgress, error) {
	progress, err := t.Progress(ctx, username)
	if err != nil {
		return nil, err
	}

	if update.Win {
		progress.Wordle.Wins++
		progress.Wordle.Streak++
	}
	if update.Loss {
		progress.Wordle.Losses++
		progress.Wordle.Streak = 0
	}
	if update.Word != "" && !containsWord(progress.Wordle.CompletedWords, update.Word) {
		progress.Wordle.CompletedWords = append(progress.Wordle.CompletedWords, update.Word)
	}
	if update.Difficulty != "" {
		progress.Wordle.Difficulty = update.Difficulty
	}

	return t.finalize(ctx, progress)
}

func (t *ProgressTracker) RecordQuizResult(ctx context.Context, username string, update domain.QuizUpdate) (*domain.UserProgress, error) {
	progress, err := t.Progress(ctx, username)
	if err != nil {
		return nil, err
	}

	progress.Quiz.QuizzesTaken++
	progress.Quiz.TotalScore += update.Score
	progress.Quiz.AvgScore = float64(progress.Quiz.TotalScore) / float64(progress.Quiz.QuizzesTaken)

	return t.finalize(ctx, progress)
}

func (t *ProgressTracker) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	return t.leaderboard.Top(ctx, limit)
}

// finalize recomputes the derived score, re-evaluates badges, and keeps the
// leaderboard row in step with the stored progress.
func (t *ProgressTracker) finalize(ctx context.Context, progress *domain.UserProgress) (*domain.UserProgress, error) {
	progress.TotalScore = progress.ComputeTotalScore()
	progress.Badges = progress.AwardBadges()
	progress.LastUpdated = time.Now().UTC()

	if err := t.progress.Update(ctx, progress); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	if err := t.leaderboard.UpsertScore(ctx, progress.Username, progress.TotalScore); err != nil {
		return nil, fmt.Errorf("update leaderboard: %w", err)
	}

	t.logger.Info("progress_updated",
		"username", progress.Username,
		"total_score", progress.TotalScore,
		"badges", len(progress.Badges),
	)
	return progress, nil
}

func containsWord(words []string, word string) bool {
	for _, w := range words {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}
