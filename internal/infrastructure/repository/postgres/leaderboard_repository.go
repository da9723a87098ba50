package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
)

type LeaderboardRepository struct {
	db *sql.DB
}

func NewLeaderboardRepository(db *sql.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) UpsertScore(ctx context.Context, username string, score int) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO leaderboard (username, score, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (username) DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
`, username, score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert leaderboard score: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT username, score
FROM leaderboard
ORDER BY score DESC, username ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]domain.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.Username, &entry.Score); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return out, nil
}
