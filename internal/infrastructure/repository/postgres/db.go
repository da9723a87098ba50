package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent api startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS user_progress (
	username TEXT PRIMARY KEY,
	wordle_wins INTEGER NOT NULL DEFAULT 0,
	wordle_losses INTEGER NOT NULL DEFAULT 0,
	wordle_streak INTEGER NOT NULL DEFAULT 0,
	wordle_difficulty TEXT NOT NULL DEFAULT 'medium',
	completed_words JSONB NOT NULL DEFAULT '[]'::jsonb,
	quiz_total_score INTEGER NOT NULL DEFAULT 0,
	quizzes_taken INTEGER NOT NULL DEFAULT 0,
	quiz_avg_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	quiz_difficulty TEXT NOT NULL DEFAULT 'medium',
	badges JSONB NOT NULL DEFAULT '[]'::jsonb,
	total_score INTEGER NOT NULL DEFAULT 0,
	last_updated TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS leaderboard (
	username TEXT PRIMARY KEY,
	score INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard(score DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
