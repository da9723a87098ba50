package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLeaderboardRepositoryUpsertScore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewLeaderboardRepository(db)
	mock.ExpectExec("INSERT INTO leaderboard").
		WithArgs("alex", 120, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpsertScore(context.Background(), "alex", 120); err != nil {
		t.Fatalf("UpsertScore() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLeaderboardRepositoryTopOrdersByScore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewLeaderboardRepository(db)
	rows := sqlmock.NewRows([]string{"username", "score"}).
		AddRow("alex", 120).
		AddRow("sam", 90)

	mock.ExpectQuery("FROM leaderboard").
		WithArgs(10).
		WillReturnRows(rows)

	entries, err := repo.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Username != "alex" || entries[0].Score != 120 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
