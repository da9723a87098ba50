package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/quizforge/quizforge/internal/core/domain"
)

func progressColumns() []string {
	return []string{
		"username", "wordle_wins", "wordle_losses", "wordle_streak", "wordle_difficulty", "completed_words",
		"quiz_total_score", "quizzes_taken", "quiz_avg_score", "quiz_difficulty", "badges", "total_score", "last_updated",
	}
}

func TestProgressRepositoryGetOrCreateReadsExistingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewProgressRepository(db)
	rows := sqlmock.NewRows(progressColumns()).
		AddRow("alex", 3, 1, 2, "hard", `["crane","slate"]`, 40, 5, 8.0, "medium", `["learner"]`, 110, time.Now())

	mock.ExpectQuery("FROM user_progress").
		WithArgs("alex").
		WillReturnRows(rows)

	progress, err := repo.GetOrCreate(context.Background(), "alex")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if progress.Wordle.Wins != 3 || progress.Wordle.Difficulty != domain.DifficultyHard {
		t.Fatalf("unexpected wordle stats: %+v", progress.Wordle)
	}
	if len(progress.Wordle.CompletedWords) != 2 || progress.Wordle.CompletedWords[0] != "crane" {
		t.Fatalf("completed words not decoded: %v", progress.Wordle.CompletedWords)
	}
	if len(progress.Badges) != 1 || progress.Badges[0] != "learner" {
		t.Fatalf("badges not decoded: %v", progress.Badges)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestProgressRepositoryGetOrCreateInsertsFreshRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewProgressRepository(db)

	mock.ExpectQuery("FROM user_progress").
		WithArgs("newbie").
		WillReturnRows(sqlmock.NewRows(progressColumns()))
	mock.ExpectExec("INSERT INTO user_progress").
		WithArgs("newbie", "medium", "medium", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM user_progress").
		WithArgs("newbie").
		WillReturnRows(sqlmock.NewRows(progressColumns()).
			AddRow("newbie", 0, 0, 0, "medium", `[]`, 0, 0, 0.0, "medium", `[]`, 0, time.Now()))

	progress, err := repo.GetOrCreate(context.Background(), "newbie")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if progress.Username != "newbie" || progress.Wordle.Wins != 0 {
		t.Fatalf("unexpected fresh progress: %+v", progress)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestProgressRepositoryUpdateFailsWhenRowMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewProgressRepository(db)
	mock.ExpectExec("UPDATE user_progress").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), &domain.UserProgress{Username: "ghost"})
	if err == nil {
		t.Fatalf("expected error for missing row")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
