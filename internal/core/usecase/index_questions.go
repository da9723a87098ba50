package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
	"github.com/quizforge/quizforge/internal/core/ports"
)

// IndexObserver receives index-write observations.
type IndexObserver interface {
	ObserveIndexWrite(outcome string)
}

// IndexWriter performs the best-effort similarity-store writes for newly
// generated questions. Records are write-once: identifiers embed the
// creation time, so regenerating a topic appends rather than versions.
type IndexWriter struct {
	index    ports.QuestionIndex
	status   domain.StoreStatus
	observer IndexObserver

	// skipDuplicates turns on the exact-text dedup policy: items whose text
	// is already stored for the same topic and difficulty are not re-added.
	skipDuplicates bool
	logger         *slog.Logger
	now            func() time.Time
}

func NewIndexWriter(
	index ports.QuestionIndex,
	status domain.StoreStatus,
	skipDuplicates bool,
	observer IndexObserver,
	logger *slog.Logger,
) *IndexWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexWriter{
		index:          index,
		status:         status,
		observer:       observer,
		skipDuplicates: skipDuplicates,
		logger:         logger,
		now:            time.Now,
	}
}

func (w *IndexWriter) IndexQuestions(ctx context.Context, job domain.IndexJob) error {
	if w.status != domain.StoreStatusAvailable || w.index == nil {
		w.logger.Debug("index_skipped_store_unavailable", "topic", job.Topic)
		return nil
	}
	if len(job.Questions) == 0 {
		return nil
	}

	createdAt := w.now().UTC()
	var wg sync.WaitGroup
	for i, question := range job.Questions {
		if err := question.Validate(); err != nil {
			w.logger.Warn("index_item_invalid", "topic", job.Topic, "position", i, "error", err)
			continue
		}

		wg.Add(1)
		go func(position int, q domain.Question) {
			defer wg.Done()
			w.writeOne(ctx, job, position, q, createdAt)
		}(i, question)
	}
	wg.Wait()
	return nil
}

func (w *IndexWriter) writeOne(ctx context.Context, job domain.IndexJob, position int, q domain.Question, createdAt time.Time) {
	if w.skipDuplicates {
		exists, err := w.index.QuestionTextExists(ctx, q.Text, job.Topic, job.Difficulty)
		if err != nil {
			w.logger.Debug("index_dedup_check_failed", "topic", job.Topic, "error", err)
		} else if exists {
			w.observeWrite("duplicate")
			return
		}
	}

	id := fmt.Sprintf("%s-%s-%d-%d", job.Topic, job.Difficulty, createdAt.UnixMilli(), position)
	if err := w.index.AddQuestion(ctx, id, q, job.Topic, job.Difficulty, createdAt); err != nil {
		w.observeWrite("error")
		w.logger.Warn("index_write_failed", "topic", job.Topic, "id", id, "error", err)
		return
	}
	w.observeWrite("ok")
}

func (w *IndexWriter) observeWrite(outcome string) {
	if w.observer != nil {
		w.observer.ObserveIndexWrite(outcome)
	}
}
