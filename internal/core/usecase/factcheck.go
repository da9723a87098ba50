package usecase

import (
	"log/slog"

	"github.com/quizforge/quizforge/internal/core/domain"
)

// MergeCorrections applies sparse fact-check corrections onto the original
// ordered question list. Positions not named in the correction list are left
// untouched, out-of-range indexes are dropped, and replacements that do not
// satisfy the question shape are rejected rather than corrupting the quiz.
// The result always has the same length and order as the input.
func MergeCorrections(questions []domain.Question, corrections []domain.Correction) []domain.Question {
	if len(corrections) == 0 {
		return questions
	}

	merged := make([]domain.Question, len(questions))
	copy(merged, questions)

	for _, c := range corrections {
		if c.OriginalIndex < 0 || c.OriginalIndex >= len(merged) {
			continue
		}
		replacement := domain.Question{
			Text:         c.Text,
			Options:      c.Options,
			CorrectIndex: c.CorrectIndex,
		}
		if err := replacement.Validate(); err != nil {
			slog.Warn("fact_check_correction_rejected", "index", c.OriginalIndex, "error", err)
			continue
		}
		merged[c.OriginalIndex] = replacement
	}
	return merged
}
