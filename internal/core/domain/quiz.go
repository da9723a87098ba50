package domain

import (
	"fmt"
	"strings"
)

// OptionCount is the fixed choice arity every question must carry. The
// frontend renders exactly four answer buttons.
const OptionCount = 4

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes the tier name. The skill-level aliases used by
// the profile UI map onto the same three tiers.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy", "beginner":
		return DifficultyEasy, nil
	case "medium", "intermediate", "":
		return DifficultyMedium, nil
	case "hard", "expert":
		return DifficultyHard, nil
	default:
		return "", WrapError(ErrInvalidInput, "parse difficulty", fmt.Errorf("unknown difficulty %q", raw))
	}
}

// Descriptor returns the prose difficulty wording used inside generation
// prompts instead of the raw enum value.
func (d Difficulty) Descriptor() string {
	switch d {
	case DifficultyEasy:
		return "simple beginner"
	case DifficultyHard:
		return "challenging expert"
	default:
		return "intermediate"
	}
}

// WordLength is the wordle target length for the tier.
func (d Difficulty) WordLength() int {
	switch d {
	case DifficultyEasy:
		return 4
	case DifficultyHard:
		return 6
	default:
		return 5
	}
}

type Question struct {
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("empty question text")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range [0,%d)", q.CorrectIndex, len(q.Options))
	}
	return nil
}

// CorrectAnswer returns the option text marked correct. Callers must hold a
// validated question.
func (q Question) CorrectAnswer() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

type Quiz struct {
	Questions []Question `json:"questions"`
}

type GenerationRequest struct {
	Topic        string
	Difficulty   Difficulty
	NumQuestions int
}

func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return WrapError(ErrInvalidInput, "validate generation request", fmt.Errorf("topic is required"))
	}
	if r.NumQuestions <= 0 {
		return WrapError(ErrInvalidInput, "validate generation request", fmt.Errorf("numQuestions must be positive"))
	}
	return nil
}

// Correction is one sparse fact-check replacement keyed by the position of
// the question it replaces.
type Correction struct {
	OriginalIndex int      `json:"originalIndex"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correctIndex"`
}

// IndexJob is the detached write request the api hands to the worker after a
// quiz has been returned to the caller.
type IndexJob struct {
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`
}
