package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
	"github.com/quizforge/quizforge/internal/core/ports"
)

// Task hints understood by the provider gateway.
const (
	TaskDefault = "default"
	TaskQuiz    = "quiz"
	TaskWordle  = "wordle"
	TaskHint    = "hint"
)

const defaultRetrievalTopK = 3

// GenerationObserver receives generation-pipeline observations. All methods
// must be safe for concurrent use.
type GenerationObserver interface {
	ObserveGeneration(provider, outcome string, duration time.Duration)
	ObserveRetrieval(hits int)
	ObserveFactCheck(corrections int)
	ObserveIndexPublish(ok bool)
}

type QuizGeneratorOptions struct {
	RetrievalTopK  int
	PublishTimeout time.Duration
}

// QuizGenerator orchestrates quiz generation: retrieval context, provider
// call, strict parsing, optional fact-checking and the detached index
// publish. Recoverable failures degrade to a one-item fallback quiz so the
// caller always gets something playable.
type QuizGenerator struct {
	generator ports.TextGenerator
	index     ports.QuestionIndex
	checker   ports.FactChecker
	queue     ports.IndexQueue
	status    domain.StoreStatus
	observer  GenerationObserver

	topK           int
	publishTimeout time.Duration
	logger         *slog.Logger
}

func NewQuizGenerator(
	generator ports.TextGenerator,
	index ports.QuestionIndex,
	checker ports.FactChecker,
	queue ports.IndexQueue,
	status domain.StoreStatus,
	observer GenerationObserver,
	opts QuizGeneratorOptions,
	logger *slog.Logger,
) *QuizGenerator {
	topK := opts.RetrievalTopK
	if topK <= 0 {
		topK = defaultRetrievalTopK
	}
	publishTimeout := opts.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizGenerator{
		generator:      generator,
		index:          index,
		checker:        checker,
		queue:          queue,
		status:         status,
		observer:       observer,
		topK:           topK,
		publishTimeout: publishTimeout,
		logger:         logger,
	}
}

func (g *QuizGenerator) GenerateQuiz(ctx context.Context, req domain.GenerationRequest) (*domain.Quiz, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	retrievalContext := g.buildContext(ctx, req.Topic, req.Difficulty)
	prompt := buildQuizPrompt(req, retrievalContext)

	start := time.Now()
	raw, err := g.generator.Generate(ctx, prompt, TaskQuiz)
	if err != nil {
		g.observe(func(o GenerationObserver) { o.ObserveGeneration(g.generator.Name(), "error", time.Since(start)) })
		g.logger.Warn("quiz_generation_failed",
			"provider", g.generator.Name(),
			"topic", req.Topic,
			"error", err,
		)
		return fallbackQuiz(failureReason(err)), nil
	}
	g.observe(func(o GenerationObserver) { o.ObserveGeneration(g.generator.Name(), "ok", time.Since(start)) })

	quiz, err := parseQuiz(raw)
	if err != nil {
		g.logger.Warn("quiz_parse_failed", "topic", req.Topic, "error", err)
		return fallbackQuiz("malformed response"), nil
	}

	quiz.Questions = g.factCheck(ctx, quiz.Questions)
	g.publishIndexJob(req, quiz.Questions)

	return quiz, nil
}

// GenerateText is a thin pass-through for raw prompt generation (wordle
// words, hints, anything the gateway understands).
func (g *QuizGenerator) GenerateText(ctx context.Context, prompt, taskType string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "generate text", errors.New("prompt is required"))
	}
	if taskType == "" {
		taskType = TaskDefault
	}
	return g.generator.Generate(ctx, prompt, taskType)
}

// buildContext is best-effort retrieval augmentation: empty string when the
// store is not available, the query fails, or nothing similar is stored.
func (g *QuizGenerator) buildContext(ctx context.Context, topic string, difficulty domain.Difficulty) string {
	if g.status != domain.StoreStatusAvailable || g.index == nil {
		return ""
	}

	hits, err := g.index.SimilarQuestions(ctx, topic, difficulty, g.topK)
	if err != nil {
		g.logger.Debug("retrieval_context_skipped", "topic", topic, "error", err)
		return ""
	}
	g.observe(func(o GenerationObserver) { o.ObserveRetrieval(len(hits)) })
	if len(hits) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nHere are some example questions for inspiration:\n")
	for _, hit := range hits {
		b.WriteString("\nQuestion: " + hit.Text + "\n")
		b.WriteString("Options: " + strings.Join(hit.Options, ", ") + "\n")
		b.WriteString("Correct Answer: " + hit.CorrectAnswer + "\n")
	}
	return b.String()
}

func (g *QuizGenerator) factCheck(ctx context.Context, questions []domain.Question) []domain.Question {
	if g.checker == nil {
		return questions
	}

	corrections, err := g.checker.Check(ctx, questions)
	if err != nil {
		g.logger.Warn("fact_check_skipped", "error", err)
		return questions
	}
	g.observe(func(o GenerationObserver) { o.ObserveFactCheck(len(corrections)) })
	return MergeCorrections(questions, corrections)
}

// publishIndexJob hands the generated set to the index worker without
// blocking or failing the caller-visible response.
func (g *QuizGenerator) publishIndexJob(req domain.GenerationRequest, questions []domain.Question) {
	if g.queue == nil || len(questions) == 0 {
		return
	}

	job := domain.IndexJob{
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Questions:  questions,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), g.publishTimeout)
		defer cancel()
		if err := g.queue.PublishIndexJob(ctx, job); err != nil {
			g.observe(func(o GenerationObserver) { o.ObserveIndexPublish(false) })
			g.logger.Warn("index_publish_failed", "topic", job.Topic, "error", err)
			return
		}
		g.observe(func(o GenerationObserver) { o.ObserveIndexPublish(true) })
	}()
}

func (g *QuizGenerator) observe(fn func(GenerationObserver)) {
	if g.observer != nil {
		fn(g.observer)
	}
}

func buildQuizPrompt(req domain.GenerationRequest, retrievalContext string) string {
	return fmt.Sprintf(`Generate a %d-question multiple-choice quiz about "%s" at a %s level.
%s
IMPORTANT: The response MUST be ONLY a valid JSON object containing a single key "questions".
Each question object in the "questions" array must have:
- "question": The question text (string).
- "options": An array of 4 strings representing the choices.
- "correctIndex": The 0-based index of the correct answer within the "options" array (number).
Example JSON format:
{
  "questions": [
    {
      "question": "What is the capital of France?",
      "options": ["Berlin", "Madrid", "Paris", "Rome"],
      "correctIndex": 2
    }
  ]
}
DO NOT include any text before or after the JSON object.`, req.NumQuestions, req.Topic, req.Difficulty.Descriptor(), retrievalContext)
}

// parseQuiz coerces raw model output into the strict quiz shape: a JSON
// object with a non-empty questions array where every item carries exactly
// four options and an in-range correct index.
func parseQuiz(raw string) (*domain.Quiz, error) {
	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &quiz); err != nil {
		return nil, domain.WrapError(domain.ErrMalformedGeneration, "parse quiz", err)
	}
	if len(quiz.Questions) == 0 {
		return nil, domain.WrapError(domain.ErrMalformedGeneration, "parse quiz", errors.New("empty questions array"))
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		for j := range q.Options {
			q.Options[j] = strings.TrimSpace(q.Options[j])
		}
		if err := q.Validate(); err != nil {
			return nil, domain.WrapError(domain.ErrMalformedGeneration, "parse quiz", fmt.Errorf("question %d: %w", i, err))
		}
	}
	return &quiz, nil
}

// fallbackQuiz is the deterministic payload returned when generation or
// parsing fails. The text names the failure condition so the game screen can
// still be played and the problem is visible to the player.
func fallbackQuiz(reason string) *domain.Quiz {
	return &domain.Quiz{
		Questions: []domain.Question{
			{
				Text:         fmt.Sprintf("Quiz generation failed (%s). Try again?", reason),
				Options:      []string{"Yes", "No", "Maybe", "Later"},
				CorrectIndex: 0,
			},
		},
	}
}

func failureReason(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrModelNotFound):
		return "model not found"
	case domain.IsKind(err, domain.ErrEmptyGeneration):
		return "empty response"
	case domain.IsKind(err, domain.ErrProviderUnreachable):
		return "provider unreachable"
	default:
		return "provider error"
	}
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
