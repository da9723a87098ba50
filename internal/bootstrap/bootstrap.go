package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/core/domain"
	"github.com/quizforge/quizforge/internal/core/ports"
	"github.com/quizforge/quizforge/internal/core/usecase"
	"github.com/quizforge/quizforge/internal/infrastructure/llm"
	"github.com/quizforge/quizforge/internal/infrastructure/llm/groq"
	"github.com/quizforge/quizforge/internal/infrastructure/queue/nats"
	"github.com/quizforge/quizforge/internal/infrastructure/repository/postgres"
	"github.com/quizforge/quizforge/internal/infrastructure/resilience"
	"github.com/quizforge/quizforge/internal/infrastructure/vector/chroma"
)

// Options carries the process-specific observation hooks; nil hooks are
// valid and simply record nothing.
type Options struct {
	GenerationObserver usecase.GenerationObserver
	IndexObserver      usecase.IndexObserver
}

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue       *nats.Queue
	Store       *chroma.Client
	StoreStatus domain.StoreStatus

	QuizUC     ports.QuizService
	WordleUC   ports.WordleService
	ProgressUC ports.ProgressService
	IndexUC    ports.QuestionIndexer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	progressRepo := postgres.NewProgressRepository(db)
	leaderboardRepo := postgres.NewLeaderboardRepository(db)

	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		Executor: executor,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init index queue: %w", err)
	}

	generator, err := llm.ResolveProvider(llm.Settings{
		OllamaEnabled:      cfg.UseOllama,
		OllamaURL:          cfg.OllamaURL,
		OllamaDefaultModel: cfg.OllamaDefaultModel,
		OllamaTaskModels:   cfg.OllamaTaskModels(),

		OpenRouterAPIKey:  cfg.OpenRouterAPIKey,
		OpenRouterBaseURL: cfg.OpenRouterBaseURL,
		OpenRouterModel:   cfg.OpenRouterModel,

		HuggingFaceAPIKey:  cfg.HuggingFaceAPIKey,
		HuggingFaceBaseURL: cfg.HuggingFaceBaseURL,
		HuggingFaceModel:   cfg.HuggingFaceModel,
	})
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("resolve provider: %w", err)
	}
	logger.Info("provider_resolved", "provider", generator.Name())

	// The fact-checking pass is optional and simply absent without a key.
	var checker ports.FactChecker
	if cfg.GroqAPIKey != "" {
		checker = groq.New(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
	}

	store := chroma.New(cfg.ChromaURL, executor)

	// One probe at startup decides store-backed behavior for the process
	// lifetime; a store that comes up later is picked up on restart.
	status := store.Probe(ctx)
	logger.Info("store_probed", "url", cfg.ChromaURL, "status", status.String())

	quizUC := usecase.NewQuizGenerator(
		generator, store, checker, queue, status,
		opts.GenerationObserver,
		usecase.QuizGeneratorOptions{RetrievalTopK: cfg.RetrievalTopK},
		logger,
	)
	wordleUC := usecase.NewWordleGenerator(generator, store, status, logger)
	progressUC := usecase.NewProgressTracker(progressRepo, leaderboardRepo, logger)
	indexUC := usecase.NewIndexWriter(store, status, cfg.IndexDedupSkip, opts.IndexObserver, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:       queue,
		Store:       store,
		StoreStatus: status,

		QuizUC:     quizUC,
		WordleUC:   wordleUC,
		ProgressUC: progressUC,
		IndexUC:    indexUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
