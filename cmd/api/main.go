package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/quizforge/quizforge/internal/adapters/http"
	"github.com/quizforge/quizforge/internal/bootstrap"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/observability/logging"
	"github.com/quizforge/quizforge/internal/observability/metrics"
)

const service = "api"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New(service, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverMetrics := metrics.NewHTTPServerMetrics(service)

	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.Options{
		GenerationObserver: serverMetrics.Observer(service),
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(
		app.QuizUC,
		app.WordleUC,
		app.ProgressUC,
		app.StoreStatus,
		logger,
		httpadapter.RouterOptions{
			RateLimitPerSecond: cfg.RateLimitPerSecond,
			RateLimitBurst:     cfg.RateLimitBurst,
			MetricsHandler:     serverMetrics.Handler(),
			Prober:             app.Store,
			Middleware: func(next http.Handler) http.Handler {
				return serverMetrics.Middleware(service, next)
			},
		},
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_error", "error", err)
	}
}
