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

	"github.com/quizforge/quizforge/internal/bootstrap"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/core/domain"
	"github.com/quizforge/quizforge/internal/observability/logging"
	"github.com/quizforge/quizforge/internal/observability/metrics"
)

const service = "worker"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New(service, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(service)

	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.Options{
		IndexObserver: workerMetrics.Observer(service),
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker_metrics_server_error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeIndexJobs(ctx, func(handlerCtx context.Context, job domain.IndexJob) error {
		jobCtx, cancel := context.WithTimeout(handlerCtx, 2*time.Minute)
		defer cancel()

		workerMetrics.StartJob()
		start := time.Now()
		indexErr := app.IndexUC.IndexQuestions(jobCtx, job)
		workerMetrics.FinishJob(service, time.Since(start), indexErr)
		return indexErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
