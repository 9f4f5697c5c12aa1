package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/dairy-storefront/internal/app/api"
	orderkafka "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/messaging/kafka"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/dairy-storefront/internal/platform/observability"
	platformtemporal "github.com/Apurer/dairy-storefront/internal/platform/temporal"
	orderactivities "github.com/Apurer/dairy-storefront/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/dairy-storefront/internal/platform/temporal/workflows/orders"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	const serviceName = "dairy-storefront-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
		LogFormat:   cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backends, cleanupBackends, err := api.OpenBackends(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage backends", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupBackends()
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, status audit entries are kept in worker memory only")
	}

	var publisher ports.StatusChangeRecorder
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := orderkafka.NewSyncProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Warn("Kafka unavailable, status changes are not published", slog.String("error", err.Error()))
		} else {
			kafkaPublisher := orderkafka.NewPublisher(producer, cfg.KafkaTopic)
			defer kafkaPublisher.Close()
			publisher = kafkaPublisher
		}
	}
	activities := orderactivities.NewActivities(backends.AuditLog, publisher)

	temporalClient, err := platformtemporal.Dial(platformtemporal.ClientConfig{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	}, logger, instruments.Tracer("temporal-worker"))
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.StatusAuditTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.StatusAuditWorkflow, workflow.RegisterOptions{Name: orderworkflows.StatusAuditWorkflowName})
	w.RegisterActivityWithOptions(activities.RecordStatusChange, activity.RegisterOptions{Name: orderactivities.RecordStatusChangeActivityName})
	w.RegisterActivityWithOptions(activities.PublishStatusChange, activity.RegisterOptions{Name: orderactivities.PublishStatusChangeActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.StatusAuditTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
