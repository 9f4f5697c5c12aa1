package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	storefrontserver "github.com/Apurer/dairy-storefront/go"

	identityobs "github.com/Apurer/dairy-storefront/internal/domains/identity/adapters/observability"
	identityapp "github.com/Apurer/dairy-storefront/internal/domains/identity/application"
	identitydomain "github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	orderkafka "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/messaging/kafka"
	ordersobs "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/dairy-storefront/internal/domains/orders/application"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/dairy-storefront/internal/platform/observability"
	platformtemporal "github.com/Apurer/dairy-storefront/internal/platform/temporal"
)

const serviceName = "dairy-storefront-api"

// Run boots the storefront HTTP API with observability, stores, and status audit wired.
// It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
		LogFormat:   cfg.LogFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backends, cleanupBackends, err := OpenBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupBackends()
	if err := SeedDemoOrders(ctx, backends, cfg.SeedDemoOrders, logger); err != nil {
		logger.Warn("demo seeding failed", slog.String("error", err.Error()))
	}

	orderService := ordersobs.New(
		ordersapp.NewService(backends.Orders),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	recorder, closeRecorder := buildRecorder(cfg, backends, instruments)
	defer closeRecorder()

	identity := identityapp.NewService(backends.Users, backends.Sessions, identityapp.WithSessionTTL(cfg.SessionTTL))
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, no admin account bootstrapped")
	} else if _, err := identity.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword, identitydomain.RoleAdmin); err != nil {
		return fmt.Errorf("bootstrap admin account: %w", err)
	}
	sessions := identityobs.New(identity,
		identityobs.WithLogger(logger),
		identityobs.WithTracer(instruments.Tracer("internal.identity.application")),
		identityobs.WithMeter(instruments.Meter("internal.identity.application")),
	)
	if cfg.SessionPurgeInterval > 0 && backends.Purger != nil {
		go purgeSessions(ctx, backends.Purger, cfg.SessionPurgeInterval, logger)
	}

	consoles := ordersapp.NewConsoles(orderService,
		ordersapp.WithLogger(logger),
		ordersapp.WithRecorder(recorder),
	)
	handlers := storefrontserver.ApiHandleFunctions{
		OrderAPI:   storefrontserver.NewOrderAPI(orderService, ordersapp.NewHistory(backends.AuditLog)),
		ConsoleAPI: storefrontserver.NewConsoleAPI(consoles),
		SessionAPI: storefrontserver.NewSessionAPI(sessions, consoles),
		Sessions:   sessions,
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), storefrontserver.RequestID(), storefrontserver.RequestLogger(logger))
	router = storefrontserver.NewRouterWithGinEngine(router, handlers)

	server := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("storefront API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("storefront API shutting down")
	return server.Shutdown(shutdownCtx)
}

// buildRecorder prefers the durable Temporal workflow, which also publishes to
// Kafka from the worker. Without Temporal, changes go straight to the audit log
// and the optional Kafka publisher.
func buildRecorder(cfg Config, backends *Backends, instruments *platformobservability.Instruments) (ports.StatusChangeRecorder, func()) {
	logger := instruments.Logger
	if !cfg.TemporalDisabled {
		temporalClient, err := platformtemporal.Dial(platformtemporal.ClientConfig{
			Address:   cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
		}, logger, instruments.Tracer("temporal-client"))
		if err == nil {
			logger.Info("Temporal status audit enabled", slog.String("namespace", cfg.TemporalNamespace))
			return ordersworkflows.NewTemporalRecorder(temporalClient), temporalClient.Close
		}
		logger.Warn("Temporal workflows unavailable, recording status changes inline", slog.String("error", err.Error()))
	}

	inline := ordersworkflows.NewInlineRecorder(backends.AuditLog)
	if len(cfg.KafkaBrokers) == 0 {
		return inline, func() {}
	}
	producer, err := orderkafka.NewSyncProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.Warn("Kafka unavailable, status changes are not published", slog.String("error", err.Error()))
		return inline, func() {}
	}
	publisher := orderkafka.NewPublisher(producer, cfg.KafkaTopic)
	return ports.Recorders(inline, publisher), func() { _ = publisher.Close() }
}

func purgeSessions(ctx context.Context, purger SessionPurger, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := purger.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("session purge failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("expired sessions purged", slog.Int64("sessions.removed", removed))
		}
	}
}
