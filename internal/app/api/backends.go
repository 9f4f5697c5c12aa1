package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaswdr/faker"

	identitymemory "github.com/Apurer/dairy-storefront/internal/domains/identity/adapters/memory"
	identitypostgres "github.com/Apurer/dairy-storefront/internal/domains/identity/adapters/persistence/postgres"
	identityports "github.com/Apurer/dairy-storefront/internal/domains/identity/ports"
	ordersmemory "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/memory"
	ordersmongo "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/persistence/mongo"
	orderspostgres "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/persistence/postgres"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
	platformmongo "github.com/Apurer/dairy-storefront/internal/platform/mongo"
	platformpostgres "github.com/Apurer/dairy-storefront/internal/platform/postgres"
)

// Backends are the storage adapters selected by Config.
type Backends struct {
	Orders   ports.Store
	Seeder   ports.Seeder
	AuditLog ports.AuditLog
	Users    identityports.UserRepository
	Sessions identityports.SessionStore
	// Purger is set when sessions live in postgres.
	Purger SessionPurger
}

// SessionPurger removes expired sessions and reports how many were dropped.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// OpenBackends connects the configured order store. Postgres, when a DSN is
// present, also backs the audit log and identity; otherwise they stay in memory.
func OpenBackends(ctx context.Context, cfg Config, logger *slog.Logger) (*Backends, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	memStore := ordersmemory.NewStore()
	memSessions := identitymemory.NewSessionStore()
	backends := &Backends{
		Orders:   memStore,
		Seeder:   memStore,
		AuditLog: ordersmemory.NewAuditLog(),
		Users:    identitymemory.NewUserRepository(),
		Sessions: memSessions,
	}

	if cfg.PostgresDSN != "" {
		db, closeDB, err := platformpostgres.Open(ctx, platformpostgres.Config{
			DSN:             cfg.PostgresDSN,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			Migrate:         true,
		}, logger)
		if err != nil {
			if cfg.OrderStore == StorePostgres {
				return nil, cleanup, fmt.Errorf("connect postgres: %w", err)
			}
			logger.Warn("failed to connect to postgres, audit log and identity stay in memory", slog.String("error", err.Error()))
		} else {
			cleanups = append(cleanups, closeDB)
			sessions := identitypostgres.NewSessionStore(db)
			backends.AuditLog = orderspostgres.NewAuditLog(db)
			backends.Users = identitypostgres.NewUserRepository(db)
			backends.Sessions = sessions
			backends.Purger = sessions
			if cfg.OrderStore == StorePostgres {
				store := orderspostgres.NewStore(db)
				backends.Orders = store
				backends.Seeder = store
			}
		}
	}

	if cfg.OrderStore == StoreMongo {
		db, disconnect, err := platformmongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("connect mongo: %w", err)
		}
		cleanups = append(cleanups, disconnect)
		store := ordersmongo.NewStore(db)
		backends.Orders = store
		backends.Seeder = store
	}

	logger.Info("order store configured", slog.String("store", string(cfg.OrderStore)))
	return backends, cleanup, nil
}

// SeedDemoOrders fills an empty store with generated dairy orders.
func SeedDemoOrders(ctx context.Context, backends *Backends, count int, logger *slog.Logger) error {
	if count <= 0 || backends.Seeder == nil {
		return nil
	}
	existing, err := backends.Orders.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("inspect order store: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("order store already populated, skipping demo seed", slog.Int("orders.count", len(existing)))
		return nil
	}
	orders := ordersmemory.DemoOrders(faker.New(), count, time.Now().UTC())
	if err := backends.Seeder.Insert(ctx, orders...); err != nil {
		return fmt.Errorf("seed demo orders: %w", err)
	}
	logger.Info("demo orders seeded", slog.Int("orders.count", len(orders)))
	return nil
}
