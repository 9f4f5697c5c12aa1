//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/identity/ports"
	"github.com/Apurer/dairy-storefront/internal/platform/migrations"
)

func setupIdentityPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestUserRepository_SaveAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupIdentityPostgresContainer(t)
	defer cleanup()

	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("u-1", "dairy-admin", "churned-butter", domain.RoleAdmin)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "u-1", saved.ID)
	assert.True(t, saved.CheckPassword("churned-butter"))
	assert.Equal(t, domain.RoleAdmin, saved.Role)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSessionStore_SaveGetDeleteAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupIdentityPostgresContainer(t)
	defer cleanup()

	store := NewSessionStore(db)
	ctx := context.Background()
	live := domain.Session{Token: "live", Username: "dairy-admin", Role: domain.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)}
	expired := domain.Session{Token: "expired", Username: "dairy-admin", Role: domain.RoleAdmin, ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, store.Save(ctx, live))
	require.NoError(t, store.Save(ctx, expired))

	got, err := store.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.WithinDuration(t, live.ExpiresAt, got.ExpiresAt, time.Second)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	_, err = store.Get(ctx, "expired")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	require.NoError(t, store.Delete(ctx, "live"))
	_, err = store.Get(ctx, "live")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}
