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

	"github.com/Apurer/storefront-cart/internal/platform/migrations"
)

func setupCartPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("cart_test"),
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

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestCartIDStore_PostgresRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCartPostgresContainer(t)
	defer cleanup()

	store := NewCartIDStore(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session-1", "gid://shopify/Cart/c1"))
	require.NoError(t, store.Save(ctx, "session-1", "gid://shopify/Cart/c2"))
	require.NoError(t, store.Save(ctx, "session-2", "gid://shopify/Cart/c3"))

	id, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/c2", id)

	var count int64
	require.NoError(t, db.Table("cart_sessions").Where("session_id = ?", "session-1").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, store.Clear(ctx, "session-1"))
	id, err = store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, id)

	id, err = store.Load(ctx, "session-2")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/c3", id)
}

func TestCartIDStore_PostgresPurgeExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCartPostgresContainer(t)
	defer cleanup()

	store := NewCartIDStore(db, time.Minute)
	ctx := context.Background()
	past := time.Now().Add(-2 * time.Hour)
	store.now = func() time.Time { return past }
	require.NoError(t, store.Save(ctx, "stale", "gid://shopify/Cart/stale"))
	store.now = time.Now
	require.NoError(t, store.Save(ctx, "live", "gid://shopify/Cart/live"))

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	id, err := store.Load(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/live", id)
}
