//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	platformredis "github.com/Apurer/storefront-cart/internal/platform/redis"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := platformredis.Connect(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)

	cleanup := func() {
		_ = client.Close()
		container.Terminate(ctx)
	}
	return client, cleanup
}

func TestCartIDStore_RedisRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewCartIDStore(client, "it:", time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session-1", "gid://shopify/Cart/c1"))
	id, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/c1", id)

	ttl, err := client.TTL(ctx, "it:session-1:shopify_cart_id").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, store.Clear(ctx, "session-1"))
	id, err = store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, id)
}
