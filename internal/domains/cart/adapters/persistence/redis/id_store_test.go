package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-cart/internal/domains/cart/application"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCartIDStore_SaveLoadClear(t *testing.T) {
	mr, client := setupMiniredis(t)
	store := NewCartIDStore(client, "", time.Hour)
	ctx := context.Background()

	id, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, store.Save(ctx, "session-1", "gid://shopify/Cart/c1"))
	assert.True(t, mr.Exists("cart:session:session-1:shopify_cart_id"))
	assert.Equal(t, time.Hour, mr.TTL("cart:session:session-1:shopify_cart_id"))

	id, err = store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/c1", id)

	require.NoError(t, store.Clear(ctx, "session-1"))
	id, err = store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestCartIDStore_ExpiresWithTTL(t *testing.T) {
	mr, client := setupMiniredis(t)
	store := NewCartIDStore(client, "test:", time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session-1", "gid://shopify/Cart/c1"))
	mr.FastForward(2 * time.Minute)

	id, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestCartIDStore_ConnectionFailure(t *testing.T) {
	mr, client := setupMiniredis(t)
	store := NewCartIDStore(client, "", time.Hour)
	mr.Close()

	_, err := store.Load(context.Background(), "session-1")
	require.Error(t, err)
	require.Error(t, store.Save(context.Background(), "session-1", "c1"))
}

func TestCartIDStore_RejectsEmptyValues(t *testing.T) {
	_, client := setupMiniredis(t)
	store := NewCartIDStore(client, "", time.Hour)

	require.Error(t, store.Save(context.Background(), "session-1", ""))
}

func TestCartIDStore_TouchSlidesTTL(t *testing.T) {
	mr, client := setupMiniredis(t)
	store := NewCartIDStore(client, "", time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Touch(ctx, "session-1"))
	assert.False(t, mr.Exists("cart:session:session-1:shopify_cart_id"))

	require.NoError(t, store.Save(ctx, "session-1", "gid://shopify/Cart/c1"))
	mr.FastForward(40 * time.Minute)
	require.NoError(t, store.Touch(ctx, "session-1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:session:session-1:shopify_cart_id"))
}

type fixedCartGateway struct{ cart *domain.Cart }

func (g fixedCartGateway) CreateCart(context.Context, string, int) (*domain.Cart, error) {
	return g.cart, nil
}

func (g fixedCartGateway) AddLine(context.Context, string, string, int) (*domain.Cart, error) {
	return g.cart, nil
}

func (g fixedCartGateway) UpdateLine(context.Context, string, string, int) (*domain.Cart, error) {
	return g.cart, nil
}

func (g fixedCartGateway) RemoveLine(context.Context, string, string) (*domain.Cart, error) {
	return g.cart, nil
}

func (g fixedCartGateway) FetchCart(context.Context, string) (*domain.Cart, bool, error) {
	return g.cart, true, nil
}

func TestCartIDStore_SlotOutlivesTTLWhileCartIsUsed(t *testing.T) {
	mr, client := setupMiniredis(t)
	ids := NewCartIDStore(client, "", DefaultCartIDTTL)
	gateway := fixedCartGateway{cart: &domain.Cart{ID: "gid://shopify/Cart/c1"}}
	ctx := context.Background()

	store := application.NewStore("session-1", gateway, ids)
	require.NoError(t, store.AddItem(ctx, "variant-A", 1))
	mr.FastForward(6 * 24 * time.Hour)
	require.NoError(t, store.AddItem(ctx, "variant-A", 1))
	assert.Equal(t, DefaultCartIDTTL, mr.TTL("cart:session:session-1:shopify_cart_id"))

	mr.FastForward(5 * 24 * time.Hour)
	id, err := ids.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/c1", id)

	restored := application.NewStore("session-1", gateway, ids)
	result, err := restored.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RestoreRestored, result)
	mr.FastForward(6 * 24 * time.Hour)
	id, err = ids.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/c1", id)
}
