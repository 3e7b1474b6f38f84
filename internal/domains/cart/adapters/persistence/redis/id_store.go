package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

const (
	// DefaultKeyPrefix namespaces cart id keys.
	DefaultKeyPrefix = "cart:session:"
	// DefaultCartIDTTL matches the lifetime the storefront grants an untouched cart.
	DefaultCartIDTTL = 10 * 24 * time.Hour
)

// CartIDStore keeps session cart identifiers in Redis with a sliding TTL.
type CartIDStore struct {
	client    goredis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewCartIDStore wraps an existing client. Caller owns the client lifecycle.
func NewCartIDStore(client goredis.UniversalClient, keyPrefix string, ttl time.Duration) *CartIDStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultCartIDTTL
	}
	return &CartIDStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *CartIDStore) key(sessionID string) string {
	return s.keyPrefix + strings.TrimSpace(sessionID) + ":" + ports.CartIDKey
}

// Load returns the stored cart id, or "" when nothing is stored.
func (s *CartIDStore) Load(ctx context.Context, sessionID string) (string, error) {
	if err := s.ensureClient(); err != nil {
		return "", err
	}
	value, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load cart id: %w", err)
	}
	return value, nil
}

// Save stores the cart id and resets its TTL.
func (s *CartIDStore) Save(ctx context.Context, sessionID, cartID string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(cartID) == "" {
		return errors.New("session id and cart id are required")
	}
	if err := s.client.Set(ctx, s.key(sessionID), cartID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart id: %w", err)
	}
	return nil
}

// Touch resets the TTL of a stored cart id.
func (s *CartIDStore) Touch(ctx context.Context, sessionID string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if err := s.client.Expire(ctx, s.key(sessionID), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh cart id: %w", err)
	}
	return nil
}

// Clear deletes the cart id of a session.
func (s *CartIDStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart id: %w", err)
	}
	return nil
}

func (s *CartIDStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis cart id store not configured")
	}
	return nil
}

var _ ports.CartIDStore = (*CartIDStore)(nil)
