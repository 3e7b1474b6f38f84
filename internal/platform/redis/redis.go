package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect builds a client from a redis:// URL or a bare host:port and verifies connectivity.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		opts = &goredis.Options{
			Addr:         url,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// ConnectOrSkip dials redis when url is set. A missing URL or failed dial is logged and
// returns nil with a no-op cleanup so callers fall back to another store.
func ConnectOrSkip(ctx context.Context, url string, logger *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(url) == "" {
		return nil, func() {}
	}
	client, err := Connect(ctx, url)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, falling back", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established")
	}
	return client, func() { _ = client.Close() }
}
