package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	cartpostgres "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/storefront-cart/internal/platform/postgres"
)

type config struct {
	PostgresDSN string        `env:"POSTGRES_DSN"`
	CartIDTTL   time.Duration `env:"CART_ID_TTL" envDefault:"240h"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrSkip(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge cart ids")
	}

	store := cartpostgres.NewCartIDStore(db, cfg.CartIDTTL)
	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge cart ids: %v", err)
	}
	logger.Info("cart id purge completed", slog.Int64("purged", purged))
}
