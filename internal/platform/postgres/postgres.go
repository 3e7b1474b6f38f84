package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrEmptyDSN is returned by Connect when no DSN was configured.
var ErrEmptyDSN = errors.New("postgres DSN is empty")

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	pingTimeout time.Duration
}

// Option tunes the connection pool behind the returned *gorm.DB.
type Option func(*poolSettings)

// WithPool bounds the pool. Zero values keep database/sql defaults.
func WithPool(maxOpen, maxIdle int, maxLifetime time.Duration) Option {
	return func(s *poolSettings) {
		s.maxOpen = maxOpen
		s.maxIdle = maxIdle
		s.maxLifetime = maxLifetime
	}
}

// WithPingTimeout bounds the connectivity check done by Connect.
func WithPingTimeout(d time.Duration) Option {
	return func(s *poolSettings) {
		if d > 0 {
			s.pingTimeout = d
		}
	}
}

// Connect opens PostgreSQL through GORM, applies the pool settings and pings once.
func Connect(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, ErrEmptyDSN
	}
	settings := poolSettings{pingTimeout: 5 * time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap postgres pool: %w", err)
	}
	if settings.maxOpen > 0 {
		sqlDB.SetMaxOpenConns(settings.maxOpen)
	}
	if settings.maxIdle > 0 {
		sqlDB.SetMaxIdleConns(settings.maxIdle)
	}
	if settings.maxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(settings.maxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, settings.pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// ConnectOrSkip is Connect for optional databases: an empty DSN or a failed dial is
// logged and yields a nil DB with a no-op cleanup.
func ConnectOrSkip(ctx context.Context, dsn string, logger *slog.Logger, opts ...Option) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := Connect(ctx, dsn, opts...)
	switch {
	case errors.Is(err, ErrEmptyDSN):
		logger.Warn("POSTGRES_DSN not set, skipping postgres")
		return nil, func() {}
	case err != nil:
		logger.Warn("postgres unavailable, skipping", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("postgres connection established")
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
