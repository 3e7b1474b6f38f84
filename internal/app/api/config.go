package api

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	storefrontclient "github.com/Apurer/storefront-cart/internal/clients/http/storefront"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	StoreDomain       string        `env:"PUBLIC_SHOPIFY_STORE_DOMAIN,required,notEmpty"`
	StorefrontToken   string        `env:"SHOPIFY_STOREFRONT_ACCESS_TOKEN,required,notEmpty"`
	StorefrontVersion string        `env:"SHOPIFY_STOREFRONT_API_VERSION" envDefault:"2024-01"`
	StorefrontTimeout time.Duration `env:"SHOPIFY_STOREFRONT_TIMEOUT" envDefault:"10s"`

	PostgresDSN             string        `env:"POSTGRES_DSN"`
	PostgresMaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"10"`
	PostgresMaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"2"`
	PostgresConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
	RedisURL                string        `env:"REDIS_URL"`
	CartIDTTL               time.Duration `env:"CART_ID_TTL" envDefault:"240h"`

	SessionIdleTTL       time.Duration `env:"CART_SESSION_IDLE_TTL" envDefault:"30m"`
	SessionSweepInterval time.Duration `env:"CART_SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	CookieSecure         bool          `env:"CART_COOKIE_SECURE" envDefault:"true"`

	Environment  string `env:"ENVIRONMENT" envDefault:"local"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDomain = storefrontclient.NormalizeDomain(cfg.StoreDomain)
	cfg.StorefrontToken = strings.TrimSpace(cfg.StorefrontToken)
	cfg.Port = strings.TrimPrefix(strings.TrimSpace(cfg.Port), ":")
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.StoreDomain == "" || strings.ContainsAny(c.StoreDomain, " \t") {
		return fmt.Errorf("PUBLIC_SHOPIFY_STORE_DOMAIN must be a host name such as shop.myshopify.com")
	}
	if c.StorefrontToken == "" {
		return fmt.Errorf("SHOPIFY_STOREFRONT_ACCESS_TOKEN must not be blank")
	}
	if c.StorefrontTimeout <= 0 {
		return fmt.Errorf("SHOPIFY_STOREFRONT_TIMEOUT must be positive")
	}
	if c.SessionIdleTTL <= 0 || c.SessionSweepInterval <= 0 {
		return fmt.Errorf("CART_SESSION_IDLE_TTL and CART_SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.CartIDTTL <= 0 {
		return fmt.Errorf("CART_ID_TTL must be positive")
	}
	if c.PostgresMaxOpenConns < 0 || c.PostgresMaxIdleConns < 0 {
		return fmt.Errorf("POSTGRES_MAX_OPEN_CONNS and POSTGRES_MAX_IDLE_CONNS must not be negative")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
