package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartserver "github.com/Apurer/storefront-cart/go"

	storefrontclient "github.com/Apurer/storefront-cart/internal/clients/http/storefront"
	storefrontgateway "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/external/storefront"
	cartmemory "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/memory"
	cartobs "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/observability"
	cartpostgres "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/persistence/postgres"
	cartredis "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/persistence/redis"
	cartapp "github.com/Apurer/storefront-cart/internal/domains/cart/application"
	cartports "github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	"github.com/Apurer/storefront-cart/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-cart/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-cart/internal/platform/postgres"
	platformredis "github.com/Apurer/storefront-cart/internal/platform/redis"
)

const serviceName = "storefront-cart-api"

// Run boots the cart HTTP API with observability, persistence and the storefront gateway wired.
// It returns when ctx is cancelled and the server has drained.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
		LogLevel:     cfg.LogLevel,
		LogFormat:    cfg.LogFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	client, err := storefrontclient.NewClient(cfg.StoreDomain, cfg.StorefrontToken,
		storefrontclient.WithAPIVersion(cfg.StorefrontVersion),
		storefrontclient.WithHTTPClient(&http.Client{
			Timeout: cfg.StorefrontTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(instruments.TracerProvider),
				otelhttp.WithMeterProvider(instruments.MeterProvider)),
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to build storefront client: %w", err)
	}
	logger.Info("storefront gateway configured", slog.String("endpoint", client.Endpoint()))
	gateway := storefrontgateway.NewGateway(client)

	ids, cleanupIDs := buildCartIDStore(ctx, cfg, logger)
	defer cleanupIDs()

	tracer := instruments.Tracer("internal.cart.application")
	meter := instruments.Meter("internal.cart.application")
	sessions := cartapp.NewSessions(gateway, ids,
		cartapp.WithIdleTTL(cfg.SessionIdleTTL),
		cartapp.WithRegistryLogger(logger),
		cartapp.WithStoreOptions(cartapp.WithLogger(logger)),
		cartapp.WithDecorator(func(sessionID string, svc cartports.Service) cartports.Service {
			return cartobs.New(sessionID, svc,
				cartobs.WithLogger(logger),
				cartobs.WithTracer(tracer),
				cartobs.WithMeter(meter),
			)
		}),
	)
	defer sessions.CloseAll()

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go sessions.RunSweeper(sweepCtx, cfg.SessionSweepInterval)

	cookie := cartserver.SessionOptions{CookieName: cartserver.DefaultSessionCookie, CookieSecure: cfg.CookieSecure}
	handlers := cartserver.ApiHandleFunctions{
		CartAPI: cartserver.NewCartAPI(sessions, cookie),
	}
	engine := gin.New()
	engine.Use(otelgin.Middleware(serviceName, otelgin.WithTracerProvider(instruments.TracerProvider)))
	router := cartserver.NewRouterWithGinEngine(engine, handlers, cookie)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("cart API listening", slog.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("cart API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("cart API shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// buildCartIDStore prefers redis, then postgres, then process memory.
func buildCartIDStore(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.CartIDStore, func()) {
	if client, cleanup := platformredis.ConnectOrSkip(ctx, cfg.RedisURL, logger); client != nil {
		logger.Info("cart id store configured with redis")
		return cartredis.NewCartIDStore(client, cartredis.DefaultKeyPrefix, cfg.CartIDTTL), cleanup
	}
	db, cleanup := platformpostgres.ConnectOrSkip(ctx, cfg.PostgresDSN, logger,
		platformpostgres.WithPool(cfg.PostgresMaxOpenConns, cfg.PostgresMaxIdleConns, cfg.PostgresConnMaxLifetime))
	if db == nil {
		logger.Warn("falling back to in-memory cart id store")
		return cartmemory.NewCartIDStore(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate cart schema, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return cartmemory.NewCartIDStore(), func() {}
	}
	logger.Info("cart id store configured with postgres")
	return cartpostgres.NewCartIDStore(db, cfg.CartIDTTL), cleanup
}
