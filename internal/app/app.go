// Package app wires the service's dependencies and owns the run and
// shutdown lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nguyenhoangkha03/salesdesk/pkg/database"
	"github.com/nguyenhoangkha03/salesdesk/pkg/health"
	"github.com/nguyenhoangkha03/salesdesk/pkg/httpclient"
	pkgkafka "github.com/nguyenhoangkha03/salesdesk/pkg/kafka"
	"github.com/nguyenhoangkha03/salesdesk/pkg/middleware"
	"github.com/nguyenhoangkha03/salesdesk/pkg/tracing"

	"github.com/nguyenhoangkha03/salesdesk/internal/auth"
	"github.com/nguyenhoangkha03/salesdesk/internal/client"
	"github.com/nguyenhoangkha03/salesdesk/internal/config"
	"github.com/nguyenhoangkha03/salesdesk/internal/event"
	handler "github.com/nguyenhoangkha03/salesdesk/internal/handler/http"
	"github.com/nguyenhoangkha03/salesdesk/internal/repository/postgres"
	"github.com/nguyenhoangkha03/salesdesk/internal/repository/postgres/migrations"
	redisrepo "github.com/nguyenhoangkha03/salesdesk/internal/repository/redis"
	"github.com/nguyenhoangkha03/salesdesk/internal/service"
)

// App wires together all dependencies and runs the sales-order service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redisClient    *goredis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates the application with all dependencies initialized.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.Postgres.Host),
		slog.String("database", cfg.Postgres.DBName),
	)
	database.RegisterPoolMetrics(pool, "salesdesk")

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.Redis.Addr()))

	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// One retrying client shared by all collaborators, with a breaker per
	// collaborator so one failing upstream does not trip the others.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.ClientTimeout,
		MaxRetries:      cfg.ClientRetries,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
	})
	catalogDoer := httpclient.NewBreakerClient(baseClient, httpclient.DefaultBreakerConfig("catalog"), logger)
	customerDoer := httpclient.NewBreakerClient(baseClient, httpclient.DefaultBreakerConfig("customer"), logger)
	orderDoer := httpclient.NewBreakerClient(baseClient, httpclient.DefaultBreakerConfig("order"), logger)

	catalogClient := client.NewCatalogClient(catalogDoer, cfg.CatalogBaseURL)
	customerClient := client.NewCustomerClient(customerDoer, cfg.CustomerBaseURL)
	orderClient := client.NewOrderClient(orderDoer, cfg.OrderBaseURL)

	cartRepo := redisrepo.NewCartRepository(redisClient, cfg.CartTTL)
	submissionRepo := postgres.NewSubmissionRepository(pool)
	eventProducer := event.NewProducer(producer, logger)

	cartService := service.NewCartService(cartRepo, catalogClient, eventProducer, logger, cfg.DefaultShippingFee)
	orderService := service.NewOrderService(cartService, submissionRepo, customerClient, orderClient, eventProducer, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		Cart:           handler.NewCartHandler(cartService, logger),
		Order:          handler.NewOrderHandler(orderService, logger),
		Auth:           handler.NewAuthHandler(logger),
		Verifier:       auth.NewTokenVerifier(cfg.JWTSecret),
		Health:         healthHandler,
		Logger:         logger,
		CORS:           corsCfg,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redisClient:    redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown stops the components in dependency order: drain HTTP, flush
// spans, close the Kafka producer, then the stores.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
