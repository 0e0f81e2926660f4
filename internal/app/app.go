package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/omega-events/omega-backend/internal/auth"
	"github.com/omega-events/omega-backend/internal/cache"
	"github.com/omega-events/omega-backend/internal/config"
	"github.com/omega-events/omega-backend/internal/event"
	httphandler "github.com/omega-events/omega-backend/internal/handler/http"
	"github.com/omega-events/omega-backend/internal/processor/stripe"
	"github.com/omega-events/omega-backend/internal/repository/postgres"
	"github.com/omega-events/omega-backend/internal/service"
	"github.com/omega-events/omega-backend/pkg/database"
	"github.com/omega-events/omega-backend/pkg/health"
	"github.com/omega-events/omega-backend/pkg/httpclient"
	"github.com/omega-events/omega-backend/pkg/kafka"
	"github.com/omega-events/omega-backend/pkg/middleware"
	"github.com/omega-events/omega-backend/pkg/tracing"
)

const serviceName = "omega-backend"

// App owns the process-wide dependencies and the HTTP server. Clients are
// constructed once at startup and injected into handlers, never reached as
// ambient singletons.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool        *pgxpool.Pool
	redisClient *redis.Client
	producer    *kafka.Producer
	server      *http.Server

	shutdownTracing func(context.Context) error
}

// New wires the application from configuration.
func New(ctx context.Context, cfg *config.Config, l *slog.Logger) (*App, error) {
	shutdownTracing, err := tracing.Init(ctx, serviceName, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, l)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	prometheus.MustRegister(database.NewPoolStatsCollector(pool))

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaRefundTopic, l)

	paymentRepo := postgres.NewPaymentRecordRepository(pool)
	refundRepo := postgres.NewRefundRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)

	stripeClient := stripe.New(cfg.StripeAPIKey, httpclient.New("stripe", 30*time.Second, l))
	publisher := event.NewKafkaPublisher(producer, l)
	roleCache := cache.NewRoleCache(redisClient, cfg.RoleCacheTTL)

	refundSvc := service.NewRefundService(paymentRepo, refundRepo, stripeClient, publisher, l)
	adminSvc := service.NewAdminService(profileRepo, roleCache, cfg.AdminAllowedEmails, l)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	validate := func(token string) (*middleware.Claims, error) {
		identity, err := verifier.Verify(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{UserID: identity.ID, Email: identity.Email, Role: identity.Role}, nil
	}

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	router := httphandler.NewRouter(httphandler.RouterConfig{
		Refunds:             httphandler.NewRefundHandler(refundSvc, l),
		Charges:             httphandler.NewChargeHandler(refundSvc, l),
		Admin:               httphandler.NewAdminHandler(adminSvc, l),
		Health:              healthHandler,
		Logger:              l,
		TokenVerifier:       validate,
		ServiceName:         serviceName,
		CORSAllowedOrigin:   cfg.CORSAllowedOrigin,
		AdminRateLimitRPS:   cfg.AdminRateLimitRPS,
		AdminRateLimitBurst: cfg.AdminRateLimitBurst,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	return &App{
		cfg:             cfg,
		logger:          l,
		pool:            pool,
		redisClient:     redisClient,
		producer:        producer,
		server:          server,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return a.Shutdown()
	}
}

// Shutdown drains the server and closes all clients.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.producer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close kafka producer: %w", err))
	}
	if err := a.redisClient.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis client: %w", err))
	}
	a.pool.Close()
	if err := a.shutdownTracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
	}

	return errors.Join(errs...)
}
