package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mixlab/internal/api"
	"mixlab/internal/config"
	"mixlab/internal/database"
	"mixlab/internal/domain"
	"mixlab/internal/events"
	"mixlab/internal/export"
	"mixlab/internal/logging"
	"mixlab/internal/metrics"
	"mixlab/internal/notify"
	"mixlab/internal/repository"
	"mixlab/internal/service"
	"mixlab/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	statsCache := initStatsCache(cfg, redisClient, logger)

	eventBus := events.NewBus()
	subscribeAuditLog(eventBus, logger)

	notifyQueue := startNotifyWorker(ctx, cfg, logger)

	bookingService := service.NewBookingService(db, eventBus, notifyQueue, cfg.Schedule, logger)
	statsService := service.NewStatsService(db, statsCache, cfg.Schedule, logger)
	exporter := export.NewExporter(db, cfg.Exports.Path, logger)

	startMetrics(ctx, cfg, logger)

	httpServer := api.NewHTTPServer(cfg.API, bookingService, statsService, exporter, logger)
	return startServer(ctx, httpServer, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, &logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = client.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

// initStatsCache wires the stats cache: redis when available, with the
// in-process cache as failover target, otherwise memory alone.
func initStatsCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.StatsCache {
	memory := repository.NewMemoryStatsCache()
	if redisClient == nil {
		return memory
	}
	primary := repository.NewRedisStatsCache(redisClient, cfg.Schedule.CacheTTL())
	return repository.NewFailoverStatsCache(primary, memory, logger)
}

func subscribeAuditLog(bus *events.Bus, logger *zerolog.Logger) {
	for _, eventType := range []string{
		events.EventReservationCreated,
		events.EventReservationConfirmed,
		events.EventReservationCancelled,
		events.EventReservationCheckedIn,
		events.EventReservationCompleted,
		events.EventStatusOverridden,
	} {
		et := eventType
		bus.Subscribe(et, func(event *events.Event) error {
			logger.Info().Str("event_type", et).RawJSON("payload", event.Payload).Msg("reservation event")
			return nil
		})
	}
}

func startNotifyWorker(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) domain.NotifyQueue {
	var notifier domain.Notifier = notify.NopNotifier{}
	if cfg.Notify.Enabled && cfg.Notify.GatewayURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify, logger)
	}

	policy := worker.RetryPolicy{
		MaxRetries:    cfg.Notify.MaxRetries,
		InitialDelay:  2 * time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2,
	}
	w := worker.NewNotifyWorker(notifier, policy, logger)
	go w.Run(ctx)
	return w
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}
