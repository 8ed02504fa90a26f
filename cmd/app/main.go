package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"webhook-message-service/config"
	"webhook-message-service/internal/api"
	"webhook-message-service/internal/cache"
	"webhook-message-service/internal/metrics"
	"webhook-message-service/internal/repository"
	"webhook-message-service/internal/services"
	"webhook-message-service/internal/signature"
	"webhook-message-service/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// @title           Webhook Message Service
// @version         1.0
// @description     Receives signed webhook messages and serves paginated read-back and statistics

// @host      localhost:8080
// @BasePath  /
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	dbPool, redisClient, err := setupDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to setup dependencies")
	}
	defer dbPool.Close()
	if redisClient != nil {
		defer redisClient.Close()
	}

	jobManager, server := buildApplication(dbPool, redisClient, &wg, cfg, logger)

	startBackgroundJob(jobManager, ctx, cfg, logger)
	startServer(server, logger)

	waitForShutdown(server, cancel, &wg, logger)

	logger.Info().Msg("server gracefully stopped")
}

func setupLogger(level string) (zerolog.Logger, error) {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("failed to parse log level: %w", err)
	}

	zerolog.TimestampFieldName = "ts"
	logger := zerolog.New(os.Stdout).Level(parsedLevel).With().Timestamp().Logger()
	return logger, nil
}

func setupDependencies(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, *redis.Client, error) {
	dbPool, err := repository.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to establish database connection: %w", err)
	}
	logger.Info().Msg("database connection established")

	if err := repository.InitSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("database schema initialized")

	// Redis only backs the webhook rate limiter; the service runs
	// without it when no address is configured.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			dbPool.Close()
			return nil, nil, fmt.Errorf("failed to establish Redis connection: %w", err)
		}
		logger.Info().Msg("redis connection established")
	}

	return dbPool, redisClient, nil
}

func buildApplication(dbPool *pgxpool.Pool, redisClient *redis.Client, wg *sync.WaitGroup,
	cfg *config.Config, logger zerolog.Logger) (*worker.JobManager, *http.Server) {
	messageRepository := repository.NewMessageRepository(dbPool)
	messageService := services.NewMessageService(messageRepository)

	verifier := signature.NewVerifier([]byte(cfg.WebhookSecret))
	metricsSet := metrics.New()

	var limiter cache.RateLimiter
	if redisClient != nil && cfg.WebhookRateLimit > 0 {
		limiter = cache.NewRateLimiter(redisClient, cfg.WebhookRateLimit, time.Minute)
	}

	snapshotInterval := time.Duration(cfg.StatsSnapshotInterval) * time.Second
	jobManager := worker.NewJobManager(messageService, metricsSet, logger, snapshotInterval, wg)

	apiHandler := api.NewHandler(messageService, verifier, metricsSet, logger, cfg.WebhookSecret != "")
	router := api.NewRouter(apiHandler, metricsSet, logger, limiter)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	logger.Info().Msg("application components built successfully")
	return jobManager, server
}

func startBackgroundJob(jobManager *worker.JobManager, ctx context.Context, cfg *config.Config, logger zerolog.Logger) {
	if cfg.StatsSnapshotInterval <= 0 {
		logger.Info().Msg("stats snapshot job disabled")
		return
	}

	if err := jobManager.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("unexpected error while starting job")
	}
}

func startServer(server *http.Server, logger zerolog.Logger) {
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("unexpected error while starting server")
		}
	}()
}

func waitForShutdown(server *http.Server, cancelApp context.CancelFunc, wg *sync.WaitGroup, logger zerolog.Logger) {
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	<-shutdownChan

	logger.Info().Msg("shutting down gracefully...")

	// give the HTTP server 15 seconds to drain in-flight requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("unexpected error while shutting down server")
	}

	cancelApp()
	wg.Wait()
}
