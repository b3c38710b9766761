package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketpulse/campaign-insights/internal/config"
	"github.com/marketpulse/campaign-insights/internal/dashboard"
	"github.com/marketpulse/campaign-insights/internal/database"
	"github.com/marketpulse/campaign-insights/internal/dataset"
	"github.com/marketpulse/campaign-insights/internal/httpserver"
	"github.com/marketpulse/campaign-insights/internal/metrics"
	"github.com/marketpulse/campaign-insights/internal/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := middleware.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting campaign-insights",
		zap.String("env", cfg.Server.Env),
		zap.String("addr", cfg.Server.Addr),
		zap.String("dataset_source", cfg.Dataset.Source),
	)

	ctx := context.Background()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics("campaign_insights")
	}

	// Build the configured event-log source.
	src, cleanup, err := buildSource(ctx, cfg, logger, m)
	if err != nil {
		logger.Fatal("failed to initialize dataset source", zap.Error(err))
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Try to connect to Redis for the result cache.
	var redisClient *redis.Client
	redisDB, err := database.NewRedisDB(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis not available, result cache disabled", zap.Error(err))
	} else {
		defer redisDB.Close()
		redisClient = redisDB.Client
	}

	// Load the dataset once for the session. A loader failure is fatal.
	cache := dataset.NewCache(logger, m)
	store, err := cache.Get(ctx, src)
	if err != nil {
		logger.Fatal("failed to load dataset", zap.Error(err))
	}

	service := dashboard.NewService(store, redisClient, cfg.Dataset.CacheTTL, cfg.Dataset.TopLocations, logger, m)

	handler := httpserver.NewServer(&httpserver.Dependencies{
		Service: service,
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// buildSource constructs the event-log source selected by config,
// returning a cleanup func for any connection it opened.
func buildSource(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (dataset.Source, func(), error) {
	switch cfg.Dataset.Source {
	case config.SourceCSV:
		return dataset.NewCSVSource(cfg.Dataset.CSVPath, cfg.Dataset.Strict, logger, m), nil, nil

	case config.SourcePostgres:
		db, err := database.NewPostgresDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		return dataset.NewPostgresSource(db.Pool, cfg.Dataset.Table), db.Close, nil

	case config.SourceClickHouse:
		ch, err := database.NewClickHouseDB(ctx, cfg.ClickHouse, logger)
		if err != nil {
			return nil, nil, err
		}
		return dataset.NewClickHouseSource(ch.Conn, cfg.Dataset.Table), func() { _ = ch.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
}
