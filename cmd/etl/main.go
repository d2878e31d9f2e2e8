package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/emberwatch/smoke-threat-etl/internal/adapter/http"
	kafkaadapter "github.com/emberwatch/smoke-threat-etl/internal/adapter/kafka"
	"github.com/emberwatch/smoke-threat-etl/internal/adapter/redisstore"
	"github.com/emberwatch/smoke-threat-etl/internal/config"
	"github.com/emberwatch/smoke-threat-etl/internal/domain"
	"github.com/emberwatch/smoke-threat-etl/internal/observability"
	"github.com/emberwatch/smoke-threat-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	domain.AuditCalibrations(logger)

	// Initialize snapshot store (feature-flagged via REDIS_ENABLED / REDIS_ADDR).
	var snapshots pipeline.SnapshotStore
	var latest httpadapter.LatestProvider
	if cfg.RedisEnabled {
		store, err := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisSnapshotTTL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		snapshots = store
		latest = store
		logger.Info("redis snapshot store enabled", "addr", cfg.RedisAddr, "ttl", cfg.RedisSnapshotTTL)
	} else {
		logger.Info("redis snapshot store disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewAssessTransformer(domain.AssessOptions{
		SampleStep: cfg.SampleStep,
		Tolerance:  cfg.MatchTolerance,
	}, logger)

	p := pipeline.New(reader, transformer, writer, snapshots, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, latest, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
