package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vulbon/Raining-Day-Map/internal/adapter/cwa"
	httpadapter "github.com/vulbon/Raining-Day-Map/internal/adapter/http"
	kafkaadapter "github.com/vulbon/Raining-Day-Map/internal/adapter/kafka"
	"github.com/vulbon/Raining-Day-Map/internal/app"
	"github.com/vulbon/Raining-Day-Map/internal/catalog"
	"github.com/vulbon/Raining-Day-Map/internal/config"
	"github.com/vulbon/Raining-Day-Map/internal/domain"
	"github.com/vulbon/Raining-Day-Map/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	regions, err := catalog.Regions()
	if err != nil {
		logger.Error("failed to load region catalog", "error", err)
		os.Exit(1)
	}
	places, err := catalog.Places()
	if err != nil {
		logger.Error("failed to load place catalog", "error", err)
		os.Exit(1)
	}

	var forecaster app.Forecaster = cwa.NewClient(cfg.CWAAPIKey, cfg.CWABaseURL, cfg.CWADataset, cfg.CWATimeout, logger)
	if cfg.CWACacheSize > 0 {
		forecaster = cwa.NewCachedForecaster(forecaster, cfg.CWACacheSize, cfg.CWACacheTTL, metrics)
		logger.Info("forecast caching enabled", "size", cfg.CWACacheSize, "ttl", cfg.CWACacheTTL)
	}

	store := app.NewStore(places, metrics, logger)

	orch, err := app.NewOrchestrator(store, forecaster, regions, domain.Coordinate{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng}, logger, metrics)
	if err != nil {
		logger.Error("failed to create orchestrator", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, store, orch, orch, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional state-event publishing (feature-flagged via KAFKA_ENABLED).
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		events := store.Subscribe("kafka-publisher")
		go publisher.Run(ctx, events)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Resolve the startup position and fetch the first forecast.
	go orch.Bootstrap(ctx, app.StaticPosition{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng})

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		store.Unsubscribe("kafka-publisher")
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
