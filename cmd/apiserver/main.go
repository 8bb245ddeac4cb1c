// API server entry point for the workspace engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaarke/workspace-engine/internal/application/assist"
	"github.com/spaarke/workspace-engine/internal/application/events"
	"github.com/spaarke/workspace-engine/internal/application/portfolio"
	"github.com/spaarke/workspace-engine/internal/application/scoring"
	"github.com/spaarke/workspace-engine/internal/config"
	"github.com/spaarke/workspace-engine/internal/infrastructure/assistant"
	"github.com/spaarke/workspace-engine/internal/infrastructure/database/postgres"
	"github.com/spaarke/workspace-engine/internal/infrastructure/database/postgres/repositories"
	"github.com/spaarke/workspace-engine/internal/infrastructure/database/redis"
	"github.com/spaarke/workspace-engine/internal/infrastructure/docintel"
	"github.com/spaarke/workspace-engine/internal/infrastructure/messaging/kafka"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/spaarke/workspace-engine/internal/infrastructure/storage/minio"
	httpserver "github.com/spaarke/workspace-engine/internal/interfaces/http"
	"github.com/spaarke/workspace-engine/internal/interfaces/http/handlers"
	"github.com/spaarke/workspace-engine/internal/interfaces/http/middleware"
)

const metricsNamespace = "sprk"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var cfg *config.Config
	var err error
	if configPath == "" {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(configPath)
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("starting workspace engine", logging.Int("port", cfg.Server.Port))

	// Record store.
	conn, err := postgres.NewConnection(&cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	source := repositories.NewWorkspaceRepo(conn, logger)

	// Portfolio cache: Redis when enabled, in-process otherwise.
	var cache redis.Cache
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		cache = redis.NewRedisCache(client, logger, redis.WithDefaultTTL(cfg.Cache.PortfolioTTL))
	} else {
		logger.Info("redis disabled, using in-process cache")
		cache = redis.NewMemoryCache()
	}

	// Usage-event producer is best-effort telemetry.
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(&cfg.Kafka, logger)
		defer producer.Close()
		publisher = producer
	} else {
		logger.Info("kafka brokers not configured, usage events disabled")
	}

	// Document store and field extractor for pre-fill.  Without credentials
	// the pre-fill endpoint fails closed.
	var store assist.ObjectStore
	if cfg.MinIO.AccessKey != "" {
		store, err = minio.NewDocumentStore(&cfg.MinIO, logger)
		if err != nil {
			return err
		}
	} else {
		logger.Info("object storage credentials not configured, pre-fill disabled")
	}
	var extractor assist.Extractor
	if cfg.DocIntel.Endpoint != "" {
		extractor = docintel.NewExtractor(&cfg.DocIntel, logger)
	}

	// AI provider; services degrade per-endpoint when it is absent.
	aiClient := assistant.NewClient(&cfg.Assistant, logger)

	metrics := prometheus.NewMetrics(metricsNamespace)
	publisher = &instrumentedPublisher{inner: publisher, metrics: metrics}

	// Application services.
	aggregator := portfolio.NewAggregator(source, cache, cfg.Cache.PortfolioTTL, logger).WithMetrics(metrics)
	briefing := portfolio.NewBriefingService(aggregator, aiClient, publisher, logger)
	orchestrator := scoring.NewOrchestrator(scoring.NewPriorityScorer(), scoring.NewEffortScorer(), logger)
	summaries := assist.NewSummaryService(aiClient, logger)
	prefill := assist.NewPreFillService(store, extractor, cfg.PreFill.MaxFileBytes, logger)

	health := handlers.NewHealthHandler(
		handlers.DependencyCheck{Name: "database", Check: conn.HealthCheck},
		handlers.DependencyCheck{Name: "cache", Check: cache.Ping},
	)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		WorkspaceHandler: handlers.NewWorkspaceHandler(aggregator, briefing),
		ScoringHandler:   handlers.NewScoringHandler(orchestrator, publisher, logger).WithMetrics(metrics),
		AssistHandler:    handlers.NewAssistHandler(summaries, prefill, logger).WithMetrics(metrics),
		HealthHandler:    health,

		AuthMiddleware:    middleware.NewAuthMiddleware(&cfg.Auth, logger),
		LoggingMiddleware: middleware.NewLoggingMiddleware(logger),
		MetricsMiddleware: middleware.NewMetricsMiddleware(metrics),

		Logger:  logger,
		Metrics: metrics,
	})

	srv := httpserver.NewServer(&cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("received signal, shutting down", logging.String("signal", sig.String()))
	}

	if err := srv.Stop(context.Background()); err != nil {
		return err
	}
	logger.Info("workspace engine stopped")
	return nil
}
