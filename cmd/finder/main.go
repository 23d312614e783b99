package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/community-health-finder/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/community-health-finder/internal/adapter/kafka"
	"github.com/couchcryptid/community-health-finder/internal/adapter/mapbox"
	"github.com/couchcryptid/community-health-finder/internal/adapter/postgres"
	s3adapter "github.com/couchcryptid/community-health-finder/internal/adapter/s3"
	"github.com/couchcryptid/community-health-finder/internal/catalog"
	"github.com/couchcryptid/community-health-finder/internal/config"
	"github.com/couchcryptid/community-health-finder/internal/finder"
	"github.com/couchcryptid/community-health-finder/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat := catalog.Builtin()
	if cfg.CatalogFile != "" {
		cat, err = catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			logger.Error("failed to load catalog file", "path", cfg.CatalogFile, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("catalog loaded", "resources", cat.Len(), "zips", len(cat.Zips()))

	var opts []finder.Option

	// External store (feature-flagged via DATABASE_URL or S3_ENDPOINT).
	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		src := postgres.NewSource(pool, logger)
		if err := src.EnsureSchema(ctx); err != nil {
			// The static catalog keeps serving until the database comes back.
			logger.Warn("postgres schema setup failed", "error", err)
		}
		opts = append(opts, finder.WithSource(src, cfg.SourceTimeout))
		logger.Info("postgres resource source enabled", "timeout", cfg.SourceTimeout)
	case cfg.S3Enabled():
		src, err := s3adapter.NewSource(s3adapter.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			Bucket:    cfg.S3Bucket,
			Key:       cfg.S3Key,
		}, logger)
		if err != nil {
			logger.Error("failed to create s3 source", "error", err)
			os.Exit(1)
		}
		opts = append(opts, finder.WithSource(src, cfg.SourceTimeout))
		logger.Info("s3 resource source enabled", "bucket", cfg.S3Bucket, "key", cfg.S3Key)
	default:
		logger.Info("no external resource source configured, serving static catalog")
	}

	// Zip geocoding (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		opts = append(opts, finder.WithGeocoder(mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, cfg.MapboxNegativeTTL, metrics)))
		logger.Info("mapbox geocoding enabled",
			"cache_size", cfg.MapboxCacheSize,
			"negative_ttl", cfg.MapboxNegativeTTL,
			"timeout", cfg.MapboxTimeout,
		)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	// Search events (feature-flagged via KAFKA_ENABLED).
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		opts = append(opts, finder.WithPublisher(publisher))
		logger.Info("search events enabled", "topic", cfg.KafkaEventsTopic, "brokers", cfg.KafkaBrokers)
	}

	svc := finder.New(cat, logger, metrics, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, cfg.CORSAllowedOrigin, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
