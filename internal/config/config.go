package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr          string
	LogLevel          string
	LogFormat         string
	ShutdownTimeout   time.Duration
	CORSAllowedOrigin string

	// CatalogFile replaces the built-in catalog with an HCL file when set.
	CatalogFile string

	// External resource store. DatabaseURL wins over S3 when both are set.
	DatabaseURL   string
	SourceTimeout time.Duration

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Key       string
	S3UseSSL    bool

	// Search event publishing.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaEventsTopic string

	// Mapbox zip geocoding for zips missing from the catalog.
	MapboxToken       string
	MapboxEnabled     bool
	MapboxTimeout     time.Duration
	MapboxCacheSize   int
	MapboxNegativeTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sourceTimeout, err := parsePositiveDuration("SOURCE_TIMEOUT", "3s")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	mapboxNegativeTTL, err := parsePositiveDuration("MAPBOX_NEGATIVE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	kafkaBrokers := sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092"))
	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:          sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
		CORSAllowedOrigin: sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGIN", "*"),

		CatalogFile: os.Getenv("CATALOG_FILE"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SourceTimeout: sourceTimeout,

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Key:       sharedcfg.EnvOrDefault("S3_KEY", "resources.json"),
		S3UseSSL:    os.Getenv("S3_USE_SSL") == "true",

		KafkaEnabled:     kafkaEnabled,
		KafkaBrokers:     kafkaBrokers,
		KafkaEventsTopic: sharedcfg.EnvOrDefault("KAFKA_EVENTS_TOPIC", "resource-searches"),

		MapboxToken:       mapboxToken,
		MapboxEnabled:     mapboxEnabled,
		MapboxTimeout:     mapboxTimeout,
		MapboxCacheSize:   parseMapboxCacheSize(),
		MapboxNegativeTTL: mapboxNegativeTTL,
	}

	if cfg.S3Enabled() && (cfg.S3AccessKey == "" || cfg.S3SecretKey == "" || cfg.S3Bucket == "") {
		return nil, errors.New("S3_ENDPOINT is set but S3_ACCESS_KEY, S3_SECRET_KEY, or S3_BUCKET is missing")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaEventsTopic == "" {
		return nil, errors.New("KAFKA_EVENTS_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// S3Enabled reports whether an S3 snapshot source is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != ""
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseMapboxCacheSize() int {
	if s := strings.TrimSpace(os.Getenv("MAPBOX_CACHE_SIZE")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
