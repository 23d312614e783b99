// Command genmock exports a resource catalog as the JSON snapshot the S3
// source reads, and can seed the external stores with it so local stacks
// serve the same listings as the static catalog.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/resources.json
//	go run ./cmd/genmock -catalog deploy/catalog.hcl -seed-postgres -seed-s3
//
// Seeding reads DATABASE_URL and the S3_* variables like the service does.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/community-health-finder/internal/adapter/postgres"
	s3adapter "github.com/couchcryptid/community-health-finder/internal/adapter/s3"
	"github.com/couchcryptid/community-health-finder/internal/catalog"
	"github.com/couchcryptid/community-health-finder/internal/config"
	"github.com/couchcryptid/community-health-finder/internal/domain"
	"github.com/couchcryptid/community-health-finder/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	catalogPath := flag.String("catalog", "", "HCL catalog file (default: built-in catalog)")
	out := flag.String("out", "", "output path for the JSON snapshot")
	seedPostgres := flag.Bool("seed-postgres", false, "upsert the catalog into DATABASE_URL")
	seedS3 := flag.Bool("seed-s3", false, "upload the snapshot to S3_BUCKET/S3_KEY")
	flag.Parse()

	if *out == "" && !*seedPostgres && !*seedS3 {
		flag.Usage()
		return errors.New("nothing to do: set -out, -seed-postgres, or -seed-s3")
	}

	cat := catalog.Builtin()
	if *catalogPath != "" {
		var err error
		if cat, err = catalog.LoadFile(*catalogPath); err != nil {
			return err
		}
	}
	resources := cat.Resources()
	log.Printf("catalog: %d resources", len(resources))
	printStats(resources)

	if *out != "" {
		if err := writeJSON(*out, resources); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		log.Printf("wrote snapshot: %s", *out)
	}

	if !*seedPostgres && !*seedS3 {
		return nil
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *seedPostgres {
		if cfg.DatabaseURL == "" {
			return errors.New("-seed-postgres requires DATABASE_URL")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		src := postgres.NewSource(pool, logger)
		if err := src.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := src.Upsert(ctx, resources); err != nil {
			return err
		}
		log.Printf("seeded postgres: %d resources", len(resources))
	}

	if *seedS3 {
		if !cfg.S3Enabled() {
			return errors.New("-seed-s3 requires S3_ENDPOINT")
		}
		src, err := s3adapter.NewSource(s3adapter.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			Bucket:    cfg.S3Bucket,
			Key:       cfg.S3Key,
		}, logger)
		if err != nil {
			return err
		}
		if err := src.PutSnapshot(ctx, resources); err != nil {
			return err
		}
		log.Printf("seeded s3: %s/%s", cfg.S3Bucket, cfg.S3Key)
	}

	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(resources []domain.Resource) {
	counts := make(map[domain.Category]int)
	withCoords := 0
	for _, r := range resources {
		for _, c := range r.Categories {
			counts[c]++
		}
		if r.Coordinates != nil {
			withCoords++
		}
	}

	log.Printf("with coordinates: %d/%d", withCoords, len(resources))
	for _, c := range domain.Categories() {
		log.Printf("  %-16s %d", c, counts[c])
	}
}
