// Package s3 serves resources from a JSON snapshot stored in an
// S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/community-health-finder/internal/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SourceName identifies this source in response metadata.
const SourceName = "s3"

// Config locates the snapshot object.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Key       string
}

// Source reads a JSON array of resources from Bucket/Key on every fetch.
type Source struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewSource creates a minio client for cfg. No request is made until the
// first Fetch or CheckReadiness.
func NewSource(cfg Config, logger *slog.Logger) (*Source, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &Source{client: client, bucket: cfg.Bucket, key: cfg.Key, logger: logger}, nil
}

// Name implements domain.ResourceSource.
func (s *Source) Name() string { return SourceName }

// Fetch downloads the snapshot and returns the resources matching the
// filter's categories.
func (s *Source) Fetch(ctx context.Context, f domain.Filter) ([]domain.Resource, error) {
	object, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s/%s: %w", s.bucket, s.key, err)
	}
	defer object.Close()

	resources, err := decodeSnapshot(object, s.logger)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s/%s: %w", s.bucket, s.key, err)
	}

	sel := domain.SelectCategories(f.Categories...)
	out := resources[:0]
	for _, r := range resources {
		if sel.Matches(r.Categories) {
			out = append(out, r)
		}
	}
	return out, nil
}

// PutSnapshot uploads resources as the snapshot object, creating the bucket
// if it does not exist.
func (s *Source) PutSnapshot(ctx context.Context, resources []domain.Resource) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}

	data, err := json.Marshal(resources)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put snapshot %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

// CheckReadiness verifies the snapshot bucket exists.
func (s *Source) CheckReadiness(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("s3: bucket %s: %w", s.bucket, err)
	}
	if !exists {
		return fmt.Errorf("s3: bucket %s does not exist", s.bucket)
	}
	return nil
}

// decodeSnapshot reads a JSON array of resources. Entries without an id or
// without any known category are skipped, unknown categories are dropped,
// and invalid coordinates are cleared.
func decodeSnapshot(r io.Reader, logger *slog.Logger) ([]domain.Resource, error) {
	var raw []snapshotResource
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decode: snapshot is not a JSON array")
	}

	out := make([]domain.Resource, 0, len(raw))
	for i, entry := range raw {
		res := entry.Resource
		cats, unknown := domain.ParseCategories(entry.Categories)
		res.Categories = cats

		if len(unknown) > 0 {
			logger.Warn("dropping unknown categories", "resource_id", res.ID, "categories", unknown)
		}
		if res.ID == "" || len(cats) == 0 {
			logger.Warn("skipping snapshot entry", "index", i, "resource_id", res.ID)
			continue
		}
		if res.Coordinates != nil && !res.Coordinates.Valid() {
			logger.Warn("clearing invalid coordinates", "resource_id", res.ID)
			res.Coordinates = nil
		}
		out = append(out, res)
	}
	return out, nil
}

// snapshotResource decodes categories as plain strings so unknown ones can
// be reported instead of silently kept.
type snapshotResource struct {
	domain.Resource
	Categories []string `json:"categories"`
}
