// Package postgres serves resources from a PostgreSQL table.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/community-health-finder/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SourceName identifies this source in response metadata.
const SourceName = "postgres"

const createResourcesTable = `CREATE TABLE IF NOT EXISTS resources (
	id          text PRIMARY KEY,
	name        text NOT NULL,
	categories  text[] NOT NULL,
	description text NOT NULL DEFAULT '',
	address     text NOT NULL DEFAULT '',
	city        text NOT NULL DEFAULT '',
	state       text NOT NULL DEFAULT '',
	zip         text NOT NULL DEFAULT '',
	phone       text NOT NULL DEFAULT '',
	website     text NOT NULL DEFAULT '',
	hours       text NOT NULL DEFAULT '',
	cost        text NOT NULL DEFAULT '',
	eligibility text NOT NULL DEFAULT '',
	lat         double precision,
	lng         double precision,
	verified    boolean
);`

const createCategoriesIndex = `CREATE INDEX IF NOT EXISTS idx_resources_categories ON resources USING gin(categories);`

const selectResources = `SELECT id, name, categories, description, address, city, state, zip,
	phone, website, hours, cost, eligibility, lat, lng, verified
FROM resources
WHERE cardinality($1::text[]) = 0 OR categories && $1::text[]
ORDER BY id`

const upsertResource = `INSERT INTO resources (id, name, categories, description, address, city, state, zip,
	phone, website, hours, cost, eligibility, lat, lng, verified)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	categories = EXCLUDED.categories,
	description = EXCLUDED.description,
	address = EXCLUDED.address,
	city = EXCLUDED.city,
	state = EXCLUDED.state,
	zip = EXCLUDED.zip,
	phone = EXCLUDED.phone,
	website = EXCLUDED.website,
	hours = EXCLUDED.hours,
	cost = EXCLUDED.cost,
	eligibility = EXCLUDED.eligibility,
	lat = EXCLUDED.lat,
	lng = EXCLUDED.lng,
	verified = EXCLUDED.verified`

// Source reads resources from the resources table.
type Source struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewSource wraps an existing pool. The caller owns the pool.
func NewSource(pool *pgxpool.Pool, logger *slog.Logger) *Source {
	return &Source{pool: pool, logger: logger}
}

// Name implements domain.ResourceSource.
func (s *Source) Name() string { return SourceName }

// EnsureSchema creates the resources table and its category index if missing.
func (s *Source) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createResourcesTable); err != nil {
		return fmt.Errorf("create resources table: %w", err)
	}
	if _, err := s.pool.Exec(ctx, createCategoriesIndex); err != nil {
		return fmt.Errorf("create categories index: %w", err)
	}
	return nil
}

// Fetch returns resources sharing at least one category with the filter, or
// every resource when the filter has none. The radius is left to the query.
func (s *Source) Fetch(ctx context.Context, f domain.Filter) ([]domain.Resource, error) {
	cats := make([]string, len(f.Categories))
	for i, c := range f.Categories {
		cats[i] = string(c)
	}

	rows, err := s.pool.Query(ctx, selectResources, cats)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[resourceRow])
	if err != nil {
		return nil, fmt.Errorf("scan resources: %w", err)
	}

	out := make([]domain.Resource, 0, len(records))
	for _, rec := range records {
		r, unknown := rec.toResource()
		if len(unknown) > 0 {
			s.logger.Warn("dropping unknown categories", "resource_id", r.ID, "categories", unknown)
		}
		if len(r.Categories) == 0 {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Upsert writes resources in a single batch, replacing rows with the same id.
func (s *Source) Upsert(ctx context.Context, resources []domain.Resource) error {
	batch := &pgx.Batch{}
	for _, r := range resources {
		rec := fromResource(r)
		batch.Queue(upsertResource,
			rec.ID, rec.Name, rec.Categories, rec.Description, rec.Address, rec.City, rec.State, rec.Zip,
			rec.Phone, rec.Website, rec.Hours, rec.Cost, rec.Eligibility, rec.Lat, rec.Lng, rec.Verified,
		)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert resources: %w", err)
	}
	return nil
}

// CheckReadiness pings the database.
func (s *Source) CheckReadiness(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}
