// Package finder answers resource searches: it resolves where the searcher is,
// fetches candidates from the configured store with a fallback to the static
// catalog, and ranks them with domain.Query.
package finder

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/community-health-finder/internal/catalog"
	"github.com/couchcryptid/community-health-finder/internal/domain"
	"github.com/couchcryptid/community-health-finder/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// EventPublisher records completed searches.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SearchEvent) error
}

// ReadinessChecker is implemented by sources that depend on an external system.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Request is a parsed resource search.
type Request struct {
	Zip        string
	Categories []string
	Lat        *float64
	Lng        *float64
}

// Service runs resource searches.
type Service struct {
	catalog       *catalog.Catalog
	fallback      domain.ResourceSource
	primary       domain.ResourceSource
	sourceTimeout time.Duration
	geocoder      domain.Geocoder
	publisher     EventPublisher
	clock         clockwork.Clock
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// Option configures optional collaborators of a Service.
type Option func(*Service)

// WithSource sets the external store searched before the static catalog.
func WithSource(src domain.ResourceSource, timeout time.Duration) Option {
	return func(s *Service) {
		s.primary = src
		s.sourceTimeout = timeout
	}
}

// WithGeocoder resolves zips the catalog does not know.
func WithGeocoder(g domain.Geocoder) Option {
	return func(s *Service) { s.geocoder = g }
}

// WithPublisher emits a SearchEvent after every search.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// New creates a Service backed by cat. Without WithSource every search is
// served from the catalog.
func New(cat *catalog.Catalog, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		catalog:  cat,
		fallback: catalog.NewSource(cat),
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs a request end to end. It never fails: store errors fall back to
// the static catalog and unresolvable locations disable the radius filter.
func (s *Service) Search(ctx context.Context, req Request) domain.QueryResult {
	start := s.clock.Now()

	zip := strings.TrimSpace(req.Zip)
	if zip == "" {
		zip = domain.DefaultZip
	}

	center, label := s.resolveLocation(ctx, zip, req.Lat, req.Lng)
	sel := domain.NewSelection(req.Categories)

	resources, source := s.fetch(ctx, domain.Filter{
		Categories:  sel.Categories(),
		Center:      center,
		RadiusMiles: domain.RadiusMiles,
	})

	matches := domain.Query(center, sel, resources)

	result := domain.QueryResult{
		Zip:                 zip,
		LocationLabel:       label,
		AvailableCategories: domain.CategoryLabels(),
		Results:             matches,
		Metadata: domain.Metadata{
			RadiusMiles:  domain.RadiusMiles,
			MatchedCount: len(matches),
			Centered:     center != nil,
			Source:       source,
		},
	}

	s.metrics.Searches.WithLabelValues(source).Inc()
	s.metrics.SearchResults.Observe(float64(len(matches)))
	s.metrics.SearchDuration.Observe(s.clock.Since(start).Seconds())

	s.publish(ctx, result, sel)
	return result
}

// resolveLocation picks the search center: explicit coordinates first, then
// the zip table, then the geocoder. A nil center means "Unknown area".
func (s *Service) resolveLocation(ctx context.Context, zip string, lat, lng *float64) (*domain.Coordinate, string) {
	if lat != nil && lng != nil {
		c := domain.Coordinate{Lat: *lat, Lng: *lng}
		if c.Valid() {
			return &c, domain.LabelUserLocation
		}
		s.logger.Debug("ignoring out of range coordinates", "lat", *lat, "lng", *lng)
	}

	if z, ok := s.catalog.LookupZip(zip); ok {
		p := z.Point
		return &p, z.City
	}

	if s.geocoder == nil {
		return nil, domain.LabelUnknownArea
	}

	result, err := s.geocoder.GeocodeZip(ctx, zip)
	if err != nil {
		s.logger.Warn("zip geocoding failed", "zip", zip, "error", err)
		return nil, domain.LabelUnknownArea
	}
	if !result.Found() {
		s.logger.Debug("zip not found by geocoder", "zip", zip)
		return nil, domain.LabelUnknownArea
	}
	c := domain.Coordinate{Lat: result.Lat, Lng: result.Lng}
	if !c.Valid() {
		s.logger.Warn("geocoder returned out of range coordinates", "zip", zip, "lat", result.Lat, "lng", result.Lng)
		return nil, domain.LabelUnknownArea
	}
	return &c, result.PlaceName
}

// fetch reads candidates from the primary source, falling back to the static
// catalog on any error. It returns the name of the source that served.
func (s *Service) fetch(ctx context.Context, f domain.Filter) ([]domain.Resource, string) {
	if s.primary != nil {
		fetchCtx := ctx
		if s.sourceTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, s.sourceTimeout)
			defer cancel()
		}

		resources, err := s.primary.Fetch(fetchCtx, f)
		switch {
		case err == nil:
			return resources, s.primary.Name()
		case ctx.Err() != nil:
			// The caller went away; the source is not at fault.
			s.logger.Debug("resource fetch abandoned", "source", s.primary.Name(), "error", ctx.Err())
		default:
			s.logger.Warn("resource source failed, serving static catalog",
				"source", s.primary.Name(),
				"error", err,
			)
			s.metrics.SourceFallbacks.WithLabelValues(s.primary.Name()).Inc()
		}
	}

	resources, err := s.fallback.Fetch(ctx, f)
	if err != nil {
		s.logger.Error("static catalog fetch failed", "error", err)
		return nil, s.fallback.Name()
	}
	return resources, s.fallback.Name()
}

func (s *Service) publish(ctx context.Context, result domain.QueryResult, sel domain.Selection) {
	if s.publisher == nil {
		return
	}

	event := domain.SearchEvent{
		ID:           uuid.NewString(),
		Zip:          result.Zip,
		Centered:     result.Metadata.Centered,
		Categories:   sel.Categories(),
		MatchedCount: result.Metadata.MatchedCount,
		Source:       result.Metadata.Source,
		OccurredAt:   s.clock.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish search event failed", "event_id", event.ID, "error", err)
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		return
	}
	s.metrics.EventsPublished.WithLabelValues("success").Inc()
}

// CheckReadiness reports whether the configured source is reachable. Without
// an external source the service is always ready.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if rc, ok := s.primary.(ReadinessChecker); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}
