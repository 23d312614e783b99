package finder_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/community-health-finder/internal/catalog"
	"github.com/couchcryptid/community-health-finder/internal/domain"
	"github.com/couchcryptid/community-health-finder/internal/finder"
	"github.com/couchcryptid/community-health-finder/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	name      string
	resources []domain.Resource
	err       error
	readyErr  error
	calls     int
	lastFetch domain.Filter
	clock     *clockwork.FakeClock
	delay     time.Duration
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(_ context.Context, f domain.Filter) ([]domain.Resource, error) {
	m.calls++
	m.lastFetch = f
	if m.clock != nil {
		m.clock.Advance(m.delay)
	}
	return m.resources, m.err
}

func (m *mockSource) CheckReadiness(_ context.Context) error { return m.readyErr }

// blockingSource never answers on its own; Fetch returns only when its
// context ends.
type blockingSource struct {
	name string
}

func (b *blockingSource) Name() string { return b.name }

func (b *blockingSource) Fetch(ctx context.Context, _ domain.Filter) ([]domain.Resource, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockGeocoder struct {
	result domain.GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) GeocodeZip(_ context.Context, _ string) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

type mockPublisher struct {
	events []domain.SearchEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event domain.SearchEvent) error {
	m.events = append(m.events, event)
	return m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, opts ...finder.Option) (*finder.Service, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	return finder.New(catalog.Builtin(), discardLogger(), metrics, opts...), metrics
}

func resultNames(r domain.QueryResult) []string {
	out := make([]string, len(r.Results))
	for i, m := range r.Results {
		out[i] = m.Name
	}
	return out
}

func float(v float64) *float64 { return &v }

// --- tests ---

func TestSearch_DefaultZip(t *testing.T) {
	svc, _ := newService(t)

	result := svc.Search(context.Background(), finder.Request{})

	assert.Equal(t, "94103", result.Zip)
	assert.Equal(t, "San Francisco, CA", result.LocationLabel)
	assert.True(t, result.Metadata.Centered)
	assert.Equal(t, "mock", result.Metadata.Source)
	assert.Equal(t, 60.0, result.Metadata.RadiusMiles)
	assert.Len(t, result.AvailableCategories, 7)
}

func TestSearch_SanFranciscoNoCategories(t *testing.T) {
	svc, _ := newService(t)

	result := svc.Search(context.Background(), finder.Request{Zip: "94103"})

	assert.Equal(t, []string{
		"Community Mental Health Hub",
		"Hope Shelter",
		"San Francisco Free Clinic",
	}, resultNames(result))
	assert.Equal(t, len(result.Results), result.Metadata.MatchedCount)
	require.NotNil(t, result.Results[0].Distance)
	assert.Less(t, *result.Results[0].Distance, 1.0)
}

func TestSearch_NewYorkDentalIsEmpty(t *testing.T) {
	svc, _ := newService(t)

	result := svc.Search(context.Background(), finder.Request{Zip: "10001", Categories: []string{"dental"}})

	assert.Empty(t, result.Results)
	assert.NotNil(t, result.Results)
	assert.Equal(t, 0, result.Metadata.MatchedCount)
	assert.True(t, result.Metadata.Centered)
}

func TestSearch_UnknownZipReturnsEverything(t *testing.T) {
	svc, _ := newService(t)

	result := svc.Search(context.Background(), finder.Request{Zip: "99999"})

	assert.Equal(t, "Unknown area", result.LocationLabel)
	assert.False(t, result.Metadata.Centered)
	assert.Len(t, result.Results, catalog.Builtin().Len())
	assert.Equal(t, catalog.Builtin().Len(), result.Metadata.MatchedCount)
	for _, m := range result.Results {
		assert.Nil(t, m.Distance)
	}
	assert.Equal(t, "San Francisco Free Clinic", result.Results[0].Name)
}

func TestSearch_CoordinatesTakePrecedence(t *testing.T) {
	svc, _ := newService(t)

	result := svc.Search(context.Background(), finder.Request{
		Zip: "94103",
		Lat: float(40.7128),
		Lng: float(-74.006),
	})

	assert.Equal(t, "94103", result.Zip)
	assert.Equal(t, "Your location", result.LocationLabel)
	assert.True(t, result.Metadata.Centered)
	assert.Equal(t, []string{"CityCare Urgent", "Harlem Women’s Health Collective"}, resultNames(result))
}

func TestSearch_PartialOrInvalidCoordinatesIgnored(t *testing.T) {
	svc, _ := newService(t)

	for name, req := range map[string]finder.Request{
		"lat only":     {Zip: "60601", Lat: float(40.7)},
		"out of range": {Zip: "60601", Lat: float(140), Lng: float(-74)},
	} {
		t.Run(name, func(t *testing.T) {
			result := svc.Search(context.Background(), req)
			assert.Equal(t, "Chicago, IL", result.LocationLabel)
			assert.Equal(t, []string{"Bright Smiles Clinic"}, resultNames(result))
		})
	}
}

func TestSearch_EmptyCategoriesEqualsAllCategories(t *testing.T) {
	svc, _ := newService(t)

	var all []string
	for _, c := range domain.Categories() {
		all = append(all, string(c))
	}

	for _, zip := range []string{"94103", "10001", "99999"} {
		none := svc.Search(context.Background(), finder.Request{Zip: zip})
		every := svc.Search(context.Background(), finder.Request{Zip: zip, Categories: all})
		assert.Equal(t, resultNames(none), resultNames(every), zip)
	}
}

func TestSearch_PrimarySourceServes(t *testing.T) {
	src := &mockSource{name: "postgres", resources: []domain.Resource{
		{ID: "db-only", Name: "DB Only Clinic", Categories: []domain.Category{domain.Dental}},
	}}
	svc, metrics := newService(t, finder.WithSource(src, time.Second))

	result := svc.Search(context.Background(), finder.Request{Zip: "94103", Categories: []string{"dental", "bogus"}})

	assert.Equal(t, "postgres", result.Metadata.Source)
	assert.Equal(t, []string{"DB Only Clinic"}, resultNames(result))
	assert.Equal(t, []domain.Category{domain.Dental}, src.lastFetch.Categories)
	require.NotNil(t, src.lastFetch.Center)
	assert.Equal(t, domain.RadiusMiles, src.lastFetch.RadiusMiles)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Searches.WithLabelValues("postgres")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.SourceFallbacks.WithLabelValues("postgres")))
}

func TestSearch_PrimarySourceErrorFallsBackToCatalog(t *testing.T) {
	src := &mockSource{name: "postgres", err: errors.New("connection refused")}
	svc, metrics := newService(t, finder.WithSource(src, time.Second))

	result := svc.Search(context.Background(), finder.Request{Zip: "94103"})

	assert.Equal(t, "mock", result.Metadata.Source)
	assert.Len(t, result.Results, 3)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SourceFallbacks.WithLabelValues("postgres")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Searches.WithLabelValues("mock")))
}

func TestSearch_SlowSourceCutOffAtTimeout(t *testing.T) {
	src := &blockingSource{name: "postgres"}
	svc, metrics := newService(t, finder.WithSource(src, 10*time.Millisecond))

	start := time.Now()
	result := svc.Search(context.Background(), finder.Request{Zip: "94103"})

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, "mock", result.Metadata.Source)
	assert.Len(t, result.Results, 3)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SourceFallbacks.WithLabelValues("postgres")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Searches.WithLabelValues("mock")))
}

func TestSearch_CancelledRequestIsNotCountedAsFallback(t *testing.T) {
	src := &blockingSource{name: "postgres"}
	svc, metrics := newService(t, finder.WithSource(src, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := svc.Search(ctx, finder.Request{Zip: "94103"})

	assert.Equal(t, "mock", result.Metadata.Source)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.SourceFallbacks.WithLabelValues("postgres")))
}

func TestSearch_GeocoderResolvesUnknownZip(t *testing.T) {
	geo := &mockGeocoder{result: domain.GeocodingResult{
		Lat: 30.2672, Lng: -97.7431, PlaceName: "Austin, Texas 78702",
	}}
	svc, _ := newService(t, finder.WithGeocoder(geo))

	result := svc.Search(context.Background(), finder.Request{Zip: "78702"})

	assert.Equal(t, "Austin, Texas 78702", result.LocationLabel)
	assert.True(t, result.Metadata.Centered)
	assert.Equal(t, []string{"Austin Mindful Care"}, resultNames(result))
}

func TestSearch_GeocoderNotCalledForKnownZip(t *testing.T) {
	geo := &mockGeocoder{}
	svc, _ := newService(t, finder.WithGeocoder(geo))

	svc.Search(context.Background(), finder.Request{Zip: "60601"})

	assert.Equal(t, 0, geo.calls)
}

func TestSearch_GeocoderFailureDegrades(t *testing.T) {
	for name, geo := range map[string]*mockGeocoder{
		"error":        {err: errors.New("timeout")},
		"not found":    {},
		"out of range": {result: domain.GeocodingResult{Lat: 123.4, Lng: -97.7, PlaceName: "Nowhere, TX"}},
	} {
		t.Run(name, func(t *testing.T) {
			svc, _ := newService(t, finder.WithGeocoder(geo))

			result := svc.Search(context.Background(), finder.Request{Zip: "00000"})

			assert.Equal(t, "Unknown area", result.LocationLabel)
			assert.False(t, result.Metadata.Centered)
			assert.Len(t, result.Results, 8)
		})
	}
}

func TestSearch_PublishesEvent(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	pub := &mockPublisher{}
	svc, metrics := newService(t, finder.WithPublisher(pub), finder.WithClock(clock))

	svc.Search(context.Background(), finder.Request{Zip: "30301", Categories: []string{"food"}})

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "30301", ev.Zip)
	assert.True(t, ev.Centered)
	assert.Equal(t, []domain.Category{domain.Food}, ev.Categories)
	assert.Equal(t, 1, ev.MatchedCount)
	assert.Equal(t, "mock", ev.Source)
	assert.Equal(t, clock.Now(), ev.OccurredAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("success")))
}

func TestSearch_PublishErrorDoesNotAffectResult(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	svc, metrics := newService(t, finder.WithPublisher(pub))

	result := svc.Search(context.Background(), finder.Request{Zip: "94103"})

	assert.Len(t, result.Results, 3)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("error")))
}

func TestSearch_ObservesDuration(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := &mockSource{name: "postgres", clock: clock, delay: 250 * time.Millisecond}
	svc, metrics := newService(t, finder.WithSource(src, time.Second), finder.WithClock(clock))

	svc.Search(context.Background(), finder.Request{Zip: "94103"})

	assert.Equal(t, 1, testutil.CollectAndCount(metrics.SearchDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.SearchResults))
}

func TestCheckReadiness(t *testing.T) {
	svc, _ := newService(t)
	require.NoError(t, svc.CheckReadiness(context.Background()))

	down := &mockSource{name: "postgres", readyErr: errors.New("ping failed")}
	svc, _ = newService(t, finder.WithSource(down, time.Second))
	require.EqualError(t, svc.CheckReadiness(context.Background()), "ping failed")
}
