package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for resource searches.
type Metrics struct {
	Searches        *prometheus.CounterVec // labels: source={postgres,s3,mock}
	SourceFallbacks *prometheus.CounterVec // labels: source (the one that failed)
	SearchResults   prometheus.Histogram
	SearchDuration  prometheus.Histogram

	// Zip geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram

	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Searches,
		m.SourceFallbacks,
		m.SearchResults,
		m.SearchDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.EventsPublished,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_finder",
			Name:      "searches_total",
			Help:      "Resource searches by the source that served them.",
		}, []string{"source"}),
		SourceFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_finder",
			Name:      "source_fallbacks_total",
			Help:      "Searches served from the static catalog because the configured source failed.",
		}, []string{"source"}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "health_finder",
			Name:      "search_results",
			Help:      "Number of resources returned per search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "health_finder",
			Name:      "search_duration_seconds",
			Help:      "Duration of a search including the source fetch.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_finder",
			Name:      "geocode_requests_total",
			Help:      "Zip geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_finder",
			Name:      "geocode_cache_total",
			Help:      "Zip geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "health_finder",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_finder",
			Name:      "events_published_total",
			Help:      "Search events handed to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}
