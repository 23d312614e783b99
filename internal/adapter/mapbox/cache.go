package mapbox

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/community-health-finder/internal/domain"
	"github.com/couchcryptid/community-health-finder/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache keyed by zip.
// Found results stay until evicted; not-found results expire after the
// negative TTL so a zip Mapbox later learns about is eventually retried.
type CachedGeocoder struct {
	inner       domain.Geocoder
	cache       *lruCache
	negativeTTL time.Duration
	clock       clockwork.Clock
	metrics     *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder. A
// negativeTTL of zero disables caching of not-found results.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, negativeTTL time.Duration, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:       inner,
		cache:       newLRUCache(maxEntries),
		negativeTTL: negativeTTL,
		clock:       clockwork.NewRealClock(),
		metrics:     metrics,
	}
}

// GeocodeZip implements domain.Geocoder.
func (c *CachedGeocoder) GeocodeZip(ctx context.Context, zip string) (domain.GeocodingResult, error) {
	now := c.clock.Now()
	if result, ok := c.cache.get(zip, now); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.GeocodeZip(ctx, zip)
	if err != nil {
		return result, err
	}
	switch {
	case result.Found():
		c.cache.put(zip, result, time.Time{})
	case c.negativeTTL > 0:
		c.cache.put(zip, result, now.Add(c.negativeTTL))
	}
	return result, nil
}

// lruCache is a mutex-guarded LRU of geocoding results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type cacheEntry struct {
	zip     string
	result  domain.GeocodingResult
	expires time.Time // zero never expires
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(zip string, now time.Time) (domain.GeocodingResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[zip]
	if !ok {
		return domain.GeocodingResult{}, false
	}
	e := el.Value.(*cacheEntry)
	if !e.expires.IsZero() && !now.Before(e.expires) {
		c.order.Remove(el)
		delete(c.entries, zip)
		return domain.GeocodingResult{}, false
	}
	c.order.MoveToFront(el)
	return e.result, true
}

func (c *lruCache) put(zip string, result domain.GeocodingResult, expires time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[zip]; ok {
		e := el.Value.(*cacheEntry)
		e.result, e.expires = result, expires
		c.order.MoveToFront(el)
		return
	}

	c.entries[zip] = c.order.PushFront(&cacheEntry{zip: zip, result: result, expires: expires})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).zip)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
