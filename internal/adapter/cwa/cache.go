package cwa

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vulbon/Raining-Day-Map/internal/domain"
	"github.com/vulbon/Raining-Day-Map/internal/observability"
)

// Forecaster is the fetch boundary the cache decorates. *Client implements it.
type Forecaster interface {
	Forecast(ctx context.Context, regionName string) ([]domain.ForecastSlot, error)
}

// CachedForecaster wraps a Forecaster with an in-memory LRU cache keyed by
// region name. Entries expire after a TTL; nothing is persisted, so repeated
// refreshes of the same region within the window reuse one upstream call. The
// TTL must stay well below a slot width or stale probabilities would be served
// past their interval.
type CachedForecaster struct {
	inner   Forecaster
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedForecaster creates a cache decorator around a forecaster.
func NewCachedForecaster(inner Forecaster, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedForecaster {
	return &CachedForecaster{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl, clockwork.NewRealClock()),
		metrics: metrics,
	}
}

func (c *CachedForecaster) Forecast(ctx context.Context, regionName string) ([]domain.ForecastSlot, error) {
	if slots, ok := c.cache.get(regionName); ok {
		c.metrics.ForecastCache.WithLabelValues("hit").Inc()
		return slots, nil
	}
	c.metrics.ForecastCache.WithLabelValues("miss").Inc()

	slots, err := c.inner.Forecast(ctx, regionName)
	if err != nil {
		return nil, err
	}
	c.cache.put(regionName, slots)
	return slots, nil
}

// lruCache is a thread-safe LRU cache with per-entry expiry.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key     string
	slots   []domain.ForecastSlot
	expires time.Time
	prev    *entry
	next    *entry
}

func newLRUCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]domain.ForecastSlot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().After(e.expires) {
		delete(c.entries, key)
		c.remove(e)
		return nil, false
	}
	c.moveToFront(e)
	// Copy so callers can never mutate a cached sequence.
	return slices.Clone(e.slots), true
}

func (c *lruCache) put(key string, slots []domain.ForecastSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.clock.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.slots = slices.Clone(slots)
		e.expires = expires
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, slots: slices.Clone(slots), expires: expires}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
