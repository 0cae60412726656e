package geocoder

import (
	"context"
	"log/slog"
	"sync"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

// RemoteCache optional second cache tier shared between processes.
type RemoteCache interface {
	Get(ctx context.Context, query string) (Place, bool, error)
	Set(ctx context.Context, query string, place Place) error
}

// Cache geocoder with a process lifetime cache keyed by the exact query string. a query that was
// resolved once never hits the upstream again. concurrent lookups of the same query share one
// upstream call. failures are not cached.
type Cache struct {
	upstream Resolver
	remote   RemoteCache

	mu     sync.RWMutex
	places map[string]Place
	group  singleflight.Group

	metrics *metrics.Metrics
	log     *slog.Logger
}

type CacheOption func(*Cache)

func WithRemoteCache(r RemoteCache) CacheOption {
	return func(c *Cache) { c.remote = r }
}

func WithMetrics(m *metrics.Metrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

func WithLogger(l *slog.Logger) CacheOption {
	return func(c *Cache) { c.log = l }
}

func NewCache(upstream Resolver, opts ...CacheOption) *Cache {
	c := &Cache{
		upstream: upstream,
		places:   make(map[string]Place),
		log:      logger.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Resolve(ctx context.Context, query string) (Place, error) {
	c.mu.RLock()
	place, ok := c.places[query]
	c.mu.RUnlock()
	if ok {
		c.metrics.GeocodeCacheResult("hit")
		return place, nil
	}

	v, err, _ := c.group.Do(query, func() (interface{}, error) {
		c.mu.RLock()
		place, ok := c.places[query]
		c.mu.RUnlock()
		if ok {
			return place, nil
		}

		if c.remote != nil {
			place, ok, err := c.remote.Get(ctx, query)
			if err != nil {
				c.log.Warn("geocode_remote_cache_error", "query", query, "error", err)
			} else if ok {
				c.metrics.GeocodeCacheResult("redis_hit")
				c.store(query, place)
				return place, nil
			}
		}

		c.metrics.GeocodeCacheResult("miss")
		place, err := c.upstream.Resolve(ctx, query)
		if err != nil {
			return Place{}, err
		}
		c.store(query, place)
		if c.remote != nil {
			if err := c.remote.Set(ctx, query, place); err != nil {
				c.log.Warn("geocode_remote_cache_error", "query", query, "error", err)
			}
		}
		return place, nil
	})
	if err != nil {
		return Place{}, err
	}
	return v.(Place), nil
}

func (c *Cache) store(query string, place Place) {
	c.mu.Lock()
	c.places[query] = place
	c.mu.Unlock()
}

// Geocode (lat, lon) of the query.
func (c *Cache) Geocode(ctx context.Context, query string) (datastructure.Coordinate, error) {
	place, err := c.Resolve(ctx, query)
	if err != nil {
		return datastructure.Coordinate{}, err
	}
	return place.Coordinate, nil
}

// Bounds geographic bounding box of the query, used to retrieve a graph by bbox.
func (c *Cache) Bounds(ctx context.Context, query string) (datastructure.BoundingBox, error) {
	place, err := c.Resolve(ctx, query)
	if err != nil {
		return datastructure.BoundingBox{}, err
	}
	return place.BoundingBox, nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.places)
}

// Reset drops every cached place.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.places = make(map[string]Place)
	c.mu.Unlock()
}
