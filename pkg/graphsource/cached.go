package graphsource

import (
	"context"
	"log/slog"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/kv"
	"lintang/nightwalk/pkg/logger"
)

type GraphStore interface {
	GetGraph(ctx context.Context, key string) (*datastructure.StreetGraph, bool, error)
	SaveGraph(ctx context.Context, key string, g *datastructure.StreetGraph) error
}

// Cached graph cache in front of src. a cache failure never fails the request, it only skips the cache.
type Cached struct {
	src   Source
	store GraphStore
	log   *slog.Logger
}

func NewCached(src Source, store GraphStore, l *slog.Logger) *Cached {
	if l == nil {
		l = logger.L()
	}
	return &Cached{src: src, store: store, log: l}
}

func (c *Cached) ByPlace(ctx context.Context, place string) (*datastructure.StreetGraph, error) {
	return c.get(ctx, kv.PlaceKey(place), func() (*datastructure.StreetGraph, error) {
		return c.src.ByPlace(ctx, place)
	})
}

func (c *Cached) ByBBox(ctx context.Context, bbox datastructure.BoundingBox) (*datastructure.StreetGraph, error) {
	return c.get(ctx, kv.BBoxKey(bbox), func() (*datastructure.StreetGraph, error) {
		return c.src.ByBBox(ctx, bbox)
	})
}

func (c *Cached) get(ctx context.Context, key string, load func() (*datastructure.StreetGraph, error)) (*datastructure.StreetGraph, error) {
	g, ok, err := c.store.GetGraph(ctx, key)
	if err != nil {
		c.log.Warn("graph_cache_get_failed", "key", key, "error", err)
	}
	if ok {
		return g, nil
	}

	g, err = load()
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveGraph(ctx, key, g); err != nil {
		c.log.Warn("graph_cache_save_failed", "key", key, "error", err)
	}
	return g, nil
}
