package graphsource

import (
	"context"
	"log/slog"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/logger"
)

// Fallback tries the place query first, then the geocoded bounding box of the same area.
type Fallback struct {
	src    Source
	bounds BoundsResolver
	log    *slog.Logger
}

func WithFallback(src Source, bounds BoundsResolver, l *slog.Logger) *Fallback {
	if l == nil {
		l = logger.L()
	}
	return &Fallback{src: src, bounds: bounds, log: l}
}

// Graph both attempts failing returns *errs.GraphRetrievalError holding both causes.
func (f *Fallback) Graph(ctx context.Context, area string) (*datastructure.StreetGraph, error) {
	g, placeErr := f.src.ByPlace(ctx, area)
	if placeErr == nil {
		return g, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.log.Warn("graph_fallback_bbox", "area", area, "error", placeErr)
	bbox, err := f.bounds.Bounds(ctx, area)
	if err != nil {
		return nil, &errs.GraphRetrievalError{Area: area, Primary: placeErr, Fallback: err}
	}
	g, err = f.src.ByBBox(ctx, bbox)
	if err != nil {
		return nil, &errs.GraphRetrievalError{Area: area, Primary: placeErr, Fallback: err}
	}
	return g, nil
}
