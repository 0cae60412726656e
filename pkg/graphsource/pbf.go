package graphsource

import (
	"context"
	"fmt"
	"log/slog"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/osmparser"
)

// Extract walk graph from a local .osm.pbf (or .osm) extract. the extract has no place names,
// ByPlace always fails so the fallback goes through the geocoder bbox.
type Extract struct {
	path string
	log  *slog.Logger
}

func NewExtract(path string, l *slog.Logger) *Extract {
	if l == nil {
		l = logger.L()
	}
	return &Extract{path: path, log: l}
}

func (e *Extract) ByPlace(ctx context.Context, place string) (*datastructure.StreetGraph, error) {
	return nil, fmt.Errorf("place lookup in osm extract %s: %w", e.path, errs.ErrUnsupported)
}

func (e *Extract) ByBBox(ctx context.Context, bbox datastructure.BoundingBox) (*datastructure.StreetGraph, error) {
	p := osmparser.NewOSMParser(osmparser.WithBoundingBox(bbox), osmparser.WithLogger(e.log))
	return p.ParseFile(ctx, e.path)
}
