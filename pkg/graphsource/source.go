// Package graphsource retrieves the walkable street graph of a search area.
package graphsource

import (
	"context"

	"lintang/nightwalk/pkg/datastructure"
)

// Source every call returns a new graph the caller owns.
type Source interface {
	ByPlace(ctx context.Context, place string) (*datastructure.StreetGraph, error)
	ByBBox(ctx context.Context, bbox datastructure.BoundingBox) (*datastructure.StreetGraph, error)
}

// BoundsResolver geographic bounding box of a place name, used by the bbox fallback.
type BoundsResolver interface {
	Bounds(ctx context.Context, query string) (datastructure.BoundingBox, error)
}
