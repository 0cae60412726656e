package planner

import (
	"context"

	"lintang/nightwalk/pkg/datastructure"
)

// GraphSource returns a walkable street graph for a search area. every call returns a graph
// that nobody else holds, safety costs are computed on it in place.
type GraphSource interface {
	Graph(ctx context.Context, area string) (*datastructure.StreetGraph, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (datastructure.Coordinate, error)
}

// POISource fetches live points of one kind inside bbox. an error means every mirror failed.
type POISource interface {
	FetchPOIs(ctx context.Context, kind datastructure.POIKind, bbox datastructure.BoundingBox) ([]datastructure.GeoPoint, error)
}

// IncidentStore historical incidents, loaded once.
type IncidentStore interface {
	Incidents() []datastructure.GeoPoint
}
