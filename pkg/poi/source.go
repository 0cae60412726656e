package poi

import (
	"context"
	"errors"
	"fmt"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/overpass"
)

type Querier interface {
	Query(ctx context.Context, query string) (*overpass.Response, error)
}

type kindQuery struct {
	selectors []overpass.Selector
	out       string
}

var kindQueries = map[datastructure.POIKind]kindQuery{
	datastructure.KindStreetLamp: {
		selectors: []overpass.Selector{
			`node["highway"="street_lamp"]`,
			`node["man_made"="street_lamp"]`,
			`node["amenity"="street_lamp"]`,
		},
		out: "body",
	},
	datastructure.KindConvenienceStore: {
		selectors: []overpass.Selector{
			`node["shop"="convenience"]`,
			`way["shop"="convenience"]`,
		},
		out: "center",
	},
	datastructure.KindPolicePost: {
		selectors: []overpass.Selector{
			`node["amenity"="police"]`,
			`way["amenity"="police"]`,
			`node["police"]`,
			`way["police"]`,
		},
		out: "center",
	},
}

// Query overpass QL for one live kind inside bbox.
func Query(kind datastructure.POIKind, bbox datastructure.BoundingBox, timeoutSec int) (string, error) {
	kq, ok := kindQueries[kind]
	if !ok {
		return "", fmt.Errorf("poi kind %q is not fetched live: %w", kind, errs.ErrUnsupported)
	}
	return overpass.BBoxQuery(timeoutSec, kq.selectors, bbox, kq.out), nil
}

// OverpassSource fetches lamps, stores & police posts from the overpass mirrors.
type OverpassSource struct {
	client       Querier
	queryTimeout int
}

func NewOverpassSource(client Querier, queryTimeoutSec int) *OverpassSource {
	if queryTimeoutSec <= 0 {
		queryTimeoutSec = overpass.DefaultQueryTimeout
	}
	return &OverpassSource{client: client, queryTimeout: queryTimeoutSec}
}

// FetchPOIs an empty slice means the mirrors answered with nothing. *errs.POIRetrievalError means
// every mirror failed.
func (s *OverpassSource) FetchPOIs(ctx context.Context, kind datastructure.POIKind, bbox datastructure.BoundingBox) ([]datastructure.GeoPoint, error) {
	q, err := Query(kind, bbox, s.queryTimeout)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Query(ctx, q)
	if err != nil {
		retrievalErr := &errs.POIRetrievalError{Kind: string(kind), Err: err}
		var mirrorErr *overpass.MirrorError
		if errors.As(err, &mirrorErr) {
			retrievalErr.Mirror = mirrorErr.Mirror
		}
		return nil, retrievalErr
	}
	return res.GeoPoints(), nil
}
