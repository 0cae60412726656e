package graphsource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/osmparser"
	"lintang/nightwalk/pkg/overpass"

	"github.com/paulmach/osm"
)

type Querier interface {
	Query(ctx context.Context, query string) (*overpass.Response, error)
}

// Overpass walk graph from the overpass mirrors.
type Overpass struct {
	client     Querier
	timeoutSec int
	log        *slog.Logger
}

func NewOverpass(client Querier, timeoutSec int, l *slog.Logger) *Overpass {
	if timeoutSec <= 0 {
		timeoutSec = overpass.DefaultQueryTimeout
	}
	if l == nil {
		l = logger.L()
	}
	return &Overpass{client: client, timeoutSec: timeoutSec, log: l}
}

func (o *Overpass) ByPlace(ctx context.Context, place string) (*datastructure.StreetGraph, error) {
	return o.fetch(ctx, PlaceQuery(place, o.timeoutSec))
}

func (o *Overpass) ByBBox(ctx context.Context, bbox datastructure.BoundingBox) (*datastructure.StreetGraph, error) {
	if !bbox.IsValid() {
		return nil, fmt.Errorf("invalid bounding box %s", bbox)
	}
	return o.fetch(ctx, BBoxQuery(bbox, o.timeoutSec))
}

func (o *Overpass) fetch(ctx context.Context, query string) (*datastructure.StreetGraph, error) {
	res, err := o.client.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	b := osmparser.NewGraphBuilder()
	for _, el := range res.Elements {
		switch el.Type {
		case osm.TypeNode:
			if lat, lon, ok := el.Position(); ok {
				b.AddNode(el.ID, lat, lon)
			}
		case osm.TypeWay:
			if osmparser.AcceptWalkWay(el.OSMTags()) {
				b.AddWay(el.ID, el.Nodes)
			}
		}
	}

	g, stats, err := b.Build()
	if err != nil {
		return nil, err
	}
	o.log.Debug("walk_graph_built",
		"ways", stats.Ways,
		"nodes", g.NumNodes(),
		"edges", stats.Edges,
		"crs", g.CRS(),
	)
	return g, nil
}

// PlaceQuery every highway way inside the named area plus the nodes they reference.
func PlaceQuery(place string, timeoutSec int) string {
	return fmt.Sprintf("[out:json][timeout:%d];\narea[\"name\"=\"%s\"]->.searchArea;\nway[\"highway\"](area.searchArea);\n(._;>;);\nout body;\n",
		timeoutSec, escapeQL(place))
}

func BBoxQuery(bbox datastructure.BoundingBox, timeoutSec int) string {
	return fmt.Sprintf("[out:json][timeout:%d];\nway[\"highway\"]%s;\n(._;>;);\nout body;\n",
		timeoutSec, bbox.OverpassFilter())
}

func escapeQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
