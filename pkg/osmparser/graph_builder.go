package osmparser

import (
	"errors"
	"fmt"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/geo"
)

var ErrEmptyGraph = errors.New("no walkable street in area")

type wayRef struct {
	id    int64
	nodes []int64
}

// BuildStats counters of one GraphBuilder.Build.
type BuildStats struct {
	Ways            int
	Edges           int
	MissingSegments int
}

// GraphBuilder collects osm nodes & accepted ways from any source (pbf extract, overpass) and turns
// them into a StreetGraph. every consecutive node pair of a way becomes one undirected edge whose
// length is the geodesic distance between the two nodes.
type GraphBuilder struct {
	nodeCoords map[int64]datastructure.Coordinate
	ways       []wayRef
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		nodeCoords: make(map[int64]datastructure.Coordinate),
		ways:       make([]wayRef, 0),
	}
}

func (b *GraphBuilder) AddNode(id int64, lat, lon float64) {
	b.nodeCoords[id] = datastructure.NewCoordinate(lat, lon)
}

// AddWay the way must already have passed AcceptWalkWay.
func (b *GraphBuilder) AddWay(id int64, nodes []int64) {
	if len(nodes) < 2 {
		return
	}
	b.ways = append(b.ways, wayRef{id: id, nodes: nodes})
}

func (b *GraphBuilder) NumWays() int {
	return len(b.ways)
}

// Build declares the utm zone of the graph centroid as its crs. segments with an endpoint whose
// coordinate was never added (outside the extract / bbox) are dropped.
func (b *GraphBuilder) Build() (*datastructure.StreetGraph, BuildStats, error) {
	stats := BuildStats{Ways: len(b.ways)}
	g := datastructure.NewStreetGraph("")
	used := make([]datastructure.Coordinate, 0)

	for _, w := range b.ways {
		for i := 1; i < len(w.nodes); i++ {
			uID, vID := w.nodes[i-1], w.nodes[i]
			if uID == vID {
				continue
			}
			u, okU := b.nodeCoords[uID]
			v, okV := b.nodeCoords[vID]
			if !okU || !okV {
				stats.MissingSegments++
				continue
			}

			if _, ok := g.NodeIndex(uID); !ok {
				g.AddNode(uID, u.Lat, u.Lon)
				used = append(used, u)
			}
			if _, ok := g.NodeIndex(vID); !ok {
				g.AddNode(vID, v.Lat, v.Lon)
				used = append(used, v)
			}
			if _, err := g.AddEdge(uID, vID, geo.GeodesicDistance(u, v), w.id); err != nil {
				return nil, stats, fmt.Errorf("way %d: %w", w.id, err)
			}
			stats.Edges++
		}
	}

	if g.NumEdges() == 0 {
		return nil, stats, ErrEmptyGraph
	}
	c := geo.Centroid(used)
	g.SetCRS(geo.UTMCrsFor(c.Lat, c.Lon))
	return g, stats, nil
}
