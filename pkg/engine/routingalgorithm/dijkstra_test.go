package routingalgorithm

import (
	"errors"
	"testing"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewGraph dari https://jlazarsfeld.github.io/ch.150.project/sections/8-contraction/
// p=0, v=1, q=2, w=3, r=4, f=5, osm id = index + 100
//
//	 p
//	  \
//	   10
//	    \
//	     v -----3----- r
//	    /             /
//	   6             5
//	  /             /
//	 q ----5------ w ----15---- f
//
// semua edge undirected. x (osm id 106) tidak terhubung.
func NewGraph(t *testing.T) *datastructure.StreetGraph {
	g := datastructure.NewStreetGraph("EPSG:3857")
	for i := int64(0); i < 7; i++ {
		g.AddNode(100+i, float64(i), float64(i)) // lat nya ku samain sama index nodenya
	}
	edges := []struct {
		from, to int64
		length   float64
	}{
		{100, 101, 10},
		{101, 104, 3},
		{101, 102, 6},
		{102, 103, 5},
		{104, 103, 5},
		{103, 105, 15},
	}
	for i, e := range edges {
		_, err := g.AddEdge(e.from, e.to, e.length, int64(i))
		require.NoError(t, err)
	}
	return g
}

func TestShortestPathDijkstra(t *testing.T) {
	g := NewGraph(t)
	rt := NewRouteAlgorithm(g)

	route, cost, err := rt.ShortestPathDijkstra(0, 5, datastructure.ByLength)
	require.NoError(t, err)
	assert.Equal(t, 33.0, cost)

	// shortest path nya:  P(0) -> V(1) -> R(4) -> W(3) -> F(5)
	assert.Equal(t, []int32{0, 1, 4, 3, 5}, route.Nodes)
	assert.Equal(t, []int32{0, 1, 4, 5}, route.Edges)
	assert.True(t, route.IsConnectedWalk(g))
	assert.Equal(t, []int64{100, 101, 104, 103, 105}, route.NodeIDs(g))

	// reverse direction, graph undirected
	route, cost, err = rt.ShortestPathDijkstra(5, 0, datastructure.ByLength)
	require.NoError(t, err)
	assert.Equal(t, 33.0, cost)
	assert.Equal(t, []int32{5, 3, 4, 1, 0}, route.Nodes)
}

func TestShortestPathDijkstraSafetyWeight(t *testing.T) {
	g := NewGraph(t)
	for _, e := range g.Edges() {
		g.SetSafetyCost(e.EdgeID, e.Length)
	}
	// v-r jadi mahal, path lewat q
	g.SetSafetyCost(1, 50)

	rt := NewRouteAlgorithm(g)
	route, cost, err := rt.ShortestPathDijkstra(0, 5, datastructure.BySafetyCost)
	require.NoError(t, err)
	assert.Equal(t, 36.0, cost)
	assert.Equal(t, []int32{0, 1, 2, 3, 5}, route.Nodes)
}

func TestShortestPathDijkstraSameNode(t *testing.T) {
	g := NewGraph(t)
	rt := NewRouteAlgorithm(g)

	route, cost, err := rt.ShortestPathDijkstra(2, 2, datastructure.ByLength)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cost)
	assert.Equal(t, []int32{2}, route.Nodes)
	assert.Empty(t, route.Edges)
}

func TestShortestPathDijkstraNoRoute(t *testing.T) {
	g := NewGraph(t)
	rt := NewRouteAlgorithm(g)

	_, _, err := rt.ShortestPathDijkstra(0, 6, datastructure.ByLength)
	var notFound *errs.RouteNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, int64(100), notFound.From)
	assert.Equal(t, int64(106), notFound.To)
}

func TestShortestPathDijkstraParallelEdges(t *testing.T) {
	g := datastructure.NewStreetGraph("EPSG:3857")
	g.AddNode(1, 0, 0)
	g.AddNode(2, 0, 0)
	for _, l := range []float64{120, 100, 100, 130} {
		_, err := g.AddEdge(1, 2, l, 0)
		require.NoError(t, err)
	}

	rt := NewRouteAlgorithm(g)
	route, cost, err := rt.ShortestPathDijkstra(0, 1, datastructure.ByLength)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cost)
	// tie antara edge 1 & 2 -> lowest index
	assert.Equal(t, []int32{1}, route.Edges)
	assert.Equal(t, g.CheapestEdgeBetween(0, 1, datastructure.ByLength), route.Edges[0])
}
