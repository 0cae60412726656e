package datastructure

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound = errors.New("node not found")
)

// Node of the walkable street network. ID is the osm node id, X/Y are filled by the projection step.
type Node struct {
	ID  int64
	Lat float64
	Lon float64
	X   float64
	Y   float64
}

func (n Node) Coordinate() Coordinate {
	return NewCoordinate(n.Lat, n.Lon)
}

func (n Node) Projected() ProjectedPoint {
	return NewProjectedPoint(n.X, n.Y)
}

// Edge is undirected for routing. parallel edges between the same node pair are allowed (multigraph).
// Length is immutable, SafetyCost is overwritten for every routing request.
type Edge struct {
	EdgeID     int32
	FromNodeID int32
	ToNodeID   int32
	WayID      int64
	Length     float64
	SafetyCost float64
}

// OtherNode returns the endpoint of e that is not nodeID.
func (e Edge) OtherNode(nodeID int32) int32 {
	if e.FromNodeID == nodeID {
		return e.ToNodeID
	}
	return e.FromNodeID
}

// StreetGraph. node & edge index (int32) are internal; osm ids are only used at the boundary.
type StreetGraph struct {
	crs       string
	nodes     []Node
	edges     []Edge
	adjacency [][]int32
	idMap     map[int64]int32
}

func NewStreetGraph(crs string) *StreetGraph {
	return &StreetGraph{
		crs:       crs,
		nodes:     make([]Node, 0),
		edges:     make([]Edge, 0),
		adjacency: make([][]int32, 0),
		idMap:     make(map[int64]int32),
	}
}

// NewStreetGraphFrom rebuilds a graph from stored nodes & edges. safety costs are reset.
func NewStreetGraphFrom(crs string, nodes []Node, edges []Edge) (*StreetGraph, error) {
	g := NewStreetGraph(crs)
	for _, n := range nodes {
		g.AddNode(n.ID, n.Lat, n.Lon)
	}
	for _, e := range edges {
		if int(e.FromNodeID) >= len(g.nodes) || int(e.ToNodeID) >= len(g.nodes) ||
			e.FromNodeID < 0 || e.ToNodeID < 0 {
			return nil, fmt.Errorf("edge %d references unknown node: %w", e.EdgeID, ErrNodeNotFound)
		}
		g.addEdgeIdx(e.FromNodeID, e.ToNodeID, e.Length, e.WayID)
	}
	return g, nil
}

func (g *StreetGraph) CRS() string {
	return g.crs
}

func (g *StreetGraph) SetCRS(crs string) {
	g.crs = crs
}

// AddNode adds the osm node if it is not in the graph yet and returns its index.
func (g *StreetGraph) AddNode(id int64, lat, lon float64) int32 {
	if idx, ok := g.idMap[id]; ok {
		return idx
	}
	idx := int32(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Lat: lat, Lon: lon})
	g.adjacency = append(g.adjacency, nil)
	g.idMap[id] = idx
	return idx
}

// AddEdge connect two osm nodes that must already be in the graph.
func (g *StreetGraph) AddEdge(fromID, toID int64, length float64, wayID int64) (int32, error) {
	from, ok := g.idMap[fromID]
	if !ok {
		return -1, fmt.Errorf("osm node %d: %w", fromID, ErrNodeNotFound)
	}
	to, ok := g.idMap[toID]
	if !ok {
		return -1, fmt.Errorf("osm node %d: %w", toID, ErrNodeNotFound)
	}
	return g.addEdgeIdx(from, to, length, wayID), nil
}

func (g *StreetGraph) addEdgeIdx(from, to int32, length float64, wayID int64) int32 {
	edgeID := int32(len(g.edges))
	g.edges = append(g.edges, Edge{
		EdgeID:     edgeID,
		FromNodeID: from,
		ToNodeID:   to,
		WayID:      wayID,
		Length:     length,
	})
	g.adjacency[from] = append(g.adjacency[from], edgeID)
	if to != from {
		g.adjacency[to] = append(g.adjacency[to], edgeID)
	}
	return edgeID
}

func (g *StreetGraph) NumNodes() int {
	return len(g.nodes)
}

func (g *StreetGraph) NumEdges() int {
	return len(g.edges)
}

func (g *StreetGraph) GetNode(nodeID int32) Node {
	return g.nodes[nodeID]
}

func (g *StreetGraph) GetEdge(edgeID int32) Edge {
	return g.edges[edgeID]
}

func (g *StreetGraph) Nodes() []Node {
	return g.nodes
}

func (g *StreetGraph) Edges() []Edge {
	return g.edges
}

// NodeIndex returns the internal index of an osm node id.
func (g *StreetGraph) NodeIndex(id int64) (int32, bool) {
	idx, ok := g.idMap[id]
	return idx, ok
}

// GetNodeEdges returns every edge incident to nodeID (both directions).
func (g *StreetGraph) GetNodeEdges(nodeID int32) []int32 {
	return g.adjacency[nodeID]
}

func (g *StreetGraph) SetNodeProjection(nodeID int32, x, y float64) {
	g.nodes[nodeID].X = x
	g.nodes[nodeID].Y = y
}

// SetSafetyCost writes the safety cost of one edge. every edge is written by exactly one worker.
func (g *StreetGraph) SetSafetyCost(edgeID int32, cost float64) {
	g.edges[edgeID].SafetyCost = cost
}

// ResetSafetyCosts clears every safety cost so nothing from a previous model can be reused.
func (g *StreetGraph) ResetSafetyCosts() {
	for i := range g.edges {
		g.edges[i].SafetyCost = 0
	}
}

// EdgeMidpoint planar midpoint of the two endpoints of the edge.
func (g *StreetGraph) EdgeMidpoint(edgeID int32) ProjectedPoint {
	e := g.edges[edgeID]
	return Midpoint(g.nodes[e.FromNodeID].Projected(), g.nodes[e.ToNodeID].Projected())
}

// EdgesBetween returns all parallel edges joining u and v, in edge index order.
func (g *StreetGraph) EdgesBetween(u, v int32) []int32 {
	edges := make([]int32, 0, 1)
	for _, edgeID := range g.adjacency[u] {
		e := g.edges[edgeID]
		if (e.FromNodeID == u && e.ToNodeID == v) || (e.FromNodeID == v && e.ToNodeID == u) {
			edges = append(edges, edgeID)
		}
	}
	return edges
}

// EdgeWeight selects the weight a search or aggregation runs on.
type EdgeWeight func(e Edge) float64

func ByLength(e Edge) float64 {
	return e.Length
}

func BySafetyCost(e Edge) float64 {
	return e.SafetyCost
}

// CheapestEdgeBetween returns the parallel edge between u and v with the smallest weight.
// ties go to the lowest edge index. -1 if u and v are not adjacent.
func (g *StreetGraph) CheapestEdgeBetween(u, v int32, weight EdgeWeight) int32 {
	best := int32(-1)
	for _, edgeID := range g.EdgesBetween(u, v) {
		if best == -1 || weight(g.edges[edgeID]) < weight(g.edges[best]) {
			best = edgeID
		}
	}
	return best
}
