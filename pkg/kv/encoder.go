package kv

import (
	"fmt"

	"lintang/nightwalk/pkg/datastructure"

	"github.com/kelindar/binary"
)

// storedGraph value of a graph cache entry. safety costs & planar coordinates are never stored.
type storedGraph struct {
	CRS   string
	Nodes []storedNode
	Edges []storedEdge
}

type storedNode struct {
	ID  int64
	Lat float64
	Lon float64
}

type storedEdge struct {
	FromNodeID int32
	ToNodeID   int32
	WayID      int64
	Length     float64
}

func encodeGraph(g *datastructure.StreetGraph) ([]byte, error) {
	sg := storedGraph{
		CRS:   g.CRS(),
		Nodes: make([]storedNode, 0, g.NumNodes()),
		Edges: make([]storedEdge, 0, g.NumEdges()),
	}
	for _, n := range g.Nodes() {
		sg.Nodes = append(sg.Nodes, storedNode{ID: n.ID, Lat: n.Lat, Lon: n.Lon})
	}
	for _, e := range g.Edges() {
		sg.Edges = append(sg.Edges, storedEdge{
			FromNodeID: e.FromNodeID,
			ToNodeID:   e.ToNodeID,
			WayID:      e.WayID,
			Length:     e.Length,
		})
	}

	bb, err := binary.Marshal(sg)
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return compress(bb)
}

// decodeGraph always builds a new graph, callers are free to overwrite its safety costs.
func decodeGraph(bbCompressed []byte) (*datastructure.StreetGraph, error) {
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var sg storedGraph
	if err := binary.Unmarshal(bb, &sg); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}

	nodes := make([]datastructure.Node, len(sg.Nodes))
	for i, n := range sg.Nodes {
		nodes[i] = datastructure.Node{ID: n.ID, Lat: n.Lat, Lon: n.Lon}
	}
	edges := make([]datastructure.Edge, len(sg.Edges))
	for i, e := range sg.Edges {
		edges[i] = datastructure.Edge{
			EdgeID:     int32(i),
			FromNodeID: e.FromNodeID,
			ToNodeID:   e.ToNodeID,
			WayID:      e.WayID,
			Length:     e.Length,
		}
	}
	return datastructure.NewStreetGraphFrom(sg.CRS, nodes, edges)
}
