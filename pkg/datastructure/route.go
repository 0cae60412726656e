package datastructure

// Route is an ordered walk over the graph. Nodes & Edges are internal indices, len(Edges) == len(Nodes)-1.
type Route struct {
	Nodes []int32
	Edges []int32
}

func NewRoute(nodes, edges []int32) Route {
	return Route{Nodes: nodes, Edges: edges}
}

// NodeIDs returns the osm node ids of the route.
func (r Route) NodeIDs(g *StreetGraph) []int64 {
	ids := make([]int64, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		ids = append(ids, g.GetNode(n).ID)
	}
	return ids
}

func (r Route) Coordinates(g *StreetGraph) []Coordinate {
	coords := make([]Coordinate, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		coords = append(coords, g.GetNode(n).Coordinate())
	}
	return coords
}

func (r Route) ProjectedPoints(g *StreetGraph) []ProjectedPoint {
	pts := make([]ProjectedPoint, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		pts = append(pts, g.GetNode(n).Projected())
	}
	return pts
}

// IsConnectedWalk checks every consecutive node pair is joined by the edge listed between them.
func (r Route) IsConnectedWalk(g *StreetGraph) bool {
	if len(r.Nodes) == 0 || len(r.Edges) != len(r.Nodes)-1 {
		return false
	}
	for i, edgeID := range r.Edges {
		e := g.GetEdge(edgeID)
		u, v := r.Nodes[i], r.Nodes[i+1]
		if !((e.FromNodeID == u && e.ToNodeID == v) || (e.FromNodeID == v && e.ToNodeID == u)) {
			return false
		}
	}
	return true
}
