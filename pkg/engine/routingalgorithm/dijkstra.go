package routingalgorithm

import (
	"math"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"
)

type RouteAlgorithm struct {
	g *datastructure.StreetGraph
}

func NewRouteAlgorithm(g *datastructure.StreetGraph) *RouteAlgorithm {
	return &RouteAlgorithm{g: g}
}

type cameFromPair struct {
	EdgeID int32
	NodeID int32
}

// ShortestPathDijkstra unidirectional dijkstra over the undirected street graph using weight.
// all weights must be non negative. between two nodes only the cheapest parallel edge is ever
// taken (lowest edge index on ties) because incident edges are scanned in index order and only a
// strictly smaller cost replaces a label.
// from == to returns the single node route with cost 0.
func (rt *RouteAlgorithm) ShortestPathDijkstra(from, to int32, weight datastructure.EdgeWeight) (datastructure.Route, float64, error) {
	if from == to {
		return datastructure.NewRoute([]int32{from}, []int32{}), 0, nil
	}

	numNodes := rt.g.NumNodes()
	dist := make([]float64, numNodes)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	settled := make([]bool, numNodes)
	cameFrom := make([]cameFromPair, numNodes)
	for i := range cameFrom {
		cameFrom[i] = cameFromPair{-1, -1}
	}

	pq := datastructure.NewMinHeap[int32]()
	dist[from] = 0
	pq.Insert(datastructure.NewPriorityQueueNode(0, from))

	for pq.Size() > 0 {
		node, _ := pq.ExtractMin()
		u := node.Item
		settled[u] = true
		if u == to {
			break
		}

		for _, edgeID := range rt.g.GetNodeEdges(u) {
			edge := rt.g.GetEdge(edgeID)
			v := edge.OtherNode(u)
			if settled[v] {
				continue
			}

			newCost := dist[u] + weight(edge)
			if newCost >= dist[v] {
				continue
			}

			// relax edge
			if math.IsInf(dist[v], 1) {
				dist[v] = newCost
				pq.Insert(datastructure.NewPriorityQueueNode(newCost, v))
			} else {
				dist[v] = newCost
				pq.DecreaseKey(datastructure.NewPriorityQueueNode(newCost, v))
			}
			cameFrom[v] = cameFromPair{edgeID, u}
		}
	}

	if !settled[to] {
		return datastructure.Route{}, math.Inf(1), &errs.RouteNotFoundError{
			From: rt.g.GetNode(from).ID,
			To:   rt.g.GetNode(to).ID,
		}
	}

	return rt.createPath(from, to, cameFrom), dist[to], nil
}

func (rt *RouteAlgorithm) createPath(from, to int32, cameFrom []cameFromPair) datastructure.Route {
	nodes := []int32{to}
	edges := []int32{}
	for v := to; v != from; v = cameFrom[v].NodeID {
		edges = append(edges, cameFrom[v].EdgeID)
		nodes = append(nodes, cameFrom[v].NodeID)
	}

	// reverse, path dibangun dari target ke source
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return datastructure.NewRoute(nodes, edges)
}
