package safety

import (
	"math"

	"lintang/nightwalk/pkg/datastructure"
)

// RouteScore aggregate of a route. DangerScore is +Inf for a zero length route.
type RouteScore struct {
	TotalLength     float64
	TotalSafetyCost float64
	DangerScore     float64
}

func (s RouteScore) ZeroLength() bool {
	return s.TotalLength == 0
}

// ScoreRoute sums length & safety cost over the edges the search actually took (route.Edges),
// so parallel edges are scored exactly as they were traversed in both modes.
func ScoreRoute(g *datastructure.StreetGraph, route datastructure.Route) RouteScore {
	score := RouteScore{}
	for _, edgeID := range route.Edges {
		e := g.GetEdge(edgeID)
		score.TotalLength += e.Length
		score.TotalSafetyCost += e.SafetyCost
	}

	if score.TotalLength == 0 {
		score.DangerScore = math.Inf(1)
	} else {
		score.DangerScore = score.TotalSafetyCost / score.TotalLength
	}
	return score
}
