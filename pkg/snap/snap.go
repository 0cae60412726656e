package snap

import (
	"math"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/geo"
)

// NodeSnapper snaps a projected point to the nearest graph node.
type NodeSnapper struct {
	g *datastructure.StreetGraph
}

func NewNodeSnapper(g *datastructure.StreetGraph) *NodeSnapper {
	return &NodeSnapper{g: g}
}

// SnapToNode euclidean nearest node in planar coordinates. linear scan over every node,
// on equal distance the lowest node index wins so the result is deterministic.
func (ns *NodeSnapper) SnapToNode(p datastructure.ProjectedPoint) (int32, float64, error) {
	best := int32(-1)
	bestDist := math.Inf(1)
	for i, n := range ns.g.Nodes() {
		d := geo.EuclideanDistance(n.X, n.Y, p.X, p.Y)
		if d < bestDist {
			best = int32(i)
			bestDist = d
		}
	}
	if best < 0 {
		return -1, bestDist, errs.ErrNoResult
	}
	return best, bestDist, nil
}
