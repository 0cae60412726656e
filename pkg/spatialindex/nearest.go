package spatialindex

import (
	"math"

	"lintang/nightwalk/pkg/datastructure"

	"github.com/dhconnelly/rtreego"
)

const (
	dimension   = 2
	minChildren = 25
	maxChildren = 50

	// pointTolerance half side of the degenerate rectangle each point is stored as (meters).
	pointTolerance = 1e-9
)

type indexedPoint struct {
	idx   int
	point datastructure.ProjectedPoint
	rect  rtreego.Rect
}

func (p *indexedPoint) Bounds() rtreego.Rect {
	return p.rect
}

// NearestIndex immutable nearest neighbour index over projected points. Backed by an r-tree,
// bulk loaded once. Safe for concurrent queries.
type NearestIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewNearestIndex builds the index. an empty point set gives an index whose queries return +Inf.
func NewNearestIndex(points []datastructure.ProjectedPoint) *NearestIndex {
	if len(points) == 0 {
		return &NearestIndex{}
	}

	objs := make([]rtreego.Spatial, 0, len(points))
	for i, p := range points {
		objs = append(objs, &indexedPoint{
			idx:   i,
			point: p,
			rect:  rtreego.Point{p.X, p.Y}.ToRect(pointTolerance),
		})
	}

	return &NearestIndex{
		tree: rtreego.NewTree(dimension, minChildren, maxChildren, objs...),
		size: len(points),
	}
}

func (ni *NearestIndex) Size() int {
	return ni.size
}

// NearestDistance returns the euclidean distance to the closest indexed point and its index in the
// input slice. (+Inf, -1) if the index is empty.
func (ni *NearestIndex) NearestDistance(q datastructure.ProjectedPoint) (float64, int) {
	if ni.tree == nil || ni.size == 0 {
		return math.Inf(1), -1
	}
	nearest := ni.tree.NearestNeighbor(rtreego.Point{q.X, q.Y})
	if nearest == nil {
		return math.Inf(1), -1
	}
	p := nearest.(*indexedPoint)
	return math.Hypot(p.point.X-q.X, p.point.Y-q.Y), p.idx
}
