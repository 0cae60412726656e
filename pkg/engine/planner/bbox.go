package planner

import (
	"lintang/nightwalk/pkg/datastructure"

	"github.com/paulmach/orb"
)

// BoundingBoxBuffer planar margin (meters) around the scoping route.
const BoundingBoxBuffer = 300.0

// PlanarRouteBound planar min/max of the route points expanded by buffer on each side.
func PlanarRouteBound(points []datastructure.ProjectedPoint, buffer float64) orb.Bound {
	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, orb.Point{p.X, p.Y})
	}
	return mp.Bound().Pad(buffer)
}
