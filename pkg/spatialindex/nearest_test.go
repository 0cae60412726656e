package spatialindex

import (
	"math"
	"testing"

	"lintang/nightwalk/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestNearestIndexEmpty(t *testing.T) {
	idx := NewNearestIndex(nil)

	dist, matched := idx.NearestDistance(datastructure.NewProjectedPoint(10, 10))
	assert.True(t, math.IsInf(dist, 1))
	assert.Equal(t, -1, matched)
	assert.Equal(t, 0, idx.Size())
}

func TestNearestIndexSinglePoint(t *testing.T) {
	idx := NewNearestIndex([]datastructure.ProjectedPoint{{X: 3, Y: 4}})

	dist, matched := idx.NearestDistance(datastructure.NewProjectedPoint(0, 0))
	assert.InDelta(t, 5.0, dist, 1e-6)
	assert.Equal(t, 0, matched)

	dist, _ = idx.NearestDistance(datastructure.NewProjectedPoint(3, 4))
	assert.InDelta(t, 0.0, dist, 1e-6)
}

func TestNearestIndexMatchesBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	points := make([]datastructure.ProjectedPoint, 2000)
	for i := range points {
		points[i] = datastructure.NewProjectedPoint(rnd.Float64()*5000, rnd.Float64()*5000)
	}
	idx := NewNearestIndex(points)

	for i := 0; i < 300; i++ {
		q := datastructure.NewProjectedPoint(rnd.Float64()*6000-500, rnd.Float64()*6000-500)

		best := math.Inf(1)
		for _, p := range points {
			best = math.Min(best, math.Hypot(p.X-q.X, p.Y-q.Y))
		}

		dist, matched := idx.NearestDistance(q)
		assert.InDelta(t, best, dist, 1e-6)
		assert.InDelta(t, dist, math.Hypot(points[matched].X-q.X, points[matched].Y-q.Y), 1e-9)
	}
}
