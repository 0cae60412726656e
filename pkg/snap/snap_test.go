package snap

import (
	"errors"
	"testing"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapToNode(t *testing.T) {
	g := datastructure.NewStreetGraph("EPSG:3857")
	for i, p := range []datastructure.ProjectedPoint{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 0}, {X: 50, Y: 80}} {
		idx := g.AddNode(int64(i+1), 0, 0)
		g.SetNodeProjection(idx, p.X, p.Y)
	}
	ns := NewNodeSnapper(g)

	nodeID, dist, err := ns.SnapToNode(datastructure.NewProjectedPoint(3, 4))
	require.NoError(t, err)
	assert.Equal(t, int32(0), nodeID)
	assert.InDelta(t, 5.0, dist, 1e-9)

	// node 1 & 2 di posisi yang sama, first match menang
	nodeID, _, err = ns.SnapToNode(datastructure.NewProjectedPoint(99, 1))
	require.NoError(t, err)
	assert.Equal(t, int32(1), nodeID)

	// equidistant dari node 0 & node 1 -> index terkecil
	nodeID, _, err = ns.SnapToNode(datastructure.NewProjectedPoint(50, 0))
	require.NoError(t, err)
	assert.Equal(t, int32(0), nodeID)
}

func TestSnapToNodeEmptyGraph(t *testing.T) {
	ns := NewNodeSnapper(datastructure.NewStreetGraph("EPSG:3857"))
	_, _, err := ns.SnapToNode(datastructure.NewProjectedPoint(0, 0))
	assert.True(t, errors.Is(err, errs.ErrNoResult))
}
