package analysis

import (
	"math"
	"testing"

	"github.com/rmera/trjstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func bent(theta float64) *trjstat.Frame {
	return frameOf(trjstat.Cell{}, r3.Vec{X: 1}, r3.Vec{}, r3.Vec{X: math.Cos(theta), Y: math.Sin(theta)})
}

func TestAngleDistribution(t *testing.T) {
	o := DefaultOptions()
	o.Points(18)
	traj := newMemTraj(bent(trjstat.Deg2Rad(95)), bent(trjstat.Deg2Rad(95)), bent(math.Pi))
	T, err := AngleDistribution(traj, [][3]int{{0, 1, 2}}, o)
	require.NoError(t, err)
	x, p := T.Column("angle"), T.Column("P")
	require.Len(t, p, 18)
	assert.InDelta(t, 95, x[9], 1e-9)
	assert.InDelta(t, 1, p[9], 1e-12, "the distribution is normalized to a maximum of 1")
	assert.InDelta(t, 0.5, p[17], 1e-12, "180 degrees goes in the last bin")
	for i, v := range p {
		if i != 9 && i != 17 {
			assert.Equal(t, 0.0, v)
		}
	}
	_, err = AngleDistribution(traj, nil, o)
	assert.Error(t, err)
}

func TestDihedralDistribution(t *testing.T) {
	phi := trjstat.Deg2Rad(65)
	f := frameOf(trjstat.Cell{}, r3.Vec{X: 1}, r3.Vec{}, r3.Vec{Z: 1}, r3.Vec{X: math.Cos(phi), Y: math.Sin(phi), Z: 1})
	g := frameOf(trjstat.Cell{}, r3.Vec{X: 1}, r3.Vec{}, r3.Vec{Z: 1}, r3.Vec{X: math.Cos(-phi), Y: math.Sin(-phi), Z: 1})
	o := DefaultOptions()
	o.Points(36)
	T, err := DihedralDistribution(newMemTraj(f, f, g), [][4]int{{0, 1, 2, 3}}, o)
	require.NoError(t, err)
	x, p := T.Column("dihedral"), T.Column("P")
	assert.InDelta(t, 65, x[24], 1e-9)
	assert.InDelta(t, -65, x[11], 1e-9)
	assert.InDelta(t, 1, p[24], 1e-12)
	assert.InDelta(t, 0.5, p[11], 1e-12)
}

func TestAngleUpperLimit(t *testing.T) {
	flat := bent(math.Pi)
	trans := frameOf(trjstat.Cell{}, r3.Vec{X: 1}, r3.Vec{}, r3.Vec{Z: 1}, r3.Vec{X: -1, Z: 1})
	for _, points := range []int{1, 2, 3, 4, 5, 6, 7, 8, 17, 90, 200, 360, 1999} {
		o := DefaultOptions()
		o.Points(points)
		T, err := AngleDistribution(newMemTraj(flat), [][3]int{{0, 1, 2}}, o)
		require.NoError(t, err, "%d points", points)
		p := T.Column("P")
		require.Len(t, p, points)
		assert.Equal(t, 1.0, p[points-1], "180 degrees in the last of %d bins", points)

		T, err = DihedralDistribution(newMemTraj(trans), [][4]int{{0, 1, 2, 3}}, o)
		require.NoError(t, err, "%d points", points)
		p = T.Column("P")
		require.Len(t, p, points)
		assert.Equal(t, 1.0, p[points-1], "a 180 degrees dihedral in the last of %d bins", points)
	}
}
