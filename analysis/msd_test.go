package analysis

import (
	"math"
	"testing"

	"github.com/rmera/trjstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMSDBallistic(t *testing.T) {
	v := 0.1
	var frames []*trjstat.Frame
	for i := 0; i < 40; i++ {
		x := v * float64(i)
		frames = append(frames, frameOf(trjstat.Cell{}, r3.Vec{X: x}, r3.Vec{X: 1, Y: x}))
	}
	T, err := MSD(newMemTraj(frames...), []int{0, 1})
	require.NoError(t, err)
	require.Equal(t, 20, T.Rows())
	for i, lag := range T.Column("lag") {
		want := v * v * lag * lag
		assert.InDelta(t, want, T.Column("msd")[i], 1e-3, "lag %g", lag)
	}
}

func TestMSDUnwrap(t *testing.T) {
	cell := cubic(t, 5)
	var frames []*trjstat.Frame
	for i := 0; i < 30; i++ {
		x := math.Mod(0.4*float64(i), 5)
		frames = append(frames, frameOf(cell, r3.Vec{X: x, Y: 1, Z: 1}))
	}
	o := DefaultOptions()
	o.Unwrap(true)
	T, err := MSD(newMemTraj(frames...), []int{0}, o)
	require.NoError(t, err)
	for i, lag := range T.Column("lag") {
		assert.InDelta(t, 0.16*lag*lag, T.Column("msd")[i], 1e-3, "lag %g", lag)
	}

	frames[0].Cell = trjstat.Cell{}
	_, err = MSD(newMemTraj(frames...), []int{0}, o)
	assert.Error(t, err, "unwrapping needs a cell")
	_, err = MSD(newMemTraj(frames[1]), []int{0}, o)
	assert.Error(t, err, "one frame")
}

func TestRotCF(t *testing.T) {
	//a fixed bond keeps its orientation
	var frames []*trjstat.Frame
	for i := 0; i < 10; i++ {
		frames = append(frames, frameOf(trjstat.Cell{}, r3.Vec{X: 1, Y: 1}, r3.Vec{}))
	}
	T, err := RotCF(newMemTraj(frames...), [][2]int{{0, 1}})
	require.NoError(t, err)
	for _, v := range T.Column("C2") {
		assert.InDelta(t, 1, v, 1e-6)
	}

	//a bond rotating in a plane at constant speed
	omega := 0.1
	frames = frames[:0]
	for i := 0; i < 50; i++ {
		a := omega * float64(i)
		frames = append(frames, frameOf(trjstat.Cell{}, r3.Vec{X: math.Cos(a), Y: math.Sin(a)}, r3.Vec{}))
	}
	o := DefaultOptions()
	o.Steps(trjstat.Steps{Start: 0, End: math.MaxInt, Stride: 2})
	T, err = RotCF(newMemTraj(frames...), [][2]int{{0, 1}}, o)
	require.NoError(t, err)
	require.Equal(t, 12, T.Rows())
	for i, lag := range T.Column("lag") {
		c := math.Cos(omega * lag)
		assert.InDelta(t, 1.5*c*c-0.5, T.Column("C2")[i], 1e-5, "lag %g", lag)
	}
}

func TestBondPairs(t *testing.T) {
	top := trjstat.NewTopology([]string{"C", "H", "O", "H"})
	top.AddBond(0, 1)
	top.AddBond(2, 3)
	top.AddBond(0, 2)
	assert.Equal(t, [][2]int{{0, 1}, {2, 3}}, BondPairs(top, []int{0, 2}, []int{1, 3}))
	assert.Equal(t, [][2]int{{1, 0}, {3, 2}}, BondPairs(top, []int{1, 3}, []int{0, 2}))
}
