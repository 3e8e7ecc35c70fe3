package analysis

import (
	"bytes"
	"testing"

	"github.com/rmera/trjstat"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDensityProfile(t *testing.T) {
	f := frameOf(trjstat.Cell{}, r3.Vec{Z: 1.25}, r3.Vec{X: 3, Z: 1.25}, r3.Vec{Z: -3.75}, r3.Vec{Z: 7})
	var logs bytes.Buffer
	o := DefaultOptions()
	o.Logger(zerolog.New(&logs))
	o.Max(5)
	o.Points(10)
	T, err := DensityProfile(newMemTraj(f, f), []int{0, 1, 2, 3}, ProfileAxis{Axis: trjstat.AxisZ}, o)
	require.NoError(t, err)
	x, d := T.Column("x"), T.Column("density")
	assert.InDelta(t, -4.5, x[0], 1e-12)
	assert.InDelta(t, 1.5, x[6], 1e-12)
	assert.InDelta(t, 2, d[6], 1e-12)
	assert.InDelta(t, 1, d[1], 1e-12)
	var sum float64
	for _, v := range d {
		sum += v
	}
	assert.InDelta(t, 3, sum, 1e-12, "the atom out of range is ignored")
	assert.Contains(t, logs.String(), "outside of the histogram range", "with a warning")
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("outside")), "only once")
}

func TestRadialProfile(t *testing.T) {
	f := frameOf(trjstat.Cell{}, r3.Vec{X: 2.5}, r3.Vec{Y: 2.5, Z: 5}, r3.Vec{X: 11})
	o := DefaultOptions()
	o.Max(5)
	o.Points(5)
	o.Origin(r3.Vec{Z: 1})
	T, err := DensityProfile(newMemTraj(f), []int{0, 1}, ProfileAxis{Axis: trjstat.AxisZ, Radial: true}, o)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, T.Column("x")[2], 1e-12)
	assert.InDelta(t, 2/2.5, T.Column("density")[2], 1e-12)

	o.Min(2)
	o.Points(6)
	T, err = DensityProfile(newMemTraj(f), []int{0, 1}, ProfileAxis{Axis: trjstat.AxisZ, Radial: true}, o)
	require.NoError(t, err)
	x := T.Column("x")
	require.Len(t, x, 6)
	assert.InDelta(t, 2.25, x[0], 1e-12, "the radial range starts at the given minimum")
	assert.InDelta(t, 2.75, x[1], 1e-12)
	assert.InDelta(t, 2/2.75, T.Column("density")[1], 1e-12)

	o.Min(-3)
	T, err = DensityProfile(newMemTraj(f), []int{0, 1}, ProfileAxis{Axis: trjstat.AxisZ, Radial: true}, o)
	require.NoError(t, err)
	assert.InDelta(t, 5.0/12, T.Column("x")[0], 1e-12, "negative minima are ignored for radial axes")
}

func TestDensityMap(t *testing.T) {
	f := frameOf(trjstat.Cell{}, r3.Vec{X: 1.5, Y: -2.5}, r3.Vec{X: 1.5, Y: -2.5, Z: 3})
	o := DefaultOptions()
	o.Max(5)
	o.Points(10)
	G, err := DensityMap(newMemTraj(f, f), []int{0, 1}, ProfileAxis{Axis: trjstat.AxisX}, ProfileAxis{Axis: trjstat.AxisY}, o)
	require.NoError(t, err)
	require.Len(t, G.X, 10)
	require.Len(t, G.Y, 10)
	assert.InDelta(t, 1.5, G.X[6], 1e-12)
	assert.InDelta(t, -2.5, G.Y[2], 1e-12)
	assert.InDelta(t, 2, G.Values[6][2], 1e-12)
	_, err = DensityMap(newMemTraj(f), nil, ProfileAxis{Axis: trjstat.AxisX}, ProfileAxis{Axis: trjstat.AxisY}, o)
	assert.Error(t, err)
}
