package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rmera/trjstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func idealGas(t *testing.T, natoms, nframes int, l float64) []*trjstat.Frame {
	rnd := rand.New(rand.NewSource(42))
	cell := cubic(t, l)
	frames := make([]*trjstat.Frame, nframes)
	for k := range frames {
		f := trjstat.NewFrame(natoms)
		for i := range f.Coords {
			f.Coords[i] = r3.Vec{X: rnd.Float64() * l, Y: rnd.Float64() * l, Z: rnd.Float64() * l}
		}
		f.Cell = cell
		frames[k] = f
	}
	return frames
}

func allAtoms(n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = i
	}
	return ret
}

func TestRDFIdealGas(t *testing.T) {
	frames := idealGas(t, 500, 20, 20)
	atoms := allAtoms(500)
	var results []*Table
	for _, cpus := range []int{1, 4} {
		o := DefaultOptions()
		o.Cpus(cpus)
		o.Max(8)
		o.Points(16)
		T, err := RDF(newMemTraj(frames...), atoms, atoms, o)
		require.NoError(t, err)
		require.Equal(t, 16, T.Rows())
		results = append(results, T)
	}
	T := results[0]
	r, g, n := T.Column("r"), T.Column("g(r)"), T.Column("n(r)")
	assert.InDelta(t, 0.25, r[0], 1e-12, "r is the center of the bins")
	for i := 2; i < len(g); i++ {
		assert.InDelta(t, 1, g[i], 0.1, "g(r) at r = %g", r[i])
	}
	//coordination number of an ideal gas: rho 4/3 pi r^3
	want := 500.0 / 8000 * 4.0 / 3 * math.Pi * 8 * 8 * 8
	assert.InEpsilon(t, want, n[len(n)-1], 0.05)
	assert.InDeltaSlice(t, results[0].Column("g(r)"), results[1].Column("g(r)"), 1e-9, "the workers give the same result")
}

func TestRDFErrors(t *testing.T) {
	f := frameOf(trjstat.Cell{}, r3.Vec{}, r3.Vec{X: 1})
	_, err := RDF(newMemTraj(f), []int{0}, []int{1})
	assert.Error(t, err, "infinite cell")

	f = frameOf(cubic(t, 10), r3.Vec{}, r3.Vec{X: 1})
	_, err = RDF(newMemTraj(f), []int{0}, []int{0})
	assert.Error(t, err, "no pairs")

	o := DefaultOptions()
	o.Cpus(1)
	o.Max(3)
	o.Points(3)
	T, err := RDF(newMemTraj(f), []int{0}, []int{1}, o)
	require.NoError(t, err)
	//a single pair at 1 A: all the weight is in the second bin
	g := T.Column("g(r)")
	assert.Equal(t, 0.0, g[0])
	assert.InDelta(t, 1000/(4*math.Pi*1.5*1.5), g[1], 1e-9)
	assert.Equal(t, 0.0, g[2])
}
