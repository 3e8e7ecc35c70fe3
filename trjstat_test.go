package trjstat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func vecInDelta(t *testing.T, want, got r3.Vec, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta)
	assert.InDelta(t, want.Y, got.Y, delta)
	assert.InDelta(t, want.Z, got.Z, delta)
}

func TestCell(t *testing.T) {
	c, err := ParseCell("10")
	require.NoError(t, err)
	assert.Equal(t, Orthorhombic, c.Shape())
	assert.InDelta(t, 1000, c.Volume(), 1e-9)
	vecInDelta(t, r3.Vec{X: -4, Y: 1, Z: 0.5}, c.Wrap(r3.Vec{X: 6, Y: 11, Z: -9.5}), 1e-12)

	c, err = ParseCell("10:20:30")
	require.NoError(t, err)
	a, b, cc := c.Lengths()
	assert.Equal(t, []float64{10, 20, 30}, []float64{a, b, cc})
	assert.InDelta(t, 6000, c.Volume(), 1e-9)

	tri, err := ParseCell("10:10:10:90:90:60")
	require.NoError(t, err)
	assert.Equal(t, Triclinic, tri.Shape())
	assert.InDelta(t, 1000*math.Sqrt(0.75), tri.Volume(), 1e-6)
	a, b, cc = tri.Lengths()
	assert.InDeltaSlice(t, []float64{10, 10, 10}, []float64{a, b, cc}, 1e-9)
	m := tri.Matrix()
	bvec := r3.Vec{X: m[0][1], Y: m[1][1], Z: m[2][1]}
	vecInDelta(t, r3.Vec{}, tri.Wrap(bvec), 1e-9)
	v := r3.Vec{X: 1.5, Y: -2, Z: 3.25}
	vecInDelta(t, v, tri.Cartesian(tri.Fractional(v)), 1e-9)

	back, err := CellFromBox(tri.Box())
	require.NoError(t, err)
	assert.InDelta(t, tri.Volume(), back.Volume(), 1e-9)

	inf, err := ParseCell("0")
	require.NoError(t, err)
	assert.Equal(t, Infinite, inf.Shape())
	assert.Equal(t, v, inf.Wrap(v))
	assert.Equal(t, 0.0, inf.Volume())

	for _, bad := range []string{"a", "1:2", "1:2:3:4:5", "-1", "10:10:10:0:90:90"} {
		_, err := ParseCell(bad)
		assert.Error(t, err, bad)
	}
}

func TestGeometry(t *testing.T) {
	x := r3.Vec{X: 1}
	y := r3.Vec{Y: 2}
	assert.InDelta(t, math.Pi/2, Angle(x, y), 1e-12)
	assert.Equal(t, 0.0, Angle(x, x))
	assert.InDelta(t, math.Pi, Angle(x, r3.Scale(-3, x)), 1e-12)

	a, b, c := r3.Vec{X: 1}, r3.Vec{}, r3.Vec{Z: 1}
	assert.InDelta(t, math.Pi/2, Dihedral(a, b, c, r3.Vec{Y: 1, Z: 1}), 1e-12)
	assert.Equal(t, math.Pi, Dihedral(a, b, c, r3.Vec{X: -1, Z: 1}), "trans is π, never -π")
	assert.InDelta(t, 0, Dihedral(a, b, c, r3.Vec{X: 1, Z: 1}), 1e-12)

	cell, _ := NewOrthorhombic(10, 10, 10)
	//the same right angle, across the periodic boundary
	assert.InDelta(t, math.Pi/2, AngleIn(cell, r3.Vec{X: 9.5}, r3.Vec{X: 0.5}, r3.Vec{X: 0.5, Y: 1}), 1e-12)
	assert.InDelta(t, math.Pi, math.Abs(DihedralIn(cell, r3.Vec{X: 1}, r3.Vec{}, r3.Vec{Z: 9.5}, r3.Vec{X: -1, Z: 9.5})), 1e-12)
}

func TestAxis(t *testing.T) {
	z, err := ParseAxis("z")
	require.NoError(t, err)
	assert.Equal(t, AxisZ, z)
	assert.Equal(t, 3.0, z.Projection(r3.Vec{X: 1, Y: 2, Z: 3}))
	assert.InDelta(t, math.Sqrt(5), z.Radial(r3.Vec{X: 1, Y: 2, Z: 3}), 1e-12)

	d, err := ParseAxis("1:1:0")
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt2, d.Projection(r3.Vec{X: 1}), 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, d.Radial(r3.Vec{X: 1}), 1e-12)
	assert.InDelta(t, 1, r3.Norm(d.Vec()), 1e-12)

	for _, bad := range []string{"w", "0:0:0", "1:2", "1:b:3"} {
		_, err := ParseAxis(bad)
		assert.Error(t, err, bad)
	}
}

func TestSteps(t *testing.T) {
	s, err := ParseSteps("")
	require.NoError(t, err)
	assert.Equal(t, AllSteps, s)
	assert.True(t, s.Contains(123456))

	s, err = ParseSteps("10:20:5")
	require.NoError(t, err)
	assert.True(t, s.Contains(10))
	assert.True(t, s.Contains(15))
	assert.False(t, s.Contains(12))
	assert.False(t, s.Contains(20))
	assert.False(t, s.Contains(5))
	assert.False(t, s.Past(19))
	assert.True(t, s.Past(20))
	assert.Equal(t, 2, s.Count(100))
	assert.Equal(t, 1, s.Count(12))
	assert.Equal(t, 0, s.Count(8))

	s, err = ParseSteps("::3")
	require.NoError(t, err)
	assert.Equal(t, Steps{Start: 0, End: math.MaxInt, Stride: 3}, s)
	assert.Equal(t, 4, s.Count(10))

	s, err = ParseSteps("5:")
	require.NoError(t, err)
	assert.Equal(t, 5, s.Start)
	assert.Equal(t, 1, s.Stride)

	for _, bad := range []string{"a", "1:2:0", "5:2", "1:2:3:4", "-1:4"} {
		_, err := ParseSteps(bad)
		assert.Error(t, err, bad)
	}
}

func TestSelect(t *testing.T) {
	top := NewTopology([]string{"O", "H1", "H2", "CA", "Ca", "Na"})
	assert.Equal(t, []string{"O", "H", "H", "C", "Ca", "Na"},
		[]string{top.Symbol(0), top.Symbol(1), top.Symbol(2), top.Symbol(3), top.Symbol(4), top.Symbol(5)})

	cases := map[string][]int{
		"":                          {0, 1, 2, 3, 4, 5},
		"all":                       {0, 1, 2, 3, 4, 5},
		"none":                      {},
		"element H":                 {1, 2},
		"name O or element H":       {0, 1, 2},
		"index 0-2 and not name H2": {0, 1},
		"all and not element C":     {0, 1, 2, 4, 5},
		"name Ca Na":                {4, 5},
		"index 4 9-12":              {4},
		"not index 1-5 or name Na":  {0, 5},
	}
	for expr, want := range cases {
		got, err := Select(top, expr)
		require.NoError(t, err, expr)
		assert.Equal(t, want, got, expr)
	}
	for _, bad := range []string{"name", "foo", "index 1 2 xor", "index 0 name O", "element H and", "index 3-1"} {
		_, err := Select(top, bad)
		assert.Error(t, err, bad)
	}
}

func TestGuessBonds(t *testing.T) {
	top := NewTopology([]string{"O", "H1", "H2"})
	f := NewFrame(3)
	f.Coords[1] = r3.Vec{X: 0.96}
	f.Coords[2] = r3.Vec{X: -0.24, Y: 0.93}
	require.NoError(t, GuessBonds(f, top))
	assert.Equal(t, [][2]int{{0, 1}, {0, 2}}, top.Bonds)
	assert.Equal(t, [][3]int{{1, 0, 2}}, Angles(top))
	assert.Empty(t, Dihedrals(top))

	//bonded across the periodic boundary
	top = NewTopology([]string{"H", "O"})
	f = NewFrame(2)
	f.Coords[0] = r3.Vec{X: 0.2}
	f.Coords[1] = r3.Vec{X: 9.5}
	f.Cell, _ = NewOrthorhombic(10, 10, 10)
	require.NoError(t, GuessBonds(f, top))
	assert.Equal(t, [][2]int{{0, 1}}, top.Bonds)

	//H keeps only its shortest bond
	top = NewTopology([]string{"O", "H", "O"})
	f = NewFrame(3)
	f.Coords[1] = r3.Vec{X: 1.0}
	f.Coords[2] = r3.Vec{X: 2.1}
	require.NoError(t, GuessBonds(f, top))
	assert.Equal(t, [][2]int{{0, 1}}, top.Bonds)

	top = NewTopology([]string{"Xx", "H"})
	assert.Error(t, GuessBonds(NewFrame(2), top))
	assert.Error(t, GuessBonds(NewFrame(3), top))
}

func TestTopologyGraph(t *testing.T) {
	top := NewTopology([]string{"C1", "C2", "C3", "C4"})
	top.AddBond(1, 0)
	top.AddBond(1, 2)
	top.AddBond(2, 3)
	top.AddBond(0, 1)
	assert.Len(t, top.Bonds, 3)
	assert.Equal(t, [][]int{{1}, {0, 2}, {1, 3}, {2}}, top.Neighbors())
	assert.Equal(t, [][3]int{{0, 1, 2}, {1, 2, 3}}, Angles(top))
	assert.Equal(t, [][4]int{{0, 1, 2, 3}}, Dihedrals(top))
}
