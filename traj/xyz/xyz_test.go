package xyz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/trjstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const water = `3
Lattice="10.0 0.0 0.0 0.0 11.0 0.0 0.0 0.0 12.0" Properties=species:S:1:pos:R:3
O   0.000 0.000 0.000
H1  0.957 0.000 0.000
H2 -0.240 0.927 0.000
3
second frame, no cell
O   1.000 0.000 0.000
H1  1.957 0.000 0.000
H2  0.760 0.927 0.000

`

func writeFile(t *testing.T, content string) string {
	name := filepath.Join(t.TempDir(), "test.xyz")
	require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	return name
}

func TestRead(t *testing.T) {
	r, err := New(writeFile(t, water))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"O", "H1", "H2"}, r.Topology().Names)

	f := trjstat.NewFrame(3)
	require.NoError(t, r.Next(f))
	assert.Equal(t, trjstat.Orthorhombic, f.Cell.Shape())
	assert.InDelta(t, 1320, f.Cell.Volume(), 1e-9)
	assert.Equal(t, r3.Vec{X: -0.24, Y: 0.927}, f.Coords[2])

	require.NoError(t, r.Next(f))
	assert.Equal(t, trjstat.Infinite, f.Cell.Shape())
	assert.Equal(t, 1.0, f.Coords[0].X)

	err = r.Next(f)
	assert.True(t, trjstat.IsLastFrame(err))
	assert.False(t, r.Readable())
}

func TestReadErrors(t *testing.T) {
	_, err := New(writeFile(t, ""))
	assert.Error(t, err)

	_, err = New(writeFile(t, "2\ncomment\nO 0 0 0\n"))
	assert.Error(t, err)

	_, err = New(writeFile(t, "1\nLattice=\"1 2 3\"\nO 0 0 0\n"))
	assert.Error(t, err)

	r, err := New(writeFile(t, "1\n\nO 0 0 0\n2\n\nO 0 0 0\nH 1 0 0\n"))
	require.NoError(t, err)
	require.NoError(t, r.Next(nil))
	err = r.Next(nil)
	require.Error(t, err)
	assert.False(t, trjstat.IsLastFrame(err))
}

func TestRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.xyz")
	top := trjstat.NewTopology([]string{"C", "O"})
	w, err := NewWriter(name, top)
	require.NoError(t, err)
	tri, err := trjstat.NewCell(10, 10, 10, 90, 90, 60)
	require.NoError(t, err)
	f := trjstat.NewFrame(2)
	f.Coords[1] = r3.Vec{X: 1.128, Y: -0.5, Z: 2}
	f.Cell = tri
	require.NoError(t, w.WNext(f))
	f.Cell = trjstat.Cell{}
	require.NoError(t, w.WNext(f))
	assert.Error(t, w.WNext(trjstat.NewFrame(3)))
	require.NoError(t, w.Close())

	r, err := New(name)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, top.Names, r.Topology().Names)
	got := trjstat.NewFrame(2)
	require.NoError(t, r.Next(got))
	assert.Equal(t, trjstat.Triclinic, got.Cell.Shape())
	assert.InDelta(t, tri.Volume(), got.Cell.Volume(), 1e-3)
	assert.InDelta(t, 1.128, got.Coords[1].X, 1e-9)
	require.NoError(t, r.Next(got))
	assert.Equal(t, trjstat.Infinite, got.Cell.Shape())
	assert.True(t, trjstat.IsLastFrame(r.Next(got)))
}
