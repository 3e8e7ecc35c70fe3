package stf

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/trjstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func testFrames(t *testing.T) []*trjstat.Frame {
	cell, err := trjstat.NewCell(20, 21, 22, 90, 90, 90)
	require.NoError(t, err)
	frames := make([]*trjstat.Frame, 3)
	for i := range frames {
		f := trjstat.NewFrame(3)
		f.Coords[0] = r3.Vec{X: float64(i), Y: -1.25, Z: 3.333}
		f.Coords[1] = r3.Vec{X: 0.5, Y: 10.01 * float64(i), Z: -7}
		f.Coords[2] = r3.Vec{X: -0.004, Y: 0, Z: 100.4}
		if i != 1 {
			f.Cell = cell
		}
		frames[i] = f
	}
	return frames
}

func TestRoundTrip(t *testing.T) {
	for _, ext := range []string{"stf", "stfz", "stfr", "stfl"} {
		name := filepath.Join(t.TempDir(), "test."+ext)
		top := trjstat.NewTopology([]string{"OW", "HW1", "HW2"})
		w, err := NewWriter(name, 3, NamesHeader(top))
		require.NoError(t, err, ext)
		frames := testFrames(t)
		for _, f := range frames {
			require.NoError(t, w.WNext(f), ext)
		}
		assert.Error(t, w.WNext(trjstat.NewFrame(2)))
		require.NoError(t, w.Close(), ext)

		r, header, err := New(name)
		require.NoError(t, err, ext)
		assert.Equal(t, "2", header["prec"])
		assert.Equal(t, 3, r.Len())
		require.NotNil(t, r.Topology())
		assert.Equal(t, top.Names, r.Topology().Names)
		got := trjstat.NewFrame(3)
		for i, want := range frames {
			require.NoError(t, r.Next(got), "%s frame %d", ext, i)
			for j := range want.Coords {
				assert.InDelta(t, want.Coords[j].X, got.Coords[j].X, 0.005)
				assert.InDelta(t, want.Coords[j].Y, got.Coords[j].Y, 0.005)
				assert.InDelta(t, want.Coords[j].Z, got.Coords[j].Z, 0.005)
			}
			assert.Equal(t, want.Cell.Shape(), got.Cell.Shape())
			assert.InDelta(t, want.Cell.Volume(), got.Cell.Volume(), 1e-6)
		}
		err = r.Next(got)
		require.Error(t, err)
		assert.True(t, trjstat.IsLastFrame(err), ext)
		assert.False(t, r.Readable())
	}
}

func TestSkipFrames(t *testing.T) {
	name := filepath.Join(t.TempDir(), "skip.stf")
	w, err := NewWriter(name, 3, map[string]string{"prec": "3"})
	require.NoError(t, err)
	frames := testFrames(t)
	for _, f := range frames {
		require.NoError(t, w.WNext(f))
	}
	require.NoError(t, w.Close())

	r, header, err := New(name)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "3", header["prec"])
	assert.Nil(t, r.Topology())
	require.NoError(t, r.Next(nil))
	require.NoError(t, r.Next(nil))
	got := trjstat.NewFrame(3)
	require.NoError(t, r.Next(got))
	assert.InDelta(t, -0.004, got.Coords[2].X, 1e-9)
	assert.InDelta(t, 20.02, got.Coords[1].Y, 1e-9)
	assert.Error(t, r.Next(trjstat.NewFrame(4)))
}

func TestMalformed(t *testing.T) {
	name := filepath.Join(t.TempDir(), "bad.stfz")
	f, err := os.Create(name)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("prec=2\n** 2\n100 200 300\n*\n100 200 300\n*\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r, _, err := New(name)
	require.NoError(t, err)
	defer r.Close()
	err = r.Next(nil)
	require.Error(t, err)
	assert.False(t, trjstat.IsLastFrame(err))
	var terr trjstat.TrajError
	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.Critical())
	assert.Equal(t, "stf", terr.Format())
	assert.Equal(t, name, terr.FileName())
	assert.Equal(t, []string{"Next", "test"}, terr.Decorate("test"))

	_, _, err = New(filepath.Join(t.TempDir(), "missing.stf"))
	assert.Error(t, err)
}
