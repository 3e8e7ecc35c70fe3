package dcd

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/trjstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func cells(t *testing.T) []trjstat.Cell {
	ortho, err := trjstat.NewOrthorhombic(10, 12, 14)
	require.NoError(t, err)
	tric, err := trjstat.NewCell(10, 11, 12, 80, 95, 100)
	require.NoError(t, err)
	return []trjstat.Cell{ortho, tric, {}}
}

func writeTraj(t *testing.T, name string) []*trjstat.Frame {
	w, err := NewWriter(name, 3)
	require.NoError(t, err)
	var frames []*trjstat.Frame
	for i, c := range cells(t) {
		f := trjstat.NewFrame(3)
		for j := range f.Coords {
			f.Coords[j] = r3.Vec{X: float64(i) + 0.5, Y: float64(j) * 1.25, Z: -float64(i * j)}
		}
		f.Cell = c
		require.NoError(t, w.WNext(f))
		frames = append(frames, f)
	}
	require.NoError(t, w.Close())
	return frames
}

func readAll(t *testing.T, name string, want []*trjstat.Frame) {
	r, err := New(name)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, len(want), r.Frames())
	assert.Nil(t, r.Topology())
	got := trjstat.NewFrame(3)
	for i, w := range want {
		require.NoError(t, r.Next(got), "frame %d", i)
		for j := range w.Coords {
			assert.InDelta(t, w.Coords[j].X, got.Coords[j].X, 1e-5)
			assert.InDelta(t, w.Coords[j].Y, got.Coords[j].Y, 1e-5)
			assert.InDelta(t, w.Coords[j].Z, got.Coords[j].Z, 1e-5)
		}
		assert.Equal(t, w.Cell.Shape(), got.Cell.Shape(), "frame %d", i)
		assert.InDelta(t, w.Cell.Volume(), got.Cell.Volume(), 1e-6)
	}
	err = r.Next(got)
	assert.True(t, trjstat.IsLastFrame(err))
	assert.False(t, r.Readable())
}

func TestRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "test.dcd")
	want := writeTraj(t, name)
	readAll(t, name, want)

	r, err := New(name)
	require.NoError(t, err)
	require.NoError(t, r.Next(nil))
	f := trjstat.NewFrame(3)
	require.NoError(t, r.Next(f))
	assert.InDelta(t, 1.5, f.Coords[0].X, 1e-6)
	assert.Error(t, r.Next(trjstat.NewFrame(2)))
	r.Close()
}

func TestCompressed(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "test.dcd")
	want := writeTraj(t, name)
	raw, err := os.ReadFile(name)
	require.NoError(t, err)

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(name+".gz", gz.Bytes(), 0o644))
	readAll(t, name+".gz", want)

	var zs bytes.Buffer
	enc, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = enc.Write(raw)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(name+".zst", zs.Bytes(), 0o644))
	readAll(t, name+".zst", want)
}

//bigEndian builds a CHARMM file with a fourth dimension block that is
//missing in the last frame, and unit cells stored as cosines.
func bigEndian(t *testing.T, name string) {
	var b bytes.Buffer
	w := func(v any) {
		require.NoError(t, binary.Write(&b, binary.BigEndian, v))
	}
	var icntrl [20]int32
	icntrl[0] = 2
	icntrl[10] = 1
	icntrl[11] = 1
	icntrl[19] = 27
	w(int32(84))
	w([]byte("CORD"))
	w(icntrl)
	w(int32(84))
	w(int32(84))
	w(int32(1))
	w(make([]byte, 80))
	w(int32(84))
	w(int32(4))
	w(int32(2))
	w(int32(4))
	for frame := 0; frame < 2; frame++ {
		w(int32(48))
		w([6]float64{20, 0, 20, 0, 0, 20})
		w(int32(48))
		for k := 0; k < 3; k++ {
			w(int32(8))
			w([]float32{float32(frame), float32(k)})
			w(int32(8))
		}
		if frame == 0 {
			w(int32(8))
			w([]float32{9, 9})
			w(int32(8))
		}
	}
	require.NoError(t, os.WriteFile(name, b.Bytes(), 0o644))
}

func TestBigEndianFourDim(t *testing.T) {
	name := filepath.Join(t.TempDir(), "big.dcd")
	bigEndian(t, name)
	r, err := New(name)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	f := trjstat.NewFrame(2)
	for frame := 0; frame < 2; frame++ {
		require.NoError(t, r.Next(f))
		assert.Equal(t, r3.Vec{X: float64(frame), Y: float64(frame), Z: float64(frame)}, f.Coords[0])
		assert.Equal(t, r3.Vec{X: 0, Y: 1, Z: 2}, f.Coords[1])
		assert.Equal(t, trjstat.Orthorhombic, f.Cell.Shape())
		assert.InDelta(t, 8000, f.Cell.Volume(), 1e-9)
	}
	assert.True(t, trjstat.IsLastFrame(r.Next(f)))
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := New(filepath.Join(dir, "missing.dcd"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.dcd")
	require.NoError(t, os.WriteFile(bad, []byte("this is not a trajectory"), 0o644))
	_, err = New(bad)
	var terr trjstat.TrajError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "dcd", terr.Format())
	assert.True(t, terr.Critical())

	_, err = NewWriter(filepath.Join(dir, "empty.dcd"), 0)
	assert.Error(t, err)
	_, err = NewWriter(filepath.Join(dir, "packed.dcd.gz"), 2)
	assert.Error(t, err)
	w, err := NewWriter(filepath.Join(dir, "w.dcd"), 2)
	require.NoError(t, err)
	assert.Error(t, w.WNext(nil))
	assert.Error(t, w.WNext(trjstat.NewFrame(3)))
	require.NoError(t, w.Close())
	assert.Error(t, w.WNext(trjstat.NewFrame(2)))

	//a file cut in the middle of a frame
	name := filepath.Join(dir, "cut.dcd")
	writeTraj(t, name)
	raw, err := os.ReadFile(name)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(name, raw[:len(raw)-10], 0o644))
	r, err := New(name)
	require.NoError(t, err)
	for {
		err = r.Next(nil)
		if err != nil {
			break
		}
	}
	assert.False(t, trjstat.IsLastFrame(err))
	assert.NotErrorIs(t, err, io.EOF)
	r.Close()
}
