package histo

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimension(t *testing.T) {
	d, err := NewDimension(10, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.Width)
	assert.Equal(t, 10.0, d.Stop())
	assert.Equal(t, 0.5, d.Coord(0))
	assert.Equal(t, 9.5, d.Coord(9))

	_, err = NewDimension(10, 3, 3)
	assert.Error(t, err, "zero-width axis")
	_, err = NewDimension(0, 0, 1)
	assert.Error(t, err)
	_, err = NewDimension(5, 1, 0)
	assert.Error(t, err)
}

func TestInsertCounts(t *testing.T) {
	h, err := New1D(10, 0, 10, nil)
	require.NoError(t, err)
	for _, x := range []float64{0.5, 1.5, 1.5, 9.9} {
		assert.True(t, h.Insert(x))
	}
	assert.Equal(t, []float64{1, 2, 0, 0, 0, 0, 0, 0, 0, 1}, h.View())
	assert.Equal(t, 10, h.Len())
	assert.Equal(t, 4.0, h.Sum())
	assert.Equal(t, 2.0, h.Max())
}

func TestBinMapping(t *testing.T) {
	h, err := New1D(37, -2.5, 4.1, nil)
	require.NoError(t, err)
	d := h.Dim(0)
	for x := -2.5; x < 4.1; x += 0.0173 {
		h.Reset()
		require.True(t, h.Insert(x))
		bin := int(math.Floor((x - d.Start) / d.Width))
		assert.Equal(t, 1.0, h.At(bin))
		assert.Equal(t, 1.0, h.Sum())
		assert.LessOrEqual(t, math.Abs(h.Coord(bin)-x), d.Width/2+1e-12)
	}
}

func TestOutOfRangeWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewWarnOnce(zerolog.New(&buf))
	h, err := New1D(4, 0, 2, w)
	require.NoError(t, err)
	assert.False(t, h.Insert(-0.1))
	assert.False(t, h.Insert(2))
	assert.False(t, h.Insert(17))
	assert.False(t, h.Insert(math.NaN()))
	assert.True(t, h.Insert(1.99))
	assert.Equal(t, 1.0, h.Sum())

	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, 4, w.Count(msgs[0]))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")), "the warning must be logged once")
}

func TestWeightedAndNormalize(t *testing.T) {
	h, err := New1D(4, 0, 4, nil)
	require.NoError(t, err)
	h.InsertWeighted(0.25, 0.1)
	h.InsertWeighted(0.5, 3.2)
	h.Normalize(func(i int, v float64) float64 { return v * float64(i+1) })
	assert.Equal(t, []float64{0.25, 0, 0, 2}, h.View())
}

func Test2D(t *testing.T) {
	h, err := New2D(2, 0, 2, 3, 0, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, h.Len())
	assert.True(t, h.Insert2D(1.5, 0.5))
	assert.True(t, h.Insert2D(1.5, 2.5))
	assert.True(t, h.InsertWeighted2D(3, 0.2, 1.2))
	assert.False(t, h.Insert2D(1.5, 3.5))
	assert.Equal(t, 1.0, h.At2D(1, 0))
	assert.Equal(t, 1.0, h.At2D(1, 2))
	assert.Equal(t, 3.0, h.At2D(0, 1))
	assert.Equal(t, 1.0, h.At(2+1*3))
	x, y := h.Coord2D(1, 2)
	assert.Equal(t, 1.5, x)
	assert.Equal(t, 2.5, y)
	assert.Panics(t, func() { h.Insert(1) })
	assert.Panics(t, func() { h.Coord(1) }, "a 2D histogram has no single bin coordinate")

	h1, err := New1D(2, 0, 2, nil)
	require.NoError(t, err)
	assert.Panics(t, func() { h1.Coord2D(0, 0) })
	assert.Panics(t, func() { h1.At2D(0, 0) })
}

func TestAdd(t *testing.T) {
	a, _ := New1D(3, 0, 3, nil)
	b, _ := New1D(3, 0, 3, nil)
	a.Insert(0.5)
	b.Insert(0.5)
	b.Insert(2.5)
	a.Add(b)
	assert.Equal(t, []float64{2, 0, 1}, a.View())
	c, _ := New1D(3, 0, 4, nil)
	assert.Panics(t, func() { a.Add(c) })
}

func TestHistoJSON(t *testing.T) {
	h, _ := New2D(2, 0, 1, 2, -1, 1, nil)
	h.Insert2D(0.7, -0.5)
	j, err := json.Marshal(h)
	require.NoError(t, err)
	h2 := new(Histogram)
	require.NoError(t, json.Unmarshal(j, h2))
	assert.Equal(t, h.View(), h2.View())
	assert.Equal(t, h.Dim(1), h2.Dim(1))
	assert.Error(t, json.Unmarshal([]byte(`{"dims":[{"Bins":3,"Start":0,"Width":1}],"cells":[1]}`), h2))
}
