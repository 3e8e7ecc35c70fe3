package chemstat

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantSeries(t *testing.T) {
	A, err := NewAutocorrelation(4)
	require.NoError(t, err)
	require.NoError(t, A.AddTimeSeries([]float32{1, 1, 1, 1}))
	A.Normalize()
	assert.InDeltaSlice(t, []float64{1, 1, 1, 1}, A.Result(), 1e-9)

	for _, c := range []float32{-2, 0.3, 7} {
		A, err := NewAutocorrelation(57)
		require.NoError(t, err)
		s := make([]float32, 57)
		for i := range s {
			s[i] = c
		}
		require.NoError(t, A.AddTimeSeries(s))
		require.NoError(t, A.AddTimeSeries(s))
		A.Normalize()
		for lag, v := range A.Result() {
			assert.InDelta(t, float64(c)*float64(c), v, 1e-6, "lag %d", lag)
		}
	}
}

func TestNoWraparound(t *testing.T) {
	for _, n := range []int{1, 2, 5, 16, 33} {
		A, err := NewAutocorrelation(n)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, A.TransformLen(), 2*n)
		s := make([]float32, n)
		s[0] = 1
		require.NoError(t, A.AddTimeSeries(s))
		A.Normalize()
		r := A.Result()
		assert.InDelta(t, 1/float64(n), r[0], 1e-12)
		for lag := 1; lag < n; lag++ {
			assert.InDelta(t, 0, r[lag], 1e-12, "n=%d lag=%d", n, lag)
		}
	}
}

func TestAgainstDirect(t *testing.T) {
	rnd := rand.New(rand.NewSource(12))
	n := 200
	A, err := NewAutocorrelation(n)
	require.NoError(t, err)
	sum := make([]float64, n)
	series := 5
	for k := 0; k < series; k++ {
		s := make([]float32, n)
		for i := range s {
			s[i] = float32(rnd.NormFloat64() + 0.5*float64(k))
		}
		require.NoError(t, A.AddTimeSeries(s))
		for i, v := range DirectAutocorrelation(s) {
			sum[i] += v / float64(series)
		}
	}
	A.Normalize()
	assert.InDeltaSlice(t, sum, A.Result(), 1e-6)
}

func TestWhiteNoise(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	n := 4096
	s := make([]float32, n)
	var msq float64
	for i := range s {
		s[i] = float32(rnd.NormFloat64())
		msq += float64(s[i]) * float64(s[i])
	}
	msq /= float64(n)
	A, err := NewAutocorrelation(n)
	require.NoError(t, err)
	require.NoError(t, A.AddTimeSeries(s))
	A.Normalize()
	r := A.Result()
	assert.InDelta(t, msq, r[0], 1e-6, "lag 0 is the mean square")
	var tail float64
	for _, v := range r[100:1100] {
		tail += v
	}
	assert.InDelta(t, 0, tail/1000, 0.05)
}

func TestRoundTripMeanSquare(t *testing.T) {
	A, err := NewAutocorrelation(3)
	require.NoError(t, err)
	require.NoError(t, A.AddTimeSeries([]float32{1, 2, 3}))
	require.NoError(t, A.AddTimeSeries([]float32{0, -1, 1}))
	A.Normalize()
	want := ((1.0+4+9)/3 + (0.0+1+1)/3) / 2
	assert.InDelta(t, want, A.Result()[0], 1e-9)
	assert.Equal(t, 2, A.Count())
}

func TestStateMachine(t *testing.T) {
	_, err := NewAutocorrelation(0)
	assert.Error(t, err)

	A, err := NewAutocorrelation(3)
	require.NoError(t, err)
	assert.Panics(t, A.Normalize, "no series added")
	assert.Panics(t, func() { A.Result() })

	err = A.AddTimeSeries([]float32{1, 2})
	var lerr *LengthError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, 2, lerr.Got)
	assert.Equal(t, 3, lerr.Want)

	require.NoError(t, A.AddTimeSeries([]float32{1, 2, 3}))
	A.Normalize()
	first := append([]float64(nil), A.Result()...)
	A.Normalize()
	assert.Equal(t, first, A.Result())
	assert.ErrorIs(t, A.AddTimeSeries([]float32{1, 2, 3}), ErrNormalized)

	A.Close()
	assert.Equal(t, first, A.Result())
	assert.ErrorIs(t, A.AddTimeSeries([]float32{1, 2, 3}), ErrClosed)
}

func TestMerge(t *testing.T) {
	a, _ := NewAutocorrelation(8)
	b, _ := NewAutocorrelation(8)
	all, _ := NewAutocorrelation(8)
	s1 := []float32{1, 0, 2, 1, 0, 3, 1, 1}
	s2 := []float32{0, 1, 1, 2, 2, 1, 0, 0}
	require.NoError(t, a.AddTimeSeries(s1))
	require.NoError(t, b.AddTimeSeries(s2))
	require.NoError(t, all.AddTimeSeries(s1))
	require.NoError(t, all.AddTimeSeries(s2))
	require.NoError(t, a.Merge(b))
	a.Normalize()
	all.Normalize()
	assert.InDeltaSlice(t, all.Result(), a.Result(), 1e-12)

	c, _ := NewAutocorrelation(4)
	d, _ := NewAutocorrelation(8)
	assert.Error(t, d.Merge(c))
	assert.ErrorIs(t, a.Merge(d), ErrNormalized)
}
