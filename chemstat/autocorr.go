package chemstat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

var (
	//ErrNormalized is returned when data is added to an already normalized Autocorrelation.
	ErrNormalized = errors.New("chemstat: autocorrelation already normalized")
	//ErrClosed is returned when a closed Autocorrelation is used.
	ErrClosed = errors.New("chemstat: autocorrelation closed")
)

//LengthError is returned when a time series doesn't have the length an
//Autocorrelation was created for.
type LengthError struct {
	Got, Want int
}

func (E *LengthError) Error() string {
	return fmt.Sprintf("chemstat: time series of length %d given, but %d expected", E.Got, E.Want)
}

//noCopy makes go vet complain when an Autocorrelation is copied.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

//Autocorrelation accumulates the autocorrelation functions of many time series
//of the same length, using FFTs. The series are zero-padded to at least twice
//their length, so the circular correlation computed by the FFT doesn't wrap
//around.
//An Autocorrelation owns its FFT plan and buffers, and must not be copied.
//Use it through the pointer returned by NewAutocorrelation.
type Autocorrelation struct {
	noCopy noCopy

	n          int
	l          int
	fft        *fourier.FFT
	work       []float64
	coeffs     []complex128
	result     []float64
	count      int
	normalized bool
}

//NewAutocorrelation returns an Autocorrelation for time series with n elements.
func NewAutocorrelation(n int) (*Autocorrelation, error) {
	if n <= 0 {
		return nil, fmt.Errorf("chemstat.NewAutocorrelation: the length of the time series must be positive, got %d", n)
	}
	l := nextPow2(2 * n)
	A := &Autocorrelation{
		n:      n,
		l:      l,
		fft:    fourier.NewFFT(l),
		work:   make([]float64, l),
		coeffs: make([]complex128, l/2+1),
		result: make([]float64, n),
	}
	return A, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

//Len returns the length of the time series accepted.
func (A *Autocorrelation) Len() int {
	return A.n
}

//TransformLen returns the length of the padded series used in the FFTs.
func (A *Autocorrelation) TransformLen() int {
	return A.l
}

//Count returns the number of time series added so far.
func (A *Autocorrelation) Count() int {
	return A.count
}

//AddTimeSeries computes the autocorrelation of series, and adds it to the
//accumulated result. The series is not modified.
func (A *Autocorrelation) AddTimeSeries(series []float32) error {
	if A.fft == nil {
		return ErrClosed
	}
	if A.normalized {
		return ErrNormalized
	}
	if len(series) != A.n {
		return &LengthError{Got: len(series), Want: A.n}
	}
	for i, v := range series {
		A.work[i] = float64(v)
	}
	for i := A.n; i < len(A.work); i++ {
		A.work[i] = 0
	}
	A.fft.Coefficients(A.coeffs, A.work)
	//Wiener-Khinchin: the inverse transform of the power spectrum is the autocorrelation.
	for i, c := range A.coeffs {
		A.coeffs[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	A.fft.Sequence(A.work, A.coeffs)
	floats.Add(A.result, A.work[:A.n])
	A.count++
	return nil
}

//Normalize divides the accumulated result at each lag i by the FFT gain, the
//number of series and the number of pairs (n-i) contributing to that lag.
//After this call no more series can be added. Calling it again does nothing.
//It panics if no series was added.
func (A *Autocorrelation) Normalize() {
	if A.normalized {
		return
	}
	if A.count == 0 {
		panic("chemstat.Autocorrelation.Normalize: no time series added")
	}
	l := float64(A.l)
	c := float64(A.count)
	for i := range A.result {
		A.result[i] /= l * c * float64(A.n-i)
	}
	A.normalized = true
}

//Result returns the normalized autocorrelation, one value per lag, in units
//of the sampling step. It panics if Normalize has not been called.
//The returned slice should not be modified.
func (A *Autocorrelation) Result() []float64 {
	if !A.normalized {
		panic("chemstat.Autocorrelation.Result: the autocorrelation is not normalized")
	}
	return A.result
}

//Merge adds the series accumulated in other to the receiver. Both must have the
//same length and not be normalized. other is left unchanged.
func (A *Autocorrelation) Merge(other *Autocorrelation) error {
	if A.fft == nil || other.fft == nil {
		return ErrClosed
	}
	if A.normalized || other.normalized {
		return ErrNormalized
	}
	if A.n != other.n {
		return &LengthError{Got: other.n, Want: A.n}
	}
	floats.Add(A.result, other.result)
	A.count += other.count
	return nil
}

//Close releases the FFT plan and buffers. The result is still available
//if the Autocorrelation was normalized.
func (A *Autocorrelation) Close() {
	A.fft = nil
	A.work = nil
	A.coeffs = nil
}

//DirectAutocorrelation returns the autocorrelation of series computed with the
//direct O(N^2) sum, normalized like Autocorrelation does for a single series.
func DirectAutocorrelation(series []float32) []float64 {
	n := len(series)
	ret := make([]float64, n)
	for lag := 0; lag < n; lag++ {
		var s float64
		for t := 0; t+lag < n; t++ {
			s += float64(series[t]) * float64(series[t+lag])
		}
		ret[lag] = s / float64(n-lag)
	}
	return ret
}
