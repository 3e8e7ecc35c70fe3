package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

//Dimension is one binned axis of a histogram.
type Dimension struct {
	Bins  int
	Start float64
	Width float64
}

//NewDimension returns a Dimension with bins bins covering [min, max).
//A zero-width or reversed axis is a configuration error.
func NewDimension(bins int, min, max float64) (Dimension, error) {
	if bins <= 0 {
		return Dimension{}, fmt.Errorf("histo.NewDimension: the number of bins must be positive, got %d", bins)
	}
	if max == min {
		return Dimension{}, fmt.Errorf("histo.NewDimension: zero-width axis (min = max = %g)", min)
	}
	if max < min {
		return Dimension{}, fmt.Errorf("histo.NewDimension: max (%g) is smaller than min (%g)", max, min)
	}
	return Dimension{Bins: bins, Start: min, Width: (max - min) / float64(bins)}, nil
}

//Stop returns the upper limit of the axis.
func (D Dimension) Stop() float64 {
	return D.Start + float64(D.Bins)*D.Width
}

//Coord returns the center of the bin i.
func (D Dimension) Coord(i int) float64 {
	return D.Start + (float64(i)+0.5)*D.Width
}

//Bin returns the bin for x, and whether that bin is inside the axis.
func (D Dimension) Bin(x float64) (int, bool) {
	f := math.Floor((x - D.Start) / D.Width)
	if math.IsNaN(f) || f < 0 || f >= float64(D.Bins) {
		return -1, false
	}
	return int(f), true
}

//Histogram is a dense 1D or 2D binned accumulator. For 2D histograms the
//cells are stored row-major: the cell (i, j) is at j+i*dims[1].Bins.
type Histogram struct {
	dims  []Dimension
	cells []float64
	warn  *WarnOnce
}

//New1D returns an empty histogram with one axis. warn receives the
//messages about dropped samples, and can be nil.
func New1D(bins int, min, max float64, warn *WarnOnce) (*Histogram, error) {
	d, err := NewDimension(bins, min, max)
	if err != nil {
		return nil, err
	}
	return &Histogram{dims: []Dimension{d}, cells: make([]float64, d.Bins), warn: warn}, nil
}

//New2D returns an empty histogram with two axes.
func New2D(bins1 int, min1, max1 float64, bins2 int, min2, max2 float64, warn *WarnOnce) (*Histogram, error) {
	d1, err := NewDimension(bins1, min1, max1)
	if err != nil {
		return nil, fmt.Errorf("first axis: %w", err)
	}
	d2, err := NewDimension(bins2, min2, max2)
	if err != nil {
		return nil, fmt.Errorf("second axis: %w", err)
	}
	return &Histogram{dims: []Dimension{d1, d2}, cells: make([]float64, d1.Bins*d2.Bins), warn: warn}, nil
}

//Insert adds one count to the bin containing x. Samples outside the
//histogram are dropped, with a warning. Returns whether x was accepted.
func (H *Histogram) Insert(x float64) bool {
	return H.InsertWeighted(1, x)
}

//InsertWeighted adds w to the bin containing x.
func (H *Histogram) InsertWeighted(w, x float64) bool {
	if len(H.dims) != 1 {
		panic("histo.Histogram.InsertWeighted: 1D insertion in a 2D histogram")
	}
	bin, ok := H.dims[0].Bin(x)
	if !ok {
		H.warnOut(x, H.dims[0])
		return false
	}
	H.cells[bin] += w
	return true
}

//Insert2D adds one count to the cell containing (x, y).
func (H *Histogram) Insert2D(x, y float64) bool {
	return H.InsertWeighted2D(1, x, y)
}

//InsertWeighted2D adds w to the cell containing (x, y).
func (H *Histogram) InsertWeighted2D(w, x, y float64) bool {
	if len(H.dims) != 2 {
		panic("histo.Histogram.InsertWeighted2D: 2D insertion in a 1D histogram")
	}
	i, ok := H.dims[0].Bin(x)
	if !ok {
		H.warnOut(x, H.dims[0])
		return false
	}
	j, ok := H.dims[1].Bin(y)
	if !ok {
		H.warnOut(y, H.dims[1])
		return false
	}
	H.cells[j+i*H.dims[1].Bins] += w
	return true
}

//The message doesn't include the value itself, so it is emitted only once per axis.
func (H *Histogram) warnOut(x float64, d Dimension) {
	if H.warn == nil {
		return
	}
	H.warn.Warn(fmt.Sprintf("some values are outside of the histogram range [%g, %g) and were ignored", d.Start, d.Stop()))
}

//Normalize replaces each cell i with f(i, cell[i]).
func (H *Histogram) Normalize(f func(i int, v float64) float64) {
	for i, v := range H.cells {
		H.cells[i] = f(i, v)
	}
}

//Reset sets all the cells to zero.
func (H *Histogram) Reset() {
	for i := range H.cells {
		H.cells[i] = 0
	}
}

//Len returns the total number of cells.
func (H *Histogram) Len() int {
	return len(H.cells)
}

//Dims returns the number of axes (1 or 2).
func (H *Histogram) Dims() int {
	return len(H.dims)
}

//Dim returns the k-th axis.
func (H *Histogram) Dim(k int) Dimension {
	return H.dims[k]
}

//At returns the value of the cell i
func (H *Histogram) At(i int) float64 {
	return H.cells[i]
}

//At2D returns the value of the cell in the row i and column j of a 2D histogram.
func (H *Histogram) At2D(i, j int) float64 {
	if len(H.dims) != 2 {
		panic("histo.Histogram.At2D: not a 2D histogram")
	}
	return H.cells[j+i*H.dims[1].Bins]
}

//View returns the cells. It is not a copy, and it should not be modified.
func (H *Histogram) View() []float64 {
	return H.cells
}

//Coord returns the center of the bin i, for 1D histograms.
func (H *Histogram) Coord(i int) float64 {
	if len(H.dims) != 1 {
		panic("histo.Histogram.Coord: not a 1D histogram")
	}
	return H.dims[0].Coord(i)
}

//Coord2D returns the centers of the row i and column j, for 2D histograms.
func (H *Histogram) Coord2D(i, j int) (float64, float64) {
	if len(H.dims) != 2 {
		panic("histo.Histogram.Coord2D: not a 2D histogram")
	}
	return H.dims[0].Coord(i), H.dims[1].Coord(j)
}

//Sum returns the sum of all cells.
func (H *Histogram) Sum() float64 {
	return floats.Sum(H.cells)
}

//Max returns the largest cell value.
func (H *Histogram) Max() float64 {
	return floats.Max(H.cells)
}

//Add adds, cell by cell, the values of other to the receiver. Both histograms
//must have the same axes.
func (H *Histogram) Add(other *Histogram) {
	if !H.sameDims(other) {
		panic("histo.Histogram.Add: Histograms must have the same dimensions")
	}
	floats.Add(H.cells, other.cells)
}

func (H *Histogram) sameDims(other *Histogram) bool {
	if len(H.dims) != len(other.dims) {
		return false
	}
	for i, d := range H.dims {
		if d != other.dims[i] {
			return false
		}
	}
	return true
}

//String prints a -hopefully- pretty representation of a 1D histogram,
//one line with the bin limits and one with the values. 2D histograms
//are printed one row per line.
func (H *Histogram) String() string {
	if len(H.dims) == 2 {
		rows := make([]string, 0, H.dims[0].Bins)
		for i := 0; i < H.dims[0].Bins; i++ {
			r := make([]string, 0, H.dims[1].Bins)
			for j := 0; j < H.dims[1].Bins; j++ {
				r = append(r, fmt.Sprintf("%9.3f", H.At2D(i, j)))
			}
			rows = append(rows, strings.Join(r, " "))
		}
		return strings.Join(rows, "\n")
	}
	d := make([]string, 0, len(H.cells))
	h := make([]string, 0, len(H.cells))
	dim := H.dims[0]
	for i, v := range H.cells {
		lo := dim.Start + float64(i)*dim.Width
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", lo, lo+dim.Width))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

type jsonHisto struct {
	Dims  []Dimension `json:"dims"`
	Cells []float64   `json:"cells"`
}

func (H *Histogram) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonHisto{Dims: H.dims, Cells: H.cells})
}

//UnmarshalJSON restores a histogram. The warning sink is not
//serialized, so the restored histogram drops samples silently.
func (H *Histogram) UnmarshalJSON(b []byte) error {
	var a jsonHisto
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	n := 1
	for _, d := range a.Dims {
		n *= d.Bins
	}
	if len(a.Dims) < 1 || len(a.Dims) > 2 || n != len(a.Cells) {
		return fmt.Errorf("histo.Histogram.UnmarshalJSON: %d cells don't match the %d dimensions given", len(a.Cells), len(a.Dims))
	}
	H.dims = a.Dims
	H.cells = a.Cells
	return nil
}
