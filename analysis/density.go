package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/histo"
	"gonum.org/v1/gonum/spatial/r3"
)

//ProfileAxis is an axis for a density profile. Linear axes measure the
//projection of the positions on the axis, radial ones the distance to the
//axis. Both are measured from Options.Origin().
type ProfileAxis struct {
	Axis   trjstat.Axis
	Radial bool
}

func (P ProfileAxis) value(v r3.Vec) float64 {
	if P.Radial {
		return P.Axis.Radial(v)
	}
	return P.Axis.Projection(v)
}

//limits returns the range of the histogram for the axis. Radial axes start
//at 0, or at Options.Min() if it was set to a non-negative value.
func (P ProfileAxis) limits(o *Options) (float64, float64) {
	if P.Radial {
		if o.hasMin && o.min >= 0 {
			return o.min, o.Max()
		}
		return 0, o.Max()
	}
	return o.Min(), o.Max()
}

func (P ProfileAxis) String() string {
	if P.Radial {
		return "radial " + P.Axis.String()
	}
	return P.Axis.String()
}

//DensityProfile computes the average number of the given atoms in each bin
//along an axis. Positions outside of the range of the axis are ignored, with
//a warning. Radial profiles are divided by the distance to the axis.
func DensityProfile(traj trjstat.Traj, atoms []int, axis ProfileAxis, options ...*Options) (*Table, error) {
	o := getOptions(options)
	if len(atoms) == 0 {
		return nil, errors.New("analysis.DensityProfile: no atoms selected")
	}
	min, max := axis.limits(o)
	h, err := histo.New1D(o.Points(), min, max, o.warner())
	if err != nil {
		return nil, fmt.Errorf("analysis.DensityProfile: %w", err)
	}
	av := histo.NewAverager(h)
	origin := o.Origin()
	frames, err := readFrames(traj, o, func(_ int, frame *trjstat.Frame) error {
		for _, i := range atoms {
			h.Insert(axis.value(frame.Cell.Wrap(r3.Sub(frame.Coords[i], origin))))
		}
		av.Step()
		return nil
	})
	if err != nil {
		return nil, err
	}
	av.Average()
	if axis.Radial {
		h.Normalize(func(i int, v float64) float64 { return v / h.Coord(i) })
	}
	T := newTable("x", "density")
	T.Comment("Density profile along %s for %d atoms, averaged over %d frames", axis, len(atoms), frames)
	for i, v := range h.View() {
		T.Columns[0] = append(T.Columns[0], h.Coord(i))
		T.Columns[1] = append(T.Columns[1], v)
	}
	return T, nil
}

//Grid is a result with one value for each point of a 2D grid.
type Grid struct {
	Comments []string
	X, Y     []float64
	Values   [][]float64 //Values[i][j] corresponds to X[i], Y[j]
}

//Write writes the comments, preceded by '#', and then one "x y value" line
//per point, with a blank line after each value of x.
func (G *Grid) Write(w io.Writer) error {
	b := bufio.NewWriter(w)
	for _, c := range G.Comments {
		fmt.Fprintf(b, "# %s\n", c)
	}
	fmt.Fprintln(b, "# x y density")
	for i, x := range G.X {
		for j, y := range G.Y {
			fmt.Fprintf(b, "%s %s %s\n", strconv.FormatFloat(x, 'g', 8, 64), strconv.FormatFloat(y, 'g', 8, 64), strconv.FormatFloat(G.Values[i][j], 'g', 8, 64))
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}

//DensityMap computes the average number of the given atoms in each cell of
//a 2D grid defined by two axes. Both axes use the same number of points and limits.
func DensityMap(traj trjstat.Traj, atoms []int, x, y ProfileAxis, options ...*Options) (*Grid, error) {
	o := getOptions(options)
	if len(atoms) == 0 {
		return nil, errors.New("analysis.DensityMap: no atoms selected")
	}
	min1, max1 := x.limits(o)
	min2, max2 := y.limits(o)
	h, err := histo.New2D(o.Points(), min1, max1, o.Points(), min2, max2, o.warner())
	if err != nil {
		return nil, fmt.Errorf("analysis.DensityMap: %w", err)
	}
	av := histo.NewAverager(h)
	origin := o.Origin()
	frames, err := readFrames(traj, o, func(_ int, frame *trjstat.Frame) error {
		for _, i := range atoms {
			v := frame.Cell.Wrap(r3.Sub(frame.Coords[i], origin))
			h.Insert2D(x.value(v), y.value(v))
		}
		av.Step()
		return nil
	})
	if err != nil {
		return nil, err
	}
	av.Average()
	d1, d2 := h.Dim(0), h.Dim(1)
	G := &Grid{X: make([]float64, d1.Bins), Y: make([]float64, d2.Bins), Values: make([][]float64, d1.Bins)}
	G.Comments = append(G.Comments, fmt.Sprintf("Density map along %s and %s for %d atoms, averaged over %d frames", x, y, len(atoms), frames))
	for j := range G.Y {
		G.Y[j] = d2.Coord(j)
	}
	for i := range G.X {
		G.X[i] = d1.Coord(i)
		G.Values[i] = make([]float64, d2.Bins)
		for j := range G.Y {
			v := h.At2D(i, j)
			if x.Radial {
				v /= G.X[i]
			}
			if y.Radial {
				v /= G.Y[j]
			}
			G.Values[i][j] = v
		}
	}
	return G, nil
}
