package analysis

import (
	"errors"
	"math"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/histo"
)

//angleDistribution averages over the trajectory the histogram of the values
//returned by angles for each frame, in [min, max], and normalizes it to a maximum of 1.
func angleDistribution(traj trjstat.Traj, min, max float64, angles func(frame *trjstat.Frame, insert func(float64)), o *Options) (*histo.Histogram, int, error) {
	h, err := histo.New1D(o.Points(), min, max, o.warner())
	if err != nil {
		return nil, 0, err
	}
	av := histo.NewAverager(h)
	//the upper limit is a valid angle, it goes in the last bin.
	d := h.Dim(0)
	last := d.Coord(d.Bins - 1)
	insert := func(a float64) {
		if a >= last {
			a = last
		}
		h.Insert(a)
	}
	frames, err := readFrames(traj, o, func(_ int, frame *trjstat.Frame) error {
		angles(frame, insert)
		av.Step()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	av.Average()
	top := h.Max()
	if top == 0 {
		return nil, 0, errors.New("analysis: no angles found in the trajectory")
	}
	h.Normalize(func(_ int, v float64) float64 { return v / top })
	return h, frames, nil
}

func angleTable(h *histo.Histogram, label string) *Table {
	T := newTable(label, "P")
	for i, v := range h.View() {
		T.Columns[0] = append(T.Columns[0], trjstat.Rad2Deg(h.Coord(i)))
		T.Columns[1] = append(T.Columns[1], v)
	}
	return T
}

//AngleDistribution computes the distribution of the i-j-k angles given, in
//[0, 180] degrees, averaged over the trajectory and normalized to a maximum of 1.
func AngleDistribution(traj trjstat.Traj, angles [][3]int, options ...*Options) (*Table, error) {
	o := getOptions(options)
	if len(angles) == 0 {
		return nil, errors.New("analysis.AngleDistribution: no angles given")
	}
	h, frames, err := angleDistribution(traj, 0, math.Pi, func(frame *trjstat.Frame, insert func(float64)) {
		for _, a := range angles {
			insert(trjstat.AngleIn(frame.Cell, frame.Coords[a[0]], frame.Coords[a[1]], frame.Coords[a[2]]))
		}
	}, o)
	if err != nil {
		return nil, err
	}
	T := angleTable(h, "angle")
	T.Comment("Angle distribution for %d angles, averaged over %d frames", len(angles), frames)
	return T, nil
}

//DihedralDistribution computes the distribution of the i-j-k-l dihedral angles
//given, in [-180, 180] degrees, averaged over the trajectory and normalized to a maximum of 1.
func DihedralDistribution(traj trjstat.Traj, dihedrals [][4]int, options ...*Options) (*Table, error) {
	o := getOptions(options)
	if len(dihedrals) == 0 {
		return nil, errors.New("analysis.DihedralDistribution: no dihedrals given")
	}
	h, frames, err := angleDistribution(traj, -math.Pi, math.Pi, func(frame *trjstat.Frame, insert func(float64)) {
		for _, d := range dihedrals {
			c := frame.Coords
			insert(trjstat.DihedralIn(frame.Cell, c[d[0]], c[d[1]], c[d[2]], c[d[3]]))
		}
	}, o)
	if err != nil {
		return nil, err
	}
	T := angleTable(h, "dihedral")
	T.Comment("Dihedral distribution for %d dihedrals, averaged over %d frames", len(dihedrals), frames)
	return T, nil
}
