package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/chemstat"
	"gonum.org/v1/gonum/spatial/r3"
)

//positionSeries collects the position of each atom along the trajectory, one
//time series per atom and cartesian component. If unwrap is true, the positions
//are moved across the periodic boundaries so they are continuous in time.
type positionSeries struct {
	atoms    []int
	unwrap   bool
	series   [][3][]float32
	prev     []r3.Vec
	prevCell trjstat.Cell
	frames   int
}

func newPositionSeries(atoms []int, unwrap bool) *positionSeries {
	return &positionSeries{atoms: atoms, unwrap: unwrap, series: make([][3][]float32, len(atoms)), prev: make([]r3.Vec, len(atoms))}
}

func (P *positionSeries) add(frame *trjstat.Frame) error {
	if P.unwrap && frame.Cell.Shape() == trjstat.Infinite {
		return errors.New("analysis.MSD: can't unwrap positions in an infinite unit cell")
	}
	for k, i := range P.atoms {
		cur := frame.Coords[i]
		if P.unwrap && P.frames > 0 {
			prevFrac := P.prevCell.Fractional(P.prev[k])
			delta := r3.Sub(frame.Cell.Fractional(cur), prevFrac)
			delta.X -= math.Round(delta.X)
			delta.Y -= math.Round(delta.Y)
			delta.Z -= math.Round(delta.Z)
			cur = frame.Cell.Cartesian(r3.Add(prevFrac, delta))
		}
		P.prev[k] = cur
		s := &P.series[k]
		s[0] = append(s[0], float32(cur.X))
		s[1] = append(s[1], float32(cur.Y))
		s[2] = append(s[2], float32(cur.Z))
	}
	P.prevCell = frame.Cell
	P.frames++
	return nil
}

//MSD computes the mean square displacement <[r(t) - r(0)]^2> of the given atoms,
//averaged over the atoms and the time origins, for lags up to half the
//number of frames used. The positions are unwrapped if Options.Unwrap() is true.
//The lags in the returned table are in trajectory steps.
func MSD(traj trjstat.Traj, atoms []int, options ...*Options) (*Table, error) {
	o := getOptions(options)
	if len(atoms) == 0 {
		return nil, errors.New("analysis.MSD: no atoms selected")
	}
	P := newPositionSeries(atoms, o.Unwrap())
	_, err := readFrames(traj, o, func(_ int, frame *trjstat.Frame) error {
		return P.add(frame)
	})
	if err != nil {
		return nil, err
	}
	n := P.frames
	if n < 2 {
		return nil, fmt.Errorf("analysis.MSD: at least 2 frames are needed, got %d", n)
	}
	natoms := float64(len(atoms))
	//<[r(t) - r(0)]^2> = <r(t)^2 + r(0)^2> - 2<r(t).r(0)>. The first term is
	//computed directly, the second one through the autocorrelation.
	msd := make([]float64, n)
	rsq := make([]float64, n)
	for _, s := range P.series {
		var sum float64
		for t := 0; t < n; t++ {
			x, y, z := float64(s[0][t]), float64(s[1][t]), float64(s[2][t])
			rsq[t] = x*x + y*y + z*z
			sum += rsq[t]
		}
		sum *= 2
		msd[0] += sum / float64(n)
		var cum, cumReverse float64
		for lag := 1; lag < n; lag++ {
			cum += rsq[lag-1]
			cumReverse += rsq[n-lag]
			msd[lag] += (sum - cum - cumReverse) / float64(n-lag)
		}
	}
	corr, err := chemstat.NewAutocorrelation(n)
	if err != nil {
		return nil, err
	}
	defer corr.Close()
	for _, s := range P.series {
		for _, c := range s {
			if err := corr.AddTimeSeries(c); err != nil {
				return nil, err
			}
		}
	}
	corr.Normalize()
	c := corr.Result()
	stride := float64(o.Steps().Stride)
	T := newTable("lag", "msd")
	T.Comment("Mean square displacement for %d atoms, from %d frames", len(atoms), n)
	for lag := 0; lag < n/2; lag++ {
		//the correlation is normalized by the 3*natoms series, we need it per atom.
		v := msd[lag]/natoms - 2*3*c[lag]
		T.Columns[0] = append(T.Columns[0], float64(lag)*stride)
		T.Columns[1] = append(T.Columns[1], v)
	}
	o.log.Info().Int("frames", n).Int("atoms", len(atoms)).Msg("MSD computed")
	return T, nil
}
