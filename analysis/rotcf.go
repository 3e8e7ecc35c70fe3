package analysis

import (
	"errors"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/chemstat"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

//RotCF computes the rotational correlation function
//C2(t) = <P2(u(0).u(t))>, with u the unit vector from the second to the first
//atom of each pair given, averaged over the pairs and time origins, for lags up to
//half the number of frames used.
//It is computed from the autocorrelations of the 6 products of components
//of u (x^2, y^2, z^2, xy, xz, yz), which are computed concurrently:
//C2 = 3/2(<x^2> + <y^2> + <z^2> + 2<xy> + 2<xz> + 2<yz>) - 1/2
func RotCF(traj trjstat.Traj, pairs [][2]int, options ...*Options) (*Table, error) {
	o := getOptions(options)
	if len(pairs) == 0 {
		return nil, errors.New("analysis.RotCF: no pairs of atoms given")
	}
	vectors := make([][]r3.Vec, len(pairs))
	_, err := readFrames(traj, o, func(_ int, frame *trjstat.Frame) error {
		for k, p := range pairs {
			u := frame.Cell.Wrap(r3.Sub(frame.Coords[p[0]], frame.Coords[p[1]]))
			if r3.Norm(u) == 0 {
				return errors.New("analysis.RotCF: two atoms of a pair are in the same position")
			}
			vectors[k] = append(vectors[k], r3.Unit(u))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	n := len(vectors[0])
	components := [6][2]int{{0, 0}, {1, 1}, {2, 2}, {0, 1}, {0, 2}, {1, 2}}
	results := make([][]float64, len(components))
	var g errgroup.Group
	for c, comp := range components {
		c, comp := c, comp
		g.Go(func() error {
			corr, err := chemstat.NewAutocorrelation(n)
			if err != nil {
				return err
			}
			defer corr.Close()
			series := make([]float32, n)
			for _, v := range vectors {
				for t, u := range v {
					series[t] = float32(component(u, comp[0]) * component(u, comp[1]))
				}
				if err := corr.AddTimeSeries(series); err != nil {
					return err
				}
			}
			corr.Normalize()
			results[c] = append([]float64(nil), corr.Result()...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stride := float64(o.Steps().Stride)
	T := newTable("lag", "C2")
	T.Comment("Rotational correlation function for %d pairs, from %d frames", len(pairs), n)
	for lag := 0; lag < n/2; lag++ {
		v := -0.5
		for c, comp := range components {
			factor := 3.0
			if comp[0] == comp[1] {
				factor = 1.5
			}
			v += factor * results[c][lag]
		}
		T.Columns[0] = append(T.Columns[0], float64(lag)*stride)
		T.Columns[1] = append(T.Columns[1], v)
	}
	return T, nil
}

func component(v r3.Vec, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

//BondPairs returns the bonds in top between an atom in a and one in b, with
//the atom in a first.
func BondPairs(top *trjstat.Topology, a, b []int) [][2]int {
	ina := make(map[int]bool, len(a))
	for _, i := range a {
		ina[i] = true
	}
	inb := make(map[int]bool, len(b))
	for _, i := range b {
		inb[i] = true
	}
	var ret [][2]int
	for _, bond := range top.Bonds {
		i, j := bond[0], bond[1]
		switch {
		case ina[i] && inb[j]:
			ret = append(ret, [2]int{i, j})
		case ina[j] && inb[i]:
			ret = append(ret, [2]int{j, i})
		}
	}
	return ret
}
