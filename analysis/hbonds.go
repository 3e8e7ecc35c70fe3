package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/chemstat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

//HBond is a hydrogen bond between a donor, bonded to a hydrogen, and an acceptor.
//Distance is the donor-acceptor distance, in A, and Angle the acceptor-donor-hydrogen
//angle, in radians.
type HBond struct {
	Donor, Hydrogen, Acceptor int
	Distance, Angle           float64
}

type hbondKey struct {
	donor, hydrogen, acceptor int
}

//HBondFrame contains the hydrogen bonds found in one trajectory step.
type HBondFrame struct {
	Step  int
	Bonds []HBond
}

//HBondResult is the result of the hydrogen bond analysis.
type HBondResult struct {
	Frames   []HBondFrame
	Lifetime *Table //nil if no hydrogen bond was found.
	top      *trjstat.Topology
	distance float64
	angle    float64
}

//Write writes the criteria, the hydrogen bonds in each frame and the lifetime correlation.
func (H *HBondResult) Write(w io.Writer) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "# Hydrogen bond network\n")
	fmt.Fprintf(b, "# Criteria:\n")
	fmt.Fprintf(b, "# donor-acceptor distance < %g angstroms\n", H.distance)
	fmt.Fprintf(b, "# acceptor-donor-hydrogen angle < %g degrees\n", trjstat.Rad2Deg(H.angle))
	for _, f := range H.Frames {
		fmt.Fprintf(b, "# Frame: %d\n", f.Step)
		for _, hb := range f.Bonds {
			fmt.Fprintf(b, "%s%d   %s%d   %s%d  : %.4f    %.2f\n", H.top.Symbol(hb.Donor), hb.Donor,
				H.top.Symbol(hb.Acceptor), hb.Acceptor, H.top.Symbol(hb.Hydrogen), hb.Hydrogen,
				hb.Distance, trjstat.Rad2Deg(hb.Angle))
		}
	}
	if err := b.Flush(); err != nil {
		return err
	}
	if H.Lifetime == nil {
		return nil
	}
	return H.Lifetime.Write(w)
}

//donorPairs returns the donor-hydrogen bonds in top, with the donor in donors.
func donorPairs(top *trjstat.Topology, donors []int) [][2]int {
	var hydrogens []int
	for i := 0; i < top.Len(); i++ {
		if top.Symbol(i) == "H" {
			hydrogens = append(hydrogens, i)
		}
	}
	var heavy []int
	for _, d := range donors {
		if top.Symbol(d) != "H" {
			heavy = append(heavy, d)
		}
	}
	return BondPairs(top, heavy, hydrogens)
}

//HBonds finds the hydrogen bonds in each frame of the trajectory. Donors are the atoms
//in donors bonded (according to top) to a hydrogen, acceptors are the non-hydrogen atoms
//in acceptors. A hydrogen bond exists when the donor-acceptor distance and the
//acceptor-donor-hydrogen angle are below the limits given by Options.HBond().
//The result also contains the intermittent lifetime correlation C(t) = <h(0)h(t)>/<h>,
//where h(t) is 1 if a given hydrogen bond exists at time t and 0 otherwise, and the
//averages run over all the hydrogen bonds found and time origins.
func HBonds(traj trjstat.Traj, top *trjstat.Topology, donors, acceptors []int, options ...*Options) (*HBondResult, error) {
	o := getOptions(options)
	pairs := donorPairs(top, donors)
	if len(pairs) == 0 {
		return nil, errors.New("analysis.HBonds: no donor-hydrogen bonds found, the topology needs bonds")
	}
	var acc []int
	for _, a := range acceptors {
		if top.Symbol(a) != "H" {
			acc = append(acc, a)
		}
	}
	if len(acc) == 0 {
		return nil, errors.New("analysis.HBonds: no acceptors selected")
	}
	maxDist, maxAngle := o.HBond()
	ret := &HBondResult{top: top, distance: maxDist, angle: maxAngle}
	existence := make(map[hbondKey][]float32)
	frames, err := readFrames(traj, o, func(step int, frame *trjstat.Frame) error {
		hf := HBondFrame{Step: step}
		c := frame.Coords
		for _, p := range pairs {
			d, h := p[0], p[1]
			rdh := frame.Cell.Wrap(r3.Sub(c[h], c[d]))
			for _, a := range acc {
				if a == d {
					continue
				}
				rda := frame.Cell.Wrap(r3.Sub(c[a], c[d]))
				dist := r3.Norm(rda)
				if dist >= maxDist {
					continue
				}
				theta := trjstat.Angle(rda, rdh)
				if theta >= maxAngle {
					continue
				}
				hf.Bonds = append(hf.Bonds, HBond{Donor: d, Hydrogen: h, Acceptor: a, Distance: dist, Angle: theta})
			}
		}
		//the existence series of the bonds seen in previous frames, and of the new ones.
		present := make(map[hbondKey]bool, len(hf.Bonds))
		for _, hb := range hf.Bonds {
			present[hbondKey{hb.Donor, hb.Hydrogen, hb.Acceptor}] = true
		}
		for k, s := range existence {
			v := float32(0)
			if present[k] {
				v = 1
			}
			existence[k] = append(s, v)
		}
		for k := range present {
			if _, ok := existence[k]; !ok {
				existence[k] = append(make([]float32, len(ret.Frames)), 1)
			}
		}
		ret.Frames = append(ret.Frames, hf)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(existence) == 0 {
		o.log.Warn().Msg("no hydrogen bonds found")
		return ret, nil
	}
	ret.Lifetime, err = lifetime(existence, frames, float64(o.Steps().Stride))
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func lifetime(existence map[hbondKey][]float32, n int, stride float64) (*Table, error) {
	corr, err := chemstat.NewAutocorrelation(n)
	if err != nil {
		return nil, err
	}
	defer corr.Close()
	keys := make([]hbondKey, 0, len(existence))
	for k := range existence {
		keys = append(keys, k)
	}
	//a fixed order, so the sums are reproducible.
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.donor != b.donor {
			return a.donor < b.donor
		}
		if a.hydrogen != b.hydrogen {
			return a.hydrogen < b.hydrogen
		}
		return a.acceptor < b.acceptor
	})
	all := make([]float64, 0, n*len(keys))
	for _, k := range keys {
		s := existence[k]
		if err := corr.AddTimeSeries(s); err != nil {
			return nil, err
		}
		for _, v := range s {
			all = append(all, float64(v))
		}
	}
	corr.Normalize()
	mean := stat.Mean(all, nil)
	c := corr.Result()
	T := newTable("lag", "C(t)")
	T.Comment("Hydrogen bond lifetime correlation for %d hydrogen bonds, from %d frames", len(keys), n)
	for lag := 0; lag < n/2 || lag == 0; lag++ {
		T.Columns[0] = append(T.Columns[0], float64(lag)*stride)
		T.Columns[1] = append(T.Columns[1], c[lag]/mean)
	}
	return T, nil
}
