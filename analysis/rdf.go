package analysis

import (
	"context"
	"errors"
	"math"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/histo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

//rdfAccumulator averages the g(r) of the frames it is given.
type rdfAccumulator struct {
	a, b   []int
	npairs int
	max    float64
	av     *histo.Averager
	rho    float64 //sum over frames of the density of b atoms.
}

func newRDFAccumulator(a, b []int, npairs int, o *Options) (*rdfAccumulator, error) {
	//distances are checked against max before insertion, so no warnings are needed.
	h, err := histo.New1D(o.Points(), 0, o.Max(), nil)
	if err != nil {
		return nil, err
	}
	return &rdfAccumulator{a: a, b: b, npairs: npairs, max: o.Max(), av: histo.NewAverager(h)}, nil
}

func (R *rdfAccumulator) add(frame *trjstat.Frame) error {
	if frame.Cell.Shape() == trjstat.Infinite {
		return errors.New("analysis.RDF: the RDF needs a finite unit cell")
	}
	V := frame.Cell.Volume()
	h := R.av.Current()
	//Each pair is weighted so that an uniform distribution gives g(r) = 1
	w := V / float64(R.npairs)
	for _, i := range R.a {
		for _, j := range R.b {
			if i == j {
				continue
			}
			rij := r3.Norm(frame.Cell.Wrap(r3.Sub(frame.Coords[j], frame.Coords[i])))
			if rij < R.max {
				h.InsertWeighted(w, rij)
			}
		}
	}
	dr := h.Dim(0).Width
	h.Normalize(func(i int, v float64) float64 {
		r := h.Coord(i)
		return v / (4 * math.Pi * r * r * dr)
	})
	R.av.Step()
	R.rho += float64(len(R.b)) / V
	return nil
}

//RDF computes the radial distribution function g(r) between the atoms with
//indexes in a and those in b, averaged over the trajectory. Pairs of an
//atom with itself are excluded. All frames need a finite unit cell.
//The frames are processed by Cpus() concurrent workers.
//The returned table has the columns r, g(r), and the coordination number n(r),
//the average number of b atoms within r of an a atom.
func RDF(traj trjstat.Traj, a, b []int, options ...*Options) (*Table, error) {
	o := getOptions(options)
	npairs := len(a) * len(b)
	inb := make(map[int]bool, len(b))
	for _, j := range b {
		inb[j] = true
	}
	for _, i := range a {
		if inb[i] {
			npairs--
		}
	}
	if npairs <= 0 {
		return nil, errors.New("analysis.RDF: no pairs of atoms in the selections")
	}
	cpus := o.Cpus()
	workers := make([]*rdfAccumulator, cpus)
	for k := range workers {
		var err error
		workers[k], err = newRDFAccumulator(a, b, npairs, o)
		if err != nil {
			return nil, err
		}
	}
	var err error
	if cpus == 1 {
		_, err = readFrames(traj, o, func(_ int, frame *trjstat.Frame) error {
			return workers[0].add(frame)
		})
	} else {
		err = concurrentFrames(traj, o, func(k int, frame *trjstat.Frame) error {
			return workers[k].add(frame)
		})
	}
	if err != nil {
		return nil, err
	}
	total := workers[0]
	for _, w := range workers[1:] {
		total.av.Merge(w.av)
		total.rho += w.rho
	}
	total.av.Average()
	h := total.av.Current()
	rho := total.rho / float64(total.av.Steps())
	dr := h.Dim(0).Width

	T := newTable("r", "g(r)", "n(r)")
	T.Comment("Radial distribution function, averaged over %d frames", total.av.Steps())
	T.Comment("%d atoms in the first selection, %d in the second", len(a), len(b))
	var cn float64
	for i, g := range h.View() {
		r := h.Coord(i)
		cn += g * rho * 4 * math.Pi * r * r * dr
		T.Columns[0] = append(T.Columns[0], r)
		T.Columns[1] = append(T.Columns[1], g)
		T.Columns[2] = append(T.Columns[2], cn)
	}
	o.log.Info().Int("frames", total.av.Steps()).Msg("RDF computed")
	return T, nil
}

//concurrentFrames reads the frames of traj, as readFrames does, and gives
//them to Cpus() workers. fn is called with the number of the worker, and
//one worker never runs concurrently with itself. The frames are copies that
//are recycled after fn returns.
func concurrentFrames(traj trjstat.Traj, o *Options, fn func(worker int, frame *trjstat.Frame) error) error {
	cpus := o.Cpus()
	g, ctx := errgroup.WithContext(context.Background())
	frames := make(chan *trjstat.Frame, cpus)
	pool := make(chan *trjstat.Frame, 2*cpus)
	for k := 0; k < cpus; k++ {
		k := k
		g.Go(func() error {
			for f := range frames {
				if err := fn(k, f); err != nil {
					return err
				}
				select {
				case pool <- f:
				default:
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(frames)
		_, err := readFrames(traj, o, func(_ int, frame *trjstat.Frame) error {
			var c *trjstat.Frame
			select {
			case c = <-pool:
			default:
			}
			c = copyFrame(c, frame)
			select {
			case frames <- c:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		return err
	})
	return g.Wait()
}
