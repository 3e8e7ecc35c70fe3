package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/analysis"
	"github.com/rmera/trjstat/chemplot"
	"github.com/rmera/trjstat/traj"
	"github.com/spf13/cobra"
)

//commonFlags are the flags shared by all the analyses.
type commonFlags struct {
	output     string
	format     string
	topology   string
	cell       string
	steps      string
	selection  string
	guessBonds bool
	plot       string
	cpus       int

	//only for the commands that build histograms
	points int
	max    float64
}

func (f *commonFlags) register(cmd *cobra.Command, selection string) {
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "write the result to this file (default: <trajectory>."+cmd.Name()+".dat)")
	fl.StringVar(&f.format, "format", "", "force the trajectory format (xyz, stf or dcd)")
	fl.StringVarP(&f.topology, "topology", "t", "", "read the atom names from the first frame of this file instead of the trajectory")
	fl.StringVarP(&f.cell, "cell", "c", "", "use this unit cell for all frames: L, a:b:c or a:b:c:alpha:beta:gamma")
	fl.StringVar(&f.steps, "steps", "", "steps to use, as start:end[:stride], with end excluded")
	fl.StringVarP(&f.selection, "selection", "s", selection, "selection of atoms to use")
	fl.BoolVar(&f.guessBonds, "guess-bonds", false, "guess the bonds from the distances in the first frame")
	fl.StringVar(&f.plot, "plot", "", "also plot the result in this PNG file")
	fl.IntVar(&f.cpus, "cpus", 0, "number of concurrent workers (default from the configuration)")
}

func (f *commonFlags) registerHistogram(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.points, "points", "p", 200, "number of bins in the histogram")
	cmd.Flags().Float64Var(&f.max, "max", 10, "upper limit of the histogram")
}

//input is an opened trajectory with its topology.
type input struct {
	name string
	traj traj.Reader
	top  *trjstat.Topology
}

func (in *input) Close() {
	in.traj.Close()
}

//firstFrame reads the topology and the first frame of a trajectory file.
func firstFrame(name, format string) (*trjstat.Topology, *trjstat.Frame, error) {
	r, err := traj.Open(name, format)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	frame := trjstat.NewFrame(r.Len())
	if err := r.Next(frame); err != nil {
		return nil, nil, fmt.Errorf("reading the first frame of %s: %w", name, err)
	}
	return r.Topology(), frame, nil
}

//open opens the trajectory and obtains its topology, from the trajectory or
//from the file given with --topology, guessing the bonds if requested.
func (a *app) open(f *commonFlags, name string) (*input, error) {
	r, err := traj.Open(name, f.format)
	if err != nil {
		return nil, err
	}
	in := &input{name: name, traj: r, top: r.Topology()}
	var frame *trjstat.Frame
	switch {
	case f.topology != "":
		in.top, frame, err = firstFrame(f.topology, "")
	case f.guessBonds:
		_, frame, err = firstFrame(name, f.format)
	}
	if err != nil {
		r.Close()
		return nil, err
	}
	if in.top == nil {
		a.log.Warn().Str("trajectory", name).Msg("no atom names available, only index selections will work")
		names := make([]string, r.Len())
		for i := range names {
			names[i] = "X"
		}
		in.top = trjstat.NewTopology(names)
	}
	if in.top.Len() != r.Len() {
		r.Close()
		return nil, fmt.Errorf("the topology has %d atoms, but the trajectory has %d", in.top.Len(), r.Len())
	}
	if f.guessBonds {
		if f.cell != "" {
			if frame.Cell, err = trjstat.ParseCell(f.cell); err != nil {
				r.Close()
				return nil, err
			}
		}
		if err := trjstat.GuessBonds(frame, in.top); err != nil {
			r.Close()
			return nil, err
		}
		a.log.Info().Int("bonds", len(in.top.Bonds)).Msg("bonds guessed")
	}
	a.log.Info().Str("trajectory", name).Int("atoms", r.Len()).Msg("trajectory opened")
	return in, nil
}

//options builds the analysis options from the configuration and the flags.
func (a *app) options(cmd *cobra.Command, f *commonFlags) (*analysis.Options, error) {
	o := analysis.DefaultOptions()
	o.Logger(a.log)
	o.Cpus(a.cfg.Analysis.Workers())
	if f.cpus > 0 {
		o.Cpus(f.cpus)
	}
	o.Points(a.cfg.Histogram.Points)
	o.Max(a.cfg.Histogram.Max)
	o.Temperature(a.cfg.Analysis.Temperature)
	if cmd.Flags().Changed("points") {
		if f.points <= 0 {
			return nil, fmt.Errorf("--points must be positive, got %d", f.points)
		}
		o.Points(f.points)
	}
	if cmd.Flags().Changed("max") {
		if f.max <= 0 {
			return nil, fmt.Errorf("--max must be positive, got %g", f.max)
		}
		o.Max(f.max)
	}
	if f.steps != "" {
		s, err := trjstat.ParseSteps(f.steps)
		if err != nil {
			return nil, err
		}
		o.Steps(s)
	}
	if f.cell != "" {
		c, err := trjstat.ParseCell(f.cell)
		if err != nil {
			return nil, err
		}
		o.Cell(c)
	}
	return o, nil
}

func (a *app) selectAtoms(in *input, expr, flag string) ([]int, error) {
	atoms, err := trjstat.Select(in.top, expr)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	if len(atoms) == 0 {
		return nil, fmt.Errorf("--%s: the selection %q matches no atoms", flag, expr)
	}
	a.log.Debug().Str("selection", expr).Int("atoms", len(atoms)).Msg("atoms selected")
	return atoms, nil
}

//result is anything that can be written as the output of an analysis.
type result interface {
	Write(w io.Writer) error
}

func outputName(f *commonFlags, in *input, cmd *cobra.Command) string {
	if f.output != "" {
		return f.output
	}
	return in.name + "." + cmd.Name() + ".dat"
}

func (a *app) write(name string, res result) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := res.Write(out); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	a.log.Info().Str("file", name).Msg("output written")
	return nil
}

//plotTable plots the second column of T against the first one, and any
//other columns as separate curves.
func (a *app) plotTable(name, title string, T *analysis.Table) error {
	if name == "" || len(T.Columns) < 2 {
		return nil
	}
	series := make([]chemplot.Series, 0, len(T.Columns)-1)
	for i := 1; i < len(T.Columns); i++ {
		series = append(series, chemplot.Series{Name: T.Labels[i], X: T.Columns[0], Y: T.Columns[i]})
	}
	if len(series) == 1 {
		series[0].Name = ""
	}
	if err := chemplot.Curves(series, title, T.Labels[0], strings.Join(T.Labels[1:], ", "), name); err != nil {
		return err
	}
	a.log.Info().Str("file", name).Msg("plot written")
	return nil
}
