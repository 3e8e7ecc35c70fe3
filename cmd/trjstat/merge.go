package main

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/traj"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newMergeCmd(a *app) *cobra.Command {
	var output, inFormats, outFormat, cell string
	cmd := &cobra.Command{
		Use:   "merge [flags] -o <output> <input>...",
		Short: "Merge several trajectories into one",
		Long: `Combine the atoms of several trajectories, frame by frame, in one file.
If the trajectories don't have the same number of frames, the last frame of
the shorter ones is repeated until the end of the longest one. All the
finite unit cells must match, unless --cell gives the cell to use.`,
		Example: "  trjstat merge -o all.stf solute.xyz solvent.dcd\n  trjstat merge --input-format xyz,dcd -c 25:25:18 a.dat b.bin -o all.xyz",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := make([]string, len(args))
			if inFormats != "" {
				f := strings.Split(inFormats, ",")
				if len(f) != len(args) {
					return fmt.Errorf("--input-format: %d formats given for %d input files", len(f), len(args))
				}
				for i := range f {
					formats[i] = strings.TrimSpace(f[i])
				}
			}
			var custom *trjstat.Cell
			if cell != "" {
				c, err := trjstat.ParseCell(cell)
				if err != nil {
					return err
				}
				custom = &c
			}
			inputs := make([]traj.Reader, 0, len(args))
			defer func() {
				for _, r := range inputs {
					r.Close()
				}
			}()
			for i, name := range args {
				r, err := traj.Open(name, formats[i])
				if err != nil {
					return err
				}
				inputs = append(inputs, r)
			}
			top := mergeTopologies(inputs, args, a.log)
			w, err := traj.Create(output, outFormat, top)
			if err != nil {
				return err
			}
			written, err := mergeFrames(w, inputs, custom)
			if err != nil {
				w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			a.log.Info().Int("frames", written).Int("atoms", top.Len()).Str("file", output).Msg("trajectories merged")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write the merged trajectory to")
	cmd.Flags().StringVar(&inFormats, "input-format", "", "comma separated list with the format of each input file")
	cmd.Flags().StringVar(&outFormat, "output-format", "", "force the output format (xyz, stf or dcd)")
	cmd.Flags().StringVarP(&cell, "cell", "c", "", "unit cell for the merged trajectory: L, a:b:c or a:b:c:alpha:beta:gamma")
	cmd.MarkFlagRequired("output")
	return cmd
}

//mergeTopologies puts the atoms of all the inputs one after the other, with
//their bonds. Inputs without atom names get "X" names.
func mergeTopologies(inputs []traj.Reader, names []string, l zerolog.Logger) *trjstat.Topology {
	var all []string
	var bonds [][2]int
	for i, r := range inputs {
		start := len(all)
		top := r.Topology()
		if top == nil {
			l.Warn().Str("trajectory", names[i]).Msg("no atom names available, using X")
			for j := 0; j < r.Len(); j++ {
				all = append(all, "X")
			}
			continue
		}
		all = append(all, top.Names...)
		for _, b := range top.Bonds {
			bonds = append(bonds, [2]int{b[0] + start, b[1] + start})
		}
	}
	ret := trjstat.NewTopology(all)
	ret.Bonds = bonds
	return ret
}

//mergeFrames writes to w frames with the atoms of every input, until all
//the inputs end. The last frame of the inputs that end first is repeated.
//If cell is nil, the finite cells of the inputs must match, and that
//cell is used. It returns the number of frames written.
func mergeFrames(w traj.Writer, inputs []traj.Reader, cell *trjstat.Cell) (int, error) {
	frames := make([]*trjstat.Frame, len(inputs))
	done := make([]bool, len(inputs))
	natoms := 0
	for i, r := range inputs {
		frames[i] = trjstat.NewFrame(r.Len())
		natoms += r.Len()
	}
	out := trjstat.NewFrame(natoms)
	written := 0
	for step := 0; ; step++ {
		read := false
		for i, r := range inputs {
			if done[i] {
				continue
			}
			err := r.Next(frames[i])
			if trjstat.IsLastFrame(err) {
				if step == 0 {
					return 0, fmt.Errorf("the input %d has no frames", i+1)
				}
				done[i] = true
				continue
			}
			if err != nil {
				return written, fmt.Errorf("reading the frame %d of the input %d: %w", step, i+1, err)
			}
			read = true
		}
		if !read {
			return written, nil
		}
		start := 0
		for _, f := range frames {
			copy(out.Coords[start:], f.Coords)
			start += f.Len()
		}
		if cell != nil {
			out.Cell = *cell
		} else {
			c, err := commonCell(frames)
			if err != nil {
				return written, fmt.Errorf("frame %d: %w", step, err)
			}
			out.Cell = c
		}
		if err := w.WNext(out); err != nil {
			return written, err
		}
		written++
	}
}

//commonCell returns the cell shared by all the frames with a finite cell,
//or an infinite cell if there is none.
func commonCell(frames []*trjstat.Frame) (trjstat.Cell, error) {
	var ref trjstat.Cell
	found := false
	for _, f := range frames {
		if f.Cell.Shape() == trjstat.Infinite {
			continue
		}
		if !found {
			ref, found = f.Cell, true
			continue
		}
		if !sameCell(ref, f.Cell) {
			return trjstat.Cell{}, errors.New("the unit cells of the trajectories don't match, use --cell to choose one")
		}
	}
	return ref, nil
}

func sameCell(a, b trjstat.Cell) bool {
	if a.Shape() != b.Shape() {
		return false
	}
	ma, mb := a.Matrix(), b.Matrix()
	for i := range ma {
		for j := range ma[i] {
			if math.Abs(ma[i][j]-mb[i][j]) > 1e-5*math.Max(1, math.Abs(ma[i][j])) {
				return false
			}
		}
	}
	return true
}
