package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/traj"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	var format string
	var guessBonds bool
	var step int
	cmd := &cobra.Command{
		Use:     "info [flags] <trajectory>",
		Short:   "Show the number of steps, the atoms and the cell of a trajectory",
		Example: "  trjstat info water.xyz\n  trjstat info --guess-bonds --step 4 water.xyz",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if step < 0 {
				return fmt.Errorf("--step must not be negative, got %d", step)
			}
			if format == "" {
				var err error
				if format, err = traj.Format(args[0]); err != nil {
					return err
				}
			}
			r, err := traj.Open(args[0], format)
			if err != nil {
				return err
			}
			defer r.Close()
			frame := trjstat.NewFrame(r.Len())
			steps := 0
			for ; ; steps++ {
				var err error
				if steps == step {
					err = r.Next(frame)
				} else {
					err = r.Next(nil)
				}
				if trjstat.IsLastFrame(err) {
					break
				}
				if err != nil {
					return fmt.Errorf("reading the frame %d: %w", steps, err)
				}
			}
			a.log.Debug().Str("trajectory", args[0]).Int("steps", steps).Msg("trajectory read")
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "information for %s\n\nglobal:\n", args[0])
			fmt.Fprintf(out, "    format = %s\n", format)
			fmt.Fprintf(out, "    steps = %d\n", steps)
			if step >= steps {
				return nil
			}
			top := r.Topology()
			if top == nil {
				names := make([]string, r.Len())
				for i := range names {
					names[i] = "X"
				}
				top = trjstat.NewTopology(names)
			}
			if guessBonds {
				if err := trjstat.GuessBonds(frame, top); err != nil {
					return err
				}
			}
			return writeFrameInfo(out, step, frame, top)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "force the trajectory format (xyz, stf or dcd)")
	cmd.Flags().BoolVar(&guessBonds, "guess-bonds", false, "guess the bonds in the frame from the distances")
	cmd.Flags().IntVar(&step, "step", 0, "give information about the frame at this step")
	return cmd
}

func writeFrameInfo(out io.Writer, step int, frame *trjstat.Frame, top *trjstat.Topology) error {
	fmt.Fprintf(out, "\nframe %d:\n", step)
	fmt.Fprintf(out, "    atoms = %d\n", frame.Len())
	cell := frame.Cell
	if cell.Shape() == trjstat.Infinite {
		fmt.Fprintf(out, "    cell = infinite\n")
	} else {
		a, b, c := cell.Lengths()
		fmt.Fprintf(out, "    cell = %s %g %g %g\n", cell.Shape(), a, b, c)
		fmt.Fprintf(out, "    volume = %g\n", cell.Volume())
	}
	fmt.Fprintf(out, "    bonds = %d\n", len(top.Bonds))
	fmt.Fprintf(out, "    angles = %d\n", len(trjstat.Angles(top)))
	_, err := fmt.Fprintf(out, "    dihedrals = %d\n", len(trjstat.Dihedrals(top)))
	return err
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the trajectory formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, "Available formats [name (extensions) description]:\n\n")
			for _, f := range traj.Formats() {
				d := f.Description
				if !f.Write {
					d += " (read only)"
				}
				head := fmt.Sprintf("%s (%s)", f.Name, f.Extensions)
				pad := 30 - len(head)
				if pad < 1 {
					pad = 1
				}
				if _, err := fmt.Fprintf(out, "%s%s%s\n", head, strings.Repeat(" ", pad), d); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
