package main

import (
	"fmt"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/traj"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var f commonFlags
	var outFormat string
	cmd := &cobra.Command{
		Use:   "convert [flags] <input> <output>",
		Short: "Convert a trajectory between the XYZ, STF and DCD formats",
		Long: `Copy the frames of a trajectory into a new file. The formats are
guessed from the extensions unless given. STF files ending in z, r or l
are compressed with gzip, flate or lzw, other STF files with zstd.
Compressed DCD files (.dcd.gz, .dcd.lzw, .dcd.zst) can be read but not
written. DCD files carry no atom names, use -t to give them.`,
		Example: "  trjstat convert --steps 0::10 md.xyz md.stf",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.open(&f, args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			o, err := a.options(cmd, &f)
			if err != nil {
				return err
			}
			w, err := traj.Create(args[1], outFormat, in.top)
			if err != nil {
				return err
			}
			steps := o.Steps()
			cell, customCell := o.Cell()
			frame := trjstat.NewFrame(in.traj.Len())
			written := 0
			for i := 0; !steps.Past(i); i++ {
				use := steps.Contains(i)
				var err error
				if use {
					err = in.traj.Next(frame)
				} else {
					err = in.traj.Next(nil)
				}
				if trjstat.IsLastFrame(err) {
					break
				}
				if err != nil {
					w.Close()
					return fmt.Errorf("reading the frame %d: %w", i, err)
				}
				if !use {
					continue
				}
				if customCell {
					frame.Cell = cell
				}
				if err := w.WNext(frame); err != nil {
					w.Close()
					return err
				}
				written++
			}
			if err := w.Close(); err != nil {
				return err
			}
			a.log.Info().Int("frames", written).Str("file", args[1]).Msg("trajectory converted")
			return nil
		},
	}
	cmd.Flags().StringVar(&f.format, "format", "", "force the input format (xyz, stf or dcd)")
	cmd.Flags().StringVar(&outFormat, "output-format", "", "force the output format (xyz, stf or dcd)")
	cmd.Flags().StringVarP(&f.topology, "topology", "t", "", "read the atom names from the first frame of this file")
	cmd.Flags().StringVarP(&f.cell, "cell", "c", "", "write this unit cell in all frames")
	cmd.Flags().StringVar(&f.steps, "steps", "", "steps to copy, as start:end[:stride]")
	return cmd
}
