package main

import (
	"fmt"

	"github.com/rmera/trjstat/analysis"
	"github.com/spf13/cobra"
)

func newMSDCmd(a *app) *cobra.Command {
	var f commonFlags
	var unwrap bool
	cmd := &cobra.Command{
		Use:   "msd [flags] <trajectory>",
		Short: "Mean square displacement",
		Long: `Compute the mean square displacement of the selected atoms, averaged
over the atoms and the time origins. With --unwrap, the positions are
made continuous across the periodic boundaries, assuming no atom moves
more than half a cell between two frames used.`,
		Args: cobra.ExactArgs(1),
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
			o.Unwrap(unwrap)
			atoms, err := a.selectAtoms(in, f.selection, "selection")
			if err != nil {
				return err
			}
			T, err := analysis.MSD(in.traj, atoms, o)
			if err != nil {
				return err
			}
			T.Comment("selection: %q", f.selection)
			if err := a.write(outputName(&f, in, cmd), T); err != nil {
				return err
			}
			return a.plotTable(f.plot, "Mean square displacement", T)
		},
	}
	f.register(cmd, "all")
	cmd.Flags().BoolVar(&unwrap, "unwrap", false, "unwrap the positions across the periodic boundaries")
	return cmd
}

func newRotCFCmd(a *app) *cobra.Command {
	var f commonFlags
	var with string
	cmd := &cobra.Command{
		Use:   "rotcf [flags] <trajectory>",
		Short: "Rotational correlation function of bond vectors",
		Long: `Compute the second-order rotational correlation function of the vectors
joining bonded atoms, one in the selection (-s) and the other in the
--with selection. The bonds are read from the topology or guessed with
--guess-bonds.`,
		Example: "  trjstat rotcf --guess-bonds -s 'element O' --with 'element H' water.xyz",
		Args:    cobra.ExactArgs(1),
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
			sa, err := a.selectAtoms(in, f.selection, "selection")
			if err != nil {
				return err
			}
			sb, err := a.selectAtoms(in, with, "with")
			if err != nil {
				return err
			}
			pairs := analysis.BondPairs(in.top, sa, sb)
			if len(pairs) == 0 {
				return fmt.Errorf("no bonds between the selections %q and %q", f.selection, with)
			}
			T, err := analysis.RotCF(in.traj, pairs, o)
			if err != nil {
				return err
			}
			T.Comment("selections: %q and %q", f.selection, with)
			if err := a.write(outputName(&f, in, cmd), T); err != nil {
				return err
			}
			return a.plotTable(f.plot, "Rotational correlation", T)
		},
	}
	f.register(cmd, "all")
	cmd.Flags().StringVar(&with, "with", "element H", "selection for the second atom of each bond")
	return cmd
}
