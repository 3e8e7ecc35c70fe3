package main

import (
	"fmt"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/analysis"
	"github.com/spf13/cobra"
)

//allIn returns true if all the atoms are in mask.
func allIn(mask []bool, atoms ...int) bool {
	for _, i := range atoms {
		if !mask[i] {
			return false
		}
	}
	return true
}

func selectedAngles(top *trjstat.Topology, mask []bool) [][3]int {
	var ret [][3]int
	for _, t := range trjstat.Angles(top) {
		if allIn(mask, t[:]...) {
			ret = append(ret, t)
		}
	}
	return ret
}

func selectedDihedrals(top *trjstat.Topology, mask []bool) [][4]int {
	var ret [][4]int
	for _, t := range trjstat.Dihedrals(top) {
		if allIn(mask, t[:]...) {
			ret = append(ret, t)
		}
	}
	return ret
}

func newAnglesCmd(a *app) *cobra.Command {
	var f commonFlags
	var dihedrals bool
	cmd := &cobra.Command{
		Use:   "angles [flags] <trajectory>",
		Short: "Distribution of bond angles or dihedral angles",
		Long: `Compute the distribution of the angles (or, with --dihedrals, of the
dihedral angles) formed by bonded atoms, all of them in the selection.
The bonds are read from the topology or guessed with --guess-bonds.
The distribution is normalized to a maximum of 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.open(&f, args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			if len(in.top.Bonds) == 0 {
				return fmt.Errorf("no bonds in the topology, use --guess-bonds")
			}
			o, err := a.options(cmd, &f)
			if err != nil {
				return err
			}
			mask, err := trjstat.SelectMask(in.top, f.selection)
			if err != nil {
				return fmt.Errorf("--selection: %w", err)
			}
			var T *analysis.Table
			title := "Angle distribution"
			if dihedrals {
				title = "Dihedral distribution"
				T, err = analysis.DihedralDistribution(in.traj, selectedDihedrals(in.top, mask), o)
			} else {
				T, err = analysis.AngleDistribution(in.traj, selectedAngles(in.top, mask), o)
			}
			if err != nil {
				return err
			}
			T.Comment("selection: %q", f.selection)
			if err := a.write(outputName(&f, in, cmd), T); err != nil {
				return err
			}
			return a.plotTable(f.plot, title, T)
		},
	}
	f.register(cmd, "all")
	cmd.Flags().IntVarP(&f.points, "points", "p", 200, "number of bins in the histogram")
	cmd.Flags().BoolVar(&dihedrals, "dihedrals", false, "compute the dihedral angles instead of the angles")
	return cmd
}
