package main

import (
	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/analysis"
	"github.com/spf13/cobra"
)

func newHBondsCmd(a *app) *cobra.Command {
	var f commonFlags
	var donors, acceptors string
	var distance, angle float64
	cmd := &cobra.Command{
		Use:   "hbonds [flags] <trajectory>",
		Short: "Hydrogen bond network and lifetime",
		Long: `Find the hydrogen bonds in each frame, with a geometric criterion on the
donor-acceptor distance and on the angle between the donor-acceptor and
donor-hydrogen vectors. Donors are the atoms in --donors bonded to a
hydrogen, so the topology needs bonds (see --guess-bonds). The output also
contains the intermittent hydrogen bond lifetime correlation.`,
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
			o.HBond(distance, trjstat.Deg2Rad(angle))
			d, err := a.selectAtoms(in, donors, "donors")
			if err != nil {
				return err
			}
			acc, err := a.selectAtoms(in, acceptors, "acceptors")
			if err != nil {
				return err
			}
			res, err := analysis.HBonds(in.traj, in.top, d, acc, o)
			if err != nil {
				return err
			}
			if err := a.write(outputName(&f, in, cmd), res); err != nil {
				return err
			}
			if res.Lifetime == nil {
				return nil
			}
			return a.plotTable(f.plot, "Hydrogen bond lifetime", res.Lifetime)
		},
	}
	f.register(cmd, "all")
	fl := cmd.Flags()
	fl.StringVar(&donors, "donors", "element O N", "selection of the donor atoms")
	fl.StringVar(&acceptors, "acceptors", "element O N", "selection of the acceptor atoms")
	fl.Float64Var(&distance, "distance", 3.0, "maximum donor-acceptor distance, in angstroms")
	fl.Float64Var(&angle, "angle", 30, "maximum acceptor-donor-hydrogen angle, in degrees")
	return cmd
}
