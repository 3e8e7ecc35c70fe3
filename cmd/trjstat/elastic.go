package main

import (
	"github.com/rmera/trjstat/analysis"
	"github.com/spf13/cobra"
)

func newElasticCmd(a *app) *cobra.Command {
	var f commonFlags
	var temperature float64
	cmd := &cobra.Command{
		Use:   "elastic [flags] <trajectory>",
		Short: "Elastic constants from the unit cell fluctuations in NPT",
		Long: `Compute the elastic tensor of a system from the unit cell fluctuations
during an NPT simulation. The results depend strongly on the statistics:
the simulation must be long and equilibrated, and the barostat must
produce the right isobaric-isothermal fluctuations.`,
		Example: "  trjstat elastic -T 328 -o elastic.dat npt.stf",
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
			o.Temperature(temperature)
			res, err := analysis.Elastic(in.traj, o)
			if err != nil {
				return err
			}
			return a.write(outputName(&f, in, cmd), res)
		},
	}
	f.register(cmd, "all")
	cmd.Flags().Float64VarP(&temperature, "temperature", "T", 0, "temperature of the simulation, in kelvin")
	_ = cmd.MarkFlagRequired("temperature")
	return cmd
}
