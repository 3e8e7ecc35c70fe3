package main

import (
	"github.com/rmera/trjstat/analysis"
	"github.com/spf13/cobra"
)

func newRDFCmd(a *app) *cobra.Command {
	var f commonFlags
	var with string
	cmd := &cobra.Command{
		Use:   "rdf [flags] <trajectory>",
		Short: "Radial distribution function and coordination number",
		Long: `Compute the radial distribution function g(r) between the atoms in the
selection (-s) and those in the --with selection (the same by default),
and the running coordination number. All frames need a unit cell.`,
		Example: "  trjstat rdf -s 'name O' --max 8 -p 160 water.xyz",
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
			sb, second := sa, f.selection
			if with != "" {
				second = with
				if sb, err = a.selectAtoms(in, with, "with"); err != nil {
					return err
				}
			}
			T, err := analysis.RDF(in.traj, sa, sb, o)
			if err != nil {
				return err
			}
			T.Comment("selections: %q and %q", f.selection, second)
			if err := a.write(outputName(&f, in, cmd), T); err != nil {
				return err
			}
			return a.plotTable(f.plot, "Radial distribution function", &analysis.Table{Labels: T.Labels[:2], Columns: T.Columns[:2]})
		},
	}
	f.register(cmd, "all")
	f.registerHistogram(cmd)
	cmd.Flags().StringVar(&with, "with", "", "second selection (default: the same as --selection)")
	return cmd
}
