package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/analysis"
	"github.com/rmera/trjstat/chemplot"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

func parseProfileAxis(s string, radial bool) (analysis.ProfileAxis, error) {
	ax, err := trjstat.ParseAxis(s)
	if err != nil {
		return analysis.ProfileAxis{}, err
	}
	return analysis.ProfileAxis{Axis: ax, Radial: radial}, nil
}

func parseOrigin(s string) (r3.Vec, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return r3.Vec{}, fmt.Errorf("--origin: expected x:y:z, got %q", s)
	}
	var v [3]float64
	for i, f := range fields {
		var err error
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64); err != nil {
			return r3.Vec{}, fmt.Errorf("--origin: %w", err)
		}
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

func newDensityCmd(a *app) *cobra.Command {
	var f commonFlags
	var axis, axis2, origin string
	var radial, radial2 bool
	min := math.NaN()
	cmd := &cobra.Command{
		Use:   "density [flags] <trajectory>",
		Short: "Density profile along one axis, or density map along two",
		Long: `Compute the average number of selected atoms in each bin along an axis
(X, Y, Z or a:b:c). With --radial, the distance to the axis is used instead
of the position along it, and the profile is divided by the distance.
If --axis2 is given, a 2D map is computed instead. Positions are measured
from --origin, and wrapped into the unit cell around it.`,
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
			if cmd.Flags().Changed("min") {
				o.Min(min)
			}
			if origin != "" {
				v, err := parseOrigin(origin)
				if err != nil {
					return err
				}
				o.Origin(v)
			}
			atoms, err := a.selectAtoms(in, f.selection, "selection")
			if err != nil {
				return err
			}
			ax, err := parseProfileAxis(axis, radial)
			if err != nil {
				return err
			}
			if axis2 == "" {
				T, err := analysis.DensityProfile(in.traj, atoms, ax, o)
				if err != nil {
					return err
				}
				T.Comment("selection: %q", f.selection)
				if err := a.write(outputName(&f, in, cmd), T); err != nil {
					return err
				}
				return a.plotTable(f.plot, "Density profile", T)
			}
			ax2, err := parseProfileAxis(axis2, radial2)
			if err != nil {
				return err
			}
			G, err := analysis.DensityMap(in.traj, atoms, ax, ax2, o)
			if err != nil {
				return err
			}
			if err := a.write(outputName(&f, in, cmd), G); err != nil {
				return err
			}
			if f.plot == "" {
				return nil
			}
			return chemplot.HeatMap(G.Values, G.X, G.Y, "Density map", ax.String(), ax2.String(), f.plot)
		},
	}
	f.register(cmd, "all")
	f.registerHistogram(cmd)
	fl := cmd.Flags()
	fl.Float64Var(&min, "min", min, "lower limit of the histogram (default: -max for linear axes, 0 for radial ones)")
	fl.StringVar(&axis, "axis", "Z", "axis of the profile: X, Y, Z or a:b:c")
	fl.BoolVar(&radial, "radial", false, "use the distance to the axis")
	fl.StringVar(&axis2, "axis2", "", "second axis, for a 2D density map")
	fl.BoolVar(&radial2, "radial2", false, "use the distance to the second axis")
	fl.StringVar(&origin, "origin", "", "origin of the axes, as x:y:z (default: 0:0:0)")
	return cmd
}
