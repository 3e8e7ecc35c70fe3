/*
 * plot.go, part of trjstat.
 *
 * Copyright 2026 The trjstat authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package chemplot produces PNG plots of the results of trajectory analyses.
package chemplot

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Size of the plots
const size = 4 * vg.Inch

//Series is a named set of points to be plotted as a line.
type Series struct {
	Name string
	X, Y []float64
}

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//Curve plots ys against xs as a line, and saves the plot in the PNG file plotname.
func Curve(xs, ys []float64, title, xlabel, ylabel, plotname string) error {
	return Curves([]Series{{X: xs, Y: ys}}, title, xlabel, ylabel, plotname)
}

//Curves plots several series in the same plot, each with a different color.
//Series with a name get an entry in the legend.
func Curves(data []Series, title, xlabel, ylabel, plotname string) error {
	if len(data) == 0 {
		return errors.New("chemplot.Curves: no data given")
	}
	p := basicPlot(title, xlabel, ylabel)
	for key, s := range data {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("chemplot.Curves: the series %d has %d x values and %d y values", key, len(s.X), len(s.Y))
		}
		pts := make(plotter.XYs, len(s.X))
		for i := range s.X {
			pts[i].X = s.X[i]
			pts[i].Y = s.Y[i]
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("chemplot.Curves: %w", err)
		}
		r, g, b := colors(key, len(data))
		l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		if s.Name != "" {
			p.Legend.Add(s.Name, l)
		}
	}
	return p.Save(size, size, plotname)
}

//grid adapts a matrix of values to plotter.GridXYZ.
type grid struct {
	values [][]float64 //values[c][r]
	xs, ys []float64
}

func (G grid) Dims() (int, int)   { return len(G.xs), len(G.ys) }
func (G grid) Z(c, r int) float64 { return G.values[c][r] }
func (G grid) X(c int) float64    { return G.xs[c] }
func (G grid) Y(r int) float64    { return G.ys[r] }

//HeatMap plots the values in a grid, where values[i][j] corresponds to the
//point (xs[i], ys[j]), and saves the plot in the PNG file plotname.
func HeatMap(values [][]float64, xs, ys []float64, title, xlabel, ylabel, plotname string) error {
	if len(xs) < 2 || len(ys) < 2 {
		return errors.New("chemplot.HeatMap: at least 2 points per axis are needed")
	}
	if len(values) != len(xs) {
		return fmt.Errorf("chemplot.HeatMap: %d rows of values for %d x points", len(values), len(xs))
	}
	for i, v := range values {
		if len(v) != len(ys) {
			return fmt.Errorf("chemplot.HeatMap: the row %d has %d values for %d y points", i, len(v), len(ys))
		}
	}
	p := basicPlot(title, xlabel, ylabel)
	h := plotter.NewHeatMap(grid{values: values, xs: xs, ys: ys}, palette.Heat(12, 1))
	p.Add(h)
	return p.Save(size, size, plotname)
}
