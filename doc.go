/*
 * doc.go, part of trjstat.
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

/*Package trjstat provides the basic types for the analysis of molecular dynamics
trajectories: frames, topologies, unit cells, atom selections and steps ranges.


	**trjstat packages**

    histo: histograms with fixed-width bins, and averagers that accumulate
	one histogram per trajectory frame.

    chemstat: autocorrelation functions of many time series, computed with FFTs.

    traj/xyz, traj/stf, traj/dcd: trajectory readers and writers.

    analysis: radial distribution functions, angle distributions, density
	profiles, mean square displacements, rotational correlation functions,
	hydrogen bonds and elastic constants.

    chemplot: plots of the results.

Coordinates are gonum r3.Vec values, in Angstrom. Angles are in radians,
unless a function says otherwise.*/
package trjstat
