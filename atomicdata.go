/*
 * atomicdata.go, part of trjstat.
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

package trjstat

//Covalent radii, in A, from Cordero et al., 2008 (DOI:10.1039/B801115J)
//Only common elements in molecular simulations are present.
var symbolCovrad = map[string]float64{
	"H":  0.4, //larger than the real 0.31, extra bonds to H are removed later anyway.
	"C":  0.76,
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"Li": 1.28,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Fe": 1.52,
	"Si": 1.11,
	"Al": 1.21,
	"B":  0.84,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
	"Ar": 1.06,
}

//Maximum number of bonds. Elements not in the map are not checked.
var symbolMaxBonds = map[string]int{
	"H":  1,
	"C":  4,
	"O":  2,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
	"Ar": 0,
}

//CovalentRadius returns the covalent radius for the element symbol, and
//false if the element is not known.
func CovalentRadius(symbol string) (float64, bool) {
	r, ok := symbolCovrad[symbol]
	return r, ok
}
