/*
 * frame.go, part of trjstat.
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

import (
	"strings"
	"unicode"

	"gonum.org/v1/gonum/spatial/r3"
)

//Frame contains the positions of all atoms at one step of a trajectory,
//and the unit cell at that step.
type Frame struct {
	Coords []r3.Vec
	Cell   Cell
}

//NewFrame returns a frame with room for natoms atoms and an infinite cell.
func NewFrame(natoms int) *Frame {
	return &Frame{Coords: make([]r3.Vec, natoms)}
}

//Len returns the number of atoms in the frame
func (F *Frame) Len() int {
	return len(F.Coords)
}

//Topology contains the names of the atoms in a system, and
//the bonds between them, if known.
type Topology struct {
	Names []string
	Bonds [][2]int
}

//NewTopology returns a topology with the given atom names and no bonds.
//The names slice is copied.
func NewTopology(names []string) *Topology {
	n := make([]string, len(names))
	copy(n, names)
	return &Topology{Names: n}
}

func (T *Topology) Len() int {
	return len(T.Names)
}

//Name returns the name of the atom i
func (T *Topology) Name(i int) string {
	return T.Names[i]
}

//Symbol guesses the chemical element of the atom i from its name.
//The name "CA" gives "C", unless the name is exactly a known two-letter
//element in proper case ("Ca"). Digits and other non-letters are ignored.
func (T *Topology) Symbol(i int) string {
	name := strings.TrimFunc(T.Names[i], func(r rune) bool { return !unicode.IsLetter(r) })
	if name == "" {
		return ""
	}
	r := []rune(name)
	if len(r) >= 2 && unicode.IsUpper(r[0]) && unicode.IsLower(r[1]) {
		if _, ok := symbolCovrad[string(r[:2])]; ok {
			return string(r[:2])
		}
	}
	return strings.ToUpper(string(r[0]))
}

//AddBond adds a bond between the atoms i and j, if it is not already present.
func (T *Topology) AddBond(i, j int) {
	if i > j {
		i, j = j, i
	}
	for _, b := range T.Bonds {
		if b[0] == i && b[1] == j {
			return
		}
	}
	T.Bonds = append(T.Bonds, [2]int{i, j})
}

//Neighbors returns, for each atom, the indexes of the atoms bonded to it.
func (T *Topology) Neighbors() [][]int {
	ret := make([][]int, T.Len())
	for _, b := range T.Bonds {
		ret[b[0]] = append(ret[b[0]], b[1])
		ret[b[1]] = append(ret[b[1]], b[0])
	}
	return ret
}
