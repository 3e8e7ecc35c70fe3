/*
 * bonds.go, part of trjstat.
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
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

type candidate struct {
	i, j int
	dist float64
}

//GuessBonds replaces the bonds in top by bonds guessed from the distances
//in frame, with a simple criterion similar to that described in
//DOI:10.1186/1758-2946-3-33. Distances use the minimum image convention
//if the frame has a cell. Atoms with more bonds than their element allows
//lose their longest bonds.
func GuessBonds(frame *Frame, top *Topology) error {
	if frame.Len() != top.Len() {
		return fmt.Errorf("trjstat.GuessBonds: the frame has %d atoms but the topology %d", frame.Len(), top.Len())
	}
	tot := top.Len()
	radii := make([]float64, tot)
	for i := 0; i < tot; i++ {
		s := top.Symbol(i)
		r, ok := symbolCovrad[s]
		if !ok {
			return fmt.Errorf("trjstat.GuessBonds: couldn't find the covalent radius for %q (atom %d, %s)", s, i, top.Name(i))
		}
		radii[i] = r
	}
	//might get slow for large systems.
	var cands []candidate
	for i := 0; i < tot; i++ {
		for j := i + 1; j < tot; j++ {
			d := r3.Norm(frame.Cell.Wrap(r3.Sub(frame.Coords[j], frame.Coords[i])))
			if d < radii[i]+radii[j]+bondtol && d > tooclose {
				cands = append(cands, candidate{i: i, j: j, dist: d})
			}
		}
	}
	//shortest first, so the bonds that survive the max-bonds check are the shortest ones.
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })
	nbonds := make([]int, tot)
	full := func(i int) bool {
		max, ok := symbolMaxBonds[top.Symbol(i)]
		return ok && nbonds[i] >= max
	}
	top.Bonds = top.Bonds[:0]
	for _, c := range cands {
		if full(c.i) || full(c.j) {
			continue
		}
		top.Bonds = append(top.Bonds, [2]int{c.i, c.j})
		nbonds[c.i]++
		nbonds[c.j]++
	}
	sort.Slice(top.Bonds, func(a, b int) bool {
		if top.Bonds[a][0] != top.Bonds[b][0] {
			return top.Bonds[a][0] < top.Bonds[b][0]
		}
		return top.Bonds[a][1] < top.Bonds[b][1]
	})
	return nil
}

//Angles returns all the i-j-k triplets of bonded atoms in top, with j
//the central atom and i<k.
func Angles(top *Topology) [][3]int {
	var ret [][3]int
	for j, neigh := range top.Neighbors() {
		sort.Ints(neigh)
		for a := 0; a < len(neigh); a++ {
			for b := a + 1; b < len(neigh); b++ {
				ret = append(ret, [3]int{neigh[a], j, neigh[b]})
			}
		}
	}
	return ret
}

//Dihedrals returns all the i-j-k-l quadruplets of bonded atoms in top,
//built around each bond j-k. Each dihedral appears once.
func Dihedrals(top *Topology) [][4]int {
	neigh := top.Neighbors()
	for _, v := range neigh {
		sort.Ints(v)
	}
	var ret [][4]int
	for _, b := range top.Bonds {
		j, k := b[0], b[1]
		for _, i := range neigh[j] {
			if i == k {
				continue
			}
			for _, l := range neigh[k] {
				if l == j || l == i {
					continue
				}
				ret = append(ret, [4]int{i, j, k, l})
			}
		}
	}
	return ret
}
