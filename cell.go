/*
 * cell.go, part of trjstat.
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
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//CellShape tells how periodic boundary conditions are applied.
type CellShape int

const (
	Infinite CellShape = iota
	Orthorhombic
	Triclinic
)

func (s CellShape) String() string {
	switch s {
	case Infinite:
		return "infinite"
	case Orthorhombic:
		return "orthorhombic"
	case Triclinic:
		return "triclinic"
	}
	return "unknown"
}

//Cell is a unit cell. The zero value is an infinite cell, with no
//periodic boundary conditions.
type Cell struct {
	shape CellShape
	h     [3][3]float64 //the columns are the a, b and c vectors
	inv   [3][3]float64
}

//NewOrthorhombic returns a cell with the lengths a, b and c, in Angstrom.
func NewOrthorhombic(a, b, c float64) (Cell, error) {
	return NewCell(a, b, c, 90, 90, 90)
}

//NewCell returns a cell from its lengths (Angstrom) and angles (degrees).
//If all lengths are zero, an infinite cell is returned.
func NewCell(a, b, c, alpha, beta, gamma float64) (Cell, error) {
	if a == 0 && b == 0 && c == 0 {
		return Cell{}, nil
	}
	if a <= 0 || b <= 0 || c <= 0 {
		return Cell{}, fmt.Errorf("trjstat.NewCell: cell lengths must be positive, got %g %g %g", a, b, c)
	}
	if alpha <= 0 || beta <= 0 || gamma <= 0 || alpha >= 180 || beta >= 180 || gamma >= 180 {
		return Cell{}, fmt.Errorf("trjstat.NewCell: cell angles must be in (0, 180), got %g %g %g", alpha, beta, gamma)
	}
	if alpha == 90 && beta == 90 && gamma == 90 {
		C := Cell{shape: Orthorhombic}
		C.h[0][0], C.h[1][1], C.h[2][2] = a, b, c
		C.inv[0][0], C.inv[1][1], C.inv[2][2] = 1/a, 1/b, 1/c
		return C, nil
	}
	ca, cb, cg := math.Cos(Deg2Rad(alpha)), math.Cos(Deg2Rad(beta)), math.Cos(Deg2Rad(gamma))
	sg := math.Sin(Deg2Rad(gamma))
	cy := (ca - cb*cg) / sg
	cz2 := 1 - cb*cb - cy*cy
	if cz2 <= 0 {
		return Cell{}, fmt.Errorf("trjstat.NewCell: the angles %g %g %g don't define a valid cell", alpha, beta, gamma)
	}
	var m [3][3]float64
	m[0][0] = a
	m[0][1], m[1][1] = b*cg, b*sg
	m[0][2], m[1][2], m[2][2] = c*cb, c*cy, c*math.Sqrt(cz2)
	return CellFromMatrix(m)
}

//CellFromMatrix returns a cell from a matrix with the a, b and c vectors as columns.
//A zero matrix gives an infinite cell.
func CellFromMatrix(m [3][3]float64) (Cell, error) {
	zero := true
	diagonal := true
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if m[i][j] != 0 {
				zero = false
				if i != j {
					diagonal = false
				}
			}
		}
	}
	if zero {
		return Cell{}, nil
	}
	if diagonal {
		return NewOrthorhombic(m[0][0], m[1][1], m[2][2])
	}
	h := mat.NewDense(3, 3, []float64{m[0][0], m[0][1], m[0][2], m[1][0], m[1][1], m[1][2], m[2][0], m[2][1], m[2][2]})
	var inv mat.Dense
	if err := inv.Inverse(h); err != nil {
		return Cell{}, fmt.Errorf("trjstat.CellFromMatrix: singular cell matrix: %w", err)
	}
	C := Cell{shape: Triclinic, h: m}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			C.inv[i][j] = inv.At(i, j)
		}
	}
	return C, nil
}

//CellFromBox returns a cell from 9 numbers: the a, b and c vectors, one after the other.
//This is the way box information is stored in STF trajectories.
func CellFromBox(box []float64) (Cell, error) {
	if len(box) < 9 {
		return Cell{}, fmt.Errorf("trjstat.CellFromBox: 9 box components needed, got %d", len(box))
	}
	var m [3][3]float64
	for v := 0; v < 3; v++ {
		for k := 0; k < 3; k++ {
			m[k][v] = box[3*v+k]
		}
	}
	return CellFromMatrix(m)
}

//ParseCell reads a cell from a string with the formats "L" (cubic), "a:b:c"
//or "a:b:c:α:β:γ". Lengths in Angstrom, angles in degrees.
func ParseCell(s string) (Cell, error) {
	fields := strings.Split(s, ":")
	vals := make([]float64, len(fields))
	for i, v := range fields {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Cell{}, fmt.Errorf("trjstat.ParseCell: can't read %q in cell %q: %w", v, s, err)
		}
		vals[i] = f
	}
	switch len(vals) {
	case 1:
		return NewOrthorhombic(vals[0], vals[0], vals[0])
	case 3:
		return NewOrthorhombic(vals[0], vals[1], vals[2])
	case 6:
		return NewCell(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
	}
	return Cell{}, fmt.Errorf("trjstat.ParseCell: the cell string should have 1, 3 or 6 values, got %d", len(vals))
}

//Shape returns the shape of the cell
func (C Cell) Shape() CellShape {
	return C.shape
}

//Matrix returns the cell matrix, with the a, b and c vectors as columns.
func (C Cell) Matrix() [3][3]float64 {
	return C.h
}

//Box returns the cell vectors in the 9-number format read by CellFromBox.
func (C Cell) Box() []float64 {
	ret := make([]float64, 9)
	for v := 0; v < 3; v++ {
		for k := 0; k < 3; k++ {
			ret[3*v+k] = C.h[k][v]
		}
	}
	return ret
}

//Lengths returns the lengths of the a, b and c vectors.
func (C Cell) Lengths() (float64, float64, float64) {
	var l [3]float64
	for v := 0; v < 3; v++ {
		l[v] = math.Sqrt(C.h[0][v]*C.h[0][v] + C.h[1][v]*C.h[1][v] + C.h[2][v]*C.h[2][v])
	}
	return l[0], l[1], l[2]
}

//Volume returns the volume of the cell, 0 for infinite cells.
func (C Cell) Volume() float64 {
	h := C.h
	det := h[0][0]*(h[1][1]*h[2][2]-h[1][2]*h[2][1]) -
		h[0][1]*(h[1][0]*h[2][2]-h[1][2]*h[2][0]) +
		h[0][2]*(h[1][0]*h[2][1]-h[1][1]*h[2][0])
	return math.Abs(det)
}

//Fractional returns the coordinates of v in the basis of the cell vectors.
func (C Cell) Fractional(v r3.Vec) r3.Vec {
	return mul33(C.inv, v)
}

//Cartesian is the inverse of Fractional.
func (C Cell) Cartesian(f r3.Vec) r3.Vec {
	return mul33(C.h, f)
}

//Wrap returns the periodic image of v closest to the origin. For infinite
//cells, v is returned unchanged.
func (C Cell) Wrap(v r3.Vec) r3.Vec {
	switch C.shape {
	case Orthorhombic:
		v.X -= C.h[0][0] * math.Round(v.X*C.inv[0][0])
		v.Y -= C.h[1][1] * math.Round(v.Y*C.inv[1][1])
		v.Z -= C.h[2][2] * math.Round(v.Z*C.inv[2][2])
		return v
	case Triclinic:
		f := C.Fractional(v)
		f.X -= math.Round(f.X)
		f.Y -= math.Round(f.Y)
		f.Z -= math.Round(f.Z)
		return C.Cartesian(f)
	}
	return v
}

func mul33(m [3][3]float64, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}
