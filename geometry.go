/*
 * geometry.go, part of trjstat.
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

	"gonum.org/v1/gonum/spatial/r3"
)

func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180
}

func Rad2Deg(f float64) float64 {
	return f * 180 / math.Pi
}

const appzero float64 = 0.0000001 //Everything equal or less than this is considered zero.

//Angle returns the angle in radians between v1 and v2, in [0, π].
//It does not check for zero vectors.
func Angle(v1, v2 r3.Vec) float64 {
	argument := r3.Dot(v1, v2) / (r3.Norm(v1) * r3.Norm(v2))
	//floating point errors can take the argument out of [-1,1]
	if argument > 1 {
		argument = 1
	} else if argument < -1 {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}

//Dihedral returns the dihedral angle, in radians and in (-π, π], between the
//points a, b, c, d, where the first plane is defined by abc and the second by bcd.
func Dihedral(a, b, c, d r3.Vec) float64 {
	bma := r3.Sub(b, a)
	cmb := r3.Sub(c, b)
	dmc := r3.Sub(d, c)
	return dihedralVecs(bma, cmb, dmc)
}

func dihedralVecs(bma, cmb, dmc r3.Vec) float64 {
	first := r3.Dot(r3.Scale(r3.Norm(cmb), bma), r3.Cross(cmb, dmc))
	second := r3.Dot(r3.Cross(bma, cmb), r3.Cross(cmb, dmc))
	d := math.Atan2(first, second)
	if d == -math.Pi {
		return math.Pi
	}
	return d
}

//AngleIn returns the i-j-k angle, in radians, with j the central atom, using
//the minimum image of each bond vector in the cell.
func AngleIn(cell Cell, i, j, k r3.Vec) float64 {
	return Angle(cell.Wrap(r3.Sub(i, j)), cell.Wrap(r3.Sub(k, j)))
}

//DihedralIn returns the i-j-k-l dihedral, in radians, using the minimum
//image of each bond vector in the cell.
func DihedralIn(cell Cell, i, j, k, l r3.Vec) float64 {
	return dihedralVecs(cell.Wrap(r3.Sub(j, i)), cell.Wrap(r3.Sub(k, j)), cell.Wrap(r3.Sub(l, k)))
}

//Axis is a direction in space. Axes are always unit vectors.
type Axis struct {
	dir  r3.Vec
	name string
}

var (
	AxisX = Axis{dir: r3.Vec{X: 1}, name: "X"}
	AxisY = Axis{dir: r3.Vec{Y: 1}, name: "Y"}
	AxisZ = Axis{dir: r3.Vec{Z: 1}, name: "Z"}
)

//NewAxis returns an axis along v. It returns an error if v is zero.
func NewAxis(v r3.Vec) (Axis, error) {
	n := r3.Norm(v)
	if n <= appzero {
		return Axis{}, fmt.Errorf("trjstat.NewAxis: the axis vector can't be zero")
	}
	return Axis{dir: r3.Scale(1/n, v), name: fmt.Sprintf("%g:%g:%g", v.X, v.Y, v.Z)}, nil
}

//ParseAxis reads an axis from "X", "Y", "Z" (case-insensitive) or "a:b:c".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return AxisX, nil
	case "Y":
		return AxisY, nil
	case "Z":
		return AxisZ, nil
	}
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return Axis{}, fmt.Errorf("trjstat.ParseAxis: can't read axis %q, expected X, Y, Z or a:b:c", s)
	}
	var v [3]float64
	for i, f := range fields {
		var err error
		v[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("trjstat.ParseAxis: can't read axis %q: %w", s, err)
		}
	}
	return NewAxis(r3.Vec{X: v[0], Y: v[1], Z: v[2]})
}

//Vec returns the unit vector along the axis.
func (A Axis) Vec() r3.Vec {
	return A.dir
}

func (A Axis) String() string {
	return A.name
}

//Projection returns the component of v along the axis.
func (A Axis) Projection(v r3.Vec) float64 {
	return r3.Dot(A.dir, v)
}

//Radial returns the distance from v to the axis.
func (A Axis) Radial(v r3.Vec) float64 {
	p := A.Projection(v)
	r2 := r3.Norm2(v) - p*p
	if r2 < 0 {
		return 0
	}
	return math.Sqrt(r2)
}
