/*
 * steps.go, part of trjstat.
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
)

//Steps is a range of trajectory steps: from Start to End (excluded), by Stride.
type Steps struct {
	Start, End, Stride int
}

//AllSteps selects every step in a trajectory.
var AllSteps = Steps{Start: 0, End: math.MaxInt, Stride: 1}

//ParseSteps reads a range from a string with the format start:end[:stride],
//where all the fields are optional. The defaults are 0 for start, the end
//of the trajectory for end and 1 for stride. An empty string selects all steps.
func ParseSteps(s string) (Steps, error) {
	ret := AllSteps
	s = strings.TrimSpace(s)
	if s == "" {
		return ret, nil
	}
	fields := strings.Split(s, ":")
	if len(fields) > 3 {
		return Steps{}, fmt.Errorf("trjstat.ParseSteps: too many fields in %q, expected start:end[:stride]", s)
	}
	targets := []*int{&ret.Start, &ret.End, &ret.Stride}
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return Steps{}, fmt.Errorf("trjstat.ParseSteps: can't read %q in %q: %w", f, s, err)
		}
		*targets[i] = v
	}
	if ret.Start < 0 || ret.End < 0 {
		return Steps{}, fmt.Errorf("trjstat.ParseSteps: negative steps in %q", s)
	}
	if ret.Stride <= 0 {
		return Steps{}, fmt.Errorf("trjstat.ParseSteps: the stride must be positive in %q", s)
	}
	if ret.End < ret.Start {
		return Steps{}, fmt.Errorf("trjstat.ParseSteps: the end is before the start in %q", s)
	}
	return ret, nil
}

//Contains returns true if the step i is in the range.
func (S Steps) Contains(i int) bool {
	return i >= S.Start && i < S.End && (i-S.Start)%S.Stride == 0
}

//Past returns true if the step i, and all the ones after it, are outside the range.
func (S Steps) Past(i int) bool {
	return i >= S.End
}

//Count returns the number of selected steps in a trajectory with total
//steps, or -1 if total is negative (unknown).
func (S Steps) Count(total int) int {
	if total < 0 {
		return -1
	}
	end := S.End
	if total < end {
		end = total
	}
	if end <= S.Start {
		return 0
	}
	return (end-S.Start-1)/S.Stride + 1
}

func (S Steps) String() string {
	if S.End == math.MaxInt {
		return fmt.Sprintf("%d::%d", S.Start, S.Stride)
	}
	return fmt.Sprintf("%d:%d:%d", S.Start, S.End, S.Stride)
}
