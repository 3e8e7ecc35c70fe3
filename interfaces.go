/*
 * interfaces.go, part of trjstat.
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

import "errors"

//Traj is an interface for any trajectory object.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into f. If f is nil, the frame is read and discarded.
	//When the trajectory ends, it returns an error implementing LastFrameError.
	Next(f *Frame) error

	//Returns the number of atoms per frame
	Len() int
}

//TopologyTraj is a trajectory that also carries the atom names.
type TopologyTraj interface {
	Traj
	Topology() *Topology
}

//Errors

//Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call returns the "decoration" slice after adding the given string. An empty string adds nothing.
}

//TrajError is the interface for errors in trajectories
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

//LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so  they can be
//filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}

//IsLastFrame returns true if err, or an error it wraps, marks the normal end of a trajectory.
func IsLastFrame(err error) bool {
	var l LastFrameError
	return errors.As(err, &l)
}
