/*
 * xyz.go, part of trjstat.
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

//Package xyz reads and writes multi-frame XYZ trajectories. The unit cell is read
//from, and written to, the Lattice="..." entry of the extended XYZ comment line.
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rmera/trjstat"
)

//Reader reads XYZ trajectories. It implements trjstat.Traj.
type Reader struct {
	f        *os.File
	h        *bufio.Reader
	filename string
	natoms   int
	top      *trjstat.Topology
	first    *trjstat.Frame //the first frame, read by New to learn the atom names.
	line     int
	readable bool
}

//New opens an XYZ trajectory for reading. The first frame is read to get
//the atom names and the number of atoms.
func New(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, newError("Can't open file: "+err.Error(), name, "New", true)
	}
	X := &Reader{f: f, h: bufio.NewReader(f), filename: name, natoms: -1, readable: true}
	frame, names, err := X.readFrame(-1)
	if err != nil {
		f.Close()
		if trjstat.IsLastFrame(err) {
			return nil, newError("Empty trajectory", name, "New", true)
		}
		return nil, errDecorate(err, "New")
	}
	X.natoms = frame.Len()
	X.top = trjstat.NewTopology(names)
	X.first = frame
	return X, nil
}

//Len returns the number of atoms per frame.
func (X *Reader) Len() int {
	return X.natoms
}

//Readable returns true if Next can be called.
func (X *Reader) Readable() bool {
	return X.readable
}

//Topology returns the atom names in the first frame.
func (X *Reader) Topology() *trjstat.Topology {
	return X.top
}

//Next reads the next frame into frame. If frame is nil, the frame is read
//and discarded. At the end of the trajectory the reader is closed and an error
//implementing trjstat.LastFrameError is returned.
func (X *Reader) Next(frame *trjstat.Frame) error {
	if !X.readable {
		return newError("Traj object uninitialized to read", X.filename, "Next", true)
	}
	if frame != nil && frame.Len() != X.natoms {
		return newError(fmt.Sprintf("frame with %d atoms given, but %d expected", frame.Len(), X.natoms), X.filename, "Next", true)
	}
	if X.first != nil {
		if frame != nil {
			copy(frame.Coords, X.first.Coords)
			frame.Cell = X.first.Cell
		}
		X.first = nil
		return nil
	}
	read, _, err := X.readFrame(X.natoms)
	if err != nil {
		if trjstat.IsLastFrame(err) {
			X.Close()
		}
		return errDecorate(err, "Next")
	}
	if frame != nil {
		copy(frame.Coords, read.Coords)
		frame.Cell = read.Cell
	}
	return nil
}

//Close closes the file.
func (X *Reader) Close() {
	if !X.readable {
		return
	}
	X.readable = false
	X.f.Close()
}

func (X *Reader) readLine() (string, error) {
	s, err := X.h.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}
	X.line++
	return strings.TrimRight(s, "\r\n"), err
}

//readFrame reads one frame. If natoms is not negative, the frame must have
//that many atoms.
func (X *Reader) readFrame(natoms int) (*trjstat.Frame, []string, error) {
	var s string
	var err error
	//blank lines between frames are tolerated.
	for s == "" {
		s, err = X.readLine()
		if err == io.EOF {
			return nil, nil, newlastFrameError(X.filename, "readFrame")
		}
		if err != nil {
			return nil, nil, newError(err.Error(), X.filename, "readFrame", true)
		}
		s = strings.TrimSpace(s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, nil, newError(fmt.Sprintf("line %d: expected the number of atoms, found %q", X.line, s), X.filename, "readFrame", true)
	}
	if natoms >= 0 && n != natoms {
		return nil, nil, newError(fmt.Sprintf("line %d: frame with %d atoms, but %d expected", X.line, n, natoms), X.filename, "readFrame", true)
	}
	comment, err := X.readLine()
	if err != nil {
		return nil, nil, newError("Can't read the comment line: "+err.Error(), X.filename, "readFrame", true)
	}
	frame := trjstat.NewFrame(n)
	frame.Cell, err = parseLattice(comment)
	if err != nil {
		return nil, nil, newError(fmt.Sprintf("line %d: %s", X.line, err.Error()), X.filename, "readFrame", true)
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		s, err := X.readLine()
		if err != nil {
			return nil, nil, newError(fmt.Sprintf("line %d: truncated frame, %s", X.line, err.Error()), X.filename, "readFrame", true)
		}
		fields := strings.Fields(s)
		if len(fields) < 4 {
			return nil, nil, newError(fmt.Sprintf("line %d: expected name x y z, found %q", X.line, s), X.filename, "readFrame", true)
		}
		names[i] = fields[0]
		var c [3]float64
		for j := 0; j < 3; j++ {
			c[j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, nil, newError(fmt.Sprintf("line %d: can't read coordinate %q", X.line, fields[j+1]), X.filename, "readFrame", true)
			}
		}
		frame.Coords[i].X, frame.Coords[i].Y, frame.Coords[i].Z = c[0], c[1], c[2]
	}
	return frame, names, nil
}

//parseLattice reads the cell from a Lattice="ax ay az bx by bz cx cy cz" entry
//in the comment line. Comment lines without it give an infinite cell.
func parseLattice(comment string) (trjstat.Cell, error) {
	idx := strings.Index(strings.ToLower(comment), "lattice=\"")
	if idx < 0 {
		return trjstat.Cell{}, nil
	}
	rest := comment[idx+len("lattice=\""):]
	end := strings.Index(rest, "\"")
	if end < 0 {
		return trjstat.Cell{}, fmt.Errorf("unterminated Lattice entry")
	}
	fields := strings.Fields(rest[:end])
	if len(fields) != 9 {
		return trjstat.Cell{}, fmt.Errorf("the Lattice entry should have 9 values, found %d", len(fields))
	}
	box := make([]float64, 9)
	for i, v := range fields {
		var err error
		box[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return trjstat.Cell{}, fmt.Errorf("can't read %q in the Lattice entry", v)
		}
	}
	return trjstat.CellFromBox(box)
}

//Writer writes XYZ trajectories.
type Writer struct {
	f         *os.File
	w         *bufio.Writer
	filename  string
	names     []string
	writeable bool
}

//NewWriter creates the file name, to write frames with the atom names in top.
func NewWriter(name string, top *trjstat.Topology) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, newError("Can't create file: "+err.Error(), name, "NewWriter", true)
	}
	return &Writer{f: f, w: bufio.NewWriter(f), filename: name, names: top.Names, writeable: true}, nil
}

//WNext writes a frame. The cell, if any, goes in the comment line.
func (W *Writer) WNext(frame *trjstat.Frame) error {
	if !W.writeable {
		return newError("Traj object uninitialized to write", W.filename, "WNext", true)
	}
	if frame.Len() != len(W.names) {
		return newError(fmt.Sprintf("%d coordinates given, but %d expected", frame.Len(), len(W.names)), W.filename, "WNext", true)
	}
	fmt.Fprintf(W.w, "%d\n", frame.Len())
	if frame.Cell.Shape() != trjstat.Infinite {
		box := frame.Cell.Box()
		strs := make([]string, len(box))
		for i, v := range box {
			strs[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		fmt.Fprintf(W.w, "Lattice=\"%s\" Properties=species:S:1:pos:R:3\n", strings.Join(strs, " "))
	} else {
		fmt.Fprintln(W.w, "Properties=species:S:1:pos:R:3")
	}
	for i, c := range frame.Coords {
		fmt.Fprintf(W.w, "%-4s %12.6f %12.6f %12.6f\n", W.names[i], c.X, c.Y, c.Z)
	}
	return nil
}

//Close flushes the data and closes the file.
func (W *Writer) Close() error {
	if !W.writeable {
		return nil
	}
	W.writeable = false
	err := W.w.Flush()
	if err2 := W.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return newError(err.Error(), W.filename, "Close", true)
	}
	return nil
}
