/*
 * dcd.go, part of trjstat.
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

//Package dcd reads and writes CHARMM/NAMD binary trajectories.
//Readers support both endiannesses, X-plor and CHARMM headers, and the
//CHARMM unit cell block. Files compressed with gzip, lzw or zstd can be
//read, but only plain files can be written.
package dcd

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"compress/lzw"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/trjstat"
	"github.com/rs/zerolog/log"
)

const (
	maxTitle    int   = 80
	lzwLitwidth int   = 8
	cellBlock   int32 = 48 //6 float64
	headerSize  int32 = 84
)

//Reader is a DCD trajectory opened for reading.
type Reader struct {
	f        *os.File
	dec      io.Closer
	r        io.Reader
	endian   binary.ByteOrder
	filename string
	natoms   int
	frames   int
	timestep float64
	charmm   bool
	unitcell bool
	fourdim  bool
	readable bool
	last     bool
	read     int
	block    [3][]float32
}

//source returns a reader for the file, decompressing it if the extension
//says so (.gz, .lzw or .zst). The closer returned may be nil.
func source(f *os.File) (io.Reader, io.Closer, error) {
	b := bufio.NewReader(f)
	switch strings.ToLower(filepath.Ext(f.Name())) {
	case ".gz":
		r, err := gzip.NewReader(b)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	case ".lzw":
		r := lzw.NewReader(b, lzw.MSB, lzwLitwidth)
		return r, r, nil
	case ".zst":
		r, err := zstd.NewReader(b)
		if err != nil {
			return nil, nil, err
		}
		rc := r.IOReadCloser()
		return rc, rc, nil
	}
	return b, nil, nil
}

//New opens the DCD file name and reads its header.
func New(name string) (*Reader, error) {
	D := &Reader{filename: name}
	var err error
	D.f, err = os.Open(name)
	if err != nil {
		return nil, newError(err.Error(), name, true, "os.Open", "New")
	}
	D.r, D.dec, err = source(D.f)
	if err != nil {
		D.f.Close()
		return nil, newError("Can't decompress: "+err.Error(), name, true, "New")
	}
	if err := D.header(); err != nil {
		D.Close()
		return nil, errDecorate(err, "New")
	}
	for i := range D.block {
		D.block[i] = make([]float32, D.natoms)
	}
	D.readable = true
	return D, nil
}

func (D *Reader) wrongFormat(what string) error {
	return newError(fmt.Sprintf("%s: %s", WrongFormat, what), D.filename, true, "header")
}

func (D *Reader) readInt32() (int32, error) {
	var i int32
	err := binary.Read(D.r, D.endian, &i)
	return i, err
}

//marker reads a Fortran record marker and checks that it is want.
func (D *Reader) marker(want int32) error {
	got, err := D.readInt32()
	if err != nil {
		return newError(err.Error(), D.filename, true, "marker")
	}
	if got != want {
		return newError(fmt.Sprintf("%s: record marker %d, expected %d", WrongFormat, got, want), D.filename, true, "marker")
	}
	return nil
}

func (D *Reader) header() error {
	first := make([]byte, 4)
	if _, err := io.ReadFull(D.r, first); err != nil {
		return D.wrongFormat(err.Error())
	}
	//The first record is always 84 bytes long, which tells the byte order.
	switch {
	case int32(binary.LittleEndian.Uint32(first)) == headerSize:
		D.endian = binary.LittleEndian
	case int32(binary.BigEndian.Uint32(first)) == headerSize:
		D.endian = binary.BigEndian
	default:
		return D.wrongFormat("not a DCD file")
	}
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(D.r, buf); err != nil {
		return D.wrongFormat(err.Error())
	}
	if string(buf[:4]) != "CORD" {
		return D.wrongFormat("wrong magic number " + string(buf[:4]))
	}
	var icntrl [20]int32
	if err := binary.Read(bytes.NewReader(buf[4:]), D.endian, &icntrl); err != nil {
		return D.wrongFormat(err.Error())
	}
	D.frames = int(icntrl[0])
	if icntrl[8] != 0 {
		return newError(FixedAtoms, D.filename, true, "header")
	}
	//X-plor sets the last integer to zero, CHARMM to its version number.
	if icntrl[19] != 0 {
		D.charmm = true
		D.timestep = float64(math.Float32frombits(uint32(icntrl[9])))
		D.unitcell = icntrl[10] != 0
		D.fourdim = icntrl[11] != 0
	} else {
		D.timestep = D.endianFloat64(buf[40:48])
	}
	if err := D.marker(headerSize); err != nil {
		return err
	}
	//title
	size, err := D.readInt32()
	if err != nil || size < 4 {
		return D.wrongFormat("can't read the title")
	}
	if _, err := io.CopyN(io.Discard, D.r, int64(size)); err != nil {
		return D.wrongFormat(err.Error())
	}
	if err := D.marker(size); err != nil {
		return err
	}
	if err := D.marker(4); err != nil {
		return err
	}
	natoms, err := D.readInt32()
	if err != nil || natoms <= 0 {
		return D.wrongFormat("can't read the number of atoms")
	}
	D.natoms = int(natoms)
	return D.marker(4)
}

func (D *Reader) endianFloat64(b []byte) float64 {
	return math.Float64frombits(D.endian.Uint64(b))
}

//Readable returns true if frames can still be read from the trajectory.
func (D *Reader) Readable() bool {
	return D.readable
}

//Len returns the number of atoms per frame.
func (D *Reader) Len() int {
	return D.natoms
}

//Frames returns the number of frames the header declares. Some programs
//don't update this number, so it is only informative.
func (D *Reader) Frames() int {
	return D.frames
}

//Timestep returns the time between frames stored in the header, in the
//units of the program that wrote the file.
func (D *Reader) Timestep() float64 {
	return D.timestep
}

//Topology returns nil, DCD files don't contain atom names.
func (D *Reader) Topology() *trjstat.Topology {
	return nil
}

//Close closes the file.
func (D *Reader) Close() {
	D.readable = false
	if D.dec != nil {
		D.dec.Close()
		D.dec = nil
	}
	if D.f != nil {
		D.f.Close()
		D.f = nil
	}
}

//Next reads the next frame into frame. If frame is nil, the
//frame is read and discarded.
func (D *Reader) Next(frame *trjstat.Frame) error {
	if D.last {
		return D.end()
	}
	if !D.readable {
		return newError(TrajUnIni, D.filename, true, "Next")
	}
	if frame != nil && frame.Len() < D.natoms {
		return newError(NotEnoughSpace, D.filename, true, "Next")
	}
	size, err := D.readInt32()
	if errors.Is(err, io.EOF) {
		return D.end()
	}
	if err != nil {
		return newError(err.Error(), D.filename, true, "Next")
	}
	var cell trjstat.Cell
	coordSize := int32(4 * D.natoms)
	if D.unitcell && size == cellBlock {
		var box [6]float64
		if err := binary.Read(D.r, D.endian, &box); err != nil {
			return newError(err.Error(), D.filename, true, "Next")
		}
		if err := D.marker(cellBlock); err != nil {
			return errDecorate(err, "Next")
		}
		if cell, err = cellFromDCD(box); err != nil {
			return newError(err.Error(), D.filename, true, "Next")
		}
		size = 0
	} else if D.unitcell && size != coordSize {
		//Some writers leave unknown blocks before the coordinates.
		if err := D.skip(size); err != nil {
			return errDecorate(err, "Next")
		}
		size = 0
	}
	for i := range D.block {
		if size == 0 {
			if size, err = D.readInt32(); err != nil {
				return newError(err.Error(), D.filename, true, "Next")
			}
		}
		if size != coordSize {
			return newError(fmt.Sprintf("%s: coordinate block of %d bytes, expected %d", WrongFormat, size, coordSize), D.filename, true, "Next")
		}
		if err := binary.Read(D.r, D.endian, D.block[i]); err != nil {
			return newError(err.Error(), D.filename, true, "Next")
		}
		if err := D.marker(coordSize); err != nil {
			return errDecorate(err, "Next")
		}
		size = 0
	}
	if D.charmm && D.fourdim {
		//The fourth dimension is absent in the last frame of some files.
		size, err := D.readInt32()
		if errors.Is(err, io.EOF) {
			D.last = true
		} else if err != nil {
			return newError(err.Error(), D.filename, true, "Next")
		} else if err := D.skip(size); err != nil {
			return errDecorate(err, "Next")
		}
	}
	D.read++
	if frame == nil {
		return nil
	}
	for j := 0; j < D.natoms; j++ {
		frame.Coords[j].X = float64(D.block[0][j])
		frame.Coords[j].Y = float64(D.block[1][j])
		frame.Coords[j].Z = float64(D.block[2][j])
	}
	frame.Cell = cell
	return nil
}

//end closes the trajectory and returns the error marking its normal end.
func (D *Reader) end() error {
	if D.frames > 0 && D.read != D.frames {
		log.Warn().Str("file", D.filename).Int("header", D.frames).Int("read", D.read).Msg("the number of frames in the DCD header doesn't match the frames read")
	}
	D.Close()
	return &lastFrameError{fileName: D.filename, deco: []string{"Next"}}
}

//skip discards a block whose opening marker, size, was already read.
func (D *Reader) skip(size int32) error {
	if size < 0 {
		return newError(WrongFormat, D.filename, true, "skip")
	}
	if _, err := io.CopyN(io.Discard, D.r, int64(size)); err != nil {
		return newError(err.Error(), D.filename, true, "skip")
	}
	return errDecorate(D.marker(size), "skip")
}

//cellFromDCD builds a cell from the CHARMM unit cell block, which
//stores a, γ, b, β, α and c in this order. Recent CHARMM versions
//store the cosines of the angles instead of the angles, in degrees,
//that NAMD writes.
func cellFromDCD(box [6]float64) (trjstat.Cell, error) {
	a, b, c := box[0], box[2], box[5]
	angles := [3]float64{box[4], box[3], box[1]}
	cosines := true
	for _, v := range angles {
		if v < -1 || v > 1 {
			cosines = false
		}
	}
	if cosines && (a != 0 || b != 0 || c != 0) {
		for i, v := range angles {
			if v == 0 {
				angles[i] = 90
				continue
			}
			angles[i] = trjstat.Rad2Deg(math.Acos(v))
		}
	}
	return trjstat.NewCell(a, b, c, angles[0], angles[1], angles[2])
}

//cellToDCD is the inverse of cellFromDCD, writing the angles in degrees.
func cellToDCD(cell trjstat.Cell) [6]float64 {
	var box [6]float64
	switch cell.Shape() {
	case trjstat.Infinite:
		return box
	case trjstat.Orthorhombic:
		a, b, c := cell.Lengths()
		return [6]float64{a, 90, b, 90, 90, c}
	}
	m := cell.Matrix()
	var vecs [3][3]float64
	for v := 0; v < 3; v++ {
		for k := 0; k < 3; k++ {
			vecs[v][k] = m[k][v]
		}
	}
	angle := func(u, v [3]float64) float64 {
		dot := u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
		nu := math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
		nv := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		return trjstat.Rad2Deg(math.Acos(dot / (nu * nv)))
	}
	a, b, c := cell.Lengths()
	box[0], box[2], box[5] = a, b, c
	box[4] = angle(vecs[1], vecs[2])
	box[3] = angle(vecs[0], vecs[2])
	box[1] = angle(vecs[0], vecs[1])
	return box
}

