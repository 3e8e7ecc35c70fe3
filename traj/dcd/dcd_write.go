/*
 * dcd_write.go, part of trjstat.
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

package dcd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmera/trjstat"
)

//Writer is a DCD trajectory opened for writing. The files written are
//little endian, in the CHARMM flavor, with a unit cell block in each frame.
type Writer struct {
	f        *os.File
	w        *bufio.Writer
	endian   binary.ByteOrder
	filename string
	natoms   int32
	frames   int32
	writable bool
	block    []float32
}

//NewWriter creates the file name and writes the header for frames with natoms atoms.
func NewWriter(name string, natoms int) (*Writer, error) {
	if natoms <= 0 {
		return nil, newError(fmt.Sprintf("invalid number of atoms: %d", natoms), name, true, "NewWriter")
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".lzw", ".zst":
		return nil, newError("compressed DCD files can't be written", name, true, "NewWriter")
	}
	D := &Writer{filename: name, natoms: int32(natoms), endian: binary.LittleEndian, block: make([]float32, natoms)}
	var err error
	D.f, err = os.Create(name)
	if err != nil {
		return nil, newError(err.Error(), name, true, "os.Create", "NewWriter")
	}
	D.w = bufio.NewWriter(D.f)
	if err := D.header(); err != nil {
		D.f.Close()
		return nil, newError(err.Error(), name, true, "header", "NewWriter")
	}
	D.writable = true
	return D, nil
}

func (D *Writer) header() error {
	var icntrl [20]int32
	icntrl[2] = 1          //steps between frames
	icntrl[9] = 0x3f800000 //timestep, 1.0 as a float32
	icntrl[10] = 1         //unit cell
	icntrl[19] = 24        //CHARMM version
	title := make([]byte, 2*maxTitle)
	for i := range title {
		title[i] = ' '
	}
	copy(title, "REMARKS written by trjstat")
	copy(title[maxTitle:], fmt.Sprintf("REMARKS %d atoms", D.natoms))
	record := []any{
		headerSize, []byte("CORD"), icntrl, headerSize,
		int32(4 + len(title)), int32(2), title, int32(4 + len(title)),
		int32(4), D.natoms, int32(4),
	}
	for _, v := range record {
		if err := binary.Write(D.w, D.endian, v); err != nil {
			return err
		}
	}
	return nil
}

//Len returns the number of atoms per frame.
func (D *Writer) Len() int {
	return int(D.natoms)
}

//WNext writes frame, with its unit cell, to the trajectory.
func (D *Writer) WNext(frame *trjstat.Frame) error {
	if !D.writable {
		return newError(TrajUnIni, D.filename, true, "WNext")
	}
	if frame == nil {
		return newError("Given nil frame", D.filename, true, "WNext")
	}
	if frame.Len() != int(D.natoms) {
		return newError(fmt.Sprintf("The frame has %d atoms, the trajectory %d", frame.Len(), D.natoms), D.filename, true, "WNext")
	}
	wrap := func(err error) error {
		return newError(err.Error(), D.filename, true, "binary.Write", "WNext")
	}
	box := cellToDCD(frame.Cell)
	for _, v := range []any{cellBlock, box, cellBlock} {
		if err := binary.Write(D.w, D.endian, v); err != nil {
			return wrap(err)
		}
	}
	size := 4 * D.natoms
	for k := 0; k < 3; k++ {
		for i, c := range frame.Coords {
			switch k {
			case 0:
				D.block[i] = float32(c.X)
			case 1:
				D.block[i] = float32(c.Y)
			default:
				D.block[i] = float32(c.Z)
			}
		}
		for _, v := range []any{size, D.block, size} {
			if err := binary.Write(D.w, D.endian, v); err != nil {
				return wrap(err)
			}
		}
	}
	D.frames++
	return nil
}

//Close writes the number of frames in the header, and closes the file.
//DCD requires the number of frames at the beginning of the file, so
//it can't be written to a stream.
func (D *Writer) Close() error {
	if !D.writable {
		return nil
	}
	D.writable = false
	err := D.updateFrames()
	if err2 := D.f.Close(); err == nil && err2 != nil {
		err = newError(err2.Error(), D.filename, true, "Close")
	}
	return err
}

func (D *Writer) updateFrames() error {
	wrap := func(err error) error {
		return newError(err.Error(), D.filename, true, "updateFrames", "Close")
	}
	if err := D.w.Flush(); err != nil {
		return wrap(err)
	}
	//the frame count goes right after the first marker and "CORD".
	if _, err := D.f.Seek(8, io.SeekStart); err != nil {
		return wrap(err)
	}
	if err := binary.Write(D.f, D.endian, D.frames); err != nil {
		return wrap(err)
	}
	return nil
}
