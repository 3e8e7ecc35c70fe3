/*
 * stf.go, part of trjstat.
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

package stf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/trjstat"
	"github.com/rs/zerolog/log"
)

const (
	lzwLitwidth int = 8
	defaultPrec int = 2
)

//compressor returns the functions to wrap a file for the compression given
//by the last letter of its name.
func compressor(name string, level int) (func(io.Writer) (io.WriteCloser, error), func(io.Reader) (io.ReadCloser, error)) {
	zstdwriter := func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	}
	zstdreader := func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return r.IOReadCloser(), nil
	}
	if name == "" {
		return zstdwriter, zstdreader
	}
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil },
			func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		return func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, clampLevel(level)) },
			func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	case 'r':
		return func(a io.Writer) (io.WriteCloser, error) { return flate.NewWriter(a, clampLevel(level)) },
			func(a io.Reader) (io.ReadCloser, error) { return flate.NewReader(a), nil }
	}
	return zstdwriter, zstdreader
}

//gzip and flate only take levels up to 9.
func clampLevel(level int) int {
	if level > flate.BestCompression {
		return flate.BestCompression
	}
	return level
}

//Write!

//Writer writes STF trajectories.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
	prec      int
}

//NewWriter creates the file name and writes the STF header, with the entries
//in header, for a trajectory with natoms atoms. The optional compression level
//goes from 1 (fastest) to 22 (smallest) for zstd, 1 to 9 for gzip and flate.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*Writer, error) {
	level := 11
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	S := &Writer{filename: name, natoms: natoms, prec: defaultPrec}
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, newError("Can't create file: "+err.Error(), name, "NewWriter", true)
	}
	AnyNewWriter, _ := compressor(name, level)
	S.h, err = AnyNewWriter(S.f)
	if err != nil {
		S.f.Close()
		return nil, newError("Can't start compression: "+err.Error(), name, "NewWriter", true)
	}
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			S.prec = prec
		} else {
			log.Warn().Str("file", name).Str("prec", p).Msg("invalid precision for trajectory, using the default")
		}
	}
	keys := make([]string, 0, len(header))
	for k := range header {
		if k != "prec" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var sb strings.Builder
	fmt.Fprintf(&sb, "prec=%d\n", S.prec)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%s\n", k, header[k])
	}
	fmt.Fprintf(&sb, "** %d\n", S.natoms)
	if _, err := S.h.Write([]byte(sb.String())); err != nil {
		S.h.Close()
		S.f.Close()
		return nil, newError("Can't write header: "+err.Error(), name, "NewWriter", true)
	}
	S.writeable = true
	return S, nil
}

//NamesHeader returns a header with the atom names in top, to be given to NewWriter.
func NamesHeader(top *trjstat.Topology) map[string]string {
	if top == nil {
		return nil
	}
	return map[string]string{"names": strings.Join(top.Names, " ")}
}

//Len returns the number of atoms per frame.
func (S *Writer) Len() int {
	return S.natoms
}

//WNext writes a frame. The cell is written only if the frame has one.
func (S *Writer) WNext(frame *trjstat.Frame) error {
	if !S.writeable {
		return newError(TrajUnIniWrite, S.filename, "WNext", true)
	}
	if frame == nil {
		return newError(NilFrame, S.filename, "WNext", true)
	}
	if frame.Len() != S.natoms {
		return newError(fmt.Sprintf("%d coordinates given, but %d expected", frame.Len(), S.natoms), S.filename, "WNext", true)
	}
	var sb strings.Builder
	for _, c := range frame.Coords {
		sb.WriteString(coordsEncode([3]float64{c.X, c.Y, c.Z}, S.prec))
	}
	if frame.Cell.Shape() != trjstat.Infinite {
		sb.WriteString("*")
		for _, v := range frame.Cell.Box() {
			fmt.Fprintf(&sb, " %.6f", v)
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("*\n")
	}
	if _, err := S.h.Write([]byte(sb.String())); err != nil {
		return newError(err.Error(), S.filename, "WNext", true)
	}
	return nil
}

//Close flushes the compressed stream and closes the file.
func (S *Writer) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	err := S.h.Close()
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return newError(err.Error(), S.filename, "Close", true)
	}
	return nil
}

func coordsEncode(f [3]float64, prec int) string {
	p := 100.0
	if prec != 2 {
		p = math.Pow(10.0, float64(prec))
	}
	var temp [3]int
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

//Read!

//Reader reads STF trajectories. It implements trjstat.Traj.
type Reader struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	readable bool
	top      *trjstat.Topology
}

//New opens a STF trajectory for reading, and returns a pointer
//to the handle, a map with the header entries and error or nil.
func New(name string) (*Reader, map[string]string, error) {
	S := &Reader{natoms: -1, filename: name, prec: defaultPrec}
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, newError("Can't open file: "+err.Error(), name, "New", true)
	}
	_, AnyNewReader := compressor(name, 0)
	S.dec, err = AnyNewReader(bufio.NewReader(S.f))
	if err != nil {
		S.f.Close()
		return nil, nil, newError("Can't read header "+err.Error(), name, "New", true)
	}
	S.h = bufio.NewReader(S.dec)
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.close()
			return nil, nil, newError("Can't read header "+err.Error(), name, "New", true)
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				S.close()
				return nil, nil, newError(fmt.Sprintf("Can't read atom number from '%s'", str), name, "New", true)
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil || S.natoms < 0 {
				S.close()
				return nil, nil, newError(fmt.Sprintf("Can't read atom number from '%s'", nat[1]), name, "New", true)
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			S.close()
			return nil, nil, newError("Malformed header line: "+str, name, "New", true)
		}
		m[k] = v
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			S.prec = prec
		} else {
			log.Warn().Str("file", name).Str("prec", p).Msg("invalid precision for trajectory, assuming the default")
		}
	}
	if names, ok := m["names"]; ok {
		n := strings.Fields(names)
		if len(n) == S.natoms {
			S.top = trjstat.NewTopology(n)
		} else {
			log.Warn().Str("file", name).Int("names", len(n)).Int("atoms", S.natoms).Msg("the number of atom names doesn't match the number of atoms, names ignored")
		}
	}
	S.readable = true
	return S, m, nil
}

//Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *Reader) Readable() bool {
	return S.readable
}

//Topology returns the atom names stored in the header, or nil if there are none.
func (S *Reader) Topology() *trjstat.Topology {
	return S.top
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := 100.0
	if prec != 2 {
		p = math.Pow(10.0, float64(prec))
	}
	s := strings.Fields(str)
	if len(s) < 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: Too few fields: %s", str)
	}
	if len(s) > 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: Too many fields: %s", str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Can't parse coordinate %d (%s). Error: %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

//Next reads the next frame into frame, which must have room for Len() atoms.
//If frame is nil, the frame is read, checked and discarded. At the end of the
//trajectory, Next closes the reader and returns an error implementing
//trjstat.LastFrameError.
func (S *Reader) Next(frame *trjstat.Frame) error {
	if !S.readable {
		return newError(TrajUnIniRead, S.filename, "Next", true)
	}
	if frame != nil && frame.Len() != S.natoms {
		return newError(fmt.Sprintf("frame with %d atoms given, but %d expected", frame.Len(), S.natoms), S.filename, "Next", true)
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadString('\n')
		if err != nil {
			//EOF should only happen when reading the first atom
			if err == io.EOF && i == 0 && b == "" {
				S.close()
				return newlastFrameError(S.filename, "Next")
			}
			return newError(err.Error(), S.filename, "Next", true)
		}
		if strings.HasPrefix(b, "*") {
			return newError(fmt.Sprintf("Frame with %d atoms, but %d expected", i, S.natoms), S.filename, "Next", true)
		}
		if err = coordsDecode(b, &temp, S.prec); err != nil {
			return newError(err.Error(), S.filename, "Next", true)
		}
		if frame == nil {
			continue //still checked for correctness.
		}
		frame.Coords[i].X, frame.Coords[i].Y, frame.Coords[i].Z = temp[0], temp[1], temp[2]
	}
	s, err := S.h.ReadString('\n')
	if err != nil && !(err == io.EOF && s != "") {
		if err == io.EOF && S.natoms == 0 {
			S.close()
			return newlastFrameError(S.filename, "Next")
		}
		return newError("Can't read the frame termination mark: "+err.Error(), S.filename, "Next", true)
	}
	if !strings.HasPrefix(s, "*") {
		return newError("Wrong number of atoms in frame", S.filename, "Next", true)
	}
	if frame == nil {
		return nil
	}
	fields := strings.Fields(s)[1:]
	frame.Cell = trjstat.Cell{}
	if len(fields) == 0 {
		return nil
	}
	if len(fields) != 9 {
		log.Warn().Str("file", S.filename).Strs("box", fields).Msg("trajectory frame does not contain correct box information")
		return nil
	}
	box := make([]float64, 9)
	for j, v := range fields {
		box[j], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return newError(fmt.Sprintf("Can't read box component %q: %s", v, err.Error()), S.filename, "Next", true)
		}
	}
	frame.Cell, err = trjstat.CellFromBox(box)
	if err != nil {
		return newError(err.Error(), S.filename, "Next", true)
	}
	return nil
}

func (S *Reader) close() {
	S.readable = false
	if S.dec != nil {
		S.dec.Close()
	}
	S.f.Close()
}

//Close closes the object, and marks it as unreadable
func (S *Reader) Close() {
	if !S.readable {
		return
	}
	S.close()
}

//Len returns the number of atoms in each frame of the trajectory.
func (S *Reader) Len() int {
	return S.natoms
}
