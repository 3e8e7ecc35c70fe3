//Package traj opens trajectories in any of the supported formats.
package traj

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/traj/dcd"
	"github.com/rmera/trjstat/traj/stf"
	"github.com/rmera/trjstat/traj/xyz"
)

//Reader is a trajectory that can be closed.
type Reader interface {
	trjstat.TopologyTraj
	Close()
}

//Writer writes frames to a trajectory file.
type Writer interface {
	WNext(*trjstat.Frame) error
	Close() error
}

//FormatInfo describes a trajectory format.
type FormatInfo struct {
	Name        string
	Extensions  string
	Description string
	Write       bool //false for formats that can only be read
}

var formats = []FormatInfo{
	{Name: "xyz", Extensions: ".xyz", Description: "XYZ text format, with the extended XYZ Lattice for the cell", Write: true},
	{Name: "stf", Extensions: ".stf .stfz .stfr .stfl", Description: "simple trajectory format, compressed with zstd, gzip, flate or lzw", Write: true},
	{Name: "dcd", Extensions: ".dcd", Description: "CHARMM/NAMD binary trajectory", Write: true},
	{Name: "dcd", Extensions: ".dcd.gz .dcd.lzw .dcd.zst", Description: "compressed CHARMM/NAMD binary trajectory"},
}

//Formats returns the supported trajectory formats.
func Formats() []FormatInfo {
	return append([]FormatInfo(nil), formats...)
}

//Format returns the format name for the file name, from its extension:
//"xyz", "stf" or "dcd". Compressed STF variants (stfz, stfr, stfl) are "stf",
//and compressed DCD files (.dcd.gz, .dcd.lzw, .dcd.zst) are "dcd".
func Format(name string) (string, error) {
	lower := strings.ToLower(name)
	for _, c := range []string{".gz", ".lzw", ".zst"} {
		if strings.HasSuffix(lower, ".dcd"+c) {
			return "dcd", nil
		}
	}
	ext := strings.TrimPrefix(filepath.Ext(lower), ".")
	switch {
	case ext == "xyz":
		return "xyz", nil
	case ext == "dcd":
		return "dcd", nil
	case strings.HasPrefix(ext, "stf"):
		return "stf", nil
	}
	return "", fmt.Errorf("traj.Format: unknown trajectory format for %q", name)
}

//Open opens the trajectory name for reading. If format is empty, it is
//guessed from the file extension.
func Open(name, format string) (Reader, error) {
	var err error
	if format == "" {
		if format, err = Format(name); err != nil {
			return nil, err
		}
	}
	switch strings.ToLower(format) {
	case "xyz":
		r, err := xyz.New(name)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "stf":
		r, _, err := stf.New(name)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "dcd":
		r, err := dcd.New(name)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("traj.Open: unknown trajectory format %q", format)
}

//Create creates a trajectory file for writing frames with the atoms in top.
//DCD files don't store the atom names.
//If format is empty, it is guessed from the file extension.
func Create(name, format string, top *trjstat.Topology) (Writer, error) {
	var err error
	if format == "" {
		if format, err = Format(name); err != nil {
			return nil, err
		}
	}
	switch strings.ToLower(format) {
	case "xyz":
		w, err := xyz.NewWriter(name, top)
		if err != nil {
			return nil, err
		}
		return w, nil
	case "stf":
		w, err := stf.NewWriter(name, top.Len(), stf.NamesHeader(top))
		if err != nil {
			return nil, err
		}
		return w, nil
	case "dcd":
		w, err := dcd.NewWriter(name, top.Len())
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	return nil, fmt.Errorf("traj.Create: unknown trajectory format %q", format)
}
