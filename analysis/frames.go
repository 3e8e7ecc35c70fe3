package analysis

import (
	"errors"
	"fmt"

	"github.com/rmera/trjstat"
)

//ErrNoFrames is returned when an analysis didn't get any frame to work with.
var ErrNoFrames = errors.New("analysis: no frames read from the trajectory")

//readFrames reads the frames of traj in the range of steps given in o, and calls
//fn for each of them. The frame given to fn is reused, so fn must copy anything
//it wants to keep. It returns the number of frames given to fn.
func readFrames(traj trjstat.Traj, o *Options, fn func(step int, frame *trjstat.Frame) error) (int, error) {
	if !traj.Readable() {
		return 0, errors.New("analysis: the trajectory is not readable")
	}
	steps := o.Steps()
	cell, customCell := o.Cell()
	frame := trjstat.NewFrame(traj.Len())
	framesread := 0
	var err error
reading:
	for i := 0; !steps.Past(i); i++ {
		use := steps.Contains(i)
		if use {
			err = traj.Next(frame)
		} else {
			err = traj.Next(nil) //skipped frames are still read.
		}
		if err != nil {
			switch err := err.(type) {
			case trjstat.LastFrameError:
				break reading
			case trjstat.Error:
				err.Decorate(fmt.Sprintf("readFrames: Failed while reading the %d th frame", i))
				return framesread, err
			default:
				return framesread, fmt.Errorf("reading the %d th frame: %w", i, err)
			}
		}
		if !use {
			continue
		}
		if customCell {
			frame.Cell = cell
		}
		if err := fn(i, frame); err != nil {
			return framesread, err
		}
		framesread++
	}
	o.log.Debug().Int("frames", framesread).Msg("finished reading the trajectory")
	if framesread == 0 {
		return 0, ErrNoFrames
	}
	return framesread, nil
}

//copyFrame copies src into dst, allocating dst if needed.
func copyFrame(dst, src *trjstat.Frame) *trjstat.Frame {
	if dst == nil || dst.Len() != src.Len() {
		dst = trjstat.NewFrame(src.Len())
	}
	copy(dst.Coords, src.Coords)
	dst.Cell = src.Cell
	return dst
}
