package analysis

import (
	"math"
	"runtime"

	"github.com/rmera/trjstat"
	"github.com/rmera/trjstat/histo"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"
)

//Options contains the parameters shared by the analyses. Each method returns
//the current value of a parameter and sets it to the value given, if any
//valid value is given.
type Options struct {
	cpus        int
	points      int
	max         float64
	min         float64
	hasMin      bool
	steps       trjstat.Steps
	cell        trjstat.Cell
	customCell  bool
	origin      r3.Vec
	unwrap      bool
	temperature float64
	hbDistance  float64
	hbAngle     float64
	log         zerolog.Logger
	warn        *histo.WarnOnce
}

//Returns a Options with the default options.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.cpus = runtime.NumCPU()
	ret.points = 200
	ret.max = 10
	ret.steps = trjstat.AllSteps
	ret.temperature = 300
	ret.hbDistance = 3.0
	ret.hbAngle = trjstat.Deg2Rad(30)
	ret.log = zerolog.Nop()
	return ret
}

//Returns the number of gorutines to use in concurrent calculations, and sets it, if
//a valid value is given
func (r *Options) Cpus(cpus ...int) int {
	ret := r.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		r.cpus = cpus[0]
	}
	return ret
}

//Returns the number of bins in the histograms, and sets it if a valid value is given.
func (r *Options) Points(points ...int) int {
	ret := r.points
	if len(points) > 0 && points[0] > 0 {
		r.points = points[0]
	}
	return ret
}

//Returns the upper limit of the histograms, and sets it if a positive value is given.
func (r *Options) Max(max ...float64) float64 {
	ret := r.max
	if len(max) > 0 && max[0] > 0 {
		r.max = max[0]
	}
	return ret
}

//Returns the lower limit of the histograms that allow negative values. It
//is -Max() unless set.
func (r *Options) Min(min ...float64) float64 {
	ret := -r.max
	if r.hasMin {
		ret = r.min
	}
	if len(min) > 0 && !math.IsNaN(min[0]) {
		r.min = min[0]
		r.hasMin = true
	}
	return ret
}

//Returns the range of steps to use, and sets it, if given
func (r *Options) Steps(steps ...trjstat.Steps) trjstat.Steps {
	ret := r.steps
	if len(steps) > 0 && steps[0].Stride > 0 {
		r.steps = steps[0]
	}
	return ret
}

//Cell returns the unit cell that replaces the one in each trajectory frame,
//and whether such a cell was set. If a cell is given, it is set.
func (r *Options) Cell(cell ...trjstat.Cell) (trjstat.Cell, bool) {
	ret, ok := r.cell, r.customCell
	if len(cell) > 0 {
		r.cell = cell[0]
		r.customCell = true
	}
	return ret, ok
}

//Returns the origin of the radial density profiles, and sets it, if given.
func (r *Options) Origin(origin ...r3.Vec) r3.Vec {
	ret := r.origin
	if len(origin) > 0 {
		r.origin = origin[0]
	}
	return ret
}

//Returns whether positions are unwrapped across the periodic boundaries in
//the MSD, and sets it, if given.
func (r *Options) Unwrap(unwrap ...bool) bool {
	ret := r.unwrap
	if len(unwrap) > 0 {
		r.unwrap = unwrap[0]
	}
	return ret
}

//Returns the temperature, in K, used in the elastic constants, and sets it
//if a positive value is given.
func (r *Options) Temperature(t ...float64) float64 {
	ret := r.temperature
	if len(t) > 0 && t[0] > 0 {
		r.temperature = t[0]
	}
	return ret
}

//HBond returns the hydrogen bond criteria: the maximum donor-acceptor
//distance, in A, and the maximum acceptor-donor-hydrogen angle, in radians.
//They are set if two positive values are given.
func (r *Options) HBond(criteria ...float64) (float64, float64) {
	d, a := r.hbDistance, r.hbAngle
	if len(criteria) >= 2 && criteria[0] > 0 && criteria[1] > 0 {
		r.hbDistance = criteria[0]
		r.hbAngle = criteria[1]
	}
	return d, a
}

//Logger returns the logger for progress messages and warnings, and sets it, if given.
//The default logger discards everything.
func (r *Options) Logger(l ...zerolog.Logger) zerolog.Logger {
	ret := r.log
	if len(l) > 0 {
		r.log = l[0]
		r.warn = nil
	}
	return ret
}

//warner returns the warning sink shared by all the histograms built with these options.
func (r *Options) warner() *histo.WarnOnce {
	if r.warn == nil {
		r.warn = histo.NewWarnOnce(r.log)
	}
	return r.warn
}

func getOptions(options []*Options) *Options {
	if len(options) > 0 && options[0] != nil {
		return options[0]
	}
	return DefaultOptions()
}
