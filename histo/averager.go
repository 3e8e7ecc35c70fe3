package histo

import "gonum.org/v1/gonum/floats"

//Averager averages a histogram over several steps (normally, trajectory frames).
//Samples for one step are inserted in Current(), then Step is called.
type Averager struct {
	current  *Histogram
	averaged []float64
	steps    int
}

//NewAverager returns an Averager using h as the current histogram.
func NewAverager(h *Histogram) *Averager {
	return &Averager{current: h, averaged: make([]float64, h.Len())}
}

//Current returns the histogram that collects the data for the current step.
//After Average is called, it contains the averaged histogram.
func (A *Averager) Current() *Histogram {
	return A.current
}

//Steps returns the number of times Step has been called, plus the steps of
//any merged averager.
func (A *Averager) Steps() int {
	return A.steps
}

//Step adds the current data to the running sum and sets the current
//histogram to zero.
func (A *Averager) Step() {
	for i, v := range A.current.cells {
		A.averaged[i] += v
		A.current.cells[i] = 0
	}
	A.steps++
}

//Average puts the average over all steps in the current histogram.
//Calling it again is harmless as long as Step is not called in between.
//It panics if no step was taken.
func (A *Averager) Average() {
	if A.steps == 0 {
		panic("histo.Averager.Average: no step has been taken")
	}
	floats.ScaleTo(A.current.cells, 1/float64(A.steps), A.averaged)
}

//Merge adds the running sum and steps of other to the receiver. Both
//averagers must wrap histograms with the same axes.
func (A *Averager) Merge(other *Averager) {
	if !A.current.sameDims(other.current) {
		panic("histo.Averager.Merge: Averagers must have the same dimensions")
	}
	floats.Add(A.averaged, other.averaged)
	A.steps += other.steps
}
