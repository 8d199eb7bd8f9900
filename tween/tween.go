// Package tween provides scalar values that are pure functions of the
// animation frame index.
//
// A Tween never accumulates state: evaluating the same frame twice returns
// the same value, so a renderer may step a frame any number of times.
package tween

import "math"

// Tween maps a frame index to a value.
type Tween interface {
	Tween(frame int) float64
}

// Constant is a Tween that never changes.
type Constant float64

// Tween implements Tween.
func (c Constant) Tween(int) float64 { return float64(c) }

// Func adapts an ordinary function to the Tween interface.
// The function must be pure.
type Func func(frame int) float64

// Tween implements Tween.
func (f Func) Tween(frame int) float64 { return f(frame) }

// Linear moves from From to To over Frames frames beginning at Start.
// Before Start it holds From, after Start+Frames it holds To.
// Frames of zero or less jumps to To at Start.
type Linear struct {
	From, To float64
	Start    int
	Frames   int
}

// Tween implements Tween.
func (l Linear) Tween(frame int) float64 {
	if frame < l.Start {
		return l.From
	}
	if l.Frames <= 0 || frame >= l.Start+l.Frames {
		return l.To
	}
	t := float64(frame-l.Start) / float64(l.Frames)
	return l.From + (l.To-l.From)*t
}

// Oscillation swings between Min and Max with a period of Period frames.
// Phase is a fraction of a period; at phase 0 frame 0 sits at the midpoint
// moving towards Max. Period of zero or less holds the midpoint.
type Oscillation struct {
	Min, Max float64
	Period   float64
	Phase    float64
}

// Tween implements Tween.
func (o Oscillation) Tween(frame int) float64 {
	mid := (o.Min + o.Max) / 2
	if o.Period <= 0 {
		return mid
	}
	amp := (o.Max - o.Min) / 2
	return mid + amp*math.Sin(2*math.Pi*(float64(frame)/o.Period+o.Phase))
}

// Of returns t, or Constant(def) when t is nil.
func Of(t Tween, def float64) Tween {
	if t == nil {
		return Constant(def)
	}
	return t
}
