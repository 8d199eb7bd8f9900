package valora

import (
	"math"
	"sort"
)

// ExtendMode defines how gradients extend beyond their defined bounds.
type ExtendMode int

const (
	// ExtendPad extends edge colors beyond bounds (default behavior).
	ExtendPad ExtendMode = iota
	// ExtendRepeat repeats the gradient pattern.
	ExtendRepeat
	// ExtendReflect mirrors the gradient pattern.
	ExtendReflect
)

// ColorStop represents a color at a specific position in a gradient.
type ColorStop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Color  RGBA    // Color at this position
}

// gradient holds the stop list shared by linear and radial gradients.
// Stops are kept sorted by offset as they are added.
type gradient struct {
	stops  []ColorStop
	extend ExtendMode
}

func (g *gradient) addStop(offset float64, c RGBA) {
	i := sort.Search(len(g.stops), func(i int) bool {
		return g.stops[i].Offset > offset
	})
	g.stops = append(g.stops, ColorStop{})
	copy(g.stops[i+1:], g.stops[i:])
	g.stops[i] = ColorStop{Offset: offset, Color: c}
}

// Stops returns a copy of the color stops in offset order.
func (g *gradient) Stops() []ColorStop {
	return append([]ColorStop(nil), g.stops...)
}

// first returns the lowest-offset color or Transparent if there are no stops.
func (g *gradient) first() RGBA {
	if len(g.stops) == 0 {
		return Transparent
	}
	return g.stops[0].Color
}

// applyExtendMode applies the extend mode to normalize t to [0, 1].
func applyExtendMode(t float64, mode ExtendMode) float64 {
	switch mode {
	case ExtendRepeat:
		t -= math.Floor(t)
	case ExtendReflect:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int(period)%2 == 1 {
			t = 1 - t
		}
	default: // ExtendPad
		t = clamp01(t)
	}
	return t
}

// clamp01 clamps a value to [0, 1] range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// at returns the interpolated color at gradient parameter t.
// Interpolation happens in linear light so midpoints do not darken.
func (g *gradient) at(t float64) RGBA {
	switch len(g.stops) {
	case 0:
		return Transparent
	case 1:
		return g.stops[0].Color
	}

	t = applyExtendMode(t, g.extend)

	idx := sort.Search(len(g.stops), func(i int) bool {
		return g.stops[i].Offset >= t
	})
	if idx == 0 {
		return g.stops[0].Color
	}
	if idx >= len(g.stops) {
		return g.stops[len(g.stops)-1].Color
	}

	lo, hi := g.stops[idx-1], g.stops[idx]
	if hi.Offset == lo.Offset {
		return lo.Color
	}
	local := (t - lo.Offset) / (hi.Offset - lo.Offset)
	return lo.Color.Linear().Lerp(hi.Color.Linear(), local).SRGB()
}
