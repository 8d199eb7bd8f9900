package valora

import "math"

// RadialGradient is a Colorer whose colors radiate from a focal point
// within a circle defined by Center and EndRadius.
//
// With Focus equal to Center, t grows linearly from StartRadius to
// EndRadius. An offset focus produces a spotlight-style asymmetric
// gradient.
type RadialGradient struct {
	Center      Point
	Focus       Point
	StartRadius float64
	EndRadius   float64
	gradient
}

// NewRadialGradient creates a radial gradient around center.
// Focus defaults to center.
func NewRadialGradient(center Point, startRadius, endRadius float64) *RadialGradient {
	return &RadialGradient{
		Center:      center,
		Focus:       center,
		StartRadius: startRadius,
		EndRadius:   endRadius,
	}
}

// SetFocus sets the focal point of the gradient.
// Returns the gradient for method chaining.
func (g *RadialGradient) SetFocus(focus Point) *RadialGradient {
	g.Focus = focus
	return g
}

// AddColorStop adds a color stop at the specified offset.
// Returns the gradient for method chaining.
func (g *RadialGradient) AddColorStop(offset float64, c RGBA) *RadialGradient {
	g.addStop(offset, c)
	return g
}

// SetExtend sets the extend mode for the gradient.
// Returns the gradient for method chaining.
func (g *RadialGradient) SetExtend(mode ExtendMode) *RadialGradient {
	g.extend = mode
	return g
}

// ColorAt implements Colorer.
func (g *RadialGradient) ColorAt(p Point) RGBA {
	if g.EndRadius == g.StartRadius {
		return g.first()
	}
	if g.Focus == g.Center {
		return g.at((p.Distance(g.Center) - g.StartRadius) / (g.EndRadius - g.StartRadius))
	}
	return g.at(g.focalT(p))
}

// focalT intersects the ray from Focus through p with the end circle and
// returns how far along that ray p lies.
func (g *RadialGradient) focalT(p Point) float64 {
	d := p.Sub(g.Focus)
	f := g.Center.Sub(g.Focus)

	// |t*d - f|^2 = r^2
	a := d.Dot(d)
	if a == 0 {
		return 0
	}
	b := -2 * d.Dot(f)
	c := f.Dot(f) - g.EndRadius*g.EndRadius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 1
	}
	root := (-b + math.Sqrt(disc)) / (2 * a)
	if root <= 0 {
		return 1
	}

	// p sits at parameter 1 on the ray, the circle edge at root.
	s := 1 / root
	if g.StartRadius == 0 {
		return s
	}
	inner := g.StartRadius / g.EndRadius
	return (s - inner) / (1 - inner)
}
