package valora

// LinearGradient is a Colorer that transitions between color stops along
// the line from Start to End.
//
// Example:
//
//	sky := valora.NewLinearGradient(valora.Pt(0, 0), valora.Pt(0, 1)).
//	    AddColorStop(0, valora.Hex("#1d2b53")).
//	    AddColorStop(1, valora.Hex("#ff77a8"))
type LinearGradient struct {
	Start Point
	End   Point
	gradient
}

// NewLinearGradient creates a gradient from start to end with no stops.
func NewLinearGradient(start, end Point) *LinearGradient {
	return &LinearGradient{Start: start, End: end}
}

// AddColorStop adds a color stop at the specified offset.
// Offset should be in the range [0, 1].
// Returns the gradient for method chaining.
func (g *LinearGradient) AddColorStop(offset float64, c RGBA) *LinearGradient {
	g.addStop(offset, c)
	return g
}

// SetExtend sets the extend mode for the gradient.
// Returns the gradient for method chaining.
func (g *LinearGradient) SetExtend(mode ExtendMode) *LinearGradient {
	g.extend = mode
	return g
}

// ColorAt implements Colorer.
func (g *LinearGradient) ColorAt(p Point) RGBA {
	d := g.End.Sub(g.Start)
	lengthSq := d.Dot(d)
	if lengthSq == 0 {
		return g.first()
	}

	// t = dot(P - Start, End - Start) / |End - Start|^2
	t := p.Sub(g.Start).Dot(d) / lengthSq
	return g.at(t)
}
