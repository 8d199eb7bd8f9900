package valora

import "math"

// Poly is a shape described by an ordered vertex outline.
// The outline is implicitly closed: the last vertex connects to the first.
type Poly interface {
	Vertices() []Point
}

// Ellipser is a shape described by an ellipse.
type Ellipser interface {
	Ellipse() Ellipse
}

// Polygon is an ordered vertex outline in either winding.
type Polygon []Point

// Vertices implements Poly.
func (p Polygon) Vertices() []Point {
	return p
}

// RegularPolygon returns an n-sided polygon inscribed in a circle of the
// given radius. The first vertex lies at angle phase.
// n below 3 yields nil.
func RegularPolygon(center Point, radius float64, n int, phase float64) Polygon {
	if n < 3 {
		return nil
	}
	poly := make(Polygon, n)
	step := 2 * math.Pi / float64(n)
	for i := range poly {
		sin, cos := math.Sincos(phase + step*float64(i))
		poly[i] = Point{X: center.X + radius*cos, Y: center.Y + radius*sin}
	}
	return poly
}

// Ellipse describes a circle or a rotated ellipse.
//
// Width is the horizontal radius. When Height is nil the shape is a circle
// of radius Width and Rotation is irrelevant. Tolerance, when set,
// overrides the default curve flattening tolerance.
type Ellipse struct {
	Center    Point
	Width     float64
	Height    *float64
	Rotation  float64
	Tolerance *float64
}

// Ellipse implements Ellipser.
func (e Ellipse) Ellipse() Ellipse {
	return e
}

// IsCircle reports whether the ellipse has no separate vertical radius.
func (e Ellipse) IsCircle() bool {
	return e.Height == nil
}

// Radii returns the horizontal and vertical radii.
func (e Ellipse) Radii() (rx, ry float64) {
	if e.Height == nil {
		return e.Width, e.Width
	}
	return e.Width, *e.Height
}

// WithTolerance returns a copy of e with the flattening tolerance set.
func (e Ellipse) WithTolerance(tol float64) Ellipse {
	e.Tolerance = &tol
	return e
}

// Circle returns a circular Ellipse.
func Circle(center Point, radius float64) Ellipse {
	return Ellipse{Center: center, Width: radius}
}

// NewEllipse returns an ellipse with radii rx, ry rotated by rotation radians.
func NewEllipse(center Point, rx, ry, rotation float64) Ellipse {
	return Ellipse{Center: center, Width: rx, Height: &ry, Rotation: rotation}
}

// Rect is an axis-aligned rectangle from Min (top-left) to Max (bottom-right).
type Rect struct {
	Min, Max Point
}

// Frame returns the rectangle covering the whole output in normalized
// frame space.
func Frame() Rect {
	return Rect{Min: Point{X: 0, Y: 0}, Max: Point{X: 1, Y: 1}}
}

// Vertices implements Poly, listing corners clockwise from Min on screen.
func (r Rect) Vertices() []Point {
	return []Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return r.Min.Lerp(r.Max, 0.5) }

// Contains reports whether p lies inside r or on its boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
