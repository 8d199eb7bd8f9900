package tessellation

import (
	"fmt"
	"math"

	"github.com/gogpu/valora"
)

// SegmentCount returns the number of line segments used to flatten a
// circle of the given radius so that no chord deviates from the arc by more
// than tol.
//
// A chord spanning angle θ has sagitta r(1 - cos(θ/2)); solving for the
// largest θ within tol gives n = ⌈π / acos(1 - tol/r)⌉. The result is
// clamped to [8, 4096] and never increases as tol grows.
func SegmentCount(radius, tol float64) int {
	if !(tol > 0) {
		tol = DefaultTolerance
	}
	if radius <= 0 || tol >= radius {
		return minSegments
	}
	n := math.Ceil(math.Pi / math.Acos(1-tol/radius))
	switch {
	case math.IsNaN(n) || n > maxSegments:
		return maxSegments
	case n < minSegments:
		return minSegments
	}
	return int(n)
}

func ellipseTolerance(e valora.Ellipse) float64 {
	if e.Tolerance != nil && *e.Tolerance > 0 {
		return *e.Tolerance
	}
	return DefaultTolerance
}

func checkEllipse(e valora.Ellipse) (rx, ry float64, err error) {
	rx, ry = e.Radii()
	if !(rx > 0) || !(ry > 0) {
		return 0, 0, fmt.Errorf("tessellation: ellipse radii %v x %v: %w", rx, ry, ErrDegenerateShape)
	}
	return rx, ry, nil
}

// ellipseRim returns the rim points of e with their outward unit normals,
// in increasing angle order.
func ellipseRim(e valora.Ellipse, rx, ry float64) (points, normals []valora.Point) {
	n := SegmentCount(math.Max(rx, ry), ellipseTolerance(e))
	points = make([]valora.Point, n)
	normals = make([]valora.Point, n)

	rotation := 0.0
	if !e.IsCircle() {
		rotation = e.Rotation
	}
	step := 2 * math.Pi / float64(n)
	for i := range n {
		sin, cos := math.Sincos(step * float64(i))
		local := valora.Pt(rx*cos, ry*sin)
		// Gradient of x²/rx² + y²/ry² points outward.
		normal := valora.Pt(cos/rx, sin/ry).Normalize()
		if rotation != 0 {
			local = local.Rotate(rotation)
			normal = normal.Rotate(rotation)
		}
		points[i] = e.Center.Add(local)
		normals[i] = normal
	}
	return points, normals
}

// FillEllipse triangulates a circle or rotated ellipse as a fan around its
// center. The center vertex carries the zero normal.
func FillEllipse(e valora.Ellipse, colorer valora.Colorer) (Tessellation, error) {
	rx, ry, err := checkEllipse(e)
	if err != nil {
		return Tessellation{}, err
	}
	rim, normals := ellipseRim(e, rx, ry)
	n := len(rim)

	b := newBuilder(colorer, n+1, 3*n)
	center := b.vertex(e.Center, valora.Point{})
	for i := range rim {
		b.vertex(rim[i], normals[i])
	}
	for i := range n {
		b.triangle(center, center+1+uint32(i), center+1+uint32((i+1)%n))
	}
	return b.t, nil
}

// StrokeEllipse builds a ring of the given width centered on the ellipse
// outline. Outer vertices carry the outward normal, inner vertices the
// inward one.
func StrokeEllipse(e valora.Ellipse, thickness float64, colorer valora.Colorer) (Tessellation, error) {
	if err := checkThickness(thickness); err != nil {
		return Tessellation{}, err
	}
	rx, ry, err := checkEllipse(e)
	if err != nil {
		return Tessellation{}, err
	}
	rim, normals := ellipseRim(e, rx, ry)
	n := len(rim)
	half := thickness / 2

	b := newBuilder(colorer, 2*n, 6*n)
	for i := range rim {
		b.vertex(rim[i].Add(normals[i].Mul(half)), normals[i])
		b.vertex(rim[i].Sub(normals[i].Mul(half)), normals[i].Mul(-1))
	}
	ring(b, uint32(n))
	return b.t, nil
}

// ring emits two triangles per segment of a closed strip whose vertices are
// laid out as (outer, inner) pairs.
func ring(b *builder, n uint32) {
	for i := range n {
		j := (i + 1) % n
		oi, ii := 2*i, 2*i+1
		oj, ij := 2*j, 2*j+1
		b.triangle(oi, ii, oj)
		b.triangle(oj, ii, ij)
	}
}
