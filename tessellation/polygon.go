package tessellation

import (
	"fmt"
	"math"

	"github.com/gogpu/valora"
)

// cleanOutline drops consecutive duplicate vertices, including a closing
// vertex that repeats the first.
func cleanOutline(pts []valora.Point) []valora.Point {
	out := make([]valora.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && p.Equal(out[len(out)-1], geomEpsilon) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Equal(out[0], geomEpsilon) {
		out = out[:len(out)-1]
	}
	return out
}

// signedArea returns twice the signed area of the closed outline.
// Positive for counter-clockwise winding in a Y-up frame.
func signedArea(pts []valora.Point) float64 {
	var a float64
	for i := range pts {
		a += pts[i].Cross(pts[(i+1)%len(pts)])
	}
	return a
}

// outwardNormal returns the unit normal of edge a→b pointing away from the
// interior of a positively oriented outline.
func outwardNormal(a, b valora.Point) valora.Point {
	d := b.Sub(a)
	return valora.Pt(d.Y, -d.X).Normalize()
}

// segmentsCross reports whether segments p1p2 and q1q2 intersect, touching
// included.
func segmentsCross(p1, p2, q1, q2 valora.Point) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func orient(a, b, c valora.Point) float64 {
	v := b.Sub(a).Cross(c.Sub(a))
	if math.Abs(v) < geomEpsilon {
		return 0
	}
	return v
}

func onSegment(a, b, p valora.Point) bool {
	return p.X >= math.Min(a.X, b.X)-geomEpsilon && p.X <= math.Max(a.X, b.X)+geomEpsilon &&
		p.Y >= math.Min(a.Y, b.Y)-geomEpsilon && p.Y <= math.Max(a.Y, b.Y)+geomEpsilon
}

// selfIntersects reports whether any two non-adjacent edges of the closed
// outline touch.
func selfIntersects(pts []valora.Point) bool {
	n := len(pts)
	for i := range n {
		a1, a2 := pts[i], pts[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the closing edge
			}
			if segmentsCross(a1, a2, pts[j], pts[(j+1)%n]) {
				return true
			}
		}
	}
	return false
}

// FillPolygon triangulates the closed outline pts by ear clipping.
// Either winding is accepted. Rim vertices carry the outward vertex normal
// (the bisector of the adjacent edge normals).
func FillPolygon(pts []valora.Point, colorer valora.Colorer) (Tessellation, error) {
	outline := cleanOutline(pts)
	if len(outline) < 3 {
		return Tessellation{}, fmt.Errorf("tessellation: polygon with %d distinct vertices: %w", len(outline), ErrDegenerateShape)
	}
	if selfIntersects(outline) {
		return Tessellation{}, fmt.Errorf("tessellation: polygon intersects itself: %w", ErrTriangulation)
	}
	area := signedArea(outline)
	if math.Abs(area) < geomEpsilon {
		return Tessellation{}, fmt.Errorf("tessellation: polygon has zero area: %w", ErrDegenerateShape)
	}
	if area < 0 {
		outline = reversed(outline)
	}

	n := len(outline)
	b := newBuilder(colorer, n, 3*(n-2))
	for i, p := range outline {
		prev, next := outline[(i+n-1)%n], outline[(i+1)%n]
		normal := outwardNormal(prev, p).Add(outwardNormal(p, next)).Normalize()
		b.vertex(p, normal)
	}

	if err := earClip(b, outline); err != nil {
		return Tessellation{}, err
	}
	return b.t, nil
}

func reversed(pts []valora.Point) []valora.Point {
	out := make([]valora.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// earClip triangulates a positively oriented simple polygon whose vertices
// are already in b at indices 0..n-1.
func earClip(b *builder, pts []valora.Point) error {
	remaining := make([]int, len(pts))
	for i := range remaining {
		remaining[i] = i
	}

	for len(remaining) > 3 {
		m := len(remaining)
		clipped := false
		for k := 0; k < m; k++ {
			ip, ic, in := remaining[(k+m-1)%m], remaining[k], remaining[(k+1)%m]
			a, c, d := pts[ip], pts[ic], pts[in]
			turn := c.Sub(a).Cross(d.Sub(c))
			if math.Abs(turn) < geomEpsilon {
				// Collinear vertex contributes no area.
				remaining = append(remaining[:k], remaining[k+1:]...)
				clipped = true
				break
			}
			if turn < 0 || !isEar(pts, remaining, ip, ic, in) {
				continue
			}
			b.triangle(uint32(ip), uint32(ic), uint32(in))
			remaining = append(remaining[:k], remaining[k+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return fmt.Errorf("tessellation: no ear among %d vertices: %w", m, ErrTriangulation)
		}
	}

	a, c, d := pts[remaining[0]], pts[remaining[1]], pts[remaining[2]]
	if math.Abs(c.Sub(a).Cross(d.Sub(c))) >= geomEpsilon {
		b.triangle(uint32(remaining[0]), uint32(remaining[1]), uint32(remaining[2]))
	}
	if len(b.t.Indices) == 0 {
		return fmt.Errorf("tessellation: polygon produced no triangles: %w", ErrDegenerateShape)
	}
	return nil
}

// isEar reports whether no other remaining vertex lies inside triangle
// (ip, ic, in).
func isEar(pts []valora.Point, remaining []int, ip, ic, in int) bool {
	a, c, d := pts[ip], pts[ic], pts[in]
	for _, j := range remaining {
		if j == ip || j == ic || j == in {
			continue
		}
		p := pts[j]
		if p.Equal(a, geomEpsilon) || p.Equal(c, geomEpsilon) || p.Equal(d, geomEpsilon) {
			continue
		}
		if orient(a, c, p) >= 0 && orient(c, d, p) >= 0 && orient(d, a, p) >= 0 {
			return false
		}
	}
	return true
}

// StrokePolygon builds a closed stroke of the given width around pts.
//
// Joins are mitered. When the miter would exceed DefaultMiterLimit times
// the half width it is clamped to that length. A two-point outline strokes
// as a single segment.
func StrokePolygon(pts []valora.Point, thickness float64, colorer valora.Colorer) (Tessellation, error) {
	if err := checkThickness(thickness); err != nil {
		return Tessellation{}, err
	}
	outline := cleanOutline(pts)
	if len(outline) < 2 {
		return Tessellation{}, fmt.Errorf("tessellation: stroke with %d distinct vertices: %w", len(outline), ErrDegenerateShape)
	}
	half := thickness / 2

	if len(outline) == 2 {
		return strokeSegment(outline[0], outline[1], half, colorer), nil
	}
	if signedArea(outline) < 0 {
		outline = reversed(outline)
	}

	n := len(outline)
	b := newBuilder(colorer, 2*n, 6*n)
	for i, p := range outline {
		prev, next := outline[(i+n-1)%n], outline[(i+1)%n]
		miter, length := miterJoin(outwardNormal(prev, p), outwardNormal(p, next), half)
		b.vertex(p.Add(miter.Mul(length)), miter)
		b.vertex(p.Sub(miter.Mul(length)), miter.Mul(-1))
	}
	ring(b, uint32(n))
	return b.t, nil
}

// miterJoin returns the unit miter direction for adjacent edge normals n0
// and n1 and the offset length along it.
func miterJoin(n0, n1 valora.Point, half float64) (valora.Point, float64) {
	sum := n0.Add(n1)
	if sum.Length() < geomEpsilon {
		// Edges fold back on each other.
		return n1, half * DefaultMiterLimit
	}
	miter := sum.Normalize()
	cos := miter.Dot(n0)
	if cos*DefaultMiterLimit < 1 {
		return miter, half * DefaultMiterLimit
	}
	return miter, half / cos
}

// strokeSegment emits a quad covering segment a→b at the given half width.
func strokeSegment(a, c valora.Point, half float64, colorer valora.Colorer) Tessellation {
	normal := outwardNormal(a, c)
	off := normal.Mul(half)
	b := newBuilder(colorer, 4, 6)
	b.vertex(a.Add(off), normal)
	b.vertex(a.Sub(off), normal.Mul(-1))
	b.vertex(c.Add(off), normal)
	b.vertex(c.Sub(off), normal.Mul(-1))
	b.triangle(0, 1, 2)
	b.triangle(2, 1, 3)
	return b.t
}
