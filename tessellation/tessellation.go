// Package tessellation converts vector outlines into GPU-ready triangle
// meshes with per-vertex color.
//
// Shapes are either ellipses (valora.Ellipser) or closed vertex outlines
// (valora.Poly). Both can be filled or stroked:
//
//	t, err := tessellation.Fill(valora.Circle(valora.Pt(0.5, 0.5), 0.2), valora.Solid(valora.Red))
//	t, err := tessellation.Stroke(valora.Frame(), 0.01, gradient)
//
// Every emitted vertex is colored by calling the Colorer on the vertex
// position, so gradients are baked into the mesh.
//
// A Tessellation always satisfies:
//   - len(Vertices) == len(Normals)
//   - len(Indices) is a multiple of 3
//   - every index is < len(Vertices)
//
// Tessellation never panics on bad geometry; it reports ErrDegenerateShape,
// ErrTriangulation or ErrInvalidThickness instead.
package tessellation

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/valora"
)

// DefaultTolerance is the maximum deviation between a curve and its
// flattened polyline, in normalized frame units.
const DefaultTolerance = 0.00001

// DefaultMiterLimit is the ratio of miter length to half stroke width
// beyond which a polygon stroke join is clamped.
const DefaultMiterLimit = 4.0

// Segment count bounds for flattened curves.
const (
	minSegments = 8
	maxSegments = 4096
)

// geomEpsilon is the threshold below which lengths and areas are zero.
const geomEpsilon = 1e-12

// Errors returned by tessellation.
var (
	// ErrDegenerateShape is returned for shapes without area (or length, for
	// strokes): too few distinct vertices, zero area, non-positive radii.
	ErrDegenerateShape = errors.New("tessellation: degenerate shape")

	// ErrTriangulation is returned when a polygon outline cannot be
	// triangulated, e.g. because it intersects itself.
	ErrTriangulation = errors.New("tessellation: triangulation failed")

	// ErrInvalidThickness is returned for a non-positive or non-finite
	// stroke width.
	ErrInvalidThickness = errors.New("tessellation: invalid stroke thickness")

	// ErrUnsupportedShape is returned when a shape is neither a
	// valora.Ellipser nor a valora.Poly.
	ErrUnsupportedShape = errors.New("tessellation: unsupported shape")
)

// Vertex is a mesh vertex: position in normalized frame space and
// straight-alpha color. The layout matches the vertex buffer used by the
// GPU backends (2 + 4 float32, 24 bytes).
type Vertex struct {
	Position [2]float32
	Color    [4]float32
}

// VertexStride is the size of a Vertex in a GPU vertex buffer, in bytes.
const VertexStride = 24

// Normal is a unit direction in the XY plane. Fan centers carry the zero
// normal.
type Normal [2]float32

// Tessellation is the triangle mesh produced from a shape.
type Tessellation struct {
	Vertices []Vertex
	Normals  []Normal
	Indices  []uint32
}

// TriangleCount returns the number of triangles.
func (t *Tessellation) TriangleCount() int {
	return len(t.Indices) / 3
}

// Validate checks the structural invariants of the mesh.
func (t *Tessellation) Validate() error {
	if len(t.Vertices) != len(t.Normals) {
		return fmt.Errorf("tessellation: %d vertices but %d normals", len(t.Vertices), len(t.Normals))
	}
	if len(t.Indices)%3 != 0 {
		return fmt.Errorf("tessellation: index count %d is not a multiple of 3", len(t.Indices))
	}
	n := uint32(len(t.Vertices))
	for i, idx := range t.Indices {
		if idx >= n {
			return fmt.Errorf("tessellation: index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// Append merges other into t, offsetting its indices.
func (t *Tessellation) Append(other Tessellation) {
	base := uint32(len(t.Vertices))
	t.Vertices = append(t.Vertices, other.Vertices...)
	t.Normals = append(t.Normals, other.Normals...)
	for _, idx := range other.Indices {
		t.Indices = append(t.Indices, base+idx)
	}
}

// Clone returns a deep copy of t.
func (t Tessellation) Clone() Tessellation {
	return Tessellation{
		Vertices: append([]Vertex(nil), t.Vertices...),
		Normals:  append([]Normal(nil), t.Normals...),
		Indices:  append([]uint32(nil), t.Indices...),
	}
}

// Bounds returns the axis-aligned bounding box of the vertices.
// An empty mesh returns the zero Rect.
func (t *Tessellation) Bounds() valora.Rect {
	if len(t.Vertices) == 0 {
		return valora.Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range t.Vertices {
		x, y := float64(v.Position[0]), float64(v.Position[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return valora.Rect{Min: valora.Pt(minX, minY), Max: valora.Pt(maxX, maxY)}
}

// builder accumulates vertices, coloring each one as it is added.
type builder struct {
	t       Tessellation
	colorer valora.Colorer
}

func newBuilder(colorer valora.Colorer, vertexHint, indexHint int) *builder {
	if colorer == nil {
		colorer = valora.Solid(valora.White)
	}
	return &builder{
		t: Tessellation{
			Vertices: make([]Vertex, 0, vertexHint),
			Normals:  make([]Normal, 0, vertexHint),
			Indices:  make([]uint32, 0, indexHint),
		},
		colorer: colorer,
	}
}

// vertex adds a vertex and returns its index.
func (b *builder) vertex(p, normal valora.Point) uint32 {
	idx := uint32(len(b.t.Vertices))
	b.t.Vertices = append(b.t.Vertices, Vertex{
		Position: p.Vec2(),
		Color:    b.colorer.ColorAt(p).Vec4(),
	})
	b.t.Normals = append(b.t.Normals, Normal(normal.Vec2()))
	return idx
}

func (b *builder) triangle(i0, i1, i2 uint32) {
	b.t.Indices = append(b.t.Indices, i0, i1, i2)
}

// Fill triangulates the filled interior of shape.
//
// Circles use a center fan, general ellipses a rotated fan and outlines
// ear-clipping triangulation of the closed polygon. A nil colorer paints
// white.
func Fill(shape any, colorer valora.Colorer) (Tessellation, error) {
	switch s := shape.(type) {
	case valora.Ellipser:
		return FillEllipse(s.Ellipse(), colorer)
	case valora.Poly:
		return FillPolygon(s.Vertices(), colorer)
	default:
		return Tessellation{}, fmt.Errorf("tessellation: fill %T: %w", shape, ErrUnsupportedShape)
	}
}

// Stroke builds outline geometry of the given width around shape.
// Polygon strokes are always closed.
func Stroke(shape any, thickness float64, colorer valora.Colorer) (Tessellation, error) {
	switch s := shape.(type) {
	case valora.Ellipser:
		return StrokeEllipse(s.Ellipse(), thickness, colorer)
	case valora.Poly:
		return StrokePolygon(s.Vertices(), thickness, colorer)
	default:
		return Tessellation{}, fmt.Errorf("tessellation: stroke %T: %w", shape, ErrUnsupportedShape)
	}
}

func checkThickness(thickness float64) error {
	if !(thickness > 0) || math.IsInf(thickness, 0) {
		return fmt.Errorf("tessellation: width %v: %w", thickness, ErrInvalidThickness)
	}
	return nil
}
