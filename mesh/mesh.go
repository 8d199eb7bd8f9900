// Package mesh describes renderable geometry: a shape, how to draw it,
// how to color it, and an optional scale animated over frames.
//
// A Mesh is either pre-tessellated (FromTessellation) or tessellates lazily
// on first use and caches the result:
//
//	disc := mesh.Fill(valora.Circle(valora.Pt(0.5, 0.5), 0.2), valora.Solid(valora.Red)).
//	    WithScale(tween.Oscillation{Min: 0.8, Max: 1.2, Period: 60})
package mesh

import (
	"fmt"

	"github.com/gogpu/valora"
	"github.com/gogpu/valora/tessellation"
	"github.com/gogpu/valora/tween"
)

// DrawMode selects between filling a shape and stroking its outline.
type DrawMode struct {
	// Stroke is true for outline geometry.
	Stroke bool
	// Width is the stroke width in normalized frame units.
	Width float64
}

// Filled draws the interior of a shape.
var Filled = DrawMode{}

// Stroked draws the outline of a shape at the given width.
func Stroked(width float64) DrawMode {
	return DrawMode{Stroke: true, Width: width}
}

// String implements fmt.Stringer.
func (m DrawMode) String() string {
	if m.Stroke {
		return fmt.Sprintf("stroke(%g)", m.Width)
	}
	return "fill"
}

// Mesh is a shape's renderable geometry plus an optional frame-animated
// scale. The zero Scale means a constant scale of 1.
//
// Mesh is not safe for concurrent use.
type Mesh struct {
	shape   any
	mode    DrawMode
	colorer valora.Colorer

	tess *tessellation.Tessellation

	// Scale is evaluated once per frame and applied about the frame center.
	Scale tween.Tween
}

// New returns a mesh that tessellates shape with mode and colorer on first
// use. shape must be a valora.Ellipser or a valora.Poly.
func New(shape any, mode DrawMode, colorer valora.Colorer) *Mesh {
	return &Mesh{shape: shape, mode: mode, colorer: colorer}
}

// Fill returns a lazily tessellated filled mesh.
func Fill(shape any, colorer valora.Colorer) *Mesh {
	return New(shape, Filled, colorer)
}

// Stroke returns a lazily tessellated outline mesh.
func Stroke(shape any, width float64, colorer valora.Colorer) *Mesh {
	return New(shape, Stroked(width), colorer)
}

// FromTessellation wraps an existing tessellation. The mesh takes ownership
// of t.
func FromTessellation(t tessellation.Tessellation) *Mesh {
	return &Mesh{tess: &t}
}

// FullFrame returns a mesh covering the whole output with a single color.
func FullFrame(colorer valora.Colorer) *Mesh {
	return Fill(valora.Frame(), colorer)
}

// WithScale sets the scale tween and returns m for chaining.
func (m *Mesh) WithScale(t tween.Tween) *Mesh {
	m.Scale = t
	return m
}

// WithColorer replaces the colorer and returns m for chaining.
// A cached tessellation is discarded if the mesh has a shape to rebuild it
// from.
func (m *Mesh) WithColorer(c valora.Colorer) *Mesh {
	m.colorer = c
	if m.shape != nil {
		m.tess = nil
	}
	return m
}

// Mode returns how the mesh draws its shape.
func (m *Mesh) Mode() DrawMode { return m.mode }

// Shape returns the source shape, or nil for pre-tessellated meshes.
func (m *Mesh) Shape() any { return m.shape }

// Tessellated reports whether geometry has been built.
func (m *Mesh) Tessellated() bool { return m.tess != nil }

// Tessellation returns the mesh geometry, building and caching it on the
// first call.
func (m *Mesh) Tessellation() (tessellation.Tessellation, error) {
	if m.tess != nil {
		return *m.tess, nil
	}
	if m.shape == nil {
		return tessellation.Tessellation{}, fmt.Errorf("mesh: no shape to tessellate: %w", tessellation.ErrDegenerateShape)
	}

	var (
		t   tessellation.Tessellation
		err error
	)
	if m.mode.Stroke {
		t, err = tessellation.Stroke(m.shape, m.mode.Width, m.colorer)
	} else {
		t, err = tessellation.Fill(m.shape, m.colorer)
	}
	if err != nil {
		return tessellation.Tessellation{}, fmt.Errorf("mesh: %s: %w", m.mode, err)
	}
	m.tess = &t
	return t, nil
}

// ScaleAt evaluates the scale tween at frame. A nil Scale yields 1.
func (m *Mesh) ScaleAt(frame int) float64 {
	return tween.Of(m.Scale, 1).Tween(frame)
}

// Clone returns an independent copy of m, including any cached geometry.
// The scale tween and colorer are shared; both are pure.
func (m *Mesh) Clone() *Mesh {
	c := *m
	if m.tess != nil {
		t := m.tess.Clone()
		c.tess = &t
	}
	return &c
}
