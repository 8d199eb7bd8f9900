package sketch

import (
	"fmt"
	"math/rand/v2"

	"github.com/gogpu/valora"
	"github.com/gogpu/valora/composition"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/shader"
)

// Context describes the sketch being composed.
type Context struct {
	// Width and Height are the logical view pane size.
	Width  float64
	Height float64
	Seed   uint64
	Frames int
	// Frame is the frame being rendered. It is 0 during Compose.
	Frame int
}

// NewContext returns the context for o.
func NewContext(o Options) *Context {
	return &Context{
		Width:  float64(o.Width),
		Height: float64(o.Height),
		Seed:   o.Seed,
		Frames: o.Frames,
	}
}

// Normalize maps a point in pane pixels to frame space.
func (c *Context) Normalize(p valora.Point) valora.Point {
	return valora.Pt(p.X/c.Width, p.Y/c.Height)
}

// Center returns the pane center in pixels.
func (c *Context) Center() valora.Point {
	return valora.Pt(c.Width/2, c.Height/2)
}

// FullFrame returns the whole pane in frame space.
func (c *Context) FullFrame() valora.Rect { return valora.Frame() }

// Aspect returns Width / Height.
func (c *Context) Aspect() float64 { return c.Width / c.Height }

// BuildShader returns a program shader for a WGSL fragment stage. The
// stage is appended to gpu.ProgramPrelude and must compile.
func (c *Context) BuildShader(label, fragment string) (shader.Program, error) {
	src := gpu.ProgramSource(fragment)
	if err := gpu.ValidateWGSL(src); err != nil {
		return shader.Program{}, fmt.Errorf("sketch: shader %q: %w", label, err)
	}
	return shader.Program{Label: label, WGSL: fragment}, nil
}

// NewRand returns the generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Composer builds the composition of a sketch.
type Composer interface {
	Compose(ctx *Context, rng *rand.Rand) (*composition.Composition, error)
}

// ComposerFunc adapts a function to Composer.
type ComposerFunc func(ctx *Context, rng *rand.Rand) (*composition.Composition, error)

// Compose calls f.
func (f ComposerFunc) Compose(ctx *Context, rng *rand.Rand) (*composition.Composition, error) {
	return f(ctx, rng)
}
