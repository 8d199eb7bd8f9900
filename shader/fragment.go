package shader

import "github.com/gogpu/valora"

// Sampler reads a texture with linear filtering at a point in normalized
// frame space.
type Sampler interface {
	Sample(p valora.Point) valora.RGBA
}

// FragmentInput is the data available to a CPU fragment function for one
// pixel.
type FragmentInput struct {
	// Position is the pixel center in normalized frame space.
	Position valora.Point
	// Color is the interpolated vertex color.
	Color valora.RGBA
	// Frame is the frame being rendered.
	Frame int
	// Width and Height are the render target dimensions in pixels.
	Width, Height int
	// Secondary reads the previous composite. Nil when unavailable.
	Secondary Sampler
}

// FragmentFunc computes the straight-alpha output color of one pixel.
type FragmentFunc func(in FragmentInput) valora.RGBA
