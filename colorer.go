package valora

import "math"

// Colorer assigns a color to every point of a shape.
//
// Tessellation calls ColorAt once per emitted vertex with the vertex
// position in normalized frame space, so colors are baked into the mesh and
// interpolated across each triangle by the rasterizer.
//
// Implementations must be pure: the same point always yields the same color.
//
// Available implementations:
//   - SolidColorer: one color everywhere (see Solid)
//   - ColorFunc: user-defined color function
//   - LinearGradient: color transition along a line
//   - RadialGradient: color transition between two circles
type Colorer interface {
	ColorAt(p Point) RGBA
}

// SolidColorer is a Colorer with a single uniform color.
type SolidColorer struct {
	Color RGBA
}

// ColorAt implements Colorer. Returns the solid color regardless of position.
func (s SolidColorer) ColorAt(Point) RGBA {
	return s.Color
}

// Solid creates a Colorer that paints c everywhere.
func Solid(c RGBA) SolidColorer {
	return SolidColorer{Color: c}
}

// SolidHex creates a solid Colorer from a hex color string.
// See Hex for supported formats.
func SolidHex(hex string) SolidColorer {
	return SolidColorer{Color: Hex(hex)}
}

// ColorFunc adapts an ordinary function to the Colorer interface.
//
// Example:
//
//	checker := valora.ColorFunc(func(p valora.Point) valora.RGBA {
//	    if (int(p.X*8)+int(p.Y*8))%2 == 0 {
//	        return valora.Black
//	    }
//	    return valora.White
//	})
type ColorFunc func(p Point) RGBA

// ColorAt implements Colorer.
func (f ColorFunc) ColorAt(p Point) RGBA {
	if f == nil {
		return Transparent
	}
	return f(p)
}

// Checkerboard returns a Colorer alternating c0 and c1 in squares of the
// given size.
func Checkerboard(c0, c1 RGBA, size float64) ColorFunc {
	if size <= 0 {
		size = 1
	}
	return func(p Point) RGBA {
		cx := int(math.Floor(p.X / size))
		cy := int(math.Floor(p.Y / size))
		if (cx+cy)%2 == 0 {
			return c0
		}
		return c1
	}
}
