// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/shader"
)

// Texture is a float32 render target. Pixels are premultiplied RGBA,
// row-major.
//
// Texture implements draw.Image and image.RGBA64Image so it can be used
// with golang.org/x/image/draw. Sample implements shader.Sampler.
type Texture struct {
	label    string
	width    int
	height   int
	mips     int
	pix      []float32
	released bool
}

var (
	_ gpu.Texture       = (*Texture)(nil)
	_ shader.Sampler    = (*Texture)(nil)
	_ image.RGBA64Image = (*Texture)(nil)
)

func newTexture(desc gpu.TextureDescriptor) *Texture {
	return &Texture{
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		mips:   desc.MipLevelCount,
		pix:    make([]float32, desc.Width*desc.Height*4),
	}
}

// Width returns the width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the height in pixels.
func (t *Texture) Height() int { return t.height }

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// Format returns gpu.RenderFormat.
func (t *Texture) Format() gputypes.TextureFormat { return gpu.RenderFormat }

// MipLevelCount returns the mip chain length the texture was created with.
// Only level 0 is stored.
func (t *Texture) MipLevelCount() int { return t.mips }

// Released reports whether Release was called.
func (t *Texture) Released() bool { return t.released }

// Release frees the pixel storage.
func (t *Texture) Release() {
	t.released = true
	t.pix = nil
}

// Clear fills the texture with c.
func (t *Texture) Clear(c valora.RGBA) error {
	if t.released {
		return gpu.ErrTextureReleased
	}
	p := c.Premultiply().Vec4()
	for i := 0; i < len(t.pix); i += 4 {
		copy(t.pix[i:i+4], p[:])
	}
	return nil
}

// Pixel returns the straight-alpha color at (x, y).
func (t *Texture) Pixel(x, y int) valora.RGBA {
	return t.texel(x, y).Unpremultiply()
}

func (t *Texture) texel(x, y int) valora.RGBA {
	if t.released || x < 0 || y < 0 || x >= t.width || y >= t.height {
		return valora.Transparent
	}
	i := (y*t.width + x) * 4
	return valora.RGBA{
		R: float64(t.pix[i]),
		G: float64(t.pix[i+1]),
		B: float64(t.pix[i+2]),
		A: float64(t.pix[i+3]),
	}
}

func (t *Texture) clampTexel(x, y int) valora.RGBA {
	return t.texel(min(max(x, 0), t.width-1), min(max(y, 0), t.height-1))
}

// samplePremul filters the texture bilinearly with clamp-to-edge
// addressing at p in normalized frame space.
func (t *Texture) samplePremul(p valora.Point) valora.RGBA {
	if t.released || t.width == 0 || t.height == 0 {
		return valora.Transparent
	}
	u := clamp01(p.X)*float64(t.width) - 0.5
	v := clamp01(p.Y)*float64(t.height) - 0.5
	x0, y0 := math.Floor(u), math.Floor(v)
	fx, fy := u-x0, v-y0
	ix, iy := int(x0), int(y0)

	a := t.clampTexel(ix, iy)
	b := t.clampTexel(ix+1, iy)
	c := t.clampTexel(ix, iy+1)
	d := t.clampTexel(ix+1, iy+1)
	return a.Lerp(b, fx).Lerp(c.Lerp(d, fx), fy)
}

// Sample returns the straight-alpha bilinear sample at p.
func (t *Texture) Sample(p valora.Point) valora.RGBA {
	return t.samplePremul(p).Unpremultiply()
}

// ColorModel implements image.Image.
func (t *Texture) ColorModel() color.Model { return color.RGBA64Model }

// Bounds implements image.Image.
func (t *Texture) Bounds() image.Rectangle { return image.Rect(0, 0, t.width, t.height) }

// At implements image.Image.
func (t *Texture) At(x, y int) color.Color { return t.RGBA64At(x, y) }

// RGBA64At implements image.RGBA64Image. Components are clamped to [0, 1].
func (t *Texture) RGBA64At(x, y int) color.RGBA64 {
	c := t.texel(x, y)
	return color.RGBA64{
		R: unitToUint16(c.R),
		G: unitToUint16(c.G),
		B: unitToUint16(c.B),
		A: unitToUint16(c.A),
	}
}

// Set implements draw.Image.
func (t *Texture) Set(x, y int, c color.Color) {
	r, g, b, a := c.RGBA()
	t.SetRGBA64(x, y, color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: uint16(a)})
}

// SetRGBA64 implements draw.RGBA64Image.
func (t *Texture) SetRGBA64(x, y int, c color.RGBA64) {
	if t.released || x < 0 || y < 0 || x >= t.width || y >= t.height {
		return
	}
	i := (y*t.width + x) * 4
	t.pix[i] = float32(c.R) / 0xffff
	t.pix[i+1] = float32(c.G) / 0xffff
	t.pix[i+2] = float32(c.B) / 0xffff
	t.pix[i+3] = float32(c.A) / 0xffff
}

func unitToUint16(x float64) uint16 {
	return uint16(clamp01(x)*0xffff + 0.5)
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
