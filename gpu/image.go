// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/valora"
)

// ToNRGBA converts premultiplied RGBA float pixels, as returned by
// Device.ReadPixels, to an 8-bit straight-alpha image.
func ToNRGBA(pixels []float32, w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	if len(pixels) != w*h*4 {
		return nil, fmt.Errorf("gpu: %d floats for a %dx%d image, want %d", len(pixels), w, h, w*h*4)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			i := (y*w + x) * 4
			c := valora.FromVec4([4]float32{pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]})
			img.SetNRGBA(x, y, c.Unpremultiply().NRGBA())
		}
	}
	return img, nil
}
