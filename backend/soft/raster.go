// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"math"

	"github.com/gogpu/valora"
	"github.com/gogpu/valora/tessellation"
)

// rasterVertex is a vertex after the vertex stage, in pixel space.
type rasterVertex struct {
	x, y  float64
	color valora.RGBA
}

// fragmentFunc shades one covered pixel. p is the pixel center in
// normalized frame space and c the interpolated straight-alpha vertex
// color. It returns premultiplied color.
type fragmentFunc func(p valora.Point, c valora.RGBA) valora.RGBA

// vertexStage applies the mesh scale about the frame center and maps to
// pixel space.
func vertexStage(v tessellation.Vertex, scale float64, w, h int) rasterVertex {
	px := (float64(v.Position[0])-0.5)*scale + 0.5
	py := (float64(v.Position[1])-0.5)*scale + 0.5
	return rasterVertex{
		x:     px * float64(w),
		y:     py * float64(h),
		color: valora.FromVec4(v.Color),
	}
}

func orient(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether edge a->b owns pixels lying exactly on it, for a
// triangle with positive orientation in y-down pixel space.
func topLeft(a, b rasterVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return (dy == 0 && dx > 0) || dy < 0
}

func covers(w float64, owns bool) bool {
	return w > 0 || (w == 0 && owns)
}

// rasterTriangle shades every pixel whose center lies inside v0 v1 v2 and
// blends the result source-over into dst.
func rasterTriangle(dst *Texture, v0, v1, v2 rasterVertex, shade fragmentFunc) int {
	area := orient(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 || math.IsNaN(area) {
		return 0
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	minX := max(int(math.Floor(min(v0.x, v1.x, v2.x))), 0)
	minY := max(int(math.Floor(min(v0.y, v1.y, v2.y))), 0)
	maxX := min(int(math.Ceil(max(v0.x, v1.x, v2.x))), dst.width-1)
	maxY := min(int(math.Ceil(max(v0.y, v1.y, v2.y))), dst.height-1)

	own0, own1, own2 := topLeft(v1, v2), topLeft(v2, v0), topLeft(v0, v1)
	invW, invH := 1/float64(dst.width), 1/float64(dst.height)

	covered := 0
	for y := minY; y <= maxY; y++ {
		cy := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			cx := float64(x) + 0.5
			w0 := orient(v1.x, v1.y, v2.x, v2.y, cx, cy)
			w1 := orient(v2.x, v2.y, v0.x, v0.y, cx, cy)
			w2 := orient(v0.x, v0.y, v1.x, v1.y, cx, cy)
			if !covers(w0, own0) || !covers(w1, own1) || !covers(w2, own2) {
				continue
			}
			b0, b1, b2 := w0/area, w1/area, w2/area
			c := valora.RGBA{
				R: b0*v0.color.R + b1*v1.color.R + b2*v2.color.R,
				G: b0*v0.color.G + b1*v1.color.G + b2*v2.color.G,
				B: b0*v0.color.B + b1*v1.color.B + b2*v2.color.B,
				A: b0*v0.color.A + b1*v1.color.A + b2*v2.color.A,
			}
			blendOver(dst, x, y, shade(valora.Pt(cx*invW, cy*invH), c))
			covered++
		}
	}
	return covered
}

// blendOver composites premultiplied src over the pixel at (x, y).
func blendOver(dst *Texture, x, y int, src valora.RGBA) {
	i := (y*dst.width + x) * 4
	inv := float32(1 - src.A)
	dst.pix[i] = float32(src.R) + dst.pix[i]*inv
	dst.pix[i+1] = float32(src.G) + dst.pix[i+1]*inv
	dst.pix[i+2] = float32(src.B) + dst.pix[i+2]*inv
	dst.pix[i+3] = float32(src.A) + dst.pix[i+3]*inv
}
