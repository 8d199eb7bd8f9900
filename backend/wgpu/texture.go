// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/wgpu/hal"
)

// texelSize is the byte size of one RGBA32Float texel.
const texelSize = 16

// rowAlignment is the required BytesPerRow alignment for texture copies.
const rowAlignment = 256

const textureUsage = gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageCopyDst

// Texture is an RGBA32Float device texture.
type Texture struct {
	dev      *Device
	label    string
	width    int
	height   int
	mips     int
	tex      hal.Texture
	view     hal.TextureView // mip level 0
	released bool
}

var _ gpu.Texture = (*Texture)(nil)

// CreateTexture allocates a transparent texture.
func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	t, err := d.newTexture(desc)
	if err != nil {
		return nil, err
	}
	if err := t.Clear(valora.Transparent); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func (d *Device) newTexture(desc gpu.TextureDescriptor) (*Texture, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: uint32(desc.MipLevelCount),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gpu.RenderFormat,
		Usage:         textureUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           desc.Label + "_view",
		Format:          gpu.RenderFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view %q: %w", desc.Label, err)
	}
	return &Texture{
		dev:    d,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		mips:   desc.MipLevelCount,
		tex:    tex,
		view:   view,
	}, nil
}

func (t *Texture) Width() int                     { return t.width }
func (t *Texture) Height() int                    { return t.height }
func (t *Texture) Label() string                  { return t.label }
func (t *Texture) Format() gputypes.TextureFormat { return gpu.RenderFormat }
func (t *Texture) MipLevelCount() int             { return t.mips }
func (t *Texture) Released() bool                 { return t.released }

// Clear fills mip level 0 with the premultiplied form of c.
func (t *Texture) Clear(c valora.RGBA) error {
	if t.released {
		return fmt.Errorf("wgpu: clear %q: %w", t.label, gpu.ErrTextureReleased)
	}
	p := c.Premultiply()
	return t.dev.encode("clear", func(encoder hal.CommandEncoder) error {
		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "clear_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       t.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: p.R, G: p.G, B: p.B, A: p.A},
			}},
		})
		rp.End()
		return nil
	})
}

// Release destroys the texture.
func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	if t.dev.device == nil {
		return
	}
	t.dev.device.DestroyTextureView(t.view)
	t.dev.device.DestroyTexture(t.tex)
}

func (d *Device) asTexture(t gpu.Texture) (*Texture, error) {
	if t == nil {
		return nil, nil
	}
	wt, ok := t.(*Texture)
	if !ok || wt.dev != d {
		return nil, fmt.Errorf("%w: texture %T", ErrForeignResource, t)
	}
	return wt, nil
}

// alignedRow returns the padded byte length of a texture row.
func alignedRow(width int) uint32 {
	row := uint32(width * texelSize)
	return (row + rowAlignment - 1) &^ (rowAlignment - 1)
}

// ReadPixels copies mip level 0 of t into a staging buffer and decodes it.
func (d *Device) ReadPixels(t gpu.Texture) ([]float32, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	wt, err := d.asTexture(t)
	if err != nil {
		return nil, err
	}
	if wt == nil {
		return nil, fmt.Errorf("wgpu: read pixels: nil texture")
	}
	if wt.released {
		return nil, fmt.Errorf("wgpu: read %q: %w", wt.label, gpu.ErrTextureReleased)
	}

	w, h := uint32(wt.width), uint32(wt.height)
	bytesPerRow := w * texelSize
	stride := alignedRow(wt.width)
	size := uint64(stride) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "readback_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	err = d.encode("readback", func(encoder hal.CommandEncoder) error {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: wt.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		}})
		encoder.CopyTextureToBuffer(wt.tex, staging, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: stride, RowsPerImage: h},
			TextureBase:  hal.ImageCopyTexture{Texture: wt.tex, MipLevel: 0},
			Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		}})
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: wt.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopySrc,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		}})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: read %q: %w", wt.label, err)
	}

	readback := make([]byte, size)
	if err := d.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("wgpu: readback: %w", err)
	}
	return decodeRows(readback, int(bytesPerRow), int(stride), int(h)), nil
}

// decodeRows strips row padding and decodes little-endian float32s.
func decodeRows(data []byte, bytesPerRow, stride, rows int) []float32 {
	out := make([]float32, 0, bytesPerRow/4*rows)
	for y := range rows {
		row := data[y*stride : y*stride+bytesPerRow]
		for i := 0; i+4 <= len(row); i += 4 {
			out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(row[i:])))
		}
	}
	return out
}
