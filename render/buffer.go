// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/mesh"
	"github.com/gogpu/valora/shader"
)

// Role names a texture of a Buffer.
type Role int

const (
	// Front is written by layer draws and sampled by the blitter.
	Front Role = iota
	// Back holds the composite before the current layer.
	Back
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Buffer is a double-buffered render target.
type Buffer struct {
	dev      gpu.Device
	width    int
	height   int
	textures [2]gpu.Texture
	front    int

	// blitters[i] samples textures[i].
	blitters [2]DrawCommand
}

// ProduceBuffer allocates two width×height RGBA32Float textures with a
// full mip chain, both transparent.
func ProduceBuffer(width, height int, dev gpu.Device) (*Buffer, error) {
	if dev == nil {
		return nil, gpu.ErrNilDevice
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: buffer: %w: %dx%d", gpu.ErrInvalidDimensions, width, height)
	}

	b := &Buffer{dev: dev, width: width, height: height}
	for i, role := range []Role{Front, Back} {
		tex, err := dev.CreateTexture(gpu.TextureDescriptor{
			Label:         "render_" + role.String(),
			Width:         width,
			Height:        height,
			Format:        gpu.RenderFormat,
			MipLevelCount: gpu.MipLevels(width, height),
		})
		if err != nil {
			b.Release()
			return nil, fmt.Errorf("render: buffer %v texture: %w", role, err)
		}
		if err := tex.Clear(valora.Transparent); err != nil {
			tex.Release()
			b.Release()
			return nil, fmt.Errorf("render: buffer %v clear: %w", role, err)
		}
		b.textures[i] = tex
	}

	frame := mesh.FullFrame(valora.Solid(valora.White))
	for i, tex := range b.textures {
		s, err := gpu.ProduceShader(shader.Texture{Source: tex}, dev)
		if err != nil {
			b.Release()
			return nil, fmt.Errorf("render: blitter: %w", err)
		}
		m, err := gpu.ProduceMesh(frame, dev)
		if err != nil {
			s.Release()
			b.Release()
			return nil, fmt.Errorf("render: blitter: %w", err)
		}
		b.blitters[i] = DrawCommand{Shader: s, Mesh: m}
	}
	return b, nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Texture returns the texture playing role.
func (b *Buffer) Texture(role Role) gpu.Texture {
	if role == Front {
		return b.textures[b.front]
	}
	return b.textures[1-b.front]
}

// Front returns the texture layers draw into.
func (b *Buffer) Front() gpu.Texture { return b.Texture(Front) }

// Back returns the texture layers read from.
func (b *Buffer) Back() gpu.Texture { return b.Texture(Back) }

// Swap exchanges the Front and Back roles.
func (b *Buffer) Swap() { b.front = 1 - b.front }

// Sync copies Front into Back.
func (b *Buffer) Sync() error {
	return b.dev.Blit(b.Back(), b.Front(), gputypes.FilterModeLinear)
}

// Blitter returns the command that samples Front across the frame.
func (b *Buffer) Blitter() DrawCommand { return b.blitters[b.front] }

// Release frees both textures and the blitters.
func (b *Buffer) Release() {
	for i := range b.blitters {
		b.blitters[i].release()
		b.blitters[i] = DrawCommand{}
	}
	for i, tex := range b.textures {
		if tex != nil {
			tex.Release()
			b.textures[i] = nil
		}
	}
}
