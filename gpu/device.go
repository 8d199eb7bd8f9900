// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora"
	"github.com/gogpu/valora/shader"
	"github.com/gogpu/valora/tessellation"
)

// Resource errors.
var (
	// ErrInvalidDimensions is returned for zero or negative texture sizes.
	ErrInvalidDimensions = errors.New("gpu: invalid dimensions")

	// ErrUnsupportedFormat is returned for texture formats a backend cannot store.
	ErrUnsupportedFormat = errors.New("gpu: unsupported texture format")

	// ErrNilDevice is returned when a factory is given no device.
	ErrNilDevice = errors.New("gpu: nil device")

	// ErrShaderCompile is returned when a program cannot be built.
	ErrShaderCompile = errors.New("gpu: shader compilation failed")

	// ErrUnknownShader is returned for shader variants or sources a device
	// does not recognize.
	ErrUnknownShader = errors.New("gpu: unknown shader")

	// ErrTextureReleased is returned when drawing with a released texture.
	ErrTextureReleased = errors.New("gpu: texture has been released")

	// ErrFeedbackLoop is returned when a draw reads and writes the same texture.
	ErrFeedbackLoop = errors.New("gpu: target is also bound for reading")

	// ErrEmptyMesh is returned when a mesh has no triangles.
	ErrEmptyMesh = errors.New("gpu: mesh has no triangles")
)

// RenderFormat is the format of every render target.
const RenderFormat = gputypes.TextureFormatRGBA32Float

// Device creates and operates on GPU resources.
//
// Devices are not safe for concurrent use unless the backend says otherwise.
type Device interface {
	// Name identifies the backend for logs.
	Name() string

	// CreateTexture allocates a render target cleared to transparent.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// CreateMesh uploads a tessellation.
	CreateMesh(t tessellation.Tessellation) (MeshBuffer, error)

	// CreateProgram builds a program from its descriptor.
	CreateProgram(desc ProgramDescriptor) (Program, error)

	// Draw rasterizes a mesh into the call's target, blending
	// premultiplied source-over.
	Draw(call DrawCall) error

	// Blit replaces the contents of dst with src resampled to dst's size.
	Blit(dst, src Texture, filter gputypes.FilterMode) error

	// ReadPixels returns the premultiplied RGBA contents of t, row-major,
	// four floats per pixel.
	ReadPixels(t Texture) ([]float32, error)
}

// Texture is a device texture. Texture satisfies shader.Source so it can be
// sampled by a shader.Texture.
type Texture interface {
	shader.Source

	Label() string
	Format() gputypes.TextureFormat
	MipLevelCount() int

	// Clear fills mip level 0 with c.
	Clear(c valora.RGBA) error

	// Release frees the texture. Further draws with it fail with
	// ErrTextureReleased.
	Release()
	Released() bool
}

// MeshBuffer is an uploaded tessellation.
type MeshBuffer interface {
	VertexCount() int
	IndexCount() int
	Release()
}

// Program is a compiled shader program.
type Program interface {
	Label() string
	Kind() ProgramKind
	Release()
}

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	Label  string
	Width  int
	Height int

	// Format defaults to RenderFormat when left undefined.
	Format gputypes.TextureFormat

	// MipLevelCount defaults to 1. Use MipLevels for a full chain.
	MipLevelCount int
}

// Validate checks the descriptor and fills in defaults.
func (d *TextureDescriptor) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, d.Width, d.Height)
	}
	if d.Format == gputypes.TextureFormatUndefined {
		d.Format = RenderFormat
	}
	if d.Format != RenderFormat {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, d.Format)
	}
	maxLevels := MipLevels(d.Width, d.Height)
	switch {
	case d.MipLevelCount <= 0:
		d.MipLevelCount = 1
	case d.MipLevelCount > maxLevels:
		d.MipLevelCount = maxLevels
	}
	return nil
}

// MipLevels returns the length of a full mip chain for a w×h texture.
func MipLevels(w, h int) int {
	return bits.Len(uint(max(w, h, 1)))
}

// ProgramKind distinguishes built-in programs from custom ones.
type ProgramKind int

const (
	// ProgramVertexColor draws with interpolated vertex colors.
	ProgramVertexColor ProgramKind = iota
	// ProgramTexture samples the source texture at the fragment position.
	ProgramTexture
	// ProgramCustom runs user WGSL or its CPU fragment function.
	ProgramCustom
)

// String implements fmt.Stringer.
func (k ProgramKind) String() string {
	switch k {
	case ProgramVertexColor:
		return "vertex-color"
	case ProgramTexture:
		return "texture"
	case ProgramCustom:
		return "custom"
	default:
		return fmt.Sprintf("ProgramKind(%d)", int(k))
	}
}

// ProgramDescriptor describes a program to create.
type ProgramDescriptor struct {
	Label string
	Kind  ProgramKind

	// WGSL is the module source. Built-in kinds ignore it.
	WGSL string

	// Fragment is the CPU equivalent of a custom program.
	Fragment shader.FragmentFunc
}

// Uniforms is the per-draw uniform block. Its layout matches the WGSL
// Uniforms struct.
type Uniforms struct {
	Scale  float32
	Frame  float32
	Width  float32
	Height float32
}

// UniformsSize is the byte size of Uniforms.
const UniformsSize = 16

// Bytes returns the little-endian encoding of u.
func (u Uniforms) Bytes() []byte {
	b := make([]byte, UniformsSize)
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(u.Scale))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(u.Frame))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(u.Width))
	binary.LittleEndian.PutUint32(b[12:], math.Float32bits(u.Height))
	return b
}

// DrawCall is one indexed draw.
type DrawCall struct {
	Program  Program
	Target   Texture
	Mesh     MeshBuffer
	Uniforms Uniforms

	// Source is bound at binding 1. Nil binds a transparent texture.
	Source Texture
	// Secondary is bound at binding 2. Nil binds a transparent texture.
	Secondary Texture
}

// Validate checks the call for missing or released resources.
func (c DrawCall) Validate() error {
	if c.Program == nil {
		return fmt.Errorf("%w: nil program", ErrUnknownShader)
	}
	if c.Mesh == nil || c.Mesh.IndexCount() == 0 {
		return ErrEmptyMesh
	}
	if err := checkTexture("target", c.Target, true); err != nil {
		return err
	}
	if err := checkTexture("source", c.Source, false); err != nil {
		return err
	}
	if err := checkTexture("secondary", c.Secondary, false); err != nil {
		return err
	}
	if c.Target == c.Source || c.Target == c.Secondary {
		return ErrFeedbackLoop
	}
	return nil
}

func checkTexture(role string, t Texture, required bool) error {
	if t == nil {
		if required {
			return fmt.Errorf("gpu: nil %s texture", role)
		}
		return nil
	}
	if t.Released() {
		return fmt.Errorf("%s %q: %w", role, t.Label(), ErrTextureReleased)
	}
	return nil
}
