// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/valora/shader"
)

// Shader is a shader.Shader bound to a device.
type Shader struct {
	desc shader.Shader

	// kind selects a library program unless custom is set.
	kind   ProgramKind
	custom Program
	source Texture
}

// ShaderFactory produces Shader resources.
var ShaderFactory Factory[shader.Shader, *Shader] = ProduceFunc[shader.Shader, *Shader](ProduceShader)

// ProduceShader binds s to dev. Program variants are compiled here;
// Intermittent variants resolve their inner shader and keep the gate.
func ProduceShader(s shader.Shader, dev Device) (*Shader, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	s = shader.Resolve(s)
	out := &Shader{desc: s}

	switch inner := shader.Unwrap(s).(type) {
	case shader.Default:
		out.kind = ProgramVertexColor
	case shader.Texture:
		src, ok := inner.Source.(Texture)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not a device texture", ErrUnknownShader, inner)
		}
		if src.Released() {
			return nil, fmt.Errorf("gpu: shader %v: %w", inner, ErrTextureReleased)
		}
		out.kind = ProgramTexture
		out.source = src
	case shader.Program:
		prog, err := dev.CreateProgram(ProgramDescriptor{
			Label:    inner.Label,
			Kind:     ProgramCustom,
			WGSL:     ProgramSource(inner.WGSL),
			Fragment: inner.Fragment,
		})
		if err != nil {
			return nil, fmt.Errorf("gpu: shader %v: %w", inner, err)
		}
		out.kind = ProgramCustom
		out.custom = prog
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownShader, inner)
	}
	return out, nil
}

// Desc returns the shader description s was produced from.
func (s *Shader) Desc() shader.Shader { return s.desc }

// Kind returns the program kind the shader draws with.
func (s *Shader) Kind() ProgramKind { return s.kind }

// Source returns the sampled texture of a texture shader, or nil.
func (s *Shader) Source() Texture { return s.source }

// Active reports whether the shader draws on frame.
func (s *Shader) Active(frame int) bool { return shader.Active(s.desc, frame) }

// Draw renders m into target. secondary is bound for programs that read
// the previous composite and may be nil. Gated-off shaders return nil
// without touching target.
func (s *Shader) Draw(lib *Library, frame int, target Texture, m *Mesh, secondary Texture) error {
	if !s.Active(frame) {
		slogger().Debug("gpu: shader gated off", "shader", s.desc, "frame", frame)
		return nil
	}
	if lib == nil {
		return fmt.Errorf("gpu: draw %v: nil library", s.desc)
	}
	if m == nil || m.Buffer == nil {
		return fmt.Errorf("gpu: draw %v: %w", s.desc, ErrEmptyMesh)
	}
	if target == nil {
		return fmt.Errorf("gpu: draw %v: nil target", s.desc)
	}

	prog := s.custom
	if prog == nil {
		var err error
		if prog, err = lib.program(s.kind); err != nil {
			return err
		}
	}

	call := DrawCall{
		Program: prog,
		Target:  target,
		Mesh:    m.Buffer,
		Uniforms: Uniforms{
			Scale:  m.Scale,
			Frame:  float32(frame),
			Width:  float32(target.Width()),
			Height: float32(target.Height()),
		},
		Source:    s.source,
		Secondary: secondary,
	}
	if err := call.Validate(); err != nil {
		return fmt.Errorf("gpu: draw %v: %w", s.desc, err)
	}
	if err := lib.Device().Draw(call); err != nil {
		return fmt.Errorf("gpu: draw %v: %w", s.desc, err)
	}
	return nil
}

// Release frees a compiled custom program. Library programs and sampled
// textures are not owned by the shader.
func (s *Shader) Release() {
	if s.custom != nil {
		s.custom.Release()
		s.custom = nil
	}
}
