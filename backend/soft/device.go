// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora"
	"github.com/gogpu/valora/backend"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/shader"
	"github.com/gogpu/valora/tessellation"
	xdraw "golang.org/x/image/draw"
)

// ErrForeignResource is returned when a resource created by another device
// is passed to a soft device.
var ErrForeignResource = errors.New("soft: resource was not created by a soft device")

func init() {
	backend.Register(backend.BackendSoft, func() (gpu.Device, error) {
		return New(), nil
	})
}

// Option configures a Device.
type Option func(*Device)

// WithLabel sets the label reported by Name.
func WithLabel(label string) Option {
	return func(d *Device) { d.label = label }
}

// WithWGSLValidation makes CreateProgram compile WGSL sources with naga
// and reject modules that fail, as a GPU backend would.
func WithWGSLValidation() Option {
	return func(d *Device) { d.validateWGSL = true }
}

// Stats counts the work a device has done.
type Stats struct {
	Draws     int
	Blits     int
	Triangles int
	Fragments int
}

// Device rasterizes on the CPU.
type Device struct {
	label        string
	validateWGSL bool
	stats        Stats
}

var _ gpu.Device = (*Device)(nil)

// New creates a soft device.
func New(opts ...Option) *Device {
	d := &Device{label: backend.BackendSoft}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the device label.
func (d *Device) Name() string { return d.label }

// Stats returns the work counters.
func (d *Device) Stats() Stats { return d.stats }

// ResetStats zeroes the work counters.
func (d *Device) ResetStats() { d.stats = Stats{} }

// CreateTexture allocates a transparent texture.
func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return newTexture(desc), nil
}

// meshBuffer is an uploaded tessellation.
type meshBuffer struct {
	vertices []tessellation.Vertex
	indices  []uint32
}

func (m *meshBuffer) VertexCount() int { return len(m.vertices) }
func (m *meshBuffer) IndexCount() int  { return len(m.indices) }
func (m *meshBuffer) Release()         { m.vertices, m.indices = nil, nil }

// CreateMesh copies t into a mesh buffer.
func (d *Device) CreateMesh(t tessellation.Tessellation) (gpu.MeshBuffer, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("soft: mesh: %w", err)
	}
	c := t.Clone()
	return &meshBuffer{vertices: c.Vertices, indices: c.Indices}, nil
}

// program is a built-in or CPU-fragment program.
type program struct {
	label    string
	kind     gpu.ProgramKind
	fragment shader.FragmentFunc
}

func (p *program) Label() string         { return p.label }
func (p *program) Kind() gpu.ProgramKind { return p.kind }
func (p *program) Release()              { p.fragment = nil }

// CreateProgram builds a program. Custom programs need a CPU fragment
// function.
func (d *Device) CreateProgram(desc gpu.ProgramDescriptor) (gpu.Program, error) {
	switch desc.Kind {
	case gpu.ProgramVertexColor, gpu.ProgramTexture:
	case gpu.ProgramCustom:
		if desc.Fragment == nil {
			return nil, fmt.Errorf("%w: program %q has no CPU fragment function", gpu.ErrShaderCompile, desc.Label)
		}
	default:
		return nil, fmt.Errorf("%w: program kind %v", gpu.ErrUnknownShader, desc.Kind)
	}
	if d.validateWGSL && desc.WGSL != "" {
		if err := gpu.ValidateWGSL(desc.WGSL); err != nil {
			return nil, fmt.Errorf("soft: program %q: %w", desc.Label, err)
		}
	}
	return &program{label: desc.Label, kind: desc.Kind, fragment: desc.Fragment}, nil
}

func asTexture(t gpu.Texture) (*Texture, error) {
	if t == nil {
		return nil, nil
	}
	st, ok := t.(*Texture)
	if !ok {
		return nil, fmt.Errorf("%w: texture %T", ErrForeignResource, t)
	}
	return st, nil
}

// Draw rasterizes call.Mesh into call.Target.
func (d *Device) Draw(call gpu.DrawCall) error {
	if err := call.Validate(); err != nil {
		return err
	}
	prog, ok := call.Program.(*program)
	if !ok {
		return fmt.Errorf("%w: program %T", ErrForeignResource, call.Program)
	}
	mb, ok := call.Mesh.(*meshBuffer)
	if !ok {
		return fmt.Errorf("%w: mesh %T", ErrForeignResource, call.Mesh)
	}
	target, err := asTexture(call.Target)
	if err != nil {
		return err
	}
	source, err := asTexture(call.Source)
	if err != nil {
		return err
	}
	secondary, err := asTexture(call.Secondary)
	if err != nil {
		return err
	}

	shade, err := fragmentStage(prog, call, source, secondary)
	if err != nil {
		return err
	}

	scale := float64(call.Uniforms.Scale)
	w, h := target.width, target.height
	for i := 0; i+2 < len(mb.indices); i += 3 {
		v0 := vertexStage(mb.vertices[mb.indices[i]], scale, w, h)
		v1 := vertexStage(mb.vertices[mb.indices[i+1]], scale, w, h)
		v2 := vertexStage(mb.vertices[mb.indices[i+2]], scale, w, h)
		d.stats.Fragments += rasterTriangle(target, v0, v1, v2, shade)
		d.stats.Triangles++
	}
	d.stats.Draws++
	return nil
}

func fragmentStage(prog *program, call gpu.DrawCall, source, secondary *Texture) (fragmentFunc, error) {
	switch prog.kind {
	case gpu.ProgramVertexColor:
		return func(_ valora.Point, c valora.RGBA) valora.RGBA {
			return c.Premultiply()
		}, nil
	case gpu.ProgramTexture:
		return func(p valora.Point, c valora.RGBA) valora.RGBA {
			if source == nil {
				return valora.Transparent
			}
			s := source.samplePremul(p)
			return valora.RGBA{R: s.R * c.A, G: s.G * c.A, B: s.B * c.A, A: s.A * c.A}
		}, nil
	case gpu.ProgramCustom:
		if prog.fragment == nil {
			return nil, fmt.Errorf("%w: program %q was released", gpu.ErrShaderCompile, prog.label)
		}
		in := shader.FragmentInput{
			Frame:  int(call.Uniforms.Frame),
			Width:  int(call.Uniforms.Width),
			Height: int(call.Uniforms.Height),
		}
		if secondary != nil {
			in.Secondary = secondary
		}
		fn := prog.fragment
		return func(p valora.Point, c valora.RGBA) valora.RGBA {
			in.Position, in.Color = p, c
			return fn(in).Premultiply()
		}, nil
	default:
		return nil, fmt.Errorf("%w: program kind %v", gpu.ErrUnknownShader, prog.kind)
	}
}

// Blit replaces dst with src. Equal sizes copy exactly; otherwise src is
// resampled with golang.org/x/image/draw.
func (d *Device) Blit(dst, src gpu.Texture, filter gputypes.FilterMode) error {
	if dst == nil || src == nil {
		return errors.New("soft: blit: nil texture")
	}
	if dst.Released() || src.Released() {
		return fmt.Errorf("soft: blit: %w", gpu.ErrTextureReleased)
	}
	if dst == src {
		return fmt.Errorf("soft: blit: %w", gpu.ErrFeedbackLoop)
	}
	sd, err := asTexture(dst)
	if err != nil {
		return err
	}
	ss, err := asTexture(src)
	if err != nil {
		return err
	}

	d.stats.Blits++
	if sd.width == ss.width && sd.height == ss.height {
		copy(sd.pix, ss.pix)
		return nil
	}

	var scaler xdraw.Scaler = xdraw.BiLinear
	if filter == gputypes.FilterModeNearest {
		scaler = xdraw.NearestNeighbor
	}
	scaler.Scale(sd, sd.Bounds(), ss, ss.Bounds(), xdraw.Src, nil)
	return nil
}

// ReadPixels returns a copy of t's premultiplied texels.
func (d *Device) ReadPixels(t gpu.Texture) ([]float32, error) {
	st, err := asTexture(t)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New("soft: read pixels: nil texture")
	}
	if st.released {
		return nil, fmt.Errorf("soft: read pixels: %w", gpu.ErrTextureReleased)
	}
	out := make([]float32, len(st.pix))
	copy(out, st.pix)
	return out, nil
}
