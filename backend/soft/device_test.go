// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora"
	"github.com/gogpu/valora/backend"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/shader"
	"github.com/gogpu/valora/tessellation"
)

func newTarget(t *testing.T, d *Device, w, h int) *Texture {
	t.Helper()
	tex, err := d.CreateTexture(gpu.TextureDescriptor{Label: "target", Width: w, Height: h})
	if err != nil {
		t.Fatalf("CreateTexture(%dx%d): %v", w, h, err)
	}
	return tex.(*Texture)
}

func newFrameMesh(t *testing.T, d *Device, c valora.RGBA) gpu.MeshBuffer {
	t.Helper()
	tess, err := tessellation.Fill(valora.Frame(), valora.Solid(c))
	if err != nil {
		t.Fatalf("Fill(frame): %v", err)
	}
	mb, err := d.CreateMesh(tess)
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	return mb
}

func newProgram(t *testing.T, d *Device, desc gpu.ProgramDescriptor) gpu.Program {
	t.Helper()
	p, err := d.CreateProgram(desc)
	if err != nil {
		t.Fatalf("CreateProgram(%s): %v", desc.Label, err)
	}
	return p
}

func uniforms(scale float32, tex *Texture) gpu.Uniforms {
	return gpu.Uniforms{Scale: scale, Width: float32(tex.Width()), Height: float32(tex.Height())}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func TestCreateTexture(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		desc     gpu.TextureDescriptor
		wantErr  error
		wantMips int
	}{
		{"defaults", gpu.TextureDescriptor{Width: 4, Height: 2}, nil, 1},
		{"full chain", gpu.TextureDescriptor{Width: 1024, Height: 512, MipLevelCount: 11}, nil, 11},
		{"clamped chain", gpu.TextureDescriptor{Width: 8, Height: 8, MipLevelCount: 99}, nil, 4},
		{"zero width", gpu.TextureDescriptor{Width: 0, Height: 2}, gpu.ErrInvalidDimensions, 0},
		{"negative height", gpu.TextureDescriptor{Width: 2, Height: -1}, gpu.ErrInvalidDimensions, 0},
		{"wrong format", gpu.TextureDescriptor{Width: 2, Height: 2, Format: gputypes.TextureFormatBGRA8Unorm}, gpu.ErrUnsupportedFormat, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := d.CreateTexture(tt.desc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tex.Width() != tt.desc.Width || tex.Height() != tt.desc.Height {
				t.Errorf("size = %dx%d", tex.Width(), tex.Height())
			}
			if tex.Format() != gpu.RenderFormat {
				t.Errorf("Format() = %v", tex.Format())
			}
			if tex.MipLevelCount() != tt.wantMips {
				t.Errorf("MipLevelCount() = %d, want %d", tex.MipLevelCount(), tt.wantMips)
			}
			px, _ := d.ReadPixels(tex)
			for i, v := range px {
				if v != 0 {
					t.Fatalf("texel %d = %v, want transparent", i, v)
				}
			}
		})
	}
}

func TestDraw_VertexColorFillsFrame(t *testing.T) {
	d := New()
	target := newTarget(t, d, 4, 4)
	call := gpu.DrawCall{
		Program:  newProgram(t, d, gpu.ProgramDescriptor{Label: "vc", Kind: gpu.ProgramVertexColor}),
		Target:   target,
		Mesh:     newFrameMesh(t, d, valora.Red),
		Uniforms: uniforms(1, target),
	}
	if err := d.Draw(call); err != nil {
		t.Fatal(err)
	}
	for y := range 4 {
		for x := range 4 {
			if got := target.Pixel(x, y); got != valora.Red {
				t.Fatalf("pixel (%d,%d) = %v, want red", x, y, got)
			}
		}
	}
	if s := d.Stats(); s.Draws != 1 || s.Triangles != 2 || s.Fragments != 16 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestDraw_SharedEdgeCoveredOnce(t *testing.T) {
	d := New()
	target := newTarget(t, d, 8, 8)
	half := valora.Red.WithAlpha(0.5)
	call := gpu.DrawCall{
		Program:  newProgram(t, d, gpu.ProgramDescriptor{Label: "vc", Kind: gpu.ProgramVertexColor}),
		Target:   target,
		Mesh:     newFrameMesh(t, d, half),
		Uniforms: uniforms(1, target),
	}
	if err := d.Draw(call); err != nil {
		t.Fatal(err)
	}
	for y := range 8 {
		for x := range 8 {
			if a := target.texel(x, y).A; a != 0.5 {
				t.Fatalf("pixel (%d,%d) alpha = %v, want 0.5", x, y, a)
			}
		}
	}
}

func TestDraw_ScaleAboutCenter(t *testing.T) {
	d := New()
	target := newTarget(t, d, 8, 8)
	call := gpu.DrawCall{
		Program:  newProgram(t, d, gpu.ProgramDescriptor{Label: "vc", Kind: gpu.ProgramVertexColor}),
		Target:   target,
		Mesh:     newFrameMesh(t, d, valora.Green),
		Uniforms: uniforms(0.5, target),
	}
	if err := d.Draw(call); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x, y int
		want valora.RGBA
	}{
		{1, 1, valora.Transparent},
		{2, 2, valora.Green},
		{5, 5, valora.Green},
		{6, 6, valora.Transparent},
		{4, 0, valora.Transparent},
	}
	for _, tt := range tests {
		if got := target.Pixel(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDraw_BlendsSourceOver(t *testing.T) {
	d := New()
	target := newTarget(t, d, 2, 2)
	if err := target.Clear(valora.Blue); err != nil {
		t.Fatal(err)
	}
	call := gpu.DrawCall{
		Program:  newProgram(t, d, gpu.ProgramDescriptor{Label: "vc", Kind: gpu.ProgramVertexColor}),
		Target:   target,
		Mesh:     newFrameMesh(t, d, valora.Red.WithAlpha(0.25)),
		Uniforms: uniforms(1, target),
	}
	if err := d.Draw(call); err != nil {
		t.Fatal(err)
	}
	got := target.Pixel(0, 0)
	if !near(got.R, 0.25) || !near(got.B, 0.75) || !near(got.A, 1) {
		t.Errorf("blended = %v, want r=0.25 b=0.75 a=1", got)
	}
}

func TestDraw_TextureProgram(t *testing.T) {
	d := New()
	source := newTarget(t, d, 2, 2)
	if err := source.Clear(valora.Blue); err != nil {
		t.Fatal(err)
	}
	target := newTarget(t, d, 4, 4)
	call := gpu.DrawCall{
		Program:  newProgram(t, d, gpu.ProgramDescriptor{Label: "tex", Kind: gpu.ProgramTexture}),
		Target:   target,
		Mesh:     newFrameMesh(t, d, valora.White),
		Uniforms: uniforms(1, target),
		Source:   source,
	}
	if err := d.Draw(call); err != nil {
		t.Fatal(err)
	}
	if got := target.Pixel(3, 3); got != valora.Blue {
		t.Errorf("pixel = %v, want blue", got)
	}
}

func TestDraw_CustomProgramReadsSecondary(t *testing.T) {
	d := New()
	secondary := newTarget(t, d, 4, 4)
	if err := secondary.Clear(valora.Yellow); err != nil {
		t.Fatal(err)
	}
	target := newTarget(t, d, 4, 4)

	var sawFrame, sawWidth int
	fragment := func(in shader.FragmentInput) valora.RGBA {
		sawFrame, sawWidth = in.Frame, in.Width
		if in.Secondary == nil {
			return valora.Magenta
		}
		return in.Secondary.Sample(in.Position)
	}
	u := uniforms(1, target)
	u.Frame = 12
	call := gpu.DrawCall{
		Program:   newProgram(t, d, gpu.ProgramDescriptor{Label: "copy", Kind: gpu.ProgramCustom, Fragment: fragment}),
		Target:    target,
		Mesh:      newFrameMesh(t, d, valora.White),
		Uniforms:  u,
		Secondary: secondary,
	}
	if err := d.Draw(call); err != nil {
		t.Fatal(err)
	}
	if got := target.Pixel(1, 2); got != valora.Yellow {
		t.Errorf("pixel = %v, want yellow", got)
	}
	if sawFrame != 12 || sawWidth != 4 {
		t.Errorf("fragment saw frame=%d width=%d", sawFrame, sawWidth)
	}
}

func TestCreateProgram_Errors(t *testing.T) {
	d := New()
	_, err := d.CreateProgram(gpu.ProgramDescriptor{Label: "gpu-only", Kind: gpu.ProgramCustom, WGSL: "@fragment fn fs_main() {}"})
	if !errors.Is(err, gpu.ErrShaderCompile) {
		t.Errorf("custom program without fragment: err = %v, want ErrShaderCompile", err)
	}
	_, err = d.CreateProgram(gpu.ProgramDescriptor{Kind: gpu.ProgramKind(42)})
	if !errors.Is(err, gpu.ErrUnknownShader) {
		t.Errorf("unknown kind: err = %v, want ErrUnknownShader", err)
	}
}

func TestDraw_Errors(t *testing.T) {
	d := New()
	prog := newProgram(t, d, gpu.ProgramDescriptor{Label: "vc", Kind: gpu.ProgramVertexColor})
	mb := newFrameMesh(t, d, valora.White)

	released := newTarget(t, d, 2, 2)
	released.Release()
	same := newTarget(t, d, 2, 2)

	tests := []struct {
		name string
		call gpu.DrawCall
		want error
	}{
		{"released target", gpu.DrawCall{Program: prog, Target: released, Mesh: mb}, gpu.ErrTextureReleased},
		{"feedback", gpu.DrawCall{Program: prog, Target: same, Mesh: mb, Secondary: same}, gpu.ErrFeedbackLoop},
		{"empty mesh", gpu.DrawCall{Program: prog, Target: same, Mesh: &meshBuffer{}}, gpu.ErrEmptyMesh},
		{"nil program", gpu.DrawCall{Target: same, Mesh: mb}, gpu.ErrUnknownShader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.Draw(tt.call); !errors.Is(err, tt.want) {
				t.Errorf("Draw() err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBlit(t *testing.T) {
	d := New()

	t.Run("equal size copies exactly", func(t *testing.T) {
		src := newTarget(t, d, 3, 3)
		dst := newTarget(t, d, 3, 3)
		src.pix[0], src.pix[3] = 0.125, 0.5
		if err := d.Blit(dst, src, gputypes.FilterModeLinear); err != nil {
			t.Fatal(err)
		}
		if dst.pix[0] != 0.125 || dst.pix[3] != 0.5 {
			t.Errorf("dst texel 0 = %v", dst.pix[:4])
		}
	})

	t.Run("scaled uniform stays uniform", func(t *testing.T) {
		for _, filter := range []gputypes.FilterMode{gputypes.FilterModeLinear, gputypes.FilterModeNearest} {
			src := newTarget(t, d, 2, 2)
			if err := src.Clear(valora.Green); err != nil {
				t.Fatal(err)
			}
			dst := newTarget(t, d, 5, 3)
			if err := d.Blit(dst, src, filter); err != nil {
				t.Fatal(err)
			}
			for y := range 3 {
				for x := range 5 {
					got := dst.Pixel(x, y)
					if !near(got.G, 1) || !near(got.A, 1) || !near(got.R, 0) {
						t.Fatalf("filter %v: pixel (%d,%d) = %v", filter, x, y, got)
					}
				}
			}
		}
	})

	t.Run("replaces destination", func(t *testing.T) {
		src := newTarget(t, d, 2, 2)
		dst := newTarget(t, d, 2, 2)
		if err := dst.Clear(valora.Red); err != nil {
			t.Fatal(err)
		}
		if err := d.Blit(dst, src, gputypes.FilterModeLinear); err != nil {
			t.Fatal(err)
		}
		if got := dst.Pixel(1, 1); got != valora.Transparent {
			t.Errorf("pixel = %v, want transparent", got)
		}
	})

	t.Run("same texture", func(t *testing.T) {
		tex := newTarget(t, d, 2, 2)
		if err := d.Blit(tex, tex, gputypes.FilterModeLinear); !errors.Is(err, gpu.ErrFeedbackLoop) {
			t.Errorf("err = %v, want ErrFeedbackLoop", err)
		}
	})
}

func TestSample_Bilinear(t *testing.T) {
	d := New()
	tex := newTarget(t, d, 2, 1)
	copy(tex.pix, []float32{0, 0, 0, 1, 1, 1, 1, 1})

	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},    // clamped to the left texel
		{0.25, 0}, // left texel center
		{0.5, 0.5},
		{0.75, 1},
		{1, 1},
	}
	for _, tt := range tests {
		if got := tex.Sample(valora.Pt(tt.x, 0.5)); !near(got.R, tt.want) {
			t.Errorf("Sample(%v).R = %v, want %v", tt.x, got.R, tt.want)
		}
	}
}

func TestForeignResources(t *testing.T) {
	d := New()
	other := fakeTexture{}
	if _, err := d.ReadPixels(other); !errors.Is(err, ErrForeignResource) {
		t.Errorf("ReadPixels(foreign) err = %v", err)
	}
	if err := d.Blit(newTarget(t, d, 1, 1), other, gputypes.FilterModeLinear); !errors.Is(err, ErrForeignResource) {
		t.Errorf("Blit(foreign) err = %v", err)
	}
}

func TestOptionsAndRegistry(t *testing.T) {
	if got := New(WithLabel("ref")).Name(); got != "ref" {
		t.Errorf("Name() = %q", got)
	}
	dev, err := backend.Open(backend.BackendSoft)
	if err != nil {
		t.Fatal(err)
	}
	if dev.Name() != backend.BackendSoft {
		t.Errorf("registered device name = %q", dev.Name())
	}
}

type fakeTexture struct{}

func (fakeTexture) Width() int                     { return 1 }
func (fakeTexture) Height() int                    { return 1 }
func (fakeTexture) Label() string                  { return "fake" }
func (fakeTexture) Format() gputypes.TextureFormat { return gpu.RenderFormat }
func (fakeTexture) MipLevelCount() int             { return 1 }
func (fakeTexture) Clear(valora.RGBA) error        { return nil }
func (fakeTexture) Release()                       {}
func (fakeTexture) Released() bool                 { return false }
