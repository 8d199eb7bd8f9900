// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora"
	"github.com/gogpu/valora/backend"
	"github.com/gogpu/valora/backend/soft"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/mesh"
	"github.com/gogpu/valora/shader"
	"github.com/gogpu/valora/tessellation"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice opens a wgpu Device on the noop HAL backend.
func createNoopDevice(t *testing.T) *Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	d, err := FromHAL(openDev.Device, openDev.Queue)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		t.Fatalf("FromHAL failed: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return d
}

func frameTessellation(t *testing.T) tessellation.Tessellation {
	t.Helper()
	tess, err := mesh.FullFrame(valora.Solid(valora.Red)).Tessellation()
	if err != nil {
		t.Fatal(err)
	}
	return tess
}

func TestFromHAL(t *testing.T) {
	d := createNoopDevice(t)
	if d.Name() != backend.BackendWGPU {
		t.Errorf("Name() = %q", d.Name())
	}
	dev, queue := d.HAL()
	if dev == nil || queue == nil {
		t.Error("HAL() returned nil")
	}
	if d.blank == nil || d.blank.Width() != 1 {
		t.Error("blank texture not created")
	}

	if _, err := FromHAL(nil, nil); !errors.Is(err, gpu.ErrNilDevice) {
		t.Errorf("FromHAL(nil) err = %v, want ErrNilDevice", err)
	}
}

// halProvider is a gpucontext.DeviceProvider exposing HAL types.
type halProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p *halProvider) Device() gpucontext.Device             { return nil }
func (p *halProvider) Queue() gpucontext.Queue               { return nil }
func (p *halProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *halProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (p *halProvider) HalDevice() any                        { return p.device }
func (p *halProvider) HalQueue() any                         { return p.queue }

// plainProvider implements only gpucontext.DeviceProvider.
type plainProvider struct{}

func (plainProvider) Device() gpucontext.Device             { return nil }
func (plainProvider) Queue() gpucontext.Queue               { return nil }
func (plainProvider) Adapter() gpucontext.Adapter           { return nil }
func (plainProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }

func TestFromProvider(t *testing.T) {
	host := createNoopDevice(t)
	dev, queue := host.HAL()

	d, err := FromProvider(&halProvider{device: dev, queue: queue})
	if err != nil {
		t.Fatalf("FromProvider: %v", err)
	}
	defer d.Close()
	if got, _ := d.HAL(); got != dev {
		t.Error("provider device not shared")
	}

	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
	}{
		{"nil", nil},
		{"no HAL access", plainProvider{}},
		{"nil HAL device", &halProvider{queue: queue}},
		{"nil HAL queue", &halProvider{device: dev}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromProvider(tt.provider); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCreateTexture(t *testing.T) {
	d := createNoopDevice(t)

	tex, err := d.CreateTexture(gpu.TextureDescriptor{Label: "t", Width: 16, Height: 8, MipLevelCount: gpu.MipLevels(16, 8)})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	if tex.Width() != 16 || tex.Height() != 8 || tex.MipLevelCount() != 5 {
		t.Errorf("texture = %dx%d mips %d", tex.Width(), tex.Height(), tex.MipLevelCount())
	}
	if tex.Format() != gputypes.TextureFormatRGBA32Float {
		t.Errorf("Format() = %v", tex.Format())
	}
	if err := tex.Clear(valora.White); err != nil {
		t.Errorf("Clear: %v", err)
	}
	tex.Release()
	tex.Release()
	if !tex.Released() {
		t.Error("Released() = false after Release")
	}
	if err := tex.Clear(valora.White); !errors.Is(err, gpu.ErrTextureReleased) {
		t.Errorf("Clear after Release: err = %v", err)
	}

	tests := []struct {
		name string
		desc gpu.TextureDescriptor
		want error
	}{
		{"zero width", gpu.TextureDescriptor{Height: 4}, gpu.ErrInvalidDimensions},
		{"negative height", gpu.TextureDescriptor{Width: 4, Height: -1}, gpu.ErrInvalidDimensions},
		{"rgba8", gpu.TextureDescriptor{Width: 4, Height: 4, Format: gputypes.TextureFormatRGBA8Unorm}, gpu.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.CreateTexture(tt.desc); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateMesh(t *testing.T) {
	d := createNoopDevice(t)
	tess := frameTessellation(t)

	mb, err := d.CreateMesh(tess)
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	defer mb.Release()
	if mb.VertexCount() != len(tess.Vertices) || mb.IndexCount() != len(tess.Indices) {
		t.Errorf("counts = %d/%d, want %d/%d", mb.VertexCount(), mb.IndexCount(), len(tess.Vertices), len(tess.Indices))
	}

	if _, err := d.CreateMesh(tessellation.Tessellation{}); !errors.Is(err, gpu.ErrEmptyMesh) {
		t.Errorf("empty mesh: err = %v, want ErrEmptyMesh", err)
	}
	bad := tess.Clone()
	bad.Indices[0] = 99
	if _, err := d.CreateMesh(bad); err == nil {
		t.Error("out-of-range index accepted")
	}
}

func TestEncodeVertices(t *testing.T) {
	vs := []tessellation.Vertex{{Position: [2]float32{0.25, 0.75}, Color: [4]float32{1, 0.5, 0, 1}}}
	b := encodeVertices(vs)
	if len(b) != tessellation.VertexStride {
		t.Fatalf("len = %d, want %d", len(b), tessellation.VertexStride)
	}
	got := decodeRows(b, len(b), len(b), 1)
	want := []float32{0.25, 0.75, 1, 0.5, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("float %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAlignedRow(t *testing.T) {
	tests := []struct {
		width int
		want  uint32
	}{
		{1, 256},
		{16, 256},
		{17, 512},
		{1024, 16384},
	}
	for _, tt := range tests {
		if got := alignedRow(tt.width); got != tt.want {
			t.Errorf("alignedRow(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestDecodeRows_StripsPadding(t *testing.T) {
	// Two rows of one texel each, padded to 32 bytes.
	data := make([]byte, 64)
	row := encodeVertices([]tessellation.Vertex{{Position: [2]float32{1, 2}, Color: [4]float32{3, 4}}})
	copy(data[0:], row[:16])
	copy(data[32:], row[:16])
	got := decodeRows(data, 16, 32, 2)
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	if got[0] != 1 || got[3] != 4 || got[4] != 1 || got[7] != 4 {
		t.Errorf("decoded = %v", got)
	}
}

func TestCreateProgram(t *testing.T) {
	d := createNoopDevice(t)

	tests := []struct {
		name string
		desc gpu.ProgramDescriptor
		want error
	}{
		{"vertex color", gpu.ProgramDescriptor{Kind: gpu.ProgramVertexColor}, nil},
		{"texture", gpu.ProgramDescriptor{Kind: gpu.ProgramTexture}, nil},
		{"custom", gpu.ProgramDescriptor{
			Label: "tint",
			Kind:  gpu.ProgramCustom,
			WGSL: gpu.ProgramSource(`@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return premultiply(sample_secondary(in.frame_pos));
}`),
		}, nil},
		{"cpu only", gpu.ProgramDescriptor{
			Kind:     gpu.ProgramCustom,
			Fragment: func(shader.FragmentInput) valora.RGBA { return valora.Red },
		}, gpu.ErrShaderCompile},
		{"invalid wgsl", gpu.ProgramDescriptor{Kind: gpu.ProgramCustom, WGSL: "fn fs_main( {"}, gpu.ErrShaderCompile},
		{"unknown kind", gpu.ProgramDescriptor{Kind: gpu.ProgramKind(42)}, gpu.ErrUnknownShader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := d.CreateProgram(tt.desc)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if err != nil {
				return
			}
			if p.Kind() != tt.desc.Kind {
				t.Errorf("Kind() = %v, want %v", p.Kind(), tt.desc.Kind)
			}
			p.Release()
			p.Release()
		})
	}
}

func TestDraw(t *testing.T) {
	d := createNoopDevice(t)
	lib, err := gpu.NewLibrary(d)
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	defer lib.Release()

	target, err := d.CreateTexture(gpu.TextureDescriptor{Label: "target", Width: 8, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	defer target.Release()
	m, err := gpu.ProduceMesh(mesh.FullFrame(valora.Solid(valora.Red)), d)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Release()

	s, err := gpu.ProduceShader(shader.Default{}, d)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(lib, 0, target, m, nil); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	px, err := d.ReadPixels(target)
	if err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if len(px) != 8*8*4 {
		t.Errorf("ReadPixels len = %d, want %d", len(px), 8*8*4)
	}
}

func TestDraw_Errors(t *testing.T) {
	d := createNoopDevice(t)
	lib, err := gpu.NewLibrary(d)
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Release()
	target, _ := d.CreateTexture(gpu.TextureDescriptor{Width: 4, Height: 4})
	mb, err := d.CreateMesh(frameTessellation(t))
	if err != nil {
		t.Fatal(err)
	}

	sd := soft.New()
	softTex, _ := sd.CreateTexture(gpu.TextureDescriptor{Width: 4, Height: 4})
	softMesh, _ := sd.CreateMesh(frameTessellation(t))
	softLib, err := gpu.NewLibrary(sd)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		call gpu.DrawCall
		want error
	}{
		{"feedback", gpu.DrawCall{Program: lib.Texture(), Target: target, Mesh: mb, Source: target}, gpu.ErrFeedbackLoop},
		{"foreign target", gpu.DrawCall{Program: lib.VertexColor(), Target: softTex, Mesh: mb}, ErrForeignResource},
		{"foreign mesh", gpu.DrawCall{Program: lib.VertexColor(), Target: target, Mesh: softMesh}, ErrForeignResource},
		{"foreign program", gpu.DrawCall{Program: softLib.VertexColor(), Target: target, Mesh: mb}, ErrForeignResource},
		{"foreign source", gpu.DrawCall{Program: lib.Texture(), Target: target, Mesh: mb, Source: softTex}, ErrForeignResource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.Draw(tt.call); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := d.ReadPixels(softTex); !errors.Is(err, ErrForeignResource) {
		t.Errorf("ReadPixels foreign: err = %v", err)
	}
}

func TestBlit(t *testing.T) {
	d := createNoopDevice(t)
	a, _ := d.CreateTexture(gpu.TextureDescriptor{Label: "a", Width: 8, Height: 8})
	b, _ := d.CreateTexture(gpu.TextureDescriptor{Label: "b", Width: 4, Height: 4})

	for _, filter := range []gputypes.FilterMode{gputypes.FilterModeLinear, gputypes.FilterModeNearest} {
		if err := d.Blit(b, a, filter); err != nil {
			t.Errorf("Blit(%v): %v", filter, err)
		}
	}
	if err := d.Blit(a, a, gputypes.FilterModeLinear); !errors.Is(err, gpu.ErrFeedbackLoop) {
		t.Errorf("self blit: err = %v, want ErrFeedbackLoop", err)
	}
	b.Release()
	if err := d.Blit(b, a, gputypes.FilterModeLinear); !errors.Is(err, gpu.ErrTextureReleased) {
		t.Errorf("released blit: err = %v, want ErrTextureReleased", err)
	}
}

func TestClose(t *testing.T) {
	d := createNoopDevice(t)
	d.Close()
	d.Close()
	if _, err := d.CreateTexture(gpu.TextureDescriptor{Width: 1, Height: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateTexture after Close: err = %v, want ErrClosed", err)
	}
	if !backend.IsRegistered(backend.BackendWGPU) {
		t.Error("wgpu backend not registered")
	}
}
