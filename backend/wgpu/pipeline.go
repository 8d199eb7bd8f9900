// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/tessellation"
	"github.com/gogpu/wgpu/hal"
)

// pipelines holds the layouts shared by every program and the blit
// pipelines.
type pipelines struct {
	// Draw layout:
	//   Binding 0: Uniforms (uniform buffer, vertex+fragment)
	//   Binding 1: source texture (texture_2d, fragment)
	//   Binding 2: secondary texture (texture_2d, fragment)
	drawLayout     hal.BindGroupLayout
	drawPipeLayout hal.PipelineLayout

	// Blit layout:
	//   Binding 1: source texture (texture_2d, fragment)
	blitLayout     hal.BindGroupLayout
	blitPipeLayout hal.PipelineLayout
	blitModule     hal.ShaderModule
	blitLinear     hal.RenderPipeline
	blitNearest    hal.RenderPipeline
}

func textureEntry(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageFragment,
		Texture: &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		},
	}
}

func newPipelines(device hal.Device) (p *pipelines, err error) {
	p = &pipelines{}
	defer func() {
		if err != nil {
			p.destroy(device)
			p = nil
		}
	}()

	p.drawLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "valora_draw_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			textureEntry(1),
			textureEntry(2),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create draw layout: %w", err)
	}
	p.drawPipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "valora_draw_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.drawLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create draw pipeline layout: %w", err)
	}

	p.blitLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "valora_blit_layout",
		Entries: []gputypes.BindGroupLayoutEntry{textureEntry(1)},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create blit layout: %w", err)
	}
	p.blitPipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "valora_blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.blitLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create blit pipeline layout: %w", err)
	}

	p.blitModule, err = compileModule(device, "valora_blit", gpu.BlitWGSL)
	if err != nil {
		return nil, err
	}
	p.blitLinear, err = createBlitPipeline(device, p, "fs_linear")
	if err != nil {
		return nil, err
	}
	p.blitNearest, err = createBlitPipeline(device, p, "fs_nearest")
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *pipelines) blit(filter gputypes.FilterMode) hal.RenderPipeline {
	if filter == gputypes.FilterModeNearest {
		return p.blitNearest
	}
	return p.blitLinear
}

func (p *pipelines) destroy(device hal.Device) {
	if p.blitNearest != nil {
		device.DestroyRenderPipeline(p.blitNearest)
	}
	if p.blitLinear != nil {
		device.DestroyRenderPipeline(p.blitLinear)
	}
	if p.blitModule != nil {
		device.DestroyShaderModule(p.blitModule)
	}
	if p.blitPipeLayout != nil {
		device.DestroyPipelineLayout(p.blitPipeLayout)
	}
	if p.blitLayout != nil {
		device.DestroyBindGroupLayout(p.blitLayout)
	}
	if p.drawPipeLayout != nil {
		device.DestroyPipelineLayout(p.drawPipeLayout)
	}
	if p.drawLayout != nil {
		device.DestroyBindGroupLayout(p.drawLayout)
	}
	*p = pipelines{}
}

// compileModule translates WGSL to SPIR-V with naga and creates a module.
func compileModule(device hal.Device, label, src string) (hal.ShaderModule, error) {
	spirv, err := gpu.CompileWGSL(src)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile %s: %w", label, err)
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module %s: %w", label, err)
	}
	return module, nil
}

func createBlitPipeline(device hal.Device, p *pipelines, entry string) (hal.RenderPipeline, error) {
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "valora_blit_" + entry,
		Layout: p.blitPipeLayout,
		Vertex: hal.VertexState{
			Module:     p.blitModule,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.blitModule,
			EntryPoint: entry,
			Targets: []gputypes.ColorTargetState{{
				Format:    gpu.RenderFormat,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create blit pipeline %s: %w", entry, err)
	}
	return pipeline, nil
}

// createDrawPipeline builds a mesh pipeline that blends premultiplied
// source-over into an RGBA32Float target.
func createDrawPipeline(device hal.Device, p *pipelines, label string, module hal.ShaderModule) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.drawPipeLayout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: tessellation.VertexStride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    gpu.RenderFormat,
				Blend:     &premulBlend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline %s: %w", label, err)
	}
	return pipeline, nil
}
