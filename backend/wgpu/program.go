// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/wgpu/hal"
)

// program is a compiled module and its render pipeline.
type program struct {
	dev      *Device
	label    string
	kind     gpu.ProgramKind
	module   hal.ShaderModule
	pipeline hal.RenderPipeline
}

func (p *program) Label() string         { return p.label }
func (p *program) Kind() gpu.ProgramKind { return p.kind }

func (p *program) Release() {
	if p.pipeline == nil || p.dev.device == nil {
		return
	}
	p.dev.device.DestroyRenderPipeline(p.pipeline)
	p.dev.device.DestroyShaderModule(p.module)
	p.pipeline, p.module = nil, nil
}

// CreateProgram compiles a program. Custom programs must declare fs_main
// in WGSL.
func (d *Device) CreateProgram(desc gpu.ProgramDescriptor) (gpu.Program, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	var src string
	switch desc.Kind {
	case gpu.ProgramVertexColor:
		src = gpu.VertexColorWGSL
	case gpu.ProgramTexture:
		src = gpu.TextureWGSL
	case gpu.ProgramCustom:
		if !strings.Contains(desc.WGSL, "fn fs_main") {
			return nil, fmt.Errorf("%w: program %q has no WGSL fs_main", gpu.ErrShaderCompile, desc.Label)
		}
		src = desc.WGSL
	default:
		return nil, fmt.Errorf("%w: program kind %v", gpu.ErrUnknownShader, desc.Kind)
	}

	label := desc.Label
	if label == "" {
		label = desc.Kind.String()
	}
	module, err := compileModule(d.device, label, src)
	if err != nil {
		return nil, err
	}
	pipeline, err := createDrawPipeline(d.device, d.pipes, label, module)
	if err != nil {
		d.device.DestroyShaderModule(module)
		return nil, err
	}
	slogger().Debug("wgpu: program compiled", "label", label, "kind", desc.Kind)
	return &program{dev: d, label: desc.Label, kind: desc.Kind, module: module, pipeline: pipeline}, nil
}
