// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "fmt"

// Library holds the built-in programs compiled for one device.
type Library struct {
	dev         Device
	vertexColor Program
	texture     Program
}

// NewLibrary compiles the built-in programs on dev.
func NewLibrary(dev Device) (*Library, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}

	vc, err := dev.CreateProgram(ProgramDescriptor{
		Label: "vertex_color",
		Kind:  ProgramVertexColor,
		WGSL:  VertexColorWGSL,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: library: vertex color program: %w", err)
	}

	tex, err := dev.CreateProgram(ProgramDescriptor{
		Label: "texture",
		Kind:  ProgramTexture,
		WGSL:  TextureWGSL,
	})
	if err != nil {
		vc.Release()
		return nil, fmt.Errorf("gpu: library: texture program: %w", err)
	}

	slogger().Debug("gpu: library ready", "device", dev.Name())
	return &Library{dev: dev, vertexColor: vc, texture: tex}, nil
}

// Device returns the device the library was compiled for.
func (l *Library) Device() Device { return l.dev }

// VertexColor returns the default program.
func (l *Library) VertexColor() Program { return l.vertexColor }

// Texture returns the texture sampling program.
func (l *Library) Texture() Program { return l.texture }

// program returns the built-in program for kind.
func (l *Library) program(kind ProgramKind) (Program, error) {
	switch kind {
	case ProgramVertexColor:
		return l.vertexColor, nil
	case ProgramTexture:
		return l.texture, nil
	default:
		return nil, fmt.Errorf("%w: no built-in %v program", ErrUnknownShader, kind)
	}
}

// Release frees the built-in programs.
func (l *Library) Release() {
	if l.vertexColor != nil {
		l.vertexColor.Release()
		l.vertexColor = nil
	}
	if l.texture != nil {
		l.texture.Release()
		l.texture = nil
	}
}
