// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/valora/composition"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/mesh"
)

// GpuLayer is a composition layer bound to a device.
type GpuLayer struct {
	shader *gpu.Shader
	mesh   *gpu.Mesh

	// source is a private copy of the CPU mesh, read for its scale tween.
	source *mesh.Mesh
}

// LayerFactory produces GpuLayer resources.
var LayerFactory gpu.Factory[composition.Layer, *GpuLayer] = gpu.ProduceFunc[composition.Layer, *GpuLayer](ProduceLayer)

// ProduceLayer builds the layer's shader and mesh on dev.
func ProduceLayer(l composition.Layer, dev gpu.Device) (*GpuLayer, error) {
	if dev == nil {
		return nil, gpu.ErrNilDevice
	}
	if l.Mesh() == nil {
		return nil, fmt.Errorf("render: %v: %w", l, gpu.ErrEmptyMesh)
	}

	s, err := gpu.ProduceShader(l.Shader(), dev)
	if err != nil {
		return nil, err
	}
	m, err := gpu.ProduceMesh(l.Mesh(), dev)
	if err != nil {
		s.Release()
		return nil, err
	}
	return &GpuLayer{shader: s, mesh: m, source: l.Mesh().Clone()}, nil
}

// Step writes the mesh scale for frame. Calling it twice with the same
// frame leaves the same scale.
func (l *GpuLayer) Step(frame int) {
	l.mesh.Scale = float32(l.source.ScaleAt(frame))
}

// Shader returns the layer's device shader.
func (l *GpuLayer) Shader() *gpu.Shader { return l.shader }

// Mesh returns the layer's device mesh.
func (l *GpuLayer) Mesh() *gpu.Mesh { return l.mesh }

// Source returns the retained CPU mesh.
func (l *GpuLayer) Source() *mesh.Mesh { return l.source }

// Draw draws the layer into target, reading secondary.
func (l *GpuLayer) Draw(lib *gpu.Library, frame int, target, secondary gpu.Texture) error {
	return l.shader.Draw(lib, frame, target, l.mesh, secondary)
}

// Release frees the layer's device resources.
func (l *GpuLayer) Release() {
	l.shader.Release()
	l.mesh.Release()
}
