// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/valora/mesh"
)

// Mesh is an uploaded mesh with its current scale. Scale is written in
// place by the render loop each frame.
type Mesh struct {
	Buffer MeshBuffer
	Scale  float32
}

// MeshFactory produces Mesh resources.
var MeshFactory Factory[*mesh.Mesh, *Mesh] = ProduceFunc[*mesh.Mesh, *Mesh](ProduceMesh)

// ProduceMesh tessellates m if needed and uploads it to dev. The scale
// starts at 1.
func ProduceMesh(m *mesh.Mesh, dev Device) (*Mesh, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if m == nil {
		return nil, fmt.Errorf("gpu: mesh: %w", ErrEmptyMesh)
	}
	tess, err := m.Tessellation()
	if err != nil {
		return nil, fmt.Errorf("gpu: mesh: %w", err)
	}
	buf, err := dev.CreateMesh(tess)
	if err != nil {
		return nil, fmt.Errorf("gpu: mesh upload: %w", err)
	}
	return &Mesh{Buffer: buf, Scale: 1}, nil
}

// Release frees the mesh buffer.
func (m *Mesh) Release() {
	if m.Buffer != nil {
		m.Buffer.Release()
		m.Buffer = nil
	}
}
