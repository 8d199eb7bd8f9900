// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/tessellation"
	"github.com/gogpu/wgpu/hal"
)

// meshBuffer holds an uploaded vertex and uint32 index buffer.
type meshBuffer struct {
	dev         *Device
	vertices    hal.Buffer
	indices     hal.Buffer
	vertexCount int
	indexCount  int
}

func (m *meshBuffer) VertexCount() int { return m.vertexCount }
func (m *meshBuffer) IndexCount() int  { return m.indexCount }

func (m *meshBuffer) Release() {
	if m.vertices == nil || m.dev.device == nil {
		return
	}
	m.dev.device.DestroyBuffer(m.vertices)
	m.dev.device.DestroyBuffer(m.indices)
	m.vertices, m.indices = nil, nil
}

// CreateMesh uploads t.
func (d *Device) CreateMesh(t tessellation.Tessellation) (gpu.MeshBuffer, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("wgpu: mesh: %w", err)
	}
	if len(t.Indices) == 0 {
		return nil, gpu.ErrEmptyMesh
	}

	vertexData := encodeVertices(t.Vertices)
	vb, err := d.createBuffer("mesh_vertices", vertexData, gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	indexData := encodeIndices(t.Indices)
	ib, err := d.createBuffer("mesh_indices", indexData, gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		d.device.DestroyBuffer(vb)
		return nil, err
	}
	return &meshBuffer{
		dev:         d,
		vertices:    vb,
		indices:     ib,
		vertexCount: len(t.Vertices),
		indexCount:  len(t.Indices),
	}, nil
}

// createBuffer allocates a buffer and writes data into it.
func (d *Device) createBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer %s: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func encodeVertices(vs []tessellation.Vertex) []byte {
	out := make([]byte, len(vs)*tessellation.VertexStride)
	for i, v := range vs {
		b := out[i*tessellation.VertexStride:]
		binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.Position[0]))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Position[1]))
		for c := range 4 {
			binary.LittleEndian.PutUint32(b[8+4*c:], math.Float32bits(v.Color[c]))
		}
	}
	return out
}

func encodeIndices(idx []uint32) []byte {
	out := make([]byte, len(idx)*4)
	for i, v := range idx {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}
