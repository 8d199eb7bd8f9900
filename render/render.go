// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/valora"
	"github.com/gogpu/valora/composition"
	"github.com/gogpu/valora/gpu"
)

// ErrReleased is returned by a Render after Release.
var ErrReleased = errors.New("render: render has been released")

// DrawCommand pairs a device shader with the mesh it draws.
type DrawCommand struct {
	Shader *gpu.Shader
	Mesh   *gpu.Mesh
}

func (c DrawCommand) release() {
	if c.Shader != nil {
		c.Shader.Release()
	}
	if c.Mesh != nil {
		c.Mesh.Release()
	}
}

// Render is a composition bound to a device and a ping-pong buffer.
type Render struct {
	dev      gpu.Device
	layers   []*GpuLayer
	buffer   *Buffer
	released bool
}

// Produce consumes comp and builds one GpuLayer per layer, in order, plus
// a width×height Buffer.
func Produce(width, height int, comp *composition.Composition, dev gpu.Device) (*Render, error) {
	if dev == nil {
		return nil, gpu.ErrNilDevice
	}
	if comp == nil {
		comp = composition.New()
	}
	layers := comp.Layers()

	r := &Render{dev: dev, layers: make([]*GpuLayer, 0, len(layers))}
	for i, l := range layers {
		gl, err := ProduceLayer(l, dev)
		if err != nil {
			r.Release()
			return nil, fmt.Errorf("render: layer %d: %w", i, err)
		}
		r.layers = append(r.layers, gl)
	}

	buf, err := ProduceBuffer(width, height, dev)
	if err != nil {
		r.Release()
		return nil, err
	}
	r.buffer = buf

	valora.Logger().Debug("render: produced",
		"device", dev.Name(), "layers", len(r.layers), "width", width, "height", height)
	return r, nil
}

// Step advances every layer to frame and returns r.
func (r *Render) Step(frame int) (*Render, error) {
	if r.released {
		return nil, ErrReleased
	}
	for _, l := range r.layers {
		l.Step(frame)
	}
	return r, nil
}

// Render draws every layer in order into Front, each reading Back, and
// copies Front into Back after each draw. It returns the blitter command
// list for presenting Front.
func (r *Render) Render(lib *gpu.Library, frame int) ([]DrawCommand, error) {
	if r.released {
		return nil, ErrReleased
	}
	if lib == nil {
		return nil, errors.New("render: nil library")
	}
	for i, l := range r.layers {
		if err := l.Draw(lib, frame, r.buffer.Front(), r.buffer.Back()); err != nil {
			return nil, fmt.Errorf("render: layer %d: %w", i, err)
		}
		if err := r.buffer.Sync(); err != nil {
			return nil, fmt.Errorf("render: layer %d: sync: %w", i, err)
		}
	}
	return []DrawCommand{r.buffer.Blitter()}, nil
}

// Buffer returns the Front texture.
func (r *Render) Buffer() gpu.Texture { return r.buffer.Front() }

// PingPong returns the underlying double buffer.
func (r *Render) PingPong() *Buffer { return r.buffer }

// Layers returns the number of layers.
func (r *Render) Layers() int { return len(r.layers) }

// Layer returns layer i.
func (r *Render) Layer(i int) *GpuLayer { return r.layers[i] }

// Device returns the device the render was produced on.
func (r *Render) Device() gpu.Device { return r.dev }

// Release frees every layer and the buffer. Further calls fail with
// ErrReleased.
func (r *Render) Release() {
	for _, l := range r.layers {
		l.Release()
	}
	r.layers = nil
	if r.buffer != nil {
		r.buffer.Release()
		r.buffer = nil
	}
	r.released = true
}

// Present issues cmds against target.
func Present(lib *gpu.Library, frame int, cmds []DrawCommand, target gpu.Texture) error {
	for i, cmd := range cmds {
		if cmd.Shader == nil || cmd.Mesh == nil {
			return fmt.Errorf("render: present command %d: %w", i, gpu.ErrEmptyMesh)
		}
		if err := cmd.Shader.Draw(lib, frame, target, cmd.Mesh, nil); err != nil {
			return fmt.Errorf("render: present command %d: %w", i, err)
		}
	}
	return nil
}
