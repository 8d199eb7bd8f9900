// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/wgpu/hal"
)

func viewBinding(binding uint32, t *Texture) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding:  binding,
		Resource: gputypes.TextureViewBinding{TextureView: gputypes.TextureViewHandle(t.view.NativeHandle())},
	}
}

// bound returns t, or the blank texture when t is nil.
func (d *Device) bound(t gpu.Texture) (*Texture, error) {
	wt, err := d.asTexture(t)
	if err != nil || wt != nil {
		return wt, err
	}
	return d.blank, nil
}

// Draw encodes one indexed draw into call.Target, loading its contents and
// blending over them.
func (d *Device) Draw(call gpu.DrawCall) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := call.Validate(); err != nil {
		return err
	}
	prog, ok := call.Program.(*program)
	if !ok || prog.dev != d {
		return fmt.Errorf("%w: program %T", ErrForeignResource, call.Program)
	}
	if prog.pipeline == nil {
		return fmt.Errorf("wgpu: program %q has been released", prog.label)
	}
	mb, ok := call.Mesh.(*meshBuffer)
	if !ok || mb.dev != d {
		return fmt.Errorf("%w: mesh %T", ErrForeignResource, call.Mesh)
	}
	if mb.vertices == nil {
		return gpu.ErrEmptyMesh
	}
	target, err := d.asTexture(call.Target)
	if err != nil {
		return err
	}
	source, err := d.bound(call.Source)
	if err != nil {
		return err
	}
	secondary, err := d.bound(call.Secondary)
	if err != nil {
		return err
	}

	ub, err := d.createBuffer("draw_uniforms", call.Uniforms.Bytes(), gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer d.device.DestroyBuffer(ub)

	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "draw_bind_group",
		Layout: d.pipes.drawLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: gpu.UniformsSize}},
			viewBinding(1, source),
			viewBinding(2, secondary),
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bg)

	return d.encode("draw", func(encoder hal.CommandEncoder) error {
		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "draw_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:    target.view,
				LoadOp:  gputypes.LoadOpLoad,
				StoreOp: gputypes.StoreOpStore,
			}},
		})
		rp.SetPipeline(prog.pipeline)
		rp.SetBindGroup(0, bg, nil)
		rp.SetVertexBuffer(0, mb.vertices, 0)
		rp.SetIndexBuffer(mb.indices, gputypes.IndexFormatUint32, 0)
		rp.DrawIndexed(uint32(mb.indexCount), 1, 0, 0, 0)
		rp.End()
		return nil
	})
}

// Blit replaces dst with src resampled by a full-target triangle.
func (d *Device) Blit(dst, src gpu.Texture, filter gputypes.FilterMode) error {
	if err := d.check(); err != nil {
		return err
	}
	if dst == nil || src == nil {
		return fmt.Errorf("wgpu: blit: nil texture")
	}
	if dst == src {
		return gpu.ErrFeedbackLoop
	}
	to, err := d.asTexture(dst)
	if err != nil {
		return err
	}
	from, err := d.asTexture(src)
	if err != nil {
		return err
	}
	if to.released || from.released {
		return fmt.Errorf("wgpu: blit %q <- %q: %w", to.label, from.label, gpu.ErrTextureReleased)
	}

	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "blit_bind_group",
		Layout:  d.pipes.blitLayout,
		Entries: []gputypes.BindGroupEntry{viewBinding(1, from)},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create blit bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bg)

	return d.encode("blit", func(encoder hal.CommandEncoder) error {
		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "blit_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       to.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{},
			}},
		})
		rp.SetPipeline(d.pipes.blit(filter))
		rp.SetBindGroup(0, bg, nil)
		rp.Draw(3, 1, 0, 0)
		rp.End()
		return nil
	})
}
