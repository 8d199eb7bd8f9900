// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/valora"
	"github.com/gogpu/valora/backend"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Errors returned by the wgpu backend.
var (
	// ErrForeignResource is returned when a resource created by another
	// device is passed to a wgpu device.
	ErrForeignResource = errors.New("wgpu: resource was not created by this device")

	// ErrNoAdapter is returned when no GPU adapter is available.
	ErrNoAdapter = errors.New("wgpu: no GPU adapter found")

	// ErrClosed is returned by a Device after Close.
	ErrClosed = errors.New("wgpu: device is closed")

	// ErrGPUTimeout is returned when a submission does not finish in time.
	ErrGPUTimeout = errors.New("wgpu: timed out waiting for GPU")
)

// submitTimeout bounds a fence wait.
const submitTimeout = 5 * time.Second

func init() {
	backend.Register(backend.BackendWGPU, func() (gpu.Device, error) {
		return New()
	})
}

// Option configures a Device opened by New.
type Option func(*options)

type options struct {
	label   string
	backend gputypes.Backend
}

// WithLabel sets the label reported by Name.
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// WithBackend selects the HAL backend New opens. The default is Vulkan.
func WithBackend(b gputypes.Backend) Option {
	return func(o *options) { o.backend = b }
}

// Device is a gpu.Device backed by a hal.Device.
type Device struct {
	label string

	instance hal.Instance // nil when the device is borrowed
	device   hal.Device
	queue    hal.Queue
	owned    bool
	closed   bool

	pipes *pipelines
	blank *Texture
}

var _ gpu.Device = (*Device)(nil)

// New opens the first discrete or integrated adapter of the selected
// backend.
func New(opts ...Option) (*Device, error) {
	o := options{label: backend.BackendWGPU, backend: gputypes.BackendVulkan}
	for _, opt := range opts {
		opt(&o)
	}

	halBackend, ok := hal.GetBackend(o.backend)
	if !ok {
		return nil, fmt.Errorf("wgpu: %v backend not available", o.backend)
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	d, err := newDevice(o.label, openDev.Device, openDev.Queue)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.owned = true
	slogger().Info("wgpu: device opened", "adapter", selected.Info.Name, "backend", o.backend)
	return d, nil
}

// FromHAL wraps a device and queue owned by the caller. Close releases the
// valora resources but leaves the device open.
func FromHAL(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, gpu.ErrNilDevice
	}
	return newDevice(backend.BackendWGPU, device, queue)
}

// FromProvider shares the device of a host application. The provider must
// also expose HalDevice() and HalQueue() returning hal.Device and hal.Queue.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	if provider == nil {
		return nil, gpu.ErrNilDevice
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("wgpu: provider HalQueue is not hal.Queue")
	}
	return newDevice(backend.BackendWGPU, device, queue)
}

func newDevice(label string, device hal.Device, queue hal.Queue) (*Device, error) {
	d := &Device{label: label, device: device, queue: queue}
	pipes, err := newPipelines(device)
	if err != nil {
		return nil, err
	}
	d.pipes = pipes

	blank, err := d.newTexture(gpu.TextureDescriptor{Label: "blank", Width: 1, Height: 1, MipLevelCount: 1})
	if err != nil {
		pipes.destroy(device)
		return nil, fmt.Errorf("wgpu: blank texture: %w", err)
	}
	if err := blank.Clear(valora.Transparent); err != nil {
		blank.Release()
		pipes.destroy(device)
		return nil, fmt.Errorf("wgpu: blank texture: %w", err)
	}
	d.blank = blank
	return d, nil
}

// Name returns the device label.
func (d *Device) Name() string { return d.label }

// HAL returns the underlying device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) { return d.device, d.queue }

// Close releases the shared pipelines and, for devices opened by New, the
// device and instance. Resources created by d must be released first.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true
	if d.blank != nil {
		d.blank.Release()
		d.blank = nil
	}
	if d.pipes != nil {
		d.pipes.destroy(d.device)
		d.pipes = nil
	}
	if d.owned {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device, d.queue, d.instance = nil, nil, nil
}

func (d *Device) check() error {
	if d.closed {
		return ErrClosed
	}
	return nil
}

// submit ends the encoder, submits it and waits for completion.
func (d *Device) submit(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, submitTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !fenceOK {
		return ErrGPUTimeout
	}
	return nil
}

// encode records one command buffer with fn and submits it.
func (d *Device) encode(label string, fn func(hal.CommandEncoder) error) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	if err := fn(encoder); err != nil {
		encoder.DiscardEncoding()
		return err
	}
	return d.submit(encoder)
}
