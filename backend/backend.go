// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/valora/gpu"
)

// Backend name constants.
const (
	// BackendSoft is the name of the CPU rasterizer.
	BackendSoft = "soft"
	// BackendWGPU is the name of the gogpu/wgpu HAL backend.
	BackendWGPU = "wgpu"
)

// ErrBackendNotAvailable is returned when a requested backend is not
// registered or cannot open a device.
var ErrBackendNotAvailable = errors.New("backend: not available")

// DeviceFactory opens a new device.
type DeviceFactory func() (gpu.Device, error)
