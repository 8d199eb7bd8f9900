// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend selects a gpu.Device implementation by name.
//
// Backends register themselves from init() functions, so importing a
// backend package makes it available:
//
//	import (
//		"github.com/gogpu/valora/backend"
//		_ "github.com/gogpu/valora/backend/soft"
//		_ "github.com/gogpu/valora/backend/wgpu"
//	)
//
//	dev, err := backend.Default() // wgpu when an adapter opens, soft otherwise
//	dev, err := backend.Open("soft")
//
// # Available Backends
//
//   - soft: CPU rasterizer. Always available, deterministic, used by tests.
//   - wgpu: gogpu/wgpu HAL device (Vulkan, Metal, DX12, GLES).
package backend
