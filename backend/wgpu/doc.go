// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements gpu.Device on the wgpu hardware abstraction layer.
//
// A Device either opens its own adapter (New) or borrows the device and
// queue of a host application (FromProvider, FromHAL):
//
//	dev, err := wgpu.New()
//	if err != nil {
//		// fall back to backend/soft
//	}
//	defer dev.Close()
//
// Importing the package registers the "wgpu" backend with package backend.
//
// # Resources
//
// Textures are RGBA32Float with a full mip chain. Layers render into and
// sample from mip level 0. Each Draw, Blit and Clear is encoded into its
// own command buffer and submitted immediately, so resources can be reused
// as soon as a call returns.
//
// Programs are compiled from WGSL to SPIR-V with naga. User programs must
// provide WGSL; CPU fragment functions are not run.
//
// Build with the nogpu tag to exclude this package's GPU code paths.
package wgpu
