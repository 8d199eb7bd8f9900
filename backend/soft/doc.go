// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package soft is a CPU implementation of gpu.Device.
//
// Textures are RGBA32Float with premultiplied alpha, matching the GPU
// backends. Draws rasterize triangles with the top-left fill rule and
// blend source-over. Built-in programs are evaluated natively; custom
// programs run their CPU fragment function, so a shader.Program without
// one cannot be drawn here.
//
// The soft device is deterministic and is the reference used by tests.
// It registers itself with the backend package as "soft".
package soft
