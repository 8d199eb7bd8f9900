// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu turns CPU-side descriptions into device resources.
//
// A Device is the abstract GPU handle. Backends implement it: backend/soft
// rasterizes on the CPU, backend/wgpu drives a gogpu/wgpu HAL device. All
// resources hold a reference to the Device that created them.
//
// # Factories
//
// Every CPU description that has a GPU counterpart is converted with a
// Factory:
//
//	shader.Shader -> *gpu.Shader   (ProduceShader)
//	*mesh.Mesh    -> *gpu.Mesh     (ProduceMesh)
//
// The render package adds factories for layers and ping-pong buffers.
//
// # Program Interface
//
// Every program, built-in or custom, sees the same inputs:
//
//	@group(0) @binding(0) var<uniform> u: Uniforms; // scale, frame, width, height
//	@group(0) @binding(1) var source: texture_2d<f32>;
//	@group(0) @binding(2) var secondary: texture_2d<f32>;
//
//	@location(0) position: vec2<f32> // normalized frame space
//	@location(1) color: vec4<f32>    // straight alpha
//
// Both textures are RGBA32Float and hold premultiplied color. They are read
// with textureLoad since 32-bit float formats are not filterable;
// ProgramPrelude provides sample_source and sample_secondary for bilinear
// reads. Programs must declare vs_main and fs_main and return premultiplied
// color.
package gpu
