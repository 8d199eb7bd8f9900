// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render drives a composition through a ping-pong buffer, frame
// by frame.
//
// # Lifecycle
//
//	r, err := render.Produce(1024, 512, comp, dev)
//	for frame := range frames {
//		if _, err := r.Step(frame); err != nil { ... }
//		cmds, err := r.Render(lib, frame)
//		if err != nil { ... }
//		if err := render.Present(lib, frame, cmds, screen); err != nil { ... }
//	}
//
// # Ping-Pong Buffer
//
// A Buffer owns two RGBA32Float textures. Layers draw into Front and may
// read Back, which holds the composite as it was before the current layer.
// After every layer's draw, Front is copied into Back. The buffer is never
// cleared between frames, so layers accumulate: a layer gated to one frame
// stays visible afterwards.
//
// Render returns the blitter: one draw command that samples Front across a
// full-frame rectangle. Present issues it against any target.
package render
