// Package valora provides the rendering core of a generative-art toolkit.
//
// # Overview
//
// A sketch is an ordered stack of vector shapes ("layers") rendered into a
// GPU-resident image once per animation frame. Each layer pairs a mesh with a
// shader; shaders can be gated to a single frame and can sample the
// accumulated result of every layer drawn before them.
//
// # Quick Start
//
//	dev := soft.New()
//	lib, _ := gpu.NewLibrary(dev)
//
//	disc := mesh.Fill(valora.Circle(valora.Pt(0.5, 0.5), 0.25), valora.Solid(valora.Red))
//	comp := composition.New().
//	    SolidLayer(valora.Solid(valora.Black)).
//	    Add(composition.MeshLayer(disc))
//
//	r, _ := render.Produce(1024, 512, comp, dev)
//	for frame := 0; frame < 60; frame++ {
//	    r, _ = r.Step(frame)
//	    cmds, _ := r.Render(lib, frame)
//	    _ = render.Present(lib, frame, cmds, screen)
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Point, RGBA, Colorer, Polygon, Ellipse (this package)
//   - tween: frame-indexed scalar functions
//   - tessellation: outlines to triangle meshes with per-vertex color
//   - mesh, shader, composition: the CPU-side scene model
//   - gpu: the GPU handle contract, resource factories, program library
//   - render: ping-pong buffer and the per-frame render pipeline
//   - backend/soft, backend/wgpu: GPU handle implementations
//   - sketch: option parsing, seeded composers and the capture loop
//
// # Coordinate System
//
// Geometry lives in normalized frame space:
//   - Origin (0,0) at top-left
//   - (1,1) at bottom-right
//   - Y increases down
//   - Angles in radians
//
// Frame() returns the unit rectangle covering the whole output.
package valora

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
