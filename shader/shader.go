// Package shader describes GPU effects on the CPU side.
//
// A Shader is one of four variants:
//   - Default: draws the mesh with its per-vertex colors
//   - Texture: samples a source texture across the mesh
//   - Program: custom WGSL source, optionally with a CPU fragment function
//   - Intermittent: wraps another shader with a frame Gate
//
// The gpu package turns a Shader into a device resource.
package shader

import (
	"fmt"
)

// Shader is the sealed set of effect descriptions.
type Shader interface {
	// String names the variant for logs.
	String() string

	shaderMarker()
}

// Default draws with per-vertex colors.
type Default struct{}

func (Default) shaderMarker() {}

// String implements fmt.Stringer.
func (Default) String() string { return "default" }

// Source is a texture a Texture shader can sample. Textures created by a
// gpu.Device satisfy it.
type Source interface {
	Width() int
	Height() int
}

// Texture samples Source with linear filtering, mapping normalized frame
// coordinates directly to texture coordinates.
type Texture struct {
	Source Source
}

func (Texture) shaderMarker() {}

// String implements fmt.Stringer.
func (t Texture) String() string {
	if t.Source == nil {
		return "texture(nil)"
	}
	return fmt.Sprintf("texture(%dx%d)", t.Source.Width(), t.Source.Height())
}

// Program is a custom effect written in WGSL.
//
// The WGSL module must declare vs_main and fs_main entry points and use the
// standard vertex layout and bind group (see gpu.ProgramInterface).
// Fragment is the equivalent CPU function used by backends that cannot run
// WGSL; it may be nil when only GPU backends are targeted.
type Program struct {
	Label    string
	WGSL     string
	Fragment FragmentFunc
}

func (Program) shaderMarker() {}

// String implements fmt.Stringer.
func (p Program) String() string { return fmt.Sprintf("program(%s)", p.Label) }

// Intermittent draws Inner only on frames where Gate is active.
//
// The Gate is shared by every copy of the shader, so copying an
// Intermittent never changes which frames it draws on.
type Intermittent struct {
	Inner Shader
	Gate  Gate
}

func (Intermittent) shaderMarker() {}

// String implements fmt.Stringer.
func (i Intermittent) String() string {
	return fmt.Sprintf("intermittent(%v, %v)", Resolve(i.Inner), i.Gate)
}

// Once wraps inner so that it draws only on frame. A nil inner wraps
// Default.
func Once(inner Shader, frame int) Intermittent {
	return Intermittent{Inner: Resolve(inner), Gate: OnFrame(frame)}
}

// Resolve returns s, or Default when s is nil.
func Resolve(s Shader) Shader {
	if s == nil {
		return Default{}
	}
	return s
}

// Active reports whether s draws on frame. Non-intermittent shaders are
// always active; nested Intermittent shaders require every gate to pass.
// A nil Gate is always active.
func Active(s Shader, frame int) bool {
	for {
		i, ok := s.(Intermittent)
		if !ok {
			return true
		}
		if i.Gate != nil && !i.Gate.Active(frame) {
			return false
		}
		s = i.Inner
	}
}

// Unwrap strips every Intermittent layer and returns the shader that
// actually draws.
func Unwrap(s Shader) Shader {
	for {
		i, ok := s.(Intermittent)
		if !ok {
			return Resolve(s)
		}
		s = i.Inner
	}
}
