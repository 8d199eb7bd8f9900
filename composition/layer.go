// Package composition builds the ordered stack of layers a sketch renders.
//
//	comp := composition.New().
//	    SolidLayer(valora.Solid(valora.Black)).
//	    Add(composition.MeshLayer(disc)).
//	    Add(composition.Layers{ring, composition.EffectLayer(blur)}).
//	    Add(composition.Once(composition.MeshLayer(flash), 30))
//
// Layers are drawn in the order they were added. Adding a Layers slice is
// the same as adding each of its elements individually, in slice order.
package composition

import (
	"fmt"

	"github.com/gogpu/valora"
	"github.com/gogpu/valora/mesh"
	"github.com/gogpu/valora/shader"
)

// Kind tags the two layer variants.
type Kind int

const (
	// KindMesh is a mesh drawn with the implicit default shader.
	KindMesh Kind = iota
	// KindShadedMesh is a mesh drawn with an explicit shader.
	KindShadedMesh
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindShadedMesh:
		return "shaded-mesh"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Layer is one visual contribution: a mesh and the shader that draws it.
// Layers are immutable once constructed.
type Layer struct {
	kind   Kind
	shader shader.Shader
	mesh   *mesh.Mesh
}

// MeshLayer draws m with the default shader.
func MeshLayer(m *mesh.Mesh) Layer {
	return Layer{kind: KindMesh, mesh: m}
}

// EffectLayer draws s over a full-frame rectangle.
func EffectLayer(s shader.Shader) Layer {
	return ShadedLayer(s, mesh.FullFrame(valora.Solid(valora.White)))
}

// ShadedLayer draws m with s. A nil shader means the default shader.
func ShadedLayer(s shader.Shader, m *mesh.Mesh) Layer {
	return Layer{kind: KindShadedMesh, shader: shader.Resolve(s), mesh: m}
}

// Kind returns the layer variant.
func (l Layer) Kind() Kind { return l.kind }

// Shader returns the shader that draws the layer. KindMesh layers report
// shader.Default.
func (l Layer) Shader() shader.Shader {
	if l.kind == KindMesh {
		return shader.Default{}
	}
	return shader.Resolve(l.shader)
}

// Mesh returns the layer geometry.
func (l Layer) Mesh() *mesh.Mesh { return l.mesh }

// String implements fmt.Stringer.
func (l Layer) String() string {
	return fmt.Sprintf("%s[%s]", l.kind, l.Shader())
}

// Input is a single Layer or a Layers slice.
type Input interface {
	flatten() []Layer
}

func (l Layer) flatten() []Layer { return []Layer{l} }

// Layers is an ordered batch of layers. It is itself an Input.
type Layers []Layer

func (ls Layers) flatten() []Layer { return ls }

// Once converts every layer of input into a shaded layer that draws only on
// frame. Mesh layers are wrapped around the default shader; shaded layers
// keep their shader inside the gate. Order is preserved.
func Once(input Input, frame int) Layers {
	src := input.flatten()
	out := make(Layers, len(src))
	for i, l := range src {
		out[i] = ShadedLayer(shader.Once(l.Shader(), frame), l.mesh)
	}
	return out
}
