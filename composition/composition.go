package composition

import (
	"github.com/gogpu/valora"
	"github.com/gogpu/valora/mesh"
)

// Composition is an insertion-ordered sequence of layers built with Add.
//
// Layers consumes the Composition. Calling Add, SolidLayer or Layers after
// that is a programming error and panics.
type Composition struct {
	layers   []Layer
	consumed bool
}

// New returns an empty composition.
func New() *Composition {
	return &Composition{}
}

func (c *Composition) mustLive(op string) {
	if c.consumed {
		panic("composition: " + op + " called after Layers consumed the composition")
	}
}

// Add appends each input in argument order. A Layers input contributes its
// elements in slice order. Returns c for chaining.
func (c *Composition) Add(inputs ...Input) *Composition {
	c.mustLive("Add")
	for _, in := range inputs {
		if in == nil {
			continue
		}
		c.layers = append(c.layers, in.flatten()...)
	}
	return c
}

// SolidLayer adds a full-frame rectangle colored by colorer.
func (c *Composition) SolidLayer(colorer valora.Colorer) *Composition {
	return c.Add(MeshLayer(mesh.FullFrame(colorer)))
}

// Len returns the number of layers added so far.
func (c *Composition) Len() int {
	return len(c.layers)
}

// Layers consumes the composition and returns its layers in add order.
func (c *Composition) Layers() Layers {
	c.mustLive("Layers")
	c.consumed = true
	out := c.layers
	c.layers = nil
	return out
}
