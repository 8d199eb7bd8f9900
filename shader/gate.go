package shader

import "fmt"

// Gate decides on which frames an Intermittent shader draws.
// Active must be a pure function of frame: no counters, no clocks.
type Gate interface {
	Active(frame int) bool
}

// OnFrame is active on exactly one frame.
type OnFrame int

// Active implements Gate.
func (g OnFrame) Active(frame int) bool { return frame == int(g) }

// String implements fmt.Stringer.
func (g OnFrame) String() string { return fmt.Sprintf("frame == %d", int(g)) }

// Always is active on every frame.
type Always struct{}

// Active implements Gate.
func (Always) Active(int) bool { return true }

// String implements fmt.Stringer.
func (Always) String() string { return "always" }

// Every is active on frames Offset, Offset+N, Offset+2N, ...
// N of zero or less is never active.
type Every struct {
	N      int
	Offset int
}

// Active implements Gate.
func (g Every) Active(frame int) bool {
	if g.N <= 0 || frame < g.Offset {
		return false
	}
	return (frame-g.Offset)%g.N == 0
}

// String implements fmt.Stringer.
func (g Every) String() string { return fmt.Sprintf("every %d from %d", g.N, g.Offset) }

// GateFunc adapts a pure function to the Gate interface.
type GateFunc func(frame int) bool

// Active implements Gate.
func (f GateFunc) Active(frame int) bool { return f(frame) }

// String implements fmt.Stringer.
func (GateFunc) String() string { return "func" }
