// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

// Factory converts a CPU-side description S into a device resource R.
type Factory[S, R any] interface {
	Produce(desc S, dev Device) (R, error)
}

// ProduceFunc adapts a function to the Factory interface.
type ProduceFunc[S, R any] func(desc S, dev Device) (R, error)

// Produce calls f(desc, dev).
func (f ProduceFunc[S, R]) Produce(desc S, dev Device) (R, error) {
	return f(desc, dev)
}
