// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/valora"
	"github.com/gogpu/valora/gpu"
)

var (
	registryMu sync.RWMutex
	backends   = make(map[string]DeviceFactory)
	// Priority order for Default (first device that opens wins).
	backendPriority = []string{BackendWGPU, BackendSoft}
)

// Register registers a device factory under name, replacing any factory
// already registered with that name.
func Register(name string, factory DeviceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open opens a device from the named backend.
func Open(name string) (gpu.Device, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	dev, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend: open %s: %w", name, err)
	}
	if dev == nil {
		return nil, fmt.Errorf("%w: %q returned no device", ErrBackendNotAvailable, name)
	}
	return dev, nil
}

// Default opens the highest priority backend that succeeds, then any
// other registered backend.
func Default() (gpu.Device, error) {
	tried := make(map[string]bool)
	for _, name := range append(slices.Clone(backendPriority), Available()...) {
		if tried[name] || !IsRegistered(name) {
			continue
		}
		tried[name] = true
		dev, err := Open(name)
		if err == nil {
			valora.Logger().Info("backend: selected", "backend", name, "device", dev.Name())
			return dev, nil
		}
		valora.Logger().Warn("backend: unavailable", "backend", name, "err", err)
	}
	return nil, ErrBackendNotAvailable
}

// MustDefault is like Default but panics when no backend opens.
func MustDefault() gpu.Device {
	dev, err := Default()
	if err != nil {
		panic(err)
	}
	return dev
}
