package backend

import (
	"fmt"
	"sync"

	"github.com/gogpu/easel"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first to open wins).
	backendPriority = []string{BackendWGPU}
)

// Register registers a device factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// New opens a device from the named backend.
// Returns ErrBackendNotAvailable if the backend is not registered.
func New(name string) (easel.Device, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("backend %q: %w", name, ErrBackendNotAvailable)
	}
	return factory()
}

// Default opens a device from the best available backend based on
// priority. Backends whose factory fails are skipped; if every
// registered backend fails, the last failure is returned wrapped in
// ErrBackendNotAvailable.
func Default() (easel.Device, error) {
	registryMu.RLock()
	factories := make(map[string]Factory, len(backends))
	for name, f := range backends {
		factories[name] = f
	}
	registryMu.RUnlock()

	var lastErr error
	tried := make(map[string]bool, len(factories))
	for _, name := range backendPriority {
		factory, ok := factories[name]
		if !ok {
			continue
		}
		tried[name] = true
		dev, err := factory()
		if err == nil {
			return dev, nil
		}
		lastErr = err
	}

	// Fallback: try anything registered outside the priority list.
	for name, factory := range factories {
		if tried[name] {
			continue
		}
		dev, err := factory()
		if err == nil {
			return dev, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendNotAvailable, lastErr)
	}
	return nil, ErrBackendNotAvailable
}

// MustDefault opens the default device or panics.
func MustDefault() easel.Device {
	dev, err := Default()
	if err != nil {
		panic("backend: no backend available: " + err.Error())
	}
	return dev
}
