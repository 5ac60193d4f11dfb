package backend

import (
	"errors"

	"github.com/gogpu/easel"
)

// Backend name constants.
const (
	// BackendWGPU is the name of the Pure Go GPU backend (gogpu/wgpu).
	BackendWGPU = "wgpu"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or no registered backend can open a device.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Factory opens a new rendering device. A factory may fail at call time
// when the underlying API is absent on the host (no Vulkan loader, no
// GPU); the registry treats such failures as "this backend is not
// available here" and moves on.
//
// Factories must be registered via Register() and are selected via
// New() or Default().
type Factory func() (easel.Device, error)
