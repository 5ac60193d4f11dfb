// Package backend provides a pluggable rendering device registry.
//
// The backend package decouples easel from any particular rendering
// implementation. Device factories register themselves here and callers
// select one at runtime.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// Importing a backend package registers it:
//
//	import _ "github.com/gogpu/easel/backend/wgpu"
//
// # Backend Selection
//
// Use Default() to open the best available device, or New() to request
// a specific backend by name:
//
//	// Open the default (best available) device
//	dev, err := backend.Default()
//
//	// Or request a specific backend
//	dev, err := backend.New("wgpu")
//
// # Usage with Canvas
//
// The device plugs into a canvas via easel.WithDevice:
//
//	dev, err := backend.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
//	canvas, err := easel.New(800, 600, easel.WithDevice(dev))
//
// # Available Backends
//
// - "wgpu": GPU-accelerated via gogpu/wgpu (build without the nogpu tag)
package backend
