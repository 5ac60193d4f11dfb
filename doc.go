// Package easel provides a double-buffered 2D presentation engine for Go.
//
// # Overview
//
// easel sits between application draw calls and a hardware-accelerated
// compositor. It owns a per-frame saved-state stack (clip, transform, fill,
// font, interpolation mode) in classic graphics-context style, and a
// presentation pipeline that decouples CPU-side drawing from GPU present
// using two frame slots, a background presenter goroutine, and
// dirty-rectangle partial presents.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/easel"
//	    "github.com/gogpu/easel/backend"
//	    _ "github.com/gogpu/easel/backend/wgpu"
//	)
//
//	dev, err := backend.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cv, err := easel.New(800, 600, easel.WithDevice(dev))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cv.Close()
//
//	cv.AddDeferredRepaintAll()
//	if cv.StartFrame(1) {
//	    cv.SetColor(easel.RGB(0.2, 0.4, 0.9))
//	    cv.FillRect(easel.NewRect(10, 10, 200, 120))
//	    cv.FinishFrame()
//	}
//	<-cv.PaintReady()
//
// # Frames
//
// All drawing happens between StartFrame and FinishFrame. StartFrame admits a
// frame only when a frame slot is free and there is something to repaint; it
// returns false otherwise and the caller simply tries again on the next paint
// tick. FinishFrame hands the completed frame to the presenter goroutine and
// returns immediately; the owning goroutine never blocks on the presenter.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Logical coordinates; device pixels = logical x scale factor
//
// # Architecture
//
// The library is organized into:
//   - Public API: Canvas, Matrix, Path, Fill, Font
//   - Services: Device, DeviceContext, SwapChain, GeometryBuilder, TypesetService
//   - Backends: backend (registry), backend/wgpu (GPU via gogpu/wgpu)
//   - Doubles: record (call-recording device for tests and debugging)
//   - Text: typeset (HarfBuzz shaping via go-text/typesetting)
package easel

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
