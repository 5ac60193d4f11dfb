package easel

import "errors"

// Sentinel errors. Callers classify failures with errors.Is; most of the
// engine reacts to these internally (device loss tears the surface down,
// occlusion drops the frame) and they surface to the caller only through
// FinishFrame and Close.
var (
	// ErrDeviceLost reports that the GPU device became unusable. The surface
	// is torn down and recreated lazily on the next frame.
	ErrDeviceLost = errors.New("easel: device lost")

	// ErrSurfaceOccluded reports that the present target is not visible.
	// The frame is dropped silently; no teardown happens.
	ErrSurfaceOccluded = errors.New("easel: surface occluded")

	// ErrNoDevice is returned by New when no Device was configured.
	ErrNoDevice = errors.New("easel: no device configured")

	// ErrClosed is returned by operations on a closed Canvas.
	ErrClosed = errors.New("easel: canvas closed")
)
