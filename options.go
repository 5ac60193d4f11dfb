package easel

// Option configures a Canvas during creation.
// Use functional options to customize Canvas behavior.
//
// Example:
//
//	// Minimal canvas over an explicit device
//	cv, err := easel.New(800, 600, easel.WithDevice(dev))
//
//	// Full wiring for a windowed application
//	cv, err := easel.New(800, 600,
//	    easel.WithDevice(dev),
//	    easel.WithTypesetService(fonts),
//	    easel.WithWindowHost(host),
//	    easel.WithScaleFactor(1.5),
//	)
type Option func(*options)

// options holds optional configuration for Canvas creation.
type options struct {
	device      Device
	builder     GeometryBuilder
	typeset     TypesetService
	host        WindowHost
	scale       float64
	syncPresent bool
}

// defaultOptions returns the default canvas options.
func defaultOptions() options {
	return options{
		scale: 1, // 96 DPI
	}
}

// WithDevice sets the rendering device. Required: New fails with
// ErrNoDevice when no device is configured.
//
// Obtain a device from the backend registry:
//
//	import (
//	    "github.com/gogpu/easel/backend"
//	    _ "github.com/gogpu/easel/backend/wgpu"
//	)
//
//	dev, err := backend.Default()
func WithDevice(d Device) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithGeometryBuilder sets the geometry builder used for paths and
// geometric clips. When unset, the device's own builder is used if it
// implements GeometrySource; otherwise path drawing and geometric clipping
// degrade to logged no-ops.
func WithGeometryBuilder(b GeometryBuilder) Option {
	return func(o *options) {
		o.builder = b
	}
}

// WithTypesetService sets the text shaping service used by DrawText.
// When unset, text drawing degrades to a logged no-op.
//
// Example:
//
//	fonts := typeset.New()
//	fonts.Register("Roboto", easel.FontPlain, robotoTTF)
//	cv, err := easel.New(800, 600, easel.WithDevice(dev),
//	    easel.WithTypesetService(fonts))
func WithTypesetService(t TypesetService) Option {
	return func(o *options) {
		o.typeset = t
	}
}

// WithWindowHost connects the canvas to the window system's invalidation
// bookkeeping. Each StartFrame folds the host's invalid region into the
// frame's paint areas and validates what it consumed.
func WithWindowHost(h WindowHost) Option {
	return func(o *options) {
		o.host = h
	}
}

// WithScaleFactor sets the initial DPI scale factor (1.0 = 96 DPI).
// The swap chain is sized in device pixels: logical size x scale.
func WithScaleFactor(scale float64) Option {
	return func(o *options) {
		if scale > 0 {
			o.scale = scale
		}
	}
}

// WithSynchronousPresent disables the presenter goroutine: FinishFrame
// presents inline before returning. Useful for tests, offscreen rendering
// and callers that already own a compositor loop.
func WithSynchronousPresent() Option {
	return func(o *options) {
		o.syncPresent = true
	}
}
