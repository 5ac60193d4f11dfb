package easel

import (
	"fmt"
	"image"
	"math"
	"sync/atomic"
)

// Buffer dimensions are clamped to this range. The upper bound matches the
// largest texture size the supported GPU backends guarantee.
const (
	minBufferDim = 1
	maxBufferDim = 16384
)

// surface owns the device-facing half of a Canvas: the device context, the
// swap chain with its target buffer, and the shared solid brush. All of it
// is created lazily, torn down wholesale on device loss, and recreated on
// the next frame.
//
// The surface tracks its size in logical units; the swap chain is sized in
// device pixels (logical x scale). Structural changes (resize, scale
// change) only record new bookkeeping here; the device objects are rebuilt
// by ensure, which the Canvas calls when no present is in flight.
type surface struct {
	device Device
	dc     DeviceContext
	chain  SwapChain
	buffer TargetBuffer
	solid  SolidBrush

	size  image.Point // logical size
	scale float64     // device pixels per logical unit

	needRebuild bool // pixel size changed while the swap chain was live

	// partialOK flips true after the first successful present since the
	// swap chain was created or resized. Until then every present covers
	// the full buffer. Written by the presenter goroutine, read by the
	// owner, hence atomic.
	partialOK atomic.Bool
}

func newSurface(dev Device, size image.Point, scale float64) *surface {
	if scale <= 0 {
		scale = 1
	}
	return &surface{
		device: dev,
		size:   clampBufferSize(size),
		scale:  scale,
	}
}

func clampDim(v int) int {
	if v < minBufferDim {
		return minBufferDim
	}
	if v > maxBufferDim {
		return maxBufferDim
	}
	return v
}

func clampBufferSize(size image.Point) image.Point {
	return image.Pt(clampDim(size.X), clampDim(size.Y))
}

// pixelSize returns the swap-chain size in device pixels.
func (s *surface) pixelSize() image.Point {
	w := int(math.Round(float64(s.size.X) * s.scale))
	h := int(math.Round(float64(s.size.Y) * s.scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Pt(w, h)
}

// pixelBounds returns the buffer bounds in device pixels.
func (s *surface) pixelBounds() image.Rectangle {
	return image.Rectangle{Max: s.pixelSize()}
}

// ensure lazily creates whatever is missing: device context, swap chain at
// the current pixel size, bound target buffer, shared solid brush. It also
// applies a pending rebuild after resize. Calling it with everything in
// place is a no-op, so the Canvas simply calls it every frame start.
//
// On any failure the partially built resources are released and the error
// returned; the next call starts from scratch.
func (s *surface) ensure() error {
	if s.dc == nil {
		dc, err := s.device.NewContext()
		if err != nil {
			return fmt.Errorf("easel: create device context: %w", err)
		}
		s.dc = dc
		s.dc.SetDPI(96 * s.scale)
	}
	if s.chain == nil {
		chain, err := s.device.NewSwapChain(s.pixelSize())
		if err != nil {
			s.release()
			return fmt.Errorf("easel: create swap chain: %w", err)
		}
		s.chain = chain
		s.needRebuild = false
		s.partialOK.Store(false)
	} else if s.needRebuild {
		// The target buffer must be unbound and released before the swap
		// chain can resize.
		s.dc.SetTarget(nil)
		if s.buffer != nil {
			s.buffer.Release()
			s.buffer = nil
		}
		if err := s.chain.Resize(s.pixelSize()); err != nil {
			s.release()
			return fmt.Errorf("easel: resize swap chain: %w", err)
		}
		s.needRebuild = false
		s.partialOK.Store(false)
	}
	if s.buffer == nil {
		buf, err := s.chain.Buffer()
		if err != nil {
			s.release()
			return fmt.Errorf("easel: acquire target buffer: %w", err)
		}
		s.buffer = buf
		s.dc.SetTarget(buf)
	}
	if s.solid == nil {
		b, err := s.dc.CreateSolidBrush(Black)
		if err != nil {
			s.release()
			return fmt.Errorf("easel: create solid brush: %w", err)
		}
		s.solid = b
	}
	return nil
}

// resize records a new logical size. Dimensions clamp to
// [minBufferDim, maxBufferDim]. Returns false without side effects when the
// clamped size equals the current one. The swap chain itself is rebuilt on
// the next ensure.
func (s *surface) resize(size image.Point) bool {
	size = clampBufferSize(size)
	if size == s.size {
		return false
	}
	s.size = size
	if s.chain != nil {
		s.needRebuild = true
	}
	s.partialOK.Store(false)
	return true
}

// setScale records a new scale factor and re-runs the resize pass at the
// new pixel size. Returns false when the factor is unchanged.
func (s *surface) setScale(scale float64) bool {
	if scale <= 0 || scale == s.scale {
		return false
	}
	s.scale = scale
	if s.dc != nil {
		s.dc.SetDPI(96 * scale)
	}
	if s.chain != nil {
		s.needRebuild = true
	}
	s.partialOK.Store(false)
	return true
}

// release tears the device-facing resources down together: brush, target
// buffer, swap chain, context. The Device itself survives; ensure recreates
// everything from it.
func (s *surface) release() {
	if s.solid != nil {
		s.solid.Release()
		s.solid = nil
	}
	if s.dc != nil {
		s.dc.SetTarget(nil)
	}
	if s.buffer != nil {
		s.buffer.Release()
		s.buffer = nil
	}
	if s.chain != nil {
		s.chain.Release()
		s.chain = nil
	}
	if s.dc != nil {
		s.dc.Release()
		s.dc = nil
	}
	s.needRebuild = false
	s.partialOK.Store(false)
}

// live reports whether the device resources currently exist.
func (s *surface) live() bool {
	return s.dc != nil && s.chain != nil && s.buffer != nil
}
