package easel

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"
)

// Presentation slot lifecycle. A slot moves clear -> painting -> painted on
// the owning goroutine and painted -> clear on the presenter goroutine.
// The status is the only field both goroutines touch while the slot is in
// flight, so it is atomic; the store to clear is the release point after
// which the owner may reuse the slot and read its error field.
const (
	slotClear int32 = iota
	slotPainting
	slotPainted
)

// presentation is one frame slot. Two of them alternate: one accumulates
// repaint areas and receives the current frame's drawing, the other may be
// in flight to the presenter. A slot is published at most once per cycle
// and returns to clear before it can be written again.
type presentation struct {
	paintAreas RectList // device pixels, accumulated while clear
	frame      uint64   // frame sequence number
	status     atomic.Int32

	dirty       []image.Rectangle // paint areas clipped to the buffer
	fullPresent bool              // present the whole buffer, ignore dirty
	entire      bool              // paint areas cover the entire buffer

	// err carries the present outcome across the goroutine boundary. The
	// presenter writes it before resetting the status to clear; the owner
	// reads and consumes it on the next frame start.
	err error
}

// reset returns the slot to clear. Everything except err is wiped; err
// survives so the owner can inspect the present outcome.
func (pr *presentation) reset() {
	pr.paintAreas.Clear()
	pr.dirty = nil
	pr.fullPresent = false
	pr.entire = false
	pr.status.Store(slotClear)
}

// pipeline coordinates the two presentation slots, the presenter goroutine
// and the surface. All methods except run/presentOnce are called from the
// owning goroutine.
//
// Back-pressure is a non-blocking check: a frame starts only while the
// other slot is clear, so the owner never waits on the presenter and at
// most one frame is ever in flight.
type pipeline struct {
	surface *surface
	host    WindowHost
	stats   *stats

	slots [2]presentation
	write int // index of the slot accumulating the next frame

	// published hands a painted slot to the presenter. CompareAndSwap on
	// publish guarantees a slot is never queued twice; Swap on claim
	// guarantees exactly one presenter sees it.
	published atomic.Pointer[presentation]

	wake  chan struct{} // presenter doorbell, capacity 1
	ready chan struct{} // frame-ready notification, capacity 1

	syncPresent bool // present inline in finishFrame, no goroutine

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newPipeline(s *surface, host WindowHost, st *stats, syncPresent bool) *pipeline {
	p := &pipeline{
		surface:     s,
		host:        host,
		stats:       st,
		wake:        make(chan struct{}, 1),
		ready:       make(chan struct{}, 1),
		done:        make(chan struct{}),
		syncPresent: syncPresent,
	}
	if !syncPresent {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// addRepaint queues a device-pixel area into the write slot. The write slot
// must be clear: repainting a slot that is painting or in flight is a
// programmer error and is ignored.
func (p *pipeline) addRepaint(r image.Rectangle) {
	w := &p.slots[p.write]
	if w.status.Load() != slotClear {
		slogger().Error("programmer error: deferred repaint added to a busy frame slot")
		return
	}
	w.paintAreas.Add(r)
}

// needsRepaint reports whether any area is queued for the next frame.
func (p *pipeline) needsRepaint() bool {
	return !p.slots[p.write].paintAreas.Empty()
}

// otherSlotClear is the back-pressure check: the frame after the next one
// may only start once the in-flight slot has come back.
func (p *pipeline) otherSlotClear() bool {
	return p.slots[1-p.write].status.Load() == slotClear
}

// startFrame admits a frame into the write slot. It folds the window
// host's invalid region into the queued areas, clips them to the buffer,
// and fails (returning false, keeping the areas) when nothing remains to
// paint or a slot is still busy. On success the slot is painting, the
// consumed OS region is validated, and the device context has begun
// drawing on the back buffer.
func (p *pipeline) startFrame(frame uint64) bool {
	if !p.otherSlotClear() {
		return false
	}
	w := &p.slots[p.write]
	if w.status.Load() != slotClear {
		slogger().Error("programmer error: frame started on a busy slot", "frame", frame)
		return false
	}

	var consumed []image.Rectangle
	if p.host != nil {
		consumed = p.host.TakeInvalidRegion()
		for _, r := range consumed {
			w.paintAreas.Add(r)
		}
	}
	bounds := p.surface.pixelBounds()
	w.paintAreas.ClipTo(bounds)
	if w.paintAreas.Empty() {
		return false
	}

	w.frame = frame
	w.status.Store(slotPainting)
	if p.host != nil && len(consumed) > 0 {
		p.host.ValidateRegion(consumed)
	}
	w.entire = false
	for _, r := range w.paintAreas.Rects() {
		if r == bounds {
			w.entire = true
			break
		}
	}
	p.surface.dc.Begin()
	return true
}

// writeAreas exposes the painting slot's areas so the facade can clip
// drawing to them. Valid only between startFrame and finishFrame.
func (p *pipeline) writeAreas() (rects []image.Rectangle, entire bool) {
	w := &p.slots[p.write]
	return w.paintAreas.Rects(), w.entire
}

// finishFrame ends device drawing and hands the slot to the presenter. On
// device failure the slot is discarded, the surface torn down, and the
// error returned; the pipeline itself stays usable and recreates lazily.
// An empty dirty region aborts the slot back to clear without presenting.
func (p *pipeline) finishFrame() error {
	w := &p.slots[p.write]
	if w.status.Load() != slotPainting {
		slogger().Error("programmer error: FinishFrame without a started frame")
		return nil
	}

	if err := p.surface.dc.End(); err != nil {
		w.err = nil
		w.reset()
		p.surface.release()
		p.stats.framesDropped.Add(1)
		return fmt.Errorf("easel: end frame %d: %w", w.frame, err)
	}

	dirty := w.paintAreas.Clipped(p.surface.pixelBounds())
	if len(dirty) == 0 {
		w.err = nil
		w.reset()
		p.stats.framesDropped.Add(1)
		return nil
	}
	w.dirty = dirty
	w.fullPresent = !p.surface.partialOK.Load()
	w.status.Store(slotPainted)

	if !p.published.CompareAndSwap(nil, w) {
		slogger().Error("programmer error: presentation slot already queued", "frame", w.frame)
		w.err = nil
		w.reset()
		return nil
	}
	p.write = 1 - p.write

	if p.syncPresent {
		p.presentOnce()
	} else {
		signal(p.wake)
	}
	return nil
}

// abortFrame discards a frame that started but will never finish, ending
// device drawing and returning the write slot to clear. Used by Close.
func (p *pipeline) abortFrame() {
	w := &p.slots[p.write]
	if w.status.Load() != slotPainting {
		return
	}
	if err := p.surface.dc.End(); err != nil {
		slogger().Warn("easel: end draw while aborting frame", "error", err)
	}
	w.err = nil
	w.reset()
}

// run is the presenter goroutine: the only blocking wait in the engine.
func (p *pipeline) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
			p.presentOnce()
		}
	}
}

// presentOnce claims the published slot, presents it, and returns the slot
// to clear. The first present after the swap chain was created or resized
// covers the full buffer; afterwards only the dirty list is presented.
// Outcomes travel back to the owner through the slot's err field only.
func (p *pipeline) presentOnce() bool {
	pr := p.published.Swap(nil)
	if pr == nil {
		return false
	}

	chain := p.surface.chain
	if chain == nil {
		pr.err = ErrDeviceLost
		pr.reset()
		signal(p.ready)
		return true
	}

	var dirty []image.Rectangle
	if !pr.fullPresent {
		dirty = pr.dirty
	}
	start := time.Now()
	err := chain.Present(dirty)
	switch {
	case err == nil:
		p.surface.partialOK.Store(true)
		pr.err = nil
		p.stats.addPresent(time.Since(start))
	case errors.Is(err, ErrSurfaceOccluded):
		pr.err = err
		p.stats.framesDropped.Add(1)
	default:
		pr.err = err
		p.stats.presentFailures.Add(1)
	}
	pr.reset()
	signal(p.ready)
	return true
}

// takePresentError consumes the outcome of the last present, if any. The
// owner calls it at frame start: an occluded present means the frame was
// dropped silently, anything else tears the surface down for lazy
// recreation.
func (p *pipeline) takePresentError() error {
	for i := range p.slots {
		s := &p.slots[i]
		if s.status.Load() == slotClear && s.err != nil {
			err := s.err
			s.err = nil
			return err
		}
	}
	return nil
}

// paintReady returns the notification channel. It has capacity 1 and
// coalesces: a receive means at least one frame completed a present cycle
// since the last receive.
func (p *pipeline) paintReady() <-chan struct{} {
	return p.ready
}

// stop shuts the presenter down and discards anything still queued.
// Idempotent.
func (p *pipeline) stop() {
	p.stopOnce.Do(func() {
		if !p.syncPresent {
			close(p.done)
			p.wg.Wait()
		}
		if pr := p.published.Swap(nil); pr != nil {
			pr.err = nil
			pr.reset()
		}
	})
}

// signal performs the non-blocking send used for both the presenter
// doorbell and the ready notification.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
