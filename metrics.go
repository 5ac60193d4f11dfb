package easel

import (
	"sync/atomic"
	"time"
)

// stats accumulates frame counters. Paint-side counts are written by the
// owning goroutine and present-side counts by the presenter goroutine, so
// all fields are atomic and a snapshot can be taken from anywhere.
type stats struct {
	framesPainted   atomic.Uint64
	framesPresented atomic.Uint64
	framesDropped   atomic.Uint64
	presentFailures atomic.Uint64
	paintNanos      atomic.Int64
	presentNanos    atomic.Int64
}

func (s *stats) addPaint(d time.Duration) {
	s.framesPainted.Add(1)
	s.paintNanos.Add(int64(d))
}

func (s *stats) addPresent(d time.Duration) {
	s.framesPresented.Add(1)
	s.presentNanos.Add(int64(d))
}

func (s *stats) snapshot() Stats {
	return Stats{
		FramesPainted:   s.framesPainted.Load(),
		FramesPresented: s.framesPresented.Load(),
		FramesDropped:   s.framesDropped.Load(),
		PresentFailures: s.presentFailures.Load(),
		PaintTime:       time.Duration(s.paintNanos.Load()),
		PresentTime:     time.Duration(s.presentNanos.Load()),
	}
}

// Stats is a point-in-time snapshot of canvas activity, returned by
// [Canvas.Stats].
type Stats struct {
	// FramesPainted counts frames that finished painting and were handed
	// to the presenter.
	FramesPainted uint64

	// FramesPresented counts frames that reached the surface.
	FramesPresented uint64

	// FramesDropped counts frames discarded without presenting: occluded
	// target, empty dirty region, or device loss mid-frame.
	FramesDropped uint64

	// PresentFailures counts presents that failed with a device error.
	PresentFailures uint64

	// PaintTime is the accumulated time between StartFrame and
	// FinishFrame.
	PaintTime time.Duration

	// PresentTime is the accumulated time spent presenting.
	PresentTime time.Duration
}
