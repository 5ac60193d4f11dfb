package record

import (
	"image"
	"sync"

	"github.com/gogpu/easel"
)

// SwapChain is a recording easel.SwapChain. It logs every resize and
// present; a nil entry in the present log is a full present, a non-nil
// entry lists the dirty rectangles.
type SwapChain struct {
	mu       sync.Mutex
	size     image.Point
	resizes  []image.Point
	presents [][]image.Rectangle
	released bool

	// FailResize makes the next Resize fail.
	FailResize error

	// FailBuffer makes the next Buffer fail.
	FailBuffer error

	// FailPresent makes the next Present fail. The present is still
	// logged.
	FailPresent error

	// PresentFunc, when set, supplies the result of Present after the
	// call is logged. FailPresent takes precedence.
	PresentFunc func(dirty []image.Rectangle) error
}

var _ easel.SwapChain = (*SwapChain)(nil)

func newSwapChain(size image.Point) *SwapChain {
	return &SwapChain{size: size}
}

// Resize implements easel.SwapChain.
func (sc *SwapChain) Resize(size image.Point) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if err := sc.FailResize; err != nil {
		sc.FailResize = nil
		return err
	}
	sc.size = size
	sc.resizes = append(sc.resizes, size)
	return nil
}

// Buffer implements easel.SwapChain.
func (sc *SwapChain) Buffer() (easel.TargetBuffer, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if err := sc.FailBuffer; err != nil {
		sc.FailBuffer = nil
		return nil, err
	}
	return &TargetBuffer{sc: sc}, nil
}

// Present implements easel.SwapChain. The call is logged before any
// injected failure so dropped frames still show up in the log.
func (sc *SwapChain) Present(dirty []image.Rectangle) error {
	sc.mu.Lock()
	var entry []image.Rectangle
	if dirty != nil {
		entry = append([]image.Rectangle{}, dirty...)
	}
	sc.presents = append(sc.presents, entry)
	err := sc.FailPresent
	sc.FailPresent = nil
	fn := sc.PresentFunc
	sc.mu.Unlock()
	if err != nil {
		return err
	}
	if fn != nil {
		return fn(dirty)
	}
	return nil
}

// Release implements easel.SwapChain.
func (sc *SwapChain) Release() {
	sc.mu.Lock()
	sc.released = true
	sc.mu.Unlock()
}

// Size returns the current buffer size.
func (sc *SwapChain) Size() image.Point {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.size
}

// Resizes returns every size passed to a successful Resize.
func (sc *SwapChain) Resizes() []image.Point {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return append([]image.Point(nil), sc.resizes...)
}

// Presents returns the number of Present calls, failed ones included.
func (sc *SwapChain) Presents() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.presents)
}

// FullPresents returns how many presents covered the entire buffer.
func (sc *SwapChain) FullPresents() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	n := 0
	for _, e := range sc.presents {
		if e == nil {
			n++
		}
	}
	return n
}

// LastDirty returns the dirty list of the most recent present. nil means
// the entire buffer; ok is false when nothing was presented yet.
func (sc *SwapChain) LastDirty() (dirty []image.Rectangle, ok bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if len(sc.presents) == 0 {
		return nil, false
	}
	return sc.presents[len(sc.presents)-1], true
}

// PresentLog returns the dirty list of every present, in order.
func (sc *SwapChain) PresentLog() [][]image.Rectangle {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return append([][]image.Rectangle(nil), sc.presents...)
}

// Released reports whether Release was called.
func (sc *SwapChain) Released() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.released
}

// TargetBuffer is the drawable buffer of a recording swap chain.
type TargetBuffer struct {
	sc *SwapChain

	mu       sync.Mutex
	released bool
}

var _ easel.TargetBuffer = (*TargetBuffer)(nil)

// Size implements easel.TargetBuffer.
func (tb *TargetBuffer) Size() image.Point {
	return tb.sc.Size()
}

// Release implements easel.TargetBuffer.
func (tb *TargetBuffer) Release() {
	tb.mu.Lock()
	tb.released = true
	tb.mu.Unlock()
}

// Released reports whether Release was called.
func (tb *TargetBuffer) Released() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.released
}
