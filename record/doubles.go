package record

import (
	"image"
	"sync"

	"github.com/gogpu/easel"
)

// Host is a recording easel.WindowHost. Tests queue invalid regions with
// Invalidate and observe what the canvas validates.
type Host struct {
	mu        sync.Mutex
	invalid   []image.Rectangle
	validated [][]image.Rectangle
}

var _ easel.WindowHost = (*Host)(nil)

// Invalidate queues a region for the next TakeInvalidRegion.
func (h *Host) Invalidate(r image.Rectangle) {
	h.mu.Lock()
	h.invalid = append(h.invalid, r)
	h.mu.Unlock()
}

// TakeInvalidRegion implements easel.WindowHost.
func (h *Host) TakeInvalidRegion() []image.Rectangle {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.invalid
	h.invalid = nil
	return out
}

// ValidateRegion implements easel.WindowHost.
func (h *Host) ValidateRegion(rects []image.Rectangle) {
	h.mu.Lock()
	h.validated = append(h.validated, append([]image.Rectangle(nil), rects...))
	h.mu.Unlock()
}

// Validated returns every region list passed to ValidateRegion, in order.
func (h *Host) Validated() [][]image.Rectangle {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([][]image.Rectangle(nil), h.validated...)
}

// Typesetter is a synthetic easel.TypesetService for text tests. It shapes
// one glyph per rune with a fixed advance of half the font height, so glyph
// counts and positions are predictable without font files.
type Typesetter struct {
	// Face overrides the face ResolveFace returns. nil resolves Face{}.
	Face easel.FontFace

	// FailResolve makes the next ResolveFace fail.
	FailResolve error

	// FailTypeset makes the next Typeset fail.
	FailTypeset error

	mu sync.Mutex
}

var _ easel.TypesetService = (*Typesetter)(nil)

// ResolveFace implements easel.TypesetService.
func (t *Typesetter) ResolveFace(f easel.Font) (easel.FontFace, error) {
	t.mu.Lock()
	err := t.FailResolve
	t.FailResolve = nil
	face := t.Face
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if face != nil {
		return face, nil
	}
	return Face{}, nil
}

// Typeset implements easel.TypesetService.
func (t *Typesetter) Typeset(text string, f easel.Font, face easel.FontFace) (easel.GlyphRun, error) {
	t.mu.Lock()
	err := t.FailTypeset
	t.FailTypeset = nil
	t.mu.Unlock()
	if err != nil {
		return easel.GlyphRun{}, err
	}
	height := f.Height
	if height <= 0 {
		height = easel.DefaultFont().Height
	}
	advance := height / 2
	run := easel.GlyphRun{Size: height}
	x := 0.0
	for _, r := range text {
		run.Glyphs = append(run.Glyphs, easel.Glyph{ID: uint32(r), Pos: easel.Point{X: x}})
		x += advance
	}
	return run, nil
}

// Face is a synthetic font face whose glyphs all outline to a square
// sitting on the baseline, so GPU-style text paths have something to fill.
type Face struct{}

var (
	_ easel.FontFace      = Face{}
	_ easel.GlyphOutliner = Face{}
)

// Metrics implements easel.FontFace.
func (Face) Metrics(height float64) easel.FontMetrics {
	return easel.FontMetrics{
		Ascent:  0.8 * height,
		Descent: 0.2 * height,
		LineGap: 0.1 * height,
	}
}

// GlyphOutline implements easel.GlyphOutliner. Every glyph is a square with
// side 0.6 x height.
func (Face) GlyphOutline(glyph uint32, height float64) (*easel.Path, bool) {
	side := 0.6 * height
	if side <= 0 {
		return nil, false
	}
	p := easel.NewPath()
	p.Rectangle(0, -side, side, side)
	return p, true
}

// PlainFace is Face without outlines, for exercising the fallback when a
// face cannot produce glyph geometry.
type PlainFace struct{}

var _ easel.FontFace = PlainFace{}

// Metrics implements easel.FontFace.
func (PlainFace) Metrics(height float64) easel.FontMetrics {
	return Face{}.Metrics(height)
}
