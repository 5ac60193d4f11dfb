package typeset

import (
	"bytes"
	"fmt"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/easel"
)

// Face is a parsed font, usable for metrics, glyph outlines and shaping.
// Faces are created through Service.Register and shared; one Face serves
// any number of canvases and sizes.
//
// Face is safe for concurrent use. The x/image font object needs an
// external sfnt.Buffer, guarded by a mutex; the go-text font used for
// shaping is read-only.
type Face struct {
	family string
	style  easel.FontStyle

	outline *opentype.Font // metrics and glyph outlines
	shaped  *gotext.Font   // HarfBuzz shaping

	// emScale converts a font height (ascent + descent) to an em size.
	emScale float64

	mu  sync.Mutex
	buf sfnt.Buffer
}

var (
	_ easel.FontFace      = (*Face)(nil)
	_ easel.GlyphOutliner = (*Face)(nil)
)

func newFace(family string, style easel.FontStyle, data []byte) (*Face, error) {
	ot, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("typeset: parse %q: %w", family, err)
	}
	gt, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("typeset: parse %q for shaping: %w", family, err)
	}

	f := &Face{family: family, style: style, outline: ot, shaped: gt.Font}

	// Measure ascent and descent in font units by asking for them at one
	// pixel per unit.
	upem := float64(ot.UnitsPerEm())
	m, err := ot.Metrics(&f.buf, fixed.Int26_6(upem*64), font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("typeset: metrics of %q: %w", family, err)
	}
	total := fixedToFloat(m.Ascent) + fixedToFloat(m.Descent)
	if total <= 0 {
		return nil, fmt.Errorf("typeset: %q has no usable vertical metrics", family)
	}
	f.emScale = upem / total
	return f, nil
}

// Family returns the family name the face was registered under.
func (f *Face) Family() string { return f.family }

// Style returns the style flags the face was registered under.
func (f *Face) Style() easel.FontStyle { return f.style }

// PointSize converts a font height to the em size that makes ascent plus
// descent equal that height.
func (f *Face) PointSize(height float64) float64 { return height * f.emScale }

// Metrics implements easel.FontFace.
func (f *Face) Metrics(height float64) easel.FontMetrics {
	ppem := fixed.Int26_6(f.PointSize(height) * 64)
	f.mu.Lock()
	m, err := f.outline.Metrics(&f.buf, ppem, font.HintingNone)
	f.mu.Unlock()
	if err != nil {
		return easel.FontMetrics{}
	}
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	return easel.FontMetrics{
		Ascent:  ascent,
		Descent: descent,
		LineGap: fixedToFloat(m.Height) - ascent - descent,
	}
}

// GlyphOutline implements easel.GlyphOutliner. The outline is scaled to the
// font height with the origin on the baseline and y growing downward, which
// matches the sfnt segment coordinate system directly.
func (f *Face) GlyphOutline(glyph uint32, height float64) (*easel.Path, bool) {
	if height <= 0 {
		return nil, false
	}
	ppem := fixed.Int26_6(f.PointSize(height) * 64)
	f.mu.Lock()
	segs, err := f.outline.LoadGlyph(&f.buf, sfnt.GlyphIndex(glyph), ppem, nil)
	f.mu.Unlock()
	if err != nil || len(segs) == 0 {
		return nil, false
	}

	p := easel.NewPath()
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			pt := segPoint(seg.Args[0])
			p.MoveTo(pt.X, pt.Y)
			open = true
		case sfnt.SegmentOpLineTo:
			pt := segPoint(seg.Args[0])
			p.LineTo(pt.X, pt.Y)
		case sfnt.SegmentOpQuadTo:
			c := segPoint(seg.Args[0])
			pt := segPoint(seg.Args[1])
			p.QuadraticTo(c.X, c.Y, pt.X, pt.Y)
		case sfnt.SegmentOpCubeTo:
			c1 := segPoint(seg.Args[0])
			c2 := segPoint(seg.Args[1])
			pt := segPoint(seg.Args[2])
			p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pt.X, pt.Y)
		}
	}
	if open {
		p.Close()
	}
	return p, true
}

func segPoint(p fixed.Point26_6) easel.Point {
	return easel.Pt(fixedToFloat(p.X), fixedToFloat(p.Y))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
