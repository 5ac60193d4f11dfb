package typeset

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/easel"
)

// ErrNoFace is returned by ResolveFace when nothing is registered that can
// serve a font descriptor.
var ErrNoFace = errors.New("typeset: no face registered")

type faceKey struct {
	family string
	style  easel.FontStyle
}

// Service resolves font descriptors to faces and shapes text into glyph
// runs. It implements easel.TypesetService.
//
// Register faces at startup; ResolveFace and Typeset are safe for
// concurrent use afterwards. HarfbuzzShaper carries mutable buffers and is
// not concurrency-safe, so shapers are pooled per call.
type Service struct {
	mu    sync.RWMutex
	faces map[faceKey]*Face
	def   *Face

	shapers sync.Pool // *shaping.HarfbuzzShaper
}

var _ easel.TypesetService = (*Service)(nil)

// New creates an empty service. Register at least one face before handing
// it to a canvas.
func New() *Service {
	return &Service{
		faces: make(map[faceKey]*Face),
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}
}

// Register parses TTF or OTF data and registers the face under the family
// name and style. The first registered face becomes the default for
// descriptors no family matches.
func (s *Service) Register(family string, style easel.FontStyle, data []byte) (*Face, error) {
	face, err := newFace(family, style, data)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.faces[faceKey{family, style}] = face
	if s.def == nil {
		s.def = face
	}
	s.mu.Unlock()
	return face, nil
}

// SetDefault replaces the fallback face used for unmatched descriptors.
func (s *Service) SetDefault(face *Face) {
	s.mu.Lock()
	s.def = face
	s.mu.Unlock()
}

// ResolveFace implements easel.TypesetService. Lookup prefers an exact
// family and style match, then the family's plain style, then the default
// face.
func (s *Service) ResolveFace(f easel.Font) (easel.FontFace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if face, ok := s.faces[faceKey{f.Family, f.Style}]; ok {
		return face, nil
	}
	if face, ok := s.faces[faceKey{f.Family, easel.FontPlain}]; ok {
		return face, nil
	}
	if s.def != nil {
		return s.def, nil
	}
	return nil, fmt.Errorf("%w: family %q style %v", ErrNoFace, f.Family, f.Style)
}

// Typeset implements easel.TypesetService. The line is split into
// directional runs with the Unicode bidi algorithm, each run is shaped with
// HarfBuzz, and the pen advances left to right across runs in visual order.
// Positions are logical units with the origin on the baseline. The font's
// Kerning adds extra advance between glyphs as a proportion of its height.
func (s *Service) Typeset(text string, f easel.Font, face easel.FontFace) (easel.GlyphRun, error) {
	tf, ok := face.(*Face)
	if !ok {
		return easel.GlyphRun{}, fmt.Errorf("typeset: foreign face %T", face)
	}
	height := f.Height
	if height <= 0 {
		height = easel.DefaultFont().Height
	}
	run := easel.GlyphRun{Size: height}
	if text == "" {
		return run, nil
	}

	size := fixed.Int26_6(tf.PointSize(height) * 64)
	extra := f.Kerning * height

	// font.Face is not safe for concurrent use; one per call wraps the
	// shared read-only font cheaply.
	shapeFace := font.NewFace(tf.shaped)

	hb := s.shapers.Get().(*shaping.HarfbuzzShaper)
	defer s.shapers.Put(hb)

	var pen float64
	for _, seg := range visualSegments(text) {
		runes := []rune(seg.text)
		if len(runes) == 0 {
			continue
		}
		dir := di.DirectionLTR
		if seg.rtl {
			dir = di.DirectionRTL
		}
		out := hb.Shape(shaping.Input{
			Text:      runes,
			RunStart:  0,
			RunEnd:    len(runes),
			Direction: dir,
			Face:      shapeFace,
			Size:      size,
			Script:    segmentScript(runes),
			Language:  language.NewLanguage("en"),
		})
		for _, g := range out.Glyphs {
			run.Glyphs = append(run.Glyphs, easel.Glyph{
				ID: uint32(g.GlyphID),
				Pos: easel.Pt(
					pen+fixedToFloat(g.XOffset),
					-fixedToFloat(g.YOffset),
				),
			})
			pen += fixedToFloat(g.Advance) + extra
		}
	}
	return run, nil
}

// segmentScript returns the script of the first non-space rune, defaulting
// to Latin. Runs come out of the bidi split directionally uniform, which
// for the scripts HarfBuzz cares about also means script-uniform in
// practice.
func segmentScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
