package typeset

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/easel"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := New()
	if _, err := svc.Register("Go", easel.FontPlain, goregular.TTF); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return svc
}

func TestRegisterRejectsGarbage(t *testing.T) {
	svc := New()
	if _, err := svc.Register("Bad", easel.FontPlain, []byte("not a font")); err == nil {
		t.Error("Register should reject unparseable data")
	}
}

func TestResolveFace(t *testing.T) {
	svc := newTestService(t)
	bold, err := svc.Register("Go", easel.FontBold, gobold.TTF)
	if err != nil {
		t.Fatalf("Register bold: %v", err)
	}

	face, err := svc.ResolveFace(easel.Font{Family: "Go", Height: 14})
	if err != nil {
		t.Fatalf("ResolveFace: %v", err)
	}
	if face.(*Face).Family() != "Go" || face.(*Face).Style() != easel.FontPlain {
		t.Error("exact family should resolve to the plain face")
	}

	face, err = svc.ResolveFace(easel.Font{Family: "Go", Style: easel.FontBold, Height: 14})
	if err != nil {
		t.Fatalf("ResolveFace bold: %v", err)
	}
	if face.(*Face) != bold {
		t.Error("bold style should resolve to the bold face")
	}

	// Unregistered style falls back to the family's plain face.
	face, err = svc.ResolveFace(easel.Font{Family: "Go", Style: easel.FontItalic, Height: 14})
	if err != nil {
		t.Fatalf("ResolveFace italic: %v", err)
	}
	if face.(*Face).Style() != easel.FontPlain {
		t.Error("unregistered style should fall back to plain")
	}

	// Unknown family falls back to the default (first registered) face.
	face, err = svc.ResolveFace(easel.Font{Family: "Nonexistent", Height: 14})
	if err != nil {
		t.Fatalf("ResolveFace unknown family: %v", err)
	}
	if face.(*Face).Family() != "Go" {
		t.Error("unknown family should fall back to the default face")
	}
}

func TestResolveFaceEmptyService(t *testing.T) {
	svc := New()
	if _, err := svc.ResolveFace(easel.Font{Height: 14}); !errors.Is(err, ErrNoFace) {
		t.Errorf("ResolveFace on empty service = %v, want ErrNoFace", err)
	}
}

func TestFaceMetricsSumToHeight(t *testing.T) {
	svc := newTestService(t)
	face, _ := svc.ResolveFace(easel.Font{Family: "Go"})

	for _, height := range []float64{10, 14, 20, 48} {
		m := face.Metrics(height)
		if m.Ascent <= 0 || m.Descent <= 0 {
			t.Fatalf("Metrics(%v) = %+v, want positive ascent and descent", height, m)
		}
		if m.Ascent <= m.Descent {
			t.Errorf("Metrics(%v): ascent %v should exceed descent %v", height, m.Ascent, m.Descent)
		}
		if sum := m.Ascent + m.Descent; math.Abs(sum-height) > 0.5 {
			t.Errorf("Metrics(%v): ascent+descent = %v, want ~%v", height, sum, height)
		}
	}
}

func TestTypesetBasics(t *testing.T) {
	svc := newTestService(t)
	f := easel.Font{Family: "Go", Height: 20, HorizontalScale: 1}
	face, _ := svc.ResolveFace(f)

	run, err := svc.Typeset("AV", f, face)
	if err != nil {
		t.Fatalf("Typeset: %v", err)
	}
	if run.Size != 20 {
		t.Errorf("run size = %v, want 20", run.Size)
	}
	if len(run.Glyphs) != 2 {
		t.Fatalf("glyph count = %d, want 2", len(run.Glyphs))
	}
	for i, g := range run.Glyphs {
		if g.ID == 0 {
			t.Errorf("glyph %d has ID 0, want a mapped glyph", i)
		}
	}
	if run.Glyphs[0].Pos.X != 0 {
		t.Errorf("first glyph x = %v, want 0", run.Glyphs[0].Pos.X)
	}
	if run.Glyphs[1].Pos.X <= 1 {
		t.Errorf("second glyph x = %v, want a real advance", run.Glyphs[1].Pos.X)
	}
}

func TestTypesetEmptyText(t *testing.T) {
	svc := newTestService(t)
	f := easel.Font{Family: "Go", Height: 14}
	face, _ := svc.ResolveFace(f)

	run, err := svc.Typeset("", f, face)
	if err != nil {
		t.Fatalf("Typeset: %v", err)
	}
	if len(run.Glyphs) != 0 {
		t.Errorf("glyph count = %d, want 0", len(run.Glyphs))
	}
	if run.Size != 14 {
		t.Errorf("run size = %v, want 14", run.Size)
	}
}

func TestTypesetKerningAddsAdvance(t *testing.T) {
	svc := newTestService(t)
	face, _ := svc.ResolveFace(easel.Font{Family: "Go"})

	plain := easel.Font{Family: "Go", Height: 10, HorizontalScale: 1}
	kerned := plain
	kerned.Kerning = 0.5

	a, err := svc.Typeset("AB", plain, face)
	if err != nil {
		t.Fatalf("Typeset: %v", err)
	}
	b, err := svc.Typeset("AB", kerned, face)
	if err != nil {
		t.Fatalf("Typeset kerned: %v", err)
	}
	// Kerning 0.5 at height 10 adds 5 units before the second glyph.
	diff := b.Glyphs[1].Pos.X - a.Glyphs[1].Pos.X
	if math.Abs(diff-5) > 1e-9 {
		t.Errorf("kerning advance delta = %v, want 5", diff)
	}
}

type stubFace struct{}

func (stubFace) Metrics(height float64) easel.FontMetrics { return easel.FontMetrics{} }

func TestTypesetForeignFace(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Typeset("x", easel.Font{Height: 14}, stubFace{}); err == nil {
		t.Error("Typeset should reject a face it did not create")
	}
}

func TestGlyphOutline(t *testing.T) {
	svc := newTestService(t)
	f := easel.Font{Family: "Go", Height: 20, HorizontalScale: 1}
	face, _ := svc.ResolveFace(f)
	tf := face.(*Face)

	run, err := svc.Typeset("A", f, face)
	if err != nil {
		t.Fatalf("Typeset: %v", err)
	}
	p, ok := tf.GlyphOutline(run.Glyphs[0].ID, 20)
	if !ok || p == nil || p.Empty() {
		t.Fatal("GlyphOutline should produce an outline for 'A'")
	}
	b := p.Bounds()
	if b.Y >= 0 {
		t.Errorf("outline top = %v, want above the baseline (negative y)", b.Y)
	}
	if b.H <= 0 || b.H > 20 {
		t.Errorf("outline height = %v, want within the font height", b.H)
	}

	// A space has no contours.
	space, err := svc.Typeset(" ", f, face)
	if err != nil {
		t.Fatalf("Typeset space: %v", err)
	}
	if _, ok := tf.GlyphOutline(space.Glyphs[0].ID, 20); ok {
		t.Error("space glyph should report no outline")
	}

	if _, ok := tf.GlyphOutline(run.Glyphs[0].ID, 0); ok {
		t.Error("zero height should report no outline")
	}
}

func TestGlyphOutlineScalesWithHeight(t *testing.T) {
	svc := newTestService(t)
	f := easel.Font{Family: "Go", Height: 10, HorizontalScale: 1}
	face, _ := svc.ResolveFace(f)
	tf := face.(*Face)

	run, _ := svc.Typeset("H", f, face)
	small, ok := tf.GlyphOutline(run.Glyphs[0].ID, 10)
	if !ok {
		t.Fatal("no outline at height 10")
	}
	big, ok := tf.GlyphOutline(run.Glyphs[0].ID, 40)
	if !ok {
		t.Fatal("no outline at height 40")
	}
	ratio := big.Bounds().H / small.Bounds().H
	if math.Abs(ratio-4) > 0.2 {
		t.Errorf("outline height ratio = %v, want ~4", ratio)
	}
}

func TestVisualSegments(t *testing.T) {
	segs := visualSegments("hello world")
	if len(segs) != 1 {
		t.Fatalf("segment count = %d, want 1", len(segs))
	}
	if segs[0].rtl {
		t.Error("latin text should be LTR")
	}
	if segs[0].text != "hello world" {
		t.Errorf("segment text = %q", segs[0].text)
	}

	segs = visualSegments("abc אבג def")
	if len(segs) != 3 {
		t.Fatalf("mixed-direction segment count = %d, want 3 (%v)", len(segs), segs)
	}
	if segs[0].rtl || !segs[1].rtl || segs[2].rtl {
		t.Errorf("segment directions = [%v %v %v], want [LTR RTL LTR]",
			segs[0].rtl, segs[1].rtl, segs[2].rtl)
	}
}

func TestTypesetRTLPositions(t *testing.T) {
	svc := newTestService(t)
	f := easel.Font{Family: "Go", Height: 16, HorizontalScale: 1}
	face, _ := svc.ResolveFace(f)

	// The Go fonts have no Hebrew coverage, but shaping still produces
	// positioned glyphs in visual order with monotonic advances.
	run, err := svc.Typeset("שלום", f, face)
	if err != nil {
		t.Fatalf("Typeset: %v", err)
	}
	if len(run.Glyphs) == 0 {
		t.Fatal("RTL text should still shape to glyphs")
	}
	for i := 1; i < len(run.Glyphs); i++ {
		if run.Glyphs[i].Pos.X < run.Glyphs[i-1].Pos.X {
			t.Fatalf("glyph %d x = %v before glyph %d x = %v, want nondecreasing",
				i, run.Glyphs[i].Pos.X, i-1, run.Glyphs[i-1].Pos.X)
		}
	}
}
