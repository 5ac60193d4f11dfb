package easel

import (
	"math"
	"testing"
)

func TestPathElements(t *testing.T) {
	p := NewPath()
	if !p.Empty() {
		t.Fatal("new path not empty")
	}

	p.MoveTo(1, 2)
	p.LineTo(3, 4)
	p.QuadraticTo(5, 6, 7, 8)
	p.CubicTo(9, 10, 11, 12, 13, 14)
	p.Close()

	elems := p.Elements()
	if len(elems) != 5 {
		t.Fatalf("len(Elements) = %d, want 5", len(elems))
	}
	if mv, ok := elems[0].(MoveTo); !ok || mv.Point != Pt(1, 2) {
		t.Errorf("element 0 = %#v, want MoveTo(1,2)", elems[0])
	}
	if ln, ok := elems[1].(LineTo); !ok || ln.Point != Pt(3, 4) {
		t.Errorf("element 1 = %#v, want LineTo(3,4)", elems[1])
	}
	if q, ok := elems[2].(QuadTo); !ok || q.Control != Pt(5, 6) || q.Point != Pt(7, 8) {
		t.Errorf("element 2 = %#v, want QuadTo", elems[2])
	}
	if c, ok := elems[3].(CubicTo); !ok || c.Control1 != Pt(9, 10) || c.Control2 != Pt(11, 12) || c.Point != Pt(13, 14) {
		t.Errorf("element 3 = %#v, want CubicTo", elems[3])
	}
	if _, ok := elems[4].(Close); !ok {
		t.Errorf("element 4 = %#v, want Close", elems[4])
	}
}

// Close returns the pen to the subpath start.
func TestPathCurrentPoint(t *testing.T) {
	p := NewPath()
	p.MoveTo(10, 10)
	p.LineTo(20, 10)
	if got := p.CurrentPoint(); got != Pt(20, 10) {
		t.Errorf("CurrentPoint = %v, want (20, 10)", got)
	}
	p.Close()
	if got := p.CurrentPoint(); got != Pt(10, 10) {
		t.Errorf("CurrentPoint after Close = %v, want (10, 10)", got)
	}
}

func TestPathClear(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 1)
	p.LineTo(2, 2)
	p.Clear()
	if !p.Empty() {
		t.Error("path not empty after Clear")
	}
	if got := p.CurrentPoint(); got != Pt(0, 0) {
		t.Errorf("CurrentPoint after Clear = %v, want origin", got)
	}
}

// Bounds is the control-point hull: conservative for curves, exact for
// polylines.
func TestPathBounds(t *testing.T) {
	p := NewPath()
	if got := p.Bounds(); !got.Empty() {
		t.Errorf("empty path Bounds = %v, want empty", got)
	}

	p.MoveTo(10, 20)
	p.LineTo(30, 5)
	p.LineTo(15, 40)
	got := p.Bounds()
	want := NewRect(10, 5, 20, 35)
	if got != want {
		t.Errorf("Bounds = %v, want %v", got, want)
	}

	// Control points extend the reported bounds even when the curve itself
	// stays inside them.
	q := NewPath()
	q.MoveTo(0, 0)
	q.QuadraticTo(50, 100, 100, 0)
	b := q.Bounds()
	if b.Bottom() != 100 {
		t.Errorf("quad Bounds bottom = %v, want control point 100", b.Bottom())
	}
}

func TestPathTransform(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 1)
	p.LineTo(2, 1)
	p.QuadraticTo(3, 1, 3, 2)
	p.Close()

	moved := p.Transform(Translate(10, 20))
	elems := moved.Elements()
	if mv := elems[0].(MoveTo); mv.Point != Pt(11, 21) {
		t.Errorf("transformed MoveTo = %v, want (11, 21)", mv.Point)
	}
	if q := elems[2].(QuadTo); q.Control != Pt(13, 21) || q.Point != Pt(13, 22) {
		t.Errorf("transformed QuadTo = %+v", q)
	}
	// The source path is untouched.
	if p.Elements()[0].(MoveTo).Point != Pt(1, 1) {
		t.Error("Transform mutated the source path")
	}
}

func TestPathRectangle(t *testing.T) {
	p := NewPath()
	p.Rectangle(10, 20, 30, 40)
	if got := p.Bounds(); got != NewRect(10, 20, 30, 40) {
		t.Errorf("Rectangle bounds = %v", got)
	}
	elems := p.Elements()
	if len(elems) != 5 {
		t.Fatalf("Rectangle has %d elements, want 5", len(elems))
	}
	if _, ok := elems[4].(Close); !ok {
		t.Error("Rectangle does not close its subpath")
	}
}

func TestPathCircle(t *testing.T) {
	p := NewPath()
	p.Circle(50, 50, 10)
	// The four-cubic construction keeps every control point inside the
	// circle's bounding box, so the hull is exact here.
	if b := p.Bounds(); !rectsClose(b, NewRect(40, 40, 20, 20)) {
		t.Errorf("circle bounds = %v, want (40, 40, 20, 20)", b)
	}
	if got := p.CurrentPoint(); got != Pt(60, 50) {
		t.Errorf("circle CurrentPoint = %v, want start (60, 50)", got)
	}
}

func TestPathEllipse(t *testing.T) {
	p := NewPath()
	p.Ellipse(0, 0, 20, 10)
	if b := p.Bounds(); !rectsClose(b, NewRect(-20, -10, 40, 20)) {
		t.Errorf("ellipse bounds = %v, want (-20, -10, 40, 20)", b)
	}
}

func TestPathArcSweep(t *testing.T) {
	p := NewPath()
	// Quarter arc from angle 0 to pi/2 on a unit circle at the origin.
	p.Arc(0, 0, 1, 0, math.Pi/2)
	if p.Empty() {
		t.Fatal("arc produced no elements")
	}
	end := p.CurrentPoint()
	if math.Abs(end.X) > 1e-9 || math.Abs(end.Y-1) > 1e-9 {
		t.Errorf("arc end = %v, want (0, 1)", end)
	}

	// A sweep over 90 degrees splits into multiple segments.
	full := NewPath()
	full.Arc(0, 0, 1, 0, 2*math.Pi)
	cubics := 0
	for _, e := range full.Elements() {
		if _, ok := e.(CubicTo); ok {
			cubics++
		}
	}
	if cubics < 4 {
		t.Errorf("full-circle arc has %d cubic segments, want >= 4", cubics)
	}
}

func TestPathRoundedRectangle(t *testing.T) {
	p := NewPath()
	p.RoundedRectangle(0, 0, 100, 50, 10)
	b := p.Bounds()
	if b.X < -1e-9 || b.Y < -1e-9 || b.Right() > 100+1e-9 || b.Bottom() > 50+1e-9 {
		t.Errorf("rounded rect bounds %v exceed the rect", b)
	}

	// An oversized radius clamps to half the smaller dimension instead of
	// folding the outline over itself.
	q := NewPath()
	q.RoundedRectangle(0, 0, 100, 50, 1000)
	qb := q.Bounds()
	if qb.Right() > 100+1e-9 || qb.Bottom() > 50+1e-9 {
		t.Errorf("clamped rounded rect bounds %v exceed the rect", qb)
	}
}

func TestPathClone(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 1)
	p.LineTo(2, 2)
	c := p.Clone()
	p.LineTo(3, 3)
	if len(c.Elements()) != 2 {
		t.Errorf("clone has %d elements after source mutation, want 2", len(c.Elements()))
	}
	if c.CurrentPoint() != Pt(2, 2) {
		t.Errorf("clone CurrentPoint = %v, want (2, 2)", c.CurrentPoint())
	}
}

func TestFillRuleString(t *testing.T) {
	if got := FillRuleNonZero.String(); got != "nonzero" {
		t.Errorf("FillRuleNonZero.String() = %q", got)
	}
	if got := FillRuleEvenOdd.String(); got != "evenodd" {
		t.Errorf("FillRuleEvenOdd.String() = %q", got)
	}
	if got := FillRule(9).String(); got != "unknown" {
		t.Errorf("FillRule(9).String() = %q", got)
	}
}
