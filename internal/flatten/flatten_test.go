// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package flatten

import (
	"image"
	"math"
	"testing"

	"github.com/gogpu/easel"
)

func polygonArea(p Polygon) float64 {
	var s float64
	for i := range p {
		q := p[(i+1)%len(p)]
		s += p[i].X*q.Y - q.X*p[i].Y
	}
	return math.Abs(s) / 2
}

func TestPathPolygonsRectangle(t *testing.T) {
	path := easel.NewPath()
	path.Rectangle(0, 0, 1, 1)

	polys := PathPolygons(path, easel.Identity(), 0)
	if len(polys) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(polys))
	}
	if len(polys[0]) != 4 {
		t.Fatalf("expected 4 points, got %d", len(polys[0]))
	}
	if got := polygonArea(polys[0]); math.Abs(got-1) > 1e-12 {
		t.Errorf("polygon area = %v, want 1", got)
	}
}

func TestPathPolygonsCircleOnCurve(t *testing.T) {
	path := easel.NewPath()
	path.Circle(0, 0, 10)

	polys := PathPolygons(path, easel.Identity(), 0.1)
	if len(polys) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(polys))
	}
	if len(polys[0]) < 8 {
		t.Fatalf("expected at least 8 points for circle, got %d", len(polys[0]))
	}
	// Flattened vertices lie on the Bezier approximation of the circle,
	// which stays within a fraction of a percent of the true radius.
	for _, p := range polys[0] {
		r := p.Length()
		if math.Abs(r-10) > 0.05 {
			t.Errorf("point %v at radius %v, want 10", p, r)
		}
	}
}

func TestPathPolygonsAppliesTransform(t *testing.T) {
	path := easel.NewPath()
	path.Rectangle(0, 0, 2, 2)

	m := easel.Translate(10, 20).Multiply(easel.Scale(3, 3))
	polys := PathPolygons(path, m, 0)
	if len(polys) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(polys))
	}
	b := Bounds(polys)
	if math.Abs(b.X-10) > 1e-9 || math.Abs(b.Y-20) > 1e-9 {
		t.Errorf("bounds origin = (%v, %v), want (10, 20)", b.X, b.Y)
	}
	if math.Abs(b.W-6) > 1e-9 || math.Abs(b.H-6) > 1e-9 {
		t.Errorf("bounds size = (%v, %v), want (6, 6)", b.W, b.H)
	}
}

func TestPathPolygonsOpenSubpath(t *testing.T) {
	path := easel.NewPath()
	path.MoveTo(0, 0)
	path.LineTo(4, 0)
	path.LineTo(0, 4)

	polys := PathPolygons(path, easel.Identity(), 0)
	if len(polys) != 1 {
		t.Fatalf("open subpath should still produce a polygon, got %d", len(polys))
	}
	if got := polygonArea(polys[0]); math.Abs(got-8) > 1e-12 {
		t.Errorf("triangle area = %v, want 8", got)
	}
}

func TestPathPolygonsDropsDegenerate(t *testing.T) {
	path := easel.NewPath()
	path.MoveTo(0, 0)
	path.LineTo(1, 1)

	if polys := PathPolygons(path, easel.Identity(), 0); len(polys) != 0 {
		t.Errorf("two-point subpath should be dropped, got %d polygons", len(polys))
	}
}

func TestTrianglesUnitSquare(t *testing.T) {
	polys := []Polygon{{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}}

	tris := Triangles(polys, easel.FillRuleNonZero)
	if len(tris) != 6 {
		t.Fatalf("expected 2 triangles (6 points), got %d points", len(tris))
	}
	if got := Area(tris); math.Abs(got-1) > 1e-9 {
		t.Errorf("triangulated area = %v, want 1", got)
	}
}

func TestTrianglesFillRules(t *testing.T) {
	// Outer 4x4 square with an inner 2x2 square wound the same way.
	polys := []Polygon{
		{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
		{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}},
	}

	nz := Area(Triangles(polys, easel.FillRuleNonZero))
	if math.Abs(nz-16) > 1e-9 {
		t.Errorf("non-zero area = %v, want 16", nz)
	}

	eo := Area(Triangles(polys, easel.FillRuleEvenOdd))
	if math.Abs(eo-12) > 1e-9 {
		t.Errorf("even-odd area = %v, want 12 (hole cut out)", eo)
	}
}

func TestTrianglesEmpty(t *testing.T) {
	if tris := Triangles(nil, easel.FillRuleNonZero); tris != nil {
		t.Errorf("expected nil for no polygons, got %d points", len(tris))
	}
}

func TestCoverageRect(t *testing.T) {
	polys := []Polygon{{
		{X: 1, Y: 1}, {X: 7, Y: 1}, {X: 7, Y: 7}, {X: 1, Y: 7},
	}}
	mask := Coverage(polys, easel.FillRuleNonZero, image.Rect(0, 0, 8, 8))

	if got := mask.AlphaAt(3, 3).A; got != 255 {
		t.Errorf("interior coverage = %d, want 255", got)
	}
	if got := mask.AlphaAt(0, 0).A; got != 0 {
		t.Errorf("exterior coverage = %d, want 0", got)
	}
	if got := mask.AlphaAt(1, 3).A; got != 255 {
		t.Errorf("pixel-aligned edge coverage = %d, want 255", got)
	}
}

func TestCoverageFractionalEdge(t *testing.T) {
	// Left edge at x=1.5 covers half of pixel column 1.
	polys := []Polygon{{
		{X: 1.5, Y: 0}, {X: 7, Y: 0}, {X: 7, Y: 8}, {X: 1.5, Y: 8},
	}}
	mask := Coverage(polys, easel.FillRuleNonZero, image.Rect(0, 0, 8, 8))

	got := mask.AlphaAt(1, 4).A
	if got < 120 || got > 135 {
		t.Errorf("half-covered pixel = %d, want about 128", got)
	}
	if got := mask.AlphaAt(2, 4).A; got != 255 {
		t.Errorf("full pixel right of edge = %d, want 255", got)
	}
}

func TestCoverageEvenOddHole(t *testing.T) {
	polys := []Polygon{
		{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 8}, {X: 0, Y: 8}},
		{{X: 2, Y: 2}, {X: 6, Y: 2}, {X: 6, Y: 6}, {X: 2, Y: 6}},
	}
	mask := Coverage(polys, easel.FillRuleEvenOdd, image.Rect(0, 0, 8, 8))

	if got := mask.AlphaAt(4, 4).A; got != 0 {
		t.Errorf("hole coverage = %d, want 0", got)
	}
	if got := mask.AlphaAt(1, 1).A; got != 255 {
		t.Errorf("ring coverage = %d, want 255", got)
	}
}

func TestRectPolygon(t *testing.T) {
	poly := RectPolygon(easel.Rect{X: 2, Y: 3, W: 4, H: 5}, easel.Identity())
	if len(poly) != 4 {
		t.Fatalf("expected 4 corners, got %d", len(poly))
	}
	if got := polygonArea(poly); math.Abs(got-20) > 1e-12 {
		t.Errorf("rect polygon area = %v, want 20", got)
	}
}

func TestBoundsEmpty(t *testing.T) {
	if b := Bounds(nil); b != (easel.Rect{}) {
		t.Errorf("expected zero rect for no polygons, got %+v", b)
	}
}
