// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stroke

import (
	"math"
	"testing"

	"github.com/gogpu/easel"
)

func TestExpandSimpleLine(t *testing.T) {
	style := Stroke{
		Width:      2.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
	}

	// Simple horizontal line from (0,0) to (10,0)
	p := easel.NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	result := Expand(p, style, 0)
	elems := result.Elements()

	// Should produce a closed rectangle
	if len(elems) < 4 {
		t.Fatalf("expected at least 4 elements, got %d", len(elems))
	}
	if _, ok := elems[0].(easel.MoveTo); !ok {
		t.Error("first element should be MoveTo")
	}
	hasClose := false
	for _, el := range elems {
		if _, ok := el.(easel.Close); ok {
			hasClose = true
			break
		}
	}
	if !hasClose {
		t.Error("result should contain Close element")
	}

	// All outline points must sit at distance width/2 from the centerline.
	for _, el := range elems {
		var pt easel.Point
		switch e := el.(type) {
		case easel.MoveTo:
			pt = e.Point
		case easel.LineTo:
			pt = e.Point
		default:
			continue
		}
		if pt.X >= 0 && pt.X <= 10 {
			if math.Abs(math.Abs(pt.Y)-1.0) > 1e-9 {
				t.Errorf("outline point %v not at distance 1 from centerline", pt)
			}
		}
	}
}

func TestExpandSquareBevel(t *testing.T) {
	style := Stroke{
		Width:      2.0,
		Cap:        LineCapButt,
		Join:       LineJoinBevel,
		MiterLimit: 4.0,
	}

	p := easel.NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)
	p.LineTo(0, 10)
	p.Close()

	result := Expand(p, style, 0)
	elems := result.Elements()
	if len(elems) < 8 {
		t.Fatalf("expected at least 8 elements for stroked square, got %d", len(elems))
	}

	// A closed stroke produces two subpaths (outer and inner ring).
	closes := 0
	for _, el := range elems {
		if _, ok := el.(easel.Close); ok {
			closes++
		}
	}
	if closes != 2 {
		t.Errorf("closed stroke should emit 2 subpaths, got %d Close elements", closes)
	}
}

func TestExpandMiterJoin(t *testing.T) {
	style := Stroke{
		Width:      2.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 10.0,
	}

	// Right-angle corner at (10,0)
	p := easel.NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)

	result := Expand(p, style, 0)

	// The miter point of a right angle extends to (11,-1)
	found := false
	for _, el := range result.Elements() {
		var pt easel.Point
		switch e := el.(type) {
		case easel.MoveTo:
			pt = e.Point
		case easel.LineTo:
			pt = e.Point
		default:
			continue
		}
		if math.Abs(pt.X-11) < 1e-6 && math.Abs(pt.Y+1) < 1e-6 {
			found = true
			break
		}
	}
	if !found {
		t.Error("miter join should produce the corner point (11,-1)")
	}
}

func TestExpandRoundCap(t *testing.T) {
	style := Stroke{
		Width:      2.0,
		Cap:        LineCapRound,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
	}

	p := easel.NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	result := Expand(p, style, 0)

	// Round caps are emitted as cubic arcs.
	hasCubic := false
	for _, el := range result.Elements() {
		if _, ok := el.(easel.CubicTo); ok {
			hasCubic = true
			break
		}
	}
	if !hasCubic {
		t.Error("round cap should emit cubic arc segments")
	}
}

func TestExpandSquareCapExtends(t *testing.T) {
	style := Stroke{
		Width:      2.0,
		Cap:        LineCapSquare,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
	}

	p := easel.NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	result := Expand(p, style, 0)

	// A square cap extends width/2 = 1 beyond the endpoint.
	maxX := math.Inf(-1)
	for _, el := range result.Elements() {
		var pt easel.Point
		switch e := el.(type) {
		case easel.MoveTo:
			pt = e.Point
		case easel.LineTo:
			pt = e.Point
		default:
			continue
		}
		if pt.X > maxX {
			maxX = pt.X
		}
	}
	if math.Abs(maxX-11) > 1e-6 {
		t.Errorf("square cap should extend to x=11, got %v", maxX)
	}
}

func TestExpandCurve(t *testing.T) {
	style := DefaultStroke()

	p := easel.NewPath()
	p.MoveTo(0, 0)
	p.QuadraticTo(5, 10, 10, 0)

	result := Expand(p, style, 0.1)
	if result.Empty() {
		t.Fatal("expanding a curve produced an empty path")
	}
	// Flattening a curve produces many line segments on both offsets.
	if len(result.Elements()) < 8 {
		t.Errorf("expected flattened curve outline, got %d elements", len(result.Elements()))
	}
}

func TestExpandEmptyPath(t *testing.T) {
	result := Expand(easel.NewPath(), DefaultStroke(), 0)
	if !result.Empty() {
		t.Errorf("empty input should expand to empty output, got %d elements", len(result.Elements()))
	}
}

func TestExpandDegenerateSegments(t *testing.T) {
	// Repeated points must not emit zero-length joins.
	p := easel.NewPath()
	p.MoveTo(5, 5)
	p.LineTo(5, 5)
	p.LineTo(5, 5)

	result := Expand(p, DefaultStroke(), 0)
	if !result.Empty() {
		t.Errorf("degenerate path should produce no outline, got %d elements", len(result.Elements()))
	}
}
