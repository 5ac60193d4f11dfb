// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package flatten converts paths to polygons, triangle lists, and coverage
// masks for GPU rendering.
//
// Curves are flattened by adaptive subdivision against a flatness tolerance.
// Filled regions are decomposed with a scanline band sweep that supports both
// the non-zero and even-odd fill rules, so multi-contour polygons (holes,
// rect exclusions) come out as disjoint triangles ready for a vertex buffer.
package flatten

import (
	"math"
	"sort"

	"github.com/gogpu/easel"
)

// DefaultTolerance is the maximum distance error allowed when flattening
// curves. Smaller values produce smoother curves but more vertices.
const DefaultTolerance = 0.25

// Polygon is a closed contour. The last point connects back to the first.
type Polygon []easel.Point

// PathPolygons flattens every subpath of p into a closed polygon, applying m
// to each point. Subpaths with fewer than 3 points are dropped. A tolerance
// of 0 or less uses DefaultTolerance.
func PathPolygons(p *easel.Path, m easel.Matrix, tolerance float64) []Polygon {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var polys []Polygon
	var cur Polygon
	var current, subpathStart easel.Point

	flush := func() {
		if len(cur) >= 3 {
			polys = append(polys, cur)
		}
		cur = nil
	}

	for _, el := range p.Elements() {
		switch e := el.(type) {
		case easel.MoveTo:
			flush()
			current = e.Point
			subpathStart = current
			cur = append(cur, m.TransformPoint(current))

		case easel.LineTo:
			current = e.Point
			cur = append(cur, m.TransformPoint(current))

		case easel.QuadTo:
			pts := flattenQuadratic(current, e.Control, e.Point, tolerance)
			for _, q := range pts[1:] {
				cur = append(cur, m.TransformPoint(q))
			}
			current = e.Point

		case easel.CubicTo:
			pts := flattenCubic(current, e.Control1, e.Control2, e.Point, tolerance)
			for _, q := range pts[1:] {
				cur = append(cur, m.TransformPoint(q))
			}
			current = e.Point

		case easel.Close:
			current = subpathStart
			flush()
		}
	}
	flush()
	return polys
}

// RectPolygon returns the four corners of r under transform m.
func RectPolygon(r easel.Rect, m easel.Matrix) Polygon {
	return Polygon{
		m.TransformPoint(easel.Point{X: r.X, Y: r.Y}),
		m.TransformPoint(easel.Point{X: r.X + r.W, Y: r.Y}),
		m.TransformPoint(easel.Point{X: r.X + r.W, Y: r.Y + r.H}),
		m.TransformPoint(easel.Point{X: r.X, Y: r.Y + r.H}),
	}
}

// Transform returns a copy of the polygons with m applied to every point.
func Transform(polys []Polygon, m easel.Matrix) []Polygon {
	if m.IsIdentity() {
		return polys
	}
	out := make([]Polygon, len(polys))
	for i, poly := range polys {
		q := make(Polygon, len(poly))
		for j, p := range poly {
			q[j] = m.TransformPoint(p)
		}
		out[i] = q
	}
	return out
}

// Bounds returns the bounding box of the polygons, or the zero rect when
// there are no points.
func Bounds(polys []Polygon) easel.Rect {
	first := true
	var minX, minY, maxX, maxY float64
	for _, poly := range polys {
		for _, p := range poly {
			if first {
				minX, maxX = p.X, p.X
				minY, maxY = p.Y, p.Y
				first = false
				continue
			}
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if first {
		return easel.Rect{}
	}
	return easel.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// flattenQuadratic flattens a quadratic Bezier curve to line segments
// using adaptive subdivision.
func flattenQuadratic(p0, p1, p2 easel.Point, flatness float64) []easel.Point {
	if pointToLineDistance(p1, p0, p2) <= flatness {
		return []easel.Point{p0, p2}
	}

	// Subdivide using de Casteljau's algorithm
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	r := q0.Lerp(q1, 0.5)

	left := flattenQuadratic(p0, q0, r, flatness)
	right := flattenQuadratic(r, q1, p2, flatness)
	return append(left[:len(left)-1], right...)
}

// flattenCubic flattens a cubic Bezier curve to line segments
// using adaptive subdivision.
func flattenCubic(p0, p1, p2, p3 easel.Point, flatness float64) []easel.Point {
	d := math.Max(
		pointToLineDistance(p1, p0, p3),
		pointToLineDistance(p2, p0, p3),
	)
	if d <= flatness {
		return []easel.Point{p0, p3}
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)

	left := flattenCubic(p0, q0, r0, s, flatness)
	right := flattenCubic(s, r1, q2, p3, flatness)
	return append(left[:len(left)-1], right...)
}

// pointToLineDistance calculates the perpendicular distance from point p to
// the line a-b.
func pointToLineDistance(p, a, b easel.Point) float64 {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq < 1e-10 {
		return p.Distance(a)
	}
	cross := d.Cross(p.Sub(a))
	return math.Abs(cross) / math.Sqrt(lenSq)
}

// edge is a non-horizontal polygon edge ordered by increasing y.
// dir carries the original direction for winding accumulation.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dir    int
}

// xAt returns the edge's x coordinate at height y by linear interpolation.
func (e *edge) xAt(y float64) float64 {
	t := (y - e.y0) / (e.y1 - e.y0)
	return e.x0 + t*(e.x1-e.x0)
}

// buildEdges extracts the non-horizontal edges of the polygons.
func buildEdges(polys []Polygon) []edge {
	var edges []edge
	for _, poly := range polys {
		n := len(poly)
		for i := 0; i < n; i++ {
			a := poly[i]
			b := poly[(i+1)%n]
			if a.Y == b.Y {
				continue
			}
			if a.Y < b.Y {
				edges = append(edges, edge{a.X, a.Y, b.X, b.Y, 1})
			} else {
				edges = append(edges, edge{b.X, b.Y, a.X, a.Y, -1})
			}
		}
	}
	return edges
}

// inside reports whether a winding count is filled under the rule.
func inside(winding int, rule easel.FillRule) bool {
	if rule == easel.FillRuleEvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// Triangles decomposes the filled region of the polygons into a triangle
// list under the given fill rule. The returned slice holds triangle vertices
// in groups of three.
//
// The sweep cuts the region into horizontal bands between edge endpoints and
// emits two triangles per filled trapezoid. Edges crossing inside a band
// (self-intersecting input) are ordered by their midpoint x, which keeps the
// output watertight for the non-crossing inputs produced by flattening.
func Triangles(polys []Polygon, rule easel.FillRule) []easel.Point {
	edges := buildEdges(polys)
	if len(edges) == 0 {
		return nil
	}

	// Band boundaries: every distinct endpoint y.
	ys := make([]float64, 0, len(edges)*2)
	for i := range edges {
		ys = append(ys, edges[i].y0, edges[i].y1)
	}
	sort.Float64s(ys)
	ys = dedupFloat64s(ys)

	type active struct {
		e          *edge
		xTop, xBot float64
		xMid       float64
	}

	var out []easel.Point
	act := make([]active, 0, len(edges))

	for bi := 0; bi+1 < len(ys); bi++ {
		yTop, yBot := ys[bi], ys[bi+1]
		if yBot-yTop < 1e-12 {
			continue
		}
		yMid := (yTop + yBot) / 2

		act = act[:0]
		for i := range edges {
			e := &edges[i]
			if e.y0 <= yMid && yMid < e.y1 {
				act = append(act, active{
					e:    e,
					xTop: e.xAt(yTop),
					xBot: e.xAt(yBot),
					xMid: e.xAt(yMid),
				})
			}
		}
		if len(act) < 2 {
			continue
		}
		sort.Slice(act, func(i, j int) bool { return act[i].xMid < act[j].xMid })

		winding := 0
		for i := 0; i+1 < len(act); i++ {
			winding += act[i].e.dir
			if !inside(winding, rule) {
				continue
			}
			l, r := act[i], act[i+1]
			// Trapezoid (l.xTop,yTop)-(r.xTop,yTop)-(r.xBot,yBot)-(l.xBot,yBot)
			if r.xTop-l.xTop > 1e-12 || r.xBot-l.xBot > 1e-12 {
				out = append(out,
					easel.Point{X: l.xTop, Y: yTop},
					easel.Point{X: r.xTop, Y: yTop},
					easel.Point{X: r.xBot, Y: yBot},

					easel.Point{X: l.xTop, Y: yTop},
					easel.Point{X: r.xBot, Y: yBot},
					easel.Point{X: l.xBot, Y: yBot},
				)
			}
		}
	}
	return out
}

func dedupFloat64s(ys []float64) []float64 {
	out := ys[:0]
	for i, y := range ys {
		if i == 0 || y != out[len(out)-1] {
			out = append(out, y)
		}
	}
	return out
}

// Area returns the total area of a triangle list produced by Triangles.
func Area(tris []easel.Point) float64 {
	var sum float64
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]
		sum += math.Abs(b.Sub(a).Cross(c.Sub(a))) / 2
	}
	return sum
}
