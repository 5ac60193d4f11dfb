// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"github.com/gogpu/easel"
	"github.com/gogpu/easel/internal/flatten"
)

// geometry is a realized path as flattened polygons in logical space. The
// draw path transforms and triangulates it per call, so the same geometry
// works under any context transform. src keeps the unflattened path so
// strokes expand the true curves.
type geometry struct {
	polys []flatten.Polygon
	rule  easel.FillRule
	src   *easel.Path
}

var _ easel.Geometry = (*geometry)(nil)

// Release is a no-op: realized geometry holds no device resources.
func (g *geometry) Release() {}

// sourcePath returns the path to stroke, rebuilding one from the polygons
// for rect-list geometry.
func (g *geometry) sourcePath() *easel.Path {
	if g.src != nil {
		return g.src
	}
	p := easel.NewPath()
	for _, poly := range g.polys {
		if len(poly) < 2 {
			continue
		}
		p.MoveTo(poly[0].X, poly[0].Y)
		for _, pt := range poly[1:] {
			p.LineTo(pt.X, pt.Y)
		}
		p.Close()
	}
	return p
}

// geometryBuilder realizes paths and rectangle lists on the CPU.
type geometryBuilder struct{}

var _ easel.GeometryBuilder = geometryBuilder{}

// NewGeometryBuilder returns the CPU geometry builder used by this backend.
// It works without a device, so it is usable under the nogpu tag as well.
func NewGeometryBuilder() easel.GeometryBuilder { return geometryBuilder{} }

func (geometryBuilder) FromPath(p *easel.Path, rule easel.FillRule) (easel.Geometry, error) {
	if p == nil || p.Empty() {
		return &geometry{rule: rule}, nil
	}
	return &geometry{
		polys: flatten.PathPolygons(p, easel.Identity(), 0),
		rule:  rule,
		src:   p.Clone(),
	}, nil
}

func (geometryBuilder) FromRects(rects []easel.Rect, rule easel.FillRule) (easel.Geometry, error) {
	polys := make([]flatten.Polygon, 0, len(rects))
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		polys = append(polys, flatten.RectPolygon(r, easel.Identity()))
	}
	return &geometry{polys: polys, rule: rule}, nil
}

// quadTriangles splits a convex quad into two triangles.
func quadTriangles(q flatten.Polygon) []easel.Point {
	if len(q) != 4 {
		return nil
	}
	return []easel.Point{q[0], q[1], q[2], q[0], q[2], q[3]}
}
