// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/internal/flatten"
	"github.com/gogpu/easel/internal/stroke"
)

// deviceTolerance is the curve flattening tolerance in local space, tightened
// so segments stay within flatten.DefaultTolerance device pixels under the
// current transform.
func (dc *deviceContext) deviceTolerance() float64 {
	sx, sy := dc.transform.ScaleFactors()
	s := math.Max(sx, sy)
	if s <= 1 {
		return flatten.DefaultTolerance
	}
	return flatten.DefaultTolerance / s
}

// paintFor checks that the brush was created by this backend.
func paintFor(b easel.Brush) (paintSource, bool) {
	if b == nil {
		return nil, false
	}
	src, ok := b.(paintSource)
	if !ok {
		easel.Logger().Error("programmer error: foreign brush", "type", fmt.Sprintf("%T", b))
	}
	return src, ok
}

// fillTriangles issues a single draw of device-space triangles with the
// given brush.
func (dc *deviceContext) fillTriangles(tris []easel.Point, b easel.Brush) {
	if !dc.canDraw() || len(tris) == 0 {
		return
	}
	src, ok := paintFor(b)
	if !ok {
		return
	}
	t := dc.currentTarget()
	params := dc.baseParams(t)
	paintView, sampler := src.paint(&params, dc.transform, dc.pipe)
	if paintView == nil {
		return
	}
	if err := dc.encodeDraw(t, tris, params, paintView, sampler, dc.pipe.whiteView); err != nil {
		dc.fail(err)
	}
}

func (dc *deviceContext) fillPath(p *easel.Path, b easel.Brush, rule easel.FillRule) {
	if !dc.canDraw() || p == nil || p.Empty() {
		return
	}
	polys := flatten.PathPolygons(p, dc.transform, dc.deviceTolerance())
	dc.fillTriangles(flatten.Triangles(polys, rule), b)
}

// strokePath expands the stroke outline in local space and fills it. The
// expanded outer and inner rings wind oppositely, so nonzero filling leaves
// the interior open.
func (dc *deviceContext) strokePath(p *easel.Path, b easel.Brush, width float64) {
	if width <= 0 || p == nil || p.Empty() {
		return
	}
	style := stroke.DefaultStroke()
	style.Width = width
	outline := stroke.Expand(p, style, dc.deviceTolerance())
	dc.fillPath(outline, b, easel.FillRuleNonZero)
}

func (dc *deviceContext) FillRect(r easel.Rect, b easel.Brush) {
	if r.Empty() {
		return
	}
	dc.fillTriangles(quadTriangles(flatten.RectPolygon(r, dc.transform)), b)
}

func (dc *deviceContext) DrawRect(r easel.Rect, b easel.Brush, strokeWidth float64) {
	p := easel.NewPath()
	p.Rectangle(r.X, r.Y, r.W, r.H)
	dc.strokePath(p, b, strokeWidth)
}

func (dc *deviceContext) FillEllipse(center easel.Point, rx, ry float64, b easel.Brush) {
	if rx <= 0 || ry <= 0 {
		return
	}
	p := easel.NewPath()
	p.Ellipse(center.X, center.Y, rx, ry)
	dc.fillPath(p, b, easel.FillRuleNonZero)
}

func (dc *deviceContext) DrawEllipse(center easel.Point, rx, ry float64, b easel.Brush, strokeWidth float64) {
	if rx <= 0 || ry <= 0 {
		return
	}
	p := easel.NewPath()
	p.Ellipse(center.X, center.Y, rx, ry)
	dc.strokePath(p, b, strokeWidth)
}

func (dc *deviceContext) FillRoundedRect(r easel.Rect, corner float64, b easel.Brush) {
	if r.Empty() {
		return
	}
	p := easel.NewPath()
	p.RoundedRectangle(r.X, r.Y, r.W, r.H, corner)
	dc.fillPath(p, b, easel.FillRuleNonZero)
}

func (dc *deviceContext) DrawRoundedRect(r easel.Rect, corner float64, b easel.Brush, strokeWidth float64) {
	if r.Empty() {
		return
	}
	p := easel.NewPath()
	p.RoundedRectangle(r.X, r.Y, r.W, r.H, corner)
	dc.strokePath(p, b, strokeWidth)
}

func (dc *deviceContext) DrawLine(a, b easel.Point, br easel.Brush, strokeWidth float64) {
	p := easel.NewPath()
	p.MoveTo(a.X, a.Y)
	p.LineTo(b.X, b.Y)
	dc.strokePath(p, br, strokeWidth)
}

func (dc *deviceContext) FillGeometry(g easel.Geometry, b easel.Brush) {
	gg, ok := g.(*geometry)
	if !ok {
		easel.Logger().Error("programmer error: foreign geometry", "type", fmt.Sprintf("%T", g))
		return
	}
	polys := flatten.Transform(gg.polys, dc.transform)
	dc.fillTriangles(flatten.Triangles(polys, gg.rule), b)
}

func (dc *deviceContext) DrawGeometry(g easel.Geometry, b easel.Brush, strokeWidth float64) {
	gg, ok := g.(*geometry)
	if !ok {
		easel.Logger().Error("programmer error: foreign geometry", "type", fmt.Sprintf("%T", g))
		return
	}
	dc.strokePath(gg.sourcePath(), b, strokeWidth)
}

func (dc *deviceContext) DrawImage(img image.Image, dst easel.Rect, opacity float64, mode easel.InterpolationMode) {
	if !dc.canDraw() || img == nil || dst.Empty() {
		return
	}
	op := clampOpacity(opacity)
	if op <= 0 {
		return
	}
	pix, w, h := imageToPremulRGBA(img)
	tex, view, err := dc.dev.newImageTexture(pix, w, h, "easel_draw_image")
	if err != nil {
		easel.Logger().Debug("wgpu: draw image skipped", "error", err)
		return
	}
	dc.transientTexs = append(dc.transientTexs, tex)
	dc.transientViews = append(dc.transientViews, view)

	t := dc.currentTarget()
	params := dc.baseParams(t)
	params.kind = paintImage
	params.extend = easel.ExtendPad
	params.g0, params.g1 = float64(w), float64(h)
	imgToLogical := easel.Translate(dst.X, dst.Y).Multiply(
		easel.Scale(dst.W/float64(w), dst.H/float64(h)))
	params.xform = dc.transform.Multiply(imgToLogical).Invert()
	params.color = easel.RGBA{R: op, G: op, B: op, A: op}

	quad := quadTriangles(flatten.RectPolygon(dst, dc.transform))
	if err := dc.encodeDraw(t, quad, params, view, dc.pipe.sampler(mode), dc.pipe.whiteView); err != nil {
		dc.fail(err)
	}
}

func (dc *deviceContext) DrawGlyphRun(run easel.GlyphRun, face easel.FontFace, b easel.Brush) {
	if !dc.canDraw() || len(run.Glyphs) == 0 {
		return
	}
	out, ok := face.(easel.GlyphOutliner)
	if !ok {
		easel.Logger().Debug("wgpu: face has no outlines, glyph run skipped",
			"type", fmt.Sprintf("%T", face))
		return
	}
	tol := dc.deviceTolerance()
	var polys []flatten.Polygon
	for _, g := range run.Glyphs {
		p, ok := out.GlyphOutline(g.ID, run.Size)
		if !ok {
			continue
		}
		m := dc.transform.Multiply(easel.Translate(g.Pos.X, g.Pos.Y))
		polys = append(polys, flatten.PathPolygons(p, m, tol)...)
	}
	dc.fillTriangles(flatten.Triangles(polys, easel.FillRuleNonZero), b)
}

func (dc *deviceContext) CreateSolidBrush(c easel.RGBA) (easel.SolidBrush, error) {
	return &solidBrush{brushBase: newBrushBase(), color: c}, nil
}

func (dc *deviceContext) CreateLinearGradientBrush(f easel.LinearGradientFill) (easel.Brush, error) {
	b := &gradientBrush{
		brushBase: newBrushBase(),
		dev:       dc.dev,
		start:     f.Start,
		end:       f.End,
		stops:     f.Stops,
		extend:    f.Extend,
	}
	if !b.degenerate() && len(b.stops) > 0 {
		tex, view, err := dc.dev.newRampBrush(f.Stops, f.Extend, "easel_linear_ramp")
		if err != nil {
			return nil, err
		}
		b.tex, b.view = tex, view
	}
	return b, nil
}

func (dc *deviceContext) CreateRadialGradientBrush(f easel.RadialGradientFill) (easel.Brush, error) {
	b := &gradientBrush{
		brushBase: newBrushBase(),
		dev:       dc.dev,
		radial:    true,
		start:     f.Center,
		radius:    f.Radius,
		stops:     f.Stops,
		extend:    f.Extend,
	}
	if !b.degenerate() && len(b.stops) > 0 {
		tex, view, err := dc.dev.newRampBrush(f.Stops, f.Extend, "easel_radial_ramp")
		if err != nil {
			return nil, err
		}
		b.tex, b.view = tex, view
	}
	return b, nil
}

func (dc *deviceContext) CreateImageBrush(f easel.ImageFill) (easel.Brush, error) {
	if f.Image == nil {
		return nil, errors.New("wgpu: image brush with nil image")
	}
	pix, w, h := imageToPremulRGBA(f.Image)
	tex, view, err := dc.dev.newImageTexture(pix, w, h, "easel_image_brush")
	if err != nil {
		return nil, err
	}
	fill := f.Transform
	if fill == (easel.Matrix{}) {
		fill = easel.Identity()
	}
	return &imageBrush{
		brushBase: newBrushBase(),
		dev:       dc.dev,
		fill:      fill,
		pix:       pix,
		w:         w,
		h:         h,
		extend:    f.Extend,
		interp:    easel.InterpBilinear,
		tex:       tex,
		view:      view,
	}, nil
}
