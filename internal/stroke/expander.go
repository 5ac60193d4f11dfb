// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stroke

import (
	"math"

	"github.com/gogpu/easel"
)

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

// Stroke defines the style for stroke expansion.
type Stroke struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
}

// DefaultStroke returns a stroke with default settings.
func DefaultStroke() Stroke {
	return Stroke{
		Width:      1.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
	}
}

// Expand converts the stroked path to a fill path covering the stroke area.
// The tolerance controls curve flattening; values <= 0 fall back to 0.25.
func Expand(p *easel.Path, style Stroke, tolerance float64) *easel.Path {
	e := newExpander(style)
	if tolerance > 0 {
		e.tolerance = tolerance
	}
	return e.expand(p)
}

// perp returns the perpendicular vector (rotated 90 degrees counter-clockwise).
func perp(v easel.Point) easel.Point {
	return easel.Point{X: -v.Y, Y: v.X}
}

// expander converts stroked paths to filled paths.
// This follows the kurbo stroke expansion algorithm.
type expander struct {
	style Stroke

	// Tolerance for curve flattening and arc approximation.
	tolerance float64

	// Build state
	forward  *pathBuilder
	backward *pathBuilder
	output   *pathBuilder

	// Current segment state
	startPt   easel.Point
	startNorm easel.Point
	startTan  easel.Point
	lastPt    easel.Point
	lastTan   easel.Point
	lastNorm  easel.Point // normal at lastPt (scaled by radius), used for end cap

	// Join threshold for skipping small joins
	joinThresh float64
}

func newExpander(style Stroke) *expander {
	return &expander{
		style:     style,
		tolerance: 0.25,
	}
}

func (e *expander) expand(p *easel.Path) *easel.Path {
	e.reset()

	for _, el := range p.Elements() {
		switch elem := el.(type) {
		case easel.MoveTo:
			e.finish()
			e.startPt = elem.Point
			e.lastPt = elem.Point
		case easel.LineTo:
			if elem.Point != e.lastPt {
				tangent := elem.Point.Sub(e.lastPt)
				e.doJoin(tangent)
				e.lastTan = tangent
				e.doLine(tangent, elem.Point)
			}
		case easel.QuadTo:
			if elem.Control != e.lastPt || elem.Point != e.lastPt {
				e.doQuad(elem.Control, elem.Point)
			}
		case easel.CubicTo:
			if elem.Control1 != e.lastPt || elem.Control2 != e.lastPt || elem.Point != e.lastPt {
				e.doCubic(elem.Control1, elem.Control2, elem.Point)
			}
		case easel.Close:
			if e.lastPt != e.startPt {
				tangent := e.startPt.Sub(e.lastPt)
				e.doJoin(tangent)
				e.lastTan = tangent
				e.doLine(tangent, e.startPt)
			}
			e.finishClosed()
		}
	}

	e.finish()
	return e.output.build()
}

// reset clears the expander state for a new expansion.
func (e *expander) reset() {
	e.forward = newPathBuilder()
	e.backward = newPathBuilder()
	e.output = newPathBuilder()
	e.startPt = easel.Point{}
	e.startNorm = easel.Point{}
	e.startTan = easel.Point{}
	e.lastPt = easel.Point{}
	e.lastTan = easel.Point{}
	e.lastNorm = easel.Point{}
	e.joinThresh = 2.0 * e.tolerance / e.style.Width
}

// doJoin handles joining the current segment to the previous one.
func (e *expander) doJoin(tan0 easel.Point) {
	scale := 0.5 * e.style.Width / tan0.Length()
	norm := perp(tan0).Mul(scale)
	p0 := e.lastPt

	if e.forward.isEmpty() {
		e.startFirstSegment(p0, norm, tan0)
		return
	}
	e.joinWithPrevious(p0, norm, tan0)
}

// startFirstSegment initializes the forward and backward paths for the first segment.
func (e *expander) startFirstSegment(p0, norm, tan0 easel.Point) {
	e.forward.moveTo(p0.Sub(norm))
	e.backward.moveTo(p0.Add(norm))
	e.startTan = tan0
	e.startNorm = norm
}

// joinWithPrevious handles joining with the previous segment.
func (e *expander) joinWithPrevious(p0, norm, tan0 easel.Point) {
	ab := e.lastTan
	cd := tan0
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hypot := math.Hypot(cross, dot)

	// Skip join if angle change is insignificant, but still connect paths
	// to maintain continuity. Without the lineTo calls, the forward/backward
	// paths have a gap at circle cardinal points where tangents are identical.
	if dot > 0.0 && math.Abs(cross) < hypot*e.joinThresh {
		e.forward.lineTo(p0.Sub(norm))
		e.backward.lineTo(p0.Add(norm))
		return
	}

	switch e.style.Join {
	case LineJoinBevel:
		e.applyBevelJoin(p0, norm)
	case LineJoinMiter:
		e.applyMiterJoin(p0, norm, ab, cd, cross, dot, hypot)
	case LineJoinRound:
		e.applyRoundJoin(p0, norm, cross, dot)
	}
}

// applyBevelJoin applies a bevel join at the given point.
func (e *expander) applyBevelJoin(p0, norm easel.Point) {
	e.forward.lineTo(p0.Sub(norm))
	e.backward.lineTo(p0.Add(norm))
}

// applyMiterJoin applies a miter join at the given point.
func (e *expander) applyMiterJoin(p0, norm, ab, cd easel.Point, cross, dot, hypot float64) {
	miterLimitSq := e.style.MiterLimit * e.style.MiterLimit
	if 2.0*hypot < (hypot+dot)*miterLimitSq {
		e.computeMiterPoint(p0, norm, ab, cd, cross)
	}
	e.forward.lineTo(p0.Sub(norm))
	e.backward.lineTo(p0.Add(norm))
}

// computeMiterPoint computes and applies the miter point.
func (e *expander) computeMiterPoint(p0, norm, ab, cd easel.Point, cross float64) {
	lastScale := 0.5 * e.style.Width / ab.Length()
	lastNorm := perp(ab).Mul(lastScale)

	if cross > 0.0 {
		// Join on forward path
		fpLast := p0.Sub(lastNorm)
		fpThis := p0.Sub(norm)
		h := ab.Cross(fpThis.Sub(fpLast)) / cross
		miterPt := fpThis.Sub(cd.Mul(h))
		e.forward.lineTo(miterPt)
		e.backward.lineTo(p0)
	} else if cross < 0.0 {
		// Join on backward path
		fpLast := p0.Add(lastNorm)
		fpThis := p0.Add(norm)
		h := ab.Cross(fpThis.Sub(fpLast)) / cross
		miterPt := fpThis.Sub(cd.Mul(h))
		e.backward.lineTo(miterPt)
		e.forward.lineTo(p0)
	}
}

// applyRoundJoin applies a round join at the given point.
// The arc goes from the previous segment's normal to the current normal.
func (e *expander) applyRoundJoin(p0, norm easel.Point, cross, dot float64) {
	lastScale := 0.5 * e.style.Width / e.lastTan.Length()
	lastNorm := perp(e.lastTan).Mul(lastScale)

	angle := math.Atan2(cross, dot)
	if angle > 0.0 {
		e.backward.lineTo(p0.Add(norm))
		e.roundJoin(e.forward, p0, lastNorm.Mul(-1), angle)
	} else {
		e.forward.lineTo(p0.Sub(norm))
		e.roundJoin(e.backward, p0, lastNorm.Mul(-1), -angle)
	}
}

// doLine extends both paths with a line segment.
func (e *expander) doLine(tangent, p1 easel.Point) {
	scale := 0.5 * e.style.Width / tangent.Length()
	norm := perp(tangent).Mul(scale)

	e.forward.lineTo(p1.Sub(norm))
	e.backward.lineTo(p1.Add(norm))
	e.lastPt = p1
	e.lastNorm = norm // saved for the end cap (tiny-skia pattern)
}

// doQuad handles a quadratic Bezier curve by flattening it.
func (e *expander) doQuad(control, end easel.Point) {
	points := e.flattenQuad(e.lastPt, control, end)
	for i := 1; i < len(points); i++ {
		tangent := points[i].Sub(points[i-1])
		if tangent.Dot(tangent) > 1e-10 {
			e.doJoin(tangent)
			e.lastTan = tangent
			e.doLine(tangent, points[i])
		}
	}
}

// doCubic handles a cubic Bezier curve by flattening it.
func (e *expander) doCubic(c1, c2, end easel.Point) {
	points := e.flattenCubic(e.lastPt, c1, c2, end)
	for i := 1; i < len(points); i++ {
		tangent := points[i].Sub(points[i-1])
		if tangent.Dot(tangent) > 1e-10 {
			e.doJoin(tangent)
			e.lastTan = tangent
			e.doLine(tangent, points[i])
		}
	}
}

// finish completes an open subpath with end caps.
func (e *expander) finish() {
	if e.forward.isEmpty() {
		return
	}

	e.output.appendPath(e.forward)

	// Apply end cap using the saved normal from the last line segment.
	// lastNorm points toward the backward path, but applyCap expects the
	// normal pointing toward the forward path, so negate it.
	if len(e.backward.elements) > 0 {
		e.applyCap(e.style.Cap, e.lastPt, e.lastNorm.Mul(-1), false)
	}

	e.appendReversed(e.backward)

	e.applyCap(e.style.Cap, e.startPt, e.startNorm, true)

	e.forward = newPathBuilder()
	e.backward = newPathBuilder()
}

// finishClosed completes a closed subpath.
func (e *expander) finishClosed() {
	if e.forward.isEmpty() {
		return
	}

	// Join back to start
	e.doJoin(e.startTan)

	e.output.appendPath(e.forward)
	e.output.close()

	// The backward path becomes its own reversed subpath.
	backElems := e.backward.elements
	if len(backElems) > 0 {
		lastPt := getEndPoint(backElems[len(backElems)-1])
		e.output.moveTo(lastPt)
	}
	e.appendReversed(e.backward)
	e.output.close()

	e.forward = newPathBuilder()
	e.backward = newPathBuilder()
}

// applyCap applies a line cap at the given position.
func (e *expander) applyCap(capStyle LineCap, center, norm easel.Point, closePath bool) {
	switch capStyle {
	case LineCapButt:
		if closePath {
			e.output.close()
		} else {
			e.output.lineTo(center.Sub(norm))
		}

	case LineCapRound:
		e.roundJoin(e.output, center, norm, math.Pi)
		if closePath {
			e.output.close()
		}

	case LineCapSquare:
		e.squareCap(e.output, center, norm, closePath)
	}
}

// roundJoin adds a round join arc approximated with cubic Beziers.
func (e *expander) roundJoin(out *pathBuilder, center, norm easel.Point, angle float64) {
	numSegments := int(math.Ceil(math.Abs(angle) / (math.Pi / 2)))
	if numSegments < 1 {
		numSegments = 1
	}

	angleStep := angle / float64(numSegments)
	currentAngle := math.Atan2(norm.Y, norm.X)
	radius := norm.Length()

	for i := 0; i < numSegments; i++ {
		a0 := currentAngle
		a1 := currentAngle + angleStep
		e.arcSegment(out, center, radius, a0, a1)
		currentAngle = a1
	}
}

// arcSegment adds a single arc segment (up to 90 degrees) using a cubic Bezier.
func (e *expander) arcSegment(out *pathBuilder, center easel.Point, radius, a0, a1 float64) {
	da := a1 - a0
	alpha := math.Sin(da) * (math.Sqrt(4+3*math.Tan(da/2)*math.Tan(da/2)) - 1) / 3

	cos0, sin0 := math.Cos(a0), math.Sin(a0)
	cos1, sin1 := math.Cos(a1), math.Sin(a1)

	p1 := easel.Point{X: center.X + radius*cos0, Y: center.Y + radius*sin0}
	p2 := easel.Point{X: center.X + radius*cos1, Y: center.Y + radius*sin1}

	c1 := easel.Point{X: p1.X - alpha*radius*sin0, Y: p1.Y + alpha*radius*cos0}
	c2 := easel.Point{X: p2.X + alpha*radius*sin1, Y: p2.Y - alpha*radius*cos1}

	out.cubicTo(c1, c2, p2)
}

// squareCap adds a square cap.
func (e *expander) squareCap(out *pathBuilder, center, norm easel.Point, closePath bool) {
	// Affine transform [norm.x, norm.y, -norm.y, norm.x, center.x, center.y]
	// applied to the square corners (+1, +1), (-1, +1), (-1, 0).
	p1 := capPoint(center, norm, easel.Point{X: 1, Y: 1})
	p2 := capPoint(center, norm, easel.Point{X: -1, Y: 1})

	out.lineTo(p1)
	out.lineTo(p2)

	if closePath {
		out.close()
	} else {
		p3 := capPoint(center, norm, easel.Point{X: -1, Y: 0})
		out.lineTo(p3)
	}
}

func capPoint(center, norm, p easel.Point) easel.Point {
	return easel.Point{
		X: norm.X*p.X - norm.Y*p.Y + center.X,
		Y: norm.Y*p.X + norm.X*p.Y + center.Y,
	}
}

// appendReversed appends the backward path in reverse order.
func (e *expander) appendReversed(pb *pathBuilder) {
	elems := pb.elements
	for i := len(elems) - 1; i >= 1; i-- {
		endPt := getEndPoint(elems[i-1])
		switch el := elems[i].(type) {
		case easel.LineTo:
			e.output.lineTo(endPt)
		case easel.QuadTo:
			e.output.quadTo(el.Control, endPt)
		case easel.CubicTo:
			e.output.cubicTo(el.Control2, el.Control1, endPt)
		}
	}
}

// flattenQuad flattens a quadratic Bezier curve to line segments.
func (e *expander) flattenQuad(p0, p1, p2 easel.Point) []easel.Point {
	points := []easel.Point{p0}
	e.flattenQuadRec(p0, p1, p2, &points)
	return points
}

func (e *expander) flattenQuadRec(p0, p1, p2 easel.Point, points *[]easel.Point) {
	dist := distanceToLine(p1, p0, p2)
	if dist < e.tolerance {
		*points = append(*points, p2)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)

	e.flattenQuadRec(p0, q0, q2, points)
	e.flattenQuadRec(q2, q1, p2, points)
}

// flattenCubic flattens a cubic Bezier curve to line segments.
func (e *expander) flattenCubic(p0, p1, p2, p3 easel.Point) []easel.Point {
	points := []easel.Point{p0}
	e.flattenCubicRec(p0, p1, p2, p3, &points)
	return points
}

func (e *expander) flattenCubicRec(p0, p1, p2, p3 easel.Point, points *[]easel.Point) {
	d1 := distanceToLine(p1, p0, p3)
	d2 := distanceToLine(p2, p0, p3)
	dist := math.Max(d1, d2)

	if dist < e.tolerance {
		*points = append(*points, p3)
		return
	}

	// Subdivide using de Casteljau's algorithm
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)

	e.flattenCubicRec(p0, q0, r0, s, points)
	e.flattenCubicRec(s, r1, q2, p3, points)
}

// distanceToLine calculates the perpendicular distance from point p to line segment (a, b).
func distanceToLine(p, a, b easel.Point) float64 {
	ab := b.Sub(a)
	abLen := ab.Length()

	if abLen < 1e-10 {
		return p.Distance(a)
	}

	ap := p.Sub(a)
	t := ap.Dot(ab) / (abLen * abLen)

	if t < 0 {
		return p.Distance(a)
	}
	if t > 1 {
		return p.Distance(b)
	}

	closest := a.Add(ab.Mul(t))
	return p.Distance(closest)
}

// getEndPoint returns the endpoint of a path element.
func getEndPoint(el easel.PathElement) easel.Point {
	switch e := el.(type) {
	case easel.MoveTo:
		return e.Point
	case easel.LineTo:
		return e.Point
	case easel.QuadTo:
		return e.Point
	case easel.CubicTo:
		return e.Point
	default:
		return easel.Point{}
	}
}

// pathBuilder accumulates path elements for the expansion output.
type pathBuilder struct {
	elements []easel.PathElement
	current  easel.Point
}

func newPathBuilder() *pathBuilder {
	return &pathBuilder{
		elements: make([]easel.PathElement, 0, 64),
	}
}

func (b *pathBuilder) isEmpty() bool {
	return len(b.elements) == 0
}

func (b *pathBuilder) moveTo(p easel.Point) {
	b.elements = append(b.elements, easel.MoveTo{Point: p})
	b.current = p
}

func (b *pathBuilder) lineTo(p easel.Point) {
	b.elements = append(b.elements, easel.LineTo{Point: p})
	b.current = p
}

func (b *pathBuilder) quadTo(c, p easel.Point) {
	b.elements = append(b.elements, easel.QuadTo{Control: c, Point: p})
	b.current = p
}

func (b *pathBuilder) cubicTo(c1, c2, p easel.Point) {
	b.elements = append(b.elements, easel.CubicTo{Control1: c1, Control2: c2, Point: p})
	b.current = p
}

func (b *pathBuilder) close() {
	b.elements = append(b.elements, easel.Close{})
}

func (b *pathBuilder) appendPath(other *pathBuilder) {
	b.elements = append(b.elements, other.elements...)
}

// build assembles the accumulated elements into a path.
func (b *pathBuilder) build() *easel.Path {
	out := easel.NewPath()
	for _, el := range b.elements {
		switch e := el.(type) {
		case easel.MoveTo:
			out.MoveTo(e.Point.X, e.Point.Y)
		case easel.LineTo:
			out.LineTo(e.Point.X, e.Point.Y)
		case easel.QuadTo:
			out.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case easel.CubicTo:
			out.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case easel.Close:
			out.Close()
		}
	}
	return out
}
