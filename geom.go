package easel

import (
	"image"
	"math"
)

// Point represents a 2D point or vector in logical coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a new Point.
func Pt(x, y float64) Point { return Point{x, y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the 2D cross product (z component) of p and q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Length returns the euclidean length of the vector p.
func (p Point) Length() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the distance between p and q.
func (p Point) Distance(q Point) float64 { return p.Sub(q).Length() }

// Lerp linearly interpolates between p and q. t=0 returns p, t=1 returns q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Rect is an axis-aligned rectangle in logical coordinates, stored as
// origin plus size. A Rect with non-positive width or height is empty.
type Rect struct {
	X, Y, W, H float64
}

// NewRect creates a rectangle from origin and size.
func NewRect(x, y, w, h float64) Rect { return Rect{x, y, w, h} }

// RectFromImage converts a pixel rectangle to a logical Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy())}
}

// Empty reports whether r encloses no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the center point of r.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r (edges inclusive on min,
// exclusive on max).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Intersect returns the overlapping region of r and o.
// The result is empty when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Union returns the smallest rectangle covering both r and o.
// An empty rectangle does not contribute.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Translated returns r moved by (dx, dy).
func (r Rect) Translated(dx, dy float64) Rect {
	return Rect{r.X + dx, r.Y + dy, r.W, r.H}
}

// Expanded returns r grown by d on every side.
func (r Rect) Expanded(d float64) Rect {
	return Rect{r.X - d, r.Y - d, r.W + 2*d, r.H + 2*d}
}

// Scaled returns r with origin and size multiplied by f.
func (r Rect) Scaled(f float64) Rect {
	return Rect{r.X * f, r.Y * f, r.W * f, r.H * f}
}

// ToPixels converts r to device pixels at the given scale factor, snapping
// outward so the result covers every pixel r touches.
func (r Rect) ToPixels(scale float64) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	x0 := int(math.Floor(r.X * scale))
	y0 := int(math.Floor(r.Y * scale))
	x1 := int(math.Ceil(r.Right() * scale))
	y1 := int(math.Ceil(r.Bottom() * scale))
	return image.Rect(x0, y0, x1, y1)
}

// RectList accumulates device-pixel rectangles, used for deferred repaint
// areas and dirty regions. Adding keeps the list minimal through containment
// checks but never merges overlapping rectangles into larger ones, so a
// queued area is always covered by at least one stored rectangle exactly.
type RectList struct {
	rects []image.Rectangle
}

// Add appends r to the list. Empty rectangles are dropped; a rectangle
// already covered by a stored one is dropped, and stored rectangles covered
// by r are removed.
func (l *RectList) Add(r image.Rectangle) {
	if r.Empty() {
		return
	}
	keep := l.rects[:0]
	for _, have := range l.rects {
		if r.In(have) {
			return
		}
		if !have.In(r) {
			keep = append(keep, have)
		}
	}
	l.rects = append(keep, r)
}

// AddList appends every rectangle of o.
func (l *RectList) AddList(o *RectList) {
	for _, r := range o.rects {
		l.Add(r)
	}
}

// Clear removes all rectangles, keeping capacity for reuse.
func (l *RectList) Clear() { l.rects = l.rects[:0] }

// Empty reports whether the list holds no rectangles.
func (l *RectList) Empty() bool { return len(l.rects) == 0 }

// Len returns the number of stored rectangles.
func (l *RectList) Len() int { return len(l.rects) }

// Rects returns the stored rectangles. The slice is owned by the list and
// only valid until the next mutation.
func (l *RectList) Rects() []image.Rectangle { return l.rects }

// Bounds returns the union of all stored rectangles.
func (l *RectList) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, r := range l.rects {
		b = b.Union(r)
	}
	return b
}

// Contains reports whether some stored rectangle fully covers r.
func (l *RectList) Contains(r image.Rectangle) bool {
	for _, have := range l.rects {
		if r.In(have) {
			return true
		}
	}
	return false
}

// ClipTo intersects every stored rectangle against bounds in place,
// dropping the ones that fall empty.
func (l *RectList) ClipTo(bounds image.Rectangle) {
	keep := l.rects[:0]
	for _, r := range l.rects {
		if c := r.Intersect(bounds); !c.Empty() {
			keep = append(keep, c)
		}
	}
	l.rects = keep
}

// Clipped returns a new slice with every rectangle intersected against
// bounds, dropping the ones that fall empty.
func (l *RectList) Clipped(bounds image.Rectangle) []image.Rectangle {
	out := make([]image.Rectangle, 0, len(l.rects))
	for _, r := range l.rects {
		if c := r.Intersect(bounds); !c.Empty() {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns an independent copy of the list.
func (l *RectList) Clone() RectList {
	out := RectList{rects: make([]image.Rectangle, len(l.rects))}
	copy(out.rects, l.rects)
	return out
}
