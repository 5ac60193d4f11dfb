package record

import (
	"sync"

	"github.com/gogpu/easel"
)

// Brush is a recording brush. Draw calls snapshot its state, and the full
// SetTransform history stays available for assertions about transient
// transforms that are reset before the next snapshot.
type Brush struct {
	// Fill is the fill the brush was created from: nil for a solid brush,
	// otherwise the LinearGradientFill, RadialGradientFill or ImageFill
	// value as passed.
	Fill any

	mu         sync.Mutex
	color      easel.RGBA
	opacity    float64
	transform  easel.Matrix
	transforms []easel.Matrix
	released   bool
}

var (
	_ easel.Brush      = (*Brush)(nil)
	_ easel.SolidBrush = (*Brush)(nil)
)

// SetColor implements easel.SolidBrush.
func (b *Brush) SetColor(c easel.RGBA) {
	b.mu.Lock()
	b.color = c
	b.mu.Unlock()
}

// SetOpacity implements easel.Brush.
func (b *Brush) SetOpacity(opacity float64) {
	b.mu.Lock()
	b.opacity = opacity
	b.mu.Unlock()
}

// SetTransform implements easel.Brush. Every call is appended to the
// transform history.
func (b *Brush) SetTransform(m easel.Matrix) {
	b.mu.Lock()
	b.transform = m
	b.transforms = append(b.transforms, m)
	b.mu.Unlock()
}

// Release implements easel.Brush.
func (b *Brush) Release() {
	b.mu.Lock()
	b.released = true
	b.mu.Unlock()
}

// Color returns the current solid color.
func (b *Brush) Color() easel.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.color
}

// Opacity returns the current opacity.
func (b *Brush) Opacity() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opacity
}

// Transform returns the current brush transform.
func (b *Brush) Transform() easel.Matrix {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transform
}

// Transforms returns every matrix passed to SetTransform, in call order.
func (b *Brush) Transforms() []easel.Matrix {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]easel.Matrix(nil), b.transforms...)
}

// Released reports whether Release was called.
func (b *Brush) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// Geometry is a recorded realized geometry. It keeps a copy of whatever it
// was built from.
type Geometry struct {
	// Path is a clone of the source path, nil for rectangle lists.
	Path *easel.Path

	// Rects is a copy of the source rectangle list, nil for paths.
	Rects []easel.Rect

	// Rule is the fill rule the geometry was realized with.
	Rule easel.FillRule

	mu       sync.Mutex
	released bool
}

var _ easel.Geometry = (*Geometry)(nil)

// Release implements easel.Geometry.
func (g *Geometry) Release() {
	g.mu.Lock()
	g.released = true
	g.mu.Unlock()
}

// Released reports whether Release was called.
func (g *Geometry) Released() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.released
}

// GeometryBuilder is a recording easel.GeometryBuilder.
type GeometryBuilder struct{}

var _ easel.GeometryBuilder = GeometryBuilder{}

// FromPath implements easel.GeometryBuilder.
func (GeometryBuilder) FromPath(p *easel.Path, rule easel.FillRule) (easel.Geometry, error) {
	var cp *easel.Path
	if p != nil {
		cp = p.Clone()
	}
	return &Geometry{Path: cp, Rule: rule}, nil
}

// FromRects implements easel.GeometryBuilder.
func (GeometryBuilder) FromRects(rects []easel.Rect, rule easel.FillRule) (easel.Geometry, error) {
	return &Geometry{Rects: append([]easel.Rect(nil), rects...), Rule: rule}, nil
}
