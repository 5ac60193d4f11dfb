package record

import (
	"image"
	"sync"

	"github.com/gogpu/easel"
)

// Context is a recording easel.DeviceContext. Every call appends a typed Op
// to the log; draw calls snapshot their brush so assertions see the state
// the brush had at draw time, not the state it ended up in.
type Context struct {
	dev *Device

	mu        sync.Mutex
	ops       []Op
	brushes   []*Brush
	target    easel.TargetBuffer
	dpi       float64
	transform easel.Matrix
	began     bool
	released  bool

	// FailEnd makes the next End fail.
	FailEnd error

	// FailCreateBrush makes the next Create*Brush call fail.
	FailCreateBrush error
}

var _ easel.DeviceContext = (*Context)(nil)

func newContext(d *Device) *Context {
	return &Context{dev: d, dpi: 96, transform: easel.Identity()}
}

func (c *Context) record(op Op) {
	c.mu.Lock()
	c.ops = append(c.ops, op)
	c.mu.Unlock()
}

// Ops returns a copy of the recorded op sequence.
func (c *Context) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Op(nil), c.ops...)
}

// Reset clears the op log, keeping target, DPI and transform state.
func (c *Context) Reset() {
	c.mu.Lock()
	c.ops = nil
	c.mu.Unlock()
}

// Brushes returns every brush created through this context, in creation
// order.
func (c *Context) Brushes() []*Brush {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Brush(nil), c.brushes...)
}

// Target returns the currently bound target buffer.
func (c *Context) Target() easel.TargetBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// DPI returns the last value passed to SetDPI, 96 before the first call.
func (c *Context) DPI() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dpi
}

// Transform returns the last value passed to SetTransform.
func (c *Context) Transform() easel.Matrix {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform
}

// Began reports whether the context is inside a Begin/End pass.
func (c *Context) Began() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.began
}

// Released reports whether Release was called.
func (c *Context) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// snapshot captures a brush's mutable state at draw time. Foreign and nil
// brushes snapshot to the zero value.
func snapshot(b easel.Brush) BrushSnapshot {
	rb, ok := b.(*Brush)
	if !ok {
		return BrushSnapshot{}
	}
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return BrushSnapshot{
		Brush:     rb,
		Transform: rb.transform,
		Opacity:   rb.opacity,
		Color:     rb.color,
	}
}

// SetTarget implements easel.DeviceContext.
func (c *Context) SetTarget(t easel.TargetBuffer) {
	c.mu.Lock()
	c.target = t
	c.ops = append(c.ops, SetTargetOp{Bound: t != nil})
	c.mu.Unlock()
}

// SetDPI implements easel.DeviceContext.
func (c *Context) SetDPI(dpi float64) {
	c.mu.Lock()
	c.dpi = dpi
	c.ops = append(c.ops, SetDPIOp{DPI: dpi})
	c.mu.Unlock()
}

// Begin implements easel.DeviceContext.
func (c *Context) Begin() {
	c.mu.Lock()
	c.began = true
	c.ops = append(c.ops, BeginOp{})
	c.mu.Unlock()
}

// End implements easel.DeviceContext.
func (c *Context) End() error {
	c.mu.Lock()
	c.began = false
	c.ops = append(c.ops, EndOp{})
	err := c.FailEnd
	c.FailEnd = nil
	c.mu.Unlock()
	return err
}

// Clear implements easel.DeviceContext.
func (c *Context) Clear(col easel.RGBA) {
	c.record(ClearOp{Color: col})
}

// SetTransform implements easel.DeviceContext.
func (c *Context) SetTransform(m easel.Matrix) {
	c.mu.Lock()
	c.transform = m
	c.ops = append(c.ops, SetTransformOp{Transform: m})
	c.mu.Unlock()
}

// PushAxisAlignedClip implements easel.DeviceContext.
func (c *Context) PushAxisAlignedClip(r easel.Rect) {
	c.record(PushClipOp{Rect: r})
}

// PopAxisAlignedClip implements easel.DeviceContext.
func (c *Context) PopAxisAlignedClip() {
	c.record(PopClipOp{})
}

// PushLayer implements easel.DeviceContext.
func (c *Context) PushLayer(p easel.LayerParams) {
	c.record(PushLayerOp{Params: p})
}

// PopLayer implements easel.DeviceContext.
func (c *Context) PopLayer() {
	c.record(PopLayerOp{})
}

// FillRect implements easel.DeviceContext.
func (c *Context) FillRect(r easel.Rect, b easel.Brush) {
	c.record(FillRectOp{Rect: r, Brush: snapshot(b)})
}

// DrawRect implements easel.DeviceContext.
func (c *Context) DrawRect(r easel.Rect, b easel.Brush, strokeWidth float64) {
	c.record(DrawRectOp{Rect: r, Brush: snapshot(b), Width: strokeWidth})
}

// FillEllipse implements easel.DeviceContext.
func (c *Context) FillEllipse(center easel.Point, rx, ry float64, b easel.Brush) {
	c.record(FillEllipseOp{Center: center, RX: rx, RY: ry, Brush: snapshot(b)})
}

// DrawEllipse implements easel.DeviceContext.
func (c *Context) DrawEllipse(center easel.Point, rx, ry float64, b easel.Brush, strokeWidth float64) {
	c.record(DrawEllipseOp{Center: center, RX: rx, RY: ry, Brush: snapshot(b), Width: strokeWidth})
}

// FillRoundedRect implements easel.DeviceContext.
func (c *Context) FillRoundedRect(r easel.Rect, corner float64, b easel.Brush) {
	c.record(FillRoundedRectOp{Rect: r, Corner: corner, Brush: snapshot(b)})
}

// DrawRoundedRect implements easel.DeviceContext.
func (c *Context) DrawRoundedRect(r easel.Rect, corner float64, b easel.Brush, strokeWidth float64) {
	c.record(DrawRoundedRectOp{Rect: r, Corner: corner, Brush: snapshot(b), Width: strokeWidth})
}

// DrawLine implements easel.DeviceContext.
func (c *Context) DrawLine(a, b easel.Point, br easel.Brush, strokeWidth float64) {
	c.record(DrawLineOp{From: a, To: b, Brush: snapshot(br), Width: strokeWidth})
}

// FillGeometry implements easel.DeviceContext.
func (c *Context) FillGeometry(g easel.Geometry, b easel.Brush) {
	rg, _ := g.(*Geometry)
	c.record(FillGeometryOp{Geometry: rg, Brush: snapshot(b)})
}

// DrawGeometry implements easel.DeviceContext.
func (c *Context) DrawGeometry(g easel.Geometry, b easel.Brush, strokeWidth float64) {
	rg, _ := g.(*Geometry)
	c.record(DrawGeometryOp{Geometry: rg, Brush: snapshot(b), Width: strokeWidth})
}

// DrawImage implements easel.DeviceContext. Only the image bounds are
// retained.
func (c *Context) DrawImage(img image.Image, dst easel.Rect, opacity float64, mode easel.InterpolationMode) {
	var bounds image.Rectangle
	if img != nil {
		bounds = img.Bounds()
	}
	c.record(DrawImageOp{Bounds: bounds, Dst: dst, Opacity: opacity, Mode: mode})
}

// DrawGlyphRun implements easel.DeviceContext.
func (c *Context) DrawGlyphRun(run easel.GlyphRun, face easel.FontFace, b easel.Brush) {
	c.record(DrawGlyphRunOp{Glyphs: len(run.Glyphs), Size: run.Size, Brush: snapshot(b)})
}

// CreateSolidBrush implements easel.DeviceContext.
func (c *Context) CreateSolidBrush(col easel.RGBA) (easel.SolidBrush, error) {
	b, err := c.newBrush(col, nil)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateLinearGradientBrush implements easel.DeviceContext.
func (c *Context) CreateLinearGradientBrush(f easel.LinearGradientFill) (easel.Brush, error) {
	b, err := c.newBrush(easel.RGBA{}, f)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateRadialGradientBrush implements easel.DeviceContext.
func (c *Context) CreateRadialGradientBrush(f easel.RadialGradientFill) (easel.Brush, error) {
	b, err := c.newBrush(easel.RGBA{}, f)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateImageBrush implements easel.DeviceContext.
func (c *Context) CreateImageBrush(f easel.ImageFill) (easel.Brush, error) {
	b, err := c.newBrush(easel.RGBA{}, f)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Context) newBrush(col easel.RGBA, fill any) (*Brush, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailCreateBrush; err != nil {
		c.FailCreateBrush = nil
		return nil, err
	}
	b := &Brush{Fill: fill, color: col, opacity: 1, transform: easel.Identity()}
	c.brushes = append(c.brushes, b)
	return b, nil
}

// Release implements easel.DeviceContext.
func (c *Context) Release() {
	c.mu.Lock()
	c.released = true
	c.ops = append(c.ops, ReleaseOp{})
	c.mu.Unlock()
}
