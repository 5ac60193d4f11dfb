package easel

import (
	"errors"
	"image"
	"time"
)

// Canvas is the drawing facade: it owns the state stack, the surface and
// the presentation pipeline, and turns draw calls into device context
// operations under the current state.
//
// All methods except PaintReady, Stats and SetLogger must be called from
// one goroutine, the owner. Drawing happens between StartFrame and
// FinishFrame; draw calls outside a frame are programmer errors and are
// logged and ignored.
type Canvas struct {
	surface *surface
	pipe    *pipeline
	builder GeometryBuilder
	typeset TypesetService

	states  []*graphicsState
	inFrame bool

	resizing bool // between StartResizing and FinishResizing

	paintStart time.Time
	stats      stats

	closed bool
}

// New creates a Canvas with the given logical size. A Device must be
// supplied with WithDevice; everything else is optional. No device
// resources are created until the first frame.
func New(width, height int, opts ...Option) (*Canvas, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.device == nil {
		return nil, ErrNoDevice
	}
	builder := o.builder
	if builder == nil {
		if gs, ok := o.device.(GeometrySource); ok {
			builder = gs.NewGeometryBuilder()
		}
	}

	c := &Canvas{
		builder: builder,
		typeset: o.typeset,
	}
	c.surface = newSurface(o.device, image.Pt(width, height), o.scale)
	c.pipe = newPipeline(c.surface, o.host, &c.stats, o.syncPresent)
	return c, nil
}

// Close stops the presenter and releases all device resources created by
// the canvas. The injected Device belongs to the caller and stays open.
// Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	if c.inFrame {
		c.teardownStates()
		c.inFrame = false
		c.pipe.abortFrame()
	}
	c.pipe.stop()
	c.surface.release()
	c.closed = true
	return nil
}

// Size returns the logical size of the canvas.
func (c *Canvas) Size() image.Point { return c.surface.size }

// Bounds returns the canvas bounds in logical coordinates.
func (c *Canvas) Bounds() Rect {
	return Rect{W: float64(c.surface.size.X), H: float64(c.surface.size.Y)}
}

// ScaleFactor returns the current DPI scale factor.
func (c *Canvas) ScaleFactor() float64 { return c.surface.scale }

// Resize sets a new logical size, clamped to the supported buffer range.
// Returns false when the clamped size is unchanged. The swap chain is
// rebuilt lazily at the next frame start; the first present after that
// covers the full buffer.
func (c *Canvas) Resize(width, height int) bool {
	if c.closed {
		return false
	}
	if c.inFrame {
		slogger().Error("programmer error: Resize during an active frame")
		return false
	}
	return c.surface.resize(image.Pt(width, height))
}

// SetScaleFactor sets the DPI scale factor (1.0 = 96 DPI) and re-runs the
// resize pass at the new pixel size. Returns false when unchanged.
func (c *Canvas) SetScaleFactor(scale float64) bool {
	if c.closed {
		return false
	}
	if c.inFrame {
		slogger().Error("programmer error: SetScaleFactor during an active frame")
		return false
	}
	return c.surface.setScale(scale)
}

// StartResizing marks the beginning of a live resize. StartFrame refuses
// frames until FinishResizing, so buffer rebuilds happen once at the end
// rather than on every intermediate size.
func (c *Canvas) StartResizing() { c.resizing = true }

// FinishResizing ends a live resize; the pending size takes effect on the
// next frame.
func (c *Canvas) FinishResizing() { c.resizing = false }

// AddDeferredRepaint queues a logical area for the next frame. The area is
// snapped outward to device pixels.
func (c *Canvas) AddDeferredRepaint(r Rect) {
	if c.closed {
		return
	}
	c.pipe.addRepaint(r.ToPixels(c.surface.scale))
}

// AddDeferredRepaintAll queues the entire buffer.
func (c *Canvas) AddDeferredRepaintAll() {
	if c.closed {
		return
	}
	c.pipe.addRepaint(c.surface.pixelBounds())
}

// NeedsRepaint reports whether any area is queued for the next frame.
func (c *Canvas) NeedsRepaint() bool {
	if c.closed {
		return false
	}
	return c.pipe.needsRepaint()
}

// PaintReady returns a capacity-1 channel that receives after a finished
// frame completes its present cycle. Receives coalesce; the channel never
// closes. This is the owning thread's pacing point.
func (c *Canvas) PaintReady() <-chan struct{} { return c.pipe.paintReady() }

// Stats returns a snapshot of frame counters. Safe from any goroutine.
func (c *Canvas) Stats() Stats { return c.stats.snapshot() }

// StartFrame begins painting the given frame. It returns false, without
// error, when the canvas is mid-resize, when the previous frame is still
// in flight (back-pressure), when nothing is queued to repaint, or when
// device resources cannot be created yet. On success the caller must
// finish with FinishFrame.
//
// StartFrame is also where the previous present's outcome is applied: an
// occluded present is forgotten, a failed one tears the surface down so
// this call can rebuild it.
func (c *Canvas) StartFrame(frame uint64) bool {
	if c.closed {
		return false
	}
	if c.inFrame {
		slogger().Error("programmer error: StartFrame during an active frame", "frame", frame)
		return false
	}
	if c.resizing {
		return false
	}
	if !c.pipe.otherSlotClear() {
		return false
	}
	if err := c.pipe.takePresentError(); err != nil {
		if !errors.Is(err, ErrSurfaceOccluded) {
			slogger().Warn("easel: present failed, device resources torn down", "error", err)
			c.surface.release()
		}
	}
	if err := c.surface.ensure(); err != nil {
		slogger().Warn("easel: device resources unavailable", "error", err)
		return false
	}
	if !c.pipe.startFrame(frame) {
		return false
	}

	c.states = append(c.states[:0], newRootState(c.surface.pixelBounds(), c.surface.scale))
	c.inFrame = true
	c.clipToPaintAreas()
	c.paintStart = time.Now()
	return true
}

// FinishFrame ends painting, publishes the frame to the presenter and
// returns immediately. A device failure while flushing discards the frame,
// tears the surface down and is reported here; the next StartFrame
// recreates everything.
func (c *Canvas) FinishFrame() error {
	if c.closed {
		return ErrClosed
	}
	if !c.inFrame {
		slogger().Error("programmer error: FinishFrame without StartFrame")
		return nil
	}
	c.teardownStates()
	c.inFrame = false
	c.stats.addPaint(time.Since(c.paintStart))
	return c.pipe.finishFrame()
}

// teardownStates destroys the frame's state stack: excess states first,
// each popping its layers in reverse, then the root. Unbalanced Save calls
// are cleaned up here so the device clip stack always ends balanced.
func (c *Canvas) teardownStates() {
	dc := c.surface.dc
	for len(c.states) > 0 {
		top := c.states[len(c.states)-1]
		top.popLayers(dc)
		top.releaseBrush()
		c.states = c.states[:len(c.states)-1]
	}
}

// clipToPaintAreas restricts the frame's drawing to the areas being
// repainted, so pixels outside the dirty region survive from the previous
// frame. Skipped when the frame covers the entire buffer.
func (c *Canvas) clipToPaintAreas() {
	rects, entire := c.pipe.writeAreas()
	if entire || len(rects) == 0 {
		return
	}
	st := c.top()
	dc := c.surface.dc
	if len(rects) == 1 {
		st.pushAxisAligned(dc, RectFromImage(rects[0]))
		return
	}
	if c.builder != nil {
		logical := make([]Rect, len(rects))
		inv := 1 / c.surface.scale
		for i, r := range rects {
			logical[i] = RectFromImage(r).Scaled(inv)
		}
		if g, err := c.builder.FromRects(logical, FillRuleNonZero); err == nil {
			var union image.Rectangle
			for _, r := range rects {
				union = union.Union(r)
			}
			st.pushGeometric(dc, g, st.transform, union)
			return
		} else {
			slogger().Debug("easel: dirty-region clip geometry unavailable", "error", err)
		}
	}
	var union image.Rectangle
	for _, r := range rects {
		union = union.Union(r)
	}
	st.pushAxisAligned(dc, RectFromImage(union))
}

// top returns the current state. Valid only while inFrame.
func (c *Canvas) top() *graphicsState {
	return c.states[len(c.states)-1]
}

// drawState is the entry check shared by every draw and state call: it
// returns the current state and context, or nils after logging when no
// frame is active.
func (c *Canvas) drawState() (*graphicsState, DeviceContext) {
	if c.closed || !c.inFrame {
		slogger().Error("programmer error: draw call outside StartFrame/FinishFrame")
		return nil, nil
	}
	return c.top(), c.surface.dc
}

// Save pushes a copy of the current state. Pair with Restore.
func (c *Canvas) Save() {
	st, _ := c.drawState()
	if st == nil {
		return
	}
	c.states = append(c.states, st.fork())
}

// Restore pops the current state, undoing its clip layers in reverse push
// order and releasing its realized resources. Restoring past the frame's
// root state is a programmer error and is ignored.
func (c *Canvas) Restore() {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	if len(c.states) <= 1 {
		slogger().Error("programmer error: Restore past the frame root state")
		return
	}
	st.popLayers(dc)
	st.releaseBrush()
	c.states = c.states[:len(c.states)-1]
	c.top().syncSharedBrush()
}

// SetFill sets the current fill. Setting an equal fill keeps realized
// resources.
func (c *Canvas) SetFill(f Fill) {
	st, _ := c.drawState()
	if st == nil {
		return
	}
	st.setFill(f)
}

// SetColor sets a solid fill color.
func (c *Canvas) SetColor(col RGBA) {
	c.SetFill(SolidFill{Color: col})
}

// SetOpacity sets the opacity multiplier applied to fills, in [0, 1].
func (c *Canvas) SetOpacity(opacity float64) {
	st, _ := c.drawState()
	if st == nil {
		return
	}
	st.setOpacity(clamp01(opacity))
}

// SetFont sets the font for subsequent DrawText calls.
func (c *Canvas) SetFont(f Font) {
	st, _ := c.drawState()
	if st == nil {
		return
	}
	st.setFont(f)
}

// SetInterpolationMode sets the filter used by DrawImage.
func (c *Canvas) SetInterpolationMode(m InterpolationMode) {
	st, _ := c.drawState()
	if st == nil {
		return
	}
	st.interp = m
}

// SetOrigin translates the logical origin for subsequent calls.
func (c *Canvas) SetOrigin(p Point) {
	st, _ := c.drawState()
	if st == nil {
		return
	}
	st.setOrigin(p)
}

// AddTransform composes t into the current transform. t applies to points
// first; transforms added earlier stay outermost.
func (c *Canvas) AddTransform(t Matrix) {
	st, _ := c.drawState()
	if st == nil {
		return
	}
	st.addTransform(t)
}

// Transform returns the current transform, or identity outside a frame.
func (c *Canvas) Transform() Matrix {
	if !c.inFrame {
		return Identity()
	}
	return c.top().transform
}

// ClipBounds returns the current clip bounds in logical coordinates, or an
// empty rect outside a frame.
func (c *Canvas) ClipBounds() Rect {
	if !c.inFrame {
		return Rect{}
	}
	return c.top().clipBounds()
}

// ClipRect intersects the clip with a rectangle. Under a scale/translate
// transform this is a cheap axis-aligned clip; under rotation or shear it
// becomes a geometric clip.
func (c *Canvas) ClipRect(r Rect) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	if st.transform.IsScaleTranslate() {
		st.pushAxisAligned(dc, st.transform.TransformRect(r))
		return
	}
	c.clipRects(st, dc, []Rect{r}, FillRuleNonZero)
}

// ClipRectList intersects the clip with the union of rects.
func (c *Canvas) ClipRectList(rects []Rect) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	c.clipRects(st, dc, rects, FillRuleNonZero)
}

// excludeFrame is the oversized rectangle stacked under an excluded rect:
// big enough to cover the buffer under any transform the clamped buffer
// sizes allow.
var excludeFrame = Rect{
	X: -2 * maxBufferDim,
	Y: -2 * maxBufferDim,
	W: 4 * maxBufferDim,
	H: 4 * maxBufferDim,
}

// ExcludeRect removes a rectangle from the clip. Implemented as an
// even-odd geometry over exactly two rectangles, r and a frame covering
// the whole buffer: the doubly covered area, r, cancels out.
func (c *Canvas) ExcludeRect(r Rect) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	c.clipRects(st, dc, []Rect{r, excludeFrame}, FillRuleEvenOdd)
}

// clipRects pushes a geometric clip over a rectangle list. The rectangles
// stay in logical space; the layer's mask transform positions them.
func (c *Canvas) clipRects(st *graphicsState, dc DeviceContext, rects []Rect, rule FillRule) {
	if c.builder == nil {
		slogger().Debug("easel: no geometry builder, clip skipped")
		return
	}
	g, err := c.builder.FromRects(rects, rule)
	if err != nil {
		slogger().Debug("easel: clip geometry unavailable", "error", err)
		return
	}
	var bounds Rect
	for _, r := range rects {
		bounds = bounds.Union(st.transform.TransformRect(r))
	}
	st.pushGeometric(dc, g, st.transform, bounds.ToPixels(1))
}

// ClipPath intersects the clip with a path.
func (c *Canvas) ClipPath(p *Path, rule FillRule) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	if c.builder == nil {
		slogger().Debug("easel: no geometry builder, clip skipped")
		return
	}
	g, err := c.builder.FromPath(p, rule)
	if err != nil {
		slogger().Debug("easel: clip geometry unavailable", "error", err)
		return
	}
	bounds := st.transform.TransformRect(p.Bounds())
	st.pushGeometric(dc, g, st.transform, bounds.ToPixels(1))
}

// ClipImageAlpha clips subsequent drawing to the alpha channel of an
// image, positioned by m.
func (c *Canvas) ClipImageAlpha(img image.Image, m Matrix) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	b, err := dc.CreateImageBrush(ImageFill{Image: img, Transform: m})
	if err != nil {
		slogger().Debug("easel: alpha mask brush unavailable", "error", err)
		return
	}
	st.pushTransparency(dc, 1, b)
}

// BeginTransparencyLayer groups subsequent drawing into a layer composited
// with the given opacity when EndTransparencyLayer runs.
func (c *Canvas) BeginTransparencyLayer(opacity float64) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	st.pushTransparency(dc, clamp01(opacity), nil)
}

// EndTransparencyLayer composites the most recent transparency layer. The
// layer must be the newest layer of the current state.
func (c *Canvas) EndTransparencyLayer() {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	n := len(st.layers)
	if n == 0 || st.layers[n-1].kind != layerTransparency {
		slogger().Error("programmer error: EndTransparencyLayer without matching begin")
		return
	}
	st.layers[n-1].pop(dc)
	st.layers = st.layers[:n-1]
}

// FillRect fills a rectangle with the current fill.
func (c *Canvas) FillRect(r Rect) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	b := st.realizeBrush(dc, c.surface.solid)
	if b == nil {
		return
	}
	dc.SetTransform(st.transform)
	dc.FillRect(r, b)
	dc.SetTransform(Identity())
}

// DrawRect strokes a rectangle outline.
func (c *Canvas) DrawRect(r Rect, strokeWidth float64) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	b := st.realizeBrush(dc, c.surface.solid)
	if b == nil {
		return
	}
	dc.SetTransform(st.transform)
	dc.DrawRect(r, b, strokeWidth)
	dc.SetTransform(Identity())
}

// DrawLine draws a line between two points.
func (c *Canvas) DrawLine(a, b Point, strokeWidth float64) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	br := st.realizeBrush(dc, c.surface.solid)
	if br == nil {
		return
	}
	dc.SetTransform(st.transform)
	dc.DrawLine(a, b, br, strokeWidth)
	dc.SetTransform(Identity())
}

// FillEllipse fills the ellipse with the given center and radii.
func (c *Canvas) FillEllipse(center Point, rx, ry float64) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	b := st.realizeBrush(dc, c.surface.solid)
	if b == nil {
		return
	}
	dc.SetTransform(st.transform)
	dc.FillEllipse(center, rx, ry, b)
	dc.SetTransform(Identity())
}

// DrawEllipse strokes an ellipse outline.
func (c *Canvas) DrawEllipse(center Point, rx, ry float64, strokeWidth float64) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	b := st.realizeBrush(dc, c.surface.solid)
	if b == nil {
		return
	}
	dc.SetTransform(st.transform)
	dc.DrawEllipse(center, rx, ry, b, strokeWidth)
	dc.SetTransform(Identity())
}

// FillRoundedRect fills a rounded rectangle with the given corner radius.
func (c *Canvas) FillRoundedRect(r Rect, corner float64) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	b := st.realizeBrush(dc, c.surface.solid)
	if b == nil {
		return
	}
	dc.SetTransform(st.transform)
	dc.FillRoundedRect(r, corner, b)
	dc.SetTransform(Identity())
}

// DrawRoundedRect strokes a rounded rectangle outline.
func (c *Canvas) DrawRoundedRect(r Rect, corner float64, strokeWidth float64) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	b := st.realizeBrush(dc, c.surface.solid)
	if b == nil {
		return
	}
	dc.SetTransform(st.transform)
	dc.DrawRoundedRect(r, corner, b, strokeWidth)
	dc.SetTransform(Identity())
}

// FillPath fills a path with the given fill rule.
func (c *Canvas) FillPath(p *Path, rule FillRule) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	if c.builder == nil {
		slogger().Debug("easel: no geometry builder, path skipped")
		return
	}
	b := st.realizeBrush(dc, c.surface.solid)
	if b == nil {
		return
	}
	g, err := c.builder.FromPath(p, rule)
	if err != nil {
		slogger().Debug("easel: path geometry unavailable", "error", err)
		return
	}
	dc.SetTransform(st.transform)
	dc.FillGeometry(g, b)
	dc.SetTransform(Identity())
	g.Release()
}

// StrokePath strokes a path outline.
func (c *Canvas) StrokePath(p *Path, strokeWidth float64) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	if c.builder == nil {
		slogger().Debug("easel: no geometry builder, path skipped")
		return
	}
	b := st.realizeBrush(dc, c.surface.solid)
	if b == nil {
		return
	}
	g, err := c.builder.FromPath(p, FillRuleNonZero)
	if err != nil {
		slogger().Debug("easel: path geometry unavailable", "error", err)
		return
	}
	dc.SetTransform(st.transform)
	dc.DrawGeometry(g, b, strokeWidth)
	dc.SetTransform(Identity())
	g.Release()
}

// DrawImage draws an image into dst, filtered by the current interpolation
// mode and faded by the current opacity.
func (c *Canvas) DrawImage(img image.Image, dst Rect) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	if img == nil {
		return
	}
	dc.SetTransform(st.transform)
	dc.DrawImage(img, dst, st.opacity, st.interp)
	dc.SetTransform(Identity())
}

// DrawText shapes and draws a single line of text with its baseline origin
// at (x, y). Requires a TypesetService; without one the call is a logged
// no-op.
func (c *Canvas) DrawText(text string, x, y float64) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	if text == "" {
		return
	}
	face := c.resolveFace(st)
	if face == nil {
		return
	}
	run, err := c.typeset.Typeset(text, st.font.normalized(), face)
	if err != nil {
		slogger().Debug("easel: text shaping failed", "error", err)
		return
	}
	c.drawRun(st, dc, run, face, Translate(x, y))
}

// DrawGlyphRun draws an already shaped glyph run using the current font's
// face.
func (c *Canvas) DrawGlyphRun(run GlyphRun) {
	st, dc := c.drawState()
	if st == nil {
		return
	}
	if len(run.Glyphs) == 0 {
		return
	}
	face := c.resolveFace(st)
	if face == nil {
		return
	}
	c.drawRun(st, dc, run, face, Identity())
}

// resolveFace returns the state's cached face, resolving it on first use.
// Returns nil (after a debug log) when no service is configured or
// resolution fails.
func (c *Canvas) resolveFace(st *graphicsState) FontFace {
	if st.face != nil {
		return st.face
	}
	if c.typeset == nil {
		slogger().Debug("easel: no typeset service, text skipped")
		return nil
	}
	face, err := c.typeset.ResolveFace(st.font.normalized())
	if err != nil {
		slogger().Debug("easel: font face unavailable", "family", st.font.Family, "error", err)
		return nil
	}
	st.face = face
	return face
}

// drawRun issues a glyph run under the drawing template. The font's
// horizontal scale premultiplies the transform so glyph positions and
// shapes stretch together; gradient and image brushes get the transform's
// scale inverted for the duration of the call so they stay anchored in
// logical space.
func (c *Canvas) drawRun(st *graphicsState, dc DeviceContext, run GlyphRun, face FontFace, origin Matrix) {
	b := st.realizeBrush(dc, c.surface.solid)
	if b == nil {
		return
	}
	t := st.transform.Multiply(origin)
	if hs := st.font.normalized().HorizontalScale; hs != 1 {
		t = t.Multiply(Scale(hs, 1))
	}
	if !st.sharedBrush {
		sx, sy := st.transform.ScaleFactors()
		if sx != 0 && sy != 0 {
			b.SetTransform(Scale(1/sx, 1/sy))
			defer b.SetTransform(Identity())
		}
	}
	dc.SetTransform(t)
	dc.DrawGlyphRun(run, face, b)
	dc.SetTransform(Identity())
}
