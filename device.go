package easel

import "image"

// Device creates the rendering resources a Canvas draws with. It is the
// injection point for backends: pass an implementation via WithDevice, or
// obtain one from the backend registry.
//
// A Device outlives surface teardown. After device loss the Canvas releases
// its context and swap chain but keeps the Device, and recreates both from
// it lazily on the next frame.
type Device interface {
	// NewContext creates a device context for drawing.
	NewContext() (DeviceContext, error)

	// NewSwapChain creates a swap chain with the given pixel size.
	NewSwapChain(size image.Point) (SwapChain, error)

	// Close releases all device resources. The device must not be used
	// after Close.
	Close()
}

// GeometrySource is implemented by devices that supply their own geometry
// builder. Canvas uses it when no builder was configured explicitly.
type GeometrySource interface {
	NewGeometryBuilder() GeometryBuilder
}

// SwapChain owns the presentable buffers of a surface.
//
// Present is the only method called from the presenter goroutine; all
// others are called from the owning goroutine, and never while a present
// is in flight.
type SwapChain interface {
	// Resize resizes the buffers to the given pixel size. The target
	// buffer must be released before calling Resize and reacquired after.
	Resize(size image.Point) error

	// Buffer returns the buffer drawing targets.
	Buffer() (TargetBuffer, error)

	// Present makes the drawn content visible. dirty lists the changed
	// regions in buffer pixels; nil presents the entire buffer.
	// Returns ErrSurfaceOccluded when the target is not visible, in which
	// case the frame is dropped without teardown.
	Present(dirty []image.Rectangle) error

	// Release frees the swap chain.
	Release()
}

// TargetBuffer is a drawable swap-chain buffer.
type TargetBuffer interface {
	// Size returns the buffer size in pixels.
	Size() image.Point

	// Release frees the buffer binding.
	Release()
}

// DeviceContext issues draw calls against a target buffer. All methods are
// called from the owning goroutine, between Begin and End for drawing.
//
// The context transform is identity except inside a draw call: the Canvas
// sets the current state's transform, issues the native call, and resets
// the transform. Clip pushes therefore receive coordinates that are already
// in device space for the axis-aligned case, and a mask transform for the
// geometric case.
type DeviceContext interface {
	// SetTarget binds the buffer drawing renders into. nil unbinds.
	SetTarget(TargetBuffer)

	// SetDPI sets the context DPI (96 x scale factor).
	SetDPI(dpi float64)

	// Begin starts a drawing pass on the current target.
	Begin()

	// End finishes the drawing pass, flushing all drawing. A non-nil
	// error means the pass was lost; ErrDeviceLost tears the surface down.
	End() error

	// Clear fills the entire target with a color, ignoring transform
	// and brush state but honoring pushed clips.
	Clear(c RGBA)

	// SetTransform sets the transform applied to subsequent draw calls.
	SetTransform(m Matrix)

	// PushAxisAlignedClip intersects the clip with a device-space
	// rectangle. Paired with PopAxisAlignedClip.
	PushAxisAlignedClip(r Rect)

	// PopAxisAlignedClip removes the most recent axis-aligned clip.
	PopAxisAlignedClip()

	// PushLayer opens a composited layer (geometric clip, transparency,
	// alpha mask). Paired with PopLayer.
	PushLayer(p LayerParams)

	// PopLayer closes the most recent layer.
	PopLayer()

	FillRect(r Rect, b Brush)
	DrawRect(r Rect, b Brush, strokeWidth float64)
	FillEllipse(center Point, rx, ry float64, b Brush)
	DrawEllipse(center Point, rx, ry float64, b Brush, strokeWidth float64)
	FillRoundedRect(r Rect, corner float64, b Brush)
	DrawRoundedRect(r Rect, corner float64, b Brush, strokeWidth float64)
	DrawLine(a, b Point, br Brush, strokeWidth float64)
	FillGeometry(g Geometry, b Brush)
	DrawGeometry(g Geometry, b Brush, strokeWidth float64)
	DrawImage(img image.Image, dst Rect, opacity float64, mode InterpolationMode)
	DrawGlyphRun(run GlyphRun, face FontFace, b Brush)

	// CreateSolidBrush creates a brush with a mutable color. The surface
	// keeps one shared instance for all solid fills.
	CreateSolidBrush(c RGBA) (SolidBrush, error)

	CreateLinearGradientBrush(f LinearGradientFill) (Brush, error)
	CreateRadialGradientBrush(f RadialGradientFill) (Brush, error)
	CreateImageBrush(f ImageFill) (Brush, error)

	// Release frees the context.
	Release()
}

// Brush is a realized paint source bound to a device context.
type Brush interface {
	// SetOpacity scales the brush alpha.
	SetOpacity(opacity float64)

	// SetTransform sets the brush-space transform. Text drawing uses it
	// to undo the context scale so gradients stay anchored in logical
	// space.
	SetTransform(m Matrix)

	// Release frees the brush.
	Release()
}

// SolidBrush is a brush with a mutable solid color. The shared surface
// brush implements it; per-state gradient and image brushes do not.
type SolidBrush interface {
	Brush

	// SetColor replaces the brush color.
	SetColor(c RGBA)
}

// Geometry is a realized path or rectangle list, usable for filling and
// for geometric clip masks.
type Geometry interface {
	// Release frees the geometry.
	Release()
}

// GeometryBuilder realizes paths and rectangle lists into device geometry.
type GeometryBuilder interface {
	// FromPath realizes a path with the given fill rule.
	FromPath(p *Path, rule FillRule) (Geometry, error)

	// FromRects realizes a rectangle list with the given fill rule. The
	// rectangles are taken as-is, in order, without merging; with
	// FillRuleEvenOdd overlapping regions cancel, which is how rectangle
	// exclusion is built.
	FromRects(rects []Rect, rule FillRule) (Geometry, error)
}

// LayerParams configures a composited layer pushed with PushLayer.
type LayerParams struct {
	// Bounds limits the layer contents in logical space. Empty means
	// unbounded.
	Bounds Rect

	// Mask clips layer contents to a geometry. nil means no mask.
	Mask Geometry

	// MaskTransform positions the mask.
	MaskTransform Matrix

	// Opacity multiplies the layer contents when composited. 1 is opaque.
	Opacity float64

	// OpacityBrush modulates layer alpha per pixel, typically an image
	// brush for clip-to-alpha. nil means uniform opacity.
	OpacityBrush Brush
}

// FontMetrics are the vertical metrics of a face at a given height.
type FontMetrics struct {
	// Ascent is the distance from the baseline to the top, positive up.
	Ascent float64

	// Descent is the distance from the baseline to the bottom, positive
	// down.
	Descent float64

	// LineGap is the extra spacing between lines.
	LineGap float64
}

// FontFace is a loaded, shapeable font resolved from a Font descriptor.
type FontFace interface {
	// Metrics returns the face metrics scaled to the given font height.
	Metrics(height float64) FontMetrics
}

// GlyphOutliner is implemented by font faces that can provide glyph
// outlines, letting GPU backends render text as filled geometry.
type GlyphOutliner interface {
	// GlyphOutline returns the outline of a glyph scaled to the given
	// font height, with the origin on the baseline. ok is false when the
	// glyph has no outline.
	GlyphOutline(glyph uint32, height float64) (p *Path, ok bool)
}

// Glyph is a positioned glyph in a run.
type Glyph struct {
	// ID is the glyph index in its face.
	ID uint32

	// Pos is the baseline position in logical units, before the font's
	// horizontal scale is applied.
	Pos Point
}

// GlyphRun is a shaped sequence of positioned glyphs.
type GlyphRun struct {
	Glyphs []Glyph

	// Size is the font height the positions were laid out at.
	Size float64
}

// TypesetService turns text into glyph runs and font descriptors into
// faces. Implemented by the typeset package; injected with
// WithTypesetService.
type TypesetService interface {
	// ResolveFace resolves a font descriptor to a loaded face.
	ResolveFace(f Font) (FontFace, error)

	// Typeset shapes a single line of text with the given font, using a
	// face previously resolved for it.
	Typeset(text string, f Font, face FontFace) (GlyphRun, error)
}

// WindowHost connects a Canvas to the windowing system's invalidation
// bookkeeping. Optional; configured with WithWindowHost.
type WindowHost interface {
	// TakeInvalidRegion returns the regions the window system wants
	// repainted, in buffer pixels, clearing them from the host.
	TakeInvalidRegion() []image.Rectangle

	// ValidateRegion tells the host which regions a started frame will
	// cover.
	ValidateRegion(rects []image.Rectangle)
}
