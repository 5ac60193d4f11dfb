// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/easel"
	"github.com/gogpu/wgpu/hal"
)

// paintSource is implemented by every brush this backend creates. paint
// fills the kind-specific uniform fields for a draw under the context
// transform ctm and returns the texture view and sampler to bind.
type paintSource interface {
	easel.Brush
	paint(p *paintParams, ctm easel.Matrix, pipe *pipeline) (hal.TextureView, hal.Sampler)
}

// alphaSource lets a brush serve as a per-pixel opacity mask. q is in brush
// space, before the brush transform.
type alphaSource interface {
	alphaAt(q easel.Point) float64
	brushTransform() easel.Matrix
	brushOpacity() float64
}

// brushBase carries the mutable state shared by all brushes.
type brushBase struct {
	opacity   float64
	transform easel.Matrix
}

func newBrushBase() brushBase {
	return brushBase{opacity: 1, transform: easel.Identity()}
}

func (b *brushBase) SetOpacity(opacity float64) { b.opacity = opacity }
func (b *brushBase) SetTransform(m easel.Matrix) { b.transform = m }

func (b *brushBase) brushTransform() easel.Matrix { return b.transform }
func (b *brushBase) brushOpacity() float64        { return clampOpacity(b.opacity) }

func clampOpacity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// paintSpace combines the context and brush transforms into the
// device-to-paint-space matrix.
func paintSpace(ctm, brush easel.Matrix) easel.Matrix {
	return ctm.Multiply(brush).Invert()
}

// solidBrush is the mutable solid brush shared across fills.
type solidBrush struct {
	brushBase
	color easel.RGBA
}

var (
	_ easel.SolidBrush = (*solidBrush)(nil)
	_ paintSource      = (*solidBrush)(nil)
	_ alphaSource      = (*solidBrush)(nil)
)

func (b *solidBrush) SetColor(c easel.RGBA) { b.color = c }
func (b *solidBrush) Release()              {}

func (b *solidBrush) paint(p *paintParams, _ easel.Matrix, pipe *pipeline) (hal.TextureView, hal.Sampler) {
	p.kind = paintSolid
	p.color = b.color.MultiplyAlpha(b.brushOpacity()).Premultiply()
	return pipe.whiteView, pipe.linearSampler
}

func (b *solidBrush) alphaAt(easel.Point) float64 { return b.color.A }

// gradientBrush holds a baked ramp texture for a linear or radial gradient.
type gradientBrush struct {
	brushBase
	dev *Device

	radial bool
	start  easel.Point // linear start, or radial center
	end    easel.Point // linear end
	radius float64
	stops  []easel.ColorStop
	extend easel.ExtendMode

	tex  hal.Texture
	view hal.TextureView
}

var (
	_ easel.Brush = (*gradientBrush)(nil)
	_ paintSource = (*gradientBrush)(nil)
	_ alphaSource = (*gradientBrush)(nil)
)

func (b *gradientBrush) Release() {
	if b.view != nil {
		b.dev.device.DestroyTextureView(b.view)
		b.view = nil
	}
	if b.tex != nil {
		b.dev.device.DestroyTexture(b.tex)
		b.tex = nil
	}
}

// degenerate reports whether the gradient collapses to its last stop color.
func (b *gradientBrush) degenerate() bool {
	if b.radial {
		return b.radius <= 0
	}
	return b.start == b.end
}

func (b *gradientBrush) paint(p *paintParams, ctm easel.Matrix, pipe *pipeline) (hal.TextureView, hal.Sampler) {
	op := b.brushOpacity()
	if b.degenerate() || len(b.stops) == 0 {
		p.kind = paintSolid
		p.color = easel.ColorAtOffset(b.stops, b.extend, 1).MultiplyAlpha(op).Premultiply()
		return pipe.whiteView, pipe.linearSampler
	}

	if b.radial {
		p.kind = paintRadial
		p.g0, p.g1, p.g2 = b.start.X, b.start.Y, b.radius
	} else {
		p.kind = paintLinear
		p.g0, p.g1 = b.start.X, b.start.Y
		p.g2, p.g3 = b.end.X, b.end.Y
	}
	p.xform = paintSpace(ctm, b.transform)
	p.extend = b.extend
	p.color = easel.RGBA{R: op, G: op, B: op, A: op}
	return b.view, pipe.linearSampler
}

func (b *gradientBrush) alphaAt(q easel.Point) float64 {
	var t float64
	if b.radial {
		if b.radius <= 0 {
			t = 1
		} else {
			t = q.Distance(b.start) / b.radius
		}
	} else {
		d := b.end.Sub(b.start)
		dd := d.Dot(d)
		if dd <= 0 {
			t = 1
		} else {
			t = q.Sub(b.start).Dot(d) / dd
		}
	}
	return easel.ColorAtOffset(b.stops, b.extend, t).A
}

// imageBrush paints with an uploaded image, tiled per its extend mode. The
// converted pixels are kept CPU-side so the brush can also serve as an
// opacity mask.
//
// The fill transform from ImageFill is kept apart from the brushBase slot;
// the canvas owns the latter and resets it around text drawing.
type imageBrush struct {
	brushBase
	dev *Device

	fill   easel.Matrix // image pixel space to brush space
	pix    []byte       // premultiplied RGBA, stride w*4
	w, h   int
	extend easel.ExtendMode
	interp easel.InterpolationMode

	tex  hal.Texture
	view hal.TextureView
}

var (
	_ easel.Brush = (*imageBrush)(nil)
	_ paintSource = (*imageBrush)(nil)
	_ alphaSource = (*imageBrush)(nil)
)

func (b *imageBrush) Release() {
	if b.view != nil {
		b.dev.device.DestroyTextureView(b.view)
		b.view = nil
	}
	if b.tex != nil {
		b.dev.device.DestroyTexture(b.tex)
		b.tex = nil
	}
}

// brushTransform folds the fill transform into the canvas-managed slot.
func (b *imageBrush) brushTransform() easel.Matrix {
	return b.transform.Multiply(b.fill)
}

func (b *imageBrush) paint(p *paintParams, ctm easel.Matrix, pipe *pipeline) (hal.TextureView, hal.Sampler) {
	p.kind = paintImage
	p.xform = paintSpace(ctm, b.brushTransform())
	p.extend = b.extend
	p.g0, p.g1 = float64(b.w), float64(b.h)
	op := b.brushOpacity()
	p.color = easel.RGBA{R: op, G: op, B: op, A: op}
	return b.view, pipe.sampler(b.interp)
}

// alphaAt samples the image alpha bilinearly at image-space q.
func (b *imageBrush) alphaAt(q easel.Point) float64 {
	if b.w == 0 || b.h == 0 {
		return 0
	}
	fetch := func(x, y int) float64 {
		x = wrapCoord(x, b.w, b.extend)
		y = wrapCoord(y, b.h, b.extend)
		return float64(b.pix[(y*b.w+x)*4+3]) / 255
	}
	fx, fy := q.X-0.5, q.Y-0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-math.Floor(fx), fy-math.Floor(fy)
	a00 := fetch(x0, y0)
	a10 := fetch(x0+1, y0)
	a01 := fetch(x0, y0+1)
	a11 := fetch(x0+1, y0+1)
	top := a00 + (a10-a00)*tx
	bot := a01 + (a11-a01)*tx
	return top + (bot-top)*ty
}

// wrapCoord maps a texel coordinate into range per the extend mode.
func wrapCoord(x, n int, mode easel.ExtendMode) int {
	switch mode {
	case easel.ExtendRepeat:
		x %= n
		if x < 0 {
			x += n
		}
	case easel.ExtendReflect:
		period := 2 * n
		x %= period
		if x < 0 {
			x += period
		}
		if x >= n {
			x = period - 1 - x
		}
	default:
		if x < 0 {
			x = 0
		}
		if x >= n {
			x = n - 1
		}
	}
	return x
}

// imageToPremulRGBA converts an image to tightly packed premultiplied RGBA.
func imageToPremulRGBA(img image.Image) ([]byte, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst.Pix, w, h
}

// newRampBrush bakes the gradient stops into a ramp texture.
func (d *Device) newRampBrush(stops []easel.ColorStop, extend easel.ExtendMode, label string) (hal.Texture, hal.TextureView, error) {
	return createPaintTexture(d.device, d.queue, rampWidth, 1, bakeRamp(stops, rampWidth), label)
}

// newImageTexture uploads an image as a paint texture.
func (d *Device) newImageTexture(pix []byte, w, h int, label string) (hal.Texture, hal.TextureView, error) {
	if w <= 0 || h <= 0 {
		return nil, nil, fmt.Errorf("wgpu: empty image for %s", label)
	}
	return createPaintTexture(d.device, d.queue, w, h, pix, label)
}

// maskFromAlpha expands an alpha mask into RGBA texels for upload. Only the
// alpha channel is sampled; the color channels stay zero.
func maskFromAlpha(mask *image.Alpha) []byte {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, a := range row {
			out[(y*w+x)*4+3] = a
		}
	}
	return out
}

// rasterizeBrushAlpha renders a brush's alpha into a mask covering bounds.
// toBrush maps device space to brush space.
func rasterizeBrushAlpha(src alphaSource, toBrush easel.Matrix, bounds image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(bounds)
	op := src.brushOpacity()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			q := toBrush.TransformPoint(easel.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			a := src.alphaAt(q) * op
			mask.Pix[(y-bounds.Min.Y)*mask.Stride+(x-bounds.Min.X)] = clampByte(a)
		}
	}
	return mask
}

// mulMask multiplies coverage b into a in place. Both must share bounds.
func mulMask(a, b *image.Alpha) {
	for i := range a.Pix {
		a.Pix[i] = uint8((uint32(a.Pix[i])*uint32(b.Pix[i]) + 127) / 255)
	}
}
