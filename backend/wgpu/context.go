// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/internal/flatten"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// renderTarget is what draws encode into: the bound swap chain buffer or a
// pushed layer.
type renderTarget struct {
	tex  hal.Texture
	view hal.TextureView
	size image.Point
}

// layerNode is one entry of the layer stack.
type layerNode struct {
	target   renderTarget
	maskView hal.TextureView // nil when the layer has no coverage mask
	opacity  float64
	clipSave int
}

// deviceContext implements easel.DeviceContext. One command encoder spans
// Begin to End; every draw records its own render pass that loads the
// previous contents. Transient GPU resources live until End has waited for
// the frame's fence.
type deviceContext struct {
	dev  *Device
	pipe *pipeline

	target *targetBuffer
	dpi    float64

	transform easel.Matrix
	clips     []easel.Rect
	layers    []layerNode

	encoder  hal.CommandEncoder
	encoding bool
	err      error

	transientBufs  []hal.Buffer
	transientBGs   []hal.BindGroup
	transientTexs  []hal.Texture
	transientViews []hal.TextureView
}

var _ easel.DeviceContext = (*deviceContext)(nil)

func newContext(d *Device) *deviceContext {
	return &deviceContext{
		dev:       d,
		pipe:      d.pipe,
		dpi:       96,
		transform: easel.Identity(),
	}
}

func (dc *deviceContext) SetTarget(t easel.TargetBuffer) {
	if t == nil {
		dc.target = nil
		return
	}
	tb, ok := t.(*targetBuffer)
	if !ok {
		easel.Logger().Error("programmer error: foreign target buffer bound to wgpu context")
		return
	}
	dc.target = tb
}

func (dc *deviceContext) SetDPI(dpi float64) {
	if dpi > 0 {
		dc.dpi = dpi
	}
}

func (dc *deviceContext) SetTransform(m easel.Matrix) { dc.transform = m }

// currentTarget returns the innermost layer target, or the bound buffer.
func (dc *deviceContext) currentTarget() renderTarget {
	if n := len(dc.layers); n > 0 {
		return dc.layers[n-1].target
	}
	return dc.target.render()
}

// clipRect returns the active device-space clip, defaulting to the full
// target.
func (dc *deviceContext) clipRect(t renderTarget) easel.Rect {
	if n := len(dc.clips); n > 0 {
		return dc.clips[n-1]
	}
	return easel.Rect{W: float64(t.size.X), H: float64(t.size.Y)}
}

func (dc *deviceContext) canDraw() bool {
	return dc.encoding && dc.err == nil && dc.target != nil
}

// fail records the first frame-level failure. Subsequent draws become
// no-ops and End reports the error.
func (dc *deviceContext) fail(err error) {
	if dc.err == nil {
		dc.err = err
		easel.Logger().Warn("wgpu: frame failed", "error", err)
	}
}

func (dc *deviceContext) Begin() {
	if dc.encoding {
		easel.Logger().Error("programmer error: Begin inside an open frame")
		return
	}
	if dc.target == nil {
		dc.fail(fmt.Errorf("wgpu: no target bound"))
		return
	}
	dc.err = nil

	enc, err := dc.dev.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "easel_frame"})
	if err != nil {
		dc.fail(fmt.Errorf("%w: create encoder: %v", easel.ErrDeviceLost, err))
		return
	}
	if err := enc.BeginEncoding("easel_frame"); err != nil {
		dc.fail(fmt.Errorf("%w: begin encoding: %v", easel.ErrDeviceLost, err))
		return
	}
	dc.encoder = enc
	dc.encoding = true
}

func (dc *deviceContext) End() error {
	if !dc.encoding {
		err := dc.err
		dc.err = nil
		return err
	}
	dc.encoding = false

	if dc.err != nil {
		dc.encoder.DiscardEncoding()
		dc.encoder = nil
		dc.releaseTransients()
		err := dc.err
		dc.err = nil
		return err
	}

	cmdBuf, err := dc.encoder.EndEncoding()
	dc.encoder = nil
	if err != nil {
		dc.releaseTransients()
		return fmt.Errorf("%w: end encoding: %v", easel.ErrDeviceLost, err)
	}
	defer dc.dev.device.FreeCommandBuffer(cmdBuf)

	if err := dc.dev.submit(cmdBuf); err != nil {
		dc.releaseTransients()
		return fmt.Errorf("%w: %v", easel.ErrDeviceLost, err)
	}
	dc.releaseTransients()
	return nil
}

// releaseTransients destroys the frame's per-draw resources. Callers wait
// for the frame's fence first, so nothing is still referenced.
func (dc *deviceContext) releaseTransients() {
	for i := len(dc.transientBGs) - 1; i >= 0; i-- {
		dc.dev.device.DestroyBindGroup(dc.transientBGs[i])
	}
	for i := len(dc.transientBufs) - 1; i >= 0; i-- {
		dc.dev.device.DestroyBuffer(dc.transientBufs[i])
	}
	for i := len(dc.transientViews) - 1; i >= 0; i-- {
		dc.dev.device.DestroyTextureView(dc.transientViews[i])
	}
	for i := len(dc.transientTexs) - 1; i >= 0; i-- {
		dc.dev.device.DestroyTexture(dc.transientTexs[i])
	}
	dc.transientBGs = dc.transientBGs[:0]
	dc.transientBufs = dc.transientBufs[:0]
	dc.transientViews = dc.transientViews[:0]
	dc.transientTexs = dc.transientTexs[:0]
	dc.layers = dc.layers[:0]
	dc.clips = dc.clips[:0]
}

func (dc *deviceContext) Clear(c easel.RGBA) {
	if !dc.canDraw() {
		return
	}
	t := dc.currentTarget()
	col := c.Premultiply()

	if len(dc.clips) == 0 {
		rp := dc.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "easel_clear",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       t.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: col.R, G: col.G, B: col.B, A: col.A},
			}},
		})
		rp.End()
		return
	}

	// Clips are active: draw a clipped quad instead of clearing the
	// attachment. The quad replaces rather than blends, so opaque colors
	// behave the same; translucent clears blend over previous content.
	params := dc.baseParams(t)
	params.kind = paintSolid
	params.color = col
	quad := quadTriangles(flatten.RectPolygon(dc.clipRect(t), easel.Identity()))
	if err := dc.encodeDraw(t, quad, params, dc.pipe.whiteView, dc.pipe.linearSampler, dc.pipe.whiteView); err != nil {
		dc.fail(err)
	}
}

func (dc *deviceContext) PushAxisAlignedClip(r easel.Rect) {
	if dc.target == nil {
		easel.Logger().Error("programmer error: clip push with no target bound")
		return
	}
	t := dc.currentTarget()
	dc.clips = append(dc.clips, dc.clipRect(t).Intersect(r))
}

func (dc *deviceContext) PopAxisAlignedClip() {
	if len(dc.clips) == 0 {
		easel.Logger().Error("programmer error: PopAxisAlignedClip with no clip pushed")
		return
	}
	dc.clips = dc.clips[:len(dc.clips)-1]
}

func (dc *deviceContext) PushLayer(p easel.LayerParams) {
	if !dc.canDraw() {
		return
	}
	t := dc.currentTarget()

	tex, view, err := dc.newLayerTexture(t.size)
	if err != nil {
		dc.fail(err)
		return
	}

	// Start the layer transparent.
	rp := dc.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "easel_layer_clear",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{},
		}},
	})
	rp.End()

	maskView, err := dc.buildLayerMask(p, t.size)
	if err != nil {
		dc.fail(err)
		return
	}

	node := layerNode{
		target:   renderTarget{tex: tex, view: view, size: t.size},
		maskView: maskView,
		opacity:  p.Opacity,
		clipSave: len(dc.clips),
	}

	if !p.Bounds.Empty() {
		bounds := p.MaskTransform.TransformRect(p.Bounds)
		dc.clips = append(dc.clips, dc.clipRect(t).Intersect(bounds))
	}

	dc.layers = append(dc.layers, node)
}

// buildLayerMask rasterizes the layer's geometric mask and opacity brush
// into a coverage texture. Returns nil when the layer is a plain
// transparency layer.
func (dc *deviceContext) buildLayerMask(p easel.LayerParams, size image.Point) (hal.TextureView, error) {
	bounds := image.Rect(0, 0, size.X, size.Y)

	var cov *image.Alpha
	if p.Mask != nil {
		g, ok := p.Mask.(*geometry)
		if !ok {
			easel.Logger().Error("programmer error: foreign geometry used as layer mask")
			return nil, nil
		}
		polys := flatten.Transform(g.polys, p.MaskTransform)
		cov = flatten.Coverage(polys, g.rule, bounds)
	}

	if p.OpacityBrush != nil {
		src, ok := p.OpacityBrush.(alphaSource)
		if !ok {
			easel.Logger().Debug("wgpu: opacity brush does not expose alpha, ignoring")
		} else {
			toBrush := p.MaskTransform.Multiply(src.brushTransform()).Invert()
			bm := rasterizeBrushAlpha(src, toBrush, bounds)
			if cov == nil {
				cov = bm
			} else {
				mulMask(cov, bm)
			}
		}
	}

	if cov == nil {
		return nil, nil
	}

	tex, view, err := createPaintTexture(dc.dev.device, dc.dev.queue,
		size.X, size.Y, maskFromAlpha(cov), "easel_layer_mask")
	if err != nil {
		return nil, fmt.Errorf("wgpu: layer mask: %w", err)
	}
	dc.transientTexs = append(dc.transientTexs, tex)
	dc.transientViews = append(dc.transientViews, view)
	return view, nil
}

func (dc *deviceContext) PopLayer() {
	if len(dc.layers) == 0 {
		easel.Logger().Error("programmer error: PopLayer with no layer pushed")
		return
	}
	node := dc.layers[len(dc.layers)-1]
	dc.layers = dc.layers[:len(dc.layers)-1]
	dc.clips = dc.clips[:node.clipSave]

	if !dc.canDraw() {
		return
	}

	// The layer was a render attachment; composite samples it.
	dc.encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: node.target.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageTextureBinding,
		},
	}})

	t := dc.currentTarget()
	params := dc.baseParams(t)
	params.kind = paintImage
	params.xform = easel.Identity()
	params.extend = easel.ExtendPad
	params.g0 = float64(node.target.size.X)
	params.g1 = float64(node.target.size.Y)
	op := clampOpacity(node.opacity)
	params.color = easel.RGBA{R: op, G: op, B: op, A: op}

	maskView := node.maskView
	if maskView == nil {
		maskView = dc.pipe.whiteView
	}

	full := easel.Rect{W: float64(t.size.X), H: float64(t.size.Y)}
	quad := quadTriangles(flatten.RectPolygon(full, easel.Identity()))
	if err := dc.encodeDraw(t, quad, params, node.target.view, dc.pipe.linearSampler, maskView); err != nil {
		dc.fail(err)
	}
}

func (dc *deviceContext) Release() {
	if dc.encoding {
		dc.encoder.DiscardEncoding()
		dc.encoder = nil
		dc.encoding = false
	}
	dc.releaseTransients()
	dc.target = nil
}

// baseParams seeds the uniform block with the target size and active clip.
func (dc *deviceContext) baseParams(t renderTarget) paintParams {
	return paintParams{
		screenW: float64(t.size.X),
		screenH: float64(t.size.Y),
		clip:    dc.clipRect(t),
		xform:   easel.Identity(),
	}
}

// newLayerTexture creates a BGRA layer render target, tracked for release
// at frame end.
func (dc *deviceContext) newLayerTexture(size image.Point) (hal.Texture, hal.TextureView, error) {
	tex, err := dc.dev.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "easel_layer",
		Size:          hal.Extent3D{Width: uint32(size.X), Height: uint32(size.Y), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wgpu: create layer texture: %w", err)
	}
	view, err := dc.dev.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "easel_layer_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		dc.dev.device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("wgpu: create layer view: %w", err)
	}
	dc.transientTexs = append(dc.transientTexs, tex)
	dc.transientViews = append(dc.transientViews, view)
	return tex, view, nil
}

// createBuffer creates and uploads a transient buffer.
func (dc *deviceContext) createBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := dc.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	dc.dev.queue.WriteBuffer(buf, 0, data)
	dc.transientBufs = append(dc.transientBufs, buf)
	return buf, nil
}

// encodeDraw uploads the triangles and uniforms and records one render pass
// on the target.
func (dc *deviceContext) encodeDraw(t renderTarget, tris []easel.Point, params paintParams, paintView hal.TextureView, sampler hal.Sampler, maskView hal.TextureView) error {
	if len(tris) == 0 {
		return nil
	}
	vertBuf, err := dc.createBuffer("easel_verts", packVertices(tris),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	uniBuf, err := dc.createBuffer("easel_params", params.pack(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	bg, err := dc.dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "easel_draw_bind",
		Layout: dc.pipe.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniBuf.NativeHandle(), Offset: 0, Size: paintParamsSize}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: paintView.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}},
			{Binding: 3, Resource: gputypes.TextureViewBinding{TextureView: maskView.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create draw bind group: %w", err)
	}
	dc.transientBGs = append(dc.transientBGs, bg)

	rp := dc.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "easel_draw",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    t.view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	rp.SetPipeline(dc.pipe.render)
	rp.SetBindGroup(0, bg, nil)
	rp.SetVertexBuffer(0, vertBuf, 0)
	rp.Draw(uint32(len(tris)), 1, 0, 0)
	rp.End()
	return nil
}
