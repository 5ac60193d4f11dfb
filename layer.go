package easel

import "image"

// layerKind discriminates the clip layer variants.
type layerKind uint8

const (
	// layerAxisAligned is a device-space rectangle clip, used whenever the
	// net transform maps axis-aligned rectangles to axis-aligned
	// rectangles. Cheapest to push and pop.
	layerAxisAligned layerKind = iota

	// layerGeometric clips to an arbitrary geometry under a mask
	// transform.
	layerGeometric

	// layerTransparency composites its contents with an opacity and an
	// optional per-pixel alpha brush.
	layerTransparency
)

// clipLayer is one pushed clip or transparency layer. A layer is owned by
// the state that pushed it: Restore and frame teardown pop the owning
// state's layers in exact reverse push order, which keeps the device
// context's clip stack balanced.
type clipLayer struct {
	kind     layerKind
	geometry Geometry // owned mask geometry, released on pop
	brush    Brush    // owned opacity brush, released on pop
}

// pop undoes the layer on the device context and releases owned resources.
func (l *clipLayer) pop(dc DeviceContext) {
	if l.kind == layerAxisAligned {
		dc.PopAxisAlignedClip()
	} else {
		dc.PopLayer()
	}
	if l.geometry != nil {
		l.geometry.Release()
		l.geometry = nil
	}
	if l.brush != nil {
		l.brush.Release()
		l.brush = nil
	}
}

// pushAxisAligned pushes a rectangle clip already mapped to device space
// and narrows the state's clip bounds to it.
func (s *graphicsState) pushAxisAligned(dc DeviceContext, device Rect) {
	dc.PushAxisAlignedClip(device)
	s.layers = append(s.layers, clipLayer{kind: layerAxisAligned})
	s.clip = s.clip.Intersect(device.ToPixels(1))
}

// pushGeometric pushes a geometry mask positioned by m. deviceBounds is the
// outward-snapped device extent of the mask, used to narrow the clip
// bounds. The state takes ownership of g.
func (s *graphicsState) pushGeometric(dc DeviceContext, g Geometry, m Matrix, deviceBounds image.Rectangle) {
	dc.PushLayer(LayerParams{Mask: g, MaskTransform: m, Opacity: 1})
	s.layers = append(s.layers, clipLayer{kind: layerGeometric, geometry: g})
	s.clip = s.clip.Intersect(deviceBounds)
}

// pushTransparency pushes a composited layer with the given opacity and an
// optional alpha-mask brush. The state takes ownership of maskBrush.
func (s *graphicsState) pushTransparency(dc DeviceContext, opacity float64, maskBrush Brush) {
	dc.PushLayer(LayerParams{Opacity: opacity, OpacityBrush: maskBrush})
	s.layers = append(s.layers, clipLayer{kind: layerTransparency, brush: maskBrush})
}

// popLayers pops every layer this state pushed, newest first.
func (s *graphicsState) popLayers(dc DeviceContext) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		s.layers[i].pop(dc)
	}
	s.layers = s.layers[:0]
}
