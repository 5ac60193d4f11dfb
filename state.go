package easel

import "image"

// graphicsState is one entry on the Canvas state stack: the transform,
// clip, fill, font and interpolation mode that draw calls consume, plus the
// device resources lazily realized from them.
//
// States copy on Save and restore strictly LIFO. Realized resources belong
// to exactly one state: a fork starts with them reset and realizes its own
// on first use, so sibling states never share a gradient or image brush.
// The one exception is the surface-owned solid brush, which any state may
// bind but none releases.
type graphicsState struct {
	transform Matrix
	clip      image.Rectangle // device-space clip bounds
	fill      Fill
	opacity   float64
	font      Font
	interp    InterpolationMode

	brush       Brush    // realized brush, nil until a draw needs it
	sharedBrush bool     // brush is the surface-owned solid brush
	face        FontFace // resolved face, nil until a text draw needs it

	layers []clipLayer
}

// newRootState builds the state a frame starts with. The transform maps
// logical units to device pixels; the clip covers the whole buffer.
func newRootState(pixelBounds image.Rectangle, scale float64) *graphicsState {
	return &graphicsState{
		transform: Scale(scale, scale),
		clip:      pixelBounds,
		fill:      SolidFill{Color: Black},
		opacity:   1,
		font:      DefaultFont(),
		interp:    InterpBilinear,
	}
}

// fork returns the copy Save pushes: values carried over, realized handles
// and layers reset.
func (s *graphicsState) fork() *graphicsState {
	return &graphicsState{
		transform: s.transform,
		clip:      s.clip,
		fill:      s.fill,
		opacity:   s.opacity,
		font:      s.font,
		interp:    s.interp,
	}
}

// releaseBrush unbinds the realized brush, releasing it unless it is the
// shared solid brush.
func (s *graphicsState) releaseBrush() {
	if s.brush != nil && !s.sharedBrush {
		s.brush.Release()
	}
	s.brush = nil
	s.sharedBrush = false
}

// setFill replaces the fill value. Redundant sets keep the realized brush.
// A solid-to-solid change with the shared brush bound updates its color in
// place instead of invalidating.
func (s *graphicsState) setFill(f Fill) {
	if equalFill(s.fill, f) {
		return
	}
	if solid, ok := f.(SolidFill); ok && s.sharedBrush && s.brush != nil {
		s.fill = f
		if sb, ok := s.brush.(SolidBrush); ok {
			sb.SetColor(solid.Color.MultiplyAlpha(s.opacity))
			return
		}
	}
	s.releaseBrush()
	s.fill = f
}

// setOpacity replaces the opacity multiplier, updating a live brush in
// place rather than invalidating it.
func (s *graphicsState) setOpacity(opacity float64) {
	if opacity == s.opacity {
		return
	}
	s.opacity = opacity
	if s.brush == nil {
		return
	}
	if s.sharedBrush {
		if solid, ok := s.fill.(SolidFill); ok {
			if sb, ok := s.brush.(SolidBrush); ok {
				sb.SetColor(solid.Color.MultiplyAlpha(opacity))
			}
		}
		return
	}
	s.brush.SetOpacity(opacity)
}

// setFont replaces the font, dropping the resolved face only when the
// descriptor actually changed.
func (s *graphicsState) setFont(f Font) {
	if f == s.font {
		return
	}
	s.font = f
	s.face = nil
}

// syncSharedBrush re-points the shared brush at this state's fill color.
// Called after Restore, because a deeper state may have changed the shared
// brush color while this state's binding stayed live.
func (s *graphicsState) syncSharedBrush() {
	if !s.sharedBrush || s.brush == nil {
		return
	}
	solid, ok := s.fill.(SolidFill)
	if !ok {
		// fill changed type while the shared brush was bound; realize anew
		s.brush = nil
		s.sharedBrush = false
		return
	}
	if sb, ok := s.brush.(SolidBrush); ok {
		sb.SetColor(solid.Color.MultiplyAlpha(s.opacity))
	}
}

// realizeBrush returns the device brush for the current fill, creating it
// on the first draw that needs it. Returns nil when creation fails; the
// caller skips the draw call.
func (s *graphicsState) realizeBrush(dc DeviceContext, shared SolidBrush) Brush {
	if s.brush != nil {
		return s.brush
	}
	switch f := s.fill.(type) {
	case SolidFill:
		if shared == nil {
			return nil
		}
		shared.SetColor(f.Color.MultiplyAlpha(s.opacity))
		s.brush = shared
		s.sharedBrush = true
	case LinearGradientFill:
		b, err := dc.CreateLinearGradientBrush(f)
		if err != nil {
			slogger().Debug("easel: linear gradient brush unavailable", "error", err)
			return nil
		}
		b.SetOpacity(s.opacity)
		s.brush = b
	case RadialGradientFill:
		b, err := dc.CreateRadialGradientBrush(f)
		if err != nil {
			slogger().Debug("easel: radial gradient brush unavailable", "error", err)
			return nil
		}
		b.SetOpacity(s.opacity)
		s.brush = b
	case ImageFill:
		b, err := dc.CreateImageBrush(f)
		if err != nil {
			slogger().Debug("easel: image brush unavailable", "error", err)
			return nil
		}
		b.SetOpacity(s.opacity)
		s.brush = b
	default:
		return nil
	}
	return s.brush
}

// clipBounds returns the clip bounds mapped back to logical space through
// the inverse transform.
func (s *graphicsState) clipBounds() Rect {
	return s.transform.Invert().TransformRect(RectFromImage(s.clip))
}

// addTransform composes t before the existing chain: points hit t first,
// then every transform added earlier, so the first-added transform stays
// outermost in the pixel mapping.
func (s *graphicsState) addTransform(t Matrix) {
	s.transform = s.transform.Multiply(t)
}

// setOrigin translates the logical origin. The device-space clip is
// unaffected; its logical image shifts through the inverse mapping.
func (s *graphicsState) setOrigin(p Point) {
	s.addTransform(Translate(p.X, p.Y))
}
