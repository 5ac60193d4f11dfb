package record

import (
	"image"

	"github.com/gogpu/easel"
)

// OpKind identifies a recorded device context call.
type OpKind uint8

const (
	OpSetTarget OpKind = iota
	OpSetDPI
	OpBegin
	OpEnd
	OpClear
	OpSetTransform
	OpPushClip
	OpPopClip
	OpPushLayer
	OpPopLayer
	OpFillRect
	OpDrawRect
	OpFillEllipse
	OpDrawEllipse
	OpFillRoundedRect
	OpDrawRoundedRect
	OpDrawLine
	OpFillGeometry
	OpDrawGeometry
	OpDrawImage
	OpDrawGlyphRun
	OpRelease
)

var opKindNames = [...]string{
	OpSetTarget:       "SetTarget",
	OpSetDPI:          "SetDPI",
	OpBegin:           "Begin",
	OpEnd:             "End",
	OpClear:           "Clear",
	OpSetTransform:    "SetTransform",
	OpPushClip:        "PushClip",
	OpPopClip:         "PopClip",
	OpPushLayer:       "PushLayer",
	OpPopLayer:        "PopLayer",
	OpFillRect:        "FillRect",
	OpDrawRect:        "DrawRect",
	OpFillEllipse:     "FillEllipse",
	OpDrawEllipse:     "DrawEllipse",
	OpFillRoundedRect: "FillRoundedRect",
	OpDrawRoundedRect: "DrawRoundedRect",
	OpDrawLine:        "DrawLine",
	OpFillGeometry:    "FillGeometry",
	OpDrawGeometry:    "DrawGeometry",
	OpDrawImage:       "DrawImage",
	OpDrawGlyphRun:    "DrawGlyphRun",
	OpRelease:         "Release",
}

// String returns the op kind name.
func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return "Unknown"
}

// Op is one recorded device context call.
type Op interface {
	// Kind returns the OpKind for this op.
	Kind() OpKind
}

// Kinds extracts the kind sequence, for order assertions.
func Kinds(ops []Op) []OpKind {
	out := make([]OpKind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind()
	}
	return out
}

// BrushSnapshot captures the brush and its mutable state at the moment of a
// draw call. SetTransform and SetOpacity after the call do not affect it.
type BrushSnapshot struct {
	// Brush is the recorded brush the draw was issued with, nil for a
	// foreign or missing brush.
	Brush *Brush

	// Transform is the brush transform at draw time.
	Transform easel.Matrix

	// Opacity is the brush opacity at draw time.
	Opacity float64

	// Color is the solid color at draw time; zero for non-solid brushes.
	Color easel.RGBA
}

// SetTargetOp records SetTarget. Bound is false for the nil unbind.
type SetTargetOp struct{ Bound bool }

// Kind implements Op.
func (SetTargetOp) Kind() OpKind { return OpSetTarget }

// SetDPIOp records SetDPI.
type SetDPIOp struct{ DPI float64 }

// Kind implements Op.
func (SetDPIOp) Kind() OpKind { return OpSetDPI }

// BeginOp records Begin.
type BeginOp struct{}

// Kind implements Op.
func (BeginOp) Kind() OpKind { return OpBegin }

// EndOp records End.
type EndOp struct{}

// Kind implements Op.
func (EndOp) Kind() OpKind { return OpEnd }

// ClearOp records Clear.
type ClearOp struct{ Color easel.RGBA }

// Kind implements Op.
func (ClearOp) Kind() OpKind { return OpClear }

// SetTransformOp records SetTransform.
type SetTransformOp struct{ Transform easel.Matrix }

// Kind implements Op.
func (SetTransformOp) Kind() OpKind { return OpSetTransform }

// PushClipOp records PushAxisAlignedClip.
type PushClipOp struct{ Rect easel.Rect }

// Kind implements Op.
func (PushClipOp) Kind() OpKind { return OpPushClip }

// PopClipOp records PopAxisAlignedClip.
type PopClipOp struct{}

// Kind implements Op.
func (PopClipOp) Kind() OpKind { return OpPopClip }

// PushLayerOp records PushLayer with the parameters as passed.
type PushLayerOp struct{ Params easel.LayerParams }

// Kind implements Op.
func (PushLayerOp) Kind() OpKind { return OpPushLayer }

// PopLayerOp records PopLayer.
type PopLayerOp struct{}

// Kind implements Op.
func (PopLayerOp) Kind() OpKind { return OpPopLayer }

// FillRectOp records FillRect.
type FillRectOp struct {
	Rect  easel.Rect
	Brush BrushSnapshot
}

// Kind implements Op.
func (FillRectOp) Kind() OpKind { return OpFillRect }

// DrawRectOp records DrawRect.
type DrawRectOp struct {
	Rect  easel.Rect
	Brush BrushSnapshot
	Width float64
}

// Kind implements Op.
func (DrawRectOp) Kind() OpKind { return OpDrawRect }

// FillEllipseOp records FillEllipse.
type FillEllipseOp struct {
	Center easel.Point
	RX, RY float64
	Brush  BrushSnapshot
}

// Kind implements Op.
func (FillEllipseOp) Kind() OpKind { return OpFillEllipse }

// DrawEllipseOp records DrawEllipse.
type DrawEllipseOp struct {
	Center easel.Point
	RX, RY float64
	Brush  BrushSnapshot
	Width  float64
}

// Kind implements Op.
func (DrawEllipseOp) Kind() OpKind { return OpDrawEllipse }

// FillRoundedRectOp records FillRoundedRect.
type FillRoundedRectOp struct {
	Rect   easel.Rect
	Corner float64
	Brush  BrushSnapshot
}

// Kind implements Op.
func (FillRoundedRectOp) Kind() OpKind { return OpFillRoundedRect }

// DrawRoundedRectOp records DrawRoundedRect.
type DrawRoundedRectOp struct {
	Rect   easel.Rect
	Corner float64
	Brush  BrushSnapshot
	Width  float64
}

// Kind implements Op.
func (DrawRoundedRectOp) Kind() OpKind { return OpDrawRoundedRect }

// DrawLineOp records DrawLine.
type DrawLineOp struct {
	From, To easel.Point
	Brush    BrushSnapshot
	Width    float64
}

// Kind implements Op.
func (DrawLineOp) Kind() OpKind { return OpDrawLine }

// FillGeometryOp records FillGeometry.
type FillGeometryOp struct {
	Geometry *Geometry
	Brush    BrushSnapshot
}

// Kind implements Op.
func (FillGeometryOp) Kind() OpKind { return OpFillGeometry }

// DrawGeometryOp records DrawGeometry.
type DrawGeometryOp struct {
	Geometry *Geometry
	Brush    BrushSnapshot
	Width    float64
}

// Kind implements Op.
func (DrawGeometryOp) Kind() OpKind { return OpDrawGeometry }

// DrawImageOp records DrawImage. The image itself is not retained, only its
// bounds.
type DrawImageOp struct {
	Bounds  image.Rectangle
	Dst     easel.Rect
	Opacity float64
	Mode    easel.InterpolationMode
}

// Kind implements Op.
func (DrawImageOp) Kind() OpKind { return OpDrawImage }

// DrawGlyphRunOp records DrawGlyphRun.
type DrawGlyphRunOp struct {
	// Glyphs is the number of glyphs in the run.
	Glyphs int

	// Size is the font height the run was laid out at.
	Size float64

	Brush BrushSnapshot
}

// Kind implements Op.
func (DrawGlyphRunOp) Kind() OpKind { return OpDrawGlyphRun }

// ReleaseOp records Release.
type ReleaseOp struct{}

// Kind implements Op.
func (ReleaseOp) Kind() OpKind { return OpRelease }
