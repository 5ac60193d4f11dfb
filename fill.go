package easel

import (
	"image"
	"math"
	"sort"
)

// ExtendMode defines how gradients and tiled images extend beyond their
// defined bounds.
type ExtendMode int

const (
	// ExtendPad extends edge colors beyond bounds (default behavior).
	ExtendPad ExtendMode = iota
	// ExtendRepeat repeats the pattern.
	ExtendRepeat
	// ExtendReflect mirrors the pattern.
	ExtendReflect
)

// InterpolationMode selects the filter used when an image is drawn scaled
// or transformed.
type InterpolationMode uint8

const (
	// InterpNearest picks the nearest source pixel.
	InterpNearest InterpolationMode = iota
	// InterpBilinear blends the four surrounding pixels.
	InterpBilinear
	// InterpBicubic uses a bicubic filter. Backends without bicubic
	// support fall back to bilinear.
	InterpBicubic
)

// String returns the name of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "nearest"
	case InterpBilinear:
		return "bilinear"
	case InterpBicubic:
		return "bicubic"
	default:
		return "unknown"
	}
}

// ColorStop represents a color at a specific position in a gradient.
type ColorStop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Color  RGBA    // Color at this position
}

// Fill describes what a draw call paints with.
// This is a sealed interface - only types in this package implement it.
//
// A Fill is a pure value: it carries no device resources. The state stack
// realizes a fill into a device Brush lazily, on the first draw call that
// needs it, and keeps the realized brush until the fill value changes.
//
// Supported fill types:
//   - SolidFill: a single solid color
//   - LinearGradientFill: a linear gradient between two points
//   - RadialGradientFill: a radial gradient around a center
//   - ImageFill: a tiled image
type Fill interface {
	// fillMarker is an unexported method that seals this interface.
	// Only types in this package can implement Fill.
	fillMarker()
}

// SolidFill paints a single solid color.
type SolidFill struct {
	Color RGBA
}

func (SolidFill) fillMarker() {}

// LinearGradientFill paints a gradient along the line from Start to End.
type LinearGradientFill struct {
	Start  Point
	End    Point
	Stops  []ColorStop
	Extend ExtendMode
}

func (LinearGradientFill) fillMarker() {}

// RadialGradientFill paints a gradient radiating from Center out to Radius.
type RadialGradientFill struct {
	Center Point
	Radius float64
	Stops  []ColorStop
	Extend ExtendMode
}

func (RadialGradientFill) fillMarker() {}

// ImageFill paints with an image, transformed by Transform and tiled
// according to Extend.
type ImageFill struct {
	Image     image.Image
	Transform Matrix
	Extend    ExtendMode
}

func (ImageFill) fillMarker() {}

// Solid creates a SolidFill from an RGBA color.
//
// Example:
//
//	cv.SetFill(easel.Solid(easel.Red))
func Solid(c RGBA) SolidFill {
	return SolidFill{Color: c}
}

// LinearGradient creates a LinearGradientFill between two points.
func LinearGradient(start, end Point, stops ...ColorStop) LinearGradientFill {
	return LinearGradientFill{Start: start, End: end, Stops: sortStops(stops)}
}

// RadialGradient creates a RadialGradientFill around a center point.
func RadialGradient(center Point, radius float64, stops ...ColorStop) RadialGradientFill {
	return RadialGradientFill{Center: center, Radius: radius, Stops: sortStops(stops)}
}

// TiledImage creates an ImageFill with the given image transform.
func TiledImage(img image.Image, m Matrix) ImageFill {
	return ImageFill{Image: img, Transform: m, Extend: ExtendRepeat}
}

// sortStops sorts color stops by offset, copying so the caller's slice is
// left untouched.
func sortStops(stops []ColorStop) []ColorStop {
	if len(stops) == 0 {
		return stops
	}

	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	return sorted
}

// applyExtendMode applies the extend mode to normalize t to [0, 1].
func applyExtendMode(t float64, mode ExtendMode) float64 {
	switch mode {
	case ExtendRepeat:
		t -= math.Floor(t)
		if t < 0 {
			t++
		}
	case ExtendReflect:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int(period)%2 == 1 {
			t = 1 - t
		}
	default: // ExtendPad
		t = clamp01(t)
	}
	return t
}

// clamp01 clamps a value to [0, 1] range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// ColorAtOffset evaluates a stop list at position t after applying the
// extend mode. Backends use this to bake gradient ramps.
func ColorAtOffset(stops []ColorStop, mode ExtendMode, t float64) RGBA {
	if len(stops) == 0 {
		return Transparent
	}
	t = applyExtendMode(t, mode)

	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			lo, hi := stops[i-1], stops[i]
			span := hi.Offset - lo.Offset
			if span <= 0 {
				return hi.Color
			}
			return lo.Color.Lerp(hi.Color, (t-lo.Offset)/span)
		}
	}
	return last.Color
}

// equalFill reports whether two fill values describe the same paint. The
// state stack uses this to keep realized brushes alive across redundant
// SetFill calls.
func equalFill(a, b Fill) bool {
	switch av := a.(type) {
	case SolidFill:
		bv, ok := b.(SolidFill)
		return ok && av == bv
	case LinearGradientFill:
		bv, ok := b.(LinearGradientFill)
		return ok && av.Start == bv.Start && av.End == bv.End &&
			av.Extend == bv.Extend && equalStops(av.Stops, bv.Stops)
	case RadialGradientFill:
		bv, ok := b.(RadialGradientFill)
		return ok && av.Center == bv.Center && av.Radius == bv.Radius &&
			av.Extend == bv.Extend && equalStops(av.Stops, bv.Stops)
	case ImageFill:
		bv, ok := b.(ImageFill)
		return ok && av.Image == bv.Image && av.Transform == bv.Transform &&
			av.Extend == bv.Extend
	case nil:
		return b == nil
	default:
		return false
	}
}

func equalStops(a, b []ColorStop) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
