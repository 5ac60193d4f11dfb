package easel

import (
	"image/color"
	"testing"
)

func TestRGBAColorConversion(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
		want color.NRGBA
	}{
		{"opaque black", Black, color.NRGBA{0, 0, 0, 255}},
		{"opaque white", White, color.NRGBA{255, 255, 255, 255}},
		{"opaque red", Red, color.NRGBA{255, 0, 0, 255}},
		{"transparent", Transparent, color.NRGBA{0, 0, 0, 0}},
		{"half alpha green", RGBA{0, 1, 0, 0.5}, color.NRGBA{0, 255, 0, 127}},
		{"out of range clamps", RGBA{2, -1, 0.5, 1}, color.NRGBA{255, 0, 127, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.c.Color().(color.NRGBA)
			if got != tt.want {
				t.Errorf("Color() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromColorRoundTrip(t *testing.T) {
	original := RGBA{0.8, 0.3, 0.5, 1}
	got := FromColor(original.Color())
	const tolerance = 0.01
	if absDiff(original.R, got.R) > tolerance ||
		absDiff(original.G, got.G) > tolerance ||
		absDiff(original.B, got.B) > tolerance ||
		absDiff(original.A, got.A) > tolerance {
		t.Errorf("round trip: %v -> %v", original, got)
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want RGBA
	}{
		{"RGB short", "#f00", RGBA{1, 0, 0, 1}},
		{"RGBA short", "#0f08", RGBA{0, 1, 0, float64(0x88) / 255}},
		{"RRGGBB", "#3498db", RGBA{float64(0x34) / 255, float64(0x98) / 255, float64(0xdb) / 255, 1}},
		{"RRGGBBAA", "#ff000080", RGBA{1, 0, 0, float64(0x80) / 255}},
		{"no hash", "00ff00", RGBA{0, 1, 0, 1}},
		{"uppercase", "#FF00FF", RGBA{1, 0, 1, 1}},
		{"invalid length", "#12345", RGBA{0, 0, 0, 1}},
	}
	const tolerance = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hex(tt.hex)
			if absDiff(got.R, tt.want.R) > tolerance ||
				absDiff(got.G, tt.want.G) > tolerance ||
				absDiff(got.B, tt.want.B) > tolerance ||
				absDiff(got.A, tt.want.A) > tolerance {
				t.Errorf("Hex(%q) = %v, want %v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestPremultiply(t *testing.T) {
	c := RGBA{1, 0.5, 0, 0.5}
	got := c.Premultiply()
	want := RGBA{0.5, 0.25, 0, 0.5}
	if got != want {
		t.Errorf("Premultiply() = %v, want %v", got, want)
	}
}

func TestMultiplyAlpha(t *testing.T) {
	c := RGBA{1, 0.5, 0.25, 0.8}
	got := c.MultiplyAlpha(0.5)
	if got.R != 1 || got.G != 0.5 || got.B != 0.25 {
		t.Errorf("MultiplyAlpha changed color channels: %v", got)
	}
	if absDiff(got.A, 0.4) > 1e-12 {
		t.Errorf("MultiplyAlpha alpha = %v, want 0.4", got.A)
	}
	if got := c.MultiplyAlpha(1); got != c {
		t.Errorf("MultiplyAlpha(1) = %v, want unchanged", got)
	}
}

func TestColorLerp(t *testing.T) {
	a := RGBA{0, 0, 0, 0}
	b := RGBA{1, 1, 1, 1}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	mid := a.Lerp(b, 0.5)
	if mid != (RGBA{0.5, 0.5, 0.5, 0.5}) {
		t.Errorf("Lerp(0.5) = %v", mid)
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
