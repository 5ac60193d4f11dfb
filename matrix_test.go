package easel

import (
	"math"
	"testing"
)

const matrixEpsilon = 1e-9

func pointsClose(a, b Point) bool {
	return math.Abs(a.X-b.X) < matrixEpsilon && math.Abs(a.Y-b.Y) < matrixEpsilon
}

func rectsClose(a, b Rect) bool {
	return math.Abs(a.X-b.X) < matrixEpsilon && math.Abs(a.Y-b.Y) < matrixEpsilon &&
		math.Abs(a.W-b.W) < matrixEpsilon && math.Abs(a.H-b.H) < matrixEpsilon
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		p    Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, 20), Pt(1, 2), Pt(11, 22)},
		{"scale", Scale(2, 3), Pt(1, 2), Pt(2, 6)},
		{"rotate 90deg", Rotate(math.Pi / 2), Pt(1, 0), Pt(0, 1)},
		{"rotate 180deg", Rotate(math.Pi), Pt(1, 0), Pt(-1, 0)},
		{"shear x", Shear(1, 0), Pt(0, 2), Pt(2, 2)},
		{"shear y", Shear(0, 1), Pt(2, 0), Pt(2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.p)
			if !pointsClose(got, tt.want) {
				t.Errorf("TransformPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

// Multiply applies the right operand first: Translate(10,0) * Scale(2,2)
// scales a point, then moves it.
func TestMultiplyAppliesOtherFirst(t *testing.T) {
	m := Translate(10, 0).Multiply(Scale(2, 2))
	got := m.TransformPoint(Pt(1, 1))
	want := Pt(12, 2)
	if !pointsClose(got, want) {
		t.Errorf("Translate*Scale applied to (1,1) = %v, want %v", got, want)
	}

	// Reversed composition moves first, then scales.
	m = Scale(2, 2).Multiply(Translate(10, 0))
	got = m.TransformPoint(Pt(1, 1))
	want = Pt(22, 2)
	if !pointsClose(got, want) {
		t.Errorf("Scale*Translate applied to (1,1) = %v, want %v", got, want)
	}
}

func TestMultiplyMatchesSequentialApply(t *testing.T) {
	a := Rotate(0.7).Multiply(Translate(3, -2))
	b := Scale(1.5, 0.5).Multiply(Shear(0.2, 0))
	p := Pt(2.5, -4)

	composed := a.Multiply(b).TransformPoint(p)
	sequential := a.TransformPoint(b.TransformPoint(p))
	if !pointsClose(composed, sequential) {
		t.Errorf("(a*b)(p) = %v, a(b(p)) = %v", composed, sequential)
	}
}

func TestTransformVectorIgnoresTranslation(t *testing.T) {
	m := Translate(100, 200).Multiply(Scale(2, 3))
	got := m.TransformVector(Pt(1, 1))
	want := Pt(2, 3)
	if !pointsClose(got, want) {
		t.Errorf("TransformVector(1,1) = %v, want %v", got, want)
	}
}

func TestTransformRect(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		r    Rect
		want Rect
	}{
		{"identity", Identity(), NewRect(1, 2, 3, 4), NewRect(1, 2, 3, 4)},
		{"translate", Translate(10, 20), NewRect(0, 0, 5, 5), NewRect(10, 20, 5, 5)},
		{"scale", Scale(2, 3), NewRect(1, 1, 2, 2), NewRect(2, 3, 4, 6)},
		{"flip y", Scale(1, -1), NewRect(0, 0, 2, 3), NewRect(0, -3, 2, 3)},
		// A unit square centered at the origin rotated 45 degrees has a
		// bounding box of side sqrt(2).
		{
			"rotate 45deg bbox",
			Rotate(math.Pi / 4),
			NewRect(-0.5, -0.5, 1, 1),
			NewRect(-math.Sqrt2/2, -math.Sqrt2/2, math.Sqrt2, math.Sqrt2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformRect(tt.r)
			if !rectsClose(got, tt.want) {
				t.Errorf("TransformRect(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestInvertRoundTrip(t *testing.T) {
	matrices := []struct {
		name string
		m    Matrix
	}{
		{"translate", Translate(10, -20)},
		{"scale", Scale(2, 0.5)},
		{"rotate", Rotate(1.1)},
		{"composed", Translate(5, 7).Multiply(Rotate(0.3)).Multiply(Scale(2, 3))},
	}
	for _, tt := range matrices {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.m.Invert()
			p := Pt(3.7, -1.2)
			got := inv.TransformPoint(tt.m.TransformPoint(p))
			if !pointsClose(got, p) {
				t.Errorf("Invert round trip moved %v to %v", p, got)
			}
		})
	}
}

func TestInvertSingular(t *testing.T) {
	singular := Scale(0, 1)
	if got := singular.Invert(); !got.IsIdentity() {
		t.Errorf("Invert of singular matrix = %+v, want identity", got)
	}
}

func TestDeterminant(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want float64
	}{
		{"identity", Identity(), 1},
		{"scale", Scale(2, 3), 6},
		{"rotation preserves area", Rotate(0.9), 1},
		{"flip", Scale(1, -1), -1},
		{"singular", Scale(0, 5), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Determinant(); math.Abs(got-tt.want) > matrixEpsilon {
				t.Errorf("Determinant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsScaleTranslate(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want bool
	}{
		{"identity", Identity(), true},
		{"translate", Translate(10, 20), true},
		{"scale", Scale(2, 0.5), true},
		{"scale + translate", Scale(2, 2).Multiply(Translate(5, 5)), true},
		{"negative scale", Scale(-1, 1), true},
		{"rotation", Rotate(math.Pi / 6), false},
		{"shear", Shear(0.5, 0), false},
		{"near-axis noise", Matrix{A: 2, B: 1e-12, C: 0, D: -1e-12, E: 2, F: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsScaleTranslate(); got != tt.want {
				t.Errorf("Matrix%+v.IsScaleTranslate() = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestIsIdentityAndIsTranslation(t *testing.T) {
	if !Identity().IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
	if Translate(1, 0).IsIdentity() {
		t.Error("Translate(1,0).IsIdentity() = true")
	}
	if !Translate(1, 2).IsTranslation() {
		t.Error("Translate(1,2).IsTranslation() = false")
	}
	if Scale(2, 1).IsTranslation() {
		t.Error("Scale(2,1).IsTranslation() = true")
	}
}

// ScaleFactors measures transformed basis vector lengths, so rotation must
// not change the reported scale.
func TestScaleFactors(t *testing.T) {
	tests := []struct {
		name   string
		m      Matrix
		sx, sy float64
	}{
		{"identity", Identity(), 1, 1},
		{"scale", Scale(2, 3), 2, 3},
		{"rotated scale", Rotate(math.Pi / 2).Multiply(Scale(2, 3)), 2, 3},
		{"arbitrary rotation", Rotate(0.77).Multiply(Scale(0.5, 4)), 0.5, 4},
		{"translation only", Translate(100, -100), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy := tt.m.ScaleFactors()
			if math.Abs(sx-tt.sx) > matrixEpsilon || math.Abs(sy-tt.sy) > matrixEpsilon {
				t.Errorf("ScaleFactors() = (%v, %v), want (%v, %v)", sx, sy, tt.sx, tt.sy)
			}
		})
	}
}
