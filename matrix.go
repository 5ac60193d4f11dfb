package easel

import "math"

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// Shear creates a shear matrix.
func Shear(x, y float64) Matrix {
	return Matrix{
		A: 1, B: x, C: 0,
		D: y, E: 1, F: 0,
	}
}

// Multiply multiplies two matrices (m * other). The combined matrix applies
// other first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformVector applies the transformation to a vector (no translation).
func (m Matrix) TransformVector(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// TransformRect returns the bounding box of r under the transformation.
// When the matrix has no rotation or shear the mapping is exact.
func (m Matrix) TransformRect(r Rect) Rect {
	p0 := m.TransformPoint(Point{r.X, r.Y})
	p1 := m.TransformPoint(Point{r.Right(), r.Y})
	p2 := m.TransformPoint(Point{r.X, r.Bottom()})
	p3 := m.TransformPoint(Point{r.Right(), r.Bottom()})
	x0 := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	y0 := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	x1 := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	y1 := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Determinant returns the determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix) Invert() Matrix {
	det := m.Determinant()
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 &&
		m.D == 0 && m.E == 1 && m.F == 0
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// axisTolerance bounds the off-diagonal terms below which a transform still
// counts as axis-aligned. Accumulated floating point error from composing
// scale and translate matrices stays well under this.
const axisTolerance = 1e-9

// IsScaleTranslate returns true if the matrix has no rotation or shear
// component, i.e. it maps axis-aligned rectangles to axis-aligned
// rectangles. The off-diagonal terms are compared against a small tolerance
// rather than exact zero.
func (m Matrix) IsScaleTranslate() bool {
	return math.Abs(m.B) < axisTolerance && math.Abs(m.D) < axisTolerance
}

// ScaleFactors returns the horizontal and vertical scale of the matrix,
// measured as the lengths of the transformed basis vectors.
func (m Matrix) ScaleFactors() (sx, sy float64) {
	return math.Hypot(m.A, m.D), math.Hypot(m.B, m.E)
}
