package imaging

import "math"

// Vec is a point or offset in floating-point coordinates.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }

// Mul returns v scaled by k.
func (v Vec) Mul(k float64) Vec { return Vec{X: v.X * k, Y: v.Y * k} }

func (v Vec) finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Affine is a 2D affine transformation in row-major 2x3 form:
//
//	| A  B  C |
//	| D  E  F |
//
// mapping (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// IdentityAffine returns the identity transformation.
func IdentityAffine() Affine {
	return Affine{A: 1, E: 1}
}

// TranslateAffine returns a translation by (x, y).
func TranslateAffine(x, y float64) Affine {
	return Affine{A: 1, C: x, E: 1, F: y}
}

// ScaleAffine returns a scale by (sx, sy) around the origin.
func ScaleAffine(sx, sy float64) Affine {
	return Affine{A: sx, E: sy}
}

// Multiply returns m * o, the transform that applies o first and then m.
func (m Affine) Multiply(o Affine) Affine {
	return Affine{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// Apply transforms the point p.
func (m Affine) Apply(p Vec) Vec {
	return Vec{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Invert returns the inverse transform. ok is false when m is singular.
func (m Affine) Invert() (inv Affine, ok bool) {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-12 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Affine{}, false
	}

	invDet := 1.0 / det
	return Affine{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}, true
}
