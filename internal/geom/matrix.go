package geom

import "math"

// Matrix2D maps (x, y) to (A*x + C*y + E, B*x + D*y + F), the same six
// coefficients SVG's matrix(a b c d e f) takes.
type Matrix2D struct {
	A, B, C, D, E, F float64
}

func Identity() Matrix2D { return Matrix2D{A: 1, D: 1} }

func Translate(tx, ty float64) Matrix2D { return Matrix2D{A: 1, D: 1, E: tx, F: ty} }

func Scale(sx, sy float64) Matrix2D { return Matrix2D{A: sx, D: sy} }

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// RotateDegrees turns positive angles clockwise on a y-down canvas.
func RotateDegrees(deg float64) Matrix2D {
	sin, cos := math.Sincos(radians(deg))
	return Matrix2D{A: cos, B: sin, C: -sin, D: cos}
}

// RotateAround is SVG's rotate(a, cx, cy).
func RotateAround(deg, cx, cy float64) Matrix2D {
	return Translate(cx, cy).Multiply(RotateDegrees(deg)).Multiply(Translate(-cx, -cy))
}

func SkewX(deg float64) Matrix2D { return Matrix2D{A: 1, C: math.Tan(radians(deg)), D: 1} }

func SkewY(deg float64) Matrix2D { return Matrix2D{A: 1, B: math.Tan(radians(deg)), D: 1} }

// Multiply composes m after n: the result applies n first.
func (m Matrix2D) Multiply(n Matrix2D) Matrix2D {
	return Matrix2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Matrix2D) TransformPoint(p Point) Point {
	return Point{X: m.A*p.X + m.C*p.Y + m.E, Y: m.B*p.X + m.D*p.Y + m.F}
}

// TransformRect returns the axis-aligned box around the transformed corners.
func (m Matrix2D) TransformRect(r Rect) Rect {
	if m.IsIdentity() {
		return r
	}
	corners := [4]Point{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
	for i, c := range corners {
		corners[i] = m.TransformPoint(c)
	}
	return BoundsOf(corners[:])
}

// Invert returns the inverse. A singular matrix inverts to the identity.
func (m Matrix2D) Invert() Matrix2D {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity()
	}
	return Matrix2D{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}
}

// Array lists the coefficients in SVG order, as canvas setTransform takes them.
func (m Matrix2D) Array() []float64 {
	return []float64{m.A, m.B, m.C, m.D, m.E, m.F}
}

func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	for i, v := range m.Array() {
		want := 0.0
		if i == 0 || i == 3 {
			want = 1
		}
		if math.Abs(v-want) >= eps {
			return false
		}
	}
	return true
}
