package geom

import (
	"math"
	"strings"
)

// Segment is one absolute path command. Op is one of 'M', 'L', 'C', 'Q', 'Z';
// Points holds the control points followed by the end point.
type Segment struct {
	Op     byte
	Points []Point
}

// End returns the segment's end point; Z segments return false.
func (s Segment) End() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// ParsePathData parses SVG path data into absolute M/L/C/Q/Z segments.
// H and V become L, S and T are expanded with their reflected control point,
// and elliptical arcs are converted to cubic Béziers.
func ParsePathData(d string) ([]Segment, error) {
	sc := newScanner(d)
	var (
		segs     []Segment
		cmd      byte
		cur      Point
		start    Point
		lastCtrl Point
		lastOp   byte
	)

	for {
		sc.skip()
		if sc.done() {
			return segs, nil
		}

		if c := sc.peek(); isLetter(c) {
			cmd = c
			sc.pos++
		} else if cmd == 0 {
			return nil, syntaxError("path data", sc)
		}

		rel := cmd >= 'a' && cmd <= 'z'
		abs := func(p Point) Point {
			if rel {
				return Point{cur.X + p.X, cur.Y + p.Y}
			}
			return p
		}

		switch upper(cmd) {
		case 'Z':
			segs = append(segs, Segment{Op: 'Z'})
			cur = start
			lastOp = 'Z'
			// a Z is never repeated implicitly
			cmd = 0
			continue

		case 'M':
			p, ok := readPoint(sc)
			if !ok {
				return nil, syntaxError("path data", sc)
			}
			cur = abs(p)
			start = cur
			segs = append(segs, Segment{Op: 'M', Points: []Point{cur}})
			lastOp = 'M'
			// subsequent pairs are implicit lineto commands
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}

		case 'L':
			p, ok := readPoint(sc)
			if !ok {
				return nil, syntaxError("path data", sc)
			}
			cur = abs(p)
			segs = append(segs, Segment{Op: 'L', Points: []Point{cur}})
			lastOp = 'L'

		case 'H':
			x, ok := sc.number()
			if !ok {
				return nil, syntaxError("path data", sc)
			}
			if rel {
				x += cur.X
			}
			cur = Point{x, cur.Y}
			segs = append(segs, Segment{Op: 'L', Points: []Point{cur}})
			lastOp = 'L'

		case 'V':
			y, ok := sc.number()
			if !ok {
				return nil, syntaxError("path data", sc)
			}
			if rel {
				y += cur.Y
			}
			cur = Point{cur.X, y}
			segs = append(segs, Segment{Op: 'L', Points: []Point{cur}})
			lastOp = 'L'

		case 'C':
			pts, ok := readPoints(sc, 3)
			if !ok {
				return nil, syntaxError("path data", sc)
			}
			c1, c2, end := abs(pts[0]), abs(pts[1]), abs(pts[2])
			segs = append(segs, Segment{Op: 'C', Points: []Point{c1, c2, end}})
			lastCtrl, cur, lastOp = c2, end, 'C'

		case 'S':
			pts, ok := readPoints(sc, 2)
			if !ok {
				return nil, syntaxError("path data", sc)
			}
			c1 := cur
			if lastOp == 'C' {
				c1 = Point{2*cur.X - lastCtrl.X, 2*cur.Y - lastCtrl.Y}
			}
			c2, end := abs(pts[0]), abs(pts[1])
			segs = append(segs, Segment{Op: 'C', Points: []Point{c1, c2, end}})
			lastCtrl, cur, lastOp = c2, end, 'C'

		case 'Q':
			pts, ok := readPoints(sc, 2)
			if !ok {
				return nil, syntaxError("path data", sc)
			}
			c, end := abs(pts[0]), abs(pts[1])
			segs = append(segs, Segment{Op: 'Q', Points: []Point{c, end}})
			lastCtrl, cur, lastOp = c, end, 'Q'

		case 'T':
			p, ok := readPoint(sc)
			if !ok {
				return nil, syntaxError("path data", sc)
			}
			c := cur
			if lastOp == 'Q' {
				c = Point{2*cur.X - lastCtrl.X, 2*cur.Y - lastCtrl.Y}
			}
			end := abs(p)
			segs = append(segs, Segment{Op: 'Q', Points: []Point{c, end}})
			lastCtrl, cur, lastOp = c, end, 'Q'

		case 'A':
			rx, ok1 := sc.number()
			ry, ok2 := sc.number()
			phi, ok3 := sc.number()
			large, ok4 := sc.flag()
			sweep, ok5 := sc.flag()
			p, ok6 := readPoint(sc)
			if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
				return nil, syntaxError("path data", sc)
			}
			end := abs(p)
			for _, c := range arcToCubics(cur, rx, ry, phi, large, sweep, end) {
				segs = append(segs, Segment{Op: 'C', Points: []Point{c[0], c[1], c[2]}})
			}
			cur, lastOp = end, 'A'

		default:
			return nil, syntaxError("path data", sc)
		}
	}
}

// Bounds returns the tight bounding box of the path: segment ends plus the
// turning points of every curve. The bool is false for an empty path.
func Bounds(segs []Segment) (Rect, bool) {
	pts := Extrema(segs)
	if len(pts) == 0 {
		return Rect{}, false
	}
	return BoundsOf(pts), true
}

// Extrema lists every segment end point together with the points where a
// curve turns on either axis. Control points are not included.
func Extrema(segs []Segment) []Point {
	var (
		out        []Point
		cur, start Point
	)
	for _, s := range segs {
		switch {
		case s.Op == 'Z':
			cur = start
		case s.Op == 'C' && len(s.Points) == 3:
			p1, p2, p3 := s.Points[0], s.Points[1], s.Points[2]
			ts := append(cubicTurns(cur.X, p1.X, p2.X, p3.X), cubicTurns(cur.Y, p1.Y, p2.Y, p3.Y)...)
			for _, t := range ts {
				out = append(out, cubicAt(cur, p1, p2, p3, t))
			}
			cur = p3
			out = append(out, cur)
		case s.Op == 'Q' && len(s.Points) == 2:
			c, end := s.Points[0], s.Points[1]
			for _, t := range []float64{quadTurn(cur.X, c.X, end.X), quadTurn(cur.Y, c.Y, end.Y)} {
				if t > 0 && t < 1 {
					out = append(out, quadAt(cur, c, end, t))
				}
			}
			cur = end
			out = append(out, cur)
		case len(s.Points) > 0:
			cur = s.Points[len(s.Points)-1]
			if s.Op == 'M' {
				start = cur
			}
			out = append(out, cur)
		}
	}
	return out
}

// cubicTurns solves B'(t) = 0 for one axis of a cubic and keeps the roots
// strictly inside (0, 1).
func cubicTurns(p0, p1, p2, p3 float64) []float64 {
	a, b, c := p1-p0, p2-p1, p3-p2
	qa, qb, qc := a-2*b+c, 2*(b-a), a
	var roots []float64
	if math.Abs(qa) < 1e-12 {
		if math.Abs(qb) > 1e-12 {
			roots = append(roots, -qc/qb)
		}
	} else {
		disc := qb*qb - 4*qa*qc
		if disc >= 0 {
			sq := math.Sqrt(disc)
			roots = append(roots, (-qb+sq)/(2*qa), (-qb-sq)/(2*qa))
		}
	}
	out := roots[:0]
	for _, t := range roots {
		if t > 0 && t < 1 {
			out = append(out, t)
		}
	}
	return out
}

// quadTurn returns the parameter where a quadratic turns on one axis, or
// -1 when it is monotonic.
func quadTurn(p0, p1, p2 float64) float64 {
	d := p0 - 2*p1 + p2
	if math.Abs(d) < 1e-12 {
		return -1
	}
	return (p0 - p1) / d
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	w0, w1, w2, w3 := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return Point{
		X: w0*p0.X + w1*p1.X + w2*p2.X + w3*p3.X,
		Y: w0*p0.Y + w1*p1.Y + w2*p2.Y + w3*p3.Y,
	}
}

func quadAt(p0, p1, p2 Point, t float64) Point {
	mt := 1 - t
	w0, w1, w2 := mt*mt, 2*mt*t, t*t
	return Point{
		X: w0*p0.X + w1*p1.X + w2*p2.X,
		Y: w0*p0.Y + w1*p1.Y + w2*p2.Y,
	}
}

// FormatPathData renders segments back into compact absolute path data.
func FormatPathData(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(s.Op)
		for j, p := range s.Points {
			if j == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteString(", ")
			}
			b.WriteString(FormatNumber(p.X))
			b.WriteByte(' ')
			b.WriteString(FormatNumber(p.Y))
		}
	}
	return b.String()
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func readPoint(sc *scanner) (Point, bool) {
	x, ok := sc.number()
	if !ok {
		return Point{}, false
	}
	y, ok := sc.number()
	if !ok {
		return Point{}, false
	}
	return Point{x, y}, true
}

func readPoints(sc *scanner, n int) ([]Point, bool) {
	pts := make([]Point, n)
	for i := range pts {
		p, ok := readPoint(sc)
		if !ok {
			return nil, false
		}
		pts[i] = p
	}
	return pts, true
}

// arcToCubics converts an endpoint-parameterized elliptical arc to cubic
// Bézier segments of at most 90 degrees each.
func arcToCubics(p0 Point, rx, ry, phiDeg float64, large, sweep bool, p1 Point) [][3]Point {
	if p0 == p1 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return [][3]Point{{p0, p1, p1}}
	}

	phi := phiDeg * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx2 := (p0.X - p1.X) / 2
	dy2 := (p0.Y - p1.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// scale radii up when they cannot span the endpoints
	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 {
		coef = math.Sqrt(math.Max(0, num/den))
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (p0.X+p1.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p0.Y+p1.Y)/2

	ux, uy := (x1p-cxp)/rx, (y1p-cyp)/ry
	vx, vy := (-x1p-cxp)/rx, (-y1p-cyp)/ry
	theta1 := math.Atan2(uy, ux)
	dtheta := math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	} else if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(dtheta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	delta := dtheta / float64(n)
	t := 4.0 / 3.0 * math.Tan(delta/4)

	at := func(a float64) (Point, Point) {
		cosA, sinA := math.Cos(a), math.Sin(a)
		p := Point{
			X: cx + rx*cosA*cosPhi - ry*sinA*sinPhi,
			Y: cy + rx*cosA*sinPhi + ry*sinA*cosPhi,
		}
		d := Point{
			X: -rx*sinA*cosPhi - ry*cosA*sinPhi,
			Y: -rx*sinA*sinPhi + ry*cosA*cosPhi,
		}
		return p, d
	}

	out := make([][3]Point, 0, n)
	from := p0
	for i := 0; i < n; i++ {
		a1 := theta1 + float64(i)*delta
		a2 := a1 + delta
		_, d1 := at(a1)
		e2, d2 := at(a2)
		if i == n-1 {
			e2 = p1
		}
		c1 := Point{from.X + t*d1.X, from.Y + t*d1.Y}
		c2 := Point{e2.X - t*d2.X, e2.Y - t*d2.Y}
		out = append(out, [3]Point{c1, c2, e2})
		from = e2
	}
	return out
}
