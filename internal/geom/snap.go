package geom

import "math"

// Snapper rounds document positions to a grid and pulls them onto nearby
// reference points.
type Snapper struct {
	Enabled   bool
	GridSize  float64
	Threshold float64
}

// Snap rounds p to the nearest grid intersection when snapping is enabled.
func (s Snapper) Snap(p Point) Point {
	if !s.Enabled || s.GridSize <= 0 {
		return p
	}
	return Point{
		X: math.Round(p.X/s.GridSize) * s.GridSize,
		Y: math.Round(p.Y/s.GridSize) * s.GridSize,
	}
}

// SnapTo returns the candidate closest to p if it lies within Threshold,
// otherwise the grid-snapped p.
func (s Snapper) SnapTo(p Point, candidates []Point) Point {
	if !s.Enabled {
		return p
	}
	best, bestDist := Point{}, math.Inf(1)
	for _, c := range candidates {
		if d := p.Dist(c); d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist <= s.Threshold {
		return best
	}
	return s.Snap(p)
}

// SnapPoints returns the four corners and the center of each rect.
func SnapPoints(rects []Rect) []Point {
	pts := make([]Point, 0, len(rects)*5)
	for _, r := range rects {
		c := r.Corners()
		pts = append(pts, c[0], c[1], c[2], c[3], r.Center())
	}
	return pts
}

// Viewport maps device (client) coordinates onto the document through the
// canvas's screen transform.
type Viewport struct {
	CTM Matrix2D
}

// NewViewport returns a viewport with the canvas origin at (originX, originY)
// and no zoom.
func NewViewport(originX, originY float64) Viewport {
	return Viewport{CTM: Translate(originX, originY)}
}

// ToDocument converts a device position into document space.
func (v Viewport) ToDocument(p Point) Point {
	return v.CTM.Invert().TransformPoint(p)
}

// ToDevice converts a document position into device space.
func (v Viewport) ToDevice(p Point) Point {
	return v.CTM.TransformPoint(p)
}

// Zoom scales the view by 0.9 for a positive wheel delta and 1.1 for a
// negative one, keeping the device point anchor fixed. A zero delta, as
// from a horizontal-only wheel, leaves the view alone.
func (v *Viewport) Zoom(deltaY float64, anchor Point) {
	if deltaY == 0 {
		return
	}
	factor := 1.1
	if deltaY > 0 {
		factor = 0.9
	}
	v.CTM = Translate(anchor.X, anchor.Y).
		Multiply(Scale(factor, factor)).
		Multiply(Translate(-anchor.X, -anchor.Y)).
		Multiply(v.CTM)
}

// ZoomLevel returns the current horizontal scale factor.
func (v Viewport) ZoomLevel() float64 {
	return math.Hypot(v.CTM.A, v.CTM.B)
}
