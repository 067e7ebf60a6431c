// Package shapes builds new document nodes with default geometry and paint.
// Nodes come back without an id; the caller assigns one from Kind.
package shapes

import (
	"errors"
	"fmt"
	"math"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/geom"
)

var ErrUnknownKind = errors.New("unknown shape kind")

// Kind names a shape that can be added from the toolbar. It doubles as the
// id prefix of the created node.
type Kind string

const (
	KindRect    Kind = "rect"
	KindCircle  Kind = "circle"
	KindText    Kind = "text"
	KindEllipse Kind = "ellipse"
	KindPolygon Kind = "polygon"
	KindStar    Kind = "star"
	KindPath    Kind = "path"
)

// Kinds lists every kind the factory can build, in toolbar order.
var Kinds = []Kind{KindRect, KindCircle, KindText, KindEllipse, KindPolygon, KindStar}

// Default paint per kind.
var defaultPaint = map[Kind]document.Style{
	KindRect:    {Fill: "#f06", Opacity: 1},
	KindCircle:  {Fill: "#0f6", Opacity: 1},
	KindText:    {Fill: "#000000", Opacity: 1},
	KindEllipse: {Fill: "#4CAF50", Stroke: "#000", StrokeWidth: 2, Opacity: 1},
	KindPolygon: {Fill: "#9C27B0", Stroke: "#000", StrokeWidth: 2, Opacity: 1},
	KindStar:    {Fill: "#FFD700", Stroke: "#000", StrokeWidth: 2, Opacity: 1},
	KindPath:    {Fill: "none", Stroke: "#000", StrokeWidth: 2, Opacity: 1},
}

const (
	DefaultText     = "Hello, SVG!"
	DefaultFontSize = 20
)

// Factory creates nodes using the default paint, optionally overridden.
type Factory struct {
	paint map[Kind]document.Style
}

func NewFactory() *Factory {
	f := &Factory{paint: make(map[Kind]document.Style, len(defaultPaint))}
	for k, s := range defaultPaint {
		f.paint[k] = s
	}
	return f
}

// Override replaces the non-empty paint fields of kind with those of s.
func (f *Factory) Override(kind Kind, s document.Style) {
	p := f.paint[kind]
	if s.Fill != "" {
		p.Fill = s.Fill
	}
	if s.Stroke != "" {
		p.Stroke = s.Stroke
	}
	if s.StrokeWidth > 0 {
		p.StrokeWidth = s.StrokeWidth
	}
	if s.Opacity > 0 {
		p.Opacity = document.ClampOpacity(s.Opacity)
	}
	f.paint[kind] = p
}

// Paint returns the paint new nodes of kind receive.
func (f *Factory) Paint(kind Kind) document.Style {
	return f.paint[kind]
}

// New builds the default node for kind.
func (f *Factory) New(kind Kind) (document.Node, error) {
	switch kind {
	case KindRect:
		return f.Rect(), nil
	case KindCircle:
		return f.Circle(), nil
	case KindText:
		return f.Text(), nil
	case KindEllipse:
		return f.Ellipse(), nil
	case KindPolygon:
		return f.Polygon(4), nil
	case KindStar:
		return f.Star(5), nil
	}
	return document.Node{}, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
}

func (f *Factory) Rect() document.Node {
	return document.Node{
		Type:     document.NodeTypeRect,
		Geometry: document.Geometry{X: 50, Y: 50, Width: 100, Height: 50},
		Style:    f.paint[KindRect],
	}
}

func (f *Factory) Circle() document.Node {
	return document.Node{
		Type:     document.NodeTypeCircle,
		Geometry: document.Geometry{CX: 125, CY: 125, R: 25},
		Style:    f.paint[KindCircle],
	}
}

// Text places the baseline one font size below (50, 50).
func (f *Factory) Text() document.Node {
	return document.Node{
		Type:     document.NodeTypeText,
		Geometry: document.Geometry{X: 50, Y: 50 + DefaultFontSize, Text: DefaultText, FontSize: DefaultFontSize},
		Style:    f.paint[KindText],
	}
}

func (f *Factory) Ellipse() document.Node {
	return document.Node{
		Type:     document.NodeTypeEllipse,
		Geometry: document.Geometry{CX: 175, CY: 150, RX: 75, RY: 50},
		Style:    f.paint[KindEllipse],
	}
}

// Polygon is a regular polygon of the given number of sides inscribed in the
// 100x100 box at (100, 100). Fewer than 3 sides falls back to 4.
func (f *Factory) Polygon(sides int) document.Node {
	if sides < 3 {
		sides = 4
	}
	return document.Node{
		Type:     document.NodeTypePolygon,
		Geometry: document.Geometry{Points: RegularPolygon(sides, 50, geom.Point{X: 150, Y: 150})},
		Style:    f.paint[KindPolygon],
	}
}

// Star is a closed path with the given number of tips.
func (f *Factory) Star(tips int) document.Node {
	if tips < 3 {
		tips = 5
	}
	pts := StarPoints(tips, 50, 19, geom.Point{X: 150, Y: 150})
	return document.Node{
		Type:     document.NodeTypePath,
		Geometry: document.Geometry{D: closedPathData(pts)},
		Style:    f.paint[KindStar],
	}
}

// Freehand builds the finished path node for the points collected by the
// path tool.
func (f *Factory) Freehand(points []geom.Point) document.Node {
	return document.Node{
		Type:     document.NodeTypePath,
		Geometry: document.Geometry{D: SmoothPathData(points)},
		Style:    f.paint[KindPath],
	}
}

// RegularPolygon returns the vertices of a regular polygon with its first
// vertex straight above center.
func RegularPolygon(sides int, radius float64, center geom.Point) []geom.Point {
	pts := make([]geom.Point, sides)
	for i := range pts {
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(sides)
		pts[i] = polar(center, radius, a)
	}
	return pts
}

// StarPoints alternates outer and inner vertices, starting at the top tip.
func StarPoints(tips int, outer, inner float64, center geom.Point) []geom.Point {
	pts := make([]geom.Point, 0, tips*2)
	step := math.Pi / float64(tips)
	for i := range tips * 2 {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		pts = append(pts, polar(center, r, -math.Pi/2+step*float64(i)))
	}
	return pts
}

func polar(c geom.Point, r, a float64) geom.Point {
	// rounded so generated markup stays short
	x := math.Round((c.X+r*math.Cos(a))*100) / 100
	y := math.Round((c.Y+r*math.Sin(a))*100) / 100
	return geom.Point{X: x, Y: y}
}

// SmoothPathData renders the path tool's points: a line to the second point,
// then one cubic per further point with its control points at 1/3 and 2/3
// of the segment.
func SmoothPathData(points []geom.Point) string {
	if len(points) == 0 {
		return ""
	}
	segs := []geom.Segment{{Op: 'M', Points: []geom.Point{points[0]}}}
	for i := 1; i < len(points); i++ {
		p1, p2 := points[i-1], points[i]
		if i == 1 {
			segs = append(segs, geom.Segment{Op: 'L', Points: []geom.Point{p2}})
			continue
		}
		d := p2.Sub(p1)
		segs = append(segs, geom.Segment{Op: 'C', Points: []geom.Point{
			{X: p1.X + d.X/3, Y: p1.Y + d.Y/3},
			{X: p1.X + 2*d.X/3, Y: p1.Y + 2*d.Y/3},
			p2,
		}})
	}
	return geom.FormatPathData(segs)
}

// SegmentData is the straight rubber-band segment from a to b.
func SegmentData(a, b geom.Point) string {
	return geom.FormatPathData([]geom.Segment{
		{Op: 'M', Points: []geom.Point{a}},
		{Op: 'L', Points: []geom.Point{b}},
	})
}

func closedPathData(pts []geom.Point) string {
	segs := make([]geom.Segment, 0, len(pts)+1)
	for i, p := range pts {
		op := byte('L')
		if i == 0 {
			op = 'M'
		}
		segs = append(segs, geom.Segment{Op: op, Points: []geom.Point{p}})
	}
	segs = append(segs, geom.Segment{Op: 'Z'})
	return geom.FormatPathData(segs)
}
