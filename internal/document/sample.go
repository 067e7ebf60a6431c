package document

import "github.com/inamate/svgedit/internal/geom"

// NewSampleDocument returns a small populated drawing used by the demo page.
func NewSampleDocument(width, height int) *Document {
	doc := NewEmptyDocument(width, height)

	doc.AddGradient(Gradient{
		ID:   "gradient-1",
		Type: GradientLinear,
		X1:   "0%", Y1: "0%", X2: "100%", Y2: "0%",
		Stops: []GradientStop{
			{Offset: "0%", Color: "#e94560"},
			{Offset: "100%", Color: "#0f3460"},
		},
	})

	nodes := []Node{
		{
			ID:       "rect-1",
			Type:     NodeTypeRect,
			Geometry: Geometry{X: 200, Y: 200, Width: 200, Height: 150},
			Style:    Style{Fill: PaintURL("gradient-1"), Stroke: "#000000", StrokeWidth: 2, Opacity: 1},
		},
		{
			ID:       "ellipse-1",
			Type:     NodeTypeEllipse,
			Geometry: Geometry{CX: 560, CY: 300, RX: 120, RY: 80},
			Style:    Style{Fill: "#0f3460", Stroke: "#16213e", StrokeWidth: 2, Opacity: 1},
		},
		{
			ID:       "path-1",
			Type:     NodeTypePath,
			Geometry: Geometry{D: "M 100 500 L 200 350 L 300 500 Z"},
			Style:    Style{Fill: "#53d769", Stroke: "#2d6a4f", StrokeWidth: 2, Opacity: 1},
		},
		{
			ID:        "group-1",
			Type:      NodeTypeGroup,
			Style:     Style{Opacity: 1},
			Transform: "translate(500, 420)",
		},
	}
	for _, n := range nodes {
		_ = doc.Append(n, nil)
	}

	group := "group-1"
	children := []Node{
		{
			ID:       "rect-2",
			Type:     NodeTypeRect,
			Geometry: Geometry{X: -30, Y: -50, Width: 60, Height: 100},
			Style:    Style{Fill: "#f5a623", Stroke: "#c78400", StrokeWidth: 2, Opacity: 1},
		},
		{
			ID:       "polygon-1",
			Type:     NodeTypePolygon,
			Geometry: Geometry{Points: []geom.Point{{X: 0, Y: -90}, {X: 20, Y: -60}, {X: -20, Y: -60}}},
			Style:    Style{Fill: "#bd10e0", Stroke: "#8b0ba8", StrokeWidth: 2, Opacity: 1},
		},
	}
	for _, n := range children {
		_ = doc.Append(n, &group)
	}

	return doc
}
