package engine

import (
	"math"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/geom"
)

// Average glyph advance as a fraction of the font size, used to estimate
// text extents without font metrics.
const glyphAdvance = 0.6

// BuildSceneGraph builds a render-ready scene graph from the document.
func BuildSceneGraph(doc *document.Document) *SceneGraph {
	sg := NewSceneGraph()
	if doc == nil {
		return sg
	}
	for _, id := range doc.Root {
		obj, ok := doc.Objects[id]
		if !ok {
			continue
		}
		if child := buildNode(doc, &obj, sg.Root, sg); child != nil {
			sg.Root.Children = append(sg.Root.Children, child)
		}
	}
	return sg
}

// buildNode recursively builds a SceneNode from a document node.
func buildNode(doc *document.Document, obj *document.Node, parent *SceneNode, sg *SceneGraph) *SceneNode {
	// an unparsable transform renders untransformed rather than hiding the node
	localMatrix, err := geom.ParseTransform(obj.Transform)
	if err != nil {
		localMatrix = geom.Identity()
	}
	worldMatrix := parent.WorldTransform.Multiply(localMatrix)

	node := &SceneNode{
		ID:             obj.ID,
		Type:           obj.Type,
		LocalTransform: localMatrix,
		WorldTransform: worldMatrix,
		Opacity:        parent.Opacity * obj.Style.Opacity,
		Parent:         parent,
		Fill:           obj.Style.Fill,
		Stroke:         obj.Style.Stroke,
		StrokeWidth:    obj.Style.StrokeWidth,
	}
	if ref, ok := document.PaintRef(obj.Style.Fill); ok {
		if g, ok := doc.Defs[ref]; ok {
			node.FillGradient = &g
		}
	}

	// Generate geometry based on node type
	var local []geom.Point
	switch obj.Type {
	case document.NodeTypeText:
		g := obj.Geometry
		size := g.FontSize
		if size <= 0 {
			size = 16
		}
		node.Text = g.Text
		node.TextOrigin = geom.Point{X: g.X, Y: g.Y}
		node.FontSize = size
		box := geom.Rect{X: g.X, Y: g.Y - size, Width: glyphAdvance * size * float64(len([]rune(g.Text))), Height: size}
		c := box.Corners()
		local = c[:]
	case document.NodeTypeGroup:
	default:
		segs := nodeSegments(obj)
		node.Path = toPathCommands(segs)
		local = geom.Extrema(segs)
	}

	if len(local) > 0 {
		node.LocalBounds = geom.BoundsOf(local)
		world := make([]geom.Point, len(local))
		for i, p := range local {
			world[i] = worldMatrix.TransformPoint(p)
		}
		node.Bounds = geom.BoundsOf(world)
		node.HasBounds = true
	}

	// Register node in the lookup map
	sg.NodesById[obj.ID] = node

	// Build children
	for _, childID := range obj.Children {
		childObj, ok := doc.Objects[childID]
		if !ok {
			continue
		}
		child := buildNode(doc, &childObj, node, sg)
		node.Children = append(node.Children, child)
		if !child.HasBounds {
			continue
		}
		// Expand bounds to include children
		inGroup := child.LocalTransform.TransformRect(child.LocalBounds)
		if node.HasBounds {
			node.Bounds = node.Bounds.Union(child.Bounds)
			node.LocalBounds = node.LocalBounds.Union(inGroup)
		} else {
			node.Bounds = child.Bounds
			node.LocalBounds = inGroup
			node.HasBounds = true
		}
	}

	return node
}

// nodeSegments generates the outline of a shape in its own coordinates.
func nodeSegments(obj *document.Node) []geom.Segment {
	g := obj.Geometry
	switch obj.Type {
	case document.NodeTypeRect:
		return closedPolyline([]geom.Point{
			{X: g.X, Y: g.Y},
			{X: g.X + g.Width, Y: g.Y},
			{X: g.X + g.Width, Y: g.Y + g.Height},
			{X: g.X, Y: g.Y + g.Height},
		})
	case document.NodeTypeCircle:
		return ellipseSegments(g.CX, g.CY, g.R, g.R)
	case document.NodeTypeEllipse:
		return ellipseSegments(g.CX, g.CY, g.RX, g.RY)
	case document.NodeTypePolygon:
		return closedPolyline(g.Points)
	case document.NodeTypePath:
		segs, err := geom.ParsePathData(g.D)
		if err != nil {
			return nil
		}
		return segs
	}
	return nil
}

func closedPolyline(pts []geom.Point) []geom.Segment {
	if len(pts) == 0 {
		return nil
	}
	segs := make([]geom.Segment, 0, len(pts)+1)
	segs = append(segs, geom.Segment{Op: 'M', Points: []geom.Point{pts[0]}})
	for _, p := range pts[1:] {
		segs = append(segs, geom.Segment{Op: 'L', Points: []geom.Point{p}})
	}
	return append(segs, geom.Segment{Op: 'Z'})
}

// ellipseSegments approximates an ellipse with four cubic Béziers.
func ellipseSegments(cx, cy, rx, ry float64) []geom.Segment {
	// k = 4 * (sqrt(2) - 1) / 3
	k := 4 * (math.Sqrt2 - 1) / 3
	kx, ky := rx*k, ry*k
	pt := func(x, y float64) geom.Point { return geom.Point{X: cx + x, Y: cy + y} }
	return []geom.Segment{
		{Op: 'M', Points: []geom.Point{pt(rx, 0)}},
		{Op: 'C', Points: []geom.Point{pt(rx, ky), pt(kx, ry), pt(0, ry)}},
		{Op: 'C', Points: []geom.Point{pt(-kx, ry), pt(-rx, ky), pt(-rx, 0)}},
		{Op: 'C', Points: []geom.Point{pt(-rx, -ky), pt(-kx, -ry), pt(0, -ry)}},
		{Op: 'C', Points: []geom.Point{pt(kx, -ry), pt(rx, -ky), pt(rx, 0)}},
		{Op: 'Z'},
	}
}

// toPathCommands flattens segments into Canvas2D-style commands.
func toPathCommands(segs []geom.Segment) []PathCommand {
	if len(segs) == 0 {
		return nil
	}
	out := make([]PathCommand, 0, len(segs))
	for _, s := range segs {
		cmd := PathCommand{string(s.Op)}
		for _, p := range s.Points {
			cmd = append(cmd, p.X, p.Y)
		}
		out = append(out, cmd)
	}
	return out
}
