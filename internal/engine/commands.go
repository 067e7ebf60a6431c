package engine

import (
	"encoding/json"
	"slices"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/geom"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op           string             `json:"op"`                     // "path" or "text"
	ObjectID     string             `json:"objectId,omitempty"`     // For hit correlation
	Transform    []float64          `json:"transform,omitempty"`    // [a, b, c, d, e, f] affine matrix
	Path         []PathCommand      `json:"path,omitempty"`         // Path data for "path" ops
	Fill         string             `json:"fill,omitempty"`         // Fill color or url(#id)
	FillGradient *document.Gradient `json:"fillGradient,omitempty"` // Resolved gradient for url fills
	Stroke       string             `json:"stroke,omitempty"`       // Stroke color
	StrokeWidth  float64            `json:"strokeWidth,omitempty"`  // Stroke width
	Opacity      float64            `json:"opacity"`                // Global alpha
	Text         string             `json:"text,omitempty"`         // Text content for "text" ops
	X            float64            `json:"x,omitempty"`            // Text origin
	Y            float64            `json:"y,omitempty"`
	FontSize     float64            `json:"fontSize,omitempty"`
}

// CompileDrawCommands generates a draw command buffer from a scene graph.
// Commands are in painter's order (back to front).
func CompileDrawCommands(sg *SceneGraph) []DrawCommand {
	if sg == nil || sg.Root == nil {
		return nil
	}

	var commands []DrawCommand
	for _, child := range sg.Root.Children {
		compileNode(child, &commands)
	}
	return commands
}

// compileNode recursively generates draw commands for a node and its children.
func compileNode(node *SceneNode, commands *[]DrawCommand) {
	if node == nil {
		return
	}

	switch {
	case node.Type == document.NodeTypeText:
		*commands = append(*commands, DrawCommand{
			Op:           "text",
			ObjectID:     node.ID,
			Transform:    node.WorldTransform.Array(),
			Fill:         node.Fill,
			FillGradient: node.FillGradient,
			Stroke:       node.Stroke,
			StrokeWidth:  node.StrokeWidth,
			Opacity:      node.Opacity,
			Text:         node.Text,
			X:            node.TextOrigin.X,
			Y:            node.TextOrigin.Y,
			FontSize:     node.FontSize,
		})
	case len(node.Path) > 0:
		*commands = append(*commands, DrawCommand{
			Op:           "path",
			ObjectID:     node.ID,
			Transform:    node.WorldTransform.Array(),
			Path:         node.Path,
			Fill:         node.Fill,
			FillGradient: node.FillGradient,
			Stroke:       node.Stroke,
			StrokeWidth:  node.StrokeWidth,
			Opacity:      node.Opacity,
		})
	}

	// Recurse into children
	for _, child := range node.Children {
		compileNode(child, commands)
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the ID of the topmost renderable node whose bounds contain
// the document point, or false.
func HitTest(sg *SceneGraph, p geom.Point) (string, bool) {
	if sg == nil || sg.Root == nil {
		return "", false
	}
	return hitTestNode(sg.Root, p)
}

// hitTestNode recursively tests a node and its children.
// Children are tested first (they're on top in painter's order).
func hitTestNode(node *SceneNode, p geom.Point) (string, bool) {
	for _, child := range slices.Backward(node.Children) {
		if id, ok := hitTestNode(child, p); ok {
			return id, true
		}
	}
	if node.Renderable() && node.HasBounds && node.Bounds.Contains(p.X, p.Y) {
		return node.ID, true
	}
	return "", false
}

// SelectionBounds returns the combined bounding box of the given node ids.
func SelectionBounds(sg *SceneGraph, ids []string) (geom.Rect, bool) {
	var result geom.Rect
	found := false
	for _, id := range ids {
		node, ok := sg.NodesById[id]
		if !ok || !node.HasBounds {
			continue
		}
		if !found {
			result = node.Bounds
			found = true
		} else {
			result = result.Union(node.Bounds)
		}
	}
	return result, found
}
