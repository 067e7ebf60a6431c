package engine

import (
	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/geom"
)

// SceneGraph is the evaluated, render-ready state of the document.
// It is retained between renders and rebuilt only when the document changes.
type SceneGraph struct {
	Root      *SceneNode
	NodesById map[string]*SceneNode
}

// SceneNode is a resolved node ready for rendering.
// All transforms are computed and inherited properties resolved.
type SceneNode struct {
	ID   string
	Type document.NodeType

	// Transform state
	WorldTransform geom.Matrix2D // parent world * local
	LocalTransform geom.Matrix2D // parsed from the node's transform attribute

	// Inherited/resolved properties
	Opacity float64

	// Hierarchy
	Parent   *SceneNode
	Children []*SceneNode

	// Render data
	Path         []PathCommand
	Fill         string
	FillGradient *document.Gradient
	Stroke       string
	StrokeWidth  float64
	Text         string
	TextOrigin   geom.Point
	FontSize     float64

	// Bounds is the axis-aligned box in document space, children included.
	// LocalBounds is the same box in the node's own coordinates, before its
	// transform is applied. Both are meaningless when HasBounds is false.
	Bounds      geom.Rect
	LocalBounds geom.Rect
	HasBounds   bool
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], etc.
type PathCommand []any

// NewSceneGraph creates an empty scene graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{
		Root:      &SceneNode{WorldTransform: geom.Identity(), LocalTransform: geom.Identity(), Opacity: 1},
		NodesById: make(map[string]*SceneNode),
	}
}

// Node returns the scene node for a document id.
func (sg *SceneGraph) Node(id string) (*SceneNode, bool) {
	n, ok := sg.NodesById[id]
	return n, ok
}

// Renderable reports whether the node draws anything itself.
func (n *SceneNode) Renderable() bool {
	return len(n.Path) > 0 || n.Type == document.NodeTypeText
}
