package engine

import (
	"encoding/json"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/geom"
)

// --- Queries (frontend ← engine) ---

// Render returns the draw commands for the current document as JSON.
func (e *Engine) Render() string {
	result, _ := DrawCommandsToJSON(CompileDrawCommands(e.scene()))
	return result
}

// DrawCommands returns the compiled draw commands in painter's order.
func (e *Engine) DrawCommands() []DrawCommand {
	return CompileDrawCommands(e.scene())
}

// ElementSummary is one row of the element list panel.
type ElementSummary struct {
	ID       string            `json:"id"`
	Type     document.NodeType `json:"type"`
	Selected bool              `json:"selected"`
	Children []ElementSummary  `json:"children,omitempty"`
}

// Elements summarizes the document tree for the element list.
func (e *Engine) Elements() []ElementSummary {
	return e.summarize(e.doc.Root)
}

func (e *Engine) summarize(ids []string) []ElementSummary {
	out := make([]ElementSummary, 0, len(ids))
	for _, id := range ids {
		n, ok := e.doc.Node(id)
		if !ok {
			continue
		}
		s := ElementSummary{ID: id, Type: n.Type, Selected: e.sel.Has(id)}
		if len(n.Children) > 0 {
			s.Children = e.summarize(n.Children)
		}
		out = append(out, s)
	}
	return out
}

// StyleInfo is what the style panel shows for a single selected node.
type StyleInfo struct {
	ID          string  `json:"id"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

// StylePanel returns the paint of the single selected node.
func (e *Engine) StylePanel() (StyleInfo, bool) {
	id, ok := e.sel.Single()
	if !ok {
		return StyleInfo{}, false
	}
	n, ok := e.doc.Node(id)
	if !ok {
		return StyleInfo{}, false
	}
	return StyleInfo{
		ID:          id,
		Fill:        n.Style.Fill,
		Stroke:      n.Style.Stroke,
		StrokeWidth: n.Style.StrokeWidth,
		Opacity:     n.Style.Opacity,
	}, true
}

// TransformHandles returns the document-space box of the single selected
// node, around which the handle overlay is drawn.
func (e *Engine) TransformHandles() (geom.Rect, bool) {
	id, ok := e.sel.Single()
	if !ok {
		return geom.Rect{}, false
	}
	return e.Bounds(id)
}

// SelectionBounds returns the combined box of every selected node.
func (e *Engine) SelectionBounds() (geom.Rect, bool) {
	return SelectionBounds(e.scene(), e.sel.IDs())
}

// Overlay is the transient editor chrome drawn above the document.
type Overlay struct {
	Tool        string     `json:"tool"`
	Marquee     *geom.Rect `json:"marquee,omitempty"`
	PathPreview string     `json:"pathPreview,omitempty"`
	PathSegment string     `json:"pathSegment,omitempty"`
	Handles     *geom.Rect `json:"handles,omitempty"`
	GridSize    float64    `json:"gridSize,omitempty"`
	Zoom        float64    `json:"zoom"`
}

func (e *Engine) Overlay() Overlay {
	o := Overlay{Tool: e.tools.Current().String(), Zoom: e.viewport.ZoomLevel()}
	if r, ok := e.tools.Select.Marquee(); ok {
		o.Marquee = &r
	}
	o.PathPreview = e.tools.Path.Preview()
	if seg, ok := e.tools.Path.Segment(); ok {
		o.PathSegment = seg
	}
	if r, ok := e.TransformHandles(); ok {
		o.Handles = &r
	}
	if e.showGrid {
		o.GridSize = e.snapper.GridSize
	}
	return o
}

// GetDocument returns the full document as JSON.
func (e *Engine) GetDocument() string {
	data, _ := json.Marshal(e.doc)
	return string(data)
}

// GetSelection returns the selected ids in selection order.
func (e *Engine) GetSelection() []string {
	return e.sel.IDs()
}
