package engine

import (
	"fmt"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/geom"
	"github.com/inamate/svgedit/internal/shapes"
)

// AddShape appends the default shape of kind at top level and returns its id.
func (e *Engine) AddShape(kind shapes.Kind) (string, error) {
	n, err := e.factory.New(kind)
	if err != nil {
		return "", err
	}
	n.ID = e.doc.GenerateUniqueID(string(kind))
	return e.add(n, string(kind))
}

func (e *Engine) AddRect() string    { return e.mustAdd(shapes.KindRect) }
func (e *Engine) AddCircle() string  { return e.mustAdd(shapes.KindCircle) }
func (e *Engine) AddText() string    { return e.mustAdd(shapes.KindText) }
func (e *Engine) AddEllipse() string { return e.mustAdd(shapes.KindEllipse) }
func (e *Engine) AddPolygon() string { return e.mustAdd(shapes.KindPolygon) }
func (e *Engine) AddStar() string    { return e.mustAdd(shapes.KindStar) }

func (e *Engine) mustAdd(kind shapes.Kind) string {
	id, _ := e.AddShape(kind)
	return id
}

// AddNode appends a caller-built node at top level. An empty id is
// generated from the node type; paint references must resolve. A zero
// opacity means unset and becomes 1.
func (e *Engine) AddNode(n document.Node) (string, error) {
	if n.ID == "" {
		n.ID = e.doc.GenerateUniqueID(n.Type.Prefix())
	}
	if !e.doc.ResolvesPaint(n.Style.Fill) || !e.doc.ResolvesPaint(n.Style.Stroke) {
		return "", fmt.Errorf("add %s: unresolved paint reference", n.ID)
	}
	if n.Type == document.NodeTypePath {
		if _, err := geom.ParsePathData(n.Geometry.D); err != nil {
			return "", fmt.Errorf("add %s: %w", n.ID, err)
		}
	}
	n.Children = nil
	if n.Style.Opacity == 0 {
		n.Style.Opacity = 1
	}
	n.Style.Opacity = document.ClampOpacity(n.Style.Opacity)
	return e.add(n, "add "+string(n.Type))
}

func (e *Engine) add(n document.Node, action string) (string, error) {
	if err := e.doc.Append(n, nil); err != nil {
		return "", err
	}
	e.commit(action)
	return n.ID, nil
}

// Group moves the selected nodes into a new top-level group. Nodes keep
// their ids and document order; a selected node inside another selected
// node moves with its ancestor. Needs at least two selected nodes.
func (e *Engine) Group() (string, bool) {
	if e.sel.Len() < 2 {
		return "", false
	}

	var members []string
	for _, id := range e.doc.Ordered() {
		if !e.sel.Has(id) || e.hasSelectedAncestor(id) {
			continue
		}
		members = append(members, id)
	}

	groupID := e.doc.GenerateUniqueID(document.NodeTypeGroup.Prefix())
	group := document.Node{ID: groupID, Type: document.NodeTypeGroup, Style: document.Style{Opacity: 1}}
	if err := e.doc.Append(group, nil); err != nil {
		e.logger.Error("group", "error", err)
		return "", false
	}
	for _, id := range members {
		clones, err := e.doc.Extract(id)
		if err == nil {
			err = e.doc.Graft(clones, &groupID, -1)
		}
		if err != nil {
			e.logger.Error("group", "node", id, "error", err)
		}
	}

	e.sel.Replace(groupID)
	e.commit("group")
	return groupID, true
}

func (e *Engine) hasSelectedAncestor(id string) bool {
	for _, other := range e.sel.IDs() {
		if e.doc.IsAncestor(other, id) {
			return true
		}
	}
	return false
}

// Ungroup replaces the single selected group by its children, in order, at
// the group's position. The group's transform and opacity are folded into
// each child. The freed children become the selection.
func (e *Engine) Ungroup() ([]string, bool) {
	id, ok := e.sel.Single()
	if !ok {
		return nil, false
	}
	group, ok := e.doc.Node(id)
	if !ok || !group.IsGroup() {
		return nil, false
	}

	index := e.doc.IndexOf(id)
	children := append([]string(nil), group.Children...)
	for i, c := range children {
		if err := e.doc.Reparent(c, group.Parent, index+i); err != nil {
			e.logger.Error("ungroup", "node", c, "error", err)
			continue
		}
		n := e.doc.Objects[c]
		if group.Transform != "" {
			n.Transform = geom.AppendTransform(group.Transform, n.Transform)
		}
		n.Style.Opacity *= group.Style.Opacity
		e.doc.Objects[c] = n
	}
	if _, err := e.doc.Remove(id); err != nil {
		e.logger.Error("ungroup", "node", id, "error", err)
	}

	e.sel.Replace(children...)
	e.commit("ungroup")
	return children, true
}

// Delete removes a node and its descendants. Unknown ids are ignored.
func (e *Engine) Delete(id string) bool {
	if _, err := e.doc.Remove(id); err != nil {
		return false
	}
	e.sel.Prune(e.doc.Has)
	e.commit("delete")
	return true
}

// DeleteSelected removes every selected node as one history entry.
func (e *Engine) DeleteSelected() bool {
	removed := false
	for _, id := range e.sel.IDs() {
		if _, err := e.doc.Remove(id); err == nil {
			removed = true
		}
	}
	if !removed {
		return false
	}
	e.sel.Clear()
	e.commit("delete")
	return true
}

// updateSingle applies fn to the only selected node and commits. It does
// nothing unless exactly one node is selected or when fn returns false.
func (e *Engine) updateSingle(action string, fn func(n *document.Node) bool) bool {
	id, ok := e.sel.Single()
	if !ok {
		return false
	}
	n, ok := e.doc.Node(id)
	if !ok || !fn(&n) {
		return false
	}
	e.doc.Objects[id] = n
	e.commit(action)
	return true
}

// UpdateOpacity sets the opacity of the single selected node, clamped to [0, 1].
func (e *Engine) UpdateOpacity(v float64) bool {
	return e.updateSingle("opacity", func(n *document.Node) bool {
		n.Style.Opacity = document.ClampOpacity(v)
		return true
	})
}

// UpdateFill sets the fill of the single selected node. A url(#id) fill
// must name an existing gradient.
func (e *Engine) UpdateFill(paint string) bool {
	if !e.doc.ResolvesPaint(paint) {
		return false
	}
	return e.updateSingle("fill", func(n *document.Node) bool {
		n.Style.Fill = paint
		return true
	})
}

func (e *Engine) UpdateStroke(paint string) bool {
	if !e.doc.ResolvesPaint(paint) {
		return false
	}
	return e.updateSingle("stroke", func(n *document.Node) bool {
		n.Style.Stroke = paint
		return true
	})
}

func (e *Engine) UpdateStrokeWidth(w float64) bool {
	if w < 0 {
		return false
	}
	return e.updateSingle("stroke-width", func(n *document.Node) bool {
		n.Style.StrokeWidth = w
		return true
	})
}

// AddGradient defines a two-stop white-to-black gradient and returns the
// url(#id) paint referencing it. Linear gradients run left to right.
func (e *Engine) AddGradient(kind document.GradientType) string {
	if kind != document.GradientRadial {
		kind = document.GradientLinear
	}
	g := document.Gradient{
		ID:   e.doc.GenerateUniqueID("gradient"),
		Type: kind,
		Stops: []document.GradientStop{
			{Offset: "0%", Color: "#ffffff"},
			{Offset: "100%", Color: "#000000"},
		},
	}
	if kind == document.GradientLinear {
		g.X1, g.Y1, g.X2, g.Y2 = "0%", "0%", "100%", "0%"
	}
	e.doc.AddGradient(g)
	e.dirty = true
	return document.PaintURL(g.ID)
}

// SelectElement selects id as a list panel click does: ctrl toggles it,
// otherwise it becomes the whole selection.
func (e *Engine) SelectElement(id string, ctrl bool) bool {
	if _, ok := e.doc.Node(id); !ok {
		return false
	}
	if ctrl {
		e.sel.Toggle(id)
	} else {
		e.sel.Replace(id)
	}
	return true
}

// SetSelection replaces the selection, skipping unknown ids.
func (e *Engine) SetSelection(ids []string) {
	e.sel.Clear()
	for _, id := range ids {
		if _, ok := e.doc.Node(id); ok {
			e.sel.Add(id)
		}
	}
}

// Import replaces the document content with parsed SVG markup, keeping the
// canvas size. On failure the document is left untouched.
func (e *Engine) Import(src string) error {
	doc, err := document.ParseSVG(src)
	if err != nil {
		e.logger.Warn("import rejected", "error", err)
		return err
	}
	doc.Width, doc.Height = e.doc.Width, e.doc.Height
	e.doc = doc
	e.sel.Clear()
	e.tools.Reset()
	e.commit("import")
	return nil
}

// Export serializes the document as SVG markup.
func (e *Engine) Export() ([]byte, error) {
	return document.MarshalSVG(e.doc)
}
