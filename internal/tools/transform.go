package tools

import (
	"math"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/geom"
)

type origin struct {
	id        string
	transform string
	box       geom.Rect
}

// TransformTool drags the selection. Each move rebuilds every node's
// transform from the value it had at pointer-down plus one translate,
// scale or rotate step, so the composition never accumulates.
type TransformTool struct {
	start   *geom.Point
	origins []origin
}

func (t *TransformTool) PointerDown(ws Workspace, ev PointerEvent) {
	sel := ws.Selection()
	if sel.Len() == 0 {
		return
	}
	doc := ws.Document()
	p := ws.ToDocument(ev.Client)
	t.start = &p
	t.origins = t.origins[:0]
	ids := sel.IDs()
	for _, id := range ids {
		n, ok := doc.Node(id)
		if !ok || hasAncestorIn(doc, id, ids) {
			continue
		}
		box, _ := ws.LocalBounds(id)
		t.origins = append(t.origins, origin{id: id, transform: n.Transform, box: box})
	}
}

func (t *TransformTool) PointerMove(ws Workspace, ev PointerEvent) {
	if t.start == nil {
		return
	}
	d := ws.ToDocument(ev.Client).Sub(*t.start)
	mode := ws.TransformMode()
	for _, o := range t.origins {
		ws.SetTransform(o.id, Compose(o.transform, o.box, mode, d.X, d.Y))
	}
}

func (t *TransformTool) PointerUp(ws Workspace, _ PointerEvent) {
	if t.start == nil {
		return
	}
	t.Reset()
	ws.Commit("transform")
}

// Cancel abandons a drag in progress and puts back the transforms the
// nodes had at pointer-down. Nothing is committed.
func (t *TransformTool) Cancel(ws Workspace) {
	if t.start == nil {
		return
	}
	for _, o := range t.origins {
		ws.SetTransform(o.id, o.transform)
	}
	t.Reset()
}

func (t *TransformTool) Reset() {
	t.start = nil
	t.origins = nil
}

// Active reports whether a drag is in progress.
func (t *TransformTool) Active() bool {
	return t.start != nil
}

// Compose appends one transform step for a drag of (dx, dy) to base. Scale
// factors are 1 + delta/dimension of box, or 1 when the dimension is 0.
// Rotation is atan2(dy, dx) degrees about the center of box.
func Compose(base string, box geom.Rect, mode TransformMode, dx, dy float64) string {
	switch mode {
	case Scale:
		sx, sy := 1.0, 1.0
		if box.Width != 0 {
			sx = 1 + dx/box.Width
		}
		if box.Height != 0 {
			sy = 1 + dy/box.Height
		}
		return geom.AppendTransform(base, geom.ScaleString(sx, sy))
	case Rotate:
		angle := math.Atan2(dy, dx) * 180 / math.Pi
		return geom.AppendTransform(base, geom.RotateString(angle, box.Center()))
	default:
		return geom.AppendTransform(base, geom.TranslateString(dx, dy))
	}
}

// hasAncestorIn reports whether one of ids is an ancestor of id. Such a node
// already moves with its ancestor and must not be transformed again.
func hasAncestorIn(doc *document.Document, id string, ids []string) bool {
	for _, other := range ids {
		if other != id && doc.IsAncestor(other, id) {
			return true
		}
	}
	return false
}
