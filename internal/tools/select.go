package tools

import "github.com/inamate/svgedit/internal/geom"

// SelectTool implements marquee selection. While dragging, the selection is
// every node whose bounds lie fully inside the marquee; a click without a
// drag picks the topmost node under the pointer.
type SelectTool struct {
	start   geom.Point
	marquee *geom.Rect
}

func (t *SelectTool) PointerDown(ws Workspace, ev PointerEvent) {
	t.start = ws.ToDocument(ev.Client)
	t.marquee = &geom.Rect{X: t.start.X, Y: t.start.Y}
}

func (t *SelectTool) PointerMove(ws Workspace, ev PointerEvent) {
	if t.marquee == nil {
		return
	}
	r := geom.RectFromCorners(t.start, ws.ToDocument(ev.Client))
	t.marquee = &r
	ws.Selection().Replace(Contained(ws, r)...)
}

func (t *SelectTool) PointerUp(ws Workspace, ev PointerEvent) {
	if t.marquee == nil {
		return
	}
	if t.marquee.Width == 0 && t.marquee.Height == 0 {
		sel := ws.Selection()
		id, ok := ws.HitTest(t.start)
		switch {
		case ok && ev.Ctrl:
			sel.Toggle(id)
		case ok:
			sel.Replace(id)
		case !ev.Ctrl:
			sel.Clear()
		}
	}
	t.marquee = nil
}

func (t *SelectTool) Reset() {
	t.marquee = nil
}

// Marquee returns the rect being dragged, if any.
func (t *SelectTool) Marquee() (geom.Rect, bool) {
	if t.marquee == nil {
		return geom.Rect{}, false
	}
	return *t.marquee, true
}

// Contained lists, in document order, every node at any depth whose bounds
// lie entirely within r.
func Contained(ws Workspace, r geom.Rect) []string {
	var out []string
	for _, id := range ws.Document().Ordered() {
		if b, ok := ws.Bounds(id); ok && r.ContainsRect(b) {
			out = append(out, id)
		}
	}
	return out
}
