package tools

import (
	"slices"

	"github.com/inamate/svgedit/internal/geom"
	"github.com/inamate/svgedit/internal/shapes"
)

// PathTool collects points for a freehand path. Each pointer-down adds a
// snapped point; moving shows a straight segment from the last point.
type PathTool struct {
	points []geom.Point
	cursor *geom.Point
}

func (t *PathTool) PointerDown(ws Workspace, ev PointerEvent) {
	t.points = append(t.points, ws.Snap(ws.ToDocument(ev.Client)))
	t.cursor = nil
}

func (t *PathTool) PointerMove(ws Workspace, ev PointerEvent) {
	if len(t.points) == 0 {
		return
	}
	p := ws.Snap(ws.ToDocument(ev.Client))
	t.cursor = &p
}

func (t *PathTool) PointerUp(Workspace, PointerEvent) {}

func (t *PathTool) Reset() {
	t.points = nil
	t.cursor = nil
}

// Points returns a copy of the collected points.
func (t *PathTool) Points() []geom.Point {
	return slices.Clone(t.points)
}

// Preview is the path data of the path drawn so far.
func (t *PathTool) Preview() string {
	return shapes.SmoothPathData(t.points)
}

// Segment is the rubber-band segment from the last point to the pointer.
func (t *PathTool) Segment() (string, bool) {
	if t.cursor == nil || len(t.points) == 0 {
		return "", false
	}
	return shapes.SegmentData(t.points[len(t.points)-1], *t.cursor), true
}

// Take hands over the collected points and clears the tool. With fewer than
// two points nothing is returned and the points are kept.
func (t *PathTool) Take() ([]geom.Point, bool) {
	if len(t.points) < 2 {
		return nil, false
	}
	pts := t.points
	t.Reset()
	return pts, true
}
