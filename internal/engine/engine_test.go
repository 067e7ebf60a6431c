package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/geom"
	"github.com/inamate/svgedit/internal/tools"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultOptions())
}

func at(x, y float64) tools.PointerEvent {
	return tools.PointerEvent{Client: geom.Point{X: x, Y: y}}
}

func drag(e *Engine, from, to geom.Point) {
	e.PointerDown(at(from.X, from.Y))
	e.PointerMove(at(to.X, to.Y))
	e.PointerUp(at(to.X, to.Y))
}

func TestUndoAllReturnsToBaseline(t *testing.T) {
	e := newTestEngine()
	baseline := e.GetDocument()

	const n = 5
	for range n {
		e.AddRect()
	}
	require.Equal(t, n+1, e.HistoryLen())

	for range n {
		require.True(t, e.Undo())
	}
	assert.Equal(t, baseline, e.GetDocument())
	assert.False(t, e.Undo(), "cannot undo past the baseline")
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := newTestEngine()
	before := e.HistoryLen()

	id := e.AddRect()
	assert.Equal(t, before+1, e.HistoryLen())
	added, ok := e.Document().Node(id)
	require.True(t, ok)
	assert.Equal(t, document.Geometry{X: 50, Y: 50, Width: 100, Height: 50}, added.Geometry)
	after := e.GetDocument()

	e.SelectElement(id, false)
	require.True(t, e.Undo())
	_, ok = e.Document().Node(id)
	assert.False(t, ok)
	assert.Empty(t, e.GetSelection(), "undo clears the selection")

	require.True(t, e.Redo())
	assert.Equal(t, after, e.GetDocument())
	restored, _ := e.Document().Node(id)
	assert.Equal(t, added, restored)
}

func TestEditAfterUndoTruncatesFuture(t *testing.T) {
	e := newTestEngine()
	e.AddRect()
	e.AddCircle()
	require.True(t, e.Undo())

	e.AddEllipse()
	assert.False(t, e.CanRedo())
	assert.False(t, e.Redo())

	require.True(t, e.Undo())
	require.True(t, e.Redo())
	_, hasEllipse := e.Document().Node("ellipse-1")
	_, hasCircle := e.Document().Node("circle-1")
	assert.True(t, hasEllipse)
	assert.False(t, hasCircle)
}

func TestGenerateDistinctIDs(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, "rect-1", e.AddRect())
	assert.Equal(t, "rect-2", e.AddRect())
	assert.Equal(t, "star-1", e.AddStar())
	assert.Equal(t, "polygon-1", e.AddPolygon())
	assert.Equal(t, "text-1", e.AddText())

	_, err := e.AddShape("blob")
	assert.Error(t, err)
}

func TestAddNode(t *testing.T) {
	e := newTestEngine()
	id, err := e.AddNode(document.Node{
		Type:     document.NodeTypePath,
		Geometry: document.Geometry{D: "M 0 0 L 10 10"},
		Style:    document.Style{Stroke: "#000", StrokeWidth: 1, Opacity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "path-1", id)

	_, err = e.AddNode(document.Node{Type: document.NodeTypeRect, Style: document.Style{Fill: "url(#nope)"}})
	assert.Error(t, err)
	_, err = e.AddNode(document.Node{ID: "path-1", Type: document.NodeTypeRect})
	assert.ErrorIs(t, err, document.ErrDuplicateID)
	assert.Equal(t, 2, e.HistoryLen())

	id, err = e.AddNode(document.Node{Type: document.NodeTypeRect, Geometry: document.Geometry{Width: 5, Height: 5}})
	require.NoError(t, err)
	n, _ := e.Document().Node(id)
	assert.Equal(t, 1.0, n.Style.Opacity, "unset opacity defaults to opaque")
	svg, err := e.Export()
	require.NoError(t, err)
	assert.NotContains(t, string(svg), `opacity="0"`)
}

func TestGroupUngroup(t *testing.T) {
	e := newTestEngine()
	rect := e.AddRect()
	circle := e.AddCircle()
	ellipse := e.AddEllipse()
	origRect, _ := e.Document().Node(rect)
	origEllipse, _ := e.Document().Node(ellipse)

	// precondition: two or more selected
	e.SelectElement(rect, false)
	_, ok := e.Group()
	assert.False(t, ok)

	e.SelectElement(ellipse, true)
	groupID, ok := e.Group()
	require.True(t, ok)
	assert.Equal(t, "group-1", groupID)
	assert.Equal(t, []string{circle, groupID}, e.Document().Root)
	group, _ := e.Document().Node(groupID)
	assert.Equal(t, []string{rect, ellipse}, group.Children)
	assert.Equal(t, []string{groupID}, e.GetSelection())

	freed, ok := e.Ungroup()
	require.True(t, ok)
	assert.Equal(t, []string{rect, ellipse}, freed)
	assert.Equal(t, []string{circle, rect, ellipse}, e.Document().Root)
	assert.Equal(t, []string{rect, ellipse}, e.GetSelection())
	_, ok = e.Document().Node(groupID)
	assert.False(t, ok)

	gotRect, _ := e.Document().Node(rect)
	gotEllipse, _ := e.Document().Node(ellipse)
	assert.Equal(t, origRect, gotRect)
	assert.Equal(t, origEllipse, gotEllipse)

	// 3 adds, group, ungroup
	assert.Equal(t, 6, e.HistoryLen())

	// ungroup needs a single selected group
	e.SelectElement(rect, false)
	_, ok = e.Ungroup()
	assert.False(t, ok)
}

func TestGroupNestedSelection(t *testing.T) {
	e := newTestEngine()
	e.LoadSampleDocument()

	e.SetSelection([]string{"rect-2", "group-1", "rect-1"})
	groupID, ok := e.Group()
	require.True(t, ok)

	group, _ := e.Document().Node(groupID)
	assert.Equal(t, []string{"rect-1", "group-1"}, group.Children)
	inner, _ := e.Document().Node("group-1")
	assert.Equal(t, []string{"rect-2", "polygon-1"}, inner.Children)
}

func TestUngroupFoldsTransform(t *testing.T) {
	e := newTestEngine()
	e.LoadSampleDocument()
	before, ok := e.Bounds("rect-2")
	require.True(t, ok)

	e.SelectElement("group-1", false)
	_, ok = e.Ungroup()
	require.True(t, ok)

	n, _ := e.Document().Node("rect-2")
	assert.Equal(t, "translate(500, 420)", n.Transform)
	after, ok := e.Bounds("rect-2")
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestMarqueeSelection(t *testing.T) {
	e := newTestEngine()
	rect := e.AddRect()     // 50,50 100x50
	circle := e.AddCircle() // 100,100 50x50

	e.PointerDown(at(0, 0))
	e.PointerMove(at(160, 110))
	assert.Equal(t, []string{rect}, e.GetSelection())
	marquee := e.Overlay().Marquee
	require.NotNil(t, marquee)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 160, Height: 110}, *marquee)

	e.PointerUp(at(160, 110))
	assert.Nil(t, e.Overlay().Marquee)
	assert.NotContains(t, e.GetSelection(), circle)

	drag(e, geom.Point{X: 200, Y: 200}, geom.Point{X: 0, Y: 0})
	assert.Equal(t, []string{rect, circle}, e.GetSelection())
}

func TestClickSelection(t *testing.T) {
	e := newTestEngine()
	rect := e.AddRect()
	circle := e.AddCircle()

	e.PointerDown(at(120, 110))
	e.PointerUp(at(120, 110))
	assert.Equal(t, []string{circle}, e.GetSelection())

	ev := at(60, 60)
	ev.Ctrl = true
	e.PointerDown(ev)
	e.PointerUp(ev)
	assert.Equal(t, []string{circle, rect}, e.GetSelection())
}

func TestTransformTool(t *testing.T) {
	e := newTestEngine()
	rect := e.AddRect()
	e.SetTool(tools.Transform)

	history := e.HistoryLen()
	drag(e, geom.Point{X: 60, Y: 60}, geom.Point{X: 70, Y: 80})
	assert.Equal(t, history, e.HistoryLen(), "empty selection does not start a transform")

	e.SelectElement(rect, false)
	drag(e, geom.Point{X: 60, Y: 60}, geom.Point{X: 70, Y: 80})
	n, _ := e.Document().Node(rect)
	assert.Equal(t, "translate(10, 20)", n.Transform)
	assert.Equal(t, history+1, e.HistoryLen())

	b, ok := e.TransformHandles()
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: 60, Y: 70, Width: 100, Height: 50}, b)

	e.SetTransformMode(tools.Rotate)
	drag(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 0, Y: 5})
	n, _ = e.Document().Node(rect)
	assert.Equal(t, "translate(10, 20) rotate(90, 100, 75)", n.Transform)

	e.SetTransformMode(tools.Scale)
	e.Undo()
	e.SelectElement(rect, false)
	drag(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 50, Y: -25})
	n, _ = e.Document().Node(rect)
	assert.Equal(t, "translate(10, 20) scale(1.5, 0.5)", n.Transform)
}

func TestPathTool(t *testing.T) {
	e := newTestEngine()
	e.StartPath()
	history := e.HistoryLen()

	e.PointerDown(at(10, 10))
	e.PointerUp(at(10, 10))
	_, ok := e.CompletePath()
	assert.False(t, ok)
	assert.Equal(t, history, e.HistoryLen())

	e.PointerMove(at(40, 10))
	assert.Equal(t, "M 10 10 L 40 10", e.Overlay().PathSegment)

	e.PointerDown(at(50, 10))
	e.PointerDown(at(50, 50))
	id, ok := e.CompletePath()
	require.True(t, ok)
	assert.Equal(t, "path-1", id)
	assert.Equal(t, history+1, e.HistoryLen())

	n, _ := e.Document().Node(id)
	assert.Equal(t, "M 10 10 L 50 10 C 50 23.333333, 50 36.666667, 50 50", n.Geometry.D)
	assert.Equal(t, "none", n.Style.Fill)
	assert.Equal(t, "#000", n.Style.Stroke)
	assert.Equal(t, 2.0, n.Style.StrokeWidth)
	assert.Empty(t, e.Overlay().PathPreview)
}

func TestSwitchingToolAbandonsPath(t *testing.T) {
	e := newTestEngine()
	e.StartPath()
	e.PointerDown(at(10, 10))
	e.PointerDown(at(20, 20))

	e.SetTool(tools.Select)
	e.SetTool(tools.Path)
	_, ok := e.CompletePath()
	assert.False(t, ok)
}

func TestPathSnapping(t *testing.T) {
	opts := DefaultOptions()
	opts.SnapEnabled = true
	e := NewEngine(opts)
	e.AddRect() // corners at (50,50) and (150,100)

	e.StartPath()
	e.PointerDown(at(47, 53))
	e.PointerDown(at(133, 9))
	pts := e.tools.Path.Points()
	assert.Equal(t, []geom.Point{{X: 50, Y: 50}, {X: 140, Y: 0}}, pts)
}

func TestPaintUpdates(t *testing.T) {
	e := newTestEngine()
	rect := e.AddRect()
	circle := e.AddCircle()
	history := e.HistoryLen()

	e.SetSelection([]string{rect, circle})
	assert.False(t, e.UpdateFill("#00ff00"))
	assert.False(t, e.UpdateOpacity(0.5))
	assert.Equal(t, history, e.HistoryLen())

	e.SelectElement(rect, false)
	assert.True(t, e.UpdateOpacity(1.5))
	assert.True(t, e.UpdateStroke("#123456"))
	assert.True(t, e.UpdateStrokeWidth(4))
	assert.False(t, e.UpdateStrokeWidth(-1))
	assert.False(t, e.UpdateFill("url(#missing)"))

	paint := e.AddGradient(document.GradientLinear)
	assert.Equal(t, "url(#gradient-1)", paint)
	assert.True(t, e.UpdateFill(paint))

	style, ok := e.StylePanel()
	require.True(t, ok)
	assert.Equal(t, StyleInfo{ID: rect, Fill: paint, Stroke: "#123456", StrokeWidth: 4, Opacity: 1}, style)
	assert.Equal(t, history+4, e.HistoryLen())

	var cmds []DrawCommand
	require.NoError(t, json.Unmarshal([]byte(e.Render()), &cmds))
	require.Len(t, cmds, 2)
	require.NotNil(t, cmds[0].FillGradient)
	assert.Equal(t, "gradient-1", cmds[0].FillGradient.ID)
}

func TestDelete(t *testing.T) {
	e := newTestEngine()
	rect := e.AddRect()
	circle := e.AddCircle()
	e.SetSelection([]string{rect, circle})
	history := e.HistoryLen()

	assert.False(t, e.Delete("missing"))
	assert.Equal(t, history, e.HistoryLen())

	assert.True(t, e.Delete(rect))
	assert.Equal(t, []string{circle}, e.GetSelection())
	assert.Equal(t, history+1, e.HistoryLen())

	assert.True(t, e.HandleKey(KeyEvent{Key: "Delete"}))
	assert.Empty(t, e.Document().Root)
	assert.Empty(t, e.GetSelection())
}

func TestKeyboardShortcuts(t *testing.T) {
	e := newTestEngine()
	rect := e.AddRect()

	assert.True(t, e.HandleKey(KeyEvent{Key: "z", Ctrl: true}))
	_, ok := e.Document().Node(rect)
	assert.False(t, ok)
	assert.True(t, e.HandleKey(KeyEvent{Key: "y", Meta: true}))
	_, ok = e.Document().Node(rect)
	assert.True(t, ok)

	e.AddCircle()
	e.SetSelection([]string{"rect-1", "circle-1"})
	assert.True(t, e.HandleKey(KeyEvent{Key: "g", Ctrl: true}))
	assert.Equal(t, []string{"group-1"}, e.Document().Root)
	assert.True(t, e.HandleKey(KeyEvent{Key: "G", Ctrl: true, Shift: true}))
	assert.Equal(t, []string{"rect-1", "circle-1"}, e.Document().Root)

	assert.False(t, e.HandleKey(KeyEvent{Key: "q"}))
	called := false
	e.Bind("Q", func() { called = true })
	assert.True(t, e.HandleKey(KeyEvent{Key: "q"}))
	assert.True(t, called)
	e.Bind("q", nil)
	assert.False(t, e.HandleKey(KeyEvent{Key: "q"}))
}

func TestImportExport(t *testing.T) {
	e := newTestEngine()
	e.AddRect()
	before := e.GetDocument()
	history := e.HistoryLen()

	err := e.Import("<svg><rect")
	assert.ErrorIs(t, err, document.ErrInvalidSVG)
	assert.Equal(t, before, e.GetDocument())
	assert.Equal(t, history, e.HistoryLen())

	e.SelectElement("rect-1", false)
	src := `<svg xmlns="http://www.w3.org/2000/svg" width="50" height="50">
		<defs><radialGradient id="glow"><stop offset="0" stop-color="#fff"/></radialGradient></defs>
		<circle id="dot" cx="5" cy="5" r="5" fill="url(#glow)"/>
	</svg>`
	require.NoError(t, e.Import(src))
	assert.Equal(t, []string{"dot"}, e.Document().Root)
	assert.Equal(t, 800, e.Document().Width)
	assert.Empty(t, e.GetSelection())
	assert.Equal(t, history+1, e.HistoryLen())

	out, err := e.Export()
	require.NoError(t, err)
	assert.Contains(t, string(out), `<radialGradient id="glow">`)
	assert.Contains(t, string(out), `<circle id="dot" cx="5" cy="5" r="5" fill="url(#glow)"`)
	assert.True(t, strings.Contains(string(out), `viewBox="0 0 800 600"`))

	require.True(t, e.Undo())
	assert.Equal(t, before, e.GetDocument())
}

func TestElementsAndRender(t *testing.T) {
	e := newTestEngine()
	e.LoadSampleDocument()
	assert.Equal(t, 1, e.HistoryLen())
	e.SelectElement("rect-2", false)

	elems := e.Elements()
	require.Len(t, elems, 4)
	assert.Equal(t, "group-1", elems[3].ID)
	require.Len(t, elems[3].Children, 2)
	assert.True(t, elems[3].Children[0].Selected)

	cmds := e.DrawCommands()
	require.Len(t, cmds, 5)
	assert.Equal(t, "rect-1", cmds[0].ObjectID)
	assert.Equal(t, []float64{1, 0, 0, 1, 500, 420}, cmds[3].Transform)

	b, ok := e.Bounds("group-1")
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: 470, Y: 330, Width: 60, Height: 140}, b)

	id, ok := e.HitTest(geom.Point{X: 500, Y: 420})
	require.True(t, ok)
	assert.Equal(t, "rect-2", id)
}

func TestZoomKeepsAnchor(t *testing.T) {
	e := newTestEngine()
	e.SetCanvasOrigin(10, 10)
	anchor := geom.Point{X: 110, Y: 110}
	before := e.ToDocument(anchor)

	e.Zoom(tools.PointerEvent{Client: anchor, DeltaY: -120})
	assert.InDelta(t, 1.1, e.ZoomLevel(), 1e-9)
	after := e.ToDocument(anchor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestAbandonedTransformRollsBack(t *testing.T) {
	e := newTestEngine()
	rect := e.AddRect()
	e.SelectElement(rect, false)
	e.SetTool(tools.Transform)
	history := e.HistoryLen()

	e.PointerDown(at(60, 60))
	e.PointerMove(at(90, 60))
	n, _ := e.Document().Node(rect)
	assert.Equal(t, "translate(30, 0)", n.Transform)

	assert.True(t, e.HandleKey(KeyEvent{Key: "Escape"}))
	n, _ = e.Document().Node(rect)
	assert.Empty(t, n.Transform)
	assert.Equal(t, history, e.HistoryLen())

	e.PointerDown(at(60, 60))
	e.PointerMove(at(60, 90))
	e.SetTool(tools.Select)
	n, _ = e.Document().Node(rect)
	assert.Empty(t, n.Transform)
	assert.Equal(t, history, e.HistoryLen())
}

func TestMarqueeContainsCurveByItsOutline(t *testing.T) {
	e := newTestEngine()
	// the curve peaks at y=25; its control points sit at y=0
	require.NoError(t, e.Import(`<svg xmlns="http://www.w3.org/2000/svg"><path id="c" d="M 100 100 C 100 0 200 0 200 100"/></svg>`))

	b, ok := e.Bounds("c")
	require.True(t, ok)
	assert.InDelta(t, 25, b.Y, 1e-9)

	e.PointerDown(at(90, 20))
	e.PointerMove(at(210, 110))
	e.PointerUp(at(210, 110))
	assert.Equal(t, []string{"c"}, e.GetSelection())
}

func TestTransformMovesNestedSelectionOnce(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Import(`<svg xmlns="http://www.w3.org/2000/svg"><g id="g"><rect id="r" x="10" y="10" width="20" height="20"/></g></svg>`))

	e.PointerDown(at(0, 0))
	e.PointerMove(at(50, 50))
	e.PointerUp(at(50, 50))
	require.Equal(t, []string{"g", "r"}, e.GetSelection())

	e.SetTool(tools.Transform)
	drag(e, geom.Point{X: 15, Y: 15}, geom.Point{X: 25, Y: 15})

	b, ok := e.Bounds("r")
	require.True(t, ok)
	assert.InDelta(t, 20, b.X, 1e-9)
	r, _ := e.Document().Node("r")
	assert.Empty(t, r.Transform)
	g, _ := e.Document().Node("g")
	assert.Equal(t, "translate(10, 0)", g.Transform)
}

func TestZoomIgnoresHorizontalWheel(t *testing.T) {
	e := newTestEngine()
	e.Zoom(tools.PointerEvent{Client: geom.Point{X: 10, Y: 10}})
	assert.Equal(t, 1.0, e.ZoomLevel())
}
