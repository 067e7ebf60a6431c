package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/geom"
	"github.com/inamate/svgedit/internal/history"
	"github.com/inamate/svgedit/internal/selection"
	"github.com/inamate/svgedit/internal/shapes"
	"github.com/inamate/svgedit/internal/tools"
)

// Options configures a new Engine.
type Options struct {
	Width         int
	Height        int
	GridSize      float64
	SnapThreshold float64
	SnapEnabled   bool
	// Presets overrides the default paint of new shapes per kind.
	Presets map[shapes.Kind]document.Style
	Logger  *slog.Logger
}

// DefaultOptions is an 800x600 canvas with a 20 unit grid and snapping off.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, GridSize: 20, SnapThreshold: 10}
}

// Engine is the editing core. It owns the document, the selection, the undo
// history and the active tool, and is driven by pointer and keyboard events.
// It is not safe for concurrent use.
type Engine struct {
	// Document state
	doc *document.Document
	sel *selection.Set

	history *history.History
	tools   *tools.Dispatcher
	mode    tools.TransformMode
	factory *shapes.Factory

	snapper  geom.Snapper
	viewport geom.Viewport
	showGrid bool

	keymap map[string]func()

	// Retained scene graph
	sceneGraph *SceneGraph
	// Dirty flag - scene graph needs rebuild
	dirty bool

	logger *slog.Logger
}

// NewEngine creates an engine holding an empty document. The empty document
// is the history baseline.
func NewEngine(opts Options) *Engine {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	factory := shapes.NewFactory()
	for kind, style := range opts.Presets {
		factory.Override(kind, style)
	}

	e := &Engine{
		doc:        document.NewEmptyDocument(opts.Width, opts.Height),
		sel:        selection.New(),
		tools:      tools.NewDispatcher(),
		factory:    factory,
		snapper:    geom.Snapper{Enabled: opts.SnapEnabled, GridSize: opts.GridSize, Threshold: opts.SnapThreshold},
		viewport:   geom.NewViewport(0, 0),
		sceneGraph: NewSceneGraph(),
		dirty:      true,
		logger:     logger.With("component", "engine"),
	}
	e.history = history.New(e.snapshot())
	e.keymap = e.defaultKeymap()
	return e
}

// LoadSampleDocument replaces the document with the built-in sample and
// starts a fresh history from it.
func (e *Engine) LoadSampleDocument() {
	e.doc = document.NewSampleDocument(e.doc.Width, e.doc.Height)
	e.sel.Clear()
	e.tools.Reset()
	e.history = history.New(e.snapshot())
	e.dirty = true
}

// --- History ---

func (e *Engine) snapshot() []byte {
	data, _ := json.Marshal(e.doc)
	return data
}

func (e *Engine) restore(state []byte) error {
	var doc document.Document
	if err := json.Unmarshal(state, &doc); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	if doc.Objects == nil {
		doc.Objects = map[string]document.Node{}
	}
	if doc.Defs == nil {
		doc.Defs = map[string]document.Gradient{}
	}
	e.doc = &doc
	e.sel.Clear()
	e.tools.Reset()
	e.dirty = true
	return nil
}

// commit records the current document as a new history entry.
func (e *Engine) commit(action string) {
	e.history.Save(action, e.snapshot())
	e.dirty = true
	e.logger.Debug("committed", "action", action, "history", e.history.Len())
}

// SaveState records the current document in the history.
func (e *Engine) SaveState() {
	e.commit("save")
}

// Undo restores the previous snapshot and clears the selection. It reports
// false at the baseline.
func (e *Engine) Undo() bool {
	state, ok := e.history.Undo()
	if !ok {
		return false
	}
	if err := e.restore(state); err != nil {
		e.logger.Error("undo failed", "error", err)
		return false
	}
	return true
}

// Redo re-applies the next snapshot and clears the selection.
func (e *Engine) Redo() bool {
	state, ok := e.history.Redo()
	if !ok {
		return false
	}
	if err := e.restore(state); err != nil {
		e.logger.Error("redo failed", "error", err)
		return false
	}
	return true
}

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// HistoryLen returns the number of snapshots, baseline included.
func (e *Engine) HistoryLen() int { return e.history.Len() }

// --- Tools ---

// SetTool activates a tool, abandoning the previous tool's gesture. An
// unfinished transform drag is rolled back.
func (e *Engine) SetTool(t tools.Tool) {
	if t != e.tools.Current() {
		e.cancelDrag()
	}
	e.tools.SetTool(t)
}

func (e *Engine) cancelDrag() {
	e.tools.Transform.Cancel(e)
}

func (e *Engine) CurrentTool() tools.Tool {
	return e.tools.Current()
}

// SetTransformMode chooses what transform drags apply.
func (e *Engine) SetTransformMode(m tools.TransformMode) {
	e.mode = m
}

// StartPath switches to the path tool with an empty point list.
func (e *Engine) StartPath() {
	e.cancelDrag()
	e.tools.SetTool(tools.Path)
	e.tools.Path.Reset()
}

// CompletePath turns the collected path points into a path node. With
// fewer than two points it does nothing.
func (e *Engine) CompletePath() (string, bool) {
	pts, ok := e.tools.Path.Take()
	if !ok {
		return "", false
	}
	n := e.factory.Freehand(pts)
	n.ID = e.doc.GenerateUniqueID(string(shapes.KindPath))
	if err := e.doc.Append(n, nil); err != nil {
		e.logger.Error("complete path", "error", err)
		return "", false
	}
	e.commit("path")
	return n.ID, true
}

func (e *Engine) PointerDown(ev tools.PointerEvent) {
	e.tools.PointerDown(e, ev)
}

func (e *Engine) PointerMove(ev tools.PointerEvent) {
	e.tools.PointerMove(e, ev)
}

func (e *Engine) PointerUp(ev tools.PointerEvent) {
	e.tools.PointerUp(e, ev)
}

// Zoom scales the view about the pointer position of a wheel event.
func (e *Engine) Zoom(ev tools.PointerEvent) {
	e.viewport.Zoom(ev.DeltaY, ev.Client)
}

// SetCanvasOrigin places the canvas at a device position, resetting zoom.
func (e *Engine) SetCanvasOrigin(x, y float64) {
	e.viewport = geom.NewViewport(x, y)
}

func (e *Engine) ZoomLevel() float64 {
	return e.viewport.ZoomLevel()
}

// ToggleGrid flips grid display and returns the new state.
func (e *Engine) ToggleGrid() bool {
	e.showGrid = !e.showGrid
	return e.showGrid
}

// ToggleSnap flips grid snapping and returns the new state.
func (e *Engine) ToggleSnap() bool {
	e.snapper.Enabled = !e.snapper.Enabled
	return e.snapper.Enabled
}

// --- tools.Workspace ---

func (e *Engine) Document() *document.Document { return e.doc }

func (e *Engine) Selection() *selection.Set { return e.sel }

func (e *Engine) TransformMode() tools.TransformMode { return e.mode }

func (e *Engine) ToDocument(p geom.Point) geom.Point {
	return e.viewport.ToDocument(p)
}

// Snap pulls p onto a corner or center of a top-level node when one is
// within the snap threshold, otherwise onto the grid.
func (e *Engine) Snap(p geom.Point) geom.Point {
	if !e.snapper.Enabled {
		return p
	}
	sg := e.scene()
	var rects []geom.Rect
	for _, n := range sg.Root.Children {
		if n.HasBounds {
			rects = append(rects, n.Bounds)
		}
	}
	return e.snapper.SnapTo(p, geom.SnapPoints(rects))
}

func (e *Engine) Bounds(id string) (geom.Rect, bool) {
	n, ok := e.scene().Node(id)
	if !ok || !n.HasBounds {
		return geom.Rect{}, false
	}
	return n.Bounds, true
}

func (e *Engine) LocalBounds(id string) (geom.Rect, bool) {
	n, ok := e.scene().Node(id)
	if !ok || !n.HasBounds {
		return geom.Rect{}, false
	}
	return n.LocalBounds, true
}

func (e *Engine) HitTest(p geom.Point) (string, bool) {
	return HitTest(e.scene(), p)
}

func (e *Engine) SetTransform(id, transform string) {
	n, ok := e.doc.Objects[id]
	if !ok {
		return
	}
	n.Transform = transform
	e.doc.Objects[id] = n
	e.dirty = true
}

func (e *Engine) Commit(action string) {
	e.commit(action)
}

// scene returns the scene graph, rebuilding it if the document changed.
func (e *Engine) scene() *SceneGraph {
	if e.dirty {
		e.sceneGraph = BuildSceneGraph(e.doc)
		e.dirty = false
	}
	return e.sceneGraph
}
