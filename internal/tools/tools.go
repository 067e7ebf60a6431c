// Package tools routes pointer events to the active editing tool.
package tools

import (
	"fmt"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/geom"
	"github.com/inamate/svgedit/internal/selection"
)

type Tool int

const (
	Select Tool = iota
	Path
	Transform
)

func (t Tool) String() string {
	switch t {
	case Select:
		return "select"
	case Path:
		return "path"
	case Transform:
		return "transform"
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool maps a tool name to its Tool.
func ParseTool(s string) (Tool, error) {
	for _, t := range []Tool{Select, Path, Transform} {
		if t.String() == s {
			return t, nil
		}
	}
	return Select, fmt.Errorf("unknown tool %q", s)
}

// TransformMode selects what a transform drag composes onto the selection.
type TransformMode int

const (
	Move TransformMode = iota
	Scale
	Rotate
)

func (m TransformMode) String() string {
	switch m {
	case Move:
		return "move"
	case Scale:
		return "scale"
	case Rotate:
		return "rotate"
	}
	return fmt.Sprintf("TransformMode(%d)", int(m))
}

func ParseTransformMode(s string) (TransformMode, error) {
	for _, m := range []TransformMode{Move, Scale, Rotate} {
		if m.String() == s {
			return m, nil
		}
	}
	return Move, fmt.Errorf("unknown transform mode %q", s)
}

// PointerEvent is a pointer or wheel event in device coordinates.
type PointerEvent struct {
	Client geom.Point `json:"client"`
	Ctrl   bool       `json:"ctrl"`
	DeltaY float64    `json:"deltaY"`
}

// Workspace is what tools need from the editor.
type Workspace interface {
	Document() *document.Document
	Selection() *selection.Set
	TransformMode() TransformMode

	// ToDocument converts a device position into document space.
	ToDocument(p geom.Point) geom.Point
	Snap(p geom.Point) geom.Point

	// Bounds is the node's bounding box in document space; LocalBounds
	// leaves out the node's own transform.
	Bounds(id string) (geom.Rect, bool)
	LocalBounds(id string) (geom.Rect, bool)
	HitTest(p geom.Point) (string, bool)

	SetTransform(id, transform string)
	// Commit records the current document as a new history entry.
	Commit(action string)
}

// Handler is one tool's pointer state machine.
type Handler interface {
	PointerDown(ws Workspace, ev PointerEvent)
	PointerMove(ws Workspace, ev PointerEvent)
	PointerUp(ws Workspace, ev PointerEvent)
	// Reset drops any in-progress gesture.
	Reset()
}

// Dispatcher holds the active tool and forwards events to it.
type Dispatcher struct {
	current Tool

	Select    *SelectTool
	Path      *PathTool
	Transform *TransformTool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		current:   Select,
		Select:    &SelectTool{},
		Path:      &PathTool{},
		Transform: &TransformTool{},
	}
}

func (d *Dispatcher) Current() Tool {
	return d.current
}

// SetTool activates t. The previous tool's transient state is discarded.
func (d *Dispatcher) SetTool(t Tool) {
	if t == d.current {
		return
	}
	d.handler().Reset()
	d.current = t
}

// Reset abandons the active tool's gesture.
func (d *Dispatcher) Reset() {
	d.handler().Reset()
}

func (d *Dispatcher) handler() Handler {
	switch d.current {
	case Path:
		return d.Path
	case Transform:
		return d.Transform
	default:
		return d.Select
	}
}

func (d *Dispatcher) PointerDown(ws Workspace, ev PointerEvent) {
	d.handler().PointerDown(ws, ev)
}

func (d *Dispatcher) PointerMove(ws Workspace, ev PointerEvent) {
	d.handler().PointerMove(ws, ev)
}

func (d *Dispatcher) PointerUp(ws Workspace, ev PointerEvent) {
	d.handler().PointerUp(ws, ev)
}
