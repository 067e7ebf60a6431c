package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/shapes"
	"github.com/inamate/svgedit/internal/tools"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrUnknownCommand = errors.New("unknown command")
)

// Apply feeds one client message into the engine. It returns the id of a
// node or paint the message produced, if any. Commands whose preconditions
// do not hold are silently ignored.
func Apply(e *engine.Engine, msg *Message) (string, error) {
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp, TypeWheel:
		var ev tools.PointerEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return "", fmt.Errorf("invalid pointer payload: %w", err)
		}
		applyPointer(e, msg.Type, ev)
		return "", nil

	case TypeKey:
		var k engine.KeyEvent
		if err := json.Unmarshal(msg.Payload, &k); err != nil {
			return "", fmt.Errorf("invalid key payload: %w", err)
		}
		e.HandleKey(k)
		return "", nil

	case TypeTool:
		var p ToolPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return "", fmt.Errorf("invalid tool payload: %w", err)
		}
		t, err := tools.ParseTool(p.Tool)
		if err != nil {
			return "", err
		}
		e.SetTool(t)
		return "", nil

	case TypeMode:
		var p ModePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return "", fmt.Errorf("invalid mode payload: %w", err)
		}
		m, err := tools.ParseTransformMode(p.Mode)
		if err != nil {
			return "", err
		}
		e.SetTransformMode(m)
		return "", nil

	case TypeCommand:
		var p CommandPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return "", fmt.Errorf("invalid command payload: %w", err)
		}
		return applyCommand(e, p)
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownMessage, msg.Type)
}

func applyPointer(e *engine.Engine, msgType string, ev tools.PointerEvent) {
	switch msgType {
	case TypePointerDown:
		e.PointerDown(ev)
	case TypePointerMove:
		e.PointerMove(ev)
	case TypePointerUp:
		e.PointerUp(ev)
	case TypeWheel:
		e.Zoom(ev)
	}
}

func applyCommand(e *engine.Engine, p CommandPayload) (string, error) {
	switch p.Name {
	case CmdAddShape:
		return e.AddShape(shapes.Kind(p.Kind))
	case CmdAddNode:
		if p.Node == nil {
			return "", fmt.Errorf("%s: missing node", p.Name)
		}
		return e.AddNode(*p.Node)
	case CmdAddGradient:
		return e.AddGradient(document.GradientType(p.Kind)), nil
	case CmdGroup:
		id, _ := e.Group()
		return id, nil
	case CmdUngroup:
		e.Ungroup()
	case CmdDelete:
		e.Delete(p.ID)
	case CmdDeleteSelected:
		e.DeleteSelected()
	case CmdUndo:
		e.Undo()
	case CmdRedo:
		e.Redo()
	case CmdStartPath:
		e.StartPath()
	case CmdCompletePath:
		id, _ := e.CompletePath()
		return id, nil
	case CmdSelect:
		e.SelectElement(p.ID, p.Ctrl)
	case CmdSetSelection:
		e.SetSelection(p.IDs)
	case CmdUpdateFill:
		e.UpdateFill(p.Paint)
	case CmdUpdateStroke:
		e.UpdateStroke(p.Paint)
	case CmdUpdateStrokeWidth:
		e.UpdateStrokeWidth(p.Value)
	case CmdUpdateOpacity:
		e.UpdateOpacity(p.Value)
	case CmdToggleGrid:
		e.ToggleGrid()
	case CmdToggleSnap:
		e.ToggleSnap()
	case CmdCanvasOrigin:
		e.SetCanvasOrigin(p.X, p.Y)
	case CmdLoadSample:
		e.LoadSampleDocument()
	case CmdImport:
		return "", e.Import(p.SVG)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, p.Name)
	}
	return "", nil
}
