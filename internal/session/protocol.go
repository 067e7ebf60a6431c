package session

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/geom"
)

type Message struct {
	ID       string          `json:"id,omitempty"`
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	ReplyTo  string          `json:"replyTo,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client -> server
	TypePointerDown = "pointer.down"
	TypePointerMove = "pointer.move"
	TypePointerUp   = "pointer.up"
	TypeWheel       = "wheel"
	TypeKey         = "key"
	TypeTool        = "tool"
	TypeMode        = "mode"
	TypeCommand     = "command"

	// Server -> client
	TypeWelcome = "welcome"
	TypeScene   = "scene"
	TypeError   = "error"
)

// Command names carried by TypeCommand messages.
const (
	CmdAddShape          = "addShape"
	CmdAddNode           = "addNode"
	CmdAddGradient       = "addGradient"
	CmdGroup             = "group"
	CmdUngroup           = "ungroup"
	CmdDelete            = "delete"
	CmdDeleteSelected    = "deleteSelected"
	CmdUndo              = "undo"
	CmdRedo              = "redo"
	CmdStartPath         = "startPath"
	CmdCompletePath      = "completePath"
	CmdSelect            = "select"
	CmdSetSelection      = "setSelection"
	CmdUpdateFill        = "updateFill"
	CmdUpdateStroke      = "updateStroke"
	CmdUpdateStrokeWidth = "updateStrokeWidth"
	CmdUpdateOpacity     = "updateOpacity"
	CmdToggleGrid        = "toggleGrid"
	CmdToggleSnap        = "toggleSnap"
	CmdCanvasOrigin      = "canvasOrigin"
	CmdLoadSample        = "loadSample"
	CmdImport            = "import"
)

type ToolPayload struct {
	Tool string `json:"tool"`
}

type ModePayload struct {
	Mode string `json:"mode"`
}

// CommandPayload carries a named editor command. Which fields are read
// depends on Name.
type CommandPayload struct {
	Name  string         `json:"name"`
	ID    string         `json:"id,omitempty"`
	IDs   []string       `json:"ids,omitempty"`
	Kind  string         `json:"kind,omitempty"`
	Paint string         `json:"paint,omitempty"`
	Value float64        `json:"value,omitempty"`
	X     float64        `json:"x,omitempty"`
	Y     float64        `json:"y,omitempty"`
	Ctrl  bool           `json:"ctrl,omitempty"`
	SVG   string         `json:"svg,omitempty"`
	Node  *document.Node `json:"node,omitempty"` // for addNode
}

type WelcomePayload struct {
	ClientID  string `json:"clientId"`
	SessionID string `json:"sessionId"`
}

// ScenePayload is everything a client needs to repaint after a change.
type ScenePayload struct {
	Commands  []engine.DrawCommand    `json:"commands"`
	Overlay   engine.Overlay          `json:"overlay"`
	Elements  []engine.ElementSummary `json:"elements"`
	Style     *engine.StyleInfo       `json:"style,omitempty"`
	Bounds    *geom.Rect              `json:"bounds,omitempty"`
	Selection []string                `json:"selection"`
	CanUndo   bool                    `json:"canUndo"`
	CanRedo   bool                    `json:"canRedo"`
	// Result is the id produced by the command being answered, if any.
	Result string `json:"result,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(msgType string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{
		ID:      uuid.New().String(),
		Type:    msgType,
		Payload: data,
	}
}

func sceneOf(e *engine.Engine) ScenePayload {
	p := ScenePayload{
		Commands:  e.DrawCommands(),
		Overlay:   e.Overlay(),
		Elements:  e.Elements(),
		Selection: e.GetSelection(),
		CanUndo:   e.CanUndo(),
		CanRedo:   e.CanRedo(),
	}
	if p.Commands == nil {
		p.Commands = []engine.DrawCommand{}
	}
	if s, ok := e.StylePanel(); ok {
		p.Style = &s
	}
	if r, ok := e.SelectionBounds(); ok {
		p.Bounds = &r
	}
	return p
}
