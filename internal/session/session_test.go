package session

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/geom"
	"github.com/inamate/svgedit/internal/tools"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(engine.NewEngine(engine.DefaultOptions()))
	go loop.Run(ctx)
	t.Cleanup(cancel)
	return loop, cancel
}

func msg(t *testing.T, msgType string, payload any) *Message {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return &Message{ID: msgType, Type: msgType, Payload: data}
}

func TestLoopDo(t *testing.T) {
	loop, cancel := startLoop(t)
	ctx := context.Background()

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, loop.Do(ctx, func(e *engine.Engine) {
			e.AddRect()
			count.Add(1)
		}))
	}
	assert.Equal(t, int32(10), count.Load())

	require.NoError(t, loop.Do(ctx, func(e *engine.Engine) { panic("boom") }))

	var n int
	require.NoError(t, loop.Do(ctx, func(e *engine.Engine) { n = len(e.Document().Root) }))
	assert.Equal(t, 10, n)

	cancel()
	<-loop.done
	assert.ErrorIs(t, loop.Do(ctx, func(*engine.Engine) {}), ErrStopped)
}

func TestApplyCommands(t *testing.T) {
	e := engine.NewEngine(engine.DefaultOptions())

	id, err := Apply(e, msg(t, TypeCommand, CommandPayload{Name: CmdAddShape, Kind: "rect"}))
	require.NoError(t, err)
	assert.Equal(t, "rect-1", id)
	id, err = Apply(e, msg(t, TypeCommand, CommandPayload{Name: CmdAddShape, Kind: "circle"}))
	require.NoError(t, err)
	assert.Equal(t, "circle-1", id)

	_, err = Apply(e, msg(t, TypeCommand, CommandPayload{Name: CmdAddShape, Kind: "hexagon"}))
	assert.Error(t, err)

	_, err = Apply(e, msg(t, TypeCommand, CommandPayload{Name: CmdSetSelection, IDs: []string{"rect-1", "circle-1"}}))
	require.NoError(t, err)
	id, err = Apply(e, msg(t, TypeCommand, CommandPayload{Name: CmdGroup}))
	require.NoError(t, err)
	assert.Equal(t, "group-1", id)
	assert.Equal(t, []string{"group-1"}, e.Document().Root)

	paint, err := Apply(e, msg(t, TypeCommand, CommandPayload{Name: CmdAddGradient, Kind: "radial"}))
	require.NoError(t, err)
	assert.Equal(t, "url(#gradient-1)", paint)
	_, err = Apply(e, msg(t, TypeCommand, CommandPayload{Name: CmdUpdateFill, Paint: paint}))
	require.NoError(t, err)
	n, _ := e.Document().Node("group-1")
	assert.Equal(t, paint, n.Style.Fill)

	_, err = Apply(e, msg(t, TypeCommand, CommandPayload{Name: CmdUndo}))
	require.NoError(t, err)
	assert.Empty(t, e.GetSelection())

	_, err = Apply(e, msg(t, TypeCommand, CommandPayload{Name: "explode"}))
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = Apply(e, msg(t, TypeCommand, CommandPayload{Name: CmdImport, SVG: "<html/>"}))
	assert.ErrorIs(t, err, document.ErrInvalidSVG)
}

func TestApplyEvents(t *testing.T) {
	e := engine.NewEngine(engine.DefaultOptions())

	_, err := Apply(e, msg(t, TypeTool, ToolPayload{Tool: "path"}))
	require.NoError(t, err)
	assert.Equal(t, tools.Path, e.CurrentTool())

	_, err = Apply(e, msg(t, TypeTool, ToolPayload{Tool: "lasso"}))
	assert.Error(t, err)

	for _, p := range []tools.PointerEvent{{Client: geom.Point{X: 10, Y: 10}}, {Client: geom.Point{X: 50, Y: 60}}} {
		_, err = Apply(e, msg(t, TypePointerDown, p))
		require.NoError(t, err)
	}
	_, err = Apply(e, msg(t, TypeKey, engine.KeyEvent{Key: "Enter"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"path-1"}, e.Document().Root)

	_, err = Apply(e, msg(t, TypeMode, ModePayload{Mode: "rotate"}))
	require.NoError(t, err)
	assert.Equal(t, tools.Rotate, e.TransformMode())

	_, err = Apply(e, msg(t, TypeWheel, tools.PointerEvent{DeltaY: -1}))
	require.NoError(t, err)
	assert.InDelta(t, 1.1, e.ZoomLevel(), 1e-9)

	_, err = Apply(e, &Message{Type: TypePointerDown, Payload: json.RawMessage(`"x"`)})
	assert.Error(t, err)

	_, err = Apply(e, &Message{Type: "presence.update"})
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

// readUntil reads messages until match returns true.
func readUntil(t *testing.T, conn *websocket.Conn, match func(*Message) bool) *Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var m Message
		require.NoError(t, json.Unmarshal(data, &m))
		if match(&m) {
			return &m
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, m *Message) {
	t.Helper()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, data))
}

func TestHubOverWebsocket(t *testing.T) {
	loop, _ := startLoop(t)
	hub := NewHub(loop)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(hub.ServeWS([]string{"http://localhost:5173"}))
	t.Cleanup(srv.Close)

	a := dial(t, srv)
	welcome := readUntil(t, a, func(m *Message) bool { return m.Type == TypeWelcome })
	var w WelcomePayload
	require.NoError(t, json.Unmarshal(welcome.Payload, &w))
	assert.True(t, strings.HasPrefix(w.ClientID, "conn_"))

	b := dial(t, srv)
	readUntil(t, b, func(m *Message) bool { return m.Type == TypeWelcome })

	send(t, a, &Message{ID: "m1", Type: TypeCommand, Payload: json.RawMessage(`{"name":"addShape","kind":"rect"}`)})
	reply := readUntil(t, a, func(m *Message) bool { return m.ReplyTo == "m1" && m.Type == TypeScene })
	var scene ScenePayload
	require.NoError(t, json.Unmarshal(reply.Payload, &scene))
	assert.Equal(t, "rect-1", scene.Result)
	require.Len(t, scene.Commands, 1)
	assert.True(t, scene.CanUndo)

	// the other client sees the new rect too
	readUntil(t, b, func(m *Message) bool {
		if m.Type != TypeScene {
			return false
		}
		var s ScenePayload
		require.NoError(t, json.Unmarshal(m.Payload, &s))
		return len(s.Elements) == 1 && s.Elements[0].ID == "rect-1"
	})

	send(t, a, &Message{ID: "m2", Type: "bogus"})
	readUntil(t, a, func(m *Message) bool { return m.ReplyTo == "m2" && m.Type == TypeError })

	data, err := hub.ExportSVG(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), `id="rect-1"`)

	require.Error(t, hub.ImportSVG(context.Background(), "not svg"))
	require.NoError(t, hub.ImportSVG(context.Background(), `<svg xmlns="http://www.w3.org/2000/svg"><circle id="c" r="5"/></svg>`))
	readUntil(t, b, func(m *Message) bool {
		if m.Type != TypeScene {
			return false
		}
		var s ScenePayload
		require.NoError(t, json.Unmarshal(m.Payload, &s))
		return len(s.Elements) == 1 && s.Elements[0].ID == "c"
	})

	assert.Equal(t, 2, hub.Clients())
}

func TestApplyAddNode(t *testing.T) {
	e := engine.NewEngine(engine.DefaultOptions())

	m := &Message{Type: TypeCommand, Payload: json.RawMessage(
		`{"name":"addNode","node":{"type":"circle","geometry":{"cx":10,"cy":10,"r":5},"style":{"fill":"#abcdef"}}}`)}
	id, err := Apply(e, m)
	require.NoError(t, err)
	assert.Equal(t, "circle-1", id)

	n, ok := e.Document().Node(id)
	require.True(t, ok)
	assert.Equal(t, "#abcdef", n.Style.Fill)
	assert.Equal(t, 1.0, n.Style.Opacity)

	_, err = Apply(e, msg(t, TypeCommand, CommandPayload{Name: CmdAddNode}))
	assert.Error(t, err)
}
