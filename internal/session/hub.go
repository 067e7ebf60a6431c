package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"

	"github.com/inamate/svgedit/internal/auth"
	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/typeid"
)

// Hub connects websocket clients to the editor loop. Every applied message
// is answered with a fresh scene for all connected clients.
type Hub struct {
	mu         sync.RWMutex
	loop       *Loop
	clients    map[string]*Client // clientID -> client
	register   chan *Client
	unregister chan *Client
	stopped    chan struct{}
}

func NewHub(loop *Loop) *Hub {
	return &Hub{
		loop:       loop,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case client := <-h.register:
			h.addClient(ctx, client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopped:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	h.clients[client.ClientID] = client
	h.mu.Unlock()

	client.Send(newMessage(TypeWelcome, WelcomePayload{
		ClientID:  client.ClientID,
		SessionID: client.SessionID,
	}))

	var scene ScenePayload
	if err := h.loop.Do(ctx, func(e *engine.Engine) { scene = sceneOf(e) }); err == nil {
		client.Send(newMessage(TypeScene, scene))
	}

	slog.Info("client joined", "client", client.ClientID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ClientID)
	h.mu.Unlock()
	client.close()

	slog.Info("client left", "client", client.ClientID, "session", client.SessionID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	var (
		result   string
		applyErr error
		scene    ScenePayload
	)
	err := h.loop.Do(ctx, func(e *engine.Engine) {
		result, applyErr = Apply(e, msg)
		scene = sceneOf(e)
	})
	if err != nil {
		slog.Debug("dropping message", "type", msg.Type, "error", err)
		return
	}

	if applyErr != nil {
		slog.Warn("message rejected", "type", msg.Type, "client", sender.ClientID, "error", applyErr)
		reply := newMessage(TypeError, ErrorPayload{Message: applyErr.Error()})
		reply.ReplyTo = msg.ID
		sender.Send(reply)
	}

	scene.Result = result
	reply := newMessage(TypeScene, scene)
	reply.ReplyTo = msg.ID
	sender.Send(reply)

	scene.Result = ""
	h.broadcast(newMessage(TypeScene, scene), sender.ClientID)
}

func (h *Hub) broadcast(msg *Message, excludeClientID string) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

// ExportSVG serializes the current document.
func (h *Hub) ExportSVG(ctx context.Context) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if doErr := h.loop.Do(ctx, func(e *engine.Engine) { data, err = e.Export() }); doErr != nil {
		return nil, doErr
	}
	return data, err
}

// ImportSVG replaces the document with src and repaints every client.
func (h *Hub) ImportSVG(ctx context.Context, src string) error {
	var (
		err   error
		scene ScenePayload
	)
	if doErr := h.loop.Do(ctx, func(e *engine.Engine) {
		err = e.Import(src)
		scene = sceneOf(e)
	}); doErr != nil {
		return doErr
	}
	if err != nil {
		return err
	}
	h.broadcast(newMessage(TypeScene, scene), "")
	return nil
}

// ServeWS upgrades the request and attaches the connection to the hub. The
// session id is taken from the request context set by auth.AuthMiddleware.
func (h *Hub) ServeWS(allowedOrigins []string) http.HandlerFunc {
	patterns := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimPrefix(o, "https://")
		patterns = append(patterns, strings.TrimPrefix(o, "http://"))
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: patterns,
		})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(h, conn, auth.SessionIDFromContext(r.Context()), typeid.NewConnectionID())
		h.Register(client)

		ctx := r.Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}
