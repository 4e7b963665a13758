package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	gfn "github.com/panyam/goutils/fn"
	"github.com/panyam/vizsync/agent"
	"github.com/panyam/vizsync/clock"
	"github.com/panyam/vizsync/core"
)

// WSMessage is the envelope for all frames in both directions.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Frame payloads.
type (
	textPayload struct {
		Text string `json:"text"`
	}
	messagePayload struct {
		Message string `json:"message"`
	}
	selectionPayload struct {
		Elements []selectedElement `json:"elements"`
	}
	selectedElement struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	displayModePayload struct {
		Mode string `json:"mode"`
	}
	sizePayload struct {
		Height int `json:"height"`
	}
	hostContextPayload struct {
		DisplayModes []string `json:"displayModes"`
		DisplayMode  string   `json:"displayMode"`
		MaxHeight    int      `json:"maxHeight"`
		Theme        string   `json:"theme"`
	}
	renderPayload struct {
		SVG     string `json:"svg"`
		Loading bool   `json:"loading"`
		Error   string `json:"error,omitempty"`
		Version int64  `json:"version"`
	}
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The editor frontends connect from arbitrary origins in local dev.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler manages the live editing sessions, one per connection.
type WSHandler struct {
	server  *Server
	clients map[string]*WSConn
	mu      sync.RWMutex
}

func newWSHandler(server *Server) *WSHandler {
	return &WSHandler{
		server:  server,
		clients: make(map[string]*WSConn),
	}
}

// ServeHTTP upgrades the request and runs the connection's read loop
// until the peer goes away.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.server.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	conn := &WSConn{
		id:      fmt.Sprintf("conn_%s", sock.RemoteAddr().String()),
		sock:    sock,
		handler: h,
		logger:  h.server.logger.With("client", sock.RemoteAddr().String()),
	}
	conn.engine = core.NewEngine(h.server.InitialDocument, h.server.Renderer, conn, clock.Real())
	conn.engine.Scheduler.IsErrorOutput = h.server.ErrorDetector
	conn.engine.Scheduler.OnUpdate = conn.pushRender

	h.mu.Lock()
	h.clients[conn.id] = conn
	h.mu.Unlock()
	conn.logger.Info("websocket client connected")

	conn.send("connected", map[string]any{
		"id":   conn.id,
		"text": h.server.InitialDocument,
	})

	conn.readLoop()

	h.mu.Lock()
	delete(h.clients, conn.id)
	h.mu.Unlock()
	conn.engine.Close()
	conn.logger.Info("websocket client disconnected")
}

// WSConn is one editing session bound to a websocket peer. The peer
// carries both the editor frontend and the agent host, so the
// connection doubles as the engine's agent.Channel and agent.Host:
// outbound context pushes and user turns become frames for the peer to
// forward.
type WSConn struct {
	id      string
	sock    *websocket.Conn
	handler *WSHandler
	engine  *core.Engine
	logger  *slog.Logger

	writeMu sync.Mutex

	hostMu sync.RWMutex
	host   agent.HostContext
}

var (
	_ agent.Channel = (*WSConn)(nil)
	_ agent.Host    = (*WSConn)(nil)
)

func (c *WSConn) readLoop() {
	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "err", err)
			}
			return
		}
		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Warn("invalid frame", "err", err)
			continue
		}
		if err := c.handleMessage(msg); err != nil {
			c.logger.Warn("frame rejected", "type", msg.Type, "err", err)
		}
	}
}

func (c *WSConn) handleMessage(msg WSMessage) error {
	switch msg.Type {
	case "editorChanged":
		var p textPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		c.engine.UserEdited(p.Text)

	case "toolInput":
		var p textPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		c.engine.ToolInput(p.Text)

	case "toolInputPartial":
		var p textPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		c.engine.ToolInputPartial(p.Text)

	case "toolInputDone":
		var p textPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		c.engine.ToolInputDone(p.Text)

	case "sendToAgent":
		var p messagePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		c.engine.Send(context.Background(), p.Message)

	case "selectionChanged":
		var p selectionPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		sel := gfn.Map(p.Elements, func(e selectedElement) core.SelectedElement {
			return core.SelectedElement{ID: e.ID, Label: e.Label}
		})
		c.engine.SelectionChanged(sel)

	case "hostContext":
		var p hostContextPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		c.hostMu.Lock()
		c.host = agent.HostContext{
			DisplayModes: p.DisplayModes,
			DisplayMode:  p.DisplayMode,
			MaxHeight:    p.MaxHeight,
			Theme:        p.Theme,
		}
		c.hostMu.Unlock()

	case "requestDisplayMode":
		var p displayModePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		return c.RequestDisplayMode(context.Background(), p.Mode)

	case "ping":
		c.send("pong", nil)

	default:
		c.logger.Warn("unknown frame type", "type", msg.Type)
	}
	return nil
}

// HostContext returns the peer's last reported host context.
func (c *WSConn) HostContext() agent.HostContext {
	c.hostMu.RLock()
	defer c.hostMu.RUnlock()
	return c.host
}

func (c *WSConn) pushRender(state core.RenderState) {
	c.send("render", renderPayload{
		SVG:     string(state.SVG),
		Loading: state.Loading,
		Error:   state.Error,
		Version: state.Version,
	})
}

// agent.Channel

func (c *WSConn) PushContext(_ context.Context, text string) error {
	return c.send("pushContext", textPayload{Text: text})
}

func (c *WSConn) SendUserTurn(_ context.Context, text string) error {
	return c.send("userTurn", textPayload{Text: text})
}

// agent.Host

func (c *WSConn) RequestDisplayMode(_ context.Context, mode string) error {
	c.hostMu.RLock()
	supported := false
	for _, m := range c.host.DisplayModes {
		if m == mode {
			supported = true
			break
		}
	}
	declared := len(c.host.DisplayModes) > 0
	c.hostMu.RUnlock()
	if declared && !supported {
		return fmt.Errorf("host does not support display mode %q", mode)
	}
	return c.send("requestDisplayMode", displayModePayload{Mode: mode})
}

func (c *WSConn) NotifySize(_ context.Context, height int) error {
	return c.send("sizeChanged", sizePayload{Height: height})
}

func (c *WSConn) send(msgType string, data any) error {
	msg := WSMessage{Type: msgType}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		msg.Data = raw
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.sock.WriteJSON(msg)
}
