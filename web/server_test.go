package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/vizsync/render"
)

// newTestServer wires a Server against a stub rendering backend.
func newTestServer(t *testing.T, backend http.HandlerFunc) (*Server, *httptest.Server) {
	t.Helper()
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	s := NewServer("", render.NewClient(backendSrv.URL), nil)
	s.Version = "test"
	s.InitialDocument = "@startflow\na -> b\n@endflow"

	front := httptest.NewServer(s.Handler())
	t.Cleanup(front.Close)
	return s, front
}

func okBackend(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("<svg>rendered</svg>"))
}

func TestStatusEndpoint(t *testing.T) {
	_, front := newTestServer(t, okBackend)

	resp, err := http.Get(front.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "test", status.Version)
	assert.Equal(t, 0, status.Clients)
}

func TestExportSVG(t *testing.T) {
	_, front := newTestServer(t, okBackend)

	body, _ := json.Marshal(ExportRequest{Source: "@startflow\nx\n@endflow"})
	resp, err := http.Post(front.URL+"/api/export/svg", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
}

func TestExportRejectsEmptySource(t *testing.T) {
	_, front := newTestServer(t, okBackend)

	resp, err := http.Post(front.URL+"/api/export/svg", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportPNGFallbackURL(t *testing.T) {
	_, front := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "png unsupported for this type", http.StatusUnsupportedMediaType)
	})

	body, _ := json.Marshal(ExportRequest{Source: "@startflow\nx\n@endflow"})
	resp, err := http.Post(front.URL+"/api/export/png", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out["fallbackUrl"], "/flow/png/")
}

func dialWS(t *testing.T, front *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(front.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// waitForFrame reads frames until one of the wanted type arrives,
// additionally matching an optional predicate on the decoded payload.
func waitForFrame(t *testing.T, conn *websocket.Conn, msgType string, match func(json.RawMessage) bool) WSMessage {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := readFrame(t, conn)
		if msg.Type == msgType && (match == nil || match(msg.Data)) {
			return msg
		}
	}
	t.Fatalf("no %s frame received", msgType)
	return WSMessage{}
}

func sendFrame(t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(WSMessage{Type: msgType, Data: raw}))
}

func TestWSConnectHandshake(t *testing.T) {
	_, front := newTestServer(t, okBackend)
	conn := dialWS(t, front)

	msg := readFrame(t, conn)
	assert.Equal(t, "connected", msg.Type)
	assert.Contains(t, string(msg.Data), "@startflow")
}

func TestWSToolInputProducesRenderFrames(t *testing.T) {
	_, front := newTestServer(t, okBackend)
	conn := dialWS(t, front)
	readFrame(t, conn) // connected

	sendFrame(t, conn, "toolInput", textPayload{Text: "@startstate\ns1 -> s2\n@endstate"})

	done := waitForFrame(t, conn, "render", func(data json.RawMessage) bool {
		var p renderPayload
		require.NoError(t, json.Unmarshal(data, &p))
		return !p.Loading
	})
	var p renderPayload
	require.NoError(t, json.Unmarshal(done.Data, &p))
	assert.Equal(t, "<svg>rendered</svg>", p.SVG)
	assert.Empty(t, p.Error)
}

func TestWSSendToAgentEmitsUserTurn(t *testing.T) {
	_, front := newTestServer(t, okBackend)
	conn := dialWS(t, front)
	readFrame(t, conn) // connected

	sendFrame(t, conn, "sendToAgent", messagePayload{Message: "make it blue"})

	turn := waitForFrame(t, conn, "userTurn", nil)
	var p textPayload
	require.NoError(t, json.Unmarshal(turn.Data, &p))
	assert.Contains(t, p.Text, "make it blue")
	assert.Contains(t, p.Text, "@startflow")
}

func TestWSDisplayModeValidation(t *testing.T) {
	_, front := newTestServer(t, okBackend)
	conn := dialWS(t, front)
	readFrame(t, conn) // connected

	sendFrame(t, conn, "hostContext", hostContextPayload{
		DisplayModes: []string{"inline"},
		DisplayMode:  "inline",
	})
	sendFrame(t, conn, "requestDisplayMode", displayModePayload{Mode: "inline"})

	echo := waitForFrame(t, conn, "requestDisplayMode", nil)
	var p displayModePayload
	require.NoError(t, json.Unmarshal(echo.Data, &p))
	assert.Equal(t, "inline", p.Mode)
}

func TestWSPing(t *testing.T) {
	_, front := newTestServer(t, okBackend)
	conn := dialWS(t, front)
	readFrame(t, conn) // connected

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "ping"}))
	pong := waitForFrame(t, conn, "pong", nil)
	assert.Equal(t, "pong", pong.Type)
}
