package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/panyam/vizsync/core"
)

// APIHandler exposes the stateless JSON endpoints: server status and
// diagram exports. The CLI talks to these.
type APIHandler struct {
	server *Server
}

func (a *APIHandler) Handler() http.Handler {
	r := http.NewServeMux()
	r.HandleFunc("GET /status", a.handleStatus)
	r.HandleFunc("POST /export/svg", a.handleExportSVG)
	r.HandleFunc("POST /export/png", a.handleExportPNG)
	return r
}

// StatusResponse reports server health for the CLI status command.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Backend string `json:"backend"`
	Clients int    `json:"clients"`
}

func (a *APIHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	a.server.ws.mu.RLock()
	clients := len(a.server.ws.clients)
	a.server.ws.mu.RUnlock()

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Version: a.server.Version,
		Backend: a.server.Renderer.BaseURL,
		Clients: clients,
	})
}

// ExportRequest carries the source to export. The diagram type is
// detected from the source itself.
type ExportRequest struct {
	Source string `json:"source"`
}

func (a *APIHandler) handleExportSVG(w http.ResponseWriter, r *http.Request) {
	source, ok := a.readSource(w, r)
	if !ok {
		return
	}
	svg, err := a.server.Renderer.FetchSVG(r.Context(), source)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// handleExportPNG proxies rasterization through the backend. Types the
// backend refuses to rasterize get a fallback URL the client can open
// directly.
func (a *APIHandler) handleExportPNG(w http.ResponseWriter, r *http.Request) {
	source, ok := a.readSource(w, r)
	if !ok {
		return
	}
	png, err := a.server.Renderer.FetchPNG(r.Context(), source)
	if err != nil {
		fallback, urlErr := a.server.Renderer.PNGURL(source)
		if urlErr != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":       err.Error(),
			"fallbackUrl": fallback,
		})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (a *APIHandler) readSource(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return "", false
	}
	var req ExportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return "", false
	}
	if req.Source == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "source is required"})
		return "", false
	}
	if core.DetectDiagramType(req.Source) == "unknown" {
		a.server.logger.Debug("export with undetected diagram type")
	}
	return req.Source, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
