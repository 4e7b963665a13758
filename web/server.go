// Package web serves the diagram editing sessions over HTTP: a
// websocket endpoint carrying the live editor protocol plus a small
// JSON API for status and exports.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"

	"github.com/panyam/vizsync/core"
	"github.com/panyam/vizsync/render"
)

// Server hosts the editing sessions. One engine is created per
// websocket connection; the HTTP API is stateless.
type Server struct {
	Addr            string
	Renderer        *render.Client
	ErrorDetector   core.ErrorDetector
	InitialDocument string
	Version         string

	logger *slog.Logger
	ws     *WSHandler
	api    *APIHandler
}

func NewServer(addr string, renderer *render.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Addr:          addr,
		Renderer:      renderer,
		ErrorDetector: render.DetectErrorOutput,
		logger:        logger,
	}
	s.ws = newWSHandler(s)
	s.api = &APIHandler{server: s}
	return s
}

// Handler returns the configured root handler with all routes.
func (s *Server) Handler() http.Handler {
	r := http.NewServeMux()
	r.Handle("/ws", s.ws)
	r.Handle("/api/", http.StripPrefix("/api", s.api.Handler()))
	return s.logRequests(r)
}

// Start serves until the context is cancelled, then drains with a
// short shutdown grace period.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			// httpsnoop's wrapper hides the Hijacker the upgrade needs.
			next.ServeHTTP(w, r)
			return
		}
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration.Round(time.Microsecond),
		)
	})
}
