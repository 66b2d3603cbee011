package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-map-service/internal/mapview"
)

// MapProvider exposes the composed view and whether it is ready.
type MapProvider interface {
	View() *mapview.View
	CheckReadiness(ctx context.Context) error
}

// Server serves the map page, its data, and health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	maps       MapProvider
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /map.json, /layers/{name},
// /healthz, /readyz, and /metrics routes.
func NewServer(addr string, maps MapProvider, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		maps:   maps,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /map.json", s.handleView)
	mux.HandleFunc("GET /layers/{name}", s.handleLayer)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(maps))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	status := http.StatusOK

	view := s.maps.View()
	if view == nil {
		status = http.StatusServiceUnavailable
		reason := ""
		if err := s.maps.CheckReadiness(r.Context()); err != nil {
			reason = err.Error()
		}
		if err := mapview.RenderUnavailablePage(&buf, reason); err != nil {
			s.logger.Error("render fallback page failed", "error", err)
			http.Error(w, "map unavailable", http.StatusServiceUnavailable)
			return
		}
	} else if err := mapview.RenderPage(&buf, view); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view, ok := s.readyView(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleLayer(w http.ResponseWriter, r *http.Request) {
	view, ok := s.readyView(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")
	for _, layer := range view.Overlays {
		if strings.EqualFold(layer.Name, name) {
			writeJSON(w, http.StatusOK, layer)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown layer: " + name})
}

func (s *Server) readyView(w http.ResponseWriter, r *http.Request) (*mapview.View, bool) {
	view := s.maps.View()
	if view != nil {
		return view, true
	}
	body := map[string]string{"status": "not ready"}
	if err := s.maps.CheckReadiness(r.Context()); err != nil {
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusServiceUnavailable, body)
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
