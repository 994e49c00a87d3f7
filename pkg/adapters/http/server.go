package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/onion"
	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/events"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Application is the part of the runtime the server inspects.
// *onion.Application implements it.
type Application interface {
	Components() *component.Container
	Hub() *events.Hub
}

// ComponentInfo describes a built component.
type ComponentInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Server serves the introspection endpoints of an application.
type Server struct {
	App      Application
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler creates a new HTTP handler for app. A nil gatherer serves the
// default Prometheus registry.
func NewHandler(app Application, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{App: app, Gatherer: gatherer, Logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/components", s.ListComponents)
	r.Get("/sources", s.ListSources)
	r.Get("/sources/{name}/events", s.SubscribeEvents)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "onion",
		"version": strings.TrimSpace(onion.Version),
	})
}

// ListComponents handles the GET /components request.
func (s *Server) ListComponents(w http.ResponseWriter, r *http.Request) {
	infos := make([]ComponentInfo, 0, s.App.Components().Len())
	s.App.Components().Each(func(name string, inst any) bool {
		infos = append(infos, ComponentInfo{Name: name, Type: fmt.Sprintf("%T", inst)})
		return true
	})
	s.writeJSON(w, infos)
}

// ListSources handles the GET /sources request.
func (s *Server) ListSources(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.App.Hub().Names())
}

// SubscribeEvents handles the GET /sources/{name}/events request (SSE).
// Each event of the named source is sent as a JSON data line.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	name := chi.URLParam(r, "name")
	if !s.App.Hub().Contains(name) {
		http.Error(w, fmt.Sprintf("unknown source %q", name), http.StatusNotFound)
		return
	}

	ch := make(chan string, 10)
	listener := events.Sync(func(_ context.Context, e any) error {
		payload, err := json.Marshal(encodable(e))
		if err != nil {
			return err
		}
		select {
		case ch <- string(payload):
		default:
			s.Logger.Warn("SSE: client buffer full, dropping event", "source", name)
		}
		return nil
	})
	if err := s.App.Hub().AddListener(name, listener); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := s.App.Hub().RemoveListener(name, listener); err != nil {
			s.Logger.Debug("SSE: listener already gone", "source", name, "error", err)
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// valueEvent is implemented by component.ValueChanged.
type valueEvent interface {
	Values() (value, previous any)
}

func encodable(e any) any {
	if v, ok := e.(valueEvent); ok {
		value, previous := v.Values()
		return map[string]any{"value": value, "previous": previous}
	}
	return e
}
