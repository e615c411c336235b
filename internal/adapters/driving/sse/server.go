package sse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/prdstore/internal/logger"
	"github.com/custodia-labs/prdstore/internal/metrics"
)

// ServiceName identifies the service in health and info responses.
const ServiceName = "prd-storage-mcp"

// Info describes the running configuration for /health and /.
type Info struct {
	Version              string
	Storage              string
	Search               string
	ConfirmationRequired bool
}

// Health is the body of GET /health.
type Health struct {
	Status               string `json:"status"`
	Service              string `json:"service"`
	Storage              string `json:"storage"`
	Search               string `json:"search"`
	ConfirmationRequired bool   `json:"confirmation_required"`
}

// ServiceInfo is the body of GET /.
type ServiceInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
	Tools     []string          `json:"tools"`
}

// Server serves the adapter over HTTP.
type Server struct {
	adapter *Adapter
	info    Info
	mux     *http.ServeMux
}

// NewServer creates a server for adapter.
func NewServer(adapter *Adapter, info Info) *Server {
	s := &Server{adapter: adapter, info: info, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /sse", s.handleSSE)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleInfo)
	s.mux.Handle("GET /metrics", metrics.Handler())
	return s
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("SSE transport listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEvent(w, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	logger.Debug("sse request: %s", req.Method)
	writeEvent(w, s.adapter.Handle(r.Context(), req))
}

func writeEvent(w http.ResponseWriter, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		payload, _ = json.Marshal(ErrorResponse{Error: "encode response: " + err.Error()})
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		logger.Warn("sse write failed: %v", err)
		return
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, Health{
		Status:               "healthy",
		Service:              ServiceName,
		Storage:              s.info.Storage,
		Search:               s.info.Search,
		ConfirmationRequired: s.info.ConfirmationRequired,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	defs := s.adapter.registry.List()
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	writeJSON(w, ServiceInfo{
		Service: "PRD Storage MCP Server",
		Version: s.info.Version,
		Endpoints: map[string]string{
			"sse":     "/sse",
			"health":  "/health",
			"metrics": "/metrics",
		},
		Tools: names,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response: %v", err)
	}
}
