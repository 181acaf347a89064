// Package api serves the analysis engine over HTTP with the JSON envelope
// {"success": bool, "data" | "error" + "details"}.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Veraticus/lelesmart/internal/config"
)

const shutdownTimeout = 5 * time.Second

// Server is the lele HTTP API.
type Server struct {
	handler http.Handler
	cfg     config.ServerConfig
}

// NewServer wires the routes onto analyzer.
func NewServer(analyzer Analyzer, cfg config.ServerConfig) *Server {
	h := &handlers{analyzer: analyzer}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/seed-condition", allow(h.seedCondition, http.MethodPost))
	mux.HandleFunc("/api/pond-condition", allow(h.pondCondition, http.MethodPost))
	mux.HandleFunc("/api/final-result", allow(h.finalResult, http.MethodPost))
	mux.HandleFunc("/api/analyses", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.listAnalyses(w, r)
		case http.MethodPost:
			h.createAnalysis(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})
	mux.HandleFunc("/api/analyses/{id}", allow(h.getAnalysis, http.MethodGet))
	mux.HandleFunc("/healthz", allow(healthz, http.MethodGet))
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	return &Server{handler: logRequests(mux), cfg: cfg}
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and shuts down gracefully when ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Serve(ln)
	}()

	slog.Info("API server listening", "addr", ln.Addr().String())

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
