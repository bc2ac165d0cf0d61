// Package server exposes the recognition pipeline over HTTP and WebSocket.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/mosaic/internal/config"
	"github.com/MeKo-Tech/mosaic/internal/pipeline"
)

// Server serves OCR requests against a shared pipeline instance.
type Server struct {
	cfg      config.ServerConfig
	pipeline *pipeline.Pipeline
	httpSrv  *http.Server
}

// New creates a server around an already-built pipeline. The server does not
// own the pipeline; the caller remains responsible for closing it after
// Shutdown has drained in-flight requests.
func New(cfg config.ServerConfig, p *pipeline.Pipeline) *Server {
	s := &Server{cfg: cfg, pipeline: p}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.logging(s.handleHealth))
	mux.HandleFunc("/v1/ocr", s.logging(s.handleOCR))
	mux.HandleFunc("/v1/ocr/stream", s.handleOCRStream)
	mux.HandleFunc("/v1/info", s.logging(s.handleInfo))
	mux.Handle("/metrics", promhttp.Handler())

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      mux,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	return s
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string { return s.httpSrv.Addr }

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	slog.Info("server listening", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }
