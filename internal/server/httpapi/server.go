// Package httpapi serves the document API as JSON over HTTP:
//
//	GET /documents/{id}  -> 200 {"uuid","content","last_modified"}
//	PUT /documents/{id}  <- {"content"}  -> 200 {"last_modified"}
//	GET /ping            -> 200 {"status":"OK"}
//	GET /metrics         Prometheus text format
//
// Errors are answered with {"error": "..."} and 400, 404, 409, 413 or 500.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/logging"
	"github.com/dmitrijs2005/gophdocs/internal/server/metrics"
	"github.com/dmitrijs2005/gophdocs/internal/server/models"
)

const defaultShutdownTimeout = 5 * time.Second

// DocumentStore is what the handlers need from the document service.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*models.Document, error)
	Put(ctx context.Context, id, content string) (int64, error)
}

type Server struct {
	address string
	docs    DocumentStore
	metrics *metrics.Metrics
	logger  logging.Logger

	// ShutdownTimeout bounds how long Run waits for in-flight requests.
	ShutdownTimeout time.Duration
}

func NewServer(address string, docs DocumentStore, m *metrics.Metrics, l logging.Logger) *Server {
	return &Server{
		address: address,
		docs:    docs,
		metrics: m,
		logger:  l.With("module", "http_server"),

		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// Handler returns the routed API with its middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents/{id}", s.getDocument)
	mux.HandleFunc("PUT /documents/{id}", s.putDocument)
	mux.HandleFunc("GET /ping", s.ping)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return s.withRequestID(s.withObservability(mux))
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
