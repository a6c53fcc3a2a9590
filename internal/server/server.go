// Package server implements the letterpress HTTP API.
//
// Routes:
//
//	POST /v1/hang      JSON in, JSON out
//	POST /v1/hang/raw  fragment in, text/html out
//	GET  /v1/glyphs    glyph table
//	GET  /healthz      liveness
//	GET  /version      build information
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/pipeline"
)

// Config configures a Server.
type Config struct {
	Addr           string
	RequestTimeout time.Duration

	// MaxInputBytes bounds the fragment size. Request bodies may be larger
	// by the JSON envelope.
	MaxInputBytes int

	// Markdown is the default for requests that do not say.
	Markdown bool
}

// Server serves the API over a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// New creates a server. Zero config fields take defaults.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = lperrors.DefaultMaxInputBytes
	}
	return &Server{runner: runner, logger: logger, cfg: cfg}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/glyphs", s.handleGlyphs)
		r.Group(func(r chi.Router) {
			r.Use(limitBody(s.maxBodyBytes()))
			r.Post("/hang", s.handleHang)
			r.Post("/hang/raw", s.handleHangRaw)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, lperrors.ErrCodeNotFound, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, lperrors.ErrCodeUnsupported, "method not allowed")
	})

	return r
}

// maxBodyBytes leaves room for JSON escaping of a maximal fragment.
func (s *Server) maxBodyBytes() int64 {
	return int64(s.cfg.MaxInputBytes)*2 + 4096
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
