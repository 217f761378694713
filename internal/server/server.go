// Package server exposes annotation and size lookups over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bundlesize/pkg/annotate"
	"github.com/matzehuels/bundlesize/pkg/sizes"
)

const (
	// DefaultAddr is the listen address when none is given.
	DefaultAddr = ":8080"

	maxManifestBytes = 1 << 20
	maxBatchQueries  = 200
	shutdownTimeout  = 10 * time.Second
)

// Lookups is the coordinator surface the server needs.
type Lookups interface {
	annotate.Lookup
	Stats() sizes.Stats
}

// Options configures a [Server].
type Options struct {
	Addr    string
	Logger  *log.Logger
	Metrics http.Handler // Served at /metrics when non-nil

	// Workspaces confines the annotate root parameter to this directory
	// tree. When empty, requests naming a root are rejected.
	Workspaces string
}

// Server is the bundlesize HTTP API.
type Server struct {
	annotator *annotate.Annotator
	lookups   Lookups
	metrics   http.Handler
	logger    *log.Logger
	addr      string
	base      string
	started   time.Time
}

// New creates a Server.
func New(annotator *annotate.Annotator, lookups Lookups, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	base := ""
	if opts.Workspaces != "" {
		base = canonicalPath(opts.Workspaces)
	}
	return &Server{
		base:      base,
		annotator: annotator,
		lookups:   lookups,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		addr:      opts.Addr,
		started:   time.Now(),
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/annotate", s.handleAnnotate)
		r.Get("/size/*", s.handleSize)
		r.Post("/sizes", s.handleSizes)
		r.Get("/links/*", s.handleLinks)
		r.Get("/stats", s.handleStats)
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is [Server.ListenAndServe] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
