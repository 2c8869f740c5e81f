// Package server implements the jsonviz HTTP API.
//
// Routes:
//
//	GET    /healthz             liveness check
//	GET    /version             build information
//	POST   /v1/layout           JSON body → diagram JSON
//	POST   /v1/render?format=   JSON body → svg, png, dot or json artifact
//	POST   /v1/diagrams         lay out and store, 201 {"id": ...}
//	GET    /v1/diagrams/{id}    fetch a stored diagram
//	DELETE /v1/diagrams/{id}    delete a stored diagram
//
// Layout endpoints accept the query parameters repair, node_height,
// x_spacing, min_spacing, group_spacing and max_depth. Errors are returned
// as {"code", "message"} with a status derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/httputil"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
	"github.com/matzehuels/jsonviz/pkg/store"
)

// Default server settings.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = time.Minute
	shutdownTimeout     = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxBodyBytes limits request bodies. Zero uses
	// errors.DefaultMaxInputSize; negative disables the limit.
	MaxBodyBytes int64

	// StoreTTL is how long saved diagrams live. Zero uses store.DefaultTTL.
	StoreTTL time.Duration

	// Defaults are the layout options requests start from before query
	// parameters are applied.
	Defaults pipeline.Options
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = errors.DefaultMaxInputSize
	}
	if c.StoreTTL == 0 {
		c.StoreTTL = store.DefaultTTL
	}
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil store falls back to a MemoryStore; a nil
// logger to log.Default().
func New(cfg Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	cfg.setDefaults()
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handle(s.health))
	r.Get("/version", s.handle(s.version))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handle(s.layout))
		r.Post("/render", s.handle(s.render))
		r.Post("/diagrams", s.handle(s.createDiagram))
		r.Get("/diagrams/{id}", s.handle(s.getDiagram))
		r.Delete("/diagrams/{id}", s.handle(s.deleteDiagram))
	})

	r.NotFound(s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
	}))
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "method " + r.Method + " not allowed for " + r.URL.Path,
		})
	})
	return r
}

// Handler returns the HTTP handler for embedding in other servers or tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", s.cfg.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
