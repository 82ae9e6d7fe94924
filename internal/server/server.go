// Package server exposes deck rendering over HTTP.
//
// The only rendering endpoint takes a configuration and a decklist as
// multipart files and answers with the PNG sheet. Images and fonts are read
// from the server's own assets folder; requests cannot point it elsewhere.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/tgrunnagle/playing-card-gen/pkg/cache"
	"github.com/tgrunnagle/playing-card-gen/pkg/fonts"
	"github.com/tgrunnagle/playing-card-gen/pkg/pipeline"
	"github.com/tgrunnagle/playing-card-gen/pkg/source/local"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8084"

	// maxUploadBytes caps the multipart body of a render request.
	maxUploadBytes = 16 << 20

	requestTimeout  = 2 * time.Minute
	shutdownTimeout = 10 * time.Second

	headerRequestID = "X-Request-Id"

	// keyPrefix keeps server renders apart from CLI renders in a shared cache.
	keyPrefix = "server:"
)

// Config configures a Server.
type Config struct {
	Addr         string
	AssetsFolder string
	Cache        cache.Cache // nil disables caching of rendered sheets
	Logger       *log.Logger
}

// Server renders decks for HTTP clients.
type Server struct {
	addr   string
	assets *local.Source
	fonts  *fonts.Loader
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New returns a server reading assets from cfg.AssetsFolder.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{
		addr:   cfg.Addr,
		assets: local.New(cfg.AssetsFolder, ""),
		fonts:  fonts.NewConfinedLoader(cfg.AssetsFolder),
		runner: pipeline.NewRunner(cfg.Cache, cache.NewScopedKeyer(nil, keyPrefix), cfg.Logger),
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
	})
	// Path used by older clients.
	r.Post("/gen", s.handleRender)
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr, "assets", s.assets.AssetsDir())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Close releases the server's cache.
func (s *Server) Close() error {
	return s.runner.Close()
}

type ctxKey struct{}

// requestID tags each request with a UUID, echoed in the response header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the ID assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// logRequests logs every request once it completes, and hands handlers a
// logger tagged with the request id through the request context.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := s.logger.With("id", RequestID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(log.WithContext(r.Context(), logger)))
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
