// Package server serves the event listing over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/internal/dbconn"
	"github.com/huangsam/devevent/internal/logging"
	"github.com/huangsam/devevent/internal/ui"
	"github.com/rs/zerolog"
)

// FeaturedLimit caps the number of events on the home page.
const FeaturedLimit = 6

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Addr   string
	Limit  int // Maximum events on the listing page; <= 0 means no limit
	Logger zerolog.Logger
}

// Server renders events from an EventStore.
type Server struct {
	store  contract.EventStore
	opts   Options
	engine *gin.Engine
}

// New builds the gin engine and its routes.
func New(store contract.EventStore, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{store: store, opts: opts, engine: gin.New()}
	s.engine.Use(requestLogger(opts.Logger), recovery(opts.Logger))

	s.engine.GET("/", s.handleHome)
	s.engine.GET("/events", s.handleEvents)
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.StaticFS("/icons", http.FS(ui.Icons()))
	return s
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully and closes
// the shared connection caches.
func (s *Server) Run(ctx context.Context) error {
	logger := s.opts.Logger
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return logging.WithContext(context.Background(), logger) },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.opts.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		serveErr = srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		serveErr = err
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	return errors.Join(serveErr, dbconn.CloseAll(closeCtx))
}

// requestLogger logs each request and attaches the logger to the request context.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// recovery turns panics into 500 responses.
func recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		logger.Error().Interface("panic", err).Str("path", c.Request.URL.Path).Msg("recovered from panic")
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
