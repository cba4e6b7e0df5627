// Package http is the inbound HTTP adapter: a gin router over the quote and
// operational handlers, and a server that drains on shutdown.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quote-service/internal/platform/config"
)

// Server serves a handler on the configured address.
type Server struct {
	cfg    *config.ServerConfig
	srv    *http.Server
	logger *slog.Logger

	mu   sync.Mutex
	addr string
}

// NewServer prepares a server for handler. Nothing listens until Run.
func NewServer(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		logger: logger.With(slog.String("component", "http")),
		addr:   addr,
	}
}

// Addr is the configured address until Run binds, then the bound one. With
// port 0 that is where the kernel-chosen port shows up.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addr
}

// Run binds, serves, and returns once ctx is done and in-flight requests
// have drained, or as soon as serving fails. A bind failure is returned
// before anything is served.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("http server error: %w", err)
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening",
			slog.String("addr", ln.Addr().String()),
			slog.Duration("read_timeout", s.cfg.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.WriteTimeout),
		)

		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		drain, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()

		return s.Shutdown(drain)
	})

	return g.Wait()
}

// Shutdown stops accepting connections and waits for active ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("draining", slog.Duration("timeout", s.cfg.ShutdownTimeout))

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("stopped")

	return nil
}
