package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/pipeline"
	"github.com/planforge/planforge/internal/resources"
)

// Config holds HTTP server configuration.
type Config struct {
	// Addr is the listen address. Default: ":8001".
	Addr string

	// Mode selects gin's mode: "release" or "debug". Default: "release".
	Mode string
}

// ConfigFromEnv builds a Config from environment variables.
func ConfigFromEnv() Config {
	cfg := Config{
		Addr: ":8001",
		Mode: "release",
	}
	if a := os.Getenv("PLANFORGE_ADDR"); a != "" {
		cfg.Addr = a
	}
	if m := os.Getenv("PLANFORGE_HTTP_MODE"); m != "" {
		cfg.Mode = m
	}
	return cfg
}

// Server is the HTTP surface over the lesson plan pipeline.
type Server struct {
	cfg    Config
	http   *http.Server
	log    *logger.Logger
}

// New wires the router and returns a Server ready to run.
func New(cfg Config, pl *pipeline.Pipeline, lookup resources.Lookup, log *logger.Logger) *Server {
	h := newHandlers(pl, lookup, log)
	engine := newRouter(cfg, h, log)

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.cfg.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.log.Info("shutting down http server")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
