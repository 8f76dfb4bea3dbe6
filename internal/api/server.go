package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/vetdao/governance-locks/internal/api/handlers"
	"github.com/vetdao/governance-locks/internal/config"
)

type Server struct {
	httpServer *http.Server
	handlers   *handlers.Handler
}

func New(cfg *config.ServerConfig, svc handlers.LockService) *Server {
	s := &Server{
		handlers: handlers.New(svc),
	}

	r := chi.NewRouter()
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(RecoveryMiddleware)
	if cfg.RateLimit > 0 {
		r.Use(RateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}
	r.Use(ContentLengthMiddleware)
	s.setupRoutes(r)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.Info().Msgf("Starting api server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
