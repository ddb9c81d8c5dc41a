// Package server exposes the research engine over HTTP: a blocking JSON
// endpoint, a Server-Sent Events stream with out-of-band cancellation, and
// in-memory conversation history for multi-turn research.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/journeyworks/reagent"
	"github.com/journeyworks/reagent/history"
)

// Config tunes the HTTP surface.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// AllowedOrigins configures CORS. Empty allows no cross-origin calls.
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// ShutdownTimeout bounds graceful shutdown. Default 10s.
	ShutdownTimeout time.Duration `yaml:"-"`
}

// Server wires the engine, session registry and conversation history
// behind a chi router.
type Server struct {
	executor *reagent.Executor
	sessions *reagent.SessionRegistry
	history  *history.Store
	logger   *slog.Logger
	config   Config
	router   chi.Router
}

func New(executor *reagent.Executor, sessions *reagent.SessionRegistry, hist *history.Store, config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		executor: executor,
		sessions: sessions,
		history:  hist,
		logger:   logger,
		config:   config,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if len(s.config.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/research", s.handleResearch)
		r.Post("/research/stream", s.handleResearchStream)
		r.Post("/research/{sessionID}/cancel", s.handleCancel)
		r.Delete("/conversations/{conversationID}", s.handleClearConversation)
	})
	return r
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Addr,
		Handler: s.router,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.config.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
