package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/xtding233/bust-run/internal/api/handlers"
)

// Server is the REST front end over a game session.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	addr       string
	game       handlers.Game
}

// Config holds configuration for the API server.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Addr:           ":8080",
		RequestTimeout: 30 * time.Second,
	}
}

// NewServer wires middleware and routes for game.
func NewServer(cfg *Config, game handlers.Game) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		router: chi.NewRouter(),
		addr:   cfg.Addr,
		game:   game,
	}
	s.setupMiddleware(cfg)
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware(cfg *Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(cfg.RequestTimeout))
	}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens in a goroutine.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		log.Printf("api listening on %s", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("api server error: %v", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	log.Println("shutting down api server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.addr
}
