package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xtding233/bust-run/internal/api/handlers"
	"github.com/xtding233/bust-run/internal/api/response"
)

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	h := handlers.NewGameHandler(s.game)
	s.router.Get("/state", h.GetState)
	s.router.Get("/profile", h.GetProfile)

	s.router.Route("/run", func(r chi.Router) {
		r.Post("/", h.StartRun)
		r.Post("/action/{action}", h.Act)
		r.Post("/tick", h.Tick)
		r.Post("/abandon", h.Abandon)
	})

	s.router.Route("/camp", func(r chi.Router) {
		r.Post("/claim/{index}", h.Claim)
		r.Post("/buy/{index}", h.Buy)
		r.Post("/select/{index}", h.Select)
		r.Post("/leave", h.Leave)
	})

	s.router.Route("/session", func(r chi.Router) {
		r.Post("/hidden", h.Hidden)
		r.Post("/unload", h.Hidden)
		r.Post("/resume", h.Resume)
	})
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"})
}
