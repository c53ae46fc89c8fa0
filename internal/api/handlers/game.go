package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xtding233/bust-run/internal/api/response"
	"github.com/xtding233/bust-run/internal/encounter"
	"github.com/xtding233/bust-run/internal/profile"
	"github.com/xtding233/bust-run/internal/progress"
	"github.com/xtding233/bust-run/internal/session"
)

// Game is the part of session.Session the handlers drive.
type Game interface {
	View() (session.View, error)
	Profile() (*profile.Profile, error)
	Start(ctx context.Context) error
	Act(ctx context.Context, a encounter.Action) error
	Tick(ctx context.Context, dt float64) error
	Select(index int) error
	Claim(ctx context.Context, index int) error
	Buy(ctx context.Context, index int) error
	Leave(ctx context.Context) error
	Abandon(ctx context.Context) error
	Hidden(ctx context.Context)
	Resume(ctx context.Context) bool
}

// GameHandler exposes run, camp and session intents.
type GameHandler struct {
	game Game
}

func NewGameHandler(game Game) *GameHandler {
	return &GameHandler{game: game}
}

// TickRequest carries the elapsed seconds since the last tick.
type TickRequest struct {
	DT float64 `json:"dt"`
}

// ResumeResponse reports whether a saved run was restored.
type ResumeResponse struct {
	Resumed bool         `json:"resumed"`
	State   session.View `json:"state"`
}

// GetState returns the current view.
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.writeView(w)
}

// GetProfile returns the meta progression.
func (h *GameHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.game.Profile()
	if err != nil {
		response.InternalError(w, fmt.Errorf("failed to read profile: %w", err))
		return
	}
	response.Success(w, p)
}

// StartRun begins a new run.
func (h *GameHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	if err := h.game.Start(r.Context()); err != nil {
		writeIntentError(w, err)
		return
	}
	v, err := h.game.View()
	if err != nil {
		response.InternalError(w, fmt.Errorf("failed to build view: %w", err))
		return
	}
	response.Created(w, v)
}

// Act applies hit, stand, double or split.
func (h *GameHandler) Act(w http.ResponseWriter, r *http.Request) {
	a := encounter.Action(chi.URLParam(r, "action"))
	switch a {
	case encounter.ActionHit, encounter.ActionStand, encounter.ActionDouble, encounter.ActionSplit:
	default:
		response.BadRequest(w, fmt.Errorf("unknown action %q", a))
		return
	}
	h.apply(w, h.game.Act(r.Context(), a))
}

// Tick advances timers by the posted dt.
func (h *GameHandler) Tick(w http.ResponseWriter, r *http.Request) {
	var req TickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.DT <= 0 {
		response.BadRequest(w, errors.New("dt must be positive"))
		return
	}
	h.apply(w, h.game.Tick(r.Context(), req.DT))
}

func (h *GameHandler) Select(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	h.apply(w, h.game.Select(index))
}

func (h *GameHandler) Claim(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	h.apply(w, h.game.Claim(r.Context(), index))
}

func (h *GameHandler) Buy(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	h.apply(w, h.game.Buy(r.Context(), index))
}

func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.apply(w, h.game.Leave(r.Context()))
}

func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	h.apply(w, h.game.Abandon(r.Context()))
}

// Hidden handles both visibility loss and unload.
func (h *GameHandler) Hidden(w http.ResponseWriter, r *http.Request) {
	h.game.Hidden(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Resume restores the saved run, if any.
func (h *GameHandler) Resume(w http.ResponseWriter, r *http.Request) {
	resumed := h.game.Resume(r.Context())
	v, err := h.game.View()
	if err != nil {
		response.InternalError(w, fmt.Errorf("failed to build view: %w", err))
		return
	}
	response.Success(w, ResumeResponse{Resumed: resumed, State: v})
}

func (h *GameHandler) apply(w http.ResponseWriter, err error) {
	if err != nil {
		writeIntentError(w, err)
		return
	}
	h.writeView(w)
}

func (h *GameHandler) writeView(w http.ResponseWriter) {
	v, err := h.game.View()
	if err != nil {
		response.InternalError(w, fmt.Errorf("failed to build view: %w", err))
		return
	}
	response.Success(w, v)
}

func writeIntentError(w http.ResponseWriter, err error) {
	if errors.Is(err, encounter.ErrActionUnavailable) || errors.Is(err, progress.ErrUnavailable) {
		response.Conflict(w, err)
		return
	}
	response.InternalError(w, err)
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		response.BadRequest(w, fmt.Errorf("invalid index %q", raw))
		return 0, false
	}
	return index, true
}
