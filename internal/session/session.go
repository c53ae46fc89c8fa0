// Package session owns the live progress.State and applies intents to it one
// at a time. It is the only writer of the saved-run snapshot.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/xtding233/bust-run/internal/camp"
	"github.com/xtding233/bust-run/internal/cards"
	"github.com/xtding233/bust-run/internal/encounter"
	"github.com/xtding233/bust-run/internal/profile"
	"github.com/xtding233/bust-run/internal/progress"
	"github.com/xtding233/bust-run/internal/relic"
	"github.com/xtding233/bust-run/internal/run"
	"github.com/xtding233/bust-run/internal/snapshot"
	"github.com/xtding233/bust-run/internal/storage"
)

type Options struct {
	Store         storage.Store
	AutosaveEvery time.Duration // minimum gap between autosaves while ticking
	Now           func() time.Time
}

type Session struct {
	mu        sync.Mutex
	ctrl      *progress.Controller
	pending   *progress.Controller
	state     *progress.State
	transient Transient
	store     storage.Store
	autosave  *rate.Limiter
	now       func() time.Time
	intro     bool
}

// New creates a session on the menu. A nil store keeps everything in memory.
func New(ctrl *progress.Controller, opts Options) *Session {
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AutosaveEvery <= 0 {
		opts.AutosaveEvery = 15 * time.Second
	}
	ctrl.Now = opts.Now
	return &Session{
		ctrl:      ctrl,
		state:     progress.NewState(),
		transient: newTransient(),
		store:     opts.Store,
		autosave:  rate.NewLimiter(rate.Every(opts.AutosaveEvery), 1),
		now:       opts.Now,
		intro:     true,
	}
}

// LoadProfile replaces the controller profile with the stored one.
func (s *Session) LoadProfile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, err := s.store.LoadProfile(ctx)
	if err != nil {
		return err
	}
	p, err := profile.Decode(body)
	if err != nil {
		return err
	}
	s.ctrl.Profile = p
	return nil
}

// Reconfigure swaps in a controller built from a reloaded balance. It takes
// effect now on the menu, otherwise at the next run start.
func (s *Session) Reconfigure(next *progress.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next.Now = s.now
	if s.state.Active() {
		s.pending = next
		return
	}
	s.swapController(next)
}

func (s *Session) swapController(next *progress.Controller) {
	next.Profile = s.ctrl.Profile
	s.ctrl = next
	s.pending = nil
}

// Start begins a new run, abandoning any run in progress.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.swapController(s.pending)
	}
	if err := s.ctrl.StartRun(s.state); err != nil {
		return err
	}
	s.transient = newTransient()
	s.transient.PendingTransition = "encounter"
	s.intro = false
	s.absorbEvents()
	s.save(ctx, "start")
	s.saveProfile(ctx)
	return nil
}

// Act applies a hand intent. Finishing a hand writes a snapshot.
func (s *Session) Act(ctx context.Context, a encounter.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctrl.Act(s.state, a); err != nil {
		return err
	}
	s.absorbEvents()
	if s.state.Encounter != nil && s.state.Encounter.Phase == encounter.PhaseDone {
		s.save(ctx, "hand resolved")
	}
	return nil
}

// Tick advances timers by dt seconds. When the resolve pause runs out the
// controller deals the next hand or closes the encounter.
func (s *Session) Tick(ctx context.Context, dt float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TickAnnouncement(dt)
	s.transient.tick(dt)

	if s.state.Mode == progress.ModePlaying && s.ctrl.Engine.Tick(s.state.Encounter, dt) {
		persist, err := s.ctrl.Advance(s.state)
		if err != nil {
			return err
		}
		s.absorbEvents()
		switch {
		case s.state.Mode == progress.ModeVictory || s.state.Mode == progress.ModeDefeat:
			s.transient.PendingTransition = string(s.state.Mode)
			s.endRun(ctx)
			return nil
		case persist:
			if s.state.Mode == progress.ModeShop {
				s.transient.PendingTransition = "camp"
			}
			s.save(ctx, "advance")
			return nil
		}
	}

	if s.state.Active() && s.autosave.AllowN(s.now(), 1) {
		s.save(ctx, "autosave")
	}
	return nil
}

// Select moves the camp cursor.
func (s *Session) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Select(s.state, index)
}

// Claim takes a reward option.
func (s *Session) Claim(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctrl.ClaimReward(s.state, index); err != nil {
		return err
	}
	s.save(ctx, "claim")
	s.saveProfile(ctx)
	return nil
}

// Buy purchases or drafts a shop item.
func (s *Session) Buy(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctrl.Purchase(s.state, index); err != nil {
		return err
	}
	s.save(ctx, "purchase")
	s.saveProfile(ctx)
	return nil
}

// Leave exits the camp into the next encounter.
func (s *Session) Leave(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctrl.LeaveCamp(s.state); err != nil {
		return err
	}
	s.transient.PendingTransition = "encounter"
	s.absorbEvents()
	s.save(ctx, "leave camp")
	return nil
}

// Abandon gives up the run and discards the saved snapshot.
func (s *Session) Abandon(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctrl.Abandon(s.state); err != nil {
		return err
	}
	s.transient = newTransient()
	s.endRun(ctx)
	return nil
}

// Hidden is the visibility-lost / unload signal: write a snapshot now.
func (s *Session) Hidden(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, "hidden")
}

// Resume restores the stored snapshot. A missing or unusable snapshot leaves
// the session on the menu and reports false.
func (s *Session) Resume(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		log.Printf("resume: load snapshot: %v", err)
		return false
	}
	env := snapshot.Parse(body)
	if env == nil {
		if body != nil {
			log.Printf("resume: discarding unreadable snapshot")
			s.clearSnapshot(ctx)
		}
		return false
	}
	res, err := snapshot.Hydrate(snapshot.Migrate(env), snapshot.Collaborators{
		Registry: s.ctrl.Registry,
		Drafts:   s.ctrl.Gen,
		SanitizeRun: func(raw json.RawMessage) (*run.Run, error) {
			return run.Sanitize(raw, s.ctrl.Registry)
		},
		SanitizeEncounter: encounter.Sanitize,
	})
	if err != nil {
		log.Printf("resume: %v", err)
		s.clearSnapshot(ctx)
		return false
	}
	*s.state = progress.State{}
	res.Apply(s.state)
	ResetTransientStateAfterResume(s.state, &s.transient)
	s.intro = res.IntroActive
	return true
}

func (s *Session) absorbEvents() {
	if s.state.Encounter != nil {
		s.transient.absorb(s.state.Encounter.DrainEvents())
	}
}

// save writes the snapshot; failures are logged and swallowed. A hand that
// killed the player is recorded as a defeat instead, since a dead run can
// never be resumed.
func (s *Session) save(ctx context.Context, reason string) {
	if s.recordDefeat(ctx) {
		return
	}
	snap, err := snapshot.Build(s.state, s.now())
	if err != nil {
		log.Printf("save (%s): %v", reason, err)
		return
	}
	if snap == nil {
		return
	}
	body, err := snapshot.Encode(snap)
	if err != nil {
		log.Printf("save (%s): %v", reason, err)
		return
	}
	if err := s.store.SaveSnapshot(ctx, body, s.now()); err != nil {
		log.Printf("save (%s): %v", reason, err)
		return
	}
	s.transient.AutosaveTimer = 0
}

// recordDefeat finalizes a run whose player fell, ahead of the resolve pause.
// It reports whether the run is over.
func (s *Session) recordDefeat(ctx context.Context) bool {
	enc := s.state.Encounter
	if s.state.Run == nil || enc == nil || enc.Outcome != encounter.OutcomePlayerDefeated {
		return false
	}
	if s.ctrl.FinalizeRun(s.state, profile.OutcomeDefeat) {
		s.clearSnapshot(ctx)
		s.saveProfile(ctx)
	}
	return true
}

func (s *Session) clearSnapshot(ctx context.Context) {
	if err := s.store.ClearSnapshot(ctx); err != nil {
		log.Printf("clear snapshot: %v", err)
	}
}

func (s *Session) saveProfile(ctx context.Context) {
	body, err := json.Marshal(s.ctrl.Profile)
	if err != nil {
		log.Printf("save profile: %v", err)
		return
	}
	if err := s.store.SaveProfile(ctx, body); err != nil {
		log.Printf("save profile: %v", err)
	}
}

// endRun drops the snapshot of a finished run and records the profile.
func (s *Session) endRun(ctx context.Context) {
	s.clearSnapshot(ctx)
	s.saveProfile(ctx)
	if s.pending != nil {
		s.swapController(s.pending)
	}
}

// View is a copy of the state safe to hand to another goroutine.
type View struct {
	Mode              progress.Mode         `json:"mode"`
	Run               *run.Run              `json:"run"`
	Encounter         *EncounterView        `json:"encounter"`
	RewardOptions     []relic.Relic         `json:"rewardOptions"`
	ShopStock         []camp.ShopItem       `json:"shopStock"`
	SelectionIndex    int                   `json:"selectionIndex"`
	Announcement      string                `json:"announcement,omitempty"`
	AnnouncementTimer float64               `json:"announcementTimer,omitempty"`
	IntroActive       bool                  `json:"introActive"`
	Affordances       encounter.Affordances `json:"affordances"`
	Transient         Transient             `json:"transient"`
}

// EncounterView hides the dealer's hole card while it is face down.
type EncounterView struct {
	encounter.Encounter
	DealerHand  []cards.Card `json:"dealerHand"`
	PlayerTotal int          `json:"playerTotal"`
	DealerTotal int          `json:"dealerTotal"`
	ShoeCount   int          `json:"shoeCount"`
}

func (s *Session) View() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		Mode:              s.state.Mode,
		SelectionIndex:    s.state.SelectionIndex,
		Announcement:      s.state.Announcement,
		AnnouncementTimer: s.state.AnnouncementTimer,
		IntroActive:       s.intro,
		RewardOptions:     append([]relic.Relic{}, s.state.RewardOptions...),
		ShopStock:         append([]camp.ShopItem{}, s.state.ShopStock...),
		Transient: Transient{
			FloatingTexts:     append([]FloatingText{}, s.transient.FloatingTexts...),
			Particles:         append([]Particle{}, s.transient.Particles...),
			ShakeTimer:        s.transient.ShakeTimer,
			PendingTransition: s.transient.PendingTransition,
		},
	}
	if s.state.Run != nil {
		r, err := clone(s.state.Run)
		if err != nil {
			return View{}, err
		}
		v.Run = r
	}
	if enc := s.state.Encounter; enc != nil {
		c, err := clone(enc)
		if err != nil {
			return View{}, err
		}
		ev := &EncounterView{Encounter: *c, DealerHand: c.DealerHand, ShoeCount: len(c.Cards)}
		ev.Cards, ev.Discard, ev.Rejected = nil, nil, nil
		if c.HideDealerHole && len(c.DealerHand) > 1 {
			ev.DealerHand = c.DealerHand[:1]
		}
		ev.PlayerTotal = cards.Total(c.PlayerHand)
		ev.DealerTotal = cards.Total(ev.DealerHand)
		v.Encounter = ev
		v.Affordances = s.ctrl.Engine.Affordances(s.state.Run, enc)
	}
	return v, nil
}

// Profile returns a copy of the meta progression.
func (s *Session) Profile() (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.ctrl.Profile)
}

func clone[T any](v *T) (*T, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}
