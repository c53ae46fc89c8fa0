package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/xtding233/bust-run/internal/camp"
	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/economy"
	"github.com/xtding233/bust-run/internal/encounter"
	"github.com/xtding233/bust-run/internal/profile"
	"github.com/xtding233/bust-run/internal/relic"
	"github.com/xtding233/bust-run/internal/rng"
	"github.com/xtding233/bust-run/internal/run"
)

// ErrUnavailable is returned for camp or run operations that are not legal
// in the current mode. State is left untouched.
var ErrUnavailable = errors.New("unavailable")

// Generators produce camp content. The controller stores what they return
// and never rolls content itself.
type Generators interface {
	RewardOptions(floor int, floorClear bool) []relic.Relic
	CampRelicDraftStock(options []relic.Relic) []camp.ShopItem
	ShopStock(floor int) []camp.ShopItem
}

type Controller struct {
	Balance   config.Balance
	Engine    *encounter.Engine
	Registry  *relic.Registry
	Gen       Generators
	Overrides config.EconomyOverrides
	RNG       rng.RandomSource
	Profile   *profile.Profile
	Now       func() time.Time
}

// NewController wires a controller for one balance. A nil profile starts empty.
func NewController(bal config.Balance, reg *relic.Registry, gen Generators, src rng.RandomSource, prof *profile.Profile) *Controller {
	if src == nil {
		src = rng.DefaultRNG()
	}
	if prof == nil {
		prof = profile.New()
	}
	return &Controller{
		Balance:  bal,
		Engine:   encounter.NewEngine(bal.Hand, src),
		Registry: reg,
		Gen:      gen,
		RNG:      src,
		Profile:  prof,
		Now:      time.Now,
	}
}

// StartRun replaces whatever the state held with a fresh run at room 1.
// An unfinished previous run is recorded as abandoned first.
func (c *Controller) StartRun(s *State) error {
	if s.Run != nil && !s.Run.Finalized {
		c.FinalizeRun(s, profile.OutcomeAbandoned)
	}
	r := run.New(c.Balance.Run, c.Registry, c.Now())
	economy.Seed(r, c.Registry, c.Overrides)
	c.Profile.StartRun()
	for id, n := range r.Player.Relics {
		for i := 0; i < n; i++ {
			c.Profile.AddRelic(id)
		}
	}
	r.Logf("Run started: %d floors of %d rooms", r.MaxFloor, r.RoomsPerFloor)

	s.Run = r
	s.Encounter = nil
	s.clearCamp()
	s.Announce(fmt.Sprintf("Floor %d", r.Floor))
	return c.beginRoom(s)
}

func (c *Controller) beginRoom(s *State) error {
	r := s.Run
	typ := encounter.TypeForRoom(r.Room, r.RoomsPerFloor)
	enemy := encounter.NewEnemy(c.Balance.Enemies[string(typ)], typ, r.Floor, c.RNG)
	enc, err := c.Engine.Begin(r, enemy)
	if err != nil {
		return fmt.Errorf("begin room %d: %w", r.Room, err)
	}
	s.Encounter = enc
	s.Mode = ModePlaying
	return nil
}

// Act forwards a player intent to the encounter engine.
func (c *Controller) Act(s *State, a encounter.Action) error {
	if s.Mode != ModePlaying || s.Run == nil || s.Encounter == nil {
		return fmt.Errorf("%w: no hand in play", encounter.ErrActionUnavailable)
	}
	return c.Engine.Apply(s.Run, s.Encounter, a)
}

// Advance is called once the resolve pause has elapsed. It deals the next
// hand or hands the finished encounter to OnEncounterWin / OnEncounterLoss.
// persist reports whether a snapshot should be written now.
func (c *Controller) Advance(s *State) (persist bool, err error) {
	if s.Mode != ModePlaying || s.Encounter == nil || s.Encounter.Phase != encounter.PhaseDone {
		return false, nil
	}
	switch s.Encounter.Outcome {
	case encounter.OutcomeEnemyDefeated:
		return c.OnEncounterWin(s), nil
	case encounter.OutcomePlayerDefeated:
		return c.OnEncounterLoss(s), nil
	}
	if err := c.Engine.StartHand(s.Run, s.Encounter); err != nil {
		return false, err
	}
	return true, nil
}

// OnEncounterWin applies the post-fight rules. Boss checks come before room
// parity, and the final boss ends the run before any floor advance.
func (c *Controller) OnEncounterWin(s *State) (persist bool) {
	r := s.Run
	if r == nil || s.Encounter == nil {
		return false
	}
	boss := s.Encounter.Enemy.Type == encounter.EnemyBoss
	r.EnemiesDefeated++
	s.Encounter = nil
	s.clearCamp()

	if boss && r.Floor >= r.MaxFloor {
		r.Logf("The house has fallen")
		c.FinalizeRun(s, profile.OutcomeVictory)
		s.Mode = ModeVictory
		s.Announce("Victory!")
		return false
	}

	if boss {
		r.Floor++
		r.Room = 1
		healed := economy.HealFraction(&r.Player, c.Balance.Run.FloorHealFraction)
		s.RewardOptions = nonNilRelics(c.Gen.RewardOptions(r.Floor, true))
		s.ShopStock = nonNilStock(c.Gen.CampRelicDraftStock(s.RewardOptions))
		r.ShopPurchaseMade = false
		s.Mode = ModeShop
		r.Logf("Floor cleared, rested for %d hp", healed)
		s.Announce(fmt.Sprintf("Floor %d", r.Floor))
		return true
	}

	r.Room++
	if r.Room%2 == 0 {
		s.RewardOptions = nonNilRelics(c.Gen.RewardOptions(r.Floor, false))
		s.ShopStock = nonNilStock(c.Gen.CampRelicDraftStock(s.RewardOptions))
		r.Logf("A relic camp")
	} else {
		s.ShopStock = nonNilStock(c.Gen.ShopStock(r.Floor))
		r.Logf("A merchant's camp")
	}
	r.ShopPurchaseMade = false
	s.Mode = ModeShop
	return true
}

// OnEncounterLoss ends the run in defeat. Nothing is persisted.
func (c *Controller) OnEncounterLoss(s *State) (persist bool) {
	if s.Run == nil {
		return false
	}
	s.Run.Logf("Fell on floor %d, room %d", s.Run.Floor, s.Run.Room)
	c.FinalizeRun(s, profile.OutcomeDefeat)
	s.Mode = ModeDefeat
	s.Announce("Defeat")
	return false
}

// FinalizeRun records the run into the profile once.
func (c *Controller) FinalizeRun(s *State, outcome profile.Outcome) bool {
	if s.Run == nil {
		return false
	}
	return c.Profile.Record(s.Run, outcome, c.Now())
}

// Abandon gives up the current run and returns to the menu.
func (c *Controller) Abandon(s *State) error {
	if !s.Active() {
		return fmt.Errorf("%w: no run to abandon", ErrUnavailable)
	}
	c.FinalizeRun(s, profile.OutcomeAbandoned)
	s.Mode = ModeMenu
	s.Run = nil
	s.Encounter = nil
	s.clearCamp()
	s.Announcement, s.AnnouncementTimer = "", 0
	return nil
}

func nonNilRelics(in []relic.Relic) []relic.Relic {
	if in == nil {
		return []relic.Relic{}
	}
	return in
}

func nonNilStock(in []camp.ShopItem) []camp.ShopItem {
	if in == nil {
		return []camp.ShopItem{}
	}
	return in
}
