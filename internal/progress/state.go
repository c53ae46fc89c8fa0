// Package progress moves a run between encounters and camps and decides when
// the session should persist.
package progress

import (
	"github.com/xtding233/bust-run/internal/camp"
	"github.com/xtding233/bust-run/internal/encounter"
	"github.com/xtding233/bust-run/internal/relic"
	"github.com/xtding233/bust-run/internal/run"
)

// Mode is the top-level screen the session is on.
type Mode string

const (
	ModeMenu    Mode = "menu"
	ModePlaying Mode = "playing"
	ModeShop    Mode = "shop"
	ModeVictory Mode = "victory"
	ModeDefeat  Mode = "defeat"
)

// AnnouncementSeconds is how long a banner stays up.
const AnnouncementSeconds = 2.5

// State is the session context every core operation works on.
// Run and Encounter are nil on the menu.
type State struct {
	Mode              Mode
	Run               *run.Run
	Encounter         *encounter.Encounter
	RewardOptions     []relic.Relic
	ShopStock         []camp.ShopItem
	SelectionIndex    int
	Announcement      string
	AnnouncementTimer float64
}

// NewState starts on the menu.
func NewState() *State {
	return &State{Mode: ModeMenu}
}

// Active reports whether a run is in progress and resumable.
func (s *State) Active() bool {
	return s.Run != nil && !s.Run.Finalized && (s.Mode == ModePlaying || s.Mode == ModeShop)
}

// Announce raises a banner.
func (s *State) Announce(text string) {
	s.Announcement = text
	s.AnnouncementTimer = AnnouncementSeconds
}

// TickAnnouncement counts the banner down and clears it when done.
func (s *State) TickAnnouncement(dt float64) {
	if s.AnnouncementTimer <= 0 || dt <= 0 {
		return
	}
	s.AnnouncementTimer -= dt
	if s.AnnouncementTimer <= 0 {
		s.AnnouncementTimer = 0
		s.Announcement = ""
	}
}

func (s *State) clearCamp() {
	s.RewardOptions = []relic.Relic{}
	s.ShopStock = []camp.ShopItem{}
	s.SelectionIndex = 0
}
