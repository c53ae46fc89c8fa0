// Package run holds the state of one roguelike run: floors, rooms and the player.
package run

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/relic"
)

const (
	// LogLimit bounds the short-lived ticker shown during play.
	LogLimit = 6
	// EventLogLimit bounds the authoritative history kept across resumes.
	EventLogLimit = 200
)

// Player is the run-scoped character.
type Player struct {
	HP               int            `json:"hp"`
	MaxHP            int            `json:"maxHp"`
	Gold             int            `json:"gold"`
	Streak           int            `json:"streak"`
	BustGuardsLeft   int            `json:"bustGuardsLeft"`
	Relics           map[string]int `json:"relics"`
	Stats            relic.Stats    `json:"stats"`
	TotalDamageDealt int            `json:"totalDamageDealt"`
	TotalDamageTaken int            `json:"totalDamageTaken"`
}

// Run is owned by the active session from start until victory, defeat or abandon.
type Run struct {
	ID               string    `json:"id"`
	Floor            int       `json:"floor"`
	MaxFloor         int       `json:"maxFloor"`
	Room             int       `json:"room"`
	RoomsPerFloor    int       `json:"roomsPerFloor"`
	EnemiesDefeated  int       `json:"enemiesDefeated"`
	ShopPurchaseMade bool      `json:"shopPurchaseMade"`
	Player           Player    `json:"player"`
	Log              []string  `json:"log"`
	EventLog         []string  `json:"eventLog"`
	Finalized        bool      `json:"finalized,omitempty"`
	StartedAt        time.Time `json:"startedAt"`
}

// New creates a run at floor 1, room 1 from the balance rules.
func New(rules config.RunRules, reg *relic.Registry, now time.Time) *Run {
	r := &Run{
		ID:            uuid.NewString(),
		Floor:         1,
		MaxFloor:      rules.MaxFloor,
		Room:          1,
		RoomsPerFloor: rules.RoomsPerFloor,
		Player: Player{
			HP:     rules.StartHP,
			MaxHP:  rules.StartHP,
			Gold:   rules.StartGold,
			Relics: make(map[string]int),
		},
		Log:       []string{},
		EventLog:  []string{},
		StartedAt: now.UTC(),
	}
	for _, id := range rules.StartRelics {
		if _, ok := reg.Lookup(id); ok {
			r.Player.Relics[id]++
		}
	}
	r.RefreshStats(reg)
	return r
}

// RefreshStats re-aggregates the stat bundle from owned relics.
func (r *Run) RefreshStats(reg *relic.Registry) {
	r.Player.Stats = relic.Aggregate(reg, r.Player.Relics)
}

// AddRelic grants one stack and refreshes stats.
func (r *Run) AddRelic(reg *relic.Registry, id string) bool {
	if !relic.CanStack(reg, r.Player.Relics, id) {
		return false
	}
	if r.Player.Relics == nil {
		r.Player.Relics = make(map[string]int)
	}
	r.Player.Relics[id]++
	r.RefreshStats(reg)
	return true
}

// Logf appends to both the short ticker and the event history.
func (r *Run) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Log = appendBounded(r.Log, msg, LogLimit)
	r.EventLog = appendBounded(r.EventLog, msg, EventLogLimit)
}

// ClearLog empties the short ticker; EventLog is untouched.
func (r *Run) ClearLog() {
	r.Log = []string{}
}

// IsFinalFloor reports whether the current floor is the last one.
func (r *Run) IsFinalFloor() bool {
	return r.Floor >= r.MaxFloor
}

func appendBounded(list []string, msg string, limit int) []string {
	list = append(list, msg)
	if len(list) > limit {
		list = append([]string(nil), list[len(list)-limit:]...)
	}
	return list
}
