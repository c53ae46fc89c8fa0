// Package profile keeps cross-run meta progression. It is only touched at run
// start, on relic acquisition and at run end, never mid-hand.
package profile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xtding233/bust-run/internal/run"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeVictory   Outcome = "victory"
	OutcomeDefeat    Outcome = "defeat"
	OutcomeAbandoned Outcome = "abandoned"
)

// BestRun is the deepest run recorded so far.
type BestRun struct {
	RunID           string    `json:"runId"`
	Floor           int       `json:"floor"`
	Room            int       `json:"room"`
	Depth           int       `json:"depth"` // rooms cleared across floors
	EnemiesDefeated int       `json:"enemiesDefeated"`
	DamageDealt     int       `json:"damageDealt"`
	Outcome         Outcome   `json:"outcome"`
	At              time.Time `json:"at"`
}

type Profile struct {
	RunsStarted          int            `json:"runsStarted"`
	RunsWon              int            `json:"runsWon"`
	RunsLost             int            `json:"runsLost"`
	RunsAbandoned        int            `json:"runsAbandoned"`
	TotalEnemiesDefeated int            `json:"totalEnemiesDefeated"`
	TotalDamageDealt     int            `json:"totalDamageDealt"`
	TotalDamageTaken     int            `json:"totalDamageTaken"`
	Relics               map[string]int `json:"relics"` // id -> times acquired
	Best                 *BestRun       `json:"best,omitempty"`
	LastFinalizedRunID   string         `json:"lastFinalizedRunId,omitempty"`
}

func New() *Profile {
	return &Profile{Relics: make(map[string]int)}
}

// Decode reads a stored profile. Empty input yields a fresh profile.
func Decode(raw []byte) (*Profile, error) {
	p := New()
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if p.Relics == nil {
		p.Relics = make(map[string]int)
	}
	return p, nil
}

// StartRun counts a new run.
func (p *Profile) StartRun() {
	p.RunsStarted++
}

// AddRelic counts one acquisition in the collection.
func (p *Profile) AddRelic(id string) {
	if p.Relics == nil {
		p.Relics = make(map[string]int)
	}
	p.Relics[id]++
}

// Record folds a finished run into the totals and marks it finalized.
// Recording the same run twice is a no-op; it reports whether anything changed.
func (p *Profile) Record(r *run.Run, outcome Outcome, now time.Time) bool {
	if r == nil || r.Finalized || (r.ID != "" && r.ID == p.LastFinalizedRunID) {
		return false
	}
	switch outcome {
	case OutcomeVictory:
		p.RunsWon++
	case OutcomeDefeat:
		p.RunsLost++
	default:
		outcome = OutcomeAbandoned
		p.RunsAbandoned++
	}
	p.TotalEnemiesDefeated += r.EnemiesDefeated
	p.TotalDamageDealt += r.Player.TotalDamageDealt
	p.TotalDamageTaken += r.Player.TotalDamageTaken

	candidate := BestRun{
		RunID:           r.ID,
		Floor:           r.Floor,
		Room:            r.Room,
		Depth:           depth(r),
		EnemiesDefeated: r.EnemiesDefeated,
		DamageDealt:     r.Player.TotalDamageDealt,
		Outcome:         outcome,
		At:              now.UTC(),
	}
	if better(candidate, p.Best) {
		p.Best = &candidate
	}
	p.LastFinalizedRunID = r.ID
	r.Finalized = true
	return true
}

func depth(r *run.Run) int {
	if r.RoomsPerFloor < 1 {
		return r.Room
	}
	return (r.Floor-1)*r.RoomsPerFloor + r.Room
}

// better ranks victories first, then depth, then kills, then damage.
func better(c BestRun, best *BestRun) bool {
	if best == nil {
		return true
	}
	cw, bw := c.Outcome == OutcomeVictory, best.Outcome == OutcomeVictory
	if cw != bw {
		return cw
	}
	if c.Depth != best.Depth {
		return c.Depth > best.Depth
	}
	if c.EnemiesDefeated != best.EnemiesDefeated {
		return c.EnemiesDefeated > best.EnemiesDefeated
	}
	return c.DamageDealt > best.DamageDealt
}
