package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/bust-run/internal/relic"
)

var ErrInvalidRun = errors.New("invalid run state")

// Sanitize decodes a persisted run and repairs or rejects it.
// Recoverable drift (negative gold, hp above max, oversized logs) is clamped;
// structural damage (no floors, dead player) is an error.
func Sanitize(raw json.RawMessage, reg *relic.Registry) (*Run, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidRun)
	}
	var r Run
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRun, err)
	}

	var errs []string
	if r.MaxFloor < 1 {
		errs = append(errs, "maxFloor must be >= 1")
	}
	if r.RoomsPerFloor < 1 {
		errs = append(errs, "roomsPerFloor must be >= 1")
	}
	if r.Player.MaxHP < 1 {
		errs = append(errs, "player.maxHp must be >= 1")
	}
	if r.Player.HP <= 0 {
		errs = append(errs, "player.hp must be > 0 for a resumable run")
	}
	if r.Finalized {
		errs = append(errs, "run already finalized")
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRun, strings.Join(errs, "; "))
	}

	r.Floor = clamp(r.Floor, 1, r.MaxFloor)
	if r.Room < 1 {
		r.Room = 1
	}
	if r.Player.HP > r.Player.MaxHP {
		r.Player.HP = r.Player.MaxHP
	}
	if r.Player.Gold < 0 {
		r.Player.Gold = 0
	}
	if r.Player.BustGuardsLeft < 0 {
		r.Player.BustGuardsLeft = 0
	}
	if r.Player.Streak < 0 {
		r.Player.Streak = 0
	}
	if r.EnemiesDefeated < 0 {
		r.EnemiesDefeated = 0
	}
	relics := make(map[string]int, len(r.Player.Relics))
	for id, n := range r.Player.Relics {
		if n > 0 {
			relics[id] = n
		}
	}
	r.Player.Relics = relics
	// stats are derived, never trusted from disk
	r.RefreshStats(reg)

	if r.Log == nil {
		r.Log = []string{}
	}
	if len(r.Log) > LogLimit {
		r.Log = append([]string(nil), r.Log[len(r.Log)-LogLimit:]...)
	}
	if r.EventLog == nil {
		r.EventLog = []string{}
	}
	if len(r.EventLog) > EventLogLimit {
		r.EventLog = append([]string(nil), r.EventLog[len(r.EventLog)-EventLogLimit:]...)
	}
	if r.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidRun)
	}
	return &r, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
