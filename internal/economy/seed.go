package economy

import (
	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/relic"
	"github.com/xtding233/bust-run/internal/run"
)

// Seed applies test/tuning overrides to a freshly created run.
// Unknown relic ids are skipped. Returns true if anything changed.
func Seed(r *run.Run, reg *relic.Registry, o config.EconomyOverrides) bool {
	if r == nil || o.Empty() {
		return false
	}
	if o.MaxHP != nil && *o.MaxHP > 0 {
		r.Player.MaxHP = *o.MaxHP
		if r.Player.HP > r.Player.MaxHP {
			r.Player.HP = r.Player.MaxHP
		}
	}
	if o.HP != nil && *o.HP > 0 {
		r.Player.HP = *o.HP
		if r.Player.HP > r.Player.MaxHP {
			r.Player.MaxHP = r.Player.HP
		}
	}
	if o.Gold != nil && *o.Gold >= 0 {
		r.Player.Gold = *o.Gold
	}
	if o.Floor != nil {
		f := *o.Floor
		if f < 1 {
			f = 1
		}
		if f > r.MaxFloor {
			f = r.MaxFloor
		}
		r.Floor = f
	}
	for _, id := range o.Relics {
		r.AddRelic(reg, id)
	}
	r.RefreshStats(reg)
	return true
}
