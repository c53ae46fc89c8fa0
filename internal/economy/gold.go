// Package economy applies gold and hp deltas to a player.
package economy

import (
	"math"

	"github.com/xtding233/bust-run/internal/run"
)

// Credit adds gold; negative amounts are ignored. Returns the amount applied.
func Credit(p *run.Player, n int) int {
	if p == nil || n <= 0 {
		return 0
	}
	p.Gold += n
	return n
}

// CanAfford reports whether the player holds at least cost gold.
func CanAfford(p *run.Player, cost int) bool {
	return p != nil && cost >= 0 && p.Gold >= cost
}

// Debit removes cost gold if affordable; gold never goes negative.
func Debit(p *run.Player, cost int) bool {
	if !CanAfford(p, cost) {
		return false
	}
	p.Gold -= cost
	return true
}

// ScaleGold applies a multiplier to a base amount, rounding down.
// A non-positive multiplier counts as 1.
func ScaleGold(base int, multiplier float64) int {
	if base <= 0 {
		return 0
	}
	if multiplier <= 0 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		multiplier = 1
	}
	return int(math.Floor(float64(base) * multiplier))
}

// Heal restores hp up to MaxHP and returns the amount actually restored.
func Heal(p *run.Player, n int) int {
	if p == nil || n <= 0 || p.HP >= p.MaxHP {
		return 0
	}
	if p.HP+n > p.MaxHP {
		n = p.MaxHP - p.HP
	}
	p.HP += n
	return n
}

// HealFraction heals a fraction of MaxHP, rounded down.
func HealFraction(p *run.Player, fraction float64) int {
	if p == nil || fraction <= 0 {
		return 0
	}
	return Heal(p, int(math.Floor(float64(p.MaxHP)*fraction)))
}

// Damage removes hp down to zero and returns the amount taken.
func Damage(p *run.Player, n int) int {
	if p == nil || n <= 0 {
		return 0
	}
	if n > p.HP {
		n = p.HP
	}
	p.HP -= n
	p.TotalDamageTaken += n
	return n
}
