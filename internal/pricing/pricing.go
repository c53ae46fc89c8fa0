// Package pricing quotes gold prices for camp stock.
package pricing

import (
	"math"

	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/relic"
)

// Quote is one priced line: base price from the rarity table plus the floor markup.
type Quote struct {
	Base   int
	Markup int
	Total  int
}

// fallback when a rarity has no configured price
const defaultRelicPrice = 25

// Relic prices a relic of the given rarity on floor.
func Relic(rules config.ShopRules, rarity relic.Rarity, floor int) Quote {
	base, ok := rules.Prices[string(rarity)]
	if !ok || base <= 0 {
		base = defaultRelicPrice
	}
	return quote(base, rules.FloorMarkup, floor)
}

// Heal prices the camp heal on floor.
func Heal(rules config.ShopRules, floor int) Quote {
	return quote(rules.HealPrice, rules.FloorMarkup, floor)
}

func quote(base int, perFloor float64, floor int) Quote {
	if base < 0 {
		base = 0
	}
	if floor < 1 {
		floor = 1
	}
	m, total := applyMarkup(base, perFloor*float64(floor-1))
	return Quote{Base: base, Markup: m, Total: total}
}

// applyMarkup computes the markup and total given a base and a markup rate.
func applyMarkup(base int, rate float64) (markup int, total int) {
	if rate <= 0 {
		return 0, base
	}
	m := int(math.Round(float64(base) * rate))
	return m, base + m
}
