package camp

import (
	"fmt"

	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/pricing"
	"github.com/xtding233/bust-run/internal/relic"
	"github.com/xtding233/bust-run/internal/rng"
)

// rarity weights for normal camps and for the richer floor-clear pool
var (
	campWeights       = map[relic.Rarity]float64{relic.Common: 6, relic.Uncommon: 3, relic.Rare: 1}
	floorClearWeights = map[relic.Rarity]float64{relic.Common: 2, relic.Uncommon: 4, relic.Rare: 3}
)

// Generator rolls camp content from the relic catalog and shop rules.
type Generator struct {
	Rules    config.ShopRules
	Registry *relic.Registry
	RNG      rng.RandomSource
}

// NewGenerator creates a generator; a nil source uses the crypto RNG.
func NewGenerator(rules config.ShopRules, reg *relic.Registry, src rng.RandomSource) *Generator {
	if src == nil {
		src = rng.DefaultRNG()
	}
	return &Generator{Rules: rules, Registry: reg, RNG: src}
}

// RewardOptions draws distinct relics for a relic camp. Floor-clear camps
// offer more options weighted toward rarer relics.
func (g *Generator) RewardOptions(floor int, floorClear bool) []relic.Relic {
	n, weights := g.Rules.RewardOptions, campWeights
	if floorClear {
		n, weights = g.Rules.FloorClearOptions, floorClearWeights
	}
	return g.pick(n, weights)
}

// CampRelicDraftStock turns reward options into free draft slots.
func (g *Generator) CampRelicDraftStock(options []relic.Relic) []ShopItem {
	out := make([]ShopItem, 0, len(options))
	for i, o := range options {
		out = append(out, ShopItem{
			ID:      fmt.Sprintf("draft-%d-%s", i, o.ID),
			Kind:    KindRelic,
			RelicID: o.ID,
			Name:    o.Name,
			Draft:   true,
		})
	}
	return out
}

// ShopStock rolls the paid shop for floor: relic slots plus one heal.
func (g *Generator) ShopStock(floor int) []ShopItem {
	picks := g.pick(g.Rules.Slots, campWeights)
	out := make([]ShopItem, 0, len(picks)+1)
	for i, r := range picks {
		out = append(out, ShopItem{
			ID:      fmt.Sprintf("shop-%d-%s", i, r.ID),
			Kind:    KindRelic,
			RelicID: r.ID,
			Name:    r.Name,
			Cost:    pricing.Relic(g.Rules, r.Rarity, floor).Total,
		})
	}
	if g.Rules.HealAmount > 0 {
		out = append(out, ShopItem{
			ID:     "shop-heal",
			Kind:   KindHeal,
			Name:   fmt.Sprintf("Bandage (+%d hp)", g.Rules.HealAmount),
			Cost:   pricing.Heal(g.Rules, floor).Total,
			Amount: g.Rules.HealAmount,
		})
	}
	return out
}

// pick draws up to n distinct relics without replacement, weighted by rarity.
func (g *Generator) pick(n int, weights map[relic.Rarity]float64) []relic.Relic {
	pool := g.Registry.All()
	out := make([]relic.Relic, 0, n)
	for len(out) < n && len(pool) > 0 {
		total := 0.0
		for _, r := range pool {
			total += weightOf(weights, r.Rarity)
		}
		x := g.RNG.Float64() * total
		idx := len(pool) - 1
		for i, r := range pool {
			x -= weightOf(weights, r.Rarity)
			if x < 0 {
				idx = i
				break
			}
		}
		out = append(out, pool[idx])
		pool = append(pool[:idx:idx], pool[idx+1:]...)
	}
	return out
}

func weightOf(weights map[relic.Rarity]float64, r relic.Rarity) float64 {
	if w, ok := weights[r]; ok && w > 0 {
		return w
	}
	return 1
}
