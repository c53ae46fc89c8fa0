// resolve.go
package config

import (
	"fmt"
	"sort"

	"github.com/xtding233/bust-run/internal/relic"
)

// EconomyOverrides seeds a new run for testing or tuning. Nil fields keep balance values.
type EconomyOverrides struct {
	Gold   *int     `env:"GOLD"`
	HP     *int     `env:"HP"`
	MaxHP  *int     `env:"MAX_HP"`
	Floor  *int     `env:"FLOOR"`
	Relics []string `env:"RELICS" envSeparator:","`
}

// Empty reports whether no override is set.
func (o EconomyOverrides) Empty() bool {
	return o.Gold == nil && o.HP == nil && o.MaxHP == nil && o.Floor == nil && len(o.Relics) == 0
}

// Resolve validates a merged RawConfig and normalizes it into Balance.
func Resolve(raw RawConfig) (Balance, error) {
	if err := ValidateRaw(raw); err != nil {
		return Balance{}, err
	}
	b := Balance{
		Version: raw.Version,
		Run: RunRules{
			MaxFloor:          intOr(raw.Run.MaxFloor, 3),
			RoomsPerFloor:     intOr(raw.Run.RoomsPerFloor, 5),
			StartHP:           intOr(raw.Run.StartHP, 60),
			StartGold:         intOr(raw.Run.StartGold, 20),
			FloorHealFraction: floatOr(raw.Run.FloorHealFraction, 0.3),
			StartRelics:       append([]string(nil), raw.Run.StartRelics...),
		},
		Hand: HandRules{
			DealerStandsOn: intOr(raw.Hand.DealerStandsOn, 17),
			LuckyThreshold: intOr(raw.Hand.LuckyThreshold, 6),
			DoubleCost:     intOr(raw.Hand.DoubleCost, 5),
			SplitCost:      intOr(raw.Hand.SplitCost, 5),
			BaseDamage:     intOr(raw.Hand.BaseDamage, 8),
			BlackjackBonus: floatOr(raw.Hand.BlackjackBonus, 1.5),
			CritMultiplier: floatOr(raw.Hand.CritMultiplier, 2),
			CritChips:      intOr(raw.Hand.CritChips, 2),
			ResolveDelay:   floatOr(raw.Hand.ResolveDelay, 1.2),
		},
		Enemies: make(map[string]EnemyRules, len(enemyTypes)),
		Relics:  append([]RelicConfig(nil), raw.Relics...),
	}
	for _, t := range enemyTypes {
		e := raw.Enemies[t]
		b.Enemies[t] = EnemyRules{
			Names:          append([]string(nil), e.Names...),
			HP:             intOr(e.HP, 20),
			Attack:         intOr(e.Attack, 6),
			GoldDrop:       intOr(e.GoldDrop, 10),
			HPPerFloor:     intOr(e.HPPerFloor, 0),
			AttackPerFloor: intOr(e.AttackPerFloor, 0),
			GoldPerFloor:   intOr(e.GoldPerFloor, 0),
		}
	}
	shop := ShopConfig{}
	if raw.Shop != nil {
		shop = *raw.Shop
	}
	b.Shop = ShopRules{
		Slots:             intOr(shop.Slots, 3),
		RewardOptions:     intOr(shop.RewardOptions, 3),
		FloorClearOptions: intOr(shop.FloorClearOptions, 4),
		HealAmount:        intOr(shop.HealAmount, 15),
		HealPrice:         intOr(shop.HealPrice, 12),
		FloorMarkup:       floatOr(shop.FloorMarkup, 0.25),
		Prices:            map[string]int{"common": 20, "uncommon": 35, "rare": 55},
	}
	for k, v := range shop.Prices {
		b.Shop.Prices[k] = v
	}
	return b, nil
}

// RelicCatalog converts the configured relics into registry entries.
func (b Balance) RelicCatalog() ([]relic.Relic, error) {
	out := make([]relic.Relic, 0, len(b.Relics))
	for _, rc := range b.Relics {
		r := relic.Relic{
			ID:          rc.ID,
			Name:        rc.Name,
			Description: rc.Description,
			Rarity:      relic.Rarity(rc.Rarity),
			MaxStacks:   rc.MaxStacks,
		}
		if r.Rarity == "" {
			r.Rarity = relic.Common
		}
		keys := make([]string, 0, len(rc.Effects))
		for k := range rc.Effects {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			set, ok := effectSetters[k]
			if !ok {
				return nil, fmt.Errorf("relic %s: unknown effect %q", rc.ID, k)
			}
			set(&r.Effects, rc.Effects[k])
		}
		out = append(out, r)
	}
	return out, nil
}

// Registry builds the live relic registry for this balance.
func (b Balance) Registry() (*relic.Registry, error) {
	defs, err := b.RelicCatalog()
	if err != nil {
		return nil, err
	}
	return relic.NewRegistry(defs)
}

var effectSetters = map[string]func(*relic.Stats, float64){
	"flatDamage":            func(s *relic.Stats, v float64) { s.FlatDamage = int(v) },
	"block":                 func(s *relic.Stats, v float64) { s.Block = int(v) },
	"critChance":            func(s *relic.Stats, v float64) { s.CritChance = v },
	"healOnWinHand":         func(s *relic.Stats, v float64) { s.HealOnWinHand = int(v) },
	"goldMultiplier":        func(s *relic.Stats, v float64) { s.GoldMultiplier = v },
	"bustGuardPerEncounter": func(s *relic.Stats, v float64) { s.BustGuardPerEncounter = int(v) },
	"firstHandDamage":       func(s *relic.Stats, v float64) { s.FirstHandDamage = int(v) },
	"chipsOnWinHand":        func(s *relic.Stats, v float64) { s.ChipsOnWinHand = int(v) },
	"chipsOnPush":           func(s *relic.Stats, v float64) { s.ChipsOnPush = int(v) },
	"luckyStart":            func(s *relic.Stats, v float64) { s.LuckyStart = int(v) },
	"healOnEncounterStart":  func(s *relic.Stats, v float64) { s.HealOnEncounterStart = int(v) },
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
