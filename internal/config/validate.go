package config

import (
	"fmt"
	"strings"
)

var enemyTypes = []string{"normal", "elite", "boss"}

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// run
	if cfg.Run.MaxFloor != nil && *cfg.Run.MaxFloor < 1 {
		errs = append(errs, "run.max_floor must be >= 1")
	}
	if cfg.Run.RoomsPerFloor != nil && *cfg.Run.RoomsPerFloor < 1 {
		errs = append(errs, "run.rooms_per_floor must be >= 1")
	}
	if cfg.Run.StartHP != nil && *cfg.Run.StartHP < 1 {
		errs = append(errs, "run.start_hp must be >= 1")
	}
	if cfg.Run.StartGold != nil && *cfg.Run.StartGold < 0 {
		errs = append(errs, "run.start_gold must be >= 0")
	}
	if cfg.Run.FloorHealFraction != nil {
		if *cfg.Run.FloorHealFraction < 0 || *cfg.Run.FloorHealFraction > 1 {
			errs = append(errs, "run.floor_heal_fraction must be in [0,1]")
		}
	}

	// hand
	if cfg.Hand.DealerStandsOn != nil {
		if *cfg.Hand.DealerStandsOn < 2 || *cfg.Hand.DealerStandsOn > 21 {
			errs = append(errs, "hand.dealer_stands_on must be in [2,21]")
		}
	}
	if cfg.Hand.LuckyThreshold != nil && *cfg.Hand.LuckyThreshold < 0 {
		errs = append(errs, "hand.lucky_threshold must be >= 0")
	}
	for name, v := range map[string]*int{
		"hand.double_cost": cfg.Hand.DoubleCost,
		"hand.split_cost":  cfg.Hand.SplitCost,
		"hand.base_damage": cfg.Hand.BaseDamage,
		"hand.crit_chips":  cfg.Hand.CritChips,
	} {
		if v != nil && *v < 0 {
			errs = append(errs, name+" must be >= 0")
		}
	}
	if cfg.Hand.BlackjackBonus != nil && *cfg.Hand.BlackjackBonus < 1 {
		errs = append(errs, "hand.blackjack_bonus must be >= 1")
	}
	if cfg.Hand.CritMultiplier != nil && *cfg.Hand.CritMultiplier < 1 {
		errs = append(errs, "hand.crit_multiplier must be >= 1")
	}
	if cfg.Hand.ResolveDelay != nil && *cfg.Hand.ResolveDelay < 0 {
		errs = append(errs, "hand.resolve_delay must be >= 0")
	}

	// enemies
	for name, e := range cfg.Enemies {
		if !knownEnemyType(name) {
			errs = append(errs, fmt.Sprintf("enemies.%s: type must be one of: %s", name, strings.Join(enemyTypes, ", ")))
			continue
		}
		if e.HP != nil && *e.HP < 1 {
			errs = append(errs, fmt.Sprintf("enemies.%s.hp must be >= 1", name))
		}
		if e.Attack != nil && *e.Attack < 0 {
			errs = append(errs, fmt.Sprintf("enemies.%s.attack must be >= 0", name))
		}
		if e.GoldDrop != nil && *e.GoldDrop < 0 {
			errs = append(errs, fmt.Sprintf("enemies.%s.gold_drop must be >= 0", name))
		}
	}

	// relics
	seen := make(map[string]bool, len(cfg.Relics))
	for i, r := range cfg.Relics {
		if r.ID == "" {
			errs = append(errs, fmt.Sprintf("relics[%d].id is required", i))
			continue
		}
		if seen[r.ID] {
			errs = append(errs, fmt.Sprintf("relics[%d].id %q is duplicated", i, r.ID))
		}
		seen[r.ID] = true
		switch r.Rarity {
		case "", "common", "uncommon", "rare":
		default:
			errs = append(errs, fmt.Sprintf("relics[%d].rarity must be one of: common, uncommon, rare", i))
		}
		for k := range r.Effects {
			if _, ok := effectSetters[k]; !ok {
				errs = append(errs, fmt.Sprintf("relics[%d].effects.%s is not a known stat", i, k))
			}
		}
	}
	for i, id := range cfg.Run.StartRelics {
		if len(cfg.Relics) > 0 && !seen[id] {
			errs = append(errs, fmt.Sprintf("run.start_relics[%d] %q is not in the relic catalog", i, id))
		}
	}

	// shop (optional)
	if cfg.Shop != nil {
		for name, v := range map[string]*int{
			"shop.slots":               cfg.Shop.Slots,
			"shop.reward_options":      cfg.Shop.RewardOptions,
			"shop.floor_clear_options": cfg.Shop.FloorClearOptions,
			"shop.heal_amount":         cfg.Shop.HealAmount,
			"shop.heal_price":          cfg.Shop.HealPrice,
		} {
			if v != nil && *v < 0 {
				errs = append(errs, name+" must be >= 0")
			}
		}
		if cfg.Shop.FloorMarkup != nil && *cfg.Shop.FloorMarkup < 0 {
			errs = append(errs, "shop.floor_markup must be >= 0")
		}
		for k, v := range cfg.Shop.Prices {
			if v < 0 {
				errs = append(errs, fmt.Sprintf("shop.prices.%s must be >= 0", k))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func knownEnemyType(name string) bool {
	for _, t := range enemyTypes {
		if t == name {
			return true
		}
	}
	return false
}
