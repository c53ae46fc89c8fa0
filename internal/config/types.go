// types.go
package config

// Raw balance config loaded from YAML. Pointer fields distinguish "unset"
// from zero so layers can be merged.
type RawConfig struct {
	Version string                 `yaml:"version"`
	Run     RunConfig              `yaml:"run"`
	Hand    HandConfig             `yaml:"hand"`
	Enemies map[string]EnemyConfig `yaml:"enemies,omitempty"`
	Relics  []RelicConfig          `yaml:"relics,omitempty"`
	Shop    *ShopConfig            `yaml:"shop,omitempty"`
	Notes   string                 `yaml:"notes,omitempty"`
}

type RunConfig struct {
	MaxFloor          *int     `yaml:"max_floor"`
	RoomsPerFloor     *int     `yaml:"rooms_per_floor"`
	StartHP           *int     `yaml:"start_hp"`
	StartGold         *int     `yaml:"start_gold"`
	FloorHealFraction *float64 `yaml:"floor_heal_fraction"`
	StartRelics       []string `yaml:"start_relics,omitempty"`
}

type HandConfig struct {
	DealerStandsOn *int     `yaml:"dealer_stands_on"`
	LuckyThreshold *int     `yaml:"lucky_threshold"`
	DoubleCost     *int     `yaml:"double_cost"`
	SplitCost      *int     `yaml:"split_cost"`
	BaseDamage     *int     `yaml:"base_damage"`
	BlackjackBonus *float64 `yaml:"blackjack_bonus"` // damage multiplier on a natural win
	CritMultiplier *float64 `yaml:"crit_multiplier"`
	CritChips      *int     `yaml:"crit_chips"`
	ResolveDelay   *float64 `yaml:"resolve_delay"` // seconds handed to the presentation layer
}

type EnemyConfig struct {
	Names          []string `yaml:"names,omitempty"`
	HP             *int     `yaml:"hp"`
	Attack         *int     `yaml:"attack"`
	GoldDrop       *int     `yaml:"gold_drop"`
	HPPerFloor     *int     `yaml:"hp_per_floor,omitempty"`
	AttackPerFloor *int     `yaml:"attack_per_floor,omitempty"`
	GoldPerFloor   *int     `yaml:"gold_per_floor,omitempty"`
}

type RelicConfig struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Rarity      string             `yaml:"rarity,omitempty"`
	MaxStacks   int                `yaml:"max_stacks,omitempty"`
	Effects     map[string]float64 `yaml:"effects"`
}

type ShopConfig struct {
	Slots             *int           `yaml:"slots"`
	RewardOptions     *int           `yaml:"reward_options"`
	FloorClearOptions *int           `yaml:"floor_clear_options"`
	HealAmount        *int           `yaml:"heal_amount"`
	HealPrice         *int           `yaml:"heal_price"`
	FloorMarkup       *float64       `yaml:"floor_markup"` // price multiplier added per floor past the first
	Prices            map[string]int `yaml:"prices,omitempty"`
}

// Normalized balance used by the engine, controller and generators.
type Balance struct {
	Version string
	Run     RunRules
	Hand    HandRules
	Enemies map[string]EnemyRules
	Relics  []RelicConfig
	Shop    ShopRules
}

type RunRules struct {
	MaxFloor          int
	RoomsPerFloor     int
	StartHP           int
	StartGold         int
	FloorHealFraction float64
	StartRelics       []string
}

type HandRules struct {
	DealerStandsOn int
	LuckyThreshold int
	DoubleCost     int
	SplitCost      int
	BaseDamage     int
	BlackjackBonus float64
	CritMultiplier float64
	CritChips      int
	ResolveDelay   float64
}

type EnemyRules struct {
	Names          []string
	HP             int
	Attack         int
	GoldDrop       int
	HPPerFloor     int
	AttackPerFloor int
	GoldPerFloor   int
}

type ShopRules struct {
	Slots             int
	RewardOptions     int
	FloorClearOptions int
	HealAmount        int
	HealPrice         int
	FloorMarkup       float64
	Prices            map[string]int
}
