package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var embeddedDefault []byte

// Paths helper for default/difficulty files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/bust-run/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "balance", "default.yaml")
}
func (p Paths) DifficultyPath(difficulty string) string {
	return filepath.Join(p.BaseDir, "balance", difficulty+".yaml")
}

// Loader reads YAML configs and merges embedded → default → difficulty.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: difficulty, "" for default only
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths exposes the files the loader reads, for watchers.
func (l *Loader) Paths(difficulty string) []string {
	out := []string{l.paths.DefaultPath()}
	if difficulty != "" && difficulty != "default" {
		out = append(out, l.paths.DifficultyPath(difficulty))
	}
	return out
}

// LoadMerged loads and merges the layers. Missing files are skipped.
// It returns the merged RawConfig (without normalization).
func (l *Loader) LoadMerged(difficulty string) (RawConfig, error) {
	if difficulty == "default" {
		difficulty = ""
	}
	l.mu.RLock()
	if cfg, ok := l.cache[difficulty]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	base, err := Embedded()
	if err != nil {
		return RawConfig{}, fmt.Errorf("read embedded default: %w", err)
	}
	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := mergeRaw(base, defCfg)
	if difficulty != "" {
		diffCfg, err := readYAML(l.paths.DifficultyPath(difficulty))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read difficulty %s: %w", difficulty, err)
		}
		merged = mergeRaw(merged, diffCfg)
	}

	l.mu.Lock()
	l.cache[difficulty] = merged
	l.mu.Unlock()

	return merged, nil
}

// Load merges, validates and resolves one difficulty into a Balance.
func (l *Loader) Load(difficulty string) (Balance, error) {
	raw, err := l.LoadMerged(difficulty)
	if err != nil {
		return Balance{}, err
	}
	return Resolve(raw)
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// Embedded returns the built-in balance shipped with the binary.
func Embedded() (RawConfig, error) {
	var cfg RawConfig
	if err := yaml.Unmarshal(embeddedDefault, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// Default resolves the embedded balance. It panics only if the shipped file is broken.
func Default() Balance {
	raw, err := Embedded()
	if err != nil {
		panic(fmt.Sprintf("embedded balance: %v", err))
	}
	b, err := Resolve(raw)
	if err != nil {
		panic(fmt.Sprintf("embedded balance: %v", err))
	}
	return b
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw performs a deep merge: 'b' overrides 'a' where non-nil.
// For slices (relics, start relics, names), 'b' replaces 'a' if provided.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	// top-level scalars
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// run
	setInt(&out.Run.MaxFloor, b.Run.MaxFloor)
	setInt(&out.Run.RoomsPerFloor, b.Run.RoomsPerFloor)
	setInt(&out.Run.StartHP, b.Run.StartHP)
	setInt(&out.Run.StartGold, b.Run.StartGold)
	setFloat(&out.Run.FloorHealFraction, b.Run.FloorHealFraction)
	if len(b.Run.StartRelics) > 0 {
		out.Run.StartRelics = append([]string(nil), b.Run.StartRelics...)
	}

	// hand
	setInt(&out.Hand.DealerStandsOn, b.Hand.DealerStandsOn)
	setInt(&out.Hand.LuckyThreshold, b.Hand.LuckyThreshold)
	setInt(&out.Hand.DoubleCost, b.Hand.DoubleCost)
	setInt(&out.Hand.SplitCost, b.Hand.SplitCost)
	setInt(&out.Hand.BaseDamage, b.Hand.BaseDamage)
	setFloat(&out.Hand.BlackjackBonus, b.Hand.BlackjackBonus)
	setFloat(&out.Hand.CritMultiplier, b.Hand.CritMultiplier)
	setInt(&out.Hand.CritChips, b.Hand.CritChips)
	setFloat(&out.Hand.ResolveDelay, b.Hand.ResolveDelay)

	// enemies, merged per type
	if len(b.Enemies) > 0 {
		merged := make(map[string]EnemyConfig, len(out.Enemies)+len(b.Enemies))
		for k, v := range out.Enemies {
			merged[k] = v
		}
		for k, v := range b.Enemies {
			cur := merged[k]
			if len(v.Names) > 0 {
				cur.Names = append([]string(nil), v.Names...)
			}
			setInt(&cur.HP, v.HP)
			setInt(&cur.Attack, v.Attack)
			setInt(&cur.GoldDrop, v.GoldDrop)
			setInt(&cur.HPPerFloor, v.HPPerFloor)
			setInt(&cur.AttackPerFloor, v.AttackPerFloor)
			setInt(&cur.GoldPerFloor, v.GoldPerFloor)
			merged[k] = cur
		}
		out.Enemies = merged
	}

	// relics replace the whole catalog
	if len(b.Relics) > 0 {
		out.Relics = append([]RelicConfig(nil), b.Relics...)
	}

	// shop
	switch {
	case out.Shop == nil && b.Shop != nil:
		c := *b.Shop
		out.Shop = &c
	case out.Shop != nil && b.Shop != nil:
		c := *out.Shop
		setInt(&c.Slots, b.Shop.Slots)
		setInt(&c.RewardOptions, b.Shop.RewardOptions)
		setInt(&c.FloorClearOptions, b.Shop.FloorClearOptions)
		setInt(&c.HealAmount, b.Shop.HealAmount)
		setInt(&c.HealPrice, b.Shop.HealPrice)
		setFloat(&c.FloorMarkup, b.Shop.FloorMarkup)
		if len(b.Shop.Prices) > 0 {
			prices := make(map[string]int, len(c.Prices)+len(b.Shop.Prices))
			for k, v := range c.Prices {
				prices[k] = v
			}
			for k, v := range b.Shop.Prices {
				prices[k] = v
			}
			c.Prices = prices
		}
		out.Shop = &c
	}

	return out
}

func setInt(dst **int, src *int) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func setFloat(dst **float64, src *float64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
