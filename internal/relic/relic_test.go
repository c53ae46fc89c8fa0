package relic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry([]Relic{
		{ID: "whetstone", Name: "Whetstone", Rarity: Common, Effects: Stats{FlatDamage: 2}},
		{ID: "loaded-die", Name: "Loaded Die", Rarity: Rare, MaxStacks: 1, Effects: Stats{CritChance: 0.8, LuckyStart: 1}},
		{ID: "coin-purse", Name: "Coin Purse", Effects: Stats{GoldMultiplier: 0.25, ChipsOnPush: 1}},
	})
	require.NoError(t, err)
	return reg
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Relic{{ID: "a"}, {ID: "a"}})
	assert.Error(t, err)
	_, err = NewRegistry([]Relic{{Name: "nameless"}})
	assert.Error(t, err)
}

func TestAggregateStacks(t *testing.T) {
	reg := testRegistry(t)
	s := Aggregate(reg, map[string]int{"whetstone": 3, "coin-purse": 2, "gone": 4})
	assert.Equal(t, 6, s.FlatDamage)
	assert.InDelta(t, 1.5, s.GoldMultiplier, 1e-9)
	assert.Equal(t, 2, s.ChipsOnPush)
}

func TestAggregateCapsStacksAndClamps(t *testing.T) {
	reg := testRegistry(t)
	s := Aggregate(reg, map[string]int{"loaded-die": 3})
	assert.Equal(t, 1, s.LuckyStart)
	assert.InDelta(t, 0.8, s.CritChance, 1e-9)

	assert.False(t, CanStack(reg, map[string]int{"loaded-die": 1}, "loaded-die"))
	assert.True(t, CanStack(reg, map[string]int{"whetstone": 9}, "whetstone"))
	assert.False(t, CanStack(reg, nil, "missing"))
}

func TestBaseStatsWhenEmpty(t *testing.T) {
	assert.Equal(t, BaseStats(), Aggregate(nil, nil))
}
