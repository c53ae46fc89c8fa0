package camp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/relic"
	"github.com/xtding233/bust-run/internal/rng"
)

func testRegistry(t *testing.T) *relic.Registry {
	t.Helper()
	reg, err := relic.NewRegistry([]relic.Relic{
		{ID: "whetstone", Name: "Whetstone", Rarity: relic.Common},
		{ID: "iron-chip", Name: "Iron Chip", Rarity: relic.Common},
		{ID: "tip-jar", Name: "Tip Jar", Rarity: relic.Uncommon},
		{ID: "marked-deck", Name: "Marked Deck", Rarity: relic.Rare},
		{ID: "rabbit-foot", Name: "Rabbit Foot", Rarity: relic.Rare},
	})
	require.NoError(t, err)
	return reg
}

func testRules() config.ShopRules {
	return config.ShopRules{
		Slots: 3, RewardOptions: 3, FloorClearOptions: 4,
		HealAmount: 15, HealPrice: 12, FloorMarkup: 0.25,
		Prices: map[string]int{"common": 20, "uncommon": 35, "rare": 55},
	}
}

func distinct(t *testing.T, ids []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}

func TestRewardOptionsCountsAndDistinct(t *testing.T) {
	g := NewGenerator(testRules(), testRegistry(t), rng.NewSeededRNG(3))

	camp := g.RewardOptions(1, false)
	assert.Len(t, camp, 3)
	distinct(t, RelicIDs(camp))

	fc := g.RewardOptions(2, true)
	assert.Len(t, fc, 4)
	distinct(t, RelicIDs(fc))
}

func TestRewardOptionsCappedByCatalog(t *testing.T) {
	rules := testRules()
	rules.FloorClearOptions = 10
	g := NewGenerator(rules, testRegistry(t), rng.NewSeededRNG(1))
	assert.Len(t, g.RewardOptions(1, true), 5)

	empty := NewGenerator(rules, nil, rng.NewSeededRNG(1))
	assert.Empty(t, empty.RewardOptions(1, false))
}

func TestPickFollowsWeights(t *testing.T) {
	// first roll lands in the last bucket: the second rare relic
	g := NewGenerator(testRules(), testRegistry(t), rng.NewFixed(0.999))
	got := g.pick(1, campWeights)
	require.Len(t, got, 1)
	assert.Equal(t, "rabbit-foot", got[0].ID)

	g = NewGenerator(testRules(), testRegistry(t), rng.NewFixed(0))
	got = g.pick(2, campWeights)
	assert.Equal(t, []string{"whetstone", "iron-chip"}, RelicIDs(got))
}

func TestCampRelicDraftStock(t *testing.T) {
	g := NewGenerator(testRules(), testRegistry(t), rng.NewSeededRNG(9))
	opts := g.RewardOptions(1, false)
	stock := g.CampRelicDraftStock(opts)
	require.Len(t, stock, len(opts))
	for i, it := range stock {
		assert.True(t, it.Draft)
		assert.Equal(t, KindRelic, it.Kind)
		assert.Equal(t, opts[i].ID, it.RelicID)
		assert.Zero(t, it.Cost)
		assert.True(t, it.Valid(g.Registry))
	}
	assert.Empty(t, g.CampRelicDraftStock(nil))
}

func TestShopStockPricesByFloor(t *testing.T) {
	g := NewGenerator(testRules(), testRegistry(t), rng.NewFixed(0))
	stock := g.ShopStock(2)
	require.Len(t, stock, 4)

	assert.Equal(t, "whetstone", stock[0].RelicID)
	assert.Equal(t, 25, stock[0].Cost)
	assert.False(t, stock[0].Draft)

	heal := stock[3]
	assert.Equal(t, KindHeal, heal.Kind)
	assert.Equal(t, 15, heal.Amount)
	assert.Equal(t, 15, heal.Cost)

	ids := make([]string, 0, len(stock))
	for _, it := range stock {
		ids = append(ids, it.ID)
	}
	distinct(t, ids)
}

func TestShopItemValid(t *testing.T) {
	reg := testRegistry(t)
	assert.True(t, ShopItem{Kind: KindRelic, RelicID: "tip-jar"}.Valid(reg))
	assert.False(t, ShopItem{Kind: KindRelic, RelicID: "gone"}.Valid(reg))
	assert.False(t, ShopItem{Kind: KindHeal}.Valid(reg))
	assert.False(t, ShopItem{Kind: "potion"}.Valid(reg))
}
