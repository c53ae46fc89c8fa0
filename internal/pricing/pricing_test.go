package pricing

import (
	"testing"

	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/relic"
)

func rules() config.ShopRules {
	return config.ShopRules{
		HealPrice:   12,
		FloorMarkup: 0.25,
		Prices:      map[string]int{"common": 20, "uncommon": 35, "rare": 55},
	}
}

func TestRelicPriceScalesWithFloor(t *testing.T) {
	cases := []struct {
		rarity relic.Rarity
		floor  int
		want   int
	}{
		{relic.Common, 1, 20},
		{relic.Common, 2, 25},
		{relic.Uncommon, 3, 53}, // 35 + round(17.5)
		{relic.Rare, 0, 55},
		{relic.Rarity("mythic"), 1, defaultRelicPrice},
	}
	for _, c := range cases {
		got := Relic(rules(), c.rarity, c.floor)
		if got.Total != c.want {
			t.Fatalf("Relic(%s, floor %d) = %d, want %d", c.rarity, c.floor, got.Total, c.want)
		}
		if got.Base+got.Markup != got.Total {
			t.Fatalf("quote does not add up: %+v", got)
		}
	}
}

func TestHealPrice(t *testing.T) {
	if got := Heal(rules(), 1).Total; got != 12 {
		t.Fatalf("floor 1 heal = %d, want 12", got)
	}
	if got := Heal(rules(), 3).Total; got != 18 {
		t.Fatalf("floor 3 heal = %d, want 18", got)
	}
}

func TestApplyMarkupIgnoresNegativeRate(t *testing.T) {
	m, total := applyMarkup(40, -0.5)
	if m != 0 || total != 40 {
		t.Fatalf("got markup %d total %d", m, total)
	}
}
