// Package camp generates the content offered between encounters: relic reward
// options, free relic drafts and the paid shop.
package camp

import (
	"github.com/xtding233/bust-run/internal/relic"
)

// ItemKind says what buying a ShopItem grants.
type ItemKind string

const (
	KindRelic ItemKind = "relic"
	KindHeal  ItemKind = "heal"
)

// ShopItem is one slot of camp stock. Draft items are free relic picks.
type ShopItem struct {
	ID      string   `json:"id"`
	Kind    ItemKind `json:"kind"`
	RelicID string   `json:"relicId,omitempty"`
	Name    string   `json:"name"`
	Cost    int      `json:"cost"`
	Amount  int      `json:"amount,omitempty"` // hp restored by heal items
	Draft   bool     `json:"draft,omitempty"`
	Sold    bool     `json:"sold,omitempty"`
}

// Valid reports whether the item still makes sense against the live registry.
func (it ShopItem) Valid(reg *relic.Registry) bool {
	switch it.Kind {
	case KindHeal:
		return it.Amount > 0 && it.Cost >= 0
	case KindRelic:
		_, ok := reg.Lookup(it.RelicID)
		return ok && it.Cost >= 0
	}
	return false
}

// RelicIDs lists the ids of options, in order.
func RelicIDs(options []relic.Relic) []string {
	ids := make([]string, 0, len(options))
	for _, o := range options {
		ids = append(ids, o.ID)
	}
	return ids
}
