// Package relic holds the relic catalog and folds equipped relics into a Stats bundle.
package relic

import (
	"fmt"
	"sort"
)

// Rarity drives pricing and how often a relic is offered.
type Rarity string

const (
	Common   Rarity = "common"
	Uncommon Rarity = "uncommon"
	Rare     Rarity = "rare"
)

// Relic is a passive modifier. Effects is applied once per stack.
type Relic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rarity      Rarity `json:"rarity"`
	MaxStacks   int    `json:"maxStacks,omitempty"` // 0 = unlimited
	Effects     Stats  `json:"effects"`
}

// Registry is the live id -> relic lookup.
type Registry struct {
	byID  map[string]Relic
	order []string
}

// NewRegistry indexes relics by id. Duplicate or empty ids are rejected.
func NewRegistry(defs []Relic) (*Registry, error) {
	r := &Registry{byID: make(map[string]Relic, len(defs))}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("relic with empty id (name %q)", d.Name)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate relic id %q", d.ID)
		}
		if d.Rarity == "" {
			d.Rarity = Common
		}
		r.byID[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return r, nil
}

// Lookup returns the relic registered under id.
func (r *Registry) Lookup(id string) (Relic, bool) {
	if r == nil {
		return Relic{}, false
	}
	d, ok := r.byID[id]
	return d, ok
}

// All returns relics in catalog order.
func (r *Registry) All() []Relic {
	if r == nil {
		return nil
	}
	out := make([]Relic, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len is the catalog size.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Aggregate folds owned relic stacks into one Stats bundle.
// Unknown ids are ignored so a shrunken catalog never breaks a run.
func Aggregate(reg *Registry, owned map[string]int) Stats {
	s := BaseStats()
	ids := make([]string, 0, len(owned))
	for id := range owned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		n := owned[id]
		if n <= 0 {
			continue
		}
		d, ok := reg.Lookup(id)
		if !ok {
			continue
		}
		if d.MaxStacks > 0 && n > d.MaxStacks {
			n = d.MaxStacks
		}
		s = s.add(d.Effects, n)
	}
	return s.Clamp()
}

// CanStack reports whether one more copy of id may be acquired.
func CanStack(reg *Registry, owned map[string]int, id string) bool {
	d, ok := reg.Lookup(id)
	if !ok {
		return false
	}
	return d.MaxStacks <= 0 || owned[id] < d.MaxStacks
}
