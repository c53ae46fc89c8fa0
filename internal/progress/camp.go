package progress

import (
	"fmt"

	"github.com/xtding233/bust-run/internal/camp"
	"github.com/xtding233/bust-run/internal/economy"
	"github.com/xtding233/bust-run/internal/relic"
)

// Select moves the camp cursor. Out-of-range indexes are rejected.
func (c *Controller) Select(s *State, index int) error {
	if s.Mode != ModeShop {
		return fmt.Errorf("%w: not at a camp", ErrUnavailable)
	}
	n := len(s.ShopStock)
	if len(s.RewardOptions) > n {
		n = len(s.RewardOptions)
	}
	if index < 0 || index >= n {
		return fmt.Errorf("%w: selection %d out of range", ErrUnavailable, index)
	}
	s.SelectionIndex = index
	return nil
}

// ClaimReward takes reward option index for free. One pick per camp.
func (c *Controller) ClaimReward(s *State, index int) error {
	if s.Mode != ModeShop || s.Run == nil {
		return fmt.Errorf("%w: not at a camp", ErrUnavailable)
	}
	if index < 0 || index >= len(s.RewardOptions) {
		return fmt.Errorf("%w: no reward %d", ErrUnavailable, index)
	}
	if s.Run.ShopPurchaseMade {
		return fmt.Errorf("%w: reward already taken", ErrUnavailable)
	}
	opt := s.RewardOptions[index]
	if err := c.grantRelic(s, opt); err != nil {
		return err
	}
	c.closeDraft(s)
	return nil
}

// Purchase buys or drafts ShopStock[index]. Draft items are free and share
// the single pick with reward options; paid items cost gold and sell once each.
func (c *Controller) Purchase(s *State, index int) error {
	if s.Mode != ModeShop || s.Run == nil {
		return fmt.Errorf("%w: not at a camp", ErrUnavailable)
	}
	if index < 0 || index >= len(s.ShopStock) {
		return fmt.Errorf("%w: no item %d", ErrUnavailable, index)
	}
	item := s.ShopStock[index]
	if item.Sold {
		return fmt.Errorf("%w: %s already sold", ErrUnavailable, item.Name)
	}
	p := &s.Run.Player

	if item.Draft {
		if s.Run.ShopPurchaseMade {
			return fmt.Errorf("%w: draft already taken", ErrUnavailable)
		}
		def, ok := c.Registry.Lookup(item.RelicID)
		if !ok {
			return fmt.Errorf("%w: unknown relic %q", ErrUnavailable, item.RelicID)
		}
		if err := c.grantRelic(s, def); err != nil {
			return err
		}
		c.closeDraft(s)
		return nil
	}

	if !economy.CanAfford(p, item.Cost) {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrUnavailable, item.Name, item.Cost, p.Gold)
	}
	switch item.Kind {
	case camp.KindHeal:
		if p.HP >= p.MaxHP {
			return fmt.Errorf("%w: already at full hp", ErrUnavailable)
		}
		economy.Debit(p, item.Cost)
		healed := economy.Heal(p, item.Amount)
		s.Run.Logf("Bought %s, healed %d", item.Name, healed)
	case camp.KindRelic:
		def, ok := c.Registry.Lookup(item.RelicID)
		if !ok {
			return fmt.Errorf("%w: unknown relic %q", ErrUnavailable, item.RelicID)
		}
		if !relic.CanStack(c.Registry, p.Relics, def.ID) {
			return fmt.Errorf("%w: %s is at max stacks", ErrUnavailable, def.Name)
		}
		economy.Debit(p, item.Cost)
		s.Run.AddRelic(c.Registry, def.ID)
		c.Profile.AddRelic(def.ID)
		s.Run.Logf("Bought %s for %d gold", def.Name, item.Cost)
	default:
		return fmt.Errorf("%w: unknown item kind %q", ErrUnavailable, item.Kind)
	}
	s.ShopStock[index].Sold = true
	s.Run.ShopPurchaseMade = true
	return nil
}

// LeaveCamp starts the encounter for the current room.
func (c *Controller) LeaveCamp(s *State) error {
	if s.Mode != ModeShop || s.Run == nil {
		return fmt.Errorf("%w: not at a camp", ErrUnavailable)
	}
	s.clearCamp()
	return c.beginRoom(s)
}

func (c *Controller) grantRelic(s *State, def relic.Relic) error {
	if !s.Run.AddRelic(c.Registry, def.ID) {
		return fmt.Errorf("%w: cannot take %s", ErrUnavailable, def.Name)
	}
	c.Profile.AddRelic(def.ID)
	s.Run.Logf("Took %s", def.Name)
	return nil
}

// closeDraft ends the free pick: options are cleared and draft slots sold.
func (c *Controller) closeDraft(s *State) {
	s.Run.ShopPurchaseMade = true
	s.RewardOptions = []relic.Relic{}
	for i := range s.ShopStock {
		if s.ShopStock[i].Draft {
			s.ShopStock[i].Sold = true
		}
	}
	s.SelectionIndex = 0
}
