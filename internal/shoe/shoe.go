// Package shoe manages the draw pile and discard pile of one encounter.
package shoe

import (
	"github.com/xtding233/bust-run/internal/cards"
	"github.com/xtding233/bust-run/internal/rng"
)

// Shoe is exclusively owned by an encounter. Cards is next-draw-first.
// Rejected holds low cards voided by the lucky rule; they never return to play.
type Shoe struct {
	Cards    []cards.Card `json:"shoe"`
	Discard  []cards.Card `json:"discard"`
	Rejected []cards.Card `json:"luckyRejected,omitempty"`
}

// New builds a shoe from one freshly shuffled deck.
func New(src rng.RandomSource) Shoe {
	return Shoe{
		Cards:   cards.Shuffle(cards.CreateDeck(), src),
		Discard: []cards.Card{},
	}
}

// Draw pops the head of the shoe. An empty shoe is refilled from the shuffled
// discard; if that is empty too a fresh deck is built, so Draw never fails.
func (s *Shoe) Draw(src rng.RandomSource) cards.Card {
	if len(s.Cards) == 0 {
		if len(s.Discard) > 0 {
			s.Cards = cards.Shuffle(s.Discard, src)
			s.Discard = []cards.Card{}
		} else {
			s.Cards = cards.Shuffle(cards.CreateDeck(), src)
			// new physical deck, the old void pile is gone with it
			s.Rejected = nil
		}
	}
	c := s.Cards[0]
	s.Cards = append([]cards.Card(nil), s.Cards[1:]...)
	return c
}

// Discards moves played cards onto the discard pile.
func (s *Shoe) Discards(played ...[]cards.Card) {
	for _, pile := range played {
		s.Discard = append(s.Discard, pile...)
	}
}

// Count is the number of cards tracked by the shoe (draw, discard and void piles).
func (s *Shoe) Count() int {
	return len(s.Cards) + len(s.Discard) + len(s.Rejected)
}
