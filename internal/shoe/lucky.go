package shoe

import (
	"github.com/xtding233/bust-run/internal/cards"
	"github.com/xtding233/bust-run/internal/rng"
)

// DefaultLowThreshold: cards valued below it (2-5) are "low".
const DefaultLowThreshold = 6

// LuckyUpgrade replaces a low card with a fresh draw while the side still has
// lucky redraws left. used counts redraws already spent this encounter and is
// advanced in place. Rejected cards go to the void pile, never to Discard.
func (s *Shoe) LuckyUpgrade(src rng.RandomSource, used *int, luckyStart, threshold int, c cards.Card) cards.Card {
	if used == nil {
		return c
	}
	if threshold <= 0 {
		threshold = DefaultLowThreshold
	}
	for *used < luckyStart && c.Value() < threshold {
		s.Rejected = append(s.Rejected, c)
		*used++
		c = s.Draw(src)
	}
	return c
}
