package cards

import "github.com/xtding233/bust-run/internal/rng"

// DeckSize is the number of cards in one physical deck.
const DeckSize = 52

// CreateDeck returns an unshuffled deck, suits outer and ranks inner.
func CreateDeck() []Card {
	out := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			out = append(out, Card{Rank: r, Suit: s})
		}
	}
	return out
}

// Shuffle returns a uniformly random permutation of cards.
// The input slice is left untouched.
func Shuffle(in []Card, src rng.RandomSource) []Card {
	out := append([]Card(nil), in...)
	if src == nil {
		src = rng.DefaultRNG()
	}
	// Fisher-Yates, back to front
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(src, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
