// Package cards models a standard 52-card deck and blackjack hand arithmetic.
package cards

import (
	"errors"
	"fmt"
)

// Suit of a card.
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// Rank of a card, "2".."10", "J", "Q", "K", "A".
type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

var (
	Suits = []Suit{Spades, Hearts, Diamonds, Clubs}
	Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
)

var ErrMalformedCard = errors.New("malformed card")

// Card is a single playing card.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

var rankValues = map[Rank]int{
	Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8, Nine: 9,
	Ten: 10, Jack: 10, Queen: 10, King: 10,
	Ace: 11,
}

// Value is the blackjack value of the card with an Ace counted as 11.
func (c Card) Value() int {
	return rankValues[c.Rank]
}

func (c Card) String() string {
	return string(c.Rank) + " of " + string(c.Suit)
}

// Validate reports whether rank and suit are known.
func (c Card) Validate() error {
	if _, ok := rankValues[c.Rank]; !ok {
		return fmt.Errorf("%w: rank %q", ErrMalformedCard, c.Rank)
	}
	switch c.Suit {
	case Spades, Hearts, Diamonds, Clubs:
		return nil
	}
	return fmt.Errorf("%w: suit %q", ErrMalformedCard, c.Suit)
}

// ValidateAll checks every card in a pile.
func ValidateAll(pile []Card) error {
	for i, c := range pile {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
	}
	return nil
}
