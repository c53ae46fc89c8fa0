package cards

// BlackjackTotal is the best possible hand value.
const BlackjackTotal = 21

// Total computes the hand value. Aces count 11 unless that busts the hand.
func Total(hand []Card) int {
	total, _ := totalAndSoft(hand)
	return total
}

// IsSoft reports whether the best total still counts an Ace as 11.
func IsSoft(hand []Card) bool {
	_, soft := totalAndSoft(hand)
	return soft
}

func totalAndSoft(hand []Card) (int, bool) {
	total := 0
	aces := 0
	for _, c := range hand {
		total += c.Value()
		if c.Rank == Ace {
			aces++
		}
	}
	for total > BlackjackTotal && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// IsBust reports a total above 21.
func IsBust(hand []Card) bool {
	return Total(hand) > BlackjackTotal
}

// IsBlackjack is a natural: exactly two cards totalling 21.
func IsBlackjack(hand []Card) bool {
	return len(hand) == 2 && Total(hand) == BlackjackTotal
}

// IsPair is a two-card hand of the same rank.
func IsPair(hand []Card) bool {
	return len(hand) == 2 && hand[0].Rank == hand[1].Rank
}
