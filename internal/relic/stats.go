package relic

// Stats is the flat modifier bundle produced from equipped relics.
// The encounter engine and progression controller only read it.
type Stats struct {
	FlatDamage            int     `json:"flatDamage"`
	Block                 int     `json:"block"`
	CritChance            float64 `json:"critChance"`
	HealOnWinHand         int     `json:"healOnWinHand"`
	GoldMultiplier        float64 `json:"goldMultiplier"`
	BustGuardPerEncounter int     `json:"bustGuardPerEncounter"`
	FirstHandDamage       int     `json:"firstHandDamage"`
	ChipsOnWinHand        int     `json:"chipsOnWinHand"`
	ChipsOnPush           int     `json:"chipsOnPush"`
	LuckyStart            int     `json:"luckyStart"`
	HealOnEncounterStart  int     `json:"healOnEncounterStart"`
}

// BaseStats is what a player carries with no relics.
func BaseStats() Stats {
	return Stats{GoldMultiplier: 1}
}

// add accumulates n stacks of e onto s.
func (s Stats) add(e Stats, n int) Stats {
	f := float64(n)
	s.FlatDamage += e.FlatDamage * n
	s.Block += e.Block * n
	s.CritChance += e.CritChance * f
	s.HealOnWinHand += e.HealOnWinHand * n
	s.GoldMultiplier += e.GoldMultiplier * f
	s.BustGuardPerEncounter += e.BustGuardPerEncounter * n
	s.FirstHandDamage += e.FirstHandDamage * n
	s.ChipsOnWinHand += e.ChipsOnWinHand * n
	s.ChipsOnPush += e.ChipsOnPush * n
	s.LuckyStart += e.LuckyStart * n
	s.HealOnEncounterStart += e.HealOnEncounterStart * n
	return s
}

// Clamp keeps probabilities and multipliers in usable ranges.
func (s Stats) Clamp() Stats {
	if s.CritChance < 0 {
		s.CritChance = 0
	}
	if s.CritChance > 1 {
		s.CritChance = 1
	}
	if s.GoldMultiplier <= 0 {
		s.GoldMultiplier = 1
	}
	for _, v := range []*int{
		&s.FlatDamage, &s.Block, &s.HealOnWinHand, &s.BustGuardPerEncounter,
		&s.FirstHandDamage, &s.ChipsOnWinHand, &s.ChipsOnPush, &s.LuckyStart,
		&s.HealOnEncounterStart,
	} {
		if *v < 0 {
			*v = 0
		}
	}
	return s
}
