package encounter

import "fmt"

// legal phase edges; anything else is a programming error
var edges = map[Phase][]Phase{
	PhasePlayer:  {PhaseDealer, PhaseResolve},
	PhaseDealer:  {PhaseResolve},
	PhaseResolve: {PhasePlayer, PhaseDone},
	PhaseDone:    {PhasePlayer},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Phase) bool {
	for _, p := range edges[from] {
		if p == to {
			return true
		}
	}
	return false
}

func (e *Encounter) transition(to Phase) error {
	if !CanTransition(e.Phase, to) {
		return fmt.Errorf("illegal phase transition %s -> %s", e.Phase, to)
	}
	e.Phase = to
	return nil
}

// ValidPhase reports whether p is one of the four phases.
func ValidPhase(p Phase) bool {
	_, ok := edges[p]
	return ok
}
