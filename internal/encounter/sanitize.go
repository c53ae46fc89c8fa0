package encounter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/bust-run/internal/cards"
)

var ErrInvalidEncounter = errors.New("invalid encounter state")

// Sanitize decodes a persisted encounter. Malformed cards, duplicated cards,
// unknown phases or enemy types abort hydration; counters and timers are clamped.
// A nil result with nil error means no encounter was saved.
func Sanitize(raw json.RawMessage) (*Encounter, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var enc Encounter
	if err := json.Unmarshal(raw, &enc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncounter, err)
	}

	var errs []string
	if !ValidPhase(enc.Phase) {
		errs = append(errs, fmt.Sprintf("unknown phase %q", enc.Phase))
	}
	switch enc.Enemy.Type {
	case EnemyNormal, EnemyElite, EnemyBoss:
	default:
		errs = append(errs, fmt.Sprintf("unknown enemy type %q", enc.Enemy.Type))
	}
	if enc.Enemy.MaxHP < 1 {
		errs = append(errs, "enemy.maxHp must be >= 1")
	}

	piles := map[string][]cards.Card{
		"shoe":          enc.Cards,
		"discard":       enc.Discard,
		"luckyRejected": enc.Rejected,
		"playerHand":    enc.PlayerHand,
		"dealerHand":    enc.DealerHand,
	}
	for i, h := range enc.SplitQueue {
		piles[fmt.Sprintf("splitQueue[%d]", i)] = h
	}
	seen := make(map[cards.Card]string)
	for name, pile := range piles {
		if err := cards.ValidateAll(pile); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		for _, c := range pile {
			if prev, dup := seen[c]; dup {
				errs = append(errs, fmt.Sprintf("%s duplicated in %s and %s", c, prev, name))
			}
			seen[c] = name
		}
	}
	if enc.Phase == PhaseDealer || enc.Phase == PhaseResolve {
		// transitions through these phases are atomic and never persisted
		errs = append(errs, fmt.Sprintf("transient phase %q", enc.Phase))
	}
	if enc.Phase == PhasePlayer && len(enc.PlayerHand) < 2 {
		errs = append(errs, "player phase with fewer than two cards")
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncounter, strings.Join(errs, "; "))
	}

	if enc.Enemy.HP > enc.Enemy.MaxHP {
		enc.Enemy.HP = enc.Enemy.MaxHP
	}
	if enc.Enemy.HP < 0 {
		enc.Enemy.HP = 0
	}
	if enc.SplitHandsTotal < 1 {
		enc.SplitHandsTotal = 1 + len(enc.SplitQueue)
	}
	if enc.SplitHandsResolved < 0 {
		enc.SplitHandsResolved = 0
	}
	if enc.SplitHandsResolved > enc.SplitHandsTotal {
		enc.SplitHandsResolved = enc.SplitHandsTotal
	}
	if enc.ResolveTimer < 0 {
		enc.ResolveTimer = 0
	}
	switch enc.ResultTone {
	case ToneNeutral, ToneWin, ToneLose:
	default:
		enc.ResultTone = ToneNeutral
	}
	if enc.PlayerHand == nil {
		enc.PlayerHand = []cards.Card{}
	}
	if enc.DealerHand == nil {
		enc.DealerHand = []cards.Card{}
	}
	if enc.SplitQueue == nil {
		enc.SplitQueue = [][]cards.Card{}
	}
	if enc.Discard == nil {
		enc.Discard = []cards.Card{}
	}
	return &enc, nil
}
