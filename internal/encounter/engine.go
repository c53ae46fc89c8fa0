package encounter

import (
	"errors"
	"fmt"
	"math"

	"github.com/xtding233/bust-run/internal/cards"
	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/economy"
	"github.com/xtding233/bust-run/internal/rng"
	"github.com/xtding233/bust-run/internal/run"
	"github.com/xtding233/bust-run/internal/shoe"
)

// ErrActionUnavailable is returned for intents that are illegal right now.
// The encounter is left untouched.
var ErrActionUnavailable = errors.New("action unavailable")

// Engine applies hand rules to encounters. It holds no per-encounter state.
type Engine struct {
	Rules config.HandRules
	RNG   rng.RandomSource
}

// NewEngine creates an engine; a nil source uses the crypto RNG.
func NewEngine(rules config.HandRules, src rng.RandomSource) *Engine {
	if src == nil {
		src = rng.DefaultRNG()
	}
	return &Engine{Rules: rules, RNG: src}
}

// Begin creates an encounter against enemy and deals the first hand.
func (g *Engine) Begin(r *run.Run, enemy Enemy) (*Encounter, error) {
	enc := &Encounter{
		Enemy:           enemy,
		Shoe:            shoe.New(g.RNG),
		PlayerHand:      []cards.Card{},
		DealerHand:      []cards.Card{},
		SplitQueue:      [][]cards.Card{},
		SplitHandsTotal: 1,
		Phase:           PhaseDone,
		ResultTone:      ToneNeutral,
	}
	stats := r.Player.Stats
	r.Player.BustGuardsLeft = stats.BustGuardPerEncounter
	if healed := economy.Heal(&r.Player, stats.HealOnEncounterStart); healed > 0 {
		enc.emit("heal", healed, "")
		r.Logf("Recovered %d hp before the fight", healed)
	}
	r.Logf("%s approaches (%d hp)", enemy.Name, enemy.HP)
	if err := g.StartHand(r, enc); err != nil {
		return nil, err
	}
	return enc, nil
}

// StartHand deals a new round against the same enemy.
func (g *Engine) StartHand(r *run.Run, enc *Encounter) error {
	if enc.Phase != PhaseDone || enc.Over() {
		return fmt.Errorf("%w: hand still in progress", ErrActionUnavailable)
	}
	enc.Discards(enc.PlayerHand, enc.DealerHand)
	for _, h := range enc.SplitQueue {
		enc.Discards(h)
	}
	enc.PlayerHand = []cards.Card{}
	enc.DealerHand = []cards.Card{}
	enc.SplitQueue = [][]cards.Card{}
	enc.SplitUsed = false
	enc.SplitHandsTotal = 1
	enc.SplitHandsResolved = 0
	enc.DealerResolved = false
	enc.DoubleDown = false
	enc.CritTriggered = false
	enc.LastPlayerAction = ""
	enc.ResultText = ""
	enc.ResultTone = ToneNeutral
	enc.ResolveTimer = 0
	enc.Results = nil
	enc.Outcome = OutcomeNone

	if err := enc.transition(PhasePlayer); err != nil {
		return err
	}
	enc.HandsPlayed++

	for i := 0; i < 2; i++ {
		enc.PlayerHand = append(enc.PlayerHand, g.dealPlayer(r, enc))
		enc.DealerHand = append(enc.DealerHand, enc.Draw(g.RNG))
	}
	enc.HideDealerHole = true

	if cards.IsBlackjack(enc.PlayerHand) || cards.IsBlackjack(enc.DealerHand) {
		enc.HideDealerHole = false
		enc.DealerResolved = true
		if err := enc.transition(PhaseResolve); err != nil {
			return err
		}
		return g.resolve(r, enc)
	}
	return nil
}

func (g *Engine) dealPlayer(r *run.Run, enc *Encounter) cards.Card {
	c := enc.Draw(g.RNG)
	return enc.LuckyUpgrade(g.RNG, &enc.LuckyUsed.Player, r.Player.Stats.LuckyStart, g.Rules.LuckyThreshold, c)
}

// Affordances reports the legal intents for the current state.
func (g *Engine) Affordances(r *run.Run, enc *Encounter) Affordances {
	if enc == nil || enc.Phase != PhasePlayer {
		return Affordances{}
	}
	untouched := len(enc.PlayerHand) == 2 && !enc.DoubleDown
	return Affordances{
		Hit:    true,
		Stand:  true,
		Double: untouched && economy.CanAfford(&r.Player, g.Rules.DoubleCost),
		Split:  untouched && !enc.SplitUsed && cards.IsPair(enc.PlayerHand) && economy.CanAfford(&r.Player, g.Rules.SplitCost),
	}
}

// Apply validates and performs one player intent.
func (g *Engine) Apply(r *run.Run, enc *Encounter, a Action) error {
	if enc == nil {
		return fmt.Errorf("%w: no encounter", ErrActionUnavailable)
	}
	aff := g.Affordances(r, enc)
	switch a {
	case ActionHit:
		if !aff.Hit {
			return fmt.Errorf("%w: %s", ErrActionUnavailable, a)
		}
		enc.LastPlayerAction = a
		enc.PlayerHand = append(enc.PlayerHand, enc.Draw(g.RNG))
		if cards.IsBust(enc.PlayerHand) {
			r.Logf("Bust with %d", cards.Total(enc.PlayerHand))
			return g.toDealer(r, enc)
		}
		return nil

	case ActionStand:
		if !aff.Stand {
			return fmt.Errorf("%w: %s", ErrActionUnavailable, a)
		}
		enc.LastPlayerAction = a
		return g.toDealer(r, enc)

	case ActionDouble:
		if !aff.Double {
			return fmt.Errorf("%w: double needs an untouched hand and %d gold", ErrActionUnavailable, g.Rules.DoubleCost)
		}
		economy.Debit(&r.Player, g.Rules.DoubleCost)
		enc.DoubleDown = true
		enc.LastPlayerAction = a
		enc.PlayerHand = append(enc.PlayerHand, enc.Draw(g.RNG))
		r.Logf("Doubled down on %d", cards.Total(enc.PlayerHand))
		return g.toDealer(r, enc)

	case ActionSplit:
		if !aff.Split {
			return fmt.Errorf("%w: split needs an unsplit pair and %d gold", ErrActionUnavailable, g.Rules.SplitCost)
		}
		economy.Debit(&r.Player, g.Rules.SplitCost)
		first, second := enc.PlayerHand[0], enc.PlayerHand[1]
		enc.PlayerHand = []cards.Card{first, enc.Draw(g.RNG)}
		enc.SplitQueue = append(enc.SplitQueue, []cards.Card{second, enc.Draw(g.RNG)})
		enc.SplitHandsTotal++
		enc.SplitUsed = true
		enc.LastPlayerAction = a
		r.Logf("Split %ss", first.Rank)
		return nil
	}
	return fmt.Errorf("%w: unknown action %q", ErrActionUnavailable, a)
}

func (g *Engine) toDealer(r *run.Run, enc *Encounter) error {
	if err := enc.transition(PhaseDealer); err != nil {
		return err
	}
	g.playDealer(enc)
	if err := enc.transition(PhaseResolve); err != nil {
		return err
	}
	return g.resolve(r, enc)
}

// playDealer reveals the hole card and draws to the stand threshold once per round.
func (g *Engine) playDealer(enc *Encounter) {
	enc.HideDealerHole = false
	if enc.DealerResolved {
		return
	}
	// nothing left to beat: current hand busted and no split hand waiting
	if !cards.IsBust(enc.PlayerHand) || len(enc.SplitQueue) > 0 {
		for cards.Total(enc.DealerHand) < g.Rules.DealerStandsOn {
			enc.DealerHand = append(enc.DealerHand, enc.Draw(g.RNG))
		}
	}
	enc.DealerResolved = true
}

// Compare is the plain blackjack verdict for one hand.
func Compare(player, dealer []cards.Card) HandResult {
	pt, dt := cards.Total(player), cards.Total(dealer)
	switch {
	case pt > cards.BlackjackTotal:
		return ResultLose
	case dt > cards.BlackjackTotal:
		return ResultWin
	case pt > dt:
		return ResultWin
	case pt < dt:
		return ResultLose
	}
	return ResultPush
}

func (g *Engine) resolve(r *run.Run, enc *Encounter) error {
	p := &r.Player
	stats := p.Stats
	stake := 1
	if enc.DoubleDown {
		stake = 2
	}
	result := Compare(enc.PlayerHand, enc.DealerHand)
	busted := cards.IsBust(enc.PlayerHand)

	if busted && p.BustGuardsLeft > 0 {
		p.BustGuardsLeft--
		enc.BustGuardTriggered = true
		result = ResultPush
		enc.emit("bust_guard", 0, "Guarded")
		r.Logf("Bust guard absorbed the bust")
	}

	switch result {
	case ResultWin:
		dmg := g.Rules.BaseDamage + stats.FlatDamage
		if enc.HandsPlayed == 1 && enc.SplitHandsResolved == 0 {
			dmg += stats.FirstHandDamage
		}
		dmg *= stake
		if cards.IsBlackjack(enc.PlayerHand) && !enc.SplitUsed {
			dmg = int(math.Floor(float64(dmg) * g.Rules.BlackjackBonus))
		}
		if rng.Chance(stats.CritChance, g.RNG) {
			enc.CritTriggered = true
			dmg = int(math.Floor(float64(dmg) * g.Rules.CritMultiplier))
			if n := economy.Credit(p, g.Rules.CritChips); n > 0 {
				enc.emit("gold", n, "Crit")
			}
		}
		dealt := damageEnemy(&enc.Enemy, dmg)
		p.TotalDamageDealt += dealt
		enc.emit("damage_enemy", dealt, "")
		if n := economy.Credit(p, stats.ChipsOnWinHand); n > 0 {
			enc.emit("gold", n, "")
		}
		if n := economy.Heal(p, stats.HealOnWinHand); n > 0 {
			enc.emit("heal", n, "")
		}
		p.Streak++
		r.Logf("Won the hand: %d damage to %s", dealt, enc.Enemy.Name)

	case ResultLose:
		dmg := enc.Enemy.Attack*stake - stats.Block
		taken := economy.Damage(p, dmg)
		enc.emit("damage_player", taken, "")
		p.Streak = 0
		r.Logf("Lost the hand: took %d damage", taken)

	case ResultPush:
		if n := economy.Credit(p, stats.ChipsOnPush); n > 0 {
			enc.emit("gold", n, "")
		}
		r.Logf("Push")
	}
	enc.Results = append(enc.Results, result)

	ended := enc.Enemy.HP <= 0 || p.HP <= 0
	if !ended && enc.SplitHandsResolved < enc.SplitHandsTotal-1 && len(enc.SplitQueue) > 0 {
		enc.SplitHandsResolved++
		enc.Discards(enc.PlayerHand)
		enc.PlayerHand = enc.SplitQueue[0]
		enc.SplitQueue = enc.SplitQueue[1:]
		enc.DoubleDown = false
		enc.LastPlayerAction = ""
		return enc.transition(PhasePlayer)
	}
	enc.SplitHandsResolved++
	return g.finish(r, enc)
}

func (g *Engine) finish(r *run.Run, enc *Encounter) error {
	if err := enc.transition(PhaseDone); err != nil {
		return err
	}
	p := &r.Player
	enc.ResolveTimer = g.Rules.ResolveDelay
	switch {
	case enc.Enemy.HP <= 0:
		enc.Outcome = OutcomeEnemyDefeated
		gold := economy.Credit(p, economy.ScaleGold(enc.Enemy.GoldDrop, p.Stats.GoldMultiplier))
		if gold > 0 {
			enc.emit("gold", gold, "")
		}
		enc.ResultText = fmt.Sprintf("%s defeated! +%d gold", enc.Enemy.Name, gold)
		enc.ResultTone = ToneWin
		r.Logf("%s defeated, +%d gold", enc.Enemy.Name, gold)
	case p.HP <= 0:
		enc.Outcome = OutcomePlayerDefeated
		enc.ResultText = fmt.Sprintf("Defeated by %s", enc.Enemy.Name)
		enc.ResultTone = ToneLose
	default:
		enc.Outcome = OutcomeHandOver
		enc.ResultText, enc.ResultTone = summarize(enc.Results, enc.CritTriggered)
	}
	return nil
}

func summarize(results []HandResult, crit bool) (string, Tone) {
	wins, losses := 0, 0
	for _, res := range results {
		switch res {
		case ResultWin:
			wins++
		case ResultLose:
			losses++
		}
	}
	switch {
	case wins > losses && crit:
		return "Critical win!", ToneWin
	case wins > losses:
		return "You win the hand", ToneWin
	case losses > wins:
		return "Dealer wins", ToneLose
	}
	return "Push", ToneNeutral
}

func damageEnemy(e *Enemy, n int) int {
	if n <= 0 {
		return 0
	}
	if n > e.HP {
		n = e.HP
	}
	e.HP -= n
	return n
}

// Tick counts down the post-resolution pause. It reports true once the
// encounter is done and the pause has elapsed.
func (g *Engine) Tick(enc *Encounter, dt float64) bool {
	if enc == nil || enc.Phase != PhaseDone {
		return false
	}
	if dt > 0 && enc.ResolveTimer > 0 {
		enc.ResolveTimer -= dt
		if enc.ResolveTimer < 0 {
			enc.ResolveTimer = 0
		}
	}
	return enc.ResolveTimer <= 0
}
