// Package encounter runs one blackjack fight against an enemy as an explicit
// state machine: player -> dealer -> resolve -> done.
package encounter

import (
	"github.com/xtding233/bust-run/internal/cards"
	"github.com/xtding233/bust-run/internal/shoe"
)

type Phase string

const (
	PhasePlayer  Phase = "player"
	PhaseDealer  Phase = "dealer"
	PhaseResolve Phase = "resolve"
	PhaseDone    Phase = "done"
)

type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneWin     Tone = "win"
	ToneLose    Tone = "lose"
)

type EnemyType string

const (
	EnemyNormal EnemyType = "normal"
	EnemyElite  EnemyType = "elite"
	EnemyBoss   EnemyType = "boss"
)

// Action is a player intent.
type Action string

const (
	ActionHit    Action = "hit"
	ActionStand  Action = "stand"
	ActionDouble Action = "double"
	ActionSplit  Action = "split"
)

// Outcome is reported once every hand of a round has resolved.
type Outcome string

const (
	OutcomeNone           Outcome = ""
	OutcomeHandOver       Outcome = "hand_over"
	OutcomeEnemyDefeated  Outcome = "enemy_defeated"
	OutcomePlayerDefeated Outcome = "player_defeated"
)

// HandResult is the verdict for a single player hand.
type HandResult string

const (
	ResultWin  HandResult = "win"
	ResultLose HandResult = "lose"
	ResultPush HandResult = "push"
)

type Enemy struct {
	Name      string    `json:"name"`
	Type      EnemyType `json:"type"`
	HP        int       `json:"hp"`
	MaxHP     int       `json:"maxHp"`
	Attack    int       `json:"attack"`
	GoldDrop  int       `json:"goldDrop"`
	AvatarKey string    `json:"avatarKey"`
}

// LuckyCounts tracks lucky redraws spent this encounter. Only the player's
// dealt cards are upgraded.
type LuckyCounts struct {
	Player int `json:"player"`
}

// Event is a presentation hint (floating numbers, flashes). Never persisted.
type Event struct {
	Kind   string `json:"kind"`
	Amount int    `json:"amount,omitempty"`
	Text   string `json:"text,omitempty"`
}

// Encounter owns its shoe; hands reference no shared slices.
type Encounter struct {
	Enemy Enemy `json:"enemy"`
	shoe.Shoe

	PlayerHand []cards.Card   `json:"playerHand"`
	DealerHand []cards.Card   `json:"dealerHand"`
	SplitQueue [][]cards.Card `json:"splitQueue"`

	SplitUsed          bool `json:"splitUsed"`
	SplitHandsTotal    int  `json:"splitHandsTotal"`
	SplitHandsResolved int  `json:"splitHandsResolved"`
	DealerResolved     bool `json:"dealerResolved"`
	HideDealerHole     bool `json:"hideDealerHole"`

	Phase        Phase   `json:"phase"`
	ResultText   string  `json:"resultText"`
	ResultTone   Tone    `json:"resultTone"`
	ResolveTimer float64 `json:"resolveTimer"`

	DoubleDown         bool   `json:"doubleDown"`
	BustGuardTriggered bool   `json:"bustGuardTriggered"`
	CritTriggered      bool   `json:"critTriggered"`
	LastPlayerAction   Action `json:"lastPlayerAction"`

	HandsPlayed int          `json:"handsPlayed"`
	LuckyUsed   LuckyCounts  `json:"luckyUsed"`
	Results     []HandResult `json:"results"`
	Outcome     Outcome      `json:"outcome,omitempty"`

	Events []Event `json:"-"`
}

// Affordances says which intents are currently legal.
type Affordances struct {
	Hit    bool `json:"hit"`
	Stand  bool `json:"stand"`
	Double bool `json:"double"`
	Split  bool `json:"split"`
}

// Over reports whether the encounter has a terminal outcome.
func (e *Encounter) Over() bool {
	return e.Outcome == OutcomeEnemyDefeated || e.Outcome == OutcomePlayerDefeated
}

// DrainEvents hands pending presentation events to the caller.
func (e *Encounter) DrainEvents() []Event {
	out := e.Events
	e.Events = nil
	return out
}

func (e *Encounter) emit(kind string, amount int, text string) {
	e.Events = append(e.Events, Event{Kind: kind, Amount: amount, Text: text})
}
