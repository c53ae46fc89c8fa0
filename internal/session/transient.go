package session

import (
	"strconv"

	"github.com/xtding233/bust-run/internal/encounter"
	"github.com/xtding233/bust-run/internal/progress"
)

const (
	floatingTextSeconds = 1.2
	particleSeconds     = 0.6
	shakeSeconds        = 0.35
)

// FloatingText is a short-lived number or word over the table.
type FloatingText struct {
	Kind string  `json:"kind"`
	Text string  `json:"text"`
	TTL  float64 `json:"ttl"`
}

// Particle is a burst marker; the presentation layer decides what it looks like.
type Particle struct {
	Kind string  `json:"kind"`
	TTL  float64 `json:"ttl"`
}

// Transient is presentation state derived from play. It is never persisted.
type Transient struct {
	FloatingTexts     []FloatingText     `json:"floatingTexts"`
	Particles         []Particle         `json:"particles"`
	ShakeTimer        float64            `json:"shakeTimer"`
	PendingTransition string             `json:"pendingTransition,omitempty"`
	LayoutCache       map[string]float64 `json:"-"`
	AutosaveTimer     float64            `json:"-"`
}

func newTransient() Transient {
	return Transient{
		FloatingTexts: []FloatingText{},
		Particles:     []Particle{},
		LayoutCache:   map[string]float64{},
	}
}

// absorb turns engine events into floating texts, bursts and shake.
func (t *Transient) absorb(events []encounter.Event) {
	for _, ev := range events {
		text := ev.Text
		switch ev.Kind {
		case "damage_enemy":
			text = fmtSigned("-", ev.Amount)
		case "damage_player":
			text = fmtSigned("-", ev.Amount)
			t.ShakeTimer = shakeSeconds
		case "heal", "gold":
			text = fmtSigned("+", ev.Amount)
		case "bust_guard":
			t.Particles = append(t.Particles, Particle{Kind: "guard", TTL: particleSeconds})
		}
		t.FloatingTexts = append(t.FloatingTexts, FloatingText{Kind: ev.Kind, Text: text, TTL: floatingTextSeconds})
	}
}

func (t *Transient) tick(dt float64) {
	if dt <= 0 {
		return
	}
	texts := t.FloatingTexts[:0]
	for _, ft := range t.FloatingTexts {
		if ft.TTL -= dt; ft.TTL > 0 {
			texts = append(texts, ft)
		}
	}
	t.FloatingTexts = texts
	parts := t.Particles[:0]
	for _, p := range t.Particles {
		if p.TTL -= dt; p.TTL > 0 {
			parts = append(parts, p)
		}
	}
	t.Particles = parts
	if t.ShakeTimer -= dt; t.ShakeTimer < 0 {
		t.ShakeTimer = 0
	}
	t.AutosaveTimer += dt
}

// ResetTransientStateAfterResume drops everything that would replay stale
// animation after a resume, plus the short run ticker. The run's event log
// is kept.
func ResetTransientStateAfterResume(state *progress.State, t *Transient) {
	*t = newTransient()
	if state != nil && state.Run != nil {
		state.Run.ClearLog()
	}
}

func fmtSigned(sign string, n int) string {
	return sign + strconv.Itoa(n)
}
