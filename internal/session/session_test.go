package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/bust-run/internal/camp"
	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/encounter"
	"github.com/xtding233/bust-run/internal/profile"
	"github.com/xtding233/bust-run/internal/progress"
	"github.com/xtding233/bust-run/internal/rng"
	"github.com/xtding233/bust-run/internal/storage"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newController(t *testing.T, seed uint64) *progress.Controller {
	t.Helper()
	bal := config.Default()
	reg, err := bal.Registry()
	require.NoError(t, err)
	gen := camp.NewGenerator(bal.Shop, reg, rng.NewSeededRNG(seed))
	return progress.NewController(bal, reg, gen, rng.NewSeededRNG(seed+1), nil)
}

func newSession(t *testing.T, store storage.Store, clk *clock) *Session {
	t.Helper()
	return New(newController(t, 11), Options{Store: store, AutosaveEvery: 10 * time.Second, Now: clk.Now})
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 8, 8, 20, 0, 0, 0, time.UTC)}
}

// finishEncounter marks the current fight as won by the player.
func finishEncounter(s *Session) {
	enc := s.state.Encounter
	enc.Phase = encounter.PhaseDone
	enc.Outcome = encounter.OutcomeEnemyDefeated
	enc.Enemy.HP = 0
	enc.ResolveTimer = 0.5
}

func TestStartPersistsSnapshotAndProfile(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s := newSession(t, store, newClock())

	require.NoError(t, s.Start(ctx))

	body, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.NotNil(t, body)
	prof, err := store.LoadProfile(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `1`, string(mustField(t, prof, "runsStarted")))

	v, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, progress.ModePlaying, v.Mode)
	assert.False(t, v.IntroActive)
	require.NotNil(t, v.Encounter)
	if v.Encounter.HideDealerHole {
		assert.Len(t, v.Encounter.DealerHand, 1)
	}
	assert.Nil(t, v.Encounter.Cards, "draw order is not exposed")
}

func TestTickAdvancesToCampAndSaves(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clk := newClock()
	s := newSession(t, store, clk)
	require.NoError(t, s.Start(ctx))
	finishEncounter(s)

	require.NoError(t, s.Tick(ctx, 0.2))
	assert.Equal(t, progress.ModePlaying, s.state.Mode, "resolve pause still running")

	clk.Advance(time.Second)
	require.NoError(t, s.Tick(ctx, 0.4))
	assert.Equal(t, progress.ModeShop, s.state.Mode)
	assert.Equal(t, 2, s.state.Run.Room)
	assert.Equal(t, "camp", s.transient.PendingTransition)
	assert.Equal(t, clk.Now(), store.SavedAt())

	other := newSession(t, store, clk)
	require.True(t, other.Resume(ctx))
	assert.Equal(t, progress.ModeShop, other.state.Mode)
	assert.Len(t, other.state.RewardOptions, len(s.state.RewardOptions))
}

// loseHand hits until a hand kills the player. The enemy cannot die first.
func loseHand(t *testing.T, s *Session) {
	t.Helper()
	ctx := context.Background()
	s.state.Run.Player.HP = 1
	s.state.Run.Player.BustGuardsLeft = 0
	s.state.Run.Player.Stats.Block = 0
	enc := s.state.Encounter
	enc.Enemy.HP, enc.Enemy.MaxHP, enc.Enemy.Attack = 10000, 10000, 50
	for i := 0; i < 100; i++ {
		switch {
		case enc.Outcome == encounter.OutcomePlayerDefeated:
			return
		case enc.Phase == encounter.PhasePlayer:
			require.NoError(t, s.Act(ctx, encounter.ActionHit))
		default:
			require.NoError(t, s.Tick(ctx, 10))
		}
	}
	t.Fatal("player never fell")
}

func storedProfile(t *testing.T, store storage.Store) *profile.Profile {
	t.Helper()
	raw, err := store.LoadProfile(context.Background())
	require.NoError(t, err)
	p, err := profile.Decode(raw)
	require.NoError(t, err)
	return p
}

func TestFatalHandRecordsDefeatBeforeTick(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clk := newClock()
	s := newSession(t, store, clk)
	require.NoError(t, s.Start(ctx))

	loseHand(t, s)
	assert.Equal(t, progress.ModePlaying, s.state.Mode, "resolve pause still running")
	assert.Equal(t, 0, s.state.Run.Player.HP)

	body, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, body, "a dead run is not resumable")
	assert.Equal(t, 1, storedProfile(t, store).RunsLost)

	// closing during the pause cannot undo the loss
	s.Hidden(ctx)
	body, _ = store.LoadSnapshot(ctx)
	assert.Nil(t, body)

	other := newSession(t, store, clk)
	require.NoError(t, other.LoadProfile(ctx))
	assert.False(t, other.Resume(ctx))
	assert.Equal(t, progress.ModeMenu, other.state.Mode)
	assert.Equal(t, 1, other.ctrl.Profile.RunsLost)

	require.NoError(t, s.Tick(ctx, 10))
	assert.Equal(t, progress.ModeDefeat, s.state.Mode)
	p := storedProfile(t, store)
	assert.Equal(t, 1, p.RunsLost, "finalized once")
	assert.Equal(t, 1, p.RunsStarted)
}

func TestResumeBetweenWinningHandAndTick(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clk := newClock()
	s := newSession(t, store, clk)
	require.NoError(t, s.Start(ctx))
	finishEncounter(s)
	s.Hidden(ctx)

	resumed := newSession(t, store, clk)
	require.NoError(t, resumed.LoadProfile(ctx))
	require.True(t, resumed.Resume(ctx))
	assert.Equal(t, progress.ModePlaying, resumed.state.Mode)
	assert.Equal(t, encounter.OutcomeEnemyDefeated, resumed.state.Encounter.Outcome)

	require.NoError(t, resumed.Tick(ctx, 1))
	assert.Equal(t, progress.ModeShop, resumed.state.Mode)
	assert.Equal(t, 2, resumed.state.Run.Room)
	assert.Equal(t, 1, resumed.state.Run.EnemiesDefeated)

	p := storedProfile(t, store)
	assert.Equal(t, 1, p.RunsStarted)
	assert.Zero(t, p.RunsLost)
	assert.Zero(t, p.RunsWon)
}

func TestFinalVictoryClearsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s := newSession(t, store, newClock())
	require.NoError(t, s.Start(ctx))
	s.state.Run.Floor = s.state.Run.MaxFloor
	finishEncounter(s)
	s.state.Encounter.Enemy.Type = encounter.EnemyBoss

	require.NoError(t, s.Tick(ctx, 1))
	assert.Equal(t, progress.ModeVictory, s.state.Mode)

	body, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, body, "a finished run is not resumable")

	raw, err := store.LoadProfile(ctx)
	require.NoError(t, err)
	p, err := profile.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, p.RunsWon)

	s.Hidden(ctx)
	body, _ = store.LoadSnapshot(ctx)
	assert.Nil(t, body)
}

func TestAutosaveIsThrottled(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clk := newClock()
	s := newSession(t, store, clk)
	require.NoError(t, s.Start(ctx))
	started := store.SavedAt()

	// keep the hand open so ticks only autosave
	s.state.Encounter.Phase = encounter.PhasePlayer

	clk.Advance(time.Second)
	require.NoError(t, s.Tick(ctx, 1))
	first := store.SavedAt()
	assert.True(t, first.After(started), "burst allows the first autosave")

	clk.Advance(3 * time.Second)
	require.NoError(t, s.Tick(ctx, 3))
	assert.Equal(t, first, store.SavedAt(), "throttled")
	assert.InDelta(t, 3, s.transient.AutosaveTimer, 1e-9)

	clk.Advance(10 * time.Second)
	require.NoError(t, s.Tick(ctx, 10))
	assert.True(t, store.SavedAt().After(first))
	assert.Zero(t, s.transient.AutosaveTimer)
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	store.FailSaves = true
	s := newSession(t, store, newClock())

	require.NoError(t, s.Start(ctx))
	s.Hidden(ctx)
	assert.Equal(t, progress.ModePlaying, s.state.Mode)
}

func TestResumeRestoresRunAndResetsTransient(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clk := newClock()
	s := newSession(t, store, clk)
	require.NoError(t, s.Start(ctx))
	s.state.Run.Logf("before the break")
	s.Hidden(ctx)

	resumed := newSession(t, store, clk)
	require.True(t, resumed.Resume(ctx))

	assert.Equal(t, s.state.Run.ID, resumed.state.Run.ID)
	assert.Equal(t, s.state.Encounter.PlayerHand, resumed.state.Encounter.PlayerHand)
	assert.Empty(t, resumed.state.Run.Log)
	assert.Equal(t, s.state.Run.EventLog, resumed.state.Run.EventLog)
	assert.Empty(t, resumed.transient.FloatingTexts)
	assert.Empty(t, resumed.transient.PendingTransition)
	assert.False(t, resumed.intro)
}

func TestResumeFallsBackToMenu(t *testing.T) {
	ctx := context.Background()

	empty := newSession(t, storage.NewMemoryStore(), newClock())
	assert.False(t, empty.Resume(ctx))
	assert.Equal(t, progress.ModeMenu, empty.state.Mode)

	store := storage.NewMemoryStore()
	require.NoError(t, store.SaveSnapshot(ctx, []byte("{bad json"), time.Now()))
	broken := newSession(t, store, newClock())
	assert.False(t, broken.Resume(ctx))
	assert.Equal(t, progress.ModeMenu, broken.state.Mode)
	body, _ := store.LoadSnapshot(ctx)
	assert.Nil(t, body, "unreadable snapshot is discarded")

	require.NoError(t, store.SaveSnapshot(ctx, []byte(`{"version":1,"mode":"playing","run":{"id":"x","maxFloor":0}}`), time.Now()))
	assert.False(t, broken.Resume(ctx))
	assert.Equal(t, progress.ModeMenu, broken.state.Mode)
	require.NoError(t, broken.Start(ctx), "a fresh run can start after a failed resume")
}

func TestResetTransientStateAfterResume(t *testing.T) {
	s := newSession(t, storage.NewMemoryStore(), newClock())
	require.NoError(t, s.Start(context.Background()))
	for i := 0; i < 3; i++ {
		s.state.Run.Logf("entry %d", i)
	}
	events := len(s.state.Run.EventLog)
	s.transient.FloatingTexts = append(s.transient.FloatingTexts, FloatingText{Kind: "gold", Text: "+2", TTL: 1})
	s.transient.Particles = append(s.transient.Particles, Particle{Kind: "guard", TTL: 1})
	s.transient.ShakeTimer = 0.3
	s.transient.PendingTransition = "camp"
	s.transient.LayoutCache["hand"] = 120
	s.transient.AutosaveTimer = 7

	ResetTransientStateAfterResume(s.state, &s.transient)

	assert.Empty(t, s.transient.FloatingTexts)
	assert.Empty(t, s.transient.Particles)
	assert.Zero(t, s.transient.ShakeTimer)
	assert.Empty(t, s.transient.PendingTransition)
	assert.Empty(t, s.transient.LayoutCache)
	assert.Zero(t, s.transient.AutosaveTimer)
	assert.Empty(t, s.state.Run.Log)
	assert.Len(t, s.state.Run.EventLog, events)

	ResetTransientStateAfterResume(progress.NewState(), &s.transient)
}

func TestAbandonClearsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s := newSession(t, store, newClock())
	assert.ErrorIs(t, s.Abandon(ctx), progress.ErrUnavailable)

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Abandon(ctx))
	body, _ := store.LoadSnapshot(ctx)
	assert.Nil(t, body)
	p, err := s.Profile()
	require.NoError(t, err)
	assert.Equal(t, 1, p.RunsAbandoned)
}

func TestActRejectsIllegalIntent(t *testing.T) {
	s := newSession(t, storage.NewMemoryStore(), newClock())
	err := s.Act(context.Background(), encounter.ActionHit)
	assert.ErrorIs(t, err, encounter.ErrActionUnavailable)
}

func TestReconfigureWaitsForRunEnd(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, storage.NewMemoryStore(), newClock())
	require.NoError(t, s.Start(ctx))
	prof := s.ctrl.Profile

	next := newController(t, 99)
	s.Reconfigure(next)
	assert.NotSame(t, next, s.ctrl)

	require.NoError(t, s.Abandon(ctx))
	assert.Same(t, next, s.ctrl)
	assert.Same(t, prof, s.ctrl.Profile, "profile carries over")
}

func TestLoadProfile(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.SaveProfile(ctx, []byte(`{"runsWon":4,"relics":{"whetstone":2}}`)))
	s := newSession(t, store, newClock())
	require.NoError(t, s.LoadProfile(ctx))
	p, err := s.Profile()
	require.NoError(t, err)
	assert.Equal(t, 4, p.RunsWon)
	assert.Equal(t, 2, p.Relics["whetstone"])
}

func mustField(t *testing.T, raw []byte, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}
