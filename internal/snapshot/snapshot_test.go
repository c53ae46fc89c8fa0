package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/bust-run/internal/camp"
	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/encounter"
	"github.com/xtding233/bust-run/internal/progress"
	"github.com/xtding233/bust-run/internal/relic"
	"github.com/xtding233/bust-run/internal/rng"
	"github.com/xtding233/bust-run/internal/run"
)

var now = time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	ctrl *progress.Controller
	gen  *camp.Generator
	reg  *relic.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	bal := config.Default()
	reg, err := bal.Registry()
	require.NoError(t, err)
	gen := camp.NewGenerator(bal.Shop, reg, rng.NewSeededRNG(5))
	ctrl := progress.NewController(bal, reg, gen, rng.NewSeededRNG(6), nil)
	ctrl.Now = func() time.Time { return now }
	return fixture{ctrl: ctrl, gen: gen, reg: reg}
}

func (f fixture) collaborators() Collaborators {
	return Collaborators{Registry: f.reg, Drafts: f.gen}
}

func roundTrip(t *testing.T, f fixture, s *progress.State) *Resume {
	t.Helper()
	snap, err := Build(s, now)
	require.NoError(t, err)
	require.NotNil(t, snap)
	raw, err := Encode(snap)
	require.NoError(t, err)

	env := Parse(raw)
	require.NotNil(t, env)
	res, err := Hydrate(Migrate(env), f.collaborators())
	require.NoError(t, err)
	return res
}

func TestBuildNilWithoutActiveRun(t *testing.T) {
	snap, err := Build(progress.NewState(), now)
	assert.NoError(t, err)
	assert.Nil(t, snap)

	snap, err = Build(nil, now)
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRoundTripPlaying(t *testing.T) {
	f := newFixture(t)
	s := progress.NewState()
	require.NoError(t, f.ctrl.StartRun(s))
	s.Run.Logf("something happened")

	snap, err := Build(s, now)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, snap.Version)
	assert.Equal(t, now.UnixMilli(), snap.SavedAt)
	assert.Equal(t, "playing", snap.Mode)

	res := roundTrip(t, f, s)
	assert.Equal(t, progress.ModePlaying, res.Mode)
	assert.Equal(t, s.Run.ID, res.Run.ID)
	assert.Equal(t, s.Run.Player, res.Run.Player)
	assert.Equal(t, s.Run.EventLog, res.Run.EventLog)
	require.NotNil(t, res.Encounter)
	assert.Equal(t, s.Encounter.PlayerHand, res.Encounter.PlayerHand)
	assert.Equal(t, s.Encounter.DealerHand, res.Encounter.DealerHand)
	assert.Equal(t, s.Encounter.Cards, res.Encounter.Cards)
	assert.Equal(t, s.Encounter.Phase, res.Encounter.Phase)
	assert.Equal(t, s.Encounter.Enemy, res.Encounter.Enemy)
	assert.False(t, res.IntroActive)
}

func TestRoundTripShop(t *testing.T) {
	f := newFixture(t)
	s := progress.NewState()
	require.NoError(t, f.ctrl.StartRun(s))
	s.Encounter.Phase = encounter.PhaseDone
	s.Encounter.Outcome = encounter.OutcomeEnemyDefeated
	require.True(t, f.ctrl.OnEncounterWin(s))
	require.Equal(t, progress.ModeShop, s.Mode)
	s.SelectionIndex = 1

	res := roundTrip(t, f, s)
	assert.Equal(t, progress.ModeShop, res.Mode)
	assert.Nil(t, res.Encounter)
	assert.Equal(t, camp.RelicIDs(s.RewardOptions), camp.RelicIDs(res.RewardOptions))
	assert.Equal(t, s.ShopStock, res.ShopStock)
	assert.Equal(t, 1, res.SelectionIndex)

	next := progress.NewState()
	res.Apply(next)
	require.NoError(t, f.ctrl.ClaimReward(next, 0))
}

func TestParseFailsClosed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{bad json", `{"foo":1}`, `[1,2]`, `"run"`, `{"run":null}`, "null"} {
		assert.Nil(t, Parse([]byte(raw)), "input %q", raw)
	}
	env := Parse([]byte(`{"run":{"id":"x"}}`))
	require.NotNil(t, env)
	assert.Equal(t, 0, env.Version)
	assert.Contains(t, env.Fields, "run")
}

func TestResolveMode(t *testing.T) {
	cases := map[string]progress.Mode{
		"playing": progress.ModePlaying,
		"shop":    progress.ModeShop,
		"reward":  progress.ModeShop,
		"victory": progress.ModePlaying,
		"":        progress.ModePlaying,
		"bogus":   progress.ModePlaying,
	}
	for in, want := range cases {
		assert.Equal(t, want, ResolveMode(in), "mode %q", in)
	}
}

func legacyRun(t *testing.T, f fixture) json.RawMessage {
	t.Helper()
	r := run.New(f.ctrl.Balance.Run, f.reg, now)
	r.Room = 2
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	return raw
}

func TestLegacyRewardModeMigrates(t *testing.T) {
	f := newFixture(t)
	doc := `{"mode":"reward","run":` + string(legacyRun(t, f)) + `,
		"rewardOptions":[{"id":"whetstone","name":"Whetstone"},{"id":"retired-relic"},{"id":"tip-jar"}],
		"selected":1}`

	env := Parse([]byte(doc))
	require.NotNil(t, env)
	snap := Migrate(env)
	assert.Equal(t, []string{"whetstone", "retired-relic", "tip-jar"}, snap.RewardOptionIDs)
	assert.Equal(t, 1, snap.SelectionIndex)

	res, err := Hydrate(snap, f.collaborators())
	require.NoError(t, err)
	assert.Equal(t, progress.ModeShop, res.Mode)
	assert.Equal(t, []string{"whetstone", "tip-jar"}, camp.RelicIDs(res.RewardOptions), "unknown ids are dropped")
	require.Len(t, res.ShopStock, 2, "empty stock is back-filled from the options")
	assert.True(t, res.ShopStock[0].Draft)
	assert.Equal(t, "whetstone", res.ShopStock[0].RelicID)
	assert.Equal(t, 1, res.SelectionIndex)
}

func TestLenientFields(t *testing.T) {
	f := newFixture(t)
	doc := `{"version":1,"mode":"shop","run":` + string(legacyRun(t, f)) + `,
		"rewardOptionIds":"not-a-list","selectionIndex":-4,"announcement":7,"announcementTimer":-2,
		"shopStock":[{"id":"shop-0-whetstone","kind":"relic","relicId":"whetstone","name":"Whetstone","cost":20},
			{"id":"shop-1-gone","kind":"relic","relicId":"gone","cost":20},
			"garbage"],
		"unknownField":{"a":1}}`

	res, err := Hydrate(Migrate(Parse([]byte(doc))), f.collaborators())
	require.NoError(t, err)
	assert.Empty(t, res.RewardOptions)
	require.Len(t, res.ShopStock, 1)
	assert.Equal(t, "whetstone", res.ShopStock[0].RelicID)
	assert.Equal(t, 0, res.SelectionIndex)
	assert.Empty(t, res.Announcement)
	assert.Zero(t, res.AnnouncementTimer)
}

func TestHydrateRejectsCorruptState(t *testing.T) {
	f := newFixture(t)
	runJSON := string(legacyRun(t, f))

	cases := map[string]string{
		"playing without encounter": `{"mode":"playing","run":` + runJSON + `}`,
		"malformed card": `{"mode":"playing","run":` + runJSON + `,"encounter":{"enemy":{"type":"normal","maxHp":5,"hp":5},` +
			`"phase":"done","playerHand":[{"rank":"Z","suit":"spades"}]}}`,
		"dead player": `{"mode":"shop","run":{"id":"r","maxFloor":3,"roomsPerFloor":5,"player":{"hp":0,"maxHp":60}}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			env := Parse([]byte(doc))
			require.NotNil(t, env)
			_, err := Hydrate(Migrate(env), f.collaborators())
			assert.ErrorIs(t, err, ErrUnresumable)
		})
	}
}

func TestHydrateUsesInjectedSanitizers(t *testing.T) {
	f := newFixture(t)
	called := 0
	col := f.collaborators()
	col.SanitizeRun = func(raw json.RawMessage) (*run.Run, error) {
		called++
		return run.Sanitize(raw, f.reg)
	}
	doc := `{"mode":"shop","run":` + string(legacyRun(t, f)) + `}`
	_, err := Hydrate(Migrate(Parse([]byte(doc))), col)
	require.NoError(t, err)
	assert.Equal(t, 1, called)
}
