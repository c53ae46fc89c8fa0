package run

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/relic"
)

func testRegistry(t *testing.T) *relic.Registry {
	t.Helper()
	reg, err := relic.NewRegistry([]relic.Relic{
		{ID: "whetstone", Effects: relic.Stats{FlatDamage: 2}},
		{ID: "safety-net", MaxStacks: 1, Effects: relic.Stats{BustGuardPerEncounter: 1}},
	})
	require.NoError(t, err)
	return reg
}

func testRules() config.RunRules {
	return config.RunRules{MaxFloor: 3, RoomsPerFloor: 5, StartHP: 60, StartGold: 20, StartRelics: []string{"whetstone", "nope"}}
}

func TestNewRun(t *testing.T) {
	r := New(testRules(), testRegistry(t), time.Unix(100, 0))
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, 1, r.Floor)
	assert.Equal(t, 1, r.Room)
	assert.Equal(t, 60, r.Player.HP)
	assert.Equal(t, 20, r.Player.Gold)
	assert.Equal(t, map[string]int{"whetstone": 1}, r.Player.Relics)
	assert.Equal(t, 2, r.Player.Stats.FlatDamage)
}

func TestAddRelicRespectsStacks(t *testing.T) {
	reg := testRegistry(t)
	r := New(testRules(), reg, time.Now())
	assert.True(t, r.AddRelic(reg, "safety-net"))
	assert.False(t, r.AddRelic(reg, "safety-net"))
	assert.False(t, r.AddRelic(reg, "ghost"))
	assert.Equal(t, 1, r.Player.Stats.BustGuardPerEncounter)
}

func TestLogIsBounded(t *testing.T) {
	r := New(testRules(), testRegistry(t), time.Now())
	for i := 0; i < 10; i++ {
		r.Logf("entry %d", i)
	}
	require.Len(t, r.Log, LogLimit)
	assert.Equal(t, "entry 4", r.Log[0])
	assert.Len(t, r.EventLog, 10)

	r.ClearLog()
	assert.Empty(t, r.Log)
	assert.Len(t, r.EventLog, 10)

	for i := 0; i < EventLogLimit+5; i++ {
		r.Logf("more %d", i)
	}
	assert.Len(t, r.EventLog, EventLogLimit)
	assert.Equal(t, fmt.Sprintf("more %d", EventLogLimit+4), r.EventLog[EventLogLimit-1])
}

func TestSanitizeRepairsDrift(t *testing.T) {
	reg := testRegistry(t)
	r := New(testRules(), reg, time.Now())
	r.Player.HP = 500
	r.Player.Gold = -4
	r.Player.Stats.FlatDamage = 99
	r.Floor = 9
	r.Player.Relics["gone"] = 0
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	got, err := Sanitize(raw, reg)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Player.HP)
	assert.Equal(t, 0, got.Player.Gold)
	assert.Equal(t, 3, got.Floor)
	assert.Equal(t, 2, got.Player.Stats.FlatDamage, "stats are recomputed")
	assert.NotContains(t, got.Player.Relics, "gone")
}

func TestSanitizeRejectsBrokenRuns(t *testing.T) {
	reg := testRegistry(t)
	for name, raw := range map[string]string{
		"empty":     ``,
		"null":      `null`,
		"not json":  `{"floor":`,
		"wrong":     `[1,2]`,
		"no floors": `{"id":"x","maxFloor":0,"roomsPerFloor":5,"player":{"hp":5,"maxHp":10}}`,
		"dead":      `{"id":"x","maxFloor":3,"roomsPerFloor":5,"player":{"hp":0,"maxHp":10}}`,
		"no id":     `{"maxFloor":3,"roomsPerFloor":5,"player":{"hp":3,"maxHp":10}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Sanitize(json.RawMessage(raw), reg)
			assert.ErrorIs(t, err, ErrInvalidRun)
		})
	}
}
