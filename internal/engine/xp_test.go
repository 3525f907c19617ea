package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setStat(p *PlayerState, s Stat, level int, xp float64) {
	p.Stats[s].Level = level
	p.Stats[s].XP = xp
}

func TestAddXPCarriesIntoHigherRanks(t *testing.T) {
	p := NewPlayerState(testStart)
	setStat(p, StatStrength, 0, 80)

	ch, err := p.AddXP(StatStrength, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level(StatStrength))
	assert.InDelta(t, 30, p.Stats[StatStrength].XP, 1e-9)
	assert.True(t, ch.LevelUp())

	_, err = p.AddXP(StatStrength, 250)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Level(StatStrength))
	assert.InDelta(t, 80, p.Stats[StatStrength].XP, 1e-9)
	assert.Equal(t, "C", p.LevelName(StatStrength))
}

func TestAddXPClampsAtCeiling(t *testing.T) {
	p := NewPlayerState(testStart)
	setStat(p, StatSpeed, MaxLevel, 90)

	_, err := p.AddXP(StatSpeed, 50)
	require.NoError(t, err)
	assert.Equal(t, MaxLevel, p.Level(StatSpeed))
	assert.Equal(t, 100.0, p.Stats[StatSpeed].XP)
	assert.Equal(t, "XXX", p.LevelName(StatSpeed))

	_, err = p.AddXP(StatSpeed, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.Stats[StatSpeed].XP)
}

func TestRemoveXPBorrowsAndFloors(t *testing.T) {
	p := NewPlayerState(testStart)
	setStat(p, StatCharisma, 2, 5)

	ch, err := p.RemoveXP(StatCharisma, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level(StatCharisma))
	assert.InDelta(t, 95, p.Stats[StatCharisma].XP, 1e-9)
	assert.True(t, ch.LevelDown())

	setStat(p, StatSkills, 0, 3)
	_, err = p.RemoveXP(StatSkills, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Level(StatSkills))
	assert.Equal(t, 0.0, p.Stats[StatSkills].XP)
}

func TestCrisisModeAndRecovery(t *testing.T) {
	p := NewPlayerState(testStart)
	setStat(p, StatNutrition, 1, 50)

	for i := 0; i < 2; i++ {
		ch, err := p.RemoveXP(StatNutrition, 5)
		require.NoError(t, err)
		assert.False(t, ch.CrisisEntered)
	}
	assert.False(t, p.Stats[StatNutrition].CrisisMode)

	ch, err := p.RemoveXP(StatNutrition, 5)
	require.NoError(t, err)
	assert.True(t, ch.CrisisEntered)
	assert.True(t, p.Stats[StatNutrition].CrisisMode)
	assert.Equal(t, 3, p.Stats[StatNutrition].ConsecutiveFailures)
	assert.InDelta(t, 25, p.Stats[StatNutrition].XP, 1e-9, "third failure pays the crisis penalty too")

	ch, err = p.RemoveXP(StatNutrition, 5)
	require.NoError(t, err)
	assert.False(t, ch.CrisisEntered, "already in crisis")
	assert.InDelta(t, 10, p.Stats[StatNutrition].XP, 1e-9)
	assert.Equal(t, []Stat{StatNutrition}, p.InCrisis())

	ch, err = p.AddXP(StatNutrition, 1)
	require.NoError(t, err)
	assert.True(t, ch.CrisisCleared)
	assert.False(t, p.Stats[StatNutrition].CrisisMode)
	assert.Zero(t, p.Stats[StatNutrition].ConsecutiveFailures)
	assert.Equal(t, 1, p.CrisisRecoveries)

	_, err = p.AddXP(StatNutrition, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CrisisRecoveries)
}

func TestXPOperationsRejectBadInput(t *testing.T) {
	p := NewPlayerState(testStart)

	_, err := p.AddXP("luck", 5)
	assert.ErrorIs(t, err, ErrUnknownStat)
	_, err = p.RemoveXP("luck", 5)
	assert.ErrorIs(t, err, ErrUnknownStat)

	_, err = p.AddXP(StatStrength, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = p.RemoveXP(StatStrength, -3)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Zero(t, p.Stats[StatStrength].ConsecutiveFailures)
}

func TestLadderInvariantsHoldUnderRandomOperations(t *testing.T) {
	p := NewPlayerState(testStart)
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		s := AllStats[rnd.Intn(len(AllStats))]
		amount := float64(rnd.Intn(400)+1) / 2
		var err error
		if rnd.Intn(3) == 0 {
			_, err = p.RemoveXP(s, amount)
		} else {
			_, err = p.AddXP(s, amount)
		}
		require.NoError(t, err)

		e := p.Stats[s]
		require.GreaterOrEqual(t, e.Level, 0)
		require.LessOrEqual(t, e.Level, MaxLevel)
		require.GreaterOrEqual(t, e.XP, 0.0)
		if e.Level < MaxLevel {
			require.Less(t, e.XP, XPPerLevel)
		} else {
			require.LessOrEqual(t, e.XP, XPPerLevel)
		}
	}
}

func TestDailyBonusAndInactivity(t *testing.T) {
	p := NewPlayerState(testStart)
	changes := p.ApplyDailyBonus()
	require.Len(t, changes, len(AllStats))
	for _, s := range AllStats {
		assert.Equal(t, 1.0, p.Stats[s].XP)
	}

	changes = p.ApplyInactivityPenalty()
	require.Len(t, changes, len(AllStats))
	for _, s := range AllStats {
		assert.Zero(t, p.Stats[s].XP)
		assert.Equal(t, 1, p.Stats[s].ConsecutiveFailures)
	}

	assert.False(t, InactivityDue(time.Time{}, testStart))
	assert.False(t, InactivityDue(testStart, testStart.Add(6*24*time.Hour)))
	assert.True(t, InactivityDue(testStart, testStart.Add(7*24*time.Hour)))
}

func TestOverallLevelAndRanks(t *testing.T) {
	p := NewPlayerState(testStart)
	setStat(p, StatStrength, 4, 0)
	setStat(p, StatSpeed, 6, 0)

	assert.InDelta(t, 1.0, p.OverallLevel(), 1e-9)
	assert.Equal(t, 2, p.CountAtLeast(4))
	assert.Equal(t, "F", RankName(0))
	assert.Equal(t, "S", RankName(6))
	assert.Equal(t, "?17", RankName(17))
}

func TestCloneIsDeep(t *testing.T) {
	p := NewPlayerState(testStart)
	c := p.Clone()
	_, err := c.AddXP(StatStrength, 10)
	require.NoError(t, err)
	c.Achievements = append(c.Achievements, Unlocked{ID: "x"})

	assert.Zero(t, p.Stats[StatStrength].XP)
	assert.Empty(t, p.Achievements)
}
