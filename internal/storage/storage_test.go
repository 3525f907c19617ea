package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

var day1 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, Migrate(context.Background(), s.DB()))
}

func TestLoadMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.LoadPlayer(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, p)

	b, err := s.LatestQuests(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestPlayerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := engine.NewPlayerState(day1)
	p.Stats[engine.StatStrength] = &engine.StatEntry{Level: 4, XP: 37.5}
	p.Stats[engine.StatNutrition] = &engine.StatEntry{Level: 1, XP: 2, CrisisMode: true, ConsecutiveFailures: 3}
	p.TotalDays = 12
	p.QuestsCompleted = 40
	p.QuestsFailed = 6
	p.DailyBonusCount = 2
	p.CrisisRecoveries = 1
	p.Streaks = engine.Streaks{Daily: 3, Best: 8, LastQuestDay: "2026-03-01"}
	p.Achievements = []engine.Unlocked{
		{ID: "first_level_up", Name: "First Step", Rarity: engine.RarityCommon, UnlockedAt: day1},
		{ID: "crisis_recovery", Name: "Phoenix Reborn", Rarity: engine.RarityUncommon, UnlockedAt: day1.Add(time.Hour)},
	}
	p.Titles = []engine.Unlocked{{ID: "novice", Name: "Novice", Rarity: engine.RarityCommon, UnlockedAt: day1}}

	require.NoError(t, s.SavePlayer(ctx, "hero", p))
	got, err := s.LoadPlayer(ctx, "hero")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, p.Stats, got.Stats)
	assert.Equal(t, p.Streaks, got.Streaks)
	assert.Equal(t, 12, got.TotalDays)
	assert.Equal(t, 40, got.QuestsCompleted)
	assert.Equal(t, 6, got.QuestsFailed)
	assert.Equal(t, 2, got.DailyBonusCount)
	assert.Equal(t, 1, got.CrisisRecoveries)
	assert.True(t, got.LastActive.Equal(day1))
	require.Len(t, got.Achievements, 2)
	assert.Equal(t, "crisis_recovery", got.Achievements[1].ID)
	assert.Equal(t, engine.RarityUncommon, got.Achievements[1].Rarity)
	assert.True(t, got.Achievements[1].UnlockedAt.Equal(day1.Add(time.Hour)))
	assert.Len(t, got.Titles, 1)
	assert.Empty(t, got.Artifacts)

	p.QuestsCompleted = 41
	p.Titles = nil
	require.NoError(t, s.SavePlayer(ctx, "hero", p))
	got, err = s.LoadPlayer(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, 41, got.QuestsCompleted)
	assert.Empty(t, got.Titles)

	ids, err := s.Players(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero"}, ids)
}

func testBatch(day string, at time.Time) engine.QuestBatch {
	done := at.Add(2 * time.Hour)
	return engine.QuestBatch{
		Day:          day,
		GeneratedAt:  at,
		BonusApplied: true,
		Quests: []engine.Quest{
			{ID: "b", Stat: engine.StatSpeed, Name: "Sprint", Description: "Run", Difficulty: 2, XPReward: 4, CreatedAt: at, Completed: true, CompletedAt: &done},
			{ID: "a", Stat: engine.StatSkills, Name: "Practice", Difficulty: 1, XPReward: 3, CreatedAt: at, Failed: true, FailedAt: &done},
			{ID: "c", Stat: engine.StatCharisma, Name: "Call a friend", Difficulty: 1, XPReward: 2, CreatedAt: at},
		},
	}
}

func TestQuestBatchRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SavePlayer(ctx, "hero", engine.NewPlayerState(day1)))

	b1 := testBatch("2026-03-02", day1)
	b2 := testBatch("2026-03-03", day1.Add(24*time.Hour))
	b2.BonusApplied = false
	require.NoError(t, s.SaveQuests(ctx, "hero", b1))
	require.NoError(t, s.SaveQuests(ctx, "hero", b2))

	got, err := s.LoadQuests(ctx, "hero", "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.BonusApplied)
	require.Len(t, got.Quests, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{got.Quests[0].ID, got.Quests[1].ID, got.Quests[2].ID}, "position order")
	assert.Equal(t, engine.StatSpeed, got.Quests[0].Stat)
	assert.True(t, got.Quests[0].Completed)
	require.NotNil(t, got.Quests[0].CompletedAt)
	assert.True(t, got.Quests[0].CompletedAt.Equal(day1.Add(2*time.Hour)))
	assert.True(t, got.Quests[1].Failed)
	assert.Nil(t, got.Quests[2].CompletedAt)
	assert.Nil(t, got.Quests[2].FailedAt)

	latest, err := s.LatestQuests(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", latest.Day)
	assert.False(t, latest.BonusApplied)

	// Saving again rewrites the day's quests.
	b2.Quests = b2.Quests[:1]
	require.NoError(t, s.SaveQuests(ctx, "hero", b2))
	latest, err = s.LatestQuests(ctx, "hero")
	require.NoError(t, err)
	assert.Len(t, latest.Quests, 1)

	days, err := s.Days(ctx, "hero", 10)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, DaySummary{Day: "2026-03-03", Total: 1, Completed: 1}, days[0])
	assert.Equal(t, DaySummary{Day: "2026-03-02", Total: 3, Completed: 1, Failed: 1, BonusApplied: true}, days[1])
}

func TestSaveAllIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := engine.NewPlayerState(day1)
	p.TotalDays = 5

	bad := testBatch("", day1)
	err := s.SaveAll(ctx, "hero", p, testBatch("2026-03-02", day1), bad)
	require.Error(t, err)

	got, err := s.LoadPlayer(ctx, "hero")
	require.NoError(t, err)
	assert.Nil(t, got, "rolled back")

	require.NoError(t, s.SaveAll(ctx, "hero", p, testBatch("2026-03-02", day1)))
	got, err = s.LoadPlayer(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, 5, got.TotalDays)
}

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time { return c.t }

func TestServiceOverSQLite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	clock := &stepClock{t: day1}
	open := func() *engine.Service {
		svc, err := engine.Open(ctx, s, MainPlayerID, engine.WithClock(clock), engine.WithRand(engine.NewRand(1)))
		require.NoError(t, err)
		return svc
	}

	svc := open()
	quests := svc.Quests()
	require.NotEmpty(t, quests)
	_, ok, err := svc.CompleteQuest(ctx, quests[0].ID)
	require.NoError(t, err)
	require.True(t, ok)

	again := open()
	assert.Equal(t, svc.Player().Stats, again.Player().Stats)
	assert.Equal(t, 1, again.Player().QuestsCompleted)
	assert.Equal(t, len(quests), len(again.Quests()))

	clock.t = clock.t.Add(24 * time.Hour)
	next := open()
	assert.Equal(t, 2, next.Player().TotalDays)
	assert.Equal(t, len(quests)-1, next.Player().QuestsFailed)

	prev, err := next.History(ctx, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, prev)
	for _, q := range prev.Quests {
		assert.False(t, q.Pending())
	}
}

func TestTwoSessionsShareOneDatabase(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	clock := &stepClock{t: day1}
	open := func() *engine.Service {
		svc, err := engine.Open(ctx, s, MainPlayerID, engine.WithClock(clock), engine.WithRand(engine.NewRand(1)))
		require.NoError(t, err)
		return svc
	}

	watcher := open()
	total := len(watcher.Quests())
	require.NotZero(t, total)

	player := open()
	done := player.Quests()[0]
	_, ok, err := player.CompleteQuest(ctx, done.ID)
	require.NoError(t, err)
	require.True(t, ok)

	clock.t = clock.t.Add(24 * time.Hour)
	res, err := watcher.CatchUp(ctx)
	require.NoError(t, err)
	assert.True(t, res.NewDay)
	assert.Len(t, res.Failed, total-1)

	reopened := open()
	p := reopened.Player()
	assert.Equal(t, 1, p.QuestsCompleted)
	assert.Equal(t, total-1, p.QuestsFailed)
	assert.False(t, reopened.Opened().NewDay)

	prev, err := reopened.History(ctx, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, prev)
	require.Equal(t, done.ID, prev.Quests[0].ID)
	assert.True(t, prev.Quests[0].Completed)
	assert.False(t, prev.Quests[0].Failed)
}
