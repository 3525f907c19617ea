package engine

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T, store Store, clock *fixedClock, id string) *Service {
	t.Helper()
	svc, err := Open(context.Background(), store, id,
		WithCatalog(testCatalog()),
		WithRand(&scriptedRand{}),
		WithClock(clock),
		WithIDs(seqIDs()),
	)
	require.NoError(t, err)
	return svc
}

func TestOpenCreatesPlayerAndFirstBatch(t *testing.T) {
	store := newMemStore()
	svc := openTest(t, store, newClock(), "hero")

	opened := svc.Opened()
	assert.True(t, opened.NewDay)
	assert.Empty(t, opened.Failed)
	assert.Len(t, opened.Quests, len(AllStats))

	p := svc.Player()
	assert.Equal(t, 1, p.TotalDays)
	assert.Equal(t, testStart, p.LastActive)

	require.Contains(t, store.players, "hero")
	assert.Equal(t, "2026-03-02", store.latest["hero"])
	assert.Len(t, store.batches["hero"]["2026-03-02"].Quests, len(AllStats))
}

func TestOpenSameDayKeepsBatch(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	clock := newClock()
	svc := openTest(t, store, clock, "hero")
	first := svc.Quests()[0]

	_, ok, err := svc.CompleteQuest(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, ok)

	clock.advance(3 * time.Hour)
	again := openTest(t, store, clock, "hero")
	assert.False(t, again.Opened().NewDay)
	assert.Equal(t, 1, again.Player().TotalDays)
	q, ok := questByID(again.Quests(), first.ID)
	require.True(t, ok)
	assert.True(t, q.Completed)
	assert.Equal(t, 1, again.Player().QuestsCompleted)
}

func TestOpenNextDayRollsOver(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	clock := newClock()
	svc := openTest(t, store, clock, "hero")
	_, ok, err := svc.CompleteQuest(ctx, svc.Quests()[0].ID)
	require.NoError(t, err)
	require.True(t, ok)

	clock.advance(24 * time.Hour)
	next := openTest(t, store, clock, "hero")
	opened := next.Opened()
	assert.True(t, opened.NewDay)
	assert.Equal(t, "2026-03-03", opened.Day)
	assert.Len(t, opened.Failed, len(AllStats)-1)
	assert.Empty(t, opened.Inactivity)

	p := next.Player()
	assert.Equal(t, 2, p.TotalDays)
	assert.Equal(t, len(AllStats)-1, p.QuestsFailed)

	prev, err := next.History(ctx, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, prev)
	for _, q := range prev.Quests {
		assert.False(t, q.Pending(), "closed day keeps its failures")
	}
	assert.Equal(t, "2026-03-03", next.Batch().Day)
}

func TestOpenAppliesInactivityPenalty(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	clock := newClock()
	svc := openTest(t, store, clock, "hero")
	_, ok, err := svc.CompleteQuest(ctx, svc.Quests()[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 6.0, svc.Player().Stats[StatStrength].XP)

	clock.advance(8 * 24 * time.Hour)
	later := openTest(t, store, clock, "hero")
	assert.Len(t, later.Opened().Inactivity, len(AllStats))
	p := later.Player()
	assert.Equal(t, 1.0, p.Stats[StatStrength].XP)
	assert.Equal(t, 2, p.TotalDays)
	assert.Equal(t, clock.Now(), p.LastActive)
}

func TestServiceQuestActions(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := openTest(t, store, newClock(), "hero")
	quests := svc.Quests()

	res, ok, err := svc.CompleteQuest(ctx, quests[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6.0, res.XP)
	assert.Equal(t, 1, store.players["hero"].QuestsCompleted)

	_, ok, err = svc.CompleteQuest(ctx, quests[0].ID)
	assert.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = svc.FailQuest(ctx, "nope")
	assert.NoError(t, err)
	assert.False(t, ok)

	res, ok, err = svc.FailQuest(ctx, quests[1].ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3.0, res.XP)
	assert.Equal(t, 1, store.players["hero"].QuestsFailed)

	dp := svc.Progress()
	assert.Equal(t, 1, dp.Completed)
	assert.Equal(t, 1, dp.Failed)
}

func TestSaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := openTest(t, store, newClock(), "hero")
	id := svc.Quests()[0].ID

	store.saveErr = errDiskFull
	_, _, err := svc.CompleteQuest(ctx, id)
	require.ErrorIs(t, err, errDiskFull)

	assert.Zero(t, svc.Player().QuestsCompleted)
	assert.Zero(t, svc.Player().Stats[StatStrength].XP)
	q, _ := questByID(svc.Quests(), id)
	assert.True(t, q.Pending())

	_, err = svc.NewDay(ctx)
	require.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, 1, svc.Player().TotalDays)

	store.saveErr = nil
	_, ok, err := svc.CompleteQuest(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewDayIsManualRollover(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	svc := openTest(t, newMemStore(), clock, "hero")

	clock.advance(2 * time.Hour)
	res, err := svc.NewDay(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Failed, len(AllStats))
	assert.Empty(t, res.Closed, "same day batch is replaced")
	assert.Equal(t, 2, svc.Player().TotalDays)
	for _, q := range svc.Quests() {
		assert.True(t, q.Pending())
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := openTest(t, store, newClock(), "hero")
	before := svc.Player()

	_, err := svc.Import(ctx, []byte(`{"version": 2, "stats": {"luck": {}}}`))
	require.Error(t, err)
	assert.Equal(t, before, svc.Player())

	unlocks, err := svc.Import(ctx, []byte(legacyExport))
	require.NoError(t, err)
	p := svc.Player()
	assert.Equal(t, 2, p.Level(StatStrength))
	assert.Equal(t, 12, p.QuestsCompleted)
	assert.Contains(t, unlockedIDs(unlocks.Achievements), "reach_rank_d")
	assert.Equal(t, 12, store.players["hero"].QuestsCompleted)
	assert.Len(t, svc.Quests(), len(AllStats), "legacy export carries no batch")
}

func TestExportImportAcrossPlayers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	a := openTest(t, store, newClock(), "alice")
	for _, q := range a.Quests()[:3] {
		_, ok, err := a.CompleteQuest(ctx, q.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}
	data, err := a.Export()
	require.NoError(t, err)

	b := openTest(t, store, newClock(), "bob")
	_, err = b.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, a.Player().Stats, b.Player().Stats)
	assert.Equal(t, 3, b.Progress().Completed)
	assert.Equal(t, 3, store.players["bob"].QuestsCompleted)
}

func TestFullDayEarnsBonusAndPerfectDay(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	svc, err := Open(ctx, newMemStore(), "hero",
		WithCatalog(testCatalog()),
		WithRand(&scriptedRand{}),
		WithClock(newClock()),
		WithIDs(seqIDs()),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	require.NoError(t, err)

	var bonus int
	for _, q := range svc.Quests() {
		res, ok, err := svc.CompleteQuest(ctx, q.ID)
		require.NoError(t, err)
		require.True(t, ok)
		if res.DailyBonus {
			bonus++
		}
	}
	assert.Equal(t, 1, bonus)

	p := svc.Player()
	assert.Equal(t, 1, p.DailyBonusCount)
	assert.Equal(t, 1, p.Streaks.Daily)
	assert.True(t, p.HasAchievement("perfect_day"))
	for _, s := range AllStats {
		assert.Equal(t, 7.0, p.Stats[s].XP, s)
	}

	rep := svc.Achievements()
	assert.Equal(t, 1, rep.Stats.Unlocked)
	assert.Len(t, rep.Next, 5)
	assert.Contains(t, logs.String(), "daily bonus earned")
	assert.Contains(t, logs.String(), "achievement unlocked")
}

func TestStreakGrowsAcrossDays(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	clock := newClock()
	for day := 1; day <= 7; day++ {
		svc := openTest(t, store, clock, "hero")
		_, ok, err := svc.CompleteQuest(ctx, svc.Quests()[0].ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, day, svc.Player().Streaks.Daily)
		clock.advance(24 * time.Hour)
	}
	svc := openTest(t, store, clock, "hero")
	p := svc.Player()
	assert.True(t, p.HasAchievement("quest_streak_7"))
	assert.True(t, p.HasAchievement("first_week"))
	assert.True(t, p.HasTitle("dedicated"))
}

func TestConcurrentActionsAreSerialized(t *testing.T) {
	ctx := context.Background()
	svc := openTest(t, newMemStore(), newClock(), "hero")

	var wg sync.WaitGroup
	for _, q := range svc.Quests() {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			_, _, _ = svc.CompleteQuest(ctx, id)
		}(q.ID)
		go func(id string) {
			defer wg.Done()
			_, _, _ = svc.FailQuest(ctx, id)
		}(q.ID)
	}
	wg.Wait()

	p := svc.Player()
	assert.Equal(t, len(AllStats), p.QuestsCompleted+p.QuestsFailed)
	assert.Zero(t, svc.Progress().Pending)
}

func TestStaleSessionDoesNotOverwriteOtherWrites(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	clock := newClock()
	watcher := openTest(t, store, clock, "hero")

	other := openTest(t, store, clock, "hero")
	done := other.Quests()[0]
	_, ok, err := other.CompleteQuest(ctx, done.ID)
	require.NoError(t, err)
	require.True(t, ok)

	clock.advance(24 * time.Hour)
	res, err := watcher.CatchUp(ctx)
	require.NoError(t, err)
	assert.True(t, res.NewDay)
	assert.Len(t, res.Failed, len(AllStats)-1)

	p := watcher.Player()
	assert.Equal(t, 1, p.QuestsCompleted)
	assert.Equal(t, len(AllStats)-1, p.QuestsFailed)

	prev, err := watcher.History(ctx, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, prev)
	q, ok := questByID(prev.Quests, done.ID)
	require.True(t, ok)
	assert.True(t, q.Completed)
	assert.False(t, q.Failed)

	// A manual rollover on the stale session also sees the other write.
	_, ok, err = other.FailQuest(ctx, watcher.Quests()[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = watcher.NewDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2*len(AllStats)-1, watcher.Player().QuestsFailed)
}

func TestCatchUpIsNotActivity(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	clock := newClock()
	svc := openTest(t, store, clock, "hero")

	penalized := 0
	for day := 1; day <= 10; day++ {
		clock.advance(24 * time.Hour)
		res, err := svc.CatchUp(ctx)
		require.NoError(t, err)
		assert.True(t, res.NewDay, "day %d", day)
		if len(res.Inactivity) > 0 {
			penalized++
			assert.Equal(t, 7, day)
			assert.Len(t, res.Inactivity, len(AllStats))
		}
	}
	assert.Equal(t, 1, penalized)
	assert.Equal(t, testStart.Add(7*24*time.Hour), svc.Player().LastActive)
	assert.Equal(t, 11, svc.Player().TotalDays)

	// Nothing to do later the same day.
	clock.advance(time.Hour)
	res, err := svc.CatchUp(ctx)
	require.NoError(t, err)
	assert.False(t, res.NewDay)
	assert.Empty(t, res.Inactivity)
}

func TestImportKeepsTodaysBatchOverAnOldOne(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	clock := newClock()
	svc := openTest(t, store, clock, "hero")
	data, err := svc.Export()
	require.NoError(t, err)

	clock.advance(24 * time.Hour)
	next := openTest(t, store, clock, "hero")
	today := next.Batch()
	require.Equal(t, "2026-03-03", today.Day)

	_, err = next.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, today, next.Batch())

	prev, err := next.History(ctx, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, prev)
	for _, q := range prev.Quests {
		assert.True(t, q.Failed, "closed day stays closed")
	}

	again := openTest(t, store, clock, "hero")
	assert.Equal(t, today.Day, again.Batch().Day)
	assert.False(t, again.Opened().NewDay)
}
