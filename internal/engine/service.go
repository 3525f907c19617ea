package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Store persists player state and daily quest batches. Loaders return a nil
// value and a nil error when nothing is stored.
type Store interface {
	LoadPlayer(ctx context.Context, playerID string) (*PlayerState, error)
	SavePlayer(ctx context.Context, playerID string, p *PlayerState) error
	LoadQuests(ctx context.Context, playerID, day string) (*QuestBatch, error)
	LatestQuests(ctx context.Context, playerID string) (*QuestBatch, error)
	SaveQuests(ctx context.Context, playerID string, b QuestBatch) error
}

// AtomicStore is implemented by stores that can write a player and its
// batches in one transaction. Service prefers it when available.
type AtomicStore interface {
	Store
	SaveAll(ctx context.Context, playerID string, p *PlayerState, batches ...QuestBatch) error
}

// Service is the session of one player. Mutating calls are serialized and each
// one is persisted before it returns.
type Service struct {
	mu sync.Mutex

	store    Store
	playerID string
	clock    Clock
	log      *slog.Logger

	player *PlayerState
	quests *QuestManager

	opened DayResult

	// finished batches waiting for the next persist
	closed []QuestBatch
}

// Result is the effect of a quest action.
type Result struct {
	Outcome
	Unlocks Unlocks
}

// DayResult describes a day rollover.
type DayResult struct {
	Day        string
	NewDay     bool
	Failed     []Outcome
	Quests     []Quest
	Inactivity []XPChange
	Unlocks    Unlocks

	// Closed is the finished batch of the previous day, if any.
	Closed []QuestBatch
}

// Open loads or creates the player, catches up on missed days and persists the
// result. When the last stored batch is from an earlier day its pending quests
// are failed and a new batch is generated.
func Open(ctx context.Context, store Store, playerID string, opts ...Option) (*Service, error) {
	st := newSettings(opts)

	p, err := store.LoadPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load player %s: %w", playerID, err)
	}
	now := st.clock.Now()
	if p == nil {
		p = NewPlayerState(now)
		st.logger.Info("new player", "player", playerID)
	}

	s := &Service{
		store:    store,
		playerID: playerID,
		clock:    st.clock,
		log:      st.logger.With("player", playerID),
		player:   p,
		quests:   newQuestManager(p, st),
	}

	batch, err := store.LatestQuests(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load quests: %w", err)
	}
	if batch != nil {
		if err := s.quests.SetBatch(*batch); err != nil {
			return nil, fmt.Errorf("load quests: %w", err)
		}
	}

	res := DayResult{Day: DayKey(now)}
	s.catchUp(now, &res)
	p.LastActive = now
	res.Unlocks = s.check()

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	if res.NewDay {
		s.log.Info("new day", "day", res.Day, "quests", len(res.Quests), "failed", len(res.Failed))
	}
	s.logUnlocks(res.Unlocks)
	s.opened = res
	return s, nil
}

// Opened returns what happened while the session was opened.
func (s *Service) Opened() DayResult { return s.opened }

func (s *Service) PlayerID() string { return s.playerID }

// Player returns a copy of the current player state.
func (s *Service) Player() *PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Clone()
}

// Quests returns a copy of today's quests.
func (s *Service) Quests() []Quest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quests.Quests()
}

func (s *Service) Batch() QuestBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quests.Batch()
}

func (s *Service) Progress() DailyProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quests.DailyProgress()
}

// Challenge grades q against the current level of its stat.
func (s *Service) Challenge(q Quest) Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quests.Challenge(q)
}

// History returns the stored batch of a past day, or nil.
func (s *Service) History(ctx context.Context, day string) (*QuestBatch, error) {
	b, err := s.store.LoadQuests(ctx, s.playerID, day)
	if err != nil {
		return nil, fmt.Errorf("load quests for %s: %w", day, err)
	}
	return b, nil
}

// AchievementReport summarizes the unlocked catalog.
type AchievementReport struct {
	Stats        AchievementStats
	Achievements []Unlocked
	Titles       []Unlocked
	Artifacts    []Unlocked
	Next         []Achievement
}

func (s *Service) Achievements() AchievementReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.player.Clone()
	c := NewAchievementChecker(p, nil, s.clock)
	return AchievementReport{
		Stats:        c.Stats(),
		Achievements: p.Achievements,
		Titles:       p.Titles,
		Artifacts:    p.Artifacts,
		Next:         c.Next(5),
	}
}

// CompleteQuest completes quest id. ok is false when the quest is unknown or
// already resolved; err reports persistence failures.
func (s *Service) CompleteQuest(ctx context.Context, id string) (res Result, ok bool, err error) {
	var bonusCount int
	err = s.mutate(ctx, func() bool {
		res.Outcome, ok = s.quests.CompleteQuest(id)
		if ok {
			res.Unlocks = s.check()
			bonusCount = s.player.DailyBonusCount
		}
		return ok
	})
	if err != nil || !ok {
		return Result{}, ok, err
	}

	q := res.Quest
	s.log.Info("quest completed", "quest", q.Name, "stat", q.Stat, "xp", res.XP, "overreach", res.Overreach)
	s.logChange(res.Change)
	if res.DailyBonus {
		s.log.Info("daily bonus earned", "count", bonusCount)
	}
	s.logUnlocks(res.Unlocks)
	return res, true, nil
}

// FailQuest fails quest id with the same contract as CompleteQuest.
func (s *Service) FailQuest(ctx context.Context, id string) (res Result, ok bool, err error) {
	err = s.mutate(ctx, func() bool {
		res.Outcome, ok = s.quests.FailQuest(id)
		if ok {
			res.Unlocks = s.check()
		}
		return ok
	})
	if err != nil || !ok {
		return Result{}, ok, err
	}

	q := res.Quest
	s.log.Info("quest failed", "quest", q.Name, "stat", q.Stat, "xp", -res.Change.Amount)
	s.logChange(res.Change)
	s.logUnlocks(res.Unlocks)
	return res, true, nil
}

// NewDay fails every pending quest and generates a new batch.
func (s *Service) NewDay(ctx context.Context) (DayResult, error) {
	var res DayResult
	err := s.mutate(ctx, func() bool {
		now := s.clock.Now()
		res.Day = DayKey(now)
		s.rollover(&res)
		s.player.LastActive = now
		res.Unlocks = s.check()
		return true
	})
	if err != nil {
		return DayResult{}, err
	}
	s.log.Info("new day", "day", res.Day, "quests", len(res.Quests), "failed", len(res.Failed))
	for _, o := range res.Failed {
		s.logChange(o.Change)
	}
	s.logUnlocks(res.Unlocks)
	return res, nil
}

// CatchUp reloads the stored state, applies the inactivity penalty when due
// and starts a new day when the batch is from an earlier day. It is meant for
// scheduled resets and does not count as player activity.
func (s *Service) CatchUp(ctx context.Context) (DayResult, error) {
	var res DayResult
	err := s.mutate(ctx, func() bool {
		now := s.clock.Now()
		res.Day = DayKey(now)
		s.catchUp(now, &res)
		if !res.NewDay && len(res.Inactivity) == 0 {
			return false
		}
		res.Unlocks = s.check()
		return true
	})
	if err != nil {
		return DayResult{}, err
	}
	if res.NewDay {
		s.log.Info("new day", "day", res.Day, "quests", len(res.Quests), "failed", len(res.Failed))
	}
	s.logUnlocks(res.Unlocks)
	return res, nil
}

// Export encodes the player and today's batch as a snapshot.
func (s *Service) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.quests.Batch()
	return MarshalSnapshot(NewSnapshot(s.player, &b, s.clock.Now()))
}

// Import replaces the player with a snapshot. The snapshot's batch becomes the
// live batch only when it belongs to today. Nothing changes unless the whole
// document is valid and persisted.
func (s *Service) Import(ctx context.Context, data []byte) (Unlocks, error) {
	snap, err := ParseSnapshot(data)
	if err != nil {
		return Unlocks{}, err
	}

	var unlocks Unlocks
	err = s.mutate(ctx, func() bool {
		s.player = snap.PlayerState
		s.quests.rebind(s.player)
		// A batch of another day would reopen closed history; keep ours.
		if snap.Batch != nil && snap.Batch.Day == DayKey(s.clock.Now()) {
			// Validated by ParseSnapshot.
			_ = s.quests.SetBatch(*snap.Batch)
		}
		unlocks = s.check()
		return true
	})
	if err != nil {
		return Unlocks{}, err
	}
	s.log.Info("snapshot imported", "achievements", len(snap.Achievements))
	s.logUnlocks(unlocks)
	return unlocks, nil
}

// catchUp applies the inactivity penalty and rolls a stale or missing batch
// over to res.Day. The penalty restarts the idle window so it is paid once per
// InactivityThreshold.
func (s *Service) catchUp(now time.Time, res *DayResult) {
	if last := s.player.LastActive; InactivityDue(last, now) {
		res.Inactivity = s.player.ApplyInactivityPenalty()
		s.player.LastActive = now
		s.log.Warn("inactivity penalty applied", "idle", now.Sub(last).Round(time.Hour))
	}
	switch day := s.quests.batch.Day; {
	case day == "":
		res.NewDay = true
		s.player.TotalDays++
		res.Quests = s.quests.GenerateDailyQuests()
	case day < res.Day:
		s.rollover(res)
	}
}

// rollover closes the current batch and starts a new one. A batch generated
// on the same day is replaced rather than kept as history.
func (s *Service) rollover(res *DayResult) {
	res.NewDay = true
	res.Failed = s.quests.failPending()
	if closed := s.quests.Batch(); len(closed.Quests) > 0 && closed.Day != res.Day {
		res.Closed = append(res.Closed, closed)
		s.closed = append(s.closed, closed)
	}
	res.Quests = s.quests.GenerateDailyQuests()
	s.player.TotalDays++
}

// mutate reloads the stored state, runs fn under the lock and persists when it
// reports a change. A failed save restores the previous state.
func (s *Service) mutate(ctx context.Context, fn func() bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(ctx); err != nil {
		return err
	}
	prevPlayer := s.player.Clone()
	prevBatch := s.quests.Batch()

	if !fn() {
		return nil
	}
	if err := s.persist(ctx); err != nil {
		s.player = prevPlayer
		s.quests.rebind(prevPlayer)
		s.quests.batch = prevBatch
		return err
	}
	return nil
}

// reload replaces the in-memory player and batch with the stored ones, so
// writes made by other sessions of the same player are not overwritten.
func (s *Service) reload(ctx context.Context) error {
	p, err := s.store.LoadPlayer(ctx, s.playerID)
	if err != nil {
		return fmt.Errorf("reload player %s: %w", s.playerID, err)
	}
	if p == nil {
		return nil
	}
	b, err := s.store.LatestQuests(ctx, s.playerID)
	if err != nil {
		return fmt.Errorf("reload quests: %w", err)
	}
	if b != nil {
		if err := s.quests.SetBatch(*b); err != nil {
			return fmt.Errorf("reload quests: %w", err)
		}
	}
	s.player = p
	s.quests.rebind(p)
	return nil
}

func (s *Service) persist(ctx context.Context) error {
	batches := append(s.closed, s.quests.Batch())
	s.closed = nil

	if a, ok := s.store.(AtomicStore); ok {
		if err := a.SaveAll(ctx, s.playerID, s.player, batches...); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		return nil
	}
	if err := s.store.SavePlayer(ctx, s.playerID, s.player); err != nil {
		return fmt.Errorf("save player: %w", err)
	}
	for _, b := range batches {
		if err := s.store.SaveQuests(ctx, s.playerID, b); err != nil {
			return fmt.Errorf("save quests %s: %w", b.Day, err)
		}
	}
	return nil
}

func (s *Service) check() Unlocks {
	return NewAchievementChecker(s.player, s.quests, s.clock).Check()
}

func (s *Service) logChange(c XPChange) {
	if c.LevelUp() {
		s.log.Info("level up", "stat", c.Stat, "rank", RankName(c.LevelAfter))
	}
	if c.LevelDown() {
		s.log.Warn("level down", "stat", c.Stat, "rank", RankName(c.LevelAfter))
	}
	if c.CrisisEntered {
		s.log.Warn("crisis mode", "stat", c.Stat)
	}
	if c.CrisisCleared {
		s.log.Info("crisis cleared", "stat", c.Stat)
	}
}

func (s *Service) logUnlocks(u Unlocks) {
	for _, a := range u.Achievements {
		s.log.Info("achievement unlocked", "id", a.ID, "rarity", a.Rarity)
	}
	for _, t := range u.Titles {
		s.log.Info("title unlocked", "id", t.ID)
	}
	for _, a := range u.Artifacts {
		s.log.Info("artifact unlocked", "id", a.ID)
	}
}
