package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
)

// MainPlayerID is the player used when none is configured.
const MainPlayerID = "main_user"

// Queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type Queryer interface {
	sqlx.ExtContext
}

type PlayerRepo struct {
	db      Queryer
	unlocks *UnlockRepo
}

func NewPlayerRepo(db Queryer) *PlayerRepo {
	return &PlayerRepo{db: db, unlocks: NewUnlockRepo(db)}
}

// Get loads a player with its stats and unlocks. It returns nil when the
// player does not exist.
func (r *PlayerRepo) Get(ctx context.Context, id string) (*engine.PlayerState, error) {
	var row playerRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, total_days, quests_completed, quests_failed, daily_bonus_count,
			crisis_recoveries, streak_daily, streak_best, last_quest_day, last_active
		FROM players
		WHERE id = ?
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("player get: %w", err)
	}

	p := engine.NewPlayerState(row.LastActive.Time)
	p.TotalDays = row.TotalDays
	p.QuestsCompleted = row.QuestsCompleted
	p.QuestsFailed = row.QuestsFailed
	p.DailyBonusCount = row.DailyBonusCount
	p.CrisisRecoveries = row.CrisisRecoveries
	p.Streaks = engine.Streaks{Daily: row.StreakDaily, Best: row.StreakBest, LastQuestDay: row.LastQuestDay}

	var stats []statRow
	if err := sqlx.SelectContext(ctx, r.db, &stats, `
		SELECT player_id, stat, level, xp, crisis_mode, consecutive_failures
		FROM player_stats
		WHERE player_id = ?
	`, id); err != nil {
		return nil, fmt.Errorf("player stats: %w", err)
	}
	for _, s := range stats {
		stat := engine.Stat(s.Stat)
		if !stat.IsValid() {
			return nil, fmt.Errorf("player stats: %w: %q", engine.ErrUnknownStat, s.Stat)
		}
		p.Stats[stat] = &engine.StatEntry{
			Level:               s.Level,
			XP:                  s.XP,
			CrisisMode:          s.CrisisMode,
			ConsecutiveFailures: s.ConsecutiveFailures,
		}
	}

	if p.Achievements, err = r.unlocks.List(ctx, id, KindAchievement); err != nil {
		return nil, err
	}
	if p.Titles, err = r.unlocks.List(ctx, id, KindTitle); err != nil {
		return nil, err
	}
	if p.Artifacts, err = r.unlocks.List(ctx, id, KindArtifact); err != nil {
		return nil, err
	}
	return p, nil
}

// Save upserts the player row and its stats and replaces its unlocks.
func (r *PlayerRepo) Save(ctx context.Context, id string, p *engine.PlayerState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO players (
			id, total_days, quests_completed, quests_failed, daily_bonus_count,
			crisis_recoveries, streak_daily, streak_best, last_quest_day, last_active, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			total_days = excluded.total_days,
			quests_completed = excluded.quests_completed,
			quests_failed = excluded.quests_failed,
			daily_bonus_count = excluded.daily_bonus_count,
			crisis_recoveries = excluded.crisis_recoveries,
			streak_daily = excluded.streak_daily,
			streak_best = excluded.streak_best,
			last_quest_day = excluded.last_quest_day,
			last_active = excluded.last_active,
			updated_at = CURRENT_TIMESTAMP
	`, id, p.TotalDays, p.QuestsCompleted, p.QuestsFailed, p.DailyBonusCount,
		p.CrisisRecoveries, p.Streaks.Daily, p.Streaks.Best, p.Streaks.LastQuestDay, p.LastActive)
	if err != nil {
		return fmt.Errorf("player upsert: %w", err)
	}

	for _, s := range engine.AllStats {
		e, err := p.Stat(s)
		if err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO player_stats (player_id, stat, level, xp, crisis_mode, consecutive_failures)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(player_id, stat) DO UPDATE SET
				level = excluded.level,
				xp = excluded.xp,
				crisis_mode = excluded.crisis_mode,
				consecutive_failures = excluded.consecutive_failures
		`, id, string(s), e.Level, e.XP, boolToInt(e.CrisisMode), e.ConsecutiveFailures); err != nil {
			return fmt.Errorf("player stat %s: %w", s, err)
		}
	}

	if err := r.unlocks.Replace(ctx, id, KindAchievement, p.Achievements); err != nil {
		return err
	}
	if err := r.unlocks.Replace(ctx, id, KindTitle, p.Titles); err != nil {
		return err
	}
	return r.unlocks.Replace(ctx, id, KindArtifact, p.Artifacts)
}

// IDs lists stored player ids.
func (r *PlayerRepo) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := sqlx.SelectContext(ctx, r.db, &ids, `SELECT id FROM players ORDER BY id`); err != nil {
		return nil, fmt.Errorf("player ids: %w", err)
	}
	return ids, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
