package storage

import (
	"database/sql"
	"time"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
)

type playerRow struct {
	ID               string       `db:"id"`
	TotalDays        int          `db:"total_days"`
	QuestsCompleted  int          `db:"quests_completed"`
	QuestsFailed     int          `db:"quests_failed"`
	DailyBonusCount  int          `db:"daily_bonus_count"`
	CrisisRecoveries int          `db:"crisis_recoveries"`
	StreakDaily      int          `db:"streak_daily"`
	StreakBest       int          `db:"streak_best"`
	LastQuestDay     string       `db:"last_quest_day"`
	LastActive       sql.NullTime `db:"last_active"`
}

type statRow struct {
	PlayerID            string  `db:"player_id"`
	Stat                string  `db:"stat"`
	Level               int     `db:"level"`
	XP                  float64 `db:"xp"`
	CrisisMode          bool    `db:"crisis_mode"`
	ConsecutiveFailures int     `db:"consecutive_failures"`
}

// Unlock kinds stored in unlocks.kind.
const (
	KindAchievement = "achievement"
	KindTitle       = "title"
	KindArtifact    = "artifact"
)

type unlockRow struct {
	PlayerID   string    `db:"player_id"`
	Kind       string    `db:"kind"`
	ItemID     string    `db:"item_id"`
	Name       string    `db:"name"`
	Rarity     string    `db:"rarity"`
	UnlockedAt time.Time `db:"unlocked_at"`
	Position   int       `db:"position"`
}

type batchRow struct {
	PlayerID     string    `db:"player_id"`
	Day          string    `db:"day"`
	GeneratedAt  time.Time `db:"generated_at"`
	BonusApplied bool      `db:"bonus_applied"`
}

type questRow struct {
	PlayerID    string       `db:"player_id"`
	Day         string       `db:"day"`
	ID          string       `db:"id"`
	Position    int          `db:"position"`
	Stat        string       `db:"stat"`
	Name        string       `db:"name"`
	Description string       `db:"description"`
	Difficulty  int          `db:"difficulty"`
	XPReward    int          `db:"xp_reward"`
	Completed   bool         `db:"completed"`
	Failed      bool         `db:"failed"`
	CreatedAt   time.Time    `db:"created_at"`
	CompletedAt sql.NullTime `db:"completed_at"`
	FailedAt    sql.NullTime `db:"failed_at"`
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func (r questRow) toQuest() engine.Quest {
	return engine.Quest{
		ID:          r.ID,
		Stat:        engine.Stat(r.Stat),
		Name:        r.Name,
		Description: r.Description,
		Difficulty:  r.Difficulty,
		XPReward:    r.XPReward,
		Completed:   r.Completed,
		Failed:      r.Failed,
		CreatedAt:   r.CreatedAt,
		CompletedAt: timePtr(r.CompletedAt),
		FailedAt:    timePtr(r.FailedAt),
	}
}

func newQuestRow(playerID, day string, pos int, q engine.Quest) questRow {
	return questRow{
		PlayerID:    playerID,
		Day:         day,
		ID:          q.ID,
		Position:    pos,
		Stat:        string(q.Stat),
		Name:        q.Name,
		Description: q.Description,
		Difficulty:  q.Difficulty,
		XPReward:    q.XPReward,
		Completed:   q.Completed,
		Failed:      q.Failed,
		CreatedAt:   q.CreatedAt,
		CompletedAt: nullTime(q.CompletedAt),
		FailedAt:    nullTime(q.FailedAt),
	}
}

func (r unlockRow) toUnlocked() engine.Unlocked {
	return engine.Unlocked{ID: r.ItemID, Name: r.Name, Rarity: engine.Rarity(r.Rarity), UnlockedAt: r.UnlockedAt}
}
