package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
)

type QuestRepo struct {
	db Queryer
}

func NewQuestRepo(db Queryer) *QuestRepo {
	return &QuestRepo{db: db}
}

// Get returns the batch of day, or nil.
func (r *QuestRepo) Get(ctx context.Context, playerID, day string) (*engine.QuestBatch, error) {
	var b batchRow
	err := sqlx.GetContext(ctx, r.db, &b, `
		SELECT player_id, day, generated_at, bonus_applied
		FROM quest_batches
		WHERE player_id = ? AND day = ?
	`, playerID, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("batch get: %w", err)
	}
	return r.load(ctx, b)
}

// Latest returns the most recent batch, or nil.
func (r *QuestRepo) Latest(ctx context.Context, playerID string) (*engine.QuestBatch, error) {
	var b batchRow
	err := sqlx.GetContext(ctx, r.db, &b, `
		SELECT player_id, day, generated_at, bonus_applied
		FROM quest_batches
		WHERE player_id = ?
		ORDER BY day DESC
		LIMIT 1
	`, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("batch latest: %w", err)
	}
	return r.load(ctx, b)
}

func (r *QuestRepo) load(ctx context.Context, b batchRow) (*engine.QuestBatch, error) {
	var rows []questRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT player_id, day, id, position, stat, name, description, difficulty, xp_reward,
			completed, failed, created_at, completed_at, failed_at
		FROM quests
		WHERE player_id = ? AND day = ?
		ORDER BY position
	`, b.PlayerID, b.Day); err != nil {
		return nil, fmt.Errorf("quests list: %w", err)
	}

	out := &engine.QuestBatch{
		Day:          b.Day,
		GeneratedAt:  b.GeneratedAt,
		BonusApplied: b.BonusApplied,
		Quests:       make([]engine.Quest, 0, len(rows)),
	}
	for _, row := range rows {
		out.Quests = append(out.Quests, row.toQuest())
	}
	return out, nil
}

// Save upserts the batch header and rewrites its quests.
func (r *QuestRepo) Save(ctx context.Context, playerID string, b engine.QuestBatch) error {
	if b.Day == "" {
		return errors.New("batch save: day is required")
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO quest_batches (player_id, day, generated_at, bonus_applied)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id, day) DO UPDATE SET
			generated_at = excluded.generated_at,
			bonus_applied = excluded.bonus_applied
	`, playerID, b.Day, b.GeneratedAt, boolToInt(b.BonusApplied)); err != nil {
		return fmt.Errorf("batch upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM quests WHERE player_id = ? AND day = ?`, playerID, b.Day); err != nil {
		return fmt.Errorf("quests clear: %w", err)
	}
	for i, q := range b.Quests {
		if _, err := sqlx.NamedExecContext(ctx, r.db, `
			INSERT INTO quests (
				player_id, day, id, position, stat, name, description, difficulty, xp_reward,
				completed, failed, created_at, completed_at, failed_at
			) VALUES (
				:player_id, :day, :id, :position, :stat, :name, :description, :difficulty, :xp_reward,
				:completed, :failed, :created_at, :completed_at, :failed_at
			)
		`, newQuestRow(playerID, b.Day, i, q)); err != nil {
			return fmt.Errorf("quest insert %s: %w", q.ID, err)
		}
	}
	return nil
}

// DaySummary counts the quests of one stored day.
type DaySummary struct {
	Day          string `db:"day"`
	Total        int    `db:"total"`
	Completed    int    `db:"completed"`
	Failed       int    `db:"failed"`
	BonusApplied bool   `db:"bonus_applied"`
}

// Days summarizes the most recent stored days, newest first.
func (r *QuestRepo) Days(ctx context.Context, playerID string, limit int) ([]DaySummary, error) {
	var out []DaySummary
	if err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT b.day AS day,
			COUNT(q.id) AS total,
			COALESCE(SUM(q.completed), 0) AS completed,
			COALESCE(SUM(q.failed), 0) AS failed,
			b.bonus_applied AS bonus_applied
		FROM quest_batches b
		LEFT JOIN quests q ON q.player_id = b.player_id AND q.day = b.day
		WHERE b.player_id = ?
		GROUP BY b.day, b.bonus_applied
		ORDER BY b.day DESC
		LIMIT ?
	`, playerID, limit); err != nil {
		return nil, fmt.Errorf("batch days: %w", err)
	}
	return out, nil
}
