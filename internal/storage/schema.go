package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			total_days INTEGER NOT NULL DEFAULT 0,
			quests_completed INTEGER NOT NULL DEFAULT 0,
			quests_failed INTEGER NOT NULL DEFAULT 0,
			daily_bonus_count INTEGER NOT NULL DEFAULT 0,
			crisis_recoveries INTEGER NOT NULL DEFAULT 0,
			streak_daily INTEGER NOT NULL DEFAULT 0,
			streak_best INTEGER NOT NULL DEFAULT 0,
			last_quest_day TEXT NOT NULL DEFAULT '',
			last_active DATETIME,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS player_stats (
			player_id TEXT NOT NULL,
			stat TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			xp REAL NOT NULL DEFAULT 0,
			crisis_mode INTEGER NOT NULL DEFAULT 0,
			consecutive_failures INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (player_id, stat),
			FOREIGN KEY(player_id) REFERENCES players(id) ON DELETE CASCADE
		);`,
		// Append-only record of achievements, titles and artifacts.
		`CREATE TABLE IF NOT EXISTS unlocks (
			player_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			rarity TEXT NOT NULL DEFAULT '',
			unlocked_at DATETIME NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (player_id, kind, item_id),
			FOREIGN KEY(player_id) REFERENCES players(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS quest_batches (
			player_id TEXT NOT NULL,
			day TEXT NOT NULL,
			generated_at DATETIME NOT NULL,
			bonus_applied INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (player_id, day)
		);`,
		`CREATE TABLE IF NOT EXISTS quests (
			player_id TEXT NOT NULL,
			day TEXT NOT NULL,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			stat TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			difficulty INTEGER NOT NULL,
			xp_reward INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			completed_at DATETIME,
			failed_at DATETIME,
			PRIMARY KEY (player_id, day, id),
			FOREIGN KEY(player_id, day) REFERENCES quest_batches(player_id, day) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_player_day_position ON quests(player_id, day, position);`,
		`CREATE INDEX IF NOT EXISTS idx_unlocks_player_kind_position ON unlocks(player_id, kind, position);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
