package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
)

type UnlockRepo struct {
	db Queryer
}

func NewUnlockRepo(db Queryer) *UnlockRepo {
	return &UnlockRepo{db: db}
}

// List returns the unlocks of one kind in unlock order.
func (r *UnlockRepo) List(ctx context.Context, playerID, kind string) ([]engine.Unlocked, error) {
	var rows []unlockRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT player_id, kind, item_id, name, rarity, unlocked_at, position
		FROM unlocks
		WHERE player_id = ? AND kind = ?
		ORDER BY position
	`, playerID, kind); err != nil {
		return nil, fmt.Errorf("unlocks list %s: %w", kind, err)
	}
	out := make([]engine.Unlocked, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toUnlocked())
	}
	return out, nil
}

// Replace stores list as the unlocks of one kind. An import may shrink the
// list, so rows missing from it are removed.
func (r *UnlockRepo) Replace(ctx context.Context, playerID, kind string, list []engine.Unlocked) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM unlocks WHERE player_id = ? AND kind = ?`, playerID, kind); err != nil {
		return fmt.Errorf("unlocks clear %s: %w", kind, err)
	}
	for i, u := range list {
		if _, err := sqlx.NamedExecContext(ctx, r.db, `
			INSERT INTO unlocks (player_id, kind, item_id, name, rarity, unlocked_at, position)
			VALUES (:player_id, :kind, :item_id, :name, :rarity, :unlocked_at, :position)
		`, unlockRow{
			PlayerID:   playerID,
			Kind:       kind,
			ItemID:     u.ID,
			Name:       u.Name,
			Rarity:     string(u.Rarity),
			UnlockedAt: u.UnlockedAt,
			Position:   i,
		}); err != nil {
			return fmt.Errorf("unlock insert %s/%s: %w", kind, u.ID, err)
		}
	}
	return nil
}
