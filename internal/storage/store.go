package storage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
)

// Store is the SQLite implementation of engine.Store.
type Store struct {
	db *sqlx.DB
}

var _ engine.AtomicStore = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) LoadPlayer(ctx context.Context, playerID string) (*engine.PlayerState, error) {
	return NewPlayerRepo(s.db).Get(ctx, playerID)
}

func (s *Store) SavePlayer(ctx context.Context, playerID string, p *engine.PlayerState) error {
	return WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return NewPlayerRepo(tx).Save(ctx, playerID, p)
	})
}

func (s *Store) LoadQuests(ctx context.Context, playerID, day string) (*engine.QuestBatch, error) {
	return NewQuestRepo(s.db).Get(ctx, playerID, day)
}

func (s *Store) LatestQuests(ctx context.Context, playerID string) (*engine.QuestBatch, error) {
	return NewQuestRepo(s.db).Latest(ctx, playerID)
}

func (s *Store) SaveQuests(ctx context.Context, playerID string, b engine.QuestBatch) error {
	return WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return NewQuestRepo(tx).Save(ctx, playerID, b)
	})
}

// SaveAll writes the player and batches in one transaction.
func (s *Store) SaveAll(ctx context.Context, playerID string, p *engine.PlayerState, batches ...engine.QuestBatch) error {
	return WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := NewPlayerRepo(tx).Save(ctx, playerID, p); err != nil {
			return err
		}
		quests := NewQuestRepo(tx)
		for _, b := range batches {
			if err := quests.Save(ctx, playerID, b); err != nil {
				return err
			}
		}
		return nil
	})
}

// Days summarizes the most recent stored days of a player.
func (s *Store) Days(ctx context.Context, playerID string, limit int) ([]DaySummary, error) {
	return NewQuestRepo(s.db).Days(ctx, playerID, limit)
}

// Players lists stored player ids.
func (s *Store) Players(ctx context.Context) ([]string, error) {
	return NewPlayerRepo(s.db).IDs(ctx)
}
