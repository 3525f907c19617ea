package root

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/config"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/storage"
)

// session bundles an opened player with its store.
type session struct {
	cfg   config.Config
	store *storage.Store
	svc   *engine.Service
	log   *slog.Logger
}

func (s *session) Close() {
	_ = s.store.Close()
}

func loadConfig(g *globalFlags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if g.db != "" {
		cfg.DBPath = g.db
	}
	if g.player != "" {
		cfg.Player = g.player
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg config.Config) (*storage.Store, error) {
	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return storage.NewStore(db), nil
}

// openSession loads the configured player, rolling the day over when needed.
// Log lines go to logOut.
func openSession(ctx context.Context, g *globalFlags, logOut io.Writer) (*session, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger(logOut)
	svc, err := engine.Open(ctx, store, cfg.Player,
		engine.WithCatalog(catalog),
		engine.WithRand(cfg.Rand()),
		engine.WithLogger(log),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open player %s: %w", cfg.Player, err)
	}
	return &session{cfg: cfg, store: store, svc: svc, log: log}, nil
}
