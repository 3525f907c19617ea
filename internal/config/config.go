// Package config reads runtime settings from the environment.
package config

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
)

// Config holds every LQ_* setting.
type Config struct {
	DBPath     string `env:"LQ_DB_PATH"`
	Player     string `env:"LQ_PLAYER" envDefault:"main_user"`
	LogLevel   string `env:"LQ_LOG_LEVEL" envDefault:"info"`
	Seed       int64  `env:"LQ_SEED" envDefault:"0"`
	QuestsFile string `env:"LQ_QUESTS_FILE"`
	ResetCron  string `env:"LQ_RESET_CRON" envDefault:"0 0 * * *"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the environment.
func Load() (Config, error) {
	var c Config
	if err := ParseEnv(&c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Player) == "" {
		return errors.New("config: LQ_PLAYER must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Schedule(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel (debug, info, warn, error).
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: LQ_LOG_LEVEL: %w", err)
	}
	return l, nil
}

// Logger returns a text logger on w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Schedule parses ResetCron as a standard five field expression.
func (c Config) Schedule() (cron.Schedule, error) {
	s, err := cron.ParseStandard(c.ResetCron)
	if err != nil {
		return nil, fmt.Errorf("config: LQ_RESET_CRON %q: %w", c.ResetCron, err)
	}
	return s, nil
}

// Rand returns a source seeded with Seed, or with a random seed when Seed is 0.
func (c Config) Rand() engine.Rand {
	seed := c.Seed
	if seed == 0 {
		var b [8]byte
		if _, err := crand.Read(b[:]); err == nil {
			seed = int64(binary.LittleEndian.Uint64(b[:]))
		}
	}
	return engine.NewRand(seed)
}

// Catalog loads QuestsFile, or the built-in catalog when it is unset.
func (c Config) Catalog() (engine.Catalog, error) {
	if c.QuestsFile == "" {
		return engine.DefaultCatalog(), nil
	}
	return engine.LoadCatalogFile(c.QuestsFile)
}
