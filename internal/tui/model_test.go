package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/storage"
)

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time { return c.t }

func openBoard(t *testing.T, clock *stepClock) boardModel {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc, err := engine.Open(ctx, storage.NewStore(db), "hero",
		engine.WithClock(clock), engine.WithRand(engine.NewRand(1)))
	require.NoError(t, err)
	return newBoardModel(ctx, svc)
}

func TestBoardRollsOverAtMidnight(t *testing.T) {
	clock := &stepClock{t: time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)}
	m := openBoard(t, clock)

	next, _ := m.Update(m.loadCmd()())
	m = next.(boardModel)
	require.NotEmpty(t, m.quests)
	firstDay := m.quests[0].ID

	clock.t = clock.t.Add(time.Hour)
	msg := m.loadCmd()().(loadedMsg)
	require.NoError(t, msg.err)
	assert.True(t, msg.day.NewDay)
	assert.Equal(t, "2026-03-03", msg.day.Day)

	next, _ = m.Update(msg)
	m = next.(boardModel)
	assert.Contains(t, m.lastLog, "New day 2026-03-03")
	assert.NotEqual(t, firstDay, m.quests[0].ID)
	assert.Equal(t, 2, m.player.TotalDays)
}

func TestBoardTickSchedulesSync(t *testing.T) {
	m := openBoard(t, &stepClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)})

	_, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)
}

func TestBoardMovesAndCompletes(t *testing.T) {
	m := openBoard(t, &stepClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)})
	next, _ := m.Update(m.loadCmd()())
	m = next.(boardModel)
	require.GreaterOrEqual(t, len(m.quests), 2)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(boardModel)
	assert.Equal(t, 1, m.selected)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.NotNil(t, cmd)
	res := cmd().(actionMsg)
	require.NoError(t, res.err)
	assert.True(t, res.ok)
	assert.True(t, res.res.Quest.Completed)
}
