package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/ui"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	player   *engine.PlayerState
	quests   []engine.Quest
	progress engine.DailyProgress

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	player   *engine.PlayerState
	quests   []engine.Quest
	progress engine.DailyProgress
	day      engine.DayResult
	err      error
}

type tickMsg time.Time

// syncEvery is how often the board checks for a day rollover.
const syncEvery = time.Minute

type actionMsg struct {
	verb string
	res  engine.Result
	ok   bool
	err  error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(syncEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// loadCmd picks up writes from other sessions and rolls the day over when
// midnight passed while the board was open.
func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		day, err := m.svc.CatchUp(m.ctx)
		return loadedMsg{
			player:   m.svc.Player(),
			quests:   m.svc.Quests(),
			progress: m.svc.Progress(),
			day:      day,
			err:      err,
		}
	}
}

func (m boardModel) actionCmd(verb, id string) tea.Cmd {
	return func() tea.Msg {
		var (
			res engine.Result
			ok  bool
			err error
		)
		if verb == "complete" {
			res, ok, err = m.svc.CompleteQuest(m.ctx, id)
		} else {
			res, ok, err = m.svc.FailQuest(m.ctx, id)
		}
		return actionMsg{verb: verb, res: res, ok: ok, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, tea.Batch(m.loadCmd(), tick())
	case loadedMsg:
		m.loading = false
		switch {
		case msg.err != nil:
			m.lastLog = ui.Bad.Render(fmt.Sprintf("sync failed: %v", msg.err))
		case msg.day.NewDay:
			m.lastLog = fmt.Sprintf("%s New day %s: %d failed, %d new quests.",
				ui.IconScroll, msg.day.Day, len(msg.day.Failed), len(msg.day.Quests))
		}
		m.player = msg.player
		m.quests = msg.quests
		m.progress = msg.progress
		m.selected = clamp(m.selected, 0, len(m.quests)-1)
		return m, nil
	case actionMsg:
		switch {
		case msg.err != nil:
			m.lastLog = ui.Bad.Render(fmt.Sprintf("%s failed: %v", msg.verb, msg.err))
			return m, nil
		case !msg.ok:
			m.lastLog = "Quest is no longer pending."
			return m, nil
		}
		m.lastLog = describe(msg.verb, msg.res)
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.quests)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			return m.act("complete")
		case "f":
			return m.act("fail")
		}
	}
	return m, nil
}

func (m boardModel) act(verb string) (tea.Model, tea.Cmd) {
	if m.selected < 0 || m.selected >= len(m.quests) {
		return m, nil
	}
	q := m.quests[m.selected]
	if !q.Pending() {
		m.lastLog = "Already " + q.Status() + "."
		return m, nil
	}
	m.lastLog = fmt.Sprintf("Resolving %s…", q.Name)
	return m, m.actionCmd(verb, q.ID)
}

func describe(verb string, res engine.Result) string {
	var b strings.Builder
	if verb == "complete" {
		fmt.Fprintf(&b, "%s %s: +%.0f XP %s", ui.IconDone, res.Quest.Name, res.XP, res.Quest.Stat.Label())
		if res.Overreach {
			b.WriteString(" (x2)")
		}
	} else {
		fmt.Fprintf(&b, "%s %s: -%.0f XP %s", ui.IconFail, res.Quest.Name, res.Change.Amount, res.Quest.Stat.Label())
	}
	if res.Change.LevelUp() {
		b.WriteString(" " + ui.BadgeLevelUp + " " + ui.Rank(res.Change.LevelAfter))
	}
	if res.Change.LevelDown() {
		b.WriteString(" " + ui.BadgeLevelDown + " " + ui.Rank(res.Change.LevelAfter))
	}
	if res.Change.CrisisEntered {
		b.WriteString(" " + ui.BadgeCrisis)
	}
	if res.DailyBonus {
		b.WriteString(" " + ui.IconBolt + " daily bonus")
	}
	for _, a := range res.Unlocks.Achievements {
		b.WriteString(" " + ui.IconTrophy + " " + a.Name)
	}
	return b.String()
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", m.renderMain())
	return m.renderHeader() + "\n\n" + body + "\n" + m.renderFooter()
}

func (m boardModel) renderHeader() string {
	if m.player == nil {
		return ui.Title.Render("Quest Supremacy") + " loading…"
	}
	p := m.progress
	return fmt.Sprintf("%s | %s | day %d | %d/%d done %s | streak %d %s",
		ui.Title.Render("Quest Supremacy"),
		m.svc.PlayerID(),
		m.player.TotalDays,
		p.Completed, p.Total,
		ui.Bar(float64(p.Completed), float64(p.Total), 20),
		m.player.Streaks.Daily, ui.IconFire,
	)
}

func (m boardModel) renderSidebar() string {
	if m.player == nil {
		return ui.Panel.Render("Stats\n\nLoading…")
	}
	lines := []string{ui.PanelTitle.Render("Stats")}
	for _, s := range engine.AllStats {
		if e, err := m.player.Stat(s); err == nil {
			lines = append(lines, ui.StatLine(s, *e, 10))
		}
	}
	lines = append(lines,
		"",
		ui.PanelTitle.Render("Keys"),
		"↑/↓ or j/k  move",
		"c/space     complete",
		"f           fail",
		"r           refresh",
		"q           quit",
	)
	return ui.Panel.Render(strings.Join(lines, "\n"))
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	out := []string{ui.PanelTitle.Render("Today's Quests")}
	if len(m.quests) == 0 {
		out = append(out, ui.Muted.Render("(no quests)"))
		return ui.Panel.Render(strings.Join(out, "\n"))
	}
	for i, q := range m.quests {
		level := m.player.Level(q.Stat)
		line := fmt.Sprintf("%s %-28s %-18s %3d XP %s",
			ui.StatusIcon(q),
			truncate(q.Name, 28),
			q.Stat.Label(),
			q.XPReward,
			ui.Challenge(engine.ChallengeFor(q.Difficulty, level)),
		)
		if i == m.selected {
			line = ui.SelectedRow.Render("> " + line)
		} else {
			line = "  " + line
		}
		out = append(out, line)
	}
	if m.selected >= 0 && m.selected < len(m.quests) {
		q := m.quests[m.selected]
		out = append(out, "", ui.Muted.Render(q.Description))
	}
	return ui.Panel.Render(strings.Join(out, "\n"))
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

var errNoService = errors.New("tui: nil service")
