package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
)

// Shared CLI and TUI styles.

const (
	IconQuest    = "🗺️"
	IconSparkle  = "✨"
	IconDone     = "✅"
	IconFail     = "❌"
	IconPending  = "⏳"
	IconTrophy   = "🏆"
	IconBolt     = "⚡"
	IconInfo     = "ℹ️"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconFire     = "🔥"
	IconCrown    = "👑"
	IconArtifact = "🔮"
	IconScroll   = "📜"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
	cPurple  = lipgloss.Color("135")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp   = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
	BadgeLevelDown = lipgloss.NewStyle().Bold(true).Foreground(cBad).Render("LEVEL DOWN")
	BadgeCrisis    = lipgloss.NewStyle().Bold(true).Foreground(cBad).Render("CRISIS")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// StatusText colors a quest status.
func StatusText(q engine.Quest) string {
	switch q.Status() {
	case "completed":
		return Good.Render("done")
	case "failed":
		return Bad.Render("failed")
	default:
		return Warn.Render("pending")
	}
}

func StatusIcon(q engine.Quest) string {
	switch {
	case q.Completed:
		return IconDone
	case q.Failed:
		return IconFail
	default:
		return IconPending
	}
}

// Rank renders a ladder label, brighter for higher ranks.
func Rank(level int) string {
	name := engine.RankName(level)
	switch {
	case level >= 9:
		return lipgloss.NewStyle().Bold(true).Foreground(cAccent).Render(name)
	case level >= 6:
		return Gold.Render(name)
	case level >= 3:
		return H2.Render(name)
	default:
		return Muted.Render(name)
	}
}

func Rarity(r engine.Rarity) string {
	s := string(r)
	switch r {
	case engine.RarityLegendary:
		return Gold.Render(s)
	case engine.RarityEpic:
		return lipgloss.NewStyle().Bold(true).Foreground(cPurple).Render(s)
	case engine.RarityRare:
		return H2.Render(s)
	case engine.RarityUncommon:
		return Good.Render(s)
	default:
		return Muted.Render(s)
	}
}

// Challenge renders a quest grade.
func Challenge(c engine.Challenge) string {
	switch c {
	case engine.ChallengeEpic:
		return Gold.Render("epic x2")
	case engine.ChallengeAbove:
		return Warn.Render("x2")
	case engine.ChallengeMatched:
		return Good.Render("fit")
	default:
		return Muted.Render("easy")
	}
}

// Bar draws a width cell progress bar for value out of total.
func Bar(value, total float64, width int) string {
	if width <= 0 {
		return ""
	}
	ratio := 0.0
	if total > 0 {
		ratio = min(max(value/total, 0), 1)
	}
	filled := int(ratio*float64(width) + 0.5)
	return Good.Render(strings.Repeat("█", filled)) + Dim.Render(strings.Repeat("░", width-filled))
}

// StatLine renders one stat: label, rank, xp bar and crisis marker.
func StatLine(s engine.Stat, e engine.StatEntry, barWidth int) string {
	line := fmt.Sprintf("%-18s %s %s %5.1f",
		s.Label(),
		lipgloss.NewStyle().Width(3).Render(Rank(e.Level)),
		Bar(e.XP, engine.XPPerLevel, barWidth),
		e.XP,
	)
	if e.CrisisMode {
		line += " " + BadgeCrisis
	}
	return line
}
