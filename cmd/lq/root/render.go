package root

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/ui"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatXP(v float64) string {
	return humanize.FtoaWithDigits(v, 1)
}

func printQuest(w io.Writer, q engine.Quest, c engine.Challenge, verbose bool) {
	fmt.Fprintf(w, "%s %s %-4s %s %s %s\n",
		ui.StatusIcon(q),
		ui.Muted.Render(shortID(q.ID)),
		strings.ToUpper(string(q.Stat))[:min(3, len(q.Stat))],
		q.Name,
		ui.Muted.Render(fmt.Sprintf("d%d · %d xp", q.Difficulty, q.XPReward)),
		ui.Challenge(c),
	)
	if verbose {
		if q.Description != "" {
			fmt.Fprintf(w, "    %s\n", ui.Muted.Render(q.Description))
		}
		if q.Pending() {
			fmt.Fprintf(w, "    %s\n", ui.Muted.Render(c.Describe()))
		}
	}
}

func printChange(w io.Writer, c engine.XPChange) {
	if c.LevelUp() {
		fmt.Fprintf(w, "  %s %s reached rank %s\n", ui.BadgeLevelUp, c.Stat.Label(), ui.Rank(c.LevelAfter))
	}
	if c.LevelDown() {
		fmt.Fprintf(w, "  %s %s dropped to rank %s\n", ui.BadgeLevelDown, c.Stat.Label(), ui.Rank(c.LevelAfter))
	}
	if c.CrisisEntered {
		fmt.Fprintf(w, "  %s %s failed %d times in a row, failures now cost %s extra XP\n",
			ui.BadgeCrisis, c.Stat.Label(), engine.CrisisThreshold, formatXP(engine.CrisisPenalty))
	}
	if c.CrisisCleared {
		fmt.Fprintf(w, "  %s %s recovered from crisis\n", ui.Good.Render(ui.IconSparkle), c.Stat.Label())
	}
}

func printUnlocks(w io.Writer, u engine.Unlocks) {
	for _, a := range u.Achievements {
		fmt.Fprintf(w, "%s Achievement unlocked: %s %s\n", ui.IconTrophy, ui.Gold.Render(a.Name), ui.Rarity(a.Rarity))
	}
	for _, t := range u.Titles {
		fmt.Fprintf(w, "%s New title: %s\n", ui.IconCrown, ui.Gold.Render(t.Name))
	}
	for _, a := range u.Artifacts {
		fmt.Fprintf(w, "%s New artifact: %s\n", ui.IconArtifact, ui.Gold.Render(a.Name))
	}
}

func printResult(w io.Writer, verb string, res engine.Result) {
	q := res.Quest
	switch verb {
	case "complete":
		line := fmt.Sprintf("%s %s +%s XP %s", ui.Good.Render(ui.IconDone+" Completed"), q.Name, formatXP(res.Change.Amount), q.Stat.Label())
		if res.Overreach {
			line += " " + ui.Warn.Render("(x2 overreach)")
		}
		fmt.Fprintln(w, line)
	default:
		fmt.Fprintf(w, "%s %s -%s XP %s\n", ui.Bad.Render(ui.IconFail+" Failed"), q.Name, formatXP(res.Change.Amount), q.Stat.Label())
	}
	printChange(w, res.Change)
	if res.StreakExtended {
		fmt.Fprintf(w, "%s Streak extended\n", ui.IconFire)
	}
	if res.DailyBonus {
		fmt.Fprintf(w, "%s Daily bonus: +%s XP to every stat\n", ui.IconBolt, formatXP(engine.DailyBonusXP))
		for _, c := range res.BonusChanges {
			printChange(w, c)
		}
	}
	printUnlocks(w, res.Unlocks)
}

// printDay reports a rollover. Nothing is printed when no new day started.
func printDay(w io.Writer, res engine.DayResult) {
	if len(res.Inactivity) > 0 {
		fmt.Fprintf(w, "%s Inactive for over a week: -%s XP on every stat\n", ui.IconWarn, formatXP(engine.InactivityPenalty))
		for _, c := range res.Inactivity {
			printChange(w, c)
		}
	}
	if !res.NewDay {
		printUnlocks(w, res.Unlocks)
		return
	}
	fmt.Fprintln(w, ui.Heading(ui.IconScroll, "New day "+res.Day))
	if len(res.Failed) > 0 {
		fmt.Fprintf(w, "%s %d unfinished %s failed\n", ui.IconFail, len(res.Failed), pluralQuests(len(res.Failed)))
		for _, o := range res.Failed {
			fmt.Fprintf(w, "  - %s -%s XP %s\n", o.Quest.Name, formatXP(o.Change.Amount), o.Quest.Stat.Label())
			printChange(w, o.Change)
		}
	}
	fmt.Fprintf(w, "%s %d new %s\n", ui.IconQuest, len(res.Quests), pluralQuests(len(res.Quests)))
	printUnlocks(w, res.Unlocks)
	fmt.Fprintln(w)
}

func pluralQuests(n int) string {
	return english.PluralWord(n, "quest", "")
}
