package root

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/ui"
)

func newStatusCmd(g *globalFlags) *cobra.Command {
	var statFlag string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show ranks, streaks and crisis state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			stats := engine.AllStats
			if statFlag != "" {
				s, err := engine.ParseStat(statFlag)
				if err != nil {
					return err
				}
				stats = []engine.Stat{s}
			}

			sess, err := openSession(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()
			printDay(out, sess.svc.Opened())

			p := sess.svc.Player()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Player Status"))
			if n := len(p.Titles); n > 0 {
				fmt.Fprintln(out, ui.LabelValue("Title", ui.Gold.Render(p.Titles[n-1].Name)))
			}
			fmt.Fprintln(out, ui.LabelValue("Overall", fmt.Sprintf("%.1f (%s)", p.OverallLevel(), engine.RankName(int(p.OverallLevel())))))
			fmt.Fprintln(out, ui.LabelValue("Day", humanize.Ordinal(p.TotalDays)))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d (best %d)", ui.IconFire, p.Streaks.Daily, p.Streaks.Best)))
			fmt.Fprintln(out, ui.LabelValue("Quests", fmt.Sprintf("%s completed, %s failed",
				humanize.Comma(int64(p.QuestsCompleted)), humanize.Comma(int64(p.QuestsFailed)))))
			fmt.Fprintln(out, ui.LabelValue("Daily bonuses", p.DailyBonusCount))
			fmt.Fprintln(out)

			fmt.Fprintln(out, ui.H2.Render("📊 Stats"))
			for _, s := range stats {
				fmt.Fprintln(out, ui.StatLine(s, *p.Stats[s], 20))
			}
			if crisis := p.InCrisis(); len(crisis) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintf(out, "%s %d %s in crisis: complete a quest to recover\n",
					ui.IconWarn, len(crisis), english.PluralWord(len(crisis), "stat", ""))
			}

			prog := sess.svc.Progress()
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s Today: %d/%d done %s\n", ui.IconQuest, prog.Completed, prog.Total,
				ui.Bar(float64(prog.Completed), float64(prog.Total), 10))
			return nil
		},
	}
	cmd.Flags().StringVarP(&statFlag, "stat", "s", "", "show a single stat (name or alias)")
	return cmd
}
