package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/ui"
)

func newQuestsCmd(g *globalFlags) *cobra.Command {
	var (
		day     string
		history int
		verbose bool
	)
	cmd := &cobra.Command{
		Use:     "quests",
		Aliases: []string{"list", "ls"},
		Short:   "List today's quests, a past day or recent history",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if day != "" {
				if _, err := time.Parse("2006-01-02", day); err != nil {
					return fmt.Errorf("--day must be YYYY-MM-DD: %w", err)
				}
			}
			if history < 0 {
				return fmt.Errorf("--history must not be negative")
			}

			sess, err := openSession(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()
			printDay(out, sess.svc.Opened())

			switch {
			case history > 0:
				days, err := sess.store.Days(cmd.Context(), sess.svc.PlayerID(), history)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Quest history"))
				for _, d := range days {
					bonus := ""
					if d.BonusApplied {
						bonus = " " + ui.IconBolt
					}
					fmt.Fprintf(out, "%s %s %s%s\n", d.Day,
						ui.Bar(float64(d.Completed), float64(d.Total), 10),
						ui.Muted.Render(fmt.Sprintf("%d/%d done, %d failed", d.Completed, d.Total, d.Failed)),
						bonus)
				}
				return nil

			case day != "" && day != sess.svc.Batch().Day:
				b, err := sess.svc.History(cmd.Context(), day)
				if err != nil {
					return err
				}
				if b == nil {
					fmt.Fprintln(out, ui.Muted.Render("No quests stored for "+day))
					return nil
				}
				fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quests of "+b.Day))
				for _, q := range b.Quests {
					printQuest(out, q, sess.svc.Challenge(q), verbose)
				}
				return nil
			}

			b := sess.svc.Batch()
			prog := sess.svc.Progress()
			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quests of "+b.Day))
			if len(b.Quests) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No quests for your current ranks."))
				return nil
			}
			for _, q := range b.Quests {
				printQuest(out, q, sess.svc.Challenge(q), verbose)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s %d done, %d failed, %d pending (%.0f%%)\n",
				ui.Muted.Render("Progress:"), prog.Completed, prog.Failed, prog.Pending, prog.CompletionRate)
			if !b.BonusApplied && prog.Completed < engine.DailyBonusQuests {
				fmt.Fprintf(out, "%s %d more for the daily bonus\n", ui.IconBolt, engine.DailyBonusQuests-prog.Completed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "show a stored day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&history, "history", 0, "summarize the last N stored days")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show descriptions and challenge hints")
	return cmd
}
