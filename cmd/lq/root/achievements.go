package root

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/ui"
)

func newAchievementsCmd(g *globalFlags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"ach"},
		Short:   "Show achievements, titles and artifacts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sess, err := openSession(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()
			printDay(out, sess.svc.Opened())

			r := sess.svc.Achievements()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Achievements"))
			fmt.Fprintln(out, ui.LabelValue("Unlocked", fmt.Sprintf("%d/%d (%.0f%%) %s",
				r.Stats.Unlocked, r.Stats.Total, r.Stats.Completion,
				ui.Bar(float64(r.Stats.Unlocked), float64(r.Stats.Total), 12))))
			fmt.Fprintln(out, ui.LabelValue("Score", r.Stats.Score))
			for _, rar := range engine.Rarities {
				if n := r.Stats.RarityCount[rar]; n > 0 {
					fmt.Fprintf(out, "  %s %d\n", ui.Rarity(rar), n)
				}
			}
			fmt.Fprintln(out)

			printUnlockedList(out, ui.IconTrophy, r.Achievements)
			if len(r.Titles) > 0 {
				fmt.Fprintln(out, ui.H2.Render(ui.IconCrown+" Titles"))
				printUnlockedList(out, ui.IconCrown, r.Titles)
			}
			if len(r.Artifacts) > 0 {
				fmt.Fprintln(out, ui.H2.Render(ui.IconArtifact+" Artifacts"))
				printUnlockedList(out, ui.IconArtifact, r.Artifacts)
			}

			locked := r.Next
			heading := "Next up"
			if all {
				locked = nil
				for _, a := range engine.Achievements() {
					if !containsUnlocked(r.Achievements, a.ID) {
						locked = append(locked, a)
					}
				}
				heading = "Locked"
			}
			if len(locked) > 0 {
				fmt.Fprintln(out, ui.H2.Render("🔒 "+heading))
				for _, a := range locked {
					fmt.Fprintf(out, "- %s %s %s\n", a.Icon, a.Name, ui.Muted.Render(a.Description))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every locked achievement")
	return cmd
}

func printUnlockedList(out io.Writer, icon string, list []engine.Unlocked) {
	for _, u := range list {
		fmt.Fprintf(out, "- %s %s %s %s\n", icon, u.Name, ui.Rarity(u.Rarity), ui.Muted.Render(humanize.Time(u.UnlockedAt)))
	}
}

func containsUnlocked(list []engine.Unlocked, id string) bool {
	for _, u := range list {
		if u.ID == id {
			return true
		}
	}
	return false
}
