package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNewDayCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "newday",
		Short: "Fail every pending quest and roll a fresh batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sess, err := openSession(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			// Opening may already have rolled the day over.
			res := sess.svc.Opened()
			if !res.NewDay {
				if res, err = sess.svc.NewDay(cmd.Context()); err != nil {
					return err
				}
			}
			printDay(out, res)
			for _, q := range res.Quests {
				printQuest(out, q, sess.svc.Challenge(q), false)
			}
			if len(res.Quests) == 0 {
				fmt.Fprintln(out, "No quests for your current ranks.")
			}
			return nil
		},
	}
}

