package root

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/ui"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stay running and start a new day on the LQ_RESET_CRON schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			sess, err := openSession(ctx, g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()
			printDay(out, sess.svc.Opened())

			sched, err := sess.cfg.Schedule()
			if err != nil {
				return err
			}
			c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
			c.Schedule(sched, cron.FuncJob(func() {
				res, err := sess.svc.CatchUp(ctx)
				if err != nil {
					sess.log.Error("scheduled reset", "err", err)
					return
				}
				printDay(out, res)
				fmt.Fprintf(out, "%s next reset %s\n", ui.Muted.Render(ui.IconPending), humanize.Time(sched.Next(time.Now())))
			}))
			c.Start()
			fmt.Fprintf(out, "%s Watching %s, next reset %s (ctrl+c to stop)\n",
				ui.IconPending, sess.svc.PlayerID(), humanize.Time(sched.Next(time.Now())))

			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		},
	}
}
