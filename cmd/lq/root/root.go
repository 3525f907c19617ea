package root

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/ui"
)

const Version = "0.2.0"

// globalFlags override the LQ_* environment for one invocation.
type globalFlags struct {
	db     string
	player string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	cmd := &cobra.Command{
		Use:           "lq",
		Short:         "Quest Supremacy IRL: level up your real life",
		Long:          fmt.Sprintf("Quest Supremacy IRL turns daily habits into quests across %d life stats, with ranks, streaks and achievements.", len(engine.AllStats)),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&g.db, "db", "", "database path (default $LQ_DB_PATH or ~/.questsupremacy.db)")
	cmd.PersistentFlags().StringVar(&g.player, "player", "", "player id (default $LQ_PLAYER)")

	cmd.AddCommand(
		newStatusCmd(&g),
		newQuestsCmd(&g),
		newDoCmd(&g),
		newFailCmd(&g),
		newNewDayCmd(&g),
		newAchievementsCmd(&g),
		newExportCmd(&g),
		newImportCmd(&g),
		newPlayersCmd(&g),
		newBoardCmd(&g),
		newWatchCmd(&g),
	)
	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		stop()
		os.Exit(1)
	}
}
