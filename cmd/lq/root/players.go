package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/ui"
)

func newPlayersCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List players stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ids, err := store.Players(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No players yet."))
				return nil
			}
			for _, id := range ids {
				marker := " "
				if id == cfg.Player {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, id)
			}
			return nil
		},
	}
}
