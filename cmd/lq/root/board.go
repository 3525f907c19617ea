package root

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/tui"
)

func newBoardCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive quest board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would corrupt the full screen view.
			sess, err := openSession(cmd.Context(), g, io.Discard)
			if err != nil {
				return err
			}
			defer sess.Close()

			return tui.RunBoard(cmd.Context(), sess.svc, cmd.OutOrStdout())
		},
	}
}
