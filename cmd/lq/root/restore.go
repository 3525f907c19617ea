package root

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/ui"
)

func newExportCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the player and today's quests as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			data, err := sess.svc.Export()
			if err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(args[0], append(data, '\n'), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported to %s\n", ui.Good.Render(ui.IconDone), args[0])
			return nil
		},
	}
}

func newImportCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "import <file|->",
		Aliases: []string{"restore"},
		Short:   "Replace the player with an exported snapshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			// Reject bad documents before touching the database.
			if _, err := engine.ParseSnapshot(data); err != nil {
				return describeImportError(err)
			}

			sess, err := openSession(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			unlocks, err := sess.svc.Import(cmd.Context(), data)
			if err != nil {
				return describeImportError(err)
			}
			p := sess.svc.Player()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported player %s: %d achievements, %d quests completed\n",
				ui.Good.Render(ui.IconDone), sess.svc.PlayerID(), len(p.Achievements), p.QuestsCompleted)
			printUnlocks(cmd.OutOrStdout(), unlocks)
			return nil
		},
	}
}

func describeImportError(err error) error {
	var ie *engine.ImportError
	if !errors.As(err, &ie) {
		return err
	}
	if errors.Is(err, engine.ErrUnsupportedVersion) {
		return fmt.Errorf("%w (this build writes version %d)", err, engine.SnapshotVersion)
	}
	return err
}
