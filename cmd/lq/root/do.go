package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/ui"
)

func questRefArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || strings.TrimSpace(strings.Join(args, " ")) == "" {
		return errors.New("quest id or name is required")
	}
	return nil
}

func newDoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "do <id|name>",
		Aliases: []string{"complete", "done"},
		Short:   "Complete a quest of today",
		Args:    questRefArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolveQuest(cmd, g, strings.Join(args, " "), "complete")
		},
	}
}

func newFailCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fail <id|name>",
		Short: "Give up on a quest of today",
		Args:  questRefArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolveQuest(cmd, g, strings.Join(args, " "), "fail")
		},
	}
}

func resolveQuest(cmd *cobra.Command, g *globalFlags, ref, verb string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sess, err := openSession(ctx, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.Close()
	printDay(out, sess.svc.Opened())

	q, err := sess.svc.FindQuest(ref)
	if err != nil {
		var amb engine.AmbiguousQuestError
		if errors.As(err, &amb) {
			return fmt.Errorf("%w: use one of %s", err, strings.Join(shortIDs(amb.Matches), ", "))
		}
		return err
	}

	var (
		res engine.Result
		ok  bool
	)
	if verb == "complete" {
		res, ok, err = sess.svc.CompleteQuest(ctx, q.ID)
	} else {
		res, ok, err = sess.svc.FailQuest(ctx, q.ID)
	}
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(out, "%s %s is already %s\n", ui.Muted.Render(ui.IconInfo), q.Name, q.Status())
		return nil
	}
	printResult(out, verb, res)
	return nil
}

func shortIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = shortID(id)
	}
	return out
}
