package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
	"github.com/raphi011/wtm/internal/timeline"
)

func newSwitchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "switch [worktree]",
		Short:             "Print a worktree path to cd into",
		Aliases:           []string{"cd", "sw"},
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		Long: `Print the path of a worktree so a shell wrapper can cd into it.

The worktree is remembered as recent, a "switched" timeline event is
recorded and the on_switch hook runs.

A shell function makes this seamless:

  wcd() { cd "$(wtm switch "$@")"; }`,
		Example: `  cd "$(wtm switch feature/login)"
  cd "$(wtm switch)"   # Pick from a list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				switchTo(ctx, ws, wt)
				output.FromContext(ctx).Println(wt.Path)
				return nil
			})
		},
	}

	return cmd
}

// switchTo tracks the worktree as recent, records the event and runs
// on_switch.
func switchTo(ctx context.Context, ws *workspace, wt git.Worktree) {
	if s, err := ws.state(ctx); err == nil {
		if err := s.TrackRecent(ctx, wt.Path); err != nil {
			log.FromContext(ctx).Warnf("track recent: %v", err)
		}
	}
	ws.record(ctx, timeline.Switched, wt.Path, wt.Branch)
	ws.hooks().OnSwitch(ctx, wt.Path, wt.Branch)
}
