package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/timeline"
	"github.com/raphi011/wtm/internal/ui/prompt"
)

func newRemoveCmd() *cobra.Command {
	var (
		force     bool
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:               "remove [worktree]",
		Short:             "Remove a worktree",
		Aliases:           []string{"rm"},
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		Long: `Remove a worktree. The main worktree can never be removed.

With confirm_before_remove set you are asked first, and can choose to
force the removal of a worktree with uncommitted changes. The on_delete
hook runs before the directory is removed.`,
		Example: `  wtm remove feature/login       # Remove by branch
  wtm remove                     # Pick from a list
  wtm remove old-spike --force   # Discard uncommitted changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveDestructive(ctx, ws, firstArg(args), notMain)
				if err != nil {
					return err
				}
				if wt.IsMain {
					return git.ErrMainWorktree
				}

				if ws.cfg.ConfirmBeforeRemove && !assumeYes {
					force, err = askRemove(wt, force)
					if err != nil {
						return err
					}
				}
				return removeWorktree(ctx, ws, wt, force)
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with uncommitted changes")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation")

	return cmd
}

// askRemove offers Remove, Force Remove and Cancel. Returns the chosen
// force flag.
func askRemove(wt git.Worktree, force bool) (bool, error) {
	if !prompt.IsInteractive() {
		return false, fmt.Errorf("remove %s: confirmation required (use --yes)", wt.Path)
	}
	buttons := []string{"Remove", "Force Remove", "Cancel"}
	if force {
		buttons = []string{"Force Remove", "Cancel"}
	}
	res, err := prompt.Choice(fmt.Sprintf("Remove worktree '%s' at %s?", wt.DisplayBranch(), wt.Path), buttons...)
	if err != nil {
		return false, err
	}
	switch res.Value {
	case "Remove":
		return false, nil
	case "Force Remove":
		return true, nil
	}
	return false, errCancelled
}

// removeWorktree runs on_delete, removes the worktree and records the event.
func removeWorktree(ctx context.Context, ws *workspace, wt git.Worktree, force bool) error {
	ws.hooks().OnDelete(ctx, wt.Path, wt.Branch)

	if err := ws.client.RemoveWorktree(ctx, wt.Path, force); err != nil {
		return err
	}
	log.FromContext(ctx).Printf("Removed worktree %s\n", wt.Path)

	ws.record(ctx, timeline.Deleted, wt.Path, wt.Branch)
	if s, err := ws.state(ctx); err == nil {
		if err := s.RemoveRecent(ctx, wt.Path); err != nil {
			log.FromContext(ctx).Debug("remove recent failed", "path", wt.Path, "err", err)
		}
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
