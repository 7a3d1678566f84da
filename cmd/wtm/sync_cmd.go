package main

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "pull [worktree]",
		Short:             "Pull a worktree",
		GroupID:           GroupUtility,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				if err := ws.client.Pull(ctx, wt.Path); err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Pulled %s\n", wt.DisplayBranch())
				return nil
			})
		},
	}

	return cmd
}

func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "push [worktree]",
		Short:             "Push a worktree",
		GroupID:           GroupUtility,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				if err := ws.client.Push(ctx, wt.Path); err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Pushed %s to %s\n", wt.DisplayBranch(), ws.client.RemoteName(wt.Path))
				return nil
			})
		},
	}

	return cmd
}

func newCopyPathCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:               "copy-path [worktree]",
		Short:             "Copy a worktree path to the clipboard",
		GroupID:           GroupUtility,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		Long: `Copy a worktree path to the clipboard.

When no clipboard is available (or with --print) the path is printed
instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				copyOrPrint(cmd, wt.Path, printOnly)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the path instead of copying it")

	return cmd
}

// copyOrPrint puts path on the clipboard, falling back to stdout.
func copyOrPrint(cmd *cobra.Command, path string, printOnly bool) {
	ctx := cmd.Context()
	if !printOnly && !clipboard.Unsupported {
		err := clipboard.WriteAll(path)
		if err == nil {
			log.FromContext(ctx).Printf("Copied %s\n", path)
			return
		}
		log.FromContext(ctx).Debug("clipboard unavailable", "err", err)
	}
	output.FromContext(ctx).Println(path)
}

func newStashCmd() *cobra.Command {
	var (
		message string
		pop     bool
	)

	cmd := &cobra.Command{
		Use:               "stash [worktree]",
		Short:             "Stash the changes of a worktree",
		GroupID:           GroupUtility,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		Example: `  wtm stash feature/login -m "wip: before rebase"
  wtm stash feature/login --pop`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				if pop {
					if err := ws.client.StashPop(ctx, wt.Path); err != nil {
						return err
					}
					l.Printf("Restored stash in %s\n", wt.DisplayBranch())
					return nil
				}
				if err := ws.client.Stash(ctx, wt.Path, message); err != nil {
					return err
				}
				l.Printf("Stashed changes in %s\n", wt.DisplayBranch())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Stash message")
	cmd.Flags().BoolVar(&pop, "pop", false, "Apply and drop the latest stash instead")
	cmd.MarkFlagsMutuallyExclusive("message", "pop")

	return cmd
}
