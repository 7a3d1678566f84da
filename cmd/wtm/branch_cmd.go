package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/log"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branch",
		Short:   "Switch or create branches inside a worktree",
		GroupID: GroupBranch,
		Args:    cobra.NoArgs,
	}

	cmd.AddCommand(newBranchSwitchCmd())
	cmd.AddCommand(newBranchCreateCmd())

	return cmd
}

func newBranchSwitchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "switch [worktree] [branch]",
		Short:             "Check out another branch in a worktree",
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: completeWorktreeThenBranch,
		Long: `Check out another branch in a worktree.

A local branch is checked out directly. A branch that only exists on the
remote is checked out as a new tracking branch.`,
		Example: `  wtm branch switch feature/login develop
  wtm branch switch                       # Pick worktree and branch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}

				var branch string
				if len(args) > 1 {
					branch = args[1]
				} else {
					branches, err := ws.client.ListBranches(ctx)
					if err != nil {
						return err
					}
					if branch, err = pickString("Select branch", branches, "branch"); err != nil {
						return err
					}
				}

				current, err := ws.client.CurrentBranch(ctx, wt.Path)
				if err != nil {
					return err
				}
				if current == branch {
					l.Println("Already on this branch")
					return nil
				}

				if err := ws.client.SwitchBranch(ctx, wt.Path, branch); err != nil {
					return err
				}
				l.Printf("Switched %s to '%s'\n", wt.Path, branch)
				return nil
			})
		},
	}

	return cmd
}

func newBranchCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "create [worktree] <branch>",
		Short:             "Create and check out a branch in a worktree",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeWorktreeArg,
		Long: `Create a new branch from the worktree's HEAD and check it out there.

With a single argument the worktree is picked interactively.`,
		Example: `  wtm branch create feature/login fix/typo
  wtm branch create fix/typo              # Pick the worktree`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				target, branch := "", args[0]
				if len(args) == 2 {
					target, branch = args[0], args[1]
				}

				wt, err := resolveWorktree(ctx, ws, target, nil)
				if err != nil {
					return err
				}
				if err := ws.client.CreateBranch(ctx, wt.Path, branch); err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Created branch '%s' in %s\n", branch, wt.Path)
				return nil
			})
		},
	}

	return cmd
}

func newMainBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "main-branch [branch]",
		Short:             "Switch the branch of the main worktree",
		GroupID:           GroupBranch,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeBranchArg,
		Long: `Switch the branch checked out in the main worktree.

Refuses when the branch is checked out in another worktree or the main
worktree has uncommitted changes.`,
		Example: `  wtm main-branch develop
  wtm main-branch             # Pick a branch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				branch := firstArg(args)
				if branch == "" {
					branches, err := ws.client.ListLocalBranches(ctx)
					if err != nil {
						return err
					}
					if branch, err = pickString("Select branch for the main worktree", branches, "branch"); err != nil {
						return err
					}
				}

				res := ws.client.SwitchMainWorktreeBranch(ctx, branch)
				if !res.Success {
					return errors.New(res.Message)
				}
				log.FromContext(ctx).Println(res.Message)
				return nil
			})
		},
	}

	return cmd
}
