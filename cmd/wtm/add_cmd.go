package main

import (
	"context"
	"slices"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/output"
)

func newAddCmd() *cobra.Command {
	var (
		existing  bool
		assumeYes bool
		printPath bool
	)

	cmd := &cobra.Command{
		Use:               "add <branch> [location]",
		Short:             "Create a worktree",
		Aliases:           []string{"a", "new"},
		GroupID:           GroupCore,
		Args:              cobra.RangeArgs(0, 2),
		ValidArgsFunction: completeBranchArg,
		Long: `Create a worktree for a branch.

A new branch is created unless it already exists, in which case you are
asked to confirm using it. Without a location the worktree goes to
default_location/<branch>, or next to the main worktree when that is unset.
Slashes in the branch become dashes in the directory name.

With --existing, pick a branch that is not checked out anywhere.`,
		Example: `  wtm add feature/login                 # ../feature-login
  wtm add feature/login /tmp/login      # Explicit location
  wtm add --existing                    # Pick an unused branch
  cd "$(wtm add fix --print-path)"      # Create and enter`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				var branch, location string
				if len(args) > 0 {
					branch = args[0]
				}
				if len(args) > 1 {
					location = args[1]
				}

				if branch == "" {
					var err error
					if existing {
						branch, err = pickUnusedBranch(ctx, ws)
					} else {
						branch, err = askText("Branch name", branchPrompt(), "branch")
					}
					if err != nil {
						return err
					}
				}

				path, err := createWorktree(ctx, ws, createOptions{
					Branch:    branch,
					Location:  location,
					AssumeYes: assumeYes,
					Existing:  existing,
				})
				if err != nil {
					return err
				}
				if printPath {
					output.FromContext(ctx).Println(path)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&existing, "existing", "e", false, "Use an existing branch that is not checked out")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Use an existing branch without asking")
	cmd.Flags().BoolVarP(&printPath, "print-path", "p", false, "Print the new worktree path to stdout")

	return cmd
}

// pickUnusedBranch offers the local branches not checked out in any worktree.
func pickUnusedBranch(ctx context.Context, ws *workspace) (string, error) {
	branches, err := ws.client.ListLocalBranches(ctx)
	if err != nil {
		return "", err
	}
	wts, err := ws.client.ListWorktreesE(ctx)
	if err != nil {
		return "", err
	}
	var unused []string
	for _, b := range branches {
		if !slices.ContainsFunc(wts, func(wt git.Worktree) bool { return wt.Branch == b }) {
			unused = append(unused, b)
		}
	}
	return pickString("Select branch", unused, "unused branch")
}
