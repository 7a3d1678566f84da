package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/output"
)

func newOpenCmd() *cobra.Command {
	var terminal bool

	cmd := &cobra.Command{
		Use:               "open [worktree]",
		Short:             "Open a worktree",
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		Long: `Open a worktree.

Prints the worktree path, or with --terminal starts $SHELL inside it.
The worktree is tracked as recent like "wtm switch".`,
		Example: `  wtm open feature/login --terminal
  code "$(wtm open feature/login)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				switchTo(ctx, ws, wt)

				if !terminal {
					output.FromContext(ctx).Println(wt.Path)
					return nil
				}

				shell := os.Getenv("SHELL")
				if shell == "" {
					shell = "/bin/sh"
				}
				c := exec.CommandContext(ctx, shell)
				c.Dir = wt.Path
				c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
				if err := c.Run(); err != nil {
					var exitErr *exec.ExitError
					if errors.As(err, &exitErr) {
						// the shell's own exit status is not ours to report
						return nil
					}
					return fmt.Errorf("start shell: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&terminal, "terminal", "t", false, "Start $SHELL in the worktree")

	return cmd
}
