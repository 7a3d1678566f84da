package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/log"
)

func newPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prune",
		Short:   "Prune stale worktree entries",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Remove administrative entries for worktrees whose directories no
longer exist (git worktree prune).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				if err := ws.client.PruneWorktrees(ctx); err != nil {
					return err
				}
				log.FromContext(ctx).Println("Pruned stale worktree entries")
				return nil
			})
		},
	}

	return cmd
}
