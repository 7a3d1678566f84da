package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
	"github.com/raphi011/wtm/internal/ui/static"
)

// listEntry is the JSON shape of one worktree in "wtm list --json".
type listEntry struct {
	git.Worktree
	Dirty  bool   `json:"dirty"`
	Ahead  *int   `json:"ahead,omitempty"`
	Behind *int   `json:"behind,omitempty"`
	Note   string `json:"note,omitempty"`
}

func newListCmd() *cobra.Command {
	var (
		jsonOutput bool
		asTree     bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List worktrees",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List the worktrees of the current repository.

Each worktree shows its branch, path, short commit and markers:
* for uncommitted changes, ↑N / ↓N for commits ahead of or behind upstream.
With --tree, recently switched-to worktrees are grouped first.`,
		Example: `  wtm list          # Table of worktrees
  wtm list --tree   # Recent and All Worktrees sections
  wtm list --json   # Machine-readable output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				wts, err := ws.client.ListWorktreesE(ctx)
				if err != nil {
					return err
				}
				if len(wts) == 0 {
					if jsonOutput {
						return out.JSON([]listEntry{})
					}
					log.FromContext(ctx).Println("No worktrees found")
					return nil
				}

				p := ws.provider(ctx)
				p.RefreshStatuses(ctx, wts, nil)
				items := p.ItemsFor(wts)

				if jsonOutput {
					entries := make([]listEntry, len(items))
					for i, it := range items {
						entries[i] = listEntry{Worktree: it.Worktree, Dirty: it.Dirty(), Note: it.Note}
						if it.Sync != nil {
							entries[i].Ahead, entries[i].Behind = &it.Sync.Ahead, &it.Sync.Behind
						}
					}
					return out.JSON(entries)
				}

				if asTree {
					out.Print(static.RenderTree(p.Nodes(items)))
					return nil
				}

				rows := make([][]string, len(items))
				for i, it := range items {
					rows[i] = []string{it.Label(), it.Worktree.Path, it.Worktree.ShortCommit(), it.Markers(), it.Note}
				}
				out.Print(static.RenderTable([]string{"BRANCH", "PATH", "COMMIT", "STATUS", "NOTE"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&asTree, "tree", false, "Group recent worktrees first")
	cmd.MarkFlagsMutuallyExclusive("json", "tree")

	return cmd
}
