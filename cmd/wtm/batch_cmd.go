package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/hooks"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
	"github.com/raphi011/wtm/internal/ui/progress"
	"github.com/raphi011/wtm/internal/ui/prompt"
)

// runBatch applies fn to each worktree in order, driving a progress bar.
// Failures are logged and not counted. Returns the number of successes.
func runBatch(ctx context.Context, wts []git.Worktree, title string, fn func(git.Worktree) error) int {
	l := log.FromContext(ctx)
	bar := progress.NewBar(len(wts), title)
	bar.Start()
	defer bar.Stop()

	done := 0
	for i, wt := range wts {
		if ctx.Err() != nil {
			break
		}
		bar.Set(i, wt.DisplayBranch())
		if err := fn(wt); err != nil {
			l.Warnf("%s: %v", wt.DisplayBranch(), err)
			continue
		}
		done++
	}
	bar.Set(len(wts), "")
	return done
}

func newPullAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pull-all",
		Short:   "Pull every worktree",
		GroupID: GroupBatch,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				wts, err := ws.client.ListWorktreesE(ctx)
				if err != nil {
					return err
				}
				done := runBatch(ctx, wts, "Pulling", func(wt git.Worktree) error {
					return ws.client.Pull(ctx, wt.Path)
				})
				log.FromContext(ctx).Printf("Pulled %d/%d worktrees\n", done, len(wts))
				return ctx.Err()
			})
		},
	}

	return cmd
}

func newPushDirtyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "push-dirty",
		Short:   "Push every worktree with uncommitted changes",
		GroupID: GroupBatch,
		Args:    cobra.NoArgs,
		Long: `Push each worktree that has uncommitted changes.

Only committed work is pushed; the uncommitted changes themselves stay
local. The command is a reminder sweep over the worktrees you are
actively editing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				wts, err := ws.client.ListWorktreesE(ctx)
				if err != nil {
					return err
				}

				entries, warnings := ws.client.LoadStatuses(ctx, wts, nil)
				for _, w := range warnings {
					l.Debug("status failed", "path", w.Path, "err", w.Err)
				}
				var dirty []git.Worktree
				for _, e := range entries {
					if e.Status != git.StatusDirty {
						continue
					}
					for _, wt := range wts {
						if wt.Path == e.Path {
							dirty = append(dirty, wt)
						}
					}
				}
				if len(dirty) == 0 {
					l.Println("No dirty worktrees found")
					return nil
				}

				done := runBatch(ctx, dirty, "Pushing", func(wt git.Worktree) error {
					return ws.client.Push(ctx, wt.Path)
				})
				l.Printf("Pushed %d/%d dirty worktrees\n", done, len(dirty))
				return ctx.Err()
			})
		},
	}

	return cmd
}

func newInstallDepsCmd() *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:     "install-deps",
		Short:   "Install dependencies in every worktree",
		GroupID: GroupBatch,
		Args:    cobra.NoArgs,
		Long: `Run install_command (default "npm install") in every worktree.

The command runs through the hook executor, so {path}, {branch} and
{worktree} placeholders are available.`,
		Example: `  wtm install-deps
  wtm install-deps --command "go mod download"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				if command == "" {
					command = ws.cfg.InstallCommand
				}
				wts, err := ws.client.ListWorktreesE(ctx)
				if err != nil {
					return err
				}
				done := runBatch(ctx, wts, "Installing", func(wt git.Worktree) error {
					return installDeps(ctx, command, wt)
				})
				log.FromContext(ctx).Printf("Installed dependencies in %d/%d worktrees\n", done, len(wts))
				return ctx.Err()
			})
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "Override install_command")

	return cmd
}

// installDeps runs command in the worktree through the hook executor.
func installDeps(ctx context.Context, command string, wt git.Worktree) error {
	res := hooks.Execute(ctx, command, hooks.NewVars(wt.Path, wt.Branch))
	if !res.Success {
		return fmt.Errorf("%s", res.Error)
	}
	return nil
}

func newCleanupCmd() *cobra.Command {
	var (
		assumeYes bool
		force     bool
	)

	cmd := &cobra.Command{
		Use:     "cleanup",
		Short:   "Remove worktrees whose branch is merged",
		GroupID: GroupBatch,
		Args:    cobra.NoArgs,
		Long: `Find linked worktrees whose branch is merged into the default branch
and remove the ones you select. --yes removes all of them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				wts, err := ws.client.ListWorktreesE(ctx)
				if err != nil {
					return err
				}

				var merged []git.Worktree
				for _, wt := range wts {
					if wt.IsMain || wt.Branch == "" {
						continue
					}
					ok, err := ws.client.IsMerged(ctx, wt)
					if err != nil {
						l.Debug("merge check failed", "branch", wt.Branch, "err", err)
						continue
					}
					if ok {
						merged = append(merged, wt)
					}
				}
				if len(merged) == 0 {
					l.Println("No merged worktrees found.")
					return nil
				}

				selected := merged
				if !assumeYes {
					if selected, err = pickMerged(ctx, ws, merged); err != nil {
						return err
					}
				}

				removed := 0
				for _, wt := range selected {
					if err := removeWorktree(ctx, ws, wt, force); err != nil {
						l.Warnf("%s: %v", wt.DisplayBranch(), err)
						continue
					}
					removed++
				}
				l.Printf("Removed %d worktrees.\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Remove all merged worktrees without asking")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with uncommitted changes")

	return cmd
}

func pickMerged(ctx context.Context, ws *workspace, merged []git.Worktree) ([]git.Worktree, error) {
	if !prompt.IsInteractive() {
		return nil, fmt.Errorf("selection requires a terminal (use --yes to remove all %d)", len(merged))
	}
	items := ws.provider(ctx).ItemsFor(merged)
	opts := make([]prompt.Option, len(items))
	for i, it := range items {
		opts[i] = prompt.Option{Label: it.Label(), Description: it.Worktree.Path}
	}
	res, err := prompt.MultiSelect("Select worktrees to remove", opts)
	if err != nil {
		return nil, err
	}
	if res.Cancelled {
		return nil, errCancelled
	}
	out := make([]git.Worktree, 0, len(res.Indices))
	for _, i := range res.Indices {
		out = append(out, items[i].Worktree)
	}
	return out, nil
}

// searchResult groups the matches of one worktree for --json.
type searchResult struct {
	Worktree string          `json:"worktree"`
	Branch   string          `json:"branch,omitempty"`
	Matches  []git.GrepMatch `json:"matches"`
}

func newSearchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Search tracked files across all worktrees",
		GroupID: GroupBatch,
		Args:    cobra.MinimumNArgs(1),
		Example: `  wtm search TODO
  wtm search "func main" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			query := strings.Join(args, " ")

			return withWorkspace(ctx, func(ws *workspace) error {
				wts, err := ws.client.ListWorktreesE(ctx)
				if err != nil {
					return err
				}

				results, err := progress.Spin(ctx, "Searching worktrees", func(ctx context.Context) ([]searchResult, error) {
					results := []searchResult{}
					for _, wt := range wts {
						matches, err := ws.client.Grep(ctx, wt.Path, query)
						if err != nil {
							log.FromContext(ctx).Warnf("%s: %v", wt.DisplayBranch(), err)
							continue
						}
						if len(matches) > 0 {
							results = append(results, searchResult{Worktree: wt.Path, Branch: wt.Branch, Matches: matches})
						}
					}
					return results, ctx.Err()
				})
				if err != nil {
					return err
				}

				if jsonOutput {
					return out.JSON(results)
				}
				if len(results) == 0 {
					log.FromContext(ctx).Printf("No matches for %q\n", query)
					return nil
				}
				for _, r := range results {
					name := r.Branch
					if name == "" {
						name = r.Worktree
					}
					out.Printf("--- Search in %s ---\n", name)
					for _, m := range r.Matches {
						out.Printf("%s:%d: %s\n", m.File, m.Line, m.Text)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
