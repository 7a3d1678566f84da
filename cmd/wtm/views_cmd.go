package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/graph"
	"github.com/raphi011/wtm/internal/health"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
	"github.com/raphi011/wtm/internal/timeline"
	"github.com/raphi011/wtm/internal/tree"
	"github.com/raphi011/wtm/internal/ui/progress"
	"github.com/raphi011/wtm/internal/ui/sidebar"
	"github.com/raphi011/wtm/internal/ui/static"
	"github.com/raphi011/wtm/internal/ui/styles"
	"github.com/raphi011/wtm/internal/watch"
)

func newHealthCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "health",
		Short:   "Score the health of each worktree",
		GroupID: GroupViews,
		Args:    cobra.NoArgs,
		Long: `Score each worktree from 0 to 100.

Points are taken off for uncommitted changes, commits behind upstream and
days without a commit. Worktrees are grouped by score band.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				reports, err := progress.Spin(ctx, "Analyzing worktrees", ws.monitor().AnalyzeAll)
				if err != nil {
					return err
				}
				if jsonOutput {
					return out.JSON(reports)
				}
				out.Print(static.RenderTree(health.Nodes(reports)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newTimelineCmd() *cobra.Command {
	var (
		jsonOutput  bool
		clearEvents bool
	)

	cmd := &cobra.Command{
		Use:     "timeline",
		Short:   "Show recent worktree events",
		GroupID: GroupViews,
		Args:    cobra.NoArgs,
		Long: `Show worktree create, delete and switch events grouped into Today,
Yesterday, This Week, This Month and Older.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				if clearEvents {
					s, err := ws.state(ctx)
					if err != nil {
						return err
					}
					if err := s.ClearEvents(ctx); err != nil {
						return err
					}
					log.FromContext(ctx).Println("Timeline cleared")
					return nil
				}

				tl, err := ws.timeline(ctx)
				if err != nil {
					return err
				}
				sections, err := tl.Sections(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					return out.JSON(sections)
				}
				if len(sections) == 0 {
					log.FromContext(ctx).Println("No events recorded yet")
					return nil
				}
				out.Print(static.RenderTree(timeline.Nodes(sections, time.Now())))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&clearEvents, "clear", false, "Delete all recorded events")
	cmd.MarkFlagsMutuallyExclusive("json", "clear")

	return cmd
}

func newGraphCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "graph",
		Short:   "Show the dependencies declared by each worktree",
		GroupID: GroupViews,
		Args:    cobra.NoArgs,
		Long: `Read the first manifest found in each worktree (package.json, go.mod,
Cargo.toml or pubspec.yaml) and list its dependencies. Worktrees sharing a
runtime dependency are linked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				all, err := progress.Spin(ctx, "Reading manifests", func(ctx context.Context) ([]graph.WorktreeDependencies, error) {
					wts, err := ws.client.ListWorktreesE(ctx)
					if err != nil {
						return nil, err
					}
					return graph.Build(ctx, wts), nil
				})
				if err != nil {
					return err
				}
				if jsonOutput {
					return out.JSON(all)
				}
				if len(all) == 0 {
					log.FromContext(ctx).Println("No dependency manifests found")
					return nil
				}
				out.Print(static.RenderTree(graph.Nodes(all)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ui",
		Short:   "Open the interactive sidebar",
		GroupID: GroupViews,
		Args:    cobra.NoArgs,
		Long: `Open the interactive sidebar with the Worktrees, Health, Timeline and
Graph panels.

The Worktrees panel and the status line refresh when git metadata changes
(auto_refresh). Health is re-analyzed every health.check_interval.
Choosing a worktree with "s" prints its path on exit:

  cd "$(wtm ui)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				// the sidebar owns the terminal while it runs
				silent := log.WithLogger(ctx, log.Silent())
				cfg := sidebarConfig(silent, ws)

				if ws.cfg.AutoRefresh {
					w, err := watch.New(ctx, ws.workDir)
					if err != nil {
						log.FromContext(ctx).Warnf("auto refresh disabled: %v", err)
					} else {
						defer w.Close()
						cfg.Events = w.Events()
					}
				}

				path, err := sidebar.Run(silent, cfg)
				if err != nil {
					return err
				}
				if path == "" {
					return nil
				}
				if wt := ws.client.WorktreeInfo(ctx, path); wt != nil {
					switchTo(ctx, ws, *wt)
				}
				output.FromContext(ctx).Println(path)
				return nil
			})
		},
	}

	return cmd
}

// sidebarConfig wires the four panels to the workspace.
func sidebarConfig(ctx context.Context, ws *workspace) sidebar.Config {
	p := ws.provider(ctx)

	return sidebar.Config{
		Panels: []sidebar.Panel{
			{
				Title:   "Worktrees",
				OnWatch: true,
				Load: func(ctx context.Context) ([]*tree.Node, error) {
					wts, err := ws.client.ListWorktreesE(ctx)
					if err != nil {
						return nil, err
					}
					p.RefreshStatuses(ctx, wts, nil)
					return p.Nodes(p.ItemsFor(wts)), nil
				},
			},
			{
				Title:    "Health",
				Interval: ws.cfg.Health.Interval(),
				Load: func(ctx context.Context) ([]*tree.Node, error) {
					reports, err := ws.monitor().AnalyzeAll(ctx)
					if err != nil {
						return nil, err
					}
					return health.Nodes(reports), nil
				},
			},
			{
				Title:   "Timeline",
				OnWatch: true,
				Load: func(ctx context.Context) ([]*tree.Node, error) {
					tl, err := ws.timeline(ctx)
					if err != nil {
						return nil, err
					}
					sections, err := tl.Sections(ctx)
					if err != nil {
						return nil, err
					}
					return timeline.Nodes(sections, time.Now()), nil
				},
			},
			{
				Title: "Graph",
				Load: func(ctx context.Context) ([]*tree.Node, error) {
					wts, err := ws.client.ListWorktreesE(ctx)
					if err != nil {
						return nil, err
					}
					return graph.Nodes(graph.Build(ctx, wts)), nil
				},
			},
		},
		Status: func(ctx context.Context) string {
			if !ws.cfg.ShowStatus {
				return ""
			}
			return p.StatusBar(ctx, ws.workDir).Text(styles.Symbol)
		},
		Remove: func(ctx context.Context, path string) error {
			wt := ws.client.WorktreeInfo(ctx, path)
			if wt == nil {
				return fmt.Errorf("worktree not found: %s", path)
			}
			if wt.IsMain {
				return git.ErrMainWorktree
			}
			return removeWorktree(ctx, ws, *wt, false)
		},
	}
}
