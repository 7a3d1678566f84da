package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
	"github.com/raphi011/wtm/internal/settings"
	"github.com/raphi011/wtm/internal/ui/static"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Short:   "Keep editor settings in sync across worktrees",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Keep editor settings files consistent across worktrees.

The files are listed in settings_files and are relative to each worktree
root (default: .vscode/settings.json, launch.json and tasks.json).`,
	}

	cmd.AddCommand(newSettingsSyncCmd())
	cmd.AddCommand(newSettingsCompareCmd())
	cmd.AddCommand(newSettingsWatchCmd())

	return cmd
}

// otherWorktrees returns the paths of all worktrees except source.
func otherWorktrees(ctx context.Context, ws *workspace, source string) ([]string, error) {
	wts, err := ws.client.ListWorktreesE(ctx)
	if err != nil {
		return nil, err
	}
	var targets []string
	for _, wt := range wts {
		if !git.SamePath(wt.Path, source) {
			targets = append(targets, wt.Path)
		}
	}
	return targets, nil
}

func newSettingsSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "sync [source]",
		Short:             "Copy settings from one worktree to all others",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		Example: `  wtm settings sync main
  wtm settings sync            # Pick the source worktree`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				src, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				targets, err := otherWorktrees(ctx, ws, src.Path)
				if err != nil {
					return err
				}
				if len(targets) == 0 {
					l.Println("No other worktrees to sync to")
					return nil
				}

				res := settings.New(ws.cfg.SettingsFiles).Sync(src.Path, targets, func(dst string) {
					l.Debug("synced", "file", dst)
				})
				l.Printf("Synced %d files from %s to %d worktrees\n", res.Synced, src.DisplayBranch(), len(targets))
				if res.Failed > 0 {
					return fmt.Errorf("%d copies failed", res.Failed)
				}
				return nil
			})
		},
	}

	return cmd
}

func newSettingsCompareCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:               "compare <a> <b>",
		Short:             "Compare settings files between two worktrees",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeWorktreePair,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				a, err := resolveWorktree(ctx, ws, args[0], nil)
				if err != nil {
					return err
				}
				b, err := resolveWorktree(ctx, ws, args[1], nil)
				if err != nil {
					return err
				}

				diffs, err := settings.New(ws.cfg.SettingsFiles).Compare(a.Path, b.Path)
				if err != nil {
					return err
				}
				if jsonOutput {
					return out.JSON(diffs)
				}
				if len(diffs) == 0 {
					log.FromContext(ctx).Println("No settings files in either worktree")
					return nil
				}

				rows := make([][]string, len(diffs))
				for i, d := range diffs {
					state := "same"
					if d.Different {
						state = "different"
					}
					rows[i] = []string{d.File, state}
				}
				out.Print(static.RenderTable([]string{"FILE", "STATE"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newSettingsWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "watch [source]",
		Short:             "Sync settings whenever they change in a worktree",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		Long: `Watch the settings files of a worktree and copy them to every other
worktree whenever they change. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				src, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				syncer := settings.New(ws.cfg.SettingsFiles)

				l.Printf("Watching settings in %s (Ctrl+C to stop)\n", src.Path)
				err = syncer.Watch(ctx, src.Path, func(file string) {
					targets, err := otherWorktrees(ctx, ws, src.Path)
					if err != nil {
						l.Warnf("list worktrees: %v", err)
						return
					}
					res := syncer.Sync(src.Path, targets, nil)
					l.Printf("%s changed, synced %d files\n", file, res.Synced)
				})
				if err != nil && ctx.Err() == nil {
					return err
				}
				return nil
			})
		},
	}

	return cmd
}
