package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
	"github.com/raphi011/wtm/internal/transfer"
	"github.com/raphi011/wtm/internal/ui/prompt"
)

func newTransferCmd() *cobra.Command {
	var (
		all        bool
		noStage    bool
		assumeYes  bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:               "transfer [from] [to]",
		Short:             "Move uncommitted changes between worktrees",
		GroupID:           GroupUtility,
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: completeWorktreePair,
		Long: `Move uncommitted changes from one worktree to another.

Each selected file is copied into the target worktree and discarded in the
source: new files are deleted there, modified files restored from HEAD.
Files that were staged in the source are staged in the target too, unless
--no-stage is given. Deleted files cannot be transferred.

When a file already exists in the target you are asked whether to
overwrite it. --yes overwrites without asking.`,
		Example: `  wtm transfer feature/a feature/b          # Pick files
  wtm transfer feature/a feature/b --all    # Move everything`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			return withWorkspace(ctx, func(ws *workspace) error {
				src, err := resolveDestructive(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				var dstArg string
				if len(args) > 1 {
					dstArg = args[1]
				}
				dst, err := resolveDestructive(ctx, ws, dstArg, func(wt git.Worktree) bool {
					return !git.SamePath(wt.Path, src.Path)
				})
				if err != nil {
					return err
				}
				if git.SamePath(src.Path, dst.Path) {
					return fmt.Errorf("source and target are the same worktree: %s", src.Path)
				}

				changes, err := ws.client.ModifiedFiles(ctx, src.Path)
				if err != nil {
					return err
				}
				candidates := transfer.Candidates(changes)
				if len(candidates) == 0 {
					l.Println("No changes to transfer")
					return nil
				}

				files := candidates
				if !all {
					files, err = pickFiles(candidates)
					if err != nil {
						return err
					}
					if len(files) == 0 {
						l.Println("No files selected")
						return nil
					}
				}

				opts := transfer.Options{AutoStage: !noStage}
				if !assumeYes {
					opts.Overwrite = askOverwrite(ctx)
				}

				res := transfer.Transfer(ctx, ws.client, src.Path, dst.Path, files, opts)
				if jsonOutput {
					return output.FromContext(ctx).JSON(res)
				}
				l.Printf("Transferred %d files from %s to %s", res.Success, src.DisplayBranch(), dst.DisplayBranch())
				if res.Skipped > 0 {
					l.Printf(", %d skipped", res.Skipped)
				}
				if res.Failed > 0 {
					l.Printf(", %d failed", res.Failed)
				}
				l.Println()
				if res.Failed > 0 {
					return fmt.Errorf("%d files could not be transferred", res.Failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Transfer every changed file without asking")
	cmd.Flags().BoolVar(&noStage, "no-stage", false, "Do not stage files in the target")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Overwrite existing files in the target")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")

	return cmd
}

func pickFiles(candidates []git.FileChange) ([]git.FileChange, error) {
	if !prompt.IsInteractive() {
		return nil, fmt.Errorf("file selection requires a terminal (use --all)")
	}
	opts := make([]prompt.Option, len(candidates))
	for i, f := range candidates {
		desc := string(f.Status)
		if f.Staged {
			desc += ", staged"
		}
		opts[i] = prompt.Option{Label: f.Path, Description: desc}
	}
	res, err := prompt.MultiSelect("Select files to transfer", opts)
	if err != nil {
		return nil, err
	}
	if res.Cancelled {
		return nil, errCancelled
	}
	files := make([]git.FileChange, 0, len(res.Indices))
	for _, i := range res.Indices {
		files = append(files, candidates[i])
	}
	return files, nil
}

// askOverwrite asks per existing file. Without a terminal, existing files
// are skipped.
func askOverwrite(ctx context.Context) func(string) transfer.Decision {
	return func(file string) transfer.Decision {
		if !prompt.IsInteractive() {
			log.FromContext(ctx).Warnf("%s exists in the target, skipping (use --yes to overwrite)", file)
			return transfer.No
		}
		res, err := prompt.Choice(fmt.Sprintf("%s already exists in the target. Overwrite?", file), "Yes", "No", "Yes to All")
		if err != nil || res.Cancelled {
			return transfer.No
		}
		switch res.Value {
		case "Yes":
			return transfer.Yes
		case "Yes to All":
			return transfer.YesToAll
		}
		return transfer.No
	}
}
