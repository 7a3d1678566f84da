package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/output"
	"github.com/raphi011/wtm/internal/ui/styles"
)

func newStatusCmd() *cobra.Command {
	var tooltip bool

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Print the current worktree status line",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Print a one-line status for the worktree containing the working
directory, suitable for a shell prompt or tmux status bar.

Nothing is printed outside a worktree root or when show_status is false.`,
		Example: `  PS1='$(wtm status) $ '`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ws, err := openWorkspace(ctx)
			if err != nil {
				// a prompt segment stays silent outside repositories
				return nil
			}
			defer ws.Close()

			if !ws.cfg.ShowStatus {
				return nil
			}
			bar := ws.provider(ctx).StatusBar(ctx, ws.workDir)
			if !bar.Visible {
				return nil
			}
			out := output.FromContext(ctx)
			out.Println(bar.Text(styles.Symbol))
			if tooltip {
				out.Println(bar.Tooltip)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&tooltip, "tooltip", false, "Also print the worktree path line")

	return cmd
}
