package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/config"
	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
	"github.com/raphi011/wtm/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	chdir   string
)

// Command group IDs for organizing help output
const (
	GroupCore      = "core"
	GroupBranch    = "branch"
	GroupBatch     = "batch"
	GroupViews     = "views"
	GroupTemplates = "templates"
	GroupUtility   = "utility"
	GroupConfig    = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wtm",
		Short: "Git worktree manager",
		Long: `wtm lists, creates, removes and switches between the worktrees of a
git repository.

On top of that it tracks worktree health, a timeline of worktree events and
the dependencies each worktree declares. "wtm ui" shows all of it in an
interactive sidebar.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}

			ctx := cmd.Context()
			ctx = log.WithLogger(ctx, log.New(os.Stderr, verbose, quiet))
			if chdir != "" {
				abs, err := filepath.Abs(chdir)
				if err != nil {
					return fmt.Errorf("resolve -C: %w", err)
				}
				ctx = config.WithWorkDir(ctx, abs)
			}
			cmd.SetContext(ctx)

			// Skip git check for completion and help commands
			switch cmd.Name() {
			case "completion", "__complete", "help", "version":
				return nil
			}
			return git.CheckGit()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	cmd.PersistentFlags().StringVarP(&chdir, "directory", "C", "", "Run as if started in `dir`")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupBranch, Title: "Branch Commands:"},
		&cobra.Group{ID: GroupBatch, Title: "Batch Commands:"},
		&cobra.Group{ID: GroupViews, Title: "View Commands:"},
		&cobra.Group{ID: GroupTemplates, Title: "Template Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newSwitchCmd())
	cmd.AddCommand(newPruneCmd())
	cmd.AddCommand(newOpenCmd())

	// Branch commands
	cmd.AddCommand(newBranchCmd())
	cmd.AddCommand(newMainBranchCmd())

	// Batch commands
	cmd.AddCommand(newPullAllCmd())
	cmd.AddCommand(newPushDirtyCmd())
	cmd.AddCommand(newInstallDepsCmd())
	cmd.AddCommand(newCleanupCmd())
	cmd.AddCommand(newSearchCmd())

	// View commands
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newTimelineCmd())
	cmd.AddCommand(newGraphCmd())
	cmd.AddCommand(newUICmd())

	// Template commands
	cmd.AddCommand(newTemplateCmd())
	cmd.AddCommand(newQuickCmd())

	// Utility commands
	cmd.AddCommand(newPullCmd())
	cmd.AddCommand(newPushCmd())
	cmd.AddCommand(newCopyPathCmd())
	cmd.AddCommand(newNoteCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newTransferCmd())
	cmd.AddCommand(newStashCmd())
	cmd.AddCommand(newSettingsCmd())
	cmd.AddCommand(newHookCmd())

	// Config commands
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	styles.Init(loadedCfg.Theme)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithConfig(ctx, &loadedCfg)
	ctx = output.WithPrinter(ctx, os.Stdout)
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'wtm -h' for help")
		os.Exit(1)
	}
}
