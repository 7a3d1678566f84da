package main

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/config"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage wtm configuration.

Global config: ~/.config/wtm/config.toml (or $WTM_CONFIG)
Local config:  .wtm.toml in the main worktree`,
		Example: `  wtm config init          # Create default global config
  wtm config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  wtm config init           # Create global config
  wtm config init -f        # Overwrite existing config
  wtm config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if stdout {
				output.FromContext(ctx).Print(config.DefaultTemplate)
				return nil
			}

			path, err := config.Path()
			if err != nil {
				return err
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show the effective configuration as TOML.

Inside a repository the local .wtm.toml is merged over the global config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			cfg := configFrom(ctx)
			var localPath string
			if ws, err := openWorkspace(ctx); err == nil {
				cfg = ws.cfg
				localPath = filepath.Join(ws.client.Root(), config.LocalConfigFileName)
				ws.Close()
			}

			if jsonOutput {
				return out.JSON(cfg)
			}

			if path, err := config.Path(); err == nil {
				out.Printf("# global: %s\n", path)
			}
			if localPath != "" {
				out.Printf("# local:  %s\n", localPath)
			}
			out.Println()
			if err := toml.NewEncoder(out.Writer()).Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
