package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/hooks"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
)

func newHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hook",
		Short:   "Inspect and run lifecycle hooks",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Inspect and run the lifecycle hooks configured under [hooks].

Hooks run with "sh -c" inside the worktree. {path}, {branch} and
{worktree} are replaced with shell-quoted values; extra {key}
placeholders come from --arg key=value.`,
	}

	cmd.AddCommand(newHookListCmd())
	cmd.AddCommand(newHookRunCmd())

	return cmd
}

func newHookListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured hooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			cfg := configFrom(ctx)
			if ws, err := openWorkspace(ctx); err == nil {
				cfg = ws.cfg
				ws.Close()
			}
			for _, ev := range hooks.Events {
				command := hooks.Command(cfg.Hooks, ev)
				if command == "" {
					command = "(not set)"
				}
				out.Printf("%-10s %s\n", ev, command)
			}
			return nil
		},
	}

	return cmd
}

func newHookRunCmd() *cobra.Command {
	var (
		env    []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:               "run <event> [worktree]",
		Short:             "Run a lifecycle hook by hand",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeHookArg,
		Example: `  wtm hook run create feature/login
  wtm hook run on_switch -a editor=code
  wtm hook run delete -d              # Print the command only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ev, err := hooks.ParseEvent(args[0])
			if err != nil {
				return err
			}
			extra, err := hooks.ParseEnv(env)
			if err != nil {
				return err
			}

			return withWorkspace(ctx, func(ws *workspace) error {
				command := hooks.Command(ws.cfg.Hooks, ev)
				if command == "" {
					return fmt.Errorf("no %s hook configured", ev)
				}

				var target string
				if len(args) > 1 {
					target = args[1]
				}
				wt, err := resolveWorktree(ctx, ws, target, nil)
				if err != nil {
					return err
				}

				vars := hooks.NewVars(wt.Path, wt.Branch)
				vars.Env = extra

				if dryRun {
					output.FromContext(ctx).Println(hooks.SubstitutePlaceholders(command, vars))
					return nil
				}

				res := hooks.Execute(ctx, command, vars)
				if res.Output != "" {
					output.FromContext(ctx).Print(res.Output)
				}
				if !res.Success {
					return fmt.Errorf("%s hook failed: %s", ev, res.Error)
				}
				log.FromContext(ctx).Debug("hook finished", "event", ev, "path", wt.Path)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&env, "arg", "a", nil, "Set hook variable KEY=VALUE")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print command without executing")
	cmd.RegisterFlagCompletionFunc("arg", cobra.NoFileCompletions)

	return cmd
}
