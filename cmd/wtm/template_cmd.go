package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/hooks"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
	"github.com/raphi011/wtm/internal/templates"
	"github.com/raphi011/wtm/internal/ui/prompt"
	"github.com/raphi011/wtm/internal/ui/static"
)

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Short:   "Manage worktree templates",
		Aliases: []string{"tpl"},
		GroupID: GroupTemplates,
		Args:    cobra.NoArgs,
		Long: `Manage worktree templates.

A template turns a short name into a branch and a location. The location
pattern is relative to the main worktree and may contain {branchName},
which is replaced by the name with slashes turned into dashes:

  pattern ../features/{branchName}, prefix feature/, name auth/login
  -> branch feature/auth/login at ../features/auth-login

The built-in templates hotfix, feature, review and prototype cannot be
changed. Custom templates are stored per repository.`,
	}

	cmd.AddCommand(newTemplateListCmd())
	cmd.AddCommand(newTemplateAddCmd())
	cmd.AddCommand(newTemplateEditCmd())
	cmd.AddCommand(newTemplateDeleteCmd())
	cmd.AddCommand(newTemplateApplyCmd())
	cmd.AddCommand(newTemplateExportCmd())
	cmd.AddCommand(newTemplateImportCmd())

	return cmd
}

// withTemplates opens the workspace and its template manager.
func withTemplates(ctx context.Context, fn func(ws *workspace, m *templates.Manager) error) error {
	return withWorkspace(ctx, func(ws *workspace) error {
		m, err := ws.templates(ctx)
		if err != nil {
			return err
		}
		return fn(ws, m)
	})
}

func newTemplateListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List built-in and custom templates",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			return withTemplates(ctx, func(_ *workspace, m *templates.Manager) error {
				all, err := m.List(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					return out.JSON(all)
				}
				rows := make([][]string, len(all))
				for i, t := range all {
					kind := "custom"
					if templates.IsBuiltin(t.ID) {
						kind = "built-in"
					}
					rows[i] = []string{t.ID, t.Name, t.LocationPattern, t.BranchPrefix, kind}
				}
				out.Print(static.RenderTable([]string{"ID", "NAME", "LOCATION", "PREFIX", "TYPE"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// templateFlags holds the fields settable from the command line.
type templateFlags struct {
	name        string
	pattern     string
	prefix      string
	description string
	installDeps bool
	hooks       []string
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Template name")
	cmd.Flags().StringVarP(&f.pattern, "location", "l", "", "Location pattern, e.g. ../features/{branchName}")
	cmd.Flags().StringVarP(&f.prefix, "prefix", "p", "", "Branch prefix, e.g. feature/")
	cmd.Flags().StringVar(&f.description, "description", "", "Short description")
	cmd.Flags().BoolVar(&f.installDeps, "install-deps", false, "Run install_command after creating the worktree")
	cmd.Flags().StringArrayVar(&f.hooks, "run", nil, "Command to run in the new worktree (repeatable)")
}

func (f *templateFlags) anyChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"name", "location", "prefix", "description", "install-deps", "run"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func newTemplateAddCmd() *cobra.Command {
	var f templateFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a custom template",
		Args:  cobra.NoArgs,
		Long: `Create a custom template. Missing name and location are asked for
interactively.`,
		Example: `  wtm template add -n Spike -l "../spikes/{branchName}" -p spike/
  wtm template add -n Web -l "../web/{branchName}" --install-deps --run "make dev-certs"
  wtm template add                           # Prompt for each field`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withTemplates(ctx, func(_ *workspace, m *templates.Manager) error {
				t := templates.Template{
					Name:            f.name,
					Description:     f.description,
					LocationPattern: f.pattern,
					BranchPrefix:    f.prefix,
					AutoInstallDeps: f.installDeps,
					RunHooks:        f.hooks,
				}
				if err := askTemplateFields(&t, !cmd.Flags().Changed("prefix")); err != nil {
					return err
				}
				saved, err := m.Save(ctx, t)
				if err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Template %q created (%s)\n", saved.Name, saved.ID)
				return nil
			})
		},
	}

	f.register(cmd)

	return cmd
}

// askTemplateFields prompts for the name and location pattern when they are
// empty, and for the branch prefix when askPrefix is set and a terminal is
// available.
func askTemplateFields(t *templates.Template, askPrefix bool) error {
	var err error
	if strings.TrimSpace(t.Name) == "" {
		if t.Name, err = askText("Template name", prompt.TextOptions{Placeholder: "My Custom Template", Validate: notEmpty("name")}, "name"); err != nil {
			return err
		}
	}
	if strings.TrimSpace(t.LocationPattern) == "" {
		opts := prompt.TextOptions{Initial: "../" + templates.Placeholder, Validate: notEmpty("location pattern")}
		if t.LocationPattern, err = askText("Location pattern (use {branchName} as placeholder)", opts, "location"); err != nil {
			return err
		}
	}
	if askPrefix && t.BranchPrefix == "" && prompt.IsInteractive() {
		if t.BranchPrefix, err = askText("Branch prefix (optional)", prompt.TextOptions{Placeholder: "feature/"}, "prefix"); err != nil {
			return err
		}
	}
	return nil
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func newTemplateEditCmd() *cobra.Command {
	var f templateFlags

	cmd := &cobra.Command{
		Use:               "edit [id]",
		Short:             "Edit a custom template",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeTemplateArg,
		Long: `Edit a custom template. Flags replace single fields; without flags the
location pattern, name and prefix are asked for, prefilled with the current
values.`,
		Example: `  wtm template edit custom-1a2b3c4d -l "../spikes/{branchName}"
  wtm template edit                     # Pick a template and edit interactively`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withTemplates(ctx, func(_ *workspace, m *templates.Manager) error {
				t, err := resolveCustomTemplate(ctx, m, firstArg(args), "Select template to edit")
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if !f.anyChanged(cmd) {
					if err := editTemplateInteractive(&t); err != nil {
						return err
					}
				}
				if flags.Changed("name") {
					t.Name = f.name
				}
				if flags.Changed("location") {
					t.LocationPattern = f.pattern
				}
				if flags.Changed("prefix") {
					t.BranchPrefix = f.prefix
				}
				if flags.Changed("description") {
					t.Description = f.description
				}
				if flags.Changed("install-deps") {
					t.AutoInstallDeps = f.installDeps
				}
				if flags.Changed("run") {
					t.RunHooks = f.hooks
				}

				if _, err := m.Save(ctx, t); err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Template %q updated\n", t.Name)
				return nil
			})
		},
	}

	f.register(cmd)

	return cmd
}

func editTemplateInteractive(t *templates.Template) error {
	var err error
	if t.LocationPattern, err = askText("Location pattern", prompt.TextOptions{Initial: t.LocationPattern, Validate: notEmpty("location pattern")}, "location"); err != nil {
		return err
	}
	if t.Name, err = askText("Template name", prompt.TextOptions{Initial: t.Name, Validate: notEmpty("name")}, "name"); err != nil {
		return err
	}
	t.BranchPrefix, err = askText("Branch prefix (optional)", prompt.TextOptions{Initial: t.BranchPrefix}, "prefix")
	return err
}

// resolveCustomTemplate looks up id, or picks among the custom templates.
func resolveCustomTemplate(ctx context.Context, m *templates.Manager, id, title string) (templates.Template, error) {
	if id != "" {
		if templates.IsBuiltin(id) {
			return templates.Template{}, fmt.Errorf("template %q: %w", id, templates.ErrBuiltin)
		}
		return m.Get(ctx, id)
	}

	custom, err := m.Custom(ctx)
	if err != nil {
		return templates.Template{}, err
	}
	if len(custom) == 0 {
		return templates.Template{}, errors.New("no custom templates found")
	}
	if !prompt.IsInteractive() {
		return templates.Template{}, errors.New("template id required (stdin is not a terminal)")
	}
	opts := make([]prompt.Option, len(custom))
	for i, t := range custom {
		opts[i] = prompt.Option{Label: t.Name, Description: t.LocationPattern}
	}
	res, err := prompt.Select(title, opts)
	if err != nil {
		return templates.Template{}, err
	}
	if res.Cancelled {
		return templates.Template{}, errCancelled
	}
	return custom[res.Index], nil
}

func newTemplateDeleteCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:               "delete [id]",
		Short:             "Delete a custom template",
		Aliases:           []string{"rm"},
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeTemplateArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withTemplates(ctx, func(_ *workspace, m *templates.Manager) error {
				return deleteTemplate(ctx, m, firstArg(args), assumeYes)
			})
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func deleteTemplate(ctx context.Context, m *templates.Manager, id string, assumeYes bool) error {
	t, err := resolveCustomTemplate(ctx, m, id, "Select template to delete")
	if err != nil {
		return err
	}
	ok, err := confirm(fmt.Sprintf("Delete template %q?", t.Name), assumeYes)
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	if err := m.Delete(ctx, t.ID); err != nil {
		return err
	}
	log.FromContext(ctx).Printf("Template %q deleted\n", t.Name)
	return nil
}

func newTemplateApplyCmd() *cobra.Command {
	var (
		copyPath  bool
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:               "apply <id> [name]",
		Short:             "Create a worktree from a template",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeTemplateArg,
		Example: `  wtm template apply feature auth/login   # feature/auth/login at ../features/auth-login
  cd "$(wtm template apply hotfix crash)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withTemplates(ctx, func(ws *workspace, m *templates.Manager) error {
				t, err := m.Get(ctx, args[0])
				if err != nil {
					return err
				}
				var name string
				if len(args) > 1 {
					name = args[1]
				}
				path, err := applyTemplate(ctx, ws, t, name, assumeYes)
				if err != nil {
					return err
				}
				copyOrPrint(cmd, path, !copyPath)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&copyPath, "copy", "c", false, "Copy the new path to the clipboard instead of printing it")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Use an existing branch without asking")

	return cmd
}

// applyTemplate creates the worktree described by t for name, then installs
// dependencies and runs the template's commands. Returns the worktree path.
func applyTemplate(ctx context.Context, ws *workspace, t templates.Template, name string, assumeYes bool) (string, error) {
	l := log.FromContext(ctx)

	if name == "" {
		var err error
		opts := prompt.TextOptions{Placeholder: "my-feature", Validate: func(s string) error {
			return git.ValidateBranchName(t.BranchPrefix + s)
		}}
		if name, err = askText("Branch name for "+t.Name, opts, "name"); err != nil {
			return "", err
		}
	}

	applied := templates.Apply(t, name)
	path, err := createWorktree(ctx, ws, createOptions{
		Branch:           applied.Branch,
		TemplateLocation: applied.Location,
		AssumeYes:        assumeYes,
	})
	if err != nil {
		return "", err
	}
	wt := git.Worktree{Path: path, Branch: applied.Branch}

	if t.AutoInstallDeps {
		l.Printf("Installing dependencies (%s)\n", ws.cfg.InstallCommand)
		if err := installDeps(ctx, ws.cfg.InstallCommand, wt); err != nil {
			l.Warnf("install dependencies: %v", err)
		}
	}
	for _, command := range t.RunHooks {
		res := hooks.Execute(ctx, command, hooks.NewVars(path, applied.Branch))
		if !res.Success {
			l.Warnf("%s: %s", command, res.Error)
		}
	}
	return path, nil
}

func newTemplateExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write custom templates to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withTemplates(ctx, func(_ *workspace, m *templates.Manager) error {
				n, err := m.Export(ctx, args[0])
				if err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Exported %d templates to %s\n", n, args[0])
				return nil
			})
		},
	}

	return cmd
}

func newTemplateImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Read custom templates from a JSON file",
		Long: `Read custom templates from a JSON file written by "wtm template export".

Templates with the ID of an existing custom template replace it. Entries
using a built-in ID or missing a name or location are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withTemplates(ctx, func(_ *workspace, m *templates.Manager) error {
				n, err := m.Import(ctx, args[0])
				if err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Imported %d templates from %s\n", n, args[0])
				return nil
			})
		},
	}

	return cmd
}
