package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/templates"
	"github.com/raphi011/wtm/internal/ui/prompt"
	"github.com/raphi011/wtm/internal/ui/styles"
)

const manageTemplates = "Manage Templates"

func newQuickCmd() *cobra.Command {
	var copyPath bool

	cmd := &cobra.Command{
		Use:     "quick",
		Short:   "Create a worktree from a template picker",
		GroupID: GroupTemplates,
		Args:    cobra.NoArgs,
		Long: `Pick a template, type a branch name and get a worktree.

The last entry, "Manage Templates", creates, edits or deletes custom
templates instead.`,
		Example: `  cd "$(wtm quick)"
  wtm quick --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withTemplates(ctx, func(ws *workspace, m *templates.Manager) error {
				all, err := m.List(ctx)
				if err != nil {
					return err
				}

				opts := make([]prompt.Option, 0, len(all)+1)
				for _, t := range all {
					opts = append(opts, prompt.Option{Label: styles.Symbol(styles.IconAdd) + " " + t.Name, Description: t.Description})
				}
				opts = append(opts, prompt.Option{Label: styles.Symbol(styles.IconInfo) + " " + manageTemplates, Description: "Create, edit, or delete templates"})

				if !prompt.IsInteractive() {
					return errNotInteractive("quick")
				}
				res, err := prompt.Select("Select a quick action", opts)
				if err != nil {
					return err
				}
				if res.Cancelled {
					return nil
				}
				if res.Index == len(all) {
					return manage(ctx, m)
				}

				path, err := applyTemplate(ctx, ws, all[res.Index], "", false)
				if err != nil {
					return err
				}
				copyOrPrint(cmd, path, !copyPath)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&copyPath, "copy", "c", false, "Copy the new path to the clipboard instead of printing it")

	return cmd
}

// manage offers create, edit and delete for custom templates.
func manage(ctx context.Context, m *templates.Manager) error {
	res, err := prompt.Select("Select an action", prompt.Options("Create New Template", "Edit Template", "Delete Template"))
	if err != nil || res.Cancelled {
		return err
	}

	l := log.FromContext(ctx)
	switch res.Index {
	case 0:
		var t templates.Template
		if err := askTemplateFields(&t, true); err != nil {
			return err
		}
		saved, err := m.Save(ctx, t)
		if err != nil {
			return err
		}
		l.Printf("Template %q created\n", saved.Name)
	case 1:
		t, err := resolveCustomTemplate(ctx, m, "", "Select template to edit")
		if err != nil {
			return err
		}
		if err := editTemplateInteractive(&t); err != nil {
			return err
		}
		if _, err := m.Save(ctx, t); err != nil {
			return err
		}
		l.Println("Template updated")
	case 2:
		return deleteTemplate(ctx, m, "", false)
	}
	return nil
}
