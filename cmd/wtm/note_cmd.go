package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
	"github.com/raphi011/wtm/internal/ui/prompt"
)

func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Short:   "Manage worktree notes",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Attach a short note to a worktree.

Notes are stored as the git branch description, so they follow the branch
and show up in "wtm list" and the sidebar.`,
	}

	cmd.AddCommand(newNoteSetCmd())
	cmd.AddCommand(newNoteGetCmd())
	cmd.AddCommand(newNoteClearCmd())

	return cmd
}

func newNoteSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "set [worktree] [note...]",
		Short:             "Set the note of a worktree",
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: completeWorktreeArg,
		Example: `  wtm note set feature/login "waiting for review"
  wtm note set                   # Pick worktree, then type the note`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				if wt.Branch == "" {
					return errDetachedNote
				}

				var note string
				if len(args) > 1 {
					note = strings.Join(args[1:], " ")
				} else {
					current, _ := ws.client.BranchNote(ctx, wt.Branch)
					note, err = askText("Note for "+wt.Branch, prompt.TextOptions{Initial: current}, "note")
					if err != nil {
						return err
					}
				}

				if err := ws.client.SetBranchNote(ctx, wt.Branch, note); err != nil {
					return err
				}
				if strings.TrimSpace(note) == "" {
					log.FromContext(ctx).Printf("Note cleared for %s\n", wt.Branch)
				} else {
					log.FromContext(ctx).Printf("Note set for %s\n", wt.Branch)
				}
				return nil
			})
		},
	}

	return cmd
}

func newNoteGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "get [worktree]",
		Short:             "Print the note of a worktree",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				if wt.Branch == "" {
					return nil
				}
				note, err := ws.client.BranchNote(ctx, wt.Branch)
				if err != nil {
					return err
				}
				if note != "" {
					output.FromContext(ctx).Println(note)
				}
				return nil
			})
		},
	}

	return cmd
}

func newNoteClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "clear [worktree]",
		Short:             "Remove the note of a worktree",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorktreeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withWorkspace(ctx, func(ws *workspace) error {
				wt, err := resolveWorktree(ctx, ws, firstArg(args), nil)
				if err != nil {
					return err
				}
				if wt.Branch == "" {
					return errDetachedNote
				}
				if err := ws.client.ClearBranchNote(ctx, wt.Branch); err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Note cleared for %s\n", wt.Branch)
				return nil
			})
		},
	}

	return cmd
}
