package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/config"
	"github.com/raphi011/wtm/internal/hooks"
)

// completionWorkspace opens the workspace for shell completion. Persistent
// pre-run hooks don't run for __complete, so -C is applied here.
func completionWorkspace(cmd *cobra.Command) (context.Context, *workspace, bool) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if chdir != "" {
		if abs, err := filepath.Abs(chdir); err == nil {
			ctx = config.WithWorkDir(ctx, abs)
		}
	}
	ws, err := openWorkspace(ctx)
	if err != nil {
		return ctx, nil, false
	}
	return ctx, ws, true
}

func filterPrefix(values []string, prefix string) []string {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			matches = append(matches, v)
		}
	}
	return matches
}

// completeWorktreeArg completes worktree branch names for the first argument.
func completeWorktreeArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return worktreeNames(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeWorktreePair completes a worktree for each of two arguments.
func completeWorktreePair(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return worktreeNames(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func worktreeNames(cmd *cobra.Command, toComplete string) []string {
	ctx, ws, ok := completionWorkspace(cmd)
	if !ok {
		return nil
	}
	defer ws.Close()

	var names []string
	for _, wt := range ws.client.ListWorktrees(ctx) {
		if wt.Branch != "" {
			names = append(names, wt.Branch)
		} else {
			names = append(names, filepath.Base(wt.Path))
		}
	}
	return filterPrefix(names, toComplete)
}

func branchNames(cmd *cobra.Command, toComplete string) []string {
	ctx, ws, ok := completionWorkspace(cmd)
	if !ok {
		return nil
	}
	defer ws.Close()

	branches, err := ws.client.ListLocalBranches(ctx)
	if err != nil {
		return nil
	}
	return filterPrefix(branches, toComplete)
}

// completeBranchArg completes local branch names for the first argument.
func completeBranchArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return branchNames(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeWorktreeThenBranch completes a worktree, then a branch.
func completeWorktreeThenBranch(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return worktreeNames(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
	case 1:
		return branchNames(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// completeTemplateArg completes template IDs with their names as descriptions.
func completeTemplateArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx, ws, ok := completionWorkspace(cmd)
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer ws.Close()

	m, err := ws.templates(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	all, err := m.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, t := range all {
		if strings.HasPrefix(t.ID, toComplete) {
			out = append(out, t.ID+"\t"+t.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeHookArg completes hook events, then worktrees.
func completeHookArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		var names []string
		for _, ev := range hooks.Events {
			names = append(names, strings.TrimPrefix(string(ev), "on_"))
		}
		return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
	case 1:
		return worktreeNames(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
