package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/ui/prompt"
)

// worktreeSource implements fuzzy.Source over worktree branch names.
type worktreeSource []git.Worktree

func (s worktreeSource) String(i int) string { return s[i].DisplayBranch() }
func (s worktreeSource) Len() int            { return len(s) }

// matchKind tells how an argument matched a worktree.
type matchKind int

const (
	matchExact matchKind = iota // branch, path or directory name
	matchFuzzy
)

// matchWorktree finds the worktree named by arg, trying in order: exact
// branch, path (relative to workDir), directory base name, then a unique
// fuzzy match on the branch.
func matchWorktree(wts []git.Worktree, arg, workDir string) (git.Worktree, matchKind, error) {
	for _, wt := range wts {
		if wt.Branch == arg {
			return wt, matchExact, nil
		}
	}

	p := arg
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}
	for _, wt := range wts {
		if git.SamePath(wt.Path, p) {
			return wt, matchExact, nil
		}
	}

	var byBase []git.Worktree
	for _, wt := range wts {
		if filepath.Base(wt.Path) == arg {
			byBase = append(byBase, wt)
		}
	}
	if len(byBase) == 1 {
		return byBase[0], matchExact, nil
	}

	matches := fuzzy.FindFrom(arg, worktreeSource(wts))
	switch {
	case len(matches) == 1:
		return wts[matches[0].Index], matchFuzzy, nil
	case len(matches) > 1:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.Str)
		}
		return git.Worktree{}, matchFuzzy, fmt.Errorf("ambiguous worktree %q: matches %s", arg, strings.Join(names, ", "))
	}
	return git.Worktree{}, matchFuzzy, fmt.Errorf("worktree not found: %s", arg)
}

// resolveWorktree returns the worktree named by arg, matched against every
// worktree. With an empty arg it shows a picker over the worktrees accepted
// by keep (nil keeps all), or fails when stdin is not a terminal.
func resolveWorktree(ctx context.Context, ws *workspace, arg string, keep func(git.Worktree) bool) (git.Worktree, error) {
	wt, _, err := resolveTarget(ctx, ws, arg, keep)
	return wt, err
}

// resolveDestructive is resolveWorktree for commands that discard data. A
// fuzzy-only match has to be confirmed on a terminal and is refused
// otherwise; --yes does not cover it.
func resolveDestructive(ctx context.Context, ws *workspace, arg string, keep func(git.Worktree) bool) (git.Worktree, error) {
	wt, kind, err := resolveTarget(ctx, ws, arg, keep)
	if err != nil || kind != matchFuzzy {
		return wt, err
	}
	if !prompt.IsInteractive() {
		return git.Worktree{}, fmt.Errorf("worktree %q not found (did you mean %s?)", arg, wt.DisplayBranch())
	}
	ok, err := confirm(fmt.Sprintf("No worktree named '%s'. Use '%s' at %s?", arg, wt.DisplayBranch(), wt.Path), false)
	if err != nil {
		return git.Worktree{}, err
	}
	if !ok {
		return git.Worktree{}, errCancelled
	}
	return wt, nil
}

func resolveTarget(ctx context.Context, ws *workspace, arg string, keep func(git.Worktree) bool) (git.Worktree, matchKind, error) {
	all, err := ws.client.ListWorktreesE(ctx)
	if err != nil {
		return git.Worktree{}, matchExact, err
	}
	if arg != "" {
		return matchWorktree(all, arg, ws.workDir)
	}

	var wts []git.Worktree
	for _, wt := range all {
		if keep == nil || keep(wt) {
			wts = append(wts, wt)
		}
	}
	if len(wts) == 0 {
		return git.Worktree{}, matchExact, fmt.Errorf("no worktrees to choose from")
	}
	if !prompt.IsInteractive() {
		return git.Worktree{}, matchExact, fmt.Errorf("worktree argument required (stdin is not a terminal)")
	}
	wt, err := pickWorktree(ctx, ws, "Select worktree", wts)
	return wt, matchExact, err
}

func pickWorktree(ctx context.Context, ws *workspace, title string, wts []git.Worktree) (git.Worktree, error) {
	items := ws.provider(ctx).ItemsFor(wts)
	opts := make([]prompt.Option, len(items))
	for i, it := range items {
		opts[i] = prompt.Option{Label: it.Label(), Description: it.Description()}
	}
	res, err := prompt.Select(title, opts)
	if err != nil {
		return git.Worktree{}, err
	}
	if res.Cancelled {
		return git.Worktree{}, errCancelled
	}
	return items[res.Index].Worktree, nil
}

// notMain keeps linked worktrees only.
func notMain(wt git.Worktree) bool {
	return !wt.IsMain
}

// pickString asks for one of values, or fails when stdin is not a terminal.
func pickString(title string, values []string, missing string) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("no %s to choose from", missing)
	}
	if !prompt.IsInteractive() {
		return "", fmt.Errorf("%s argument required (stdin is not a terminal)", missing)
	}
	res, err := prompt.Select(title, prompt.Options(values...))
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", errCancelled
	}
	return res.Value, nil
}

// askText prompts for a value, or fails when stdin is not a terminal.
func askText(title string, opts prompt.TextOptions, missing string) (string, error) {
	if !prompt.IsInteractive() {
		return "", fmt.Errorf("%s argument required (stdin is not a terminal)", missing)
	}
	res, err := prompt.TextInput(title, opts)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", errCancelled
	}
	return strings.TrimSpace(res.Value), nil
}

// confirm asks a yes/no question. assumeYes skips the prompt; a
// non-interactive stdin answers no.
func confirm(question string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !prompt.IsInteractive() {
		return false, fmt.Errorf("%s (use --yes to confirm non-interactively)", strings.TrimSuffix(question, "?"))
	}
	res, err := prompt.Confirm(question, false)
	if err != nil {
		return false, err
	}
	if res.Cancelled {
		return false, errCancelled
	}
	return res.Confirmed, nil
}
