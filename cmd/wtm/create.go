package main

import (
	"context"
	"fmt"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/timeline"
	"github.com/raphi011/wtm/internal/ui/prompt"
	"github.com/raphi011/wtm/internal/worktree"
)

// createOptions describes a worktree to create.
type createOptions struct {
	Branch string
	// Location as typed by the user; validated against traversal and
	// system directories. Empty uses the configured default location.
	Location string
	// TemplateLocation is a location computed from a template pattern.
	// It is trusted and takes precedence over Location.
	TemplateLocation string
	// AssumeYes skips the "branch already exists" confirmation.
	AssumeYes bool
	// Existing expects the branch to exist and never creates it.
	Existing bool
}

// createWorktree validates the request, creates the worktree, records the
// timeline event and runs the on_create hook. Returns the worktree path.
func createWorktree(ctx context.Context, ws *workspace, opts createOptions) (string, error) {
	l := log.FromContext(ctx)
	root := ws.client.Root()

	if err := git.ValidateBranchName(opts.Branch); err != nil {
		return "", err
	}

	if locking, err := ws.client.BranchLockingWorktree(ctx, opts.Branch); err != nil {
		return "", err
	} else if locking != nil {
		return "", fmt.Errorf("branch '%s' is already checked out at %s", opts.Branch, locking.Path)
	}

	exists := ws.client.BranchExists(ctx, opts.Branch)
	switch {
	case opts.Existing && !exists:
		return "", fmt.Errorf("branch '%s' does not exist: %w", opts.Branch, git.ErrBranchNotFound)
	case exists && !opts.Existing:
		ok, err := confirm(fmt.Sprintf("Branch '%s' already exists. Create a worktree for it?", opts.Branch), opts.AssumeYes)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", errCancelled
		}
	}

	var location string
	switch {
	case opts.TemplateLocation != "":
		location = worktree.ResolvePath(root, opts.TemplateLocation)
	case opts.Location != "":
		resolved, err := git.ValidateWorktreePath(opts.Location, root)
		if err != nil {
			return "", err
		}
		location = resolved
	default:
		location = worktree.DefaultPath(root, ws.cfg.DefaultLocation, opts.Branch)
	}

	check, err := ws.client.CheckWorktreePath(ctx, location)
	if err != nil {
		return "", err
	}
	switch {
	case check.ExistingWorktree != nil:
		return "", fmt.Errorf("a worktree already exists at %s (branch %s)", check.Path, check.ExistingWorktree.DisplayBranch())
	case check.NotEmpty:
		return "", fmt.Errorf("target directory %s is not empty", check.Path)
	}

	path, err := ws.client.AddWorktree(ctx, check.Path, opts.Branch, !exists)
	if err != nil {
		return "", err
	}
	l.Printf("Created worktree for '%s' at %s\n", opts.Branch, path)

	ws.record(ctx, timeline.Created, path, opts.Branch)
	ws.hooks().OnCreate(ctx, path, opts.Branch)
	return path, nil
}

// branchPrompt configures a text prompt that only accepts valid branch names.
func branchPrompt() prompt.TextOptions {
	return prompt.TextOptions{
		Placeholder: "feature/my-change",
		Validate:    git.ValidateBranchName,
	}
}
