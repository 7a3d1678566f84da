package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/worktree"
)

// Worktree is one record of `git worktree list --porcelain`.
type Worktree struct {
	Path     string `json:"path"`
	Commit   string `json:"commit"`
	Branch   string `json:"branch,omitempty"` // empty when detached
	IsMain   bool   `json:"is_main"`
	Locked   bool   `json:"locked,omitempty"`
	Prunable bool   `json:"prunable,omitempty"`
}

// DisplayBranch returns the branch name or "detached".
func (w Worktree) DisplayBranch() string {
	if w.Branch == "" {
		return "detached"
	}
	return w.Branch
}

// ShortCommit returns the first 8 characters of the commit hash.
func (w Worktree) ShortCommit() string {
	if len(w.Commit) > 8 {
		return w.Commit[:8]
	}
	return w.Commit
}

// ParseWorktreeList parses `git worktree list --porcelain` output.
// Bare records are skipped, records without a path or commit are dropped,
// and the first emitted record is marked as main.
func ParseWorktreeList(output string) []Worktree {
	var worktrees []Worktree
	var current Worktree
	var bare bool

	flush := func() {
		if !bare && current.Path != "" && current.Commit != "" {
			current.IsMain = len(worktrees) == 0
			worktrees = append(worktrees, current)
		}
		current = Worktree{}
		bare = false
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.Commit = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "detached":
			current.Branch = ""
		case line == "bare":
			bare = true
		case line == "locked" || strings.HasPrefix(line, "locked "):
			current.Locked = true
		case line == "prunable" || strings.HasPrefix(line, "prunable "):
			current.Prunable = true
		}
	}
	// Output without a trailing blank line still ends a record
	flush()

	return worktrees
}

// ListWorktreesE returns all worktrees of the repository.
func (c *Client) ListWorktreesE(ctx context.Context) ([]Worktree, error) {
	out, err := outputGit(ctx, c.root, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}
	return ParseWorktreeList(string(out)), nil
}

// ListWorktrees is ListWorktreesE with the error logged and an empty result.
func (c *Client) ListWorktrees(ctx context.Context) []Worktree {
	wts, err := c.ListWorktreesE(ctx)
	if err != nil {
		log.FromContext(ctx).Warnf("%v", err)
		return nil
	}
	return wts
}

// MainWorktree returns the main worktree record, or nil.
func (c *Client) MainWorktree(ctx context.Context) *Worktree {
	for _, wt := range c.ListWorktrees(ctx) {
		if wt.IsMain {
			return &wt
		}
	}
	return nil
}

// WorktreeInfo returns the worktree whose path matches path, or nil.
func (c *Client) WorktreeInfo(ctx context.Context, path string) *Worktree {
	want := canonicalPath(path)
	for _, wt := range c.ListWorktrees(ctx) {
		if canonicalPath(wt.Path) == want {
			return &wt
		}
	}
	return nil
}

// FindByBranch returns the worktree that has branch checked out, or nil.
func FindByBranch(worktrees []Worktree, branch string) *Worktree {
	for i := range worktrees {
		if worktrees[i].Branch != "" && worktrees[i].Branch == branch {
			return &worktrees[i]
		}
	}
	return nil
}

// canonicalPath cleans path and resolves symlinks when possible.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return filepath.Clean(abs)
}

// SamePath reports whether a and b refer to the same location.
func SamePath(a, b string) bool {
	return canonicalPath(a) == canonicalPath(b)
}

// ResolveLocation resolves a user-supplied location against the main worktree.
func (c *Client) ResolveLocation(location string) string {
	return worktree.ResolvePath(c.root, location)
}

// AddWorktree creates a worktree at location and returns its absolute path.
// With createNew a new branch is created (-b); otherwise branch is checked out.
func (c *Client) AddWorktree(ctx context.Context, location, branch string, createNew bool) (string, error) {
	path := c.ResolveLocation(location)

	var args []string
	if createNew {
		args = []string{"worktree", "add", "-b", branch, path}
	} else {
		args = []string{"worktree", "add", path, branch}
	}
	if err := runGit(ctx, c.root, args...); err != nil {
		return "", fmt.Errorf("failed to add worktree: %w", err)
	}
	return path, nil
}

// RemoveWorktree removes the worktree at path. The main worktree is refused.
func (c *Client) RemoveWorktree(ctx context.Context, path string, force bool) error {
	if SamePath(path, c.root) {
		return ErrMainWorktree
	}
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if err := runGit(ctx, c.root, args...); err != nil {
		return fmt.Errorf("failed to remove worktree: %w", err)
	}
	return nil
}

// PruneWorktrees removes stale worktree administrative entries.
func (c *Client) PruneWorktrees(ctx context.Context) error {
	if err := runGit(ctx, c.root, "worktree", "prune"); err != nil {
		return fmt.Errorf("failed to prune worktrees: %w", err)
	}
	return nil
}

// PathCheck describes whether a location can receive a new worktree.
type PathCheck struct {
	Path             string
	OK               bool
	ExistingWorktree *Worktree // set when the location already is a worktree
	NotEmpty         bool      // set when the location is a non-empty directory
}

// CheckWorktreePath checks that location is missing or an empty directory.
func (c *Client) CheckWorktreePath(ctx context.Context, location string) (PathCheck, error) {
	path := c.ResolveLocation(location)
	check := PathCheck{Path: path}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		check.OK = true
		return check, nil
	}
	if err != nil {
		return check, err
	}

	if wt := c.WorktreeInfo(ctx, path); wt != nil {
		check.ExistingWorktree = wt
		return check, nil
	}
	if !info.IsDir() {
		return check, fmt.Errorf("%s exists and is not a directory", path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return check, err
	}
	if len(entries) > 0 {
		check.NotEmpty = true
		return check, nil
	}
	check.OK = true
	return check, nil
}
