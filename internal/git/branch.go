package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// branchNotFoundError names the branch and matches ErrBranchNotFound.
type branchNotFoundError struct {
	branch string
}

func (e *branchNotFoundError) Error() string {
	return fmt.Sprintf("Branch '%s' not found locally or in remote", e.branch)
}

func (e *branchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// parseBranchLines splits `git branch --format` output into names.
// Quotes are stripped; empty lines and lines containing HEAD are dropped.
func parseBranchLines(output string) []string {
	var branches []string
	for _, line := range strings.Split(output, "\n") {
		name := strings.Trim(strings.TrimSpace(line), `"'`)
		if name == "" || strings.Contains(name, "HEAD") {
			continue
		}
		branches = append(branches, name)
	}
	return branches
}

func (c *Client) branchList(ctx context.Context, dir string, flags ...string) ([]string, error) {
	args := append([]string{"branch"}, flags...)
	args = append(args, "--format=%(refname:short)")
	out, err := outputGit(ctx, dir, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return parseBranchLines(string(out)), nil
}

// ListBranches returns local and remote-tracking branch names.
func (c *Client) ListBranches(ctx context.Context) ([]string, error) {
	return c.branchList(ctx, c.root, "-a")
}

// ListLocalBranches returns local branch names.
func (c *Client) ListLocalBranches(ctx context.Context) ([]string, error) {
	return c.branchList(ctx, c.root)
}

// ListRemoteBranches returns remote-tracking branch names like origin/main.
// The bare remote entry produced by <remote>/HEAD is dropped.
func (c *Client) ListRemoteBranches(ctx context.Context) ([]string, error) {
	branches, err := c.branchList(ctx, c.root, "-r")
	if err != nil {
		return nil, err
	}
	filtered := branches[:0]
	for _, b := range branches {
		if strings.Contains(b, "/") {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// BranchExists reports whether a local branch exists.
func (c *Client) BranchExists(ctx context.Context, branch string) bool {
	return runGit(ctx, c.root, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch) == nil
}

// remoteBranchExists reports whether <remote>/<branch> exists.
func remoteBranchExists(ctx context.Context, dir, remote, branch string) bool {
	return runGit(ctx, dir, "rev-parse", "--verify", "--quiet", "refs/remotes/"+remote+"/"+branch) == nil
}

// CurrentBranch returns the branch checked out at path, or "" when detached.
func (c *Client) CurrentBranch(ctx context.Context, path string) (string, error) {
	branch, err := outputGitString(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	if branch == "HEAD" {
		return "", nil
	}
	return branch, nil
}

// checkoutBranch checks out branch in dir, creating a tracking branch from the
// first remote when only the remote branch exists.
func (c *Client) checkoutBranch(ctx context.Context, dir, branch string) (tracked string, err error) {
	if runGit(ctx, dir, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch) == nil {
		if err := runGit(ctx, dir, "checkout", branch); err != nil {
			return "", fmt.Errorf("failed to switch branch: %w", err)
		}
		return "", nil
	}

	remote := c.RemoteName(dir)
	if remoteBranchExists(ctx, dir, remote, branch) {
		ref := remote + "/" + branch
		if err := runGit(ctx, dir, "checkout", "-b", branch, ref); err != nil {
			return "", fmt.Errorf("failed to switch branch: %w", err)
		}
		return ref, nil
	}
	return "", &branchNotFoundError{branch: branch}
}

// SwitchBranch checks out branch in the worktree at path.
func (c *Client) SwitchBranch(ctx context.Context, path, branch string) error {
	_, err := c.checkoutBranch(ctx, path, branch)
	return err
}

// CreateBranch creates and checks out a new branch in the worktree at path.
func (c *Client) CreateBranch(ctx context.Context, path, branch string) error {
	if err := runGit(ctx, path, "checkout", "-b", branch); err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

// DefaultBranch returns the branch origin/HEAD points at, falling back to
// main, then master.
func (c *Client) DefaultBranch(ctx context.Context) string {
	ref, err := outputGitString(ctx, c.root, "symbolic-ref", "--quiet", "refs/remotes/origin/HEAD")
	if err == nil && ref != "" {
		return strings.TrimPrefix(ref, "refs/remotes/origin/")
	}
	for _, candidate := range []string{"main", "master"} {
		if c.BranchExists(ctx, candidate) {
			return candidate
		}
	}
	return "main"
}

// MergedBranches returns the set of local branches merged into target.
func (c *Client) MergedBranches(ctx context.Context, target string) (map[string]bool, error) {
	out, err := outputGit(ctx, c.root, "branch", "--merged", target)
	if err != nil {
		return nil, fmt.Errorf("failed to check merge status: %w", err)
	}
	merged := make(map[string]bool)
	for _, line := range strings.Split(string(out), "\n") {
		trimmed := strings.TrimSpace(line)
		// Handle "branch", "* branch" (current), and "+ branch" (in worktree) formats
		trimmed = strings.TrimPrefix(trimmed, "* ")
		trimmed = strings.TrimPrefix(trimmed, "+ ")
		if trimmed != "" {
			merged[trimmed] = true
		}
	}
	return merged, nil
}

// IsMerged reports whether the worktree's branch is merged into the default
// branch. Detached worktrees are never merged.
func (c *Client) IsMerged(ctx context.Context, wt Worktree) (bool, error) {
	if wt.Branch == "" {
		return false, nil
	}
	merged, err := c.MergedBranches(ctx, c.DefaultBranch(ctx))
	if err != nil {
		return false, err
	}
	return merged[wt.Branch], nil
}

// BranchLockingWorktree returns the worktree that has branch checked out, or nil.
func (c *Client) BranchLockingWorktree(ctx context.Context, branch string) (*Worktree, error) {
	wts, err := c.ListWorktreesE(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get branch locking worktree: %w", err)
	}
	return FindByBranch(wts, branch), nil
}

// IsBranchLocked reports whether branch is checked out in any worktree.
func (c *Client) IsBranchLocked(ctx context.Context, branch string) (bool, error) {
	wt, err := c.BranchLockingWorktree(ctx, branch)
	if err != nil {
		return false, err
	}
	return wt != nil, nil
}

// SwitchResult describes the outcome of SwitchMainWorktreeBranch.
type SwitchResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	PreviousBranch string `json:"previous_branch,omitempty"`
	NewBranch      string `json:"new_branch,omitempty"`
}

// SwitchMainWorktreeBranch switches the main worktree to branch.
// It refuses when the branch is checked out elsewhere or the main worktree
// has uncommitted changes. Failures are reported in the result, not as errors.
func (c *Client) SwitchMainWorktreeBranch(ctx context.Context, branch string) SwitchResult {
	mainWT := c.MainWorktree(ctx)
	if mainWT == nil {
		return SwitchResult{Message: "Main worktree not found"}
	}

	previous, err := c.CurrentBranch(ctx, mainWT.Path)
	if err != nil {
		return SwitchResult{Message: fmt.Sprintf("Failed to switch main worktree branch: %v", err)}
	}
	if previous == branch {
		return SwitchResult{
			Success:        true,
			Message:        fmt.Sprintf("Already on branch '%s'", branch),
			PreviousBranch: previous,
			NewBranch:      branch,
		}
	}

	locking, err := c.BranchLockingWorktree(ctx, branch)
	if err != nil {
		return SwitchResult{Message: fmt.Sprintf("Failed to switch main worktree branch: %v", err)}
	}
	if locking != nil {
		return SwitchResult{
			Message:        fmt.Sprintf("Branch '%s' is already checked out at %s", branch, locking.Path),
			PreviousBranch: previous,
		}
	}

	status, err := c.WorktreeStatus(ctx, mainWT.Path)
	if err != nil {
		return SwitchResult{Message: fmt.Sprintf("Failed to switch main worktree branch: %v", err)}
	}
	if status == StatusDirty {
		return SwitchResult{Message: "Main worktree has uncommitted changes. Please commit or stash before switching."}
	}

	if _, err := c.checkoutBranch(ctx, mainWT.Path, branch); err != nil {
		if errors.Is(err, ErrBranchNotFound) {
			return SwitchResult{Message: err.Error()}
		}
		return SwitchResult{Message: fmt.Sprintf("Failed to switch main worktree branch: %v", err)}
	}

	return SwitchResult{
		Success:        true,
		Message:        fmt.Sprintf("Switched main worktree from '%s' to '%s'", previous, branch),
		PreviousBranch: previous,
		NewBranch:      branch,
	}
}

// Pull runs git pull in the worktree at path.
func (c *Client) Pull(ctx context.Context, path string) error {
	if err := runGit(ctx, path, "pull"); err != nil {
		return fmt.Errorf("failed to pull: %w", err)
	}
	return nil
}

// Push runs git push in the worktree at path.
func (c *Client) Push(ctx context.Context, path string) error {
	if err := runGit(ctx, path, "push"); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}
