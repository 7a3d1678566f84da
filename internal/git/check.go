package git

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = fmt.Errorf("git not found: please install git (https://git-scm.com)")

// ErrNotRepository is returned when a directory is not inside a git repository
var ErrNotRepository = errors.New("not a git repository")

// ErrMainWorktree is returned when an operation refuses to touch the main worktree
var ErrMainWorktree = errors.New("cannot remove the main worktree")

// ErrBranchNotFound is returned when a branch exists neither locally nor on the remote
var ErrBranchNotFound = errors.New("branch not found")

// CheckGit verifies that git is available in PATH
func CheckGit() error {
	_, err := exec.LookPath("git")
	if err != nil {
		return ErrGitNotFound
	}
	return nil
}
