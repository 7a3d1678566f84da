package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	gogit "github.com/go-git/go-git/v5"
)

// DefaultRemote is used when a repository has no configured remote.
const DefaultRemote = "origin"

// Client runs git commands against one repository.
// Root is the main worktree; per-worktree calls take the worktree path.
type Client struct {
	root string
}

// NewClient returns a client for the repository whose main worktree is root.
func NewClient(root string) *Client {
	return &Client{root: root}
}

// Root returns the main worktree path.
func (c *Client) Root() string {
	return c.root
}

// Open finds the repository containing dir and returns a client bound to its
// main worktree. Returns ErrNotRepository when dir is not inside a repository.
func Open(ctx context.Context, dir string) (*Client, error) {
	if !IsRepository(ctx, dir) {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	root, err := mainWorktreeRoot(ctx, dir)
	if err != nil {
		return nil, err
	}
	return NewClient(root), nil
}

func openOptions() *gogit.PlainOpenOptions {
	return &gogit.PlainOpenOptions{DetectDotGit: true, EnableDotGitCommonDir: true}
}

// IsRepository reports whether dir is inside a git repository.
// go-git detection is tried first; git rev-parse covers layouts it can't read.
func IsRepository(ctx context.Context, dir string) bool {
	if _, err := gogit.PlainOpenWithOptions(dir, openOptions()); err == nil {
		return true
	}
	return runGit(ctx, dir, "rev-parse", "--git-dir") == nil
}

// mainWorktreeRoot resolves the main worktree from any directory in the repo.
// The common dir of a non-bare repository is <main>/.git.
func mainWorktreeRoot(ctx context.Context, dir string) (string, error) {
	common, err := outputGitString(ctx, dir, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return "", fmt.Errorf("failed to resolve repository root: %w", err)
	}
	if filepath.Base(common) == ".git" {
		return filepath.Dir(common), nil
	}
	// Bare repository or separate git dir: fall back to the toplevel of dir
	top, err := outputGitString(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return common, nil
	}
	return top, nil
}

// GitDir returns the absolute git dir of the worktree at path.
// For a linked worktree this is <common>/worktrees/<name>.
func GitDir(ctx context.Context, path string) (string, error) {
	return outputGitString(ctx, path, "rev-parse", "--path-format=absolute", "--git-dir")
}

// CommonDir returns the absolute shared git dir of the repository at path.
func CommonDir(ctx context.Context, path string) (string, error) {
	return outputGitString(ctx, path, "rev-parse", "--path-format=absolute", "--git-common-dir")
}

// Remotes lists the configured remote names, sorted.
func Remotes(path string) ([]string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, openOptions())
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, err
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(remotes))
	for _, r := range remotes {
		names = append(names, r.Config().Name)
	}
	slices.Sort(names)
	return names, nil
}

// RemoteName returns the first configured remote of the worktree at path,
// or DefaultRemote when there is none.
func (c *Client) RemoteName(path string) string {
	names, err := Remotes(path)
	if err != nil || len(names) == 0 {
		return DefaultRemote
	}
	return names[0]
}
