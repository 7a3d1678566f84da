// Package worktree resolves filesystem locations for new worktrees.
package worktree

import (
	"os"
	"path/filepath"
	"strings"
)

// SanitizeBranch makes a branch name safe for use as a directory name.
// Both / and \ become -.
func SanitizeBranch(branch string) string {
	return strings.NewReplacer("/", "-", `\`, "-").Replace(branch)
}

// ResolvePath resolves a worktree location against the main worktree root.
// Supports:
//   - "../name" = sibling to the main worktree
//   - "~/worktrees/name" = home-relative
//   - "/absolute/name" = absolute path
//   - "name" or "./name" = nested inside the main worktree
func ResolvePath(repoRoot, location string) string {
	switch {
	case strings.HasPrefix(location, "~/"):
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			// Keep the ~ prefix so path validation reports it
			return location
		}
		return filepath.Join(home, location[2:])

	case filepath.IsAbs(location):
		return filepath.Clean(location)

	default:
		return filepath.Join(repoRoot, location)
	}
}

// DefaultPath returns the location for a new worktree of branch when the user
// gave none. An empty baseDir places it next to the main worktree.
func DefaultPath(repoRoot, baseDir, branch string) string {
	name := SanitizeBranch(branch)
	if baseDir == "" {
		return filepath.Join(filepath.Dir(repoRoot), name)
	}
	return filepath.Join(ResolvePath(repoRoot, baseDir), name)
}
