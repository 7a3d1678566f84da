package git

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxBranchNameLength is the longest branch name accepted.
const MaxBranchNameLength = 255

// invalidBranchChars are rejected anywhere in a branch name.
const invalidBranchChars = "~^:?*[]\\"

// ValidateBranchName checks a branch name before handing it to git.
func ValidateBranchName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("branch name cannot be empty")
	case name == "HEAD":
		return fmt.Errorf("branch name cannot be HEAD")
	case len(name) > MaxBranchNameLength:
		return fmt.Errorf("branch name is too long (max %d characters)", MaxBranchNameLength)
	case strings.HasPrefix(name, ".") || strings.HasSuffix(name, "."):
		return fmt.Errorf("branch name cannot start or end with '.'")
	case strings.Contains(name, ".."):
		return fmt.Errorf("branch name cannot contain '..'")
	case strings.ContainsAny(name, " \t\n\r"):
		return fmt.Errorf("branch name cannot contain whitespace")
	case strings.ContainsAny(name, invalidBranchChars):
		return fmt.Errorf("branch name contains invalid characters (%s)", invalidBranchChars)
	}
	return nil
}

// systemDirs are never accepted as worktree locations.
var systemDirs = []string{"/etc", "/usr", "/var", "/root"}

// ValidateWorktreePath rejects traversal and system directories and returns
// the location resolved against root.
func ValidateWorktreePath(location, root string) (string, error) {
	if strings.TrimSpace(location) == "" {
		return "", fmt.Errorf("worktree path cannot be empty")
	}
	if strings.Contains(location, "..") || strings.Contains(location, "~") {
		return "", fmt.Errorf("invalid path: directory traversal is not allowed")
	}

	resolved := location
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(root, location)
	}
	resolved = filepath.Clean(resolved)

	for _, dir := range systemDirs {
		if resolved == dir || strings.HasPrefix(resolved, dir+string(filepath.Separator)) {
			return "", fmt.Errorf("invalid path: cannot create worktree in system directory %s", dir)
		}
	}
	return resolved, nil
}
