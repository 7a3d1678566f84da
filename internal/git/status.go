package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the coarse state of a worktree's files.
type Status string

const (
	StatusClean Status = "clean"
	StatusDirty Status = "dirty"
)

// ChangeKind classifies a FileChange.
type ChangeKind string

const (
	ChangeModified  ChangeKind = "modified"
	ChangeAdded     ChangeKind = "added"
	ChangeDeleted   ChangeKind = "deleted"
	ChangeRenamed   ChangeKind = "renamed"
	ChangeUntracked ChangeKind = "untracked"
)

// FileChange is one entry of `git status --porcelain -z`.
type FileChange struct {
	Path     string     `json:"path"`
	OrigPath string     `json:"orig_path,omitempty"` // rename source
	Status   ChangeKind `json:"status"`
	Staged   bool       `json:"staged"`
}

// SyncStatus counts commits relative to the upstream branch.
type SyncStatus struct {
	Ahead  int `json:"ahead"`
	Behind int `json:"behind"`
}

func kindFromCode(code byte) ChangeKind {
	switch code {
	case 'A':
		return ChangeAdded
	case 'D':
		return ChangeDeleted
	case 'R':
		return ChangeRenamed
	default:
		return ChangeModified
	}
}

// ParseStatus parses `git status --porcelain -z` output. Entries are
// NUL-terminated and paths are not quoted; a rename or copy entry is
// followed by a second field holding the source path.
// The index column wins: a non-space X means staged. Entries shorter than
// four bytes are skipped.
func ParseStatus(output string) []FileChange {
	var changes []FileChange
	fields := strings.Split(output, "\x00")
	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if len(entry) < 4 {
			continue
		}
		x, y := entry[0], entry[1]
		path := entry[3:]

		if x == '?' && y == '?' {
			changes = append(changes, FileChange{Path: path, Status: ChangeUntracked})
			continue
		}

		code := y
		if x != ' ' {
			code = x
		}
		change := FileChange{Path: path, Staged: x != ' ', Status: kindFromCode(code)}

		if x == 'R' || x == 'C' || y == 'R' || y == 'C' {
			var orig string
			if i+1 < len(fields) {
				i++
				orig = fields[i]
			}
			if code == 'C' {
				// A copy leaves its source untouched.
				change.Status = ChangeAdded
			} else {
				change.OrigPath = orig
			}
		}
		changes = append(changes, change)
	}
	return changes
}

// WorktreeStatus returns StatusDirty when `git status --porcelain` prints anything.
func (c *Client) WorktreeStatus(ctx context.Context, path string) (Status, error) {
	out, err := outputGitString(ctx, path, "status", "--porcelain")
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	if out == "" {
		return StatusClean, nil
	}
	return StatusDirty, nil
}

// ModifiedFiles returns the parsed status of the worktree at path.
func (c *Client) ModifiedFiles(ctx context.Context, path string) ([]FileChange, error) {
	out, err := outputGit(ctx, path, "status", "--porcelain", "-z", "--untracked-files=all")
	if err != nil {
		return nil, fmt.Errorf("failed to get modified files: %w", err)
	}
	return ParseStatus(string(out)), nil
}

// parseLeftRight parses `rev-list --left-right --count` output ("<ahead>\t<behind>").
func parseLeftRight(out string) (*SyncStatus, error) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return nil, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, err
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, err
	}
	return &SyncStatus{Ahead: ahead, Behind: behind}, nil
}

// SyncStatus returns ahead/behind counts against the upstream, or nil when
// the branch has no upstream (or the worktree is detached).
func (c *Client) SyncStatus(ctx context.Context, path string) (*SyncStatus, error) {
	if _, err := outputGit(ctx, path, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}"); err != nil {
		return nil, nil
	}
	out, err := outputGitString(ctx, path, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}
	return parseLeftRight(out)
}

// LastCommitTime returns the committer time of HEAD in the worktree at path.
func (c *Client) LastCommitTime(ctx context.Context, path string) (time.Time, error) {
	out, err := outputGitString(ctx, path, "log", "-1", "--format=%ct")
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last commit time: %w", err)
	}
	secs, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse commit time %q: %w", out, err)
	}
	return time.Unix(secs, 0), nil
}
