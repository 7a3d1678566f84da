package git

import (
	"context"
	"fmt"
	"strings"
)

func noteKey(branch string) string {
	return "branch." + branch + ".description"
}

// BranchNote returns the note (description) for a branch.
// Returns empty string if no note is set.
func (c *Client) BranchNote(ctx context.Context, branch string) (string, error) {
	out, err := outputGitString(ctx, c.root, "config", noteKey(branch))
	if err != nil {
		// Exit code 1 means the config key doesn't exist - not an error
		if isExit(err, 1) {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// SetBranchNote sets a note (description) on a branch.
// An empty note clears it.
func (c *Client) SetBranchNote(ctx context.Context, branch, note string) error {
	if branch == "" {
		return fmt.Errorf("cannot set a note on a detached worktree")
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return c.ClearBranchNote(ctx, branch)
	}
	return runGit(ctx, c.root, "config", noteKey(branch), note)
}

// ClearBranchNote removes the note (description) from a branch.
func (c *Client) ClearBranchNote(ctx context.Context, branch string) error {
	err := runGit(ctx, c.root, "config", "--unset", noteKey(branch))
	// Exit code 5 means the key doesn't exist - not an error for clearing
	if err != nil && !isExit(err, 5) {
		return err
	}
	return nil
}

// AllBranchNotes returns every branch note in one call.
// Uses: `git config --get-regexp 'branch\..*\.description'`
func (c *Client) AllBranchNotes(ctx context.Context) map[string]string {
	notes := make(map[string]string)

	out, err := outputGit(ctx, c.root, "config", "--get-regexp", `^branch\..*\.description$`)
	if err != nil {
		// No config is not an error
		return notes
	}
	return parseBranchNotes(string(out), notes)
}

// parseBranchNotes parses lines like
// "branch.feature-x.description Note text here".
func parseBranchNotes(output string, notes map[string]string) map[string]string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, " ")
		if !ok || !strings.HasPrefix(key, "branch.") || !strings.HasSuffix(key, ".description") {
			continue
		}
		branch := key[len("branch.") : len(key)-len(".description")]
		if branch != "" {
			notes[branch] = value
		}
	}
	return notes
}
