package git

import (
	"context"
	"fmt"
)

// DefaultStashMessage is used when the caller gives no message.
const DefaultStashMessage = "Auto-stash"

// Stash creates a stash entry with a message in the worktree at path.
func (c *Client) Stash(ctx context.Context, path, message string) error {
	if message == "" {
		message = DefaultStashMessage
	}
	if err := runGit(ctx, path, "stash", "push", "-m", message); err != nil {
		return fmt.Errorf("failed to stash changes: %w", err)
	}
	return nil
}

// StashPop applies and removes the most recent stash entry.
func (c *Client) StashPop(ctx context.Context, path string) error {
	if err := runGit(ctx, path, "stash", "pop"); err != nil {
		return fmt.Errorf("failed to pop stash: %w", err)
	}
	return nil
}
