package git

import (
	"context"
	"fmt"
)

// CheckoutFile discards working tree changes to file in the worktree at path.
func (c *Client) CheckoutFile(ctx context.Context, path, file string) error {
	if err := runGit(ctx, path, "checkout", "--", file); err != nil {
		return fmt.Errorf("failed to restore %s: %w", file, err)
	}
	return nil
}

// ResetFile unstages file in the worktree at path.
func (c *Client) ResetFile(ctx context.Context, path, file string) error {
	if err := runGit(ctx, path, "reset", "HEAD", "--", file); err != nil {
		return fmt.Errorf("failed to unstage %s: %w", file, err)
	}
	return nil
}

// AddFile stages file in the worktree at path.
func (c *Client) AddFile(ctx context.Context, path, file string) error {
	if err := runGit(ctx, path, "add", "--", file); err != nil {
		return fmt.Errorf("failed to stage %s: %w", file, err)
	}
	return nil
}
