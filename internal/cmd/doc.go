// Package cmd provides helpers for executing external commands with proper
// error handling.
//
// Every call goes through [Command.Run], which captures stderr and returns it
// as the error message, so failures read like the child's own output:
//
//	out, err := cmd.OutputContext(ctx, dir, "git", "worktree", "list", "--porcelain")
//	if err != nil {
//	    return fmt.Errorf("list worktrees: %w", err)
//	}
//
// Commands are logged with their duration when the context logger is verbose.
//
// # Design Notes
//
// wtm shells out to the git CLI rather than re-implementing git. This keeps
// user configuration (SSH keys, credential helpers, hooks) in effect.
package cmd
