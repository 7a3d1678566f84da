// Package hooks runs the lifecycle shell commands configured under [hooks].
//
// Three events are supported: on_create after a worktree is added,
// on_delete before a worktree is removed, and on_switch after switching.
//
//	[hooks]
//	on_create = "cd {path} && npm install"
//	on_switch = "tmux rename-window {branch}"
//
// # Placeholder Substitution
//
//   - {path}: absolute worktree path
//   - {branch}: branch name ("detached" when not on a branch)
//   - {worktree}: worktree path, same as {path}
//
// Values are shell-quoted. Every occurrence is replaced.
//
// Extra variables passed with "wtm hook run --arg key=value":
//
//   - {key}: shell-quoted value
//   - {key:raw}: value as-is
//   - {key:-default}: shell-quoted value with a fallback
//
// # Execution
//
// Commands run through "sh -c" in the worktree directory with WTM_PATH,
// WTM_BRANCH and WTM_WORKTREE set in the environment. [Execute] never
// returns an error; the outcome is reported in a [Result]. Lifecycle hook
// failures are logged as warnings and never fail the triggering command.
package hooks
