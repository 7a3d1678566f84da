// Package git provides git operations via shell commands.
//
// All operations call the git CLI through [github.com/raphi011/wtm/internal/cmd]
// and parse its porcelain output. go-git is used only to detect repositories
// and enumerate remotes, which needs no subprocess.
//
// A [Client] is bound to the main worktree of one repository. Calls that act
// on a specific worktree take its path.
//
// # Worktree Operations
//
//   - [Client.ListWorktrees]: Parse `git worktree list --porcelain`
//   - [Client.AddWorktree]: Create worktrees for new or existing branches
//   - [Client.RemoveWorktree]: Remove worktrees (never the main one)
//   - [Client.CheckWorktreePath]: Check a target location before creating
//
// # Status
//
//   - [Client.WorktreeStatus], [Client.ModifiedFiles]: `git status --porcelain`
//   - [Client.SyncStatus]: ahead/behind against the upstream
//   - [Client.LoadStatuses]: the above for many worktrees in parallel
//
// # Branches
//
//   - [Client.SwitchBranch]: Local branch, else tracking branch from the remote
//   - [Client.SwitchMainWorktreeBranch]: Guarded switch of the main worktree
//   - [Client.IsMerged]: Merged into the default branch
//
// Branch notes are stored as git config branch.<name>.description, so they
// follow the branch rather than the worktree directory.
package git
