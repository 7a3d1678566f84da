package view

import (
	"context"

	"github.com/raphi011/wtm/internal/git"
)

// StatusBar describes the current worktree line.
type StatusBar struct {
	Visible bool
	Icon    string // file-submodule when dirty, git-branch otherwise
	Branch  string // branch name or "detached"
	Path    string
	Tooltip string
}

// Text renders "<glyph> <branch>" with glyph looked up by icon name.
func (s StatusBar) Text(glyph func(icon string) string) string {
	if !s.Visible {
		return ""
	}
	return glyph(s.Icon) + " " + s.Branch
}

// StatusBar finds the worktree containing exactly cwd. The bar is hidden
// when there is no repository or no worktree path matches.
func (p *Provider) StatusBar(ctx context.Context, cwd string) StatusBar {
	if p.client == nil {
		return StatusBar{}
	}
	wts, err := p.client.ListWorktreesE(ctx)
	if err != nil {
		return StatusBar{}
	}
	for _, wt := range wts {
		if !git.SamePath(wt.Path, cwd) {
			continue
		}
		icon := "git-branch"
		if st, err := p.client.WorktreeStatus(ctx, wt.Path); err == nil && st == git.StatusDirty {
			icon = "file-submodule"
		}
		return StatusBar{
			Visible: true,
			Icon:    icon,
			Branch:  wt.DisplayBranch(),
			Path:    wt.Path,
			Tooltip: "Current Worktree: " + wt.Path,
		}
	}
	return StatusBar{}
}
