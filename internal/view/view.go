// Package view builds the worktree list shown by "wtm list" and the
// sidebar's Worktrees panel.
//
// A Provider caches per-worktree status keyed by path. The cache has no
// eviction; entries are overwritten on refresh.
package view

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/raphi011/wtm/internal/config"
	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/tree"
)

// Section names at the root of the tree when recent worktrees exist.
const (
	SectionRecent = "Recent"
	SectionAll    = "All Worktrees"
)

// Entry is the cached status of a worktree.
type Entry struct {
	Status git.Status
	Sync   *git.SyncStatus // nil when unknown or no upstream
}

// Provider lists worktrees and decorates them with cached status.
type Provider struct {
	client    *git.Client
	sortOrder string

	mu     sync.Mutex
	cache  map[string]Entry
	notes  map[string]string // branch -> note
	recent []string
}

// NewProvider creates a Provider. client may be nil when the working
// directory is not inside a repository.
func NewProvider(client *git.Client, sortOrder string) *Provider {
	return &Provider{
		client:    client,
		sortOrder: sortOrder,
		cache:     make(map[string]Entry),
		notes:     make(map[string]string),
	}
}

// SetNotes replaces the branch notes.
func (p *Provider) SetNotes(notes map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = notes
}

// SetRecentPaths replaces the recent worktree paths.
func (p *Provider) SetRecentPaths(paths []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recent = slices.Clone(paths)
}

// SetEntry stores a status entry for path.
func (p *Provider) SetEntry(path string, e Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[path] = e
}

// Entry returns the cached status for path.
func (p *Provider) Entry(path string) (Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.cache[path]
	return e, ok
}

// Sort orders worktrees in place. The default order keeps git's order;
// branch and path put the main worktree first and compare the rest
// lexically ("" for detached).
func Sort(wts []git.Worktree, order string) {
	if order != config.SortBranch && order != config.SortPath {
		return
	}
	slices.SortStableFunc(wts, func(a, b git.Worktree) int {
		if a.IsMain != b.IsMain {
			if a.IsMain {
				return -1
			}
			return 1
		}
		if order == config.SortBranch {
			return strings.Compare(a.Branch, b.Branch)
		}
		return strings.Compare(a.Path, b.Path)
	})
}

// Items lists the worktrees in configured order with cached status.
// Returns nil when there is no repository.
func (p *Provider) Items(ctx context.Context) ([]Item, error) {
	if p.client == nil {
		return nil, nil
	}
	wts, err := p.client.ListWorktreesE(ctx)
	if err != nil {
		return nil, err
	}
	return p.ItemsFor(wts), nil
}

// ItemsFor decorates wts with cached status and notes.
func (p *Provider) ItemsFor(wts []git.Worktree) []Item {
	wts = slices.Clone(wts)
	Sort(wts, p.sortOrder)

	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]Item, len(wts))
	for i, wt := range wts {
		items[i] = Item{Worktree: wt}
		if wt.Branch != "" {
			items[i].Note = p.notes[wt.Branch]
		}
		if e, ok := p.cache[wt.Path]; ok {
			items[i].Status = e.Status
			items[i].Sync = e.Sync
		}
	}
	return items
}

// Children returns the child nodes of parent; nil parent means the root.
// With recent worktrees the root holds the Recent and All Worktrees
// sections, otherwise the worktree items directly.
func (p *Provider) Children(ctx context.Context, parent *tree.Node) ([]*tree.Node, error) {
	if parent != nil {
		return parent.Children, nil
	}
	items, err := p.Items(ctx)
	if err != nil || items == nil {
		return nil, err
	}
	return p.Nodes(items), nil
}

// Nodes builds the root nodes for items.
func (p *Provider) Nodes(items []Item) []*tree.Node {
	p.mu.Lock()
	recent := slices.Clone(p.recent)
	p.mu.Unlock()

	if len(recent) == 0 {
		return itemNodes(items)
	}

	var recentItems []Item
	for _, it := range items {
		if slices.Contains(recent, it.Worktree.Path) {
			recentItems = append(recentItems, it)
		}
	}
	return []*tree.Node{
		{Label: SectionRecent, Kind: "section", Expanded: true, Children: itemNodes(recentItems)},
		{Label: SectionAll, Kind: "section", Expanded: true, Children: itemNodes(items)},
	}
}

func itemNodes(items []Item) []*tree.Node {
	nodes := make([]*tree.Node, len(items))
	for i, it := range items {
		nodes[i] = it.Node()
	}
	return nodes
}

// RefreshStatuses loads status and sync state for wts into the cache.
// Failures are logged and skipped. onUpdate, if set, is called with each
// refreshed path.
func (p *Provider) RefreshStatuses(ctx context.Context, wts []git.Worktree, onUpdate func(path string)) {
	if p.client == nil {
		return
	}
	_, warnings := p.client.LoadStatuses(ctx, wts, func(e git.StatusEntry) {
		p.SetEntry(e.Path, Entry{Status: e.Status, Sync: e.Sync})
		if onUpdate != nil {
			onUpdate(e.Path)
		}
	})
	l := log.FromContext(ctx)
	for _, w := range warnings {
		l.Debug("status update failed", "path", w.Path, "err", w.Err)
	}
}

// Item is a worktree with its display state.
type Item struct {
	Worktree git.Worktree
	Status   git.Status
	Sync     *git.SyncStatus
	Note     string
}

// Dirty reports whether the worktree has uncommitted changes.
func (it Item) Dirty() bool {
	return it.Status == git.StatusDirty
}

// Label is the branch name or "detached".
func (it Item) Label() string {
	return it.Worktree.DisplayBranch()
}

// Markers returns the bracketed status markers, e.g. "[* ↑2 ↓1]", or "".
func (it Item) Markers() string {
	var parts []string
	if it.Dirty() {
		parts = append(parts, "*")
	}
	if it.Sync != nil {
		if it.Sync.Ahead > 0 {
			parts = append(parts, fmt.Sprintf("↑%d", it.Sync.Ahead))
		}
		if it.Sync.Behind > 0 {
			parts = append(parts, fmt.Sprintf("↓%d", it.Sync.Behind))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Description is "(main) <dir> [markers] • <note>", omitting empty parts.
func (it Item) Description() string {
	var parts []string
	if it.Worktree.IsMain {
		parts = append(parts, "(main)")
	}
	parts = append(parts, filepath.Base(it.Worktree.Path))
	if m := it.Markers(); m != "" {
		parts = append(parts, m)
	}
	if it.Note != "" {
		parts = append(parts, "• "+it.Note)
	}
	return strings.Join(parts, " ")
}

// Tooltip is the multi-line detail text.
func (it Item) Tooltip() string {
	var lines []string
	if it.Worktree.Branch != "" {
		lines = append(lines, "Branch: "+it.Worktree.Branch)
	}
	lines = append(lines, "Path: "+it.Worktree.Path)
	lines = append(lines, "Commit: "+it.Worktree.ShortCommit())
	if it.Dirty() {
		lines = append(lines, "Status: Uncommitted changes")
	} else {
		lines = append(lines, "Status: Clean")
	}
	if it.Sync != nil {
		if it.Sync.Ahead > 0 || it.Sync.Behind > 0 {
			lines = append(lines, fmt.Sprintf("Sync: %d ahead, %d behind", it.Sync.Ahead, it.Sync.Behind))
		} else {
			lines = append(lines, "Sync: Up to date")
		}
	}
	if it.Note != "" {
		lines = append(lines, "Note: "+it.Note)
	}
	if it.Worktree.IsMain {
		lines = append(lines, "(Main worktree)")
	}
	return strings.Join(lines, "\n")
}

// Icon returns the icon name: home for main, file-submodule when dirty,
// git-branch otherwise.
func (it Item) Icon() string {
	switch {
	case it.Worktree.IsMain:
		return "home"
	case it.Dirty():
		return "file-submodule"
	default:
		return "git-branch"
	}
}

// Color is "orange" for dirty worktrees.
func (it Item) Color() string {
	if it.Dirty() {
		return "orange"
	}
	return ""
}

// Node converts the item to a tree node.
func (it Item) Node() *tree.Node {
	return &tree.Node{
		Label:       it.Label(),
		Description: it.Description(),
		Tooltip:     it.Tooltip(),
		Icon:        it.Icon(),
		Color:       it.Color(),
		Kind:        "worktree",
		Path:        it.Worktree.Path,
	}
}
