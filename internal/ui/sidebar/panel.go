package sidebar

import (
	"context"
	"time"

	"github.com/raphi011/wtm/internal/tree"
)

// Panel is one tab of the sidebar.
type Panel struct {
	Title string
	Load  func(ctx context.Context) ([]*tree.Node, error)

	// Interval reloads the panel periodically when positive.
	Interval time.Duration
	// OnWatch reloads the panel when the repository watcher fires.
	OnWatch bool
}

// panelState is the runtime state of a panel.
type panelState struct {
	Panel
	nodes    []*tree.Node
	rows     []tree.Row
	cursor   int
	offset   int
	loading  bool
	loaded   bool
	err      error
	expanded map[string]bool // user toggles, reapplied after reloads
}

func nodeKey(n *tree.Node) string {
	return n.Kind + "\x00" + n.Label + "\x00" + n.Path
}

// setNodes replaces the nodes, keeping expand state and clamping the cursor.
func (p *panelState) setNodes(nodes []*tree.Node) {
	var apply func([]*tree.Node)
	apply = func(ns []*tree.Node) {
		for _, n := range ns {
			if v, ok := p.expanded[nodeKey(n)]; ok {
				n.Expanded = v
			}
			apply(n.Children)
		}
	}
	apply(nodes)
	p.nodes = nodes
	p.reflow()
}

func (p *panelState) reflow() {
	p.rows = tree.Flatten(p.nodes)
	if p.cursor >= len(p.rows) {
		p.cursor = max(0, len(p.rows)-1)
	}
}

func (p *panelState) current() *tree.Node {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return nil
	}
	return p.rows[p.cursor].Node
}

func (p *panelState) move(delta int) {
	if len(p.rows) == 0 {
		return
	}
	p.cursor = min(max(p.cursor+delta, 0), len(p.rows)-1)
}

func (p *panelState) toggle() {
	n := p.current()
	if n == nil || !n.HasChildren() {
		return
	}
	n.Expanded = !n.Expanded
	if p.expanded == nil {
		p.expanded = make(map[string]bool)
	}
	p.expanded[nodeKey(n)] = n.Expanded
	p.reflow()
}

// scroll keeps the cursor inside a window of height rows.
func (p *panelState) scroll(height int) {
	if height <= 0 {
		p.offset = 0
		return
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+height {
		p.offset = p.cursor - height + 1
	}
	p.offset = min(p.offset, max(0, len(p.rows)-height))
}
