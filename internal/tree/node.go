// Package tree holds the display-neutral node model shared by the list
// views. Providers build nodes; the CLI renders them as text and the sidebar
// renders them as a navigable list.
package tree

// Node is one entry of a view.
type Node struct {
	Label       string
	Description string
	Tooltip     string
	Icon        string // icon name, resolved to a glyph by the renderer
	Color       string // icon color name, "" for the default
	Kind        string // provider-defined, e.g. "worktree", "section"
	Path        string // worktree path when the node stands for one
	Children    []*Node
	Expanded    bool
}

// HasChildren reports whether the node can be expanded.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Row is a visible node with its nesting depth.
type Row struct {
	Node  *Node
	Depth int
}

// Flatten lists the visible rows: every root, and the children of expanded
// nodes, depth first.
func Flatten(roots []*Node) []Row {
	var rows []Row
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			rows = append(rows, Row{Node: n, Depth: depth})
			if n.Expanded {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(roots, 0)
	return rows
}

// ExpandAll marks every node with children as expanded.
func ExpandAll(roots []*Node) {
	for _, n := range roots {
		if n.HasChildren() {
			n.Expanded = true
			ExpandAll(n.Children)
		}
	}
}
