package static

import (
	"strings"

	ltree "charm.land/lipgloss/v2/tree"

	"github.com/raphi011/wtm/internal/tree"
	"github.com/raphi011/wtm/internal/ui/styles"
)

// NodeLine renders a single node as "<glyph> label  description".
// The glyph takes the node color; the description is muted.
func NodeLine(n *tree.Node) string {
	var b strings.Builder
	if g := styles.ColoredSymbol(n.Icon, n.Color); g != "" {
		b.WriteString(g)
		b.WriteString(" ")
	}
	if n.Kind == "section" {
		b.WriteString(styles.Bold.Render(n.Label))
	} else {
		b.WriteString(n.Label)
	}
	if n.Description != "" {
		b.WriteString("  ")
		b.WriteString(styles.MutedStyle.Render(n.Description))
	}
	return b.String()
}

// RenderTree draws nodes and all their descendants with rounded
// connectors, ignoring the Expanded flag.
func RenderTree(nodes []*tree.Node) string {
	if len(nodes) == 0 {
		return ""
	}
	t := ltree.New().
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(styles.MutedStyle.PaddingRight(1))
	for _, n := range nodes {
		t.Child(subtree(n))
	}
	return t.String() + "\n"
}

func subtree(n *tree.Node) any {
	if !n.HasChildren() {
		return NodeLine(n)
	}
	t := ltree.Root(NodeLine(n)).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(styles.MutedStyle.PaddingRight(1))
	for _, c := range n.Children {
		t.Child(subtree(c))
	}
	return t
}
