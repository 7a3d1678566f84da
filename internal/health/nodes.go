package health

import (
	"fmt"

	"github.com/raphi011/wtm/internal/tree"
)

// bandColor maps a score band to an icon color name.
var bandColor = map[string]string{
	"pass":    "green",
	"warning": "yellow",
	"error":   "red",
}

// Nodes converts reports into tree nodes: one per worktree with its issues
// as children.
func Nodes(reports []Report) []*tree.Node {
	nodes := make([]*tree.Node, 0, len(reports))
	for _, r := range reports {
		band := Band(r.Score)
		n := &tree.Node{
			Label:       fmt.Sprintf("%s (Score: %d)", r.Worktree.DisplayBranch(), r.Score),
			Description: r.Worktree.Path,
			Tooltip:     fmt.Sprintf("Health Score: %d/100\n%d issues", r.Score, len(r.Issues)),
			Icon:        band,
			Color:       bandColor[band],
			Kind:        "worktree",
			Path:        r.Worktree.Path,
		}
		for _, issue := range r.Issues {
			n.Children = append(n.Children, &tree.Node{
				Label: issue.Message,
				Icon:  string(issue.Severity),
				Kind:  "issue",
				Path:  r.Worktree.Path,
			})
		}
		nodes = append(nodes, n)
	}
	return nodes
}
