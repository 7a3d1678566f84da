// Package graph reads dependency manifests from each worktree and reports
// which worktrees share dependencies.
//
// The first manifest found in a worktree root wins, in the order
// package.json, go.mod, Cargo.toml, pubspec.yaml.
package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/tree"
)

// MaxListed is how many dependency names a section node lists.
const MaxListed = 10

// Dependency is one declared dependency.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// WorktreeDependencies is the parsed manifest of one worktree.
type WorktreeDependencies struct {
	Worktree        git.Worktree `json:"worktree"`
	Manifest        string       `json:"manifest"`
	Dependencies    []Dependency `json:"dependencies"`
	DevDependencies []Dependency `json:"dev_dependencies"`
	SharedWith      []string     `json:"shared_with,omitempty"` // paths of worktrees sharing a runtime dependency
}

// Parse reads the first manifest present in dir. It returns nil, nil when
// dir has no manifest.
func Parse(dir string) (*WorktreeDependencies, error) {
	for _, name := range Manifests {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		deps, dev, err := parsers[name](data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s in %s: %w", name, dir, err)
		}
		return &WorktreeDependencies{Manifest: name, Dependencies: deps, DevDependencies: dev}, nil
	}
	return nil, nil
}

// Build parses each worktree's manifest. Worktrees without a manifest are
// skipped; parse errors are logged and the worktree skipped.
func Build(ctx context.Context, worktrees []git.Worktree) []WorktreeDependencies {
	var out []WorktreeDependencies
	for _, wt := range worktrees {
		deps, err := Parse(wt.Path)
		if err != nil {
			log.FromContext(ctx).Warnf("%v", err)
			continue
		}
		if deps == nil {
			continue
		}
		deps.Worktree = wt
		out = append(out, *deps)
	}
	linkShared(out)
	return out
}

// linkShared fills SharedWith using runtime dependencies only.
func linkShared(all []WorktreeDependencies) {
	names := make([]map[string]bool, len(all))
	for i, wd := range all {
		names[i] = make(map[string]bool, len(wd.Dependencies))
		for _, d := range wd.Dependencies {
			names[i][d.Name] = true
		}
	}
	for i := range all {
		all[i].SharedWith = nil
		for j := range all {
			if i == j {
				continue
			}
			for _, d := range all[i].Dependencies {
				if names[j][d.Name] {
					all[i].SharedWith = append(all[i].SharedWith, all[j].Worktree.Path)
					break
				}
			}
		}
	}
}

func sectionNode(label string, deps []Dependency, path string) *tree.Node {
	n := &tree.Node{Label: fmt.Sprintf("%s (%d)", label, len(deps)), Kind: "section", Path: path}
	for _, d := range deps[:min(len(deps), MaxListed)] {
		n.Children = append(n.Children, &tree.Node{
			Label:       d.Name,
			Description: d.Version,
			Icon:        "package",
			Kind:        "dependency",
			Path:        path,
		})
	}
	return n
}

// Nodes converts the graph into tree nodes: worktree, then its dependency
// sections and a shared-with marker.
func Nodes(all []WorktreeDependencies) []*tree.Node {
	nodes := make([]*tree.Node, 0, len(all))
	for _, wd := range all {
		path := wd.Worktree.Path
		n := &tree.Node{
			Label:       wd.Worktree.DisplayBranch(),
			Description: fmt.Sprintf("%d deps", len(wd.Dependencies)),
			Tooltip:     filepath.Join(path, wd.Manifest),
			Icon:        "file-directory",
			Kind:        "worktree",
			Path:        path,
		}
		if len(wd.Dependencies) > 0 {
			n.Children = append(n.Children, sectionNode("Dependencies", wd.Dependencies, path))
		}
		if len(wd.DevDependencies) > 0 {
			n.Children = append(n.Children, sectionNode("Dev Dependencies", wd.DevDependencies, path))
		}
		if len(wd.SharedWith) > 0 {
			n.Children = append(n.Children, &tree.Node{
				Label: fmt.Sprintf("Shared with %d worktrees", len(wd.SharedWith)),
				Icon:  "link",
				Kind:  "shared",
				Path:  path,
			})
		}
		nodes = append(nodes, n)
	}
	return nodes
}
