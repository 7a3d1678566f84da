package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/raphi011/wtm/internal/git"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func names(deps []Dependency) string {
	var out []string
	for _, d := range deps {
		out = append(out, d.Name+"@"+d.Version)
	}
	return strings.Join(out, ",")
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		content  string
		wantDeps string
		wantDev  string
	}{
		{
			name:     "package.json",
			file:     PackageJSON,
			content:  `{"dependencies":{"react":"^18.0.0","axios":"1.6.0"},"devDependencies":{"jest":"29"}}`,
			wantDeps: "axios@1.6.0,react@^18.0.0",
			wantDev:  "jest@29",
		},
		{
			name: "go.mod",
			file: GoMod,
			content: `module example.com/app

go 1.22

require (
	github.com/spf13/cobra v1.8.0
	golang.org/x/sys v0.20.0 // indirect
)
`,
			wantDeps: "github.com/spf13/cobra@v1.8.0",
			wantDev:  "golang.org/x/sys@v0.20.0",
		},
		{
			name: "Cargo.toml",
			file: CargoToml,
			content: `[package]
name = "app"

[dependencies]
serde = { version = "1.0", features = ["derive"] }
anyhow = "1"
local = { path = "../local" }

[dev-dependencies]
insta = "1.34"
`,
			wantDeps: "anyhow@1,local@,serde@1.0",
			wantDev:  "insta@1.34",
		},
		{
			name: "pubspec.yaml",
			file: Pubspec,
			content: `name: app
dependencies:
  flutter:
    sdk: flutter
  http: ^1.1.0
dev_dependencies:
  flutter_test:
    sdk: flutter
`,
			wantDeps: "flutter@,http@^1.1.0",
			wantDev:  "flutter_test@",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			wd, err := Parse(dir)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if wd.Manifest != tt.file {
				t.Errorf("Manifest = %q, want %q", wd.Manifest, tt.file)
			}
			if got := names(wd.Dependencies); got != tt.wantDeps {
				t.Errorf("Dependencies = %s, want %s", got, tt.wantDeps)
			}
			if got := names(wd.DevDependencies); got != tt.wantDev {
				t.Errorf("DevDependencies = %s, want %s", got, tt.wantDev)
			}
		})
	}
}

func TestParse_NoManifest(t *testing.T) {
	t.Parallel()

	wd, err := Parse(t.TempDir())
	if err != nil || wd != nil {
		t.Errorf("Parse(empty) = %+v, %v; want nil, nil", wd, err)
	}
}

func TestParse_FirstManifestWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, GoMod, "module x\n")
	writeFile(t, dir, PackageJSON, `{"dependencies":{"a":"1"}}`)

	wd, err := Parse(dir)
	if err != nil {
		t.Fatal(err)
	}
	if wd.Manifest != PackageJSON {
		t.Errorf("Manifest = %q, want package.json", wd.Manifest)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, PackageJSON, `{not json`)
	if _, err := Parse(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mk := func(name, content string) git.Worktree {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if content != "" {
			writeFile(t, dir, PackageJSON, content)
		}
		return git.Worktree{Path: dir, Branch: name}
	}

	wts := []git.Worktree{
		mk("a", `{"dependencies":{"react":"18","lodash":"4"}}`),
		mk("b", `{"dependencies":{"react":"17"},"devDependencies":{"lodash":"4"}}`),
		mk("c", `{"dependencies":{"vue":"3"},"devDependencies":{"react":"18"}}`),
		mk("none", ""),
		mk("broken", `{`),
	}

	all := Build(context.Background(), wts)
	if len(all) != 3 {
		t.Fatalf("Build() returned %d entries, want 3", len(all))
	}

	shared := map[string][]string{}
	for _, wd := range all {
		shared[wd.Worktree.Branch] = wd.SharedWith
	}
	want := map[string][]string{
		"a": {wts[1].Path},
		"b": {wts[0].Path},
		"c": nil,
	}
	if !reflect.DeepEqual(shared, want) {
		t.Errorf("SharedWith = %v, want %v", shared, want)
	}
}

func TestNodes(t *testing.T) {
	t.Parallel()

	var many []Dependency
	for i := range 12 {
		many = append(many, Dependency{Name: fmt.Sprintf("dep%02d", i)})
	}
	all := []WorktreeDependencies{
		{
			Worktree:        git.Worktree{Path: "/wt/a", Branch: "a"},
			Manifest:        PackageJSON,
			Dependencies:    many,
			DevDependencies: []Dependency{{Name: "jest"}},
			SharedWith:      []string{"/wt/b", "/wt/c"},
		},
		{
			Worktree: git.Worktree{Path: "/wt/empty"},
			Manifest: GoMod,
		},
	}

	nodes := Nodes(all)
	a := nodes[0]
	if a.Label != "a" || a.Description != "12 deps" || a.Icon != "file-directory" {
		t.Errorf("worktree node = %+v", a)
	}
	if len(a.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(a.Children))
	}
	if a.Children[0].Label != "Dependencies (12)" || len(a.Children[0].Children) != MaxListed {
		t.Errorf("dependencies section = %+v", a.Children[0])
	}
	if a.Children[1].Label != "Dev Dependencies (1)" {
		t.Errorf("dev section = %+v", a.Children[1])
	}
	if a.Children[2].Label != "Shared with 2 worktrees" || a.Children[2].Icon != "link" {
		t.Errorf("shared node = %+v", a.Children[2])
	}

	empty := nodes[1]
	if empty.Label != "detached" || len(empty.Children) != 0 || empty.Description != "0 deps" {
		t.Errorf("empty node = %+v", empty)
	}
}
