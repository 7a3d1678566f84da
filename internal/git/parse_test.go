package git

import (
	"reflect"
	"testing"
)

func TestParseWorktreeList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   []Worktree
	}{
		{
			name:   "empty",
			output: "",
			want:   nil,
		},
		{
			name: "main and linked",
			output: "worktree /repo\nHEAD aaaa\nbranch refs/heads/main\n\n" +
				"worktree /wt/feature\nHEAD bbbb\nbranch refs/heads/feature/x\n\n",
			want: []Worktree{
				{Path: "/repo", Commit: "aaaa", Branch: "main", IsMain: true},
				{Path: "/wt/feature", Commit: "bbbb", Branch: "feature/x"},
			},
		},
		{
			name:   "detached without trailing blank line",
			output: "worktree /repo\nHEAD aaaa\nbranch refs/heads/main\n\nworktree /wt/d\nHEAD cccc\ndetached",
			want: []Worktree{
				{Path: "/repo", Commit: "aaaa", Branch: "main", IsMain: true},
				{Path: "/wt/d", Commit: "cccc"},
			},
		},
		{
			name:   "bare record skipped and next becomes main",
			output: "worktree /repo.git\nbare\n\nworktree /wt/a\nHEAD aaaa\nbranch refs/heads/a\n\n",
			want: []Worktree{
				{Path: "/wt/a", Commit: "aaaa", Branch: "a", IsMain: true},
			},
		},
		{
			name: "locked and prunable",
			output: "worktree /repo\nHEAD aaaa\nbranch refs/heads/main\n\n" +
				"worktree /wt/l\nHEAD bbbb\nbranch refs/heads/l\nlocked reason here\n\n" +
				"worktree /wt/p\nHEAD cccc\nbranch refs/heads/p\nprunable gitdir file points to non-existent location\n",
			want: []Worktree{
				{Path: "/repo", Commit: "aaaa", Branch: "main", IsMain: true},
				{Path: "/wt/l", Commit: "bbbb", Branch: "l", Locked: true},
				{Path: "/wt/p", Commit: "cccc", Branch: "p", Prunable: true},
			},
		},
		{
			name:   "record without commit dropped",
			output: "worktree /repo\nHEAD aaaa\nbranch refs/heads/main\n\nworktree /broken\n\n",
			want: []Worktree{
				{Path: "/repo", Commit: "aaaa", Branch: "main", IsMain: true},
			},
		},
		{
			name:   "windows line endings",
			output: "worktree /repo\r\nHEAD aaaa\r\nbranch refs/heads/main\r\n\r\n",
			want: []Worktree{
				{Path: "/repo", Commit: "aaaa", Branch: "main", IsMain: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseWorktreeList(tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseWorktreeList() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestWorktree_Display(t *testing.T) {
	t.Parallel()

	wt := Worktree{Commit: "0123456789abcdef"}
	if wt.DisplayBranch() != "detached" {
		t.Errorf("DisplayBranch() = %q, want detached", wt.DisplayBranch())
	}
	if wt.ShortCommit() != "01234567" {
		t.Errorf("ShortCommit() = %q", wt.ShortCommit())
	}
	wt.Branch = "main"
	if wt.DisplayBranch() != "main" {
		t.Errorf("DisplayBranch() = %q, want main", wt.DisplayBranch())
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	output := " M modified.go\x00" +
		"M  staged.go\x00" +
		"A  added.go\x00" +
		" D deleted.go\x00" +
		"D  staged-deleted.go\x00" +
		"R  new.go\x00old.go\x00" +
		"C  copy.go\x00src.go\x00" +
		"?? untracked.txt\x00" +
		"?? my notes.txt\x00" +
		"A  dir/\"quoted\" -> arrow.txt\x00" +
		"MM both.go\x00" +
		"x\x00"

	want := []FileChange{
		{Path: "modified.go", Status: ChangeModified},
		{Path: "staged.go", Status: ChangeModified, Staged: true},
		{Path: "added.go", Status: ChangeAdded, Staged: true},
		{Path: "deleted.go", Status: ChangeDeleted},
		{Path: "staged-deleted.go", Status: ChangeDeleted, Staged: true},
		{Path: "new.go", OrigPath: "old.go", Status: ChangeRenamed, Staged: true},
		{Path: "copy.go", Status: ChangeAdded, Staged: true},
		{Path: "untracked.txt", Status: ChangeUntracked},
		{Path: "my notes.txt", Status: ChangeUntracked},
		{Path: `dir/"quoted" -> arrow.txt`, Status: ChangeAdded, Staged: true},
		{Path: "both.go", Status: ChangeModified, Staged: true},
	}

	got := ParseStatus(output)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseStatus() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestParseBranchLines(t *testing.T) {
	t.Parallel()

	output := "main\n\"feature/a\"\n\norigin/HEAD\norigin/main\n  \n"
	want := []string{"main", "feature/a", "origin/main"}
	if got := parseBranchLines(output); !reflect.DeepEqual(got, want) {
		t.Errorf("parseBranchLines() = %v, want %v", got, want)
	}
}

func TestParseLeftRight(t *testing.T) {
	t.Parallel()

	got, err := parseLeftRight("3\t12\n")
	if err != nil {
		t.Fatalf("parseLeftRight() error = %v", err)
	}
	if got.Ahead != 3 || got.Behind != 12 {
		t.Errorf("parseLeftRight() = %+v", got)
	}

	for _, bad := range []string{"", "1", "a\tb", "1\tb"} {
		if _, err := parseLeftRight(bad); err == nil {
			t.Errorf("parseLeftRight(%q) expected error", bad)
		}
	}
}

func TestParseGrep(t *testing.T) {
	t.Parallel()

	output := "main.go:12:func main() {\nREADME.md:3:a: b: c\nbroken line\nx.go:nan:text\n"
	want := []GrepMatch{
		{File: "main.go", Line: 12, Text: "func main() {"},
		{File: "README.md", Line: 3, Text: "a: b: c"},
	}
	if got := parseGrep(output); !reflect.DeepEqual(got, want) {
		t.Errorf("parseGrep() = %+v, want %+v", got, want)
	}
}

func TestParseBranchNotes(t *testing.T) {
	t.Parallel()

	output := "branch.feature-x.description Note text here\n" +
		"branch.fix/y.description short\n" +
		"branch.main.merge refs/heads/main\n" +
		"branch..description empty-name\n"
	got := parseBranchNotes(output, map[string]string{})
	want := map[string]string{"feature-x": "Note text here", "fix/y": "short"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseBranchNotes() = %v, want %v", got, want)
	}
}
