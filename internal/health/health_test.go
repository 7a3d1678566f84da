package health

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/raphi011/wtm/internal/git"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeWorktree struct {
	status     git.Status
	sync       *git.SyncStatus
	merged     bool
	lastCommit time.Time
	err        error
}

type fakeSource struct {
	worktrees []git.Worktree
	state     map[string]fakeWorktree
}

func (f *fakeSource) ListWorktreesE(context.Context) ([]git.Worktree, error) {
	return f.worktrees, nil
}

func (f *fakeSource) WorktreeStatus(_ context.Context, path string) (git.Status, error) {
	s := f.state[path]
	return s.status, s.err
}

func (f *fakeSource) SyncStatus(_ context.Context, path string) (*git.SyncStatus, error) {
	return f.state[path].sync, nil
}

func (f *fakeSource) IsMerged(_ context.Context, wt git.Worktree) (bool, error) {
	return f.state[wt.Path].merged, nil
}

func (f *fakeSource) LastCommitTime(_ context.Context, path string) (time.Time, error) {
	s := f.state[path]
	if s.lastCommit.IsZero() {
		return time.Time{}, errors.New("no commits")
	}
	return s.lastCommit, nil
}

func newTestMonitor(src Source) *Monitor {
	m := NewMonitor(src)
	m.now = func() time.Time { return testNow }
	return m
}

func messages(r Report) []string {
	var out []string
	for _, i := range r.Issues {
		out = append(out, string(i.Severity)+":"+i.Message)
	}
	return out
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	recent := testNow.Add(-time.Hour)
	tests := []struct {
		name      string
		wt        git.Worktree
		state     fakeWorktree
		wantScore int
		wantMsgs  []string
	}{
		{
			name:      "clean and current",
			wt:        git.Worktree{Path: "/a", Branch: "a"},
			state:     fakeWorktree{status: git.StatusClean, lastCommit: recent},
			wantScore: 100,
		},
		{
			name:      "dirty",
			wt:        git.Worktree{Path: "/a", Branch: "a"},
			state:     fakeWorktree{status: git.StatusDirty, lastCommit: recent},
			wantScore: 90,
			wantMsgs:  []string{"warning:Has uncommitted changes"},
		},
		{
			name:      "behind warning",
			wt:        git.Worktree{Path: "/a", Branch: "a"},
			state:     fakeWorktree{status: git.StatusClean, sync: &git.SyncStatus{Behind: 11}, lastCommit: recent},
			wantScore: 85,
			wantMsgs:  []string{"warning:11 commits behind remote"},
		},
		{
			name:      "behind exactly ten is fine",
			wt:        git.Worktree{Path: "/a", Branch: "a"},
			state:     fakeWorktree{status: git.StatusClean, sync: &git.SyncStatus{Behind: 10}, lastCommit: recent},
			wantScore: 100,
		},
		{
			name:      "behind error",
			wt:        git.Worktree{Path: "/a", Branch: "a"},
			state:     fakeWorktree{status: git.StatusClean, sync: &git.SyncStatus{Behind: 51}, lastCommit: recent},
			wantScore: 70,
			wantMsgs:  []string{"error:51 commits behind remote"},
		},
		{
			name:      "ahead info does not cost points",
			wt:        git.Worktree{Path: "/a", Branch: "a"},
			state:     fakeWorktree{status: git.StatusClean, sync: &git.SyncStatus{Ahead: 21}, lastCommit: recent},
			wantScore: 100,
			wantMsgs:  []string{"info:21 commits ahead (consider pushing)"},
		},
		{
			name:      "merged linked worktree",
			wt:        git.Worktree{Path: "/a", Branch: "a"},
			state:     fakeWorktree{status: git.StatusClean, merged: true, lastCommit: recent},
			wantScore: 95,
			wantMsgs:  []string{"info:Branch has been merged (can be cleaned up)"},
		},
		{
			name:      "main is never reported merged",
			wt:        git.Worktree{Path: "/a", Branch: "main", IsMain: true},
			state:     fakeWorktree{status: git.StatusClean, merged: true, lastCommit: recent},
			wantScore: 100,
		},
		{
			name:      "inactive",
			wt:        git.Worktree{Path: "/a", Branch: "a"},
			state:     fakeWorktree{status: git.StatusClean, lastCommit: testNow.Add(-20 * 24 * time.Hour)},
			wantScore: 100,
			wantMsgs:  []string{"info:No activity for 20 days"},
		},
		{
			name:      "old uncommitted changes",
			wt:        git.Worktree{Path: "/a", Branch: "a"},
			state:     fakeWorktree{status: git.StatusDirty, lastCommit: testNow.Add(-8 * 24 * time.Hour)},
			wantScore: 90,
			wantMsgs:  []string{"warning:Has uncommitted changes", "info:Uncommitted changes on a branch idle for 8 days"},
		},
		{
			name: "everything wrong",
			wt:   git.Worktree{Path: "/a", Branch: "a"},
			state: fakeWorktree{
				status:     git.StatusDirty,
				sync:       &git.SyncStatus{Behind: 100, Ahead: 30},
				merged:     true,
				lastCommit: recent,
			},
			wantScore: 55,
			wantMsgs: []string{
				"warning:Has uncommitted changes",
				"error:100 commits behind remote",
				"info:30 commits ahead (consider pushing)",
				"info:Branch has been merged (can be cleaned up)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := &fakeSource{state: map[string]fakeWorktree{tt.wt.Path: tt.state}}
			r, err := newTestMonitor(src).Analyze(context.Background(), tt.wt)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if r.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", r.Score, tt.wantScore)
			}
			got := strings.Join(messages(r), "|")
			if want := strings.Join(tt.wantMsgs, "|"); got != want {
				t.Errorf("issues = %q, want %q", got, want)
			}
		})
	}
}

func TestAnalyze_ReportFields(t *testing.T) {
	t.Parallel()

	wt := git.Worktree{Path: "/a", Branch: "a"}
	src := &fakeSource{state: map[string]fakeWorktree{"/a": {
		status:     git.StatusDirty,
		sync:       &git.SyncStatus{Behind: 3},
		lastCommit: testNow.Add(-48 * time.Hour),
	}}}
	r, _ := newTestMonitor(src).Analyze(context.Background(), wt)
	if !r.UncommittedChanges {
		t.Error("UncommittedChanges = false")
	}
	if r.CommitsBehind == nil || *r.CommitsBehind != 3 {
		t.Errorf("CommitsBehind = %v", r.CommitsBehind)
	}
	if r.DaysSinceActivity == nil || *r.DaysSinceActivity != 2 {
		t.Errorf("DaysSinceActivity = %v", r.DaysSinceActivity)
	}
}

func TestAnalyzeAll(t *testing.T) {
	t.Parallel()

	recent := testNow.Add(-time.Hour)
	src := &fakeSource{
		worktrees: []git.Worktree{
			{Path: "/main", Branch: "main", IsMain: true},
			{Path: "/behind", Branch: "behind"},
			{Path: "/broken", Branch: "broken"},
			{Path: "/dirty", Branch: "dirty"},
			{Path: "/dirty2", Branch: "dirty2"},
		},
		state: map[string]fakeWorktree{
			"/main":   {status: git.StatusClean, lastCommit: recent},
			"/behind": {status: git.StatusClean, sync: &git.SyncStatus{Behind: 60}, lastCommit: recent},
			"/broken": {err: errors.New("status failed")},
			"/dirty":  {status: git.StatusDirty, lastCommit: recent},
			"/dirty2": {status: git.StatusDirty, lastCommit: recent},
		},
	}

	reports, err := newTestMonitor(src).AnalyzeAll(context.Background())
	if err != nil {
		t.Fatalf("AnalyzeAll() error = %v", err)
	}
	var order []string
	for _, r := range reports {
		order = append(order, r.Worktree.Branch)
	}
	if got := strings.Join(order, ","); got != "behind,dirty,dirty2,main" {
		t.Errorf("order = %s, want worst first with stable ties", got)
	}
}

func TestBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  string
	}{
		{100, "pass"},
		{80, "pass"},
		{79, "warning"},
		{50, "warning"},
		{49, "error"},
		{0, "error"},
	}
	for _, tt := range tests {
		if got := Band(tt.score); got != tt.want {
			t.Errorf("Band(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestNodes(t *testing.T) {
	t.Parallel()

	reports := []Report{{
		Worktree: git.Worktree{Path: "/wt/x"},
		Score:    45,
		Issues:   []Issue{{Severity: SeverityError, Message: "60 commits behind remote", Worktree: "/wt/x"}},
	}}
	nodes := Nodes(reports)
	if len(nodes) != 1 {
		t.Fatalf("len(nodes) = %d", len(nodes))
	}
	n := nodes[0]
	if n.Label != "detached (Score: 45)" || n.Icon != "error" || n.Color != "red" {
		t.Errorf("node = %+v", n)
	}
	if n.Tooltip != "Health Score: 45/100\n1 issues" {
		t.Errorf("Tooltip = %q", n.Tooltip)
	}
	if len(n.Children) != 1 || n.Children[0].Icon != "error" {
		t.Errorf("children = %+v", n.Children)
	}
}
