// Package health scores worktrees by how much attention they need.
//
// Every worktree starts at 100 and loses points for uncommitted changes,
// falling behind its upstream and being merged but not cleaned up. Reports
// are sorted worst first.
package health

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
)

const (
	// OldChangesDays flags uncommitted changes sitting on an idle branch.
	OldChangesDays = 7
	// InactiveDays flags worktrees without commits for this long.
	InactiveDays = 14
	// BehindThreshold is the behind count that turns a warning into an error.
	BehindThreshold = 50
	// behindWarning is the behind count that starts a warning.
	behindWarning = 10
	// aheadInfo is the ahead count that suggests pushing.
	aheadInfo = 20
)

// Severity of an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one finding for a worktree.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Worktree string   `json:"worktree"`
}

// Report is the health of one worktree.
type Report struct {
	Worktree           git.Worktree `json:"worktree"`
	Score              int          `json:"score"`
	Issues             []Issue      `json:"issues"`
	UncommittedChanges bool         `json:"uncommitted_changes"`
	CommitsBehind      *int         `json:"commits_behind,omitempty"`
	LastActivity       *time.Time   `json:"last_activity,omitempty"`
	DaysSinceActivity  *int         `json:"days_since_activity,omitempty"`
}

// Band names the score range: pass (>= 80), warning (>= 50) or error.
func Band(score int) string {
	switch {
	case score >= 80:
		return "pass"
	case score >= 50:
		return "warning"
	default:
		return "error"
	}
}

// Source is the git access the monitor needs. *git.Client implements it.
type Source interface {
	ListWorktreesE(ctx context.Context) ([]git.Worktree, error)
	WorktreeStatus(ctx context.Context, path string) (git.Status, error)
	SyncStatus(ctx context.Context, path string) (*git.SyncStatus, error)
	IsMerged(ctx context.Context, wt git.Worktree) (bool, error)
	LastCommitTime(ctx context.Context, path string) (time.Time, error)
}

// Monitor analyzes worktree health.
type Monitor struct {
	src Source
	now func() time.Time
}

// NewMonitor returns a monitor reading from src.
func NewMonitor(src Source) *Monitor {
	return &Monitor{src: src, now: time.Now}
}

// Analyze scores a single worktree.
func (m *Monitor) Analyze(ctx context.Context, wt git.Worktree) (Report, error) {
	r := Report{Worktree: wt, Score: 100}
	add := func(sev Severity, msg string) {
		r.Issues = append(r.Issues, Issue{Severity: sev, Message: msg, Worktree: wt.Path})
	}

	status, err := m.src.WorktreeStatus(ctx, wt.Path)
	if err != nil {
		return r, err
	}
	if status == git.StatusDirty {
		r.UncommittedChanges = true
		add(SeverityWarning, "Has uncommitted changes")
		r.Score -= 10
	}

	sync, err := m.src.SyncStatus(ctx, wt.Path)
	if err != nil {
		return r, err
	}
	if sync != nil {
		behind := sync.Behind
		r.CommitsBehind = &behind
		switch {
		case sync.Behind > BehindThreshold:
			add(SeverityError, fmt.Sprintf("%d commits behind remote", sync.Behind))
			r.Score -= 30
		case sync.Behind > behindWarning:
			add(SeverityWarning, fmt.Sprintf("%d commits behind remote", sync.Behind))
			r.Score -= 15
		}
		if sync.Ahead > aheadInfo {
			add(SeverityInfo, fmt.Sprintf("%d commits ahead (consider pushing)", sync.Ahead))
		}
	}

	if !wt.IsMain {
		merged, err := m.src.IsMerged(ctx, wt)
		if err != nil {
			return r, err
		}
		if merged {
			add(SeverityInfo, "Branch has been merged (can be cleaned up)")
			r.Score -= 5
		}
	}

	// Activity is informational; a missing commit time is not a failure
	if last, err := m.src.LastCommitTime(ctx, wt.Path); err == nil {
		days := int(m.now().Sub(last).Hours() / 24)
		r.LastActivity = &last
		r.DaysSinceActivity = &days
		if days > InactiveDays {
			add(SeverityInfo, fmt.Sprintf("No activity for %d days", days))
		}
		if r.UncommittedChanges && days > OldChangesDays {
			add(SeverityInfo, fmt.Sprintf("Uncommitted changes on a branch idle for %d days", days))
		}
	}

	r.Score = max(0, r.Score)
	return r, nil
}

// AnalyzeAll scores every worktree, worst first. Worktrees that fail to
// analyze are logged and left out.
func (m *Monitor) AnalyzeAll(ctx context.Context) ([]Report, error) {
	wts, err := m.src.ListWorktreesE(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*Report, len(wts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, wt := range wts {
		g.Go(func() error {
			r, err := m.Analyze(gctx, wt)
			if err != nil {
				log.FromContext(ctx).Warnf("health check failed for %s: %v", wt.Path, err)
				return nil
			}
			results[i] = &r
			return nil
		})
	}
	_ = g.Wait()

	reports := make([]Report, 0, len(results))
	for _, r := range results {
		if r != nil {
			reports = append(reports, *r)
		}
	}
	slices.SortStableFunc(reports, func(a, b Report) int {
		return cmp.Compare(a.Score, b.Score)
	})
	return reports, nil
}
