package git

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxParallel bounds concurrent git processes when loading statuses.
const maxParallel = 8

// StatusEntry is the loaded status of one worktree.
type StatusEntry struct {
	Path   string
	Status Status
	Sync   *SyncStatus // nil when the branch has no upstream
}

// LoadWarning represents a non-fatal error encountered while loading a worktree.
type LoadWarning struct {
	Path string
	Err  error
}

// LoadStatuses fetches status and sync state for each worktree in parallel.
// Results keep the input order; failed worktrees are left out and reported as
// warnings. onEntry, if set, is called as each entry finishes (from the
// loading goroutine).
func (c *Client) LoadStatuses(ctx context.Context, worktrees []Worktree, onEntry func(StatusEntry)) ([]StatusEntry, []LoadWarning) {
	type result struct {
		entry   *StatusEntry
		warning *LoadWarning
	}
	results := make([]result, len(worktrees))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, wt := range worktrees {
		g.Go(func() error {
			status, err := c.WorktreeStatus(ctx, wt.Path)
			if err != nil {
				results[i] = result{warning: &LoadWarning{Path: wt.Path, Err: err}}
				return nil // Never fail - warnings are non-fatal
			}
			sync, err := c.SyncStatus(ctx, wt.Path)
			if err != nil {
				results[i] = result{warning: &LoadWarning{Path: wt.Path, Err: err}}
				return nil
			}
			entry := StatusEntry{Path: wt.Path, Status: status, Sync: sync}
			results[i] = result{entry: &entry}
			if onEntry != nil {
				onEntry(entry)
			}
			return nil
		})
	}

	_ = g.Wait() // Always nil - goroutines collect errors as warnings

	var entries []StatusEntry
	var warnings []LoadWarning
	for _, r := range results {
		if r.entry != nil {
			entries = append(entries, *r.entry)
		}
		if r.warning != nil {
			warnings = append(warnings, *r.warning)
		}
	}
	return entries, warnings
}
