package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raphi011/wtm/internal/config"
	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/health"
	"github.com/raphi011/wtm/internal/hooks"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/state"
	"github.com/raphi011/wtm/internal/templates"
	"github.com/raphi011/wtm/internal/timeline"
	"github.com/raphi011/wtm/internal/view"
)

// workspace bundles what most commands need: the repository containing the
// working directory, its effective config and its state database.
type workspace struct {
	client  *git.Client
	cfg     *config.Config
	workDir string

	mu    sync.Mutex // guards store
	store *state.Store
}

// configFrom returns the config attached to ctx, or the defaults.
func configFrom(ctx context.Context) *config.Config {
	if cfg := config.FromContext(ctx); cfg != nil {
		return cfg
	}
	d := config.Default()
	return &d
}

// openWorkspace opens the repository containing the working directory.
// The .wtm.toml of the main worktree is merged over the global config.
func openWorkspace(ctx context.Context) (*workspace, error) {
	workDir := config.WorkDirFromContext(ctx)
	client, err := git.Open(ctx, workDir)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return nil, fmt.Errorf("not in a git repository: %s", workDir)
		}
		return nil, err
	}

	cfg := configFrom(ctx)
	local, err := config.LoadLocal(client.Root())
	if err != nil {
		log.FromContext(ctx).Warnf("%v (using global config)", err)
	}
	cfg = config.MergeLocal(cfg, local)

	return &workspace{client: client, cfg: cfg, workDir: workDir}, nil
}

// state opens the state database on first use.
func (w *workspace) state(ctx context.Context) (*state.Store, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.store != nil {
		return w.store, nil
	}
	dir, err := w.cfg.ResolvedStateDir()
	if err != nil {
		return nil, fmt.Errorf("resolve state dir: %w", err)
	}
	s, err := state.Open(ctx, dir, w.client.Root())
	if err != nil {
		return nil, err
	}
	w.store = s
	return s, nil
}

// Close releases the state database.
func (w *workspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.store == nil {
		return nil
	}
	return w.store.Close()
}

func (w *workspace) hooks() *hooks.Runner {
	return hooks.NewRunner(w.cfg.Hooks)
}

func (w *workspace) timeline(ctx context.Context) (*timeline.Timeline, error) {
	s, err := w.state(ctx)
	if err != nil {
		return nil, err
	}
	return timeline.New(s), nil
}

func (w *workspace) templates(ctx context.Context) (*templates.Manager, error) {
	s, err := w.state(ctx)
	if err != nil {
		return nil, err
	}
	return templates.NewManager(s), nil
}

func (w *workspace) monitor() *health.Monitor {
	return health.NewMonitor(w.client)
}

// record adds a timeline event. Failures are logged, never returned: the
// git operation already succeeded.
func (w *workspace) record(ctx context.Context, typ timeline.EventType, path, branch string) {
	tl, err := w.timeline(ctx)
	if err == nil {
		_, err = tl.Record(ctx, typ, path, branch)
	}
	if err != nil {
		log.FromContext(ctx).Warnf("timeline: %v", err)
	}
}

// provider returns a view provider with notes and recent paths loaded.
func (w *workspace) provider(ctx context.Context) *view.Provider {
	p := view.NewProvider(w.client, w.cfg.SortOrder)
	p.SetNotes(w.client.AllBranchNotes(ctx))
	if s, err := w.state(ctx); err == nil {
		if recent, err := s.RecentPaths(ctx); err == nil {
			p.SetRecentPaths(recent)
		}
	} else {
		log.FromContext(ctx).Debug("state unavailable", "err", err)
	}
	return p
}

// withWorkspace opens the workspace, runs fn and closes it.
func withWorkspace(ctx context.Context, fn func(ws *workspace) error) error {
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()
	return fn(ws)
}
