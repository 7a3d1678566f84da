// Package watch reports changes to a repository's worktree metadata.
//
// It watches <common-dir>/worktrees (and each linked worktree's admin dir
// inside it) plus HEAD and index of the current git dir. Git replaces
// these files by renaming lock files, so the parent directories are
// watched and events are filtered by name.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
)

// DebounceDelay is how long the watcher waits for a burst of changes to settle.
const DebounceDelay = 100 * time.Millisecond

// Kind classifies a change.
type Kind int

const (
	WorktreesChanged Kind = iota
	HeadChanged
	IndexChanged
)

func (k Kind) String() string {
	switch k {
	case WorktreesChanged:
		return "worktrees"
	case HeadChanged:
		return "head"
	case IndexChanged:
		return "index"
	}
	return "unknown"
}

// Event is a debounced change notification.
type Event struct {
	Kind Kind
}

// Watcher delivers Events until Close is called.
type Watcher struct {
	fs           *fsnotify.Watcher
	gitDir       string
	commonDir    string
	worktreesDir string
	events       chan Event
	done         chan struct{}
	closeOnce    sync.Once
	wg           sync.WaitGroup
}

// New starts watching the repository containing path.
func New(ctx context.Context, path string) (*Watcher, error) {
	gitDir, err := git.GitDir(ctx, path)
	if err != nil {
		return nil, err
	}
	commonDir, err := git.CommonDir(ctx, path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:           fw,
		gitDir:       gitDir,
		commonDir:    commonDir,
		worktreesDir: filepath.Join(commonDir, "worktrees"),
		events:       make(chan Event, 16),
		done:         make(chan struct{}),
	}

	for _, dir := range []string{gitDir, commonDir} {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}
	w.addWorktreesDir()

	w.wg.Add(1)
	go w.loop(log.FromContext(ctx))
	return w, nil
}

// Events returns the channel of debounced events. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.events)
	})
	return err
}

// addWorktreesDir watches the worktrees dir and its admin subdirectories.
// A missing dir is picked up later when it is created.
func (w *Watcher) addWorktreesDir() {
	if err := w.fs.Add(w.worktreesDir); err != nil {
		return
	}
	entries, err := os.ReadDir(w.worktreesDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			_ = w.fs.Add(filepath.Join(w.worktreesDir, e.Name()))
		}
	}
}

// classify maps a filesystem path to the Kind it affects.
func (w *Watcher) classify(name string) (Kind, bool) {
	switch {
	case name == w.worktreesDir || strings.HasPrefix(name, w.worktreesDir+string(filepath.Separator)):
		return WorktreesChanged, true
	case name == filepath.Join(w.gitDir, "HEAD"):
		return HeadChanged, true
	case name == filepath.Join(w.gitDir, "index"):
		return IndexChanged, true
	}
	return 0, false
}

func (w *Watcher) loop(l *log.Logger) {
	defer w.wg.Done()

	pending := map[Kind]bool{}
	timer := time.NewTimer(DebounceDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if ev.Name == w.worktreesDir {
					w.addWorktreesDir()
				} else if filepath.Dir(ev.Name) == w.worktreesDir {
					_ = w.fs.Add(ev.Name)
				}
			}
			kind, ok := w.classify(ev.Name)
			if !ok {
				continue
			}
			pending[kind] = true
			timer.Reset(DebounceDelay)

		case <-timer.C:
			for _, k := range []Kind{WorktreesChanged, HeadChanged, IndexChanged} {
				if !pending[k] {
					continue
				}
				select {
				case w.events <- Event{Kind: k}:
				default:
					l.Debug("watch event dropped", "kind", k)
				}
			}
			clear(pending)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			l.Debug("watch error", "err", err)
		}
	}
}
