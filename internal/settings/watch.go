package settings

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/raphi011/wtm/internal/log"
)

// DebounceDelay is how long Watch waits for writes to settle.
const DebounceDelay = 100 * time.Millisecond

// Watch calls onChange with the relative settings file path after it is
// written or created under root. Bursts of events per file are debounced.
// Directories of the settings files that don't exist yet are picked up
// when created. Blocks until ctx is cancelled.
func (s *Syncer) Watch(ctx context.Context, root string, onChange func(file string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := map[string]bool{}
	addDirs := func() {
		for _, dir := range s.dirs(root) {
			if watched[dir] {
				continue
			}
			if err := w.Add(dir); err == nil {
				watched[dir] = true
			}
		}
	}
	if err := w.Add(root); err != nil {
		return err
	}
	watched[root] = true
	addDirs()

	l := log.FromContext(ctx)
	pending := map[string]bool{}
	timer := time.NewTimer(DebounceDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				addDirs()
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil || !slices.Contains(s.files, filepath.ToSlash(rel)) {
				continue
			}
			pending[filepath.ToSlash(rel)] = true
			timer.Reset(DebounceDelay)

		case <-timer.C:
			for _, file := range s.files {
				if pending[file] {
					onChange(file)
				}
			}
			clear(pending)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.Warnf("settings watcher: %v", err)
		}
	}
}

// dirs returns the distinct parent directories of the settings files.
func (s *Syncer) dirs(root string) []string {
	var out []string
	for _, f := range s.files {
		d := filepath.Join(root, filepath.Dir(f))
		if d != root && !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}
