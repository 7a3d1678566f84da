// Package settings keeps editor settings files consistent across worktrees.
//
// The file list comes from the settings_files config key and is relative
// to each worktree root.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/raphi011/wtm/internal/storage"
)

// SyncResult counts per-target copies.
type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// Diff reports whether one settings file differs between two worktrees.
type Diff struct {
	File      string `json:"file"`
	Different bool   `json:"different"`
}

// Syncer copies and compares a fixed set of settings files.
type Syncer struct {
	files []string
}

// New creates a Syncer for files (paths relative to a worktree root).
func New(files []string) *Syncer {
	return &Syncer{files: files}
}

// Files returns the managed settings files.
func (s *Syncer) Files() []string {
	return s.files
}

// Sync copies every settings file present in source to each target.
// report, if non-nil, is called after each successful copy.
func (s *Syncer) Sync(source string, targets []string, report func(string)) SyncResult {
	var res SyncResult
	for _, file := range s.files {
		src := filepath.Join(source, file)
		if !exists(src) {
			continue
		}
		for _, target := range targets {
			if err := storage.CopyFile(src, filepath.Join(target, file)); err != nil {
				res.Failed++
				continue
			}
			res.Synced++
			if report != nil {
				report(fmt.Sprintf("Synced %s to %s", filepath.Base(file), filepath.Base(target)))
			}
		}
	}
	return res
}

// Compare checks each settings file in a and b. Files missing on both
// sides are omitted; a file present on one side only is different.
func (s *Syncer) Compare(a, b string) ([]Diff, error) {
	var diffs []Diff
	for _, file := range s.files {
		h1, ok1, err := digest(filepath.Join(a, file))
		if err != nil {
			return nil, err
		}
		h2, ok2, err := digest(filepath.Join(b, file))
		if err != nil {
			return nil, err
		}
		if !ok1 && !ok2 {
			continue
		}
		diffs = append(diffs, Diff{File: file, Different: ok1 != ok2 || h1 != h2})
	}
	return diffs, nil
}

// digest returns the xxhash of the file content, and false if it is missing.
func digest(path string) (uint64, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return xxhash.Sum64(data), true, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
