// Package transfer moves uncommitted changes from one worktree to another.
//
// Each file is copied into the target, optionally staged there, and then
// discarded in the source: unstaged from the index, and either deleted
// (new files) or restored from HEAD (modified files). A renamed file
// arrives in the target under its new name; in the source the rename is
// undone.
package transfer

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/raphi011/wtm/internal/git"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/storage"
)

// Decision is the answer to an overwrite prompt.
type Decision int

const (
	No Decision = iota
	Yes
	YesToAll
)

// Git is the subset of git operations a transfer needs.
type Git interface {
	AddFile(ctx context.Context, path, file string) error
	ResetFile(ctx context.Context, path, file string) error
	CheckoutFile(ctx context.Context, path, file string) error
}

// Options controls a transfer.
type Options struct {
	// Overwrite is asked when a file already exists in the target.
	// Nil means overwrite without asking.
	Overwrite func(file string) Decision
	// AutoStage stages files in the target that were staged in the source.
	AutoStage bool
}

// Result counts per-file outcomes.
type Result struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Candidates returns the changes that can be transferred.
// Deleted files have nothing to copy and are dropped.
func Candidates(files []git.FileChange) []git.FileChange {
	var out []git.FileChange
	for _, f := range files {
		if f.Status == git.ChangeDeleted {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Transfer moves files from the worktree at src to the one at dst.
// Files are processed in order; one failure does not stop the rest.
func Transfer(ctx context.Context, g Git, src, dst string, files []git.FileChange, opts Options) Result {
	l := log.FromContext(ctx)
	ask := opts.Overwrite
	var res Result

	for _, f := range files {
		if ctx.Err() != nil {
			res.Failed++
			continue
		}
		target := filepath.Join(dst, f.Path)

		if ask != nil && fileExists(target) {
			switch ask(f.Path) {
			case No:
				res.Skipped++
				continue
			case YesToAll:
				ask = nil
			}
		}

		if err := move(ctx, g, src, dst, f, opts.AutoStage); err != nil {
			l.Warnf("failed to transfer %s: %v", f.Path, err)
			res.Failed++
			continue
		}
		res.Success++
	}
	return res
}

func move(ctx context.Context, g Git, src, dst string, f git.FileChange, autoStage bool) error {
	if err := storage.CopyFile(filepath.Join(src, f.Path), filepath.Join(dst, f.Path)); err != nil {
		return err
	}

	if f.Staged && autoStage {
		if err := g.AddFile(ctx, dst, f.Path); err != nil {
			return err
		}
	}
	if f.Status == git.ChangeRenamed && f.OrigPath != "" {
		return undoRename(ctx, g, src, f)
	}
	if f.Staged {
		if err := g.ResetFile(ctx, src, f.Path); err != nil {
			return err
		}
	}

	// After the reset a staged new file is untracked again, so it is
	// removed like any other untracked file.
	if f.Status == git.ChangeUntracked || f.Status == git.ChangeAdded {
		if err := os.Remove(filepath.Join(src, f.Path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	return g.CheckoutFile(ctx, src, f.Path)
}

// undoRename puts the source back to HEAD for both sides of a rename: the
// new path is unstaged and deleted, the old path restored.
func undoRename(ctx context.Context, g Git, src string, f git.FileChange) error {
	for _, p := range []string{f.Path, f.OrigPath} {
		if err := g.ResetFile(ctx, src, p); err != nil {
			return err
		}
	}
	if err := os.Remove(filepath.Join(src, f.Path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return g.CheckoutFile(ctx, src, f.OrigPath)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
