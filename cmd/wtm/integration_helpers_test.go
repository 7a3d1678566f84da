//go:build integration

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtm/internal/config"
	"github.com/raphi011/wtm/internal/log"
	"github.com/raphi011/wtm/internal/output"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// runGitCommand runs git in dir and returns its output.
func runGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return string(out)
}

// setupTestRepo creates a git repo on branch main with one commit in
// dir/name and returns its path.
func setupTestRepo(t *testing.T, dir, name string) string {
	t.Helper()
	dir = resolvePath(t, dir)

	repoPath := filepath.Join(dir, name)
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}
	runGitCommand(t, repoPath, "init", "-b", "main")
	runGitCommand(t, repoPath, "config", "user.email", "test@test.com")
	runGitCommand(t, repoPath, "config", "user.name", "Test User")
	runGitCommand(t, repoPath, "config", "commit.gpgsign", "false")

	writeFile(t, filepath.Join(repoPath, "README.md"), "# "+name+"\n")
	runGitCommand(t, repoPath, "add", "README.md")
	runGitCommand(t, repoPath, "commit", "-m", "Initial commit")
	return repoPath
}

// createTestWorktree adds a worktree for a new branch next to the repo.
func createTestWorktree(t *testing.T, repoPath, branch string) string {
	t.Helper()
	wtPath := filepath.Join(filepath.Dir(repoPath), strings.ReplaceAll(branch, "/", "-"))
	runGitCommand(t, repoPath, "worktree", "add", "-b", branch, wtPath)
	return wtPath
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// makeDirty creates an untracked file in a worktree.
func makeDirty(t *testing.T, wtPath string) {
	t.Helper()
	writeFile(t, filepath.Join(wtPath, "dirty.txt"), "uncommitted changes\n")
}

// getBranchNote reads the branch description, "" when unset.
func getBranchNote(t *testing.T, repoPath, branch string) string {
	t.Helper()
	cmd := exec.Command("git", "-C", repoPath, "config", "branch."+branch+".description")
	out, err := cmd.CombinedOutput()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return ""
		}
		t.Fatalf("failed to get branch note: %v\n%s", err, out)
	}
	return strings.TrimSpace(string(out))
}

// testEnv captures what a command prints.
type testEnv struct {
	ctx context.Context
	out *bytes.Buffer // stdout printer
	log *bytes.Buffer // stderr logger
}

// testConfig returns the defaults with state kept in a temp dir and
// removal confirmation off.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.StateDir = t.TempDir()
	cfg.ConfirmBeforeRemove = false
	return &cfg
}

func testContextWithConfig(t *testing.T, cfg *config.Config, workDir string) testEnv {
	t.Helper()
	var out, logBuf bytes.Buffer
	ctx := context.Background()
	ctx = config.WithConfig(ctx, cfg)
	ctx = config.WithWorkDir(ctx, workDir)
	ctx = log.WithLogger(ctx, log.New(&logBuf, false, false))
	ctx = output.WithPrinter(ctx, &out)
	return testEnv{ctx: ctx, out: &out, log: &logBuf}
}

// execute runs cmd with args in env.
func (e testEnv) execute(cmd *cobra.Command, args ...string) error {
	e.out.Reset()
	e.log.Reset()
	cmd.SetContext(e.ctx)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func worktreeExists(t *testing.T, repoPath, wtPath string) bool {
	t.Helper()
	return strings.Contains(runGitCommand(t, repoPath, "worktree", "list", "--porcelain"), "worktree "+wtPath+"\n")
}
