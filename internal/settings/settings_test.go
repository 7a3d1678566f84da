package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/raphi011/wtm/internal/config"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSync(t *testing.T) {
	t.Parallel()

	src, a, b := t.TempDir(), t.TempDir(), t.TempDir()
	writeFile(t, src, ".vscode/settings.json", `{"editor.tabSize":2}`)
	writeFile(t, src, ".vscode/tasks.json", `{}`)

	var msgs []string
	s := New(config.DefaultSettingsFiles)
	res := s.Sync(src, []string{a, b}, func(m string) { msgs = append(msgs, m) })

	if res.Synced != 4 || res.Failed != 0 {
		t.Errorf("Sync() = %+v, want 4 synced", res)
	}
	if len(msgs) != 4 || msgs[0] != "Synced settings.json to "+filepath.Base(a) {
		t.Errorf("progress = %v", msgs)
	}
	got, err := os.ReadFile(filepath.Join(b, ".vscode/settings.json"))
	if err != nil || string(got) != `{"editor.tabSize":2}` {
		t.Errorf("target content = %q, %v", got, err)
	}
	if _, err := os.Stat(filepath.Join(a, ".vscode/launch.json")); !os.IsNotExist(err) {
		t.Error("launch.json should not be created when missing in source")
	}
}

func TestSync_Failure(t *testing.T) {
	t.Parallel()

	src, target := t.TempDir(), t.TempDir()
	writeFile(t, src, ".vscode/settings.json", "{}")
	// A regular file where the directory should be
	writeFile(t, target, ".vscode", "not a dir")

	res := New(config.DefaultSettingsFiles).Sync(src, []string{target}, nil)
	if res.Synced != 0 || res.Failed != 1 {
		t.Errorf("Sync() = %+v, want 1 failed", res)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	a, b := t.TempDir(), t.TempDir()
	writeFile(t, a, ".vscode/settings.json", "same")
	writeFile(t, b, ".vscode/settings.json", "same")
	writeFile(t, a, ".vscode/launch.json", "only in a")
	writeFile(t, a, ".vscode/tasks.json", "v1")
	writeFile(t, b, ".vscode/tasks.json", "v2")

	diffs, err := New(config.DefaultSettingsFiles).Compare(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []Diff{
		{File: ".vscode/settings.json", Different: false},
		{File: ".vscode/launch.json", Different: true},
		{File: ".vscode/tasks.json", Different: true},
	}
	if len(diffs) != len(want) {
		t.Fatalf("Compare() = %+v", diffs)
	}
	for i := range want {
		if diffs[i] != want[i] {
			t.Errorf("diff[%d] = %+v, want %+v", i, diffs[i], want[i])
		}
	}
}

func TestCompare_SkipsMissingOnBothSides(t *testing.T) {
	t.Parallel()

	diffs, err := New(config.DefaultSettingsFiles).Compare(t.TempDir(), t.TempDir())
	if err != nil || len(diffs) != 0 {
		t.Errorf("Compare(empty, empty) = %+v, %v", diffs, err)
	}
}

func TestWatch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, ".vscode/settings.json", "{}")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var changed []string
	done := make(chan error, 1)
	s := New(config.DefaultSettingsFiles)
	go func() {
		done <- s.Watch(ctx, root, func(f string) {
			mu.Lock()
			changed = append(changed, f)
			mu.Unlock()
		})
	}()

	// Let the watcher register its directories
	time.Sleep(200 * time.Millisecond)
	for i := range 3 {
		writeFile(t, root, ".vscode/settings.json", string(rune('a'+i)))
	}
	writeFile(t, root, ".vscode/other.json", "ignored")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(changed)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	// Give a trailing debounce a chance to fire twice if it were broken
	time.Sleep(3 * DebounceDelay)

	mu.Lock()
	got := append([]string(nil), changed...)
	mu.Unlock()
	if len(got) != 1 || got[0] != ".vscode/settings.json" {
		t.Errorf("changes = %v, want one settings.json event", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() = %v", err)
	}
}
