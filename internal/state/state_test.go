package state

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenPath(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenPath() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRepoKey(t *testing.T) {
	t.Parallel()

	a := RepoKey("/home/u/src/app")
	b := RepoKey("/home/u/work/app")
	if !strings.HasPrefix(a, "app-") || len(a) != len("app-")+8 {
		t.Errorf("RepoKey() = %q", a)
	}
	if a == b {
		t.Error("different paths with the same base name must not collide")
	}
	if RepoKey("/home/u/src/app/") != a {
		t.Error("RepoKey should ignore a trailing slash")
	}
}

func TestOpen_CreatesDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "state")
	s, err := Open(context.Background(), dir, "/repos/app")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()
	if filepath.Dir(s.Path()) != dir {
		t.Errorf("Path() = %q, want inside %q", s.Path(), dir)
	}
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := OpenPath(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.TrackRecent(ctx, "/wt/a"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenPath(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, _ := s.RecentPaths(ctx)
	if !slices.Equal(got, []string{"/wt/a"}) {
		t.Errorf("RecentPaths() after reopen = %v", got)
	}
}

func TestTrackRecent(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"a", "b", "c", "d", "e", "f"} {
		if err := s.TrackRecent(ctx, p); err != nil {
			t.Fatalf("TrackRecent(%s) error = %v", p, err)
		}
	}
	got, _ := s.RecentPaths(ctx)
	if want := []string{"f", "e", "d", "c", "b"}; !slices.Equal(got, want) {
		t.Errorf("RecentPaths() = %v, want %v", got, want)
	}

	// Re-tracking moves to front without duplicating
	if err := s.TrackRecent(ctx, "c"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.RecentPaths(ctx)
	if want := []string{"c", "f", "e", "d", "b"}; !slices.Equal(got, want) {
		t.Errorf("RecentPaths() = %v, want %v", got, want)
	}

	if err := s.RemoveRecent(ctx, "f"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.RecentPaths(ctx)
	if want := []string{"c", "e", "d", "b"}; !slices.Equal(got, want) {
		t.Errorf("RecentPaths() after remove = %v, want %v", got, want)
	}
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	if rows, err := s.Templates(ctx); err != nil || len(rows) != 0 {
		t.Fatalf("Templates() on empty store = %v, %v", rows, err)
	}

	for _, id := range []string{"one", "two", "three"} {
		if err := s.SaveTemplate(ctx, id, []byte(`{"id":"`+id+`"}`)); err != nil {
			t.Fatalf("SaveTemplate(%s) error = %v", id, err)
		}
	}
	// Update keeps position
	if err := s.SaveTemplate(ctx, "one", []byte(`{"id":"one","v":2}`)); err != nil {
		t.Fatal(err)
	}

	rows, _ := s.Templates(ctx)
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	if !slices.Equal(ids, []string{"one", "two", "three"}) {
		t.Errorf("template order = %v", ids)
	}
	if string(rows[0].Data) != `{"id":"one","v":2}` {
		t.Errorf("updated data = %s", rows[0].Data)
	}

	if err := s.DeleteTemplate(ctx, "two"); err != nil {
		t.Fatalf("DeleteTemplate() error = %v", err)
	}
	if err := s.DeleteTemplate(ctx, "two"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTemplate(missing) error = %v, want ErrNotFound", err)
	}

	// New template after a delete still goes last
	if err := s.SaveTemplate(ctx, "four", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	rows, _ = s.Templates(ctx)
	if rows[len(rows)-1].ID != "four" {
		t.Errorf("last template = %q, want four", rows[len(rows)-1].ID)
	}
}

func TestEvents(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := range 7 {
		e := EventRow{
			ID:        fmt.Sprintf("e%d", i),
			Type:      "created",
			Path:      "/wt/x",
			Branch:    "x",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AppendEvent(ctx, e, 5); err != nil {
			t.Fatalf("AppendEvent() error = %v", err)
		}
	}

	events, err := s.Events(ctx)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("len(Events()) = %d, want 5", len(events))
	}
	if events[0].ID != "e6" || events[4].ID != "e2" {
		t.Errorf("events not newest-first or trimmed wrong: first %s last %s", events[0].ID, events[4].ID)
	}
	if !events[0].Timestamp.Equal(base.Add(6 * time.Minute)) {
		t.Errorf("timestamp = %v", events[0].Timestamp)
	}

	if err := s.ClearEvents(ctx); err != nil {
		t.Fatal(err)
	}
	if events, _ := s.Events(ctx); len(events) != 0 {
		t.Errorf("Events() after clear = %v", events)
	}
}
