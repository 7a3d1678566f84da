package prompt

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestSelectModel_Filter(t *testing.T) {
	t.Parallel()

	m := newSelectModel("Worktree", Options("main", "feature/login", "feature/logout", "bugfix"))
	m = typeText(m, "lgo").(selectModel)

	if m.list.filter != "lgo" {
		t.Fatalf("filter = %q", m.list.filter)
	}
	for _, f := range m.list.filtered {
		if !strings.HasPrefix(f.Str, "feature/") {
			t.Errorf("unexpected match %q", f.Str)
		}
	}

	updated, cmd := m.Update(keyPress("enter"))
	m = updated.(selectModel)
	if !m.done || cmd == nil {
		t.Fatal("enter should finish")
	}
	if m.selected != 1 && m.selected != 2 {
		t.Errorf("selected = %d, want a feature branch", m.selected)
	}
}

func TestSelectModel_Navigation(t *testing.T) {
	t.Parallel()

	m := newSelectModel("Pick", Options("a", "b", "c"))
	for _, k := range []string{"down", "down", "down", "up"} {
		updated, _ := m.Update(keyPress(k))
		m = updated.(selectModel)
	}
	if m.list.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.list.cursor)
	}

	updated, _ := m.Update(keyPress("enter"))
	if got := updated.(selectModel).selected; got != 1 {
		t.Errorf("selected = %d, want 1", got)
	}
}

func TestSelectModel_Backspace(t *testing.T) {
	t.Parallel()

	m := newSelectModel("Pick", Options("alpha", "beta"))
	m = typeText(m, "zz").(selectModel)
	if len(m.list.filtered) != 0 {
		t.Fatalf("expected no matches, got %d", len(m.list.filtered))
	}
	if !strings.Contains(ansi.Strip(m.render()), "No matching items") {
		t.Error("view should say no matching items")
	}

	// enter with nothing matched is ignored
	updated, cmd := m.Update(keyPress("enter"))
	if updated.(selectModel).done || cmd != nil {
		t.Error("enter with no matches should not finish")
	}

	for range 2 {
		updated, _ = m.Update(keyPress("backspace"))
		m = updated.(selectModel)
	}
	if len(m.list.filtered) != 2 {
		t.Errorf("filtered = %d after clearing filter, want 2", len(m.list.filtered))
	}
}

func TestSelectModel_Cancel(t *testing.T) {
	t.Parallel()

	m := newSelectModel("Pick", Options("a"))
	updated, _ := m.Update(keyPress("esc"))
	um := updated.(selectModel)
	if !um.cancelled || !um.done {
		t.Error("esc should cancel")
	}
}

func TestSelectModel_ViewScrolls(t *testing.T) {
	t.Parallel()

	labels := make([]string, 15)
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}
	m := newSelectModel("Pick", Options(labels...))
	view := ansi.Strip(m.render())
	if !strings.Contains(view, "more below") {
		t.Errorf("expected scroll hint:\n%s", view)
	}
}

func TestSelect_Empty(t *testing.T) {
	t.Parallel()

	res, err := Select("Pick", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cancelled || res.Index != -1 {
		t.Errorf("Select(nil) = %+v", res)
	}
}
