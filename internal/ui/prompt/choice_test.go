package prompt

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestChoiceModel_Update(t *testing.T) {
	t.Parallel()

	buttons := []string{"Remove", "Force Remove", "Cancel"}

	tests := []struct {
		name      string
		keys      []string
		cursor    int
		done      bool
		cancelled bool
	}{
		{"enter picks first", []string{"enter"}, 0, true, false},
		{"right then enter", []string{"right", "enter"}, 1, true, false},
		{"left wraps", []string{"left"}, 2, false, false},
		{"tab moves", []string{"tab", "tab"}, 2, false, false},
		{"hotkey", []string{"f"}, 1, true, false},
		{"esc cancels", []string{"esc"}, 0, true, true},
		{"unknown letter ignored", []string{"z"}, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var m = choiceModel{prompt: "Remove?", buttons: buttons}
			for _, k := range tt.keys {
				updated, _ := m.Update(keyPress(k))
				m = updated.(choiceModel)
			}
			if m.cursor != tt.cursor {
				t.Errorf("cursor = %d, want %d", m.cursor, tt.cursor)
			}
			if m.done != tt.done {
				t.Errorf("done = %v, want %v", m.done, tt.done)
			}
			if m.cancelled != tt.cancelled {
				t.Errorf("cancelled = %v, want %v", m.cancelled, tt.cancelled)
			}
		})
	}
}

func TestChoiceModel_View(t *testing.T) {
	t.Parallel()

	m := choiceModel{prompt: "Remove?", buttons: []string{"Remove", "Cancel"}, cursor: 1}
	got := ansi.Strip(m.render())
	if !strings.Contains(got, "[Cancel]") || strings.Contains(got, "[Remove]") {
		t.Errorf("render() should bracket only the cursor button:\n%s", got)
	}
}

func TestChoice_NoButtons(t *testing.T) {
	t.Parallel()

	res, err := Choice("Pick")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cancelled {
		t.Error("expected cancelled with no buttons")
	}
}
