package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// Tests in this file mutate package-level symbol state and don't run in parallel.

func TestSetNerdfont(t *testing.T) {
	SetNerdfont(false)
	if NerdfontEnabled() {
		t.Error("expected nerdfont to be disabled")
	}
	if Symbol(IconPass) != "✓" {
		t.Errorf("default pass symbol = %q", Symbol(IconPass))
	}

	SetNerdfont(true)
	if !NerdfontEnabled() {
		t.Error("expected nerdfont to be enabled")
	}
	if Symbol(IconPass) != "" {
		t.Errorf("nerdfont pass symbol = %q", Symbol(IconPass))
	}

	SetNerdfont(false)
}

func TestSymbol_AllIconsDefined(t *testing.T) {
	icons := []string{
		IconHome, IconBranch, IconDirty, IconPass, IconWarning, IconError, IconInfo,
		IconAdd, IconTrash, IconArrowRight, IconPackage, IconLink, IconFileDirectory,
	}
	for _, set := range []map[string]string{defaultSymbols, nerdfontSymbols} {
		for _, icon := range icons {
			if set[icon] == "" {
				t.Errorf("missing glyph for %q", icon)
			}
		}
	}
	if Symbol("nope") != "" {
		t.Error("unknown icon should have no glyph")
	}
}

func TestColoredSymbol(t *testing.T) {
	SetNerdfont(false)

	got := ansi.Strip(ColoredSymbol(IconDirty, "orange"))
	if got != "●" {
		t.Errorf("ColoredSymbol() stripped = %q", got)
	}
	if ColoredSymbol("nope", "red") != "" {
		t.Error("unknown icon should render empty")
	}
}

func TestHyperlink(t *testing.T) {
	got := Hyperlink("feature", "/src/feature")
	if !strings.Contains(got, "file:///src/feature") || ansi.Strip(got) != "feature" {
		t.Errorf("Hyperlink() = %q", got)
	}
	if Hyperlink("x", "") != "x" {
		t.Error("empty path should return text unchanged")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdefgh", 5); ansi.StringWidth(got) > 5 || !strings.HasSuffix(got, "…") {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("abc", 5); got != "abc" {
		t.Errorf("Truncate(short) = %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Errorf("Truncate(0) = %q", got)
	}
}
