package prompt

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/wtm/internal/ui/styles"
)

// Option is one entry of a Select or MultiSelect prompt.
type Option struct {
	Label       string
	Description string
}

// Options builds options from plain labels.
func Options(labels ...string) []Option {
	opts := make([]Option, len(labels))
	for i, l := range labels {
		opts[i] = Option{Label: l}
	}
	return opts
}

// optionSource implements fuzzy.Source for options.
type optionSource []Option

func (s optionSource) String(i int) string { return s[i].Label }
func (s optionSource) Len() int            { return len(s) }

const maxVisible = 10

// filterList is the fuzzy-filtered cursor list shared by the select prompts.
type filterList struct {
	options  []Option
	filtered []fuzzy.Match
	cursor   int
	filter   string
}

func newFilterList(options []Option) filterList {
	l := filterList{options: options}
	l.apply()
	return l
}

func (l *filterList) apply() {
	if l.filter == "" {
		l.filtered = make([]fuzzy.Match, len(l.options))
		for i, o := range l.options {
			l.filtered[i] = fuzzy.Match{Str: o.Label, Index: i}
		}
	} else {
		// sorted by score, best first
		l.filtered = fuzzy.FindFrom(l.filter, optionSource(l.options))
	}
	if l.cursor >= len(l.filtered) {
		l.cursor = max(0, len(l.filtered)-1)
	}
}

func (l *filterList) setFilter(f string) {
	l.filter = f
	l.apply()
}

func (l *filterList) backspace() {
	if l.filter == "" {
		return
	}
	r := []rune(l.filter)
	l.setFilter(string(r[:len(r)-1]))
}

func (l *filterList) up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

func (l *filterList) down() {
	if l.cursor < len(l.filtered)-1 {
		l.cursor++
	}
}

// current returns the option index under the cursor, or -1.
func (l *filterList) current() int {
	if l.cursor < 0 || l.cursor >= len(l.filtered) {
		return -1
	}
	return l.filtered[l.cursor].Index
}

// render draws the visible window. mark renders the per-row prefix after
// the cursor column.
func (l *filterList) render(b *strings.Builder, mark func(idx int) string) {
	b.WriteString(styles.MutedStyle.Render("Filter: ") + styles.AccentStyle.Render(l.filter) + "\n\n")

	start := 0
	if l.cursor >= maxVisible {
		start = l.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(l.filtered))

	if start > 0 {
		b.WriteString(styles.MutedStyle.Render("  ↑ more above") + "\n")
	}
	for i := start; i < end; i++ {
		match := l.filtered[i]
		opt := l.options[match.Index]
		selected := i == l.cursor

		cursor := "  "
		if selected {
			cursor = "> "
		}
		b.WriteString(cursor)
		if mark != nil {
			b.WriteString(mark(match.Index))
		}
		b.WriteString(highlight(opt.Label, match.MatchedIndexes, selected))
		if opt.Description != "" {
			b.WriteString("  " + styles.MutedStyle.Render(opt.Description))
		}
		b.WriteString("\n")
	}
	if end < len(l.filtered) {
		b.WriteString(styles.MutedStyle.Render("  ↓ more below") + "\n")
	}
	if len(l.filtered) == 0 {
		b.WriteString(styles.MutedStyle.Render("  No matching items") + "\n")
	}
}

// highlight renders label with the fuzzy-matched runes emphasized.
func highlight(label string, matched []int, selected bool) string {
	base := styles.NormalStyle
	if selected {
		base = styles.SelectedStyle
	}
	if len(matched) == 0 {
		return base.Render(label)
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	var b strings.Builder
	// fuzzy reports byte offsets
	for i, r := range label {
		if set[i] {
			b.WriteString(styles.HighlightStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}
