package prompt

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/wtm/internal/ui/styles"
)

// MultiSelectResult holds the chosen option indices in option order.
type MultiSelectResult struct {
	Indices   []int
	Cancelled bool
}

type multiSelectModel struct {
	prompt    string
	list      filterList
	selected  map[int]bool
	done      bool
	cancelled bool
}

func newMultiSelectModel(prompt string, options []Option) multiSelectModel {
	return multiSelectModel{
		prompt:   prompt,
		list:     newFilterList(options),
		selected: make(map[int]bool),
	}
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "ctrl+p":
		m.list.up()
	case "down", "ctrl+n":
		m.list.down()
	case "space", "tab":
		if idx := m.list.current(); idx >= 0 {
			if m.selected[idx] {
				delete(m.selected, idx)
			} else {
				m.selected[idx] = true
			}
		}
	case "ctrl+a":
		// toggle all visible
		all := true
		for _, f := range m.list.filtered {
			if !m.selected[f.Index] {
				all = false
				break
			}
		}
		for _, f := range m.list.filtered {
			if all {
				delete(m.selected, f.Index)
			} else {
				m.selected[f.Index] = true
			}
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	case "backspace":
		m.list.backspace()
	default:
		if t := typed(key); t != "" {
			m.list.setFilter(m.list.filter + t)
		}
	}
	return m, nil
}

func (m multiSelectModel) indices() []int {
	out := make([]int, 0, len(m.selected))
	for i := range m.selected {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

func (m multiSelectModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m multiSelectModel) render() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.Bold.Render(m.prompt) + "\n")
	m.list.render(&b, func(idx int) string {
		if m.selected[idx] {
			return styles.SuccessStyle.Render("[x] ")
		}
		return "[ ] "
	})
	b.WriteString(styles.InfoStyle.Render(fmt.Sprintf("%d selected", len(m.selected))) + "\n")
	b.WriteString(styles.MutedStyle.Render("space toggle • ctrl+a all • type to filter • enter confirm • esc cancel"))
	return b.String()
}

// MultiSelect shows a fuzzy-filtered checklist.
func MultiSelect(prompt string, options []Option) (MultiSelectResult, error) {
	if len(options) == 0 {
		return MultiSelectResult{Cancelled: true}, nil
	}
	final, err := run(newMultiSelectModel(prompt, options))
	if err != nil {
		return MultiSelectResult{}, err
	}
	m := final.(multiSelectModel)
	if m.cancelled {
		return MultiSelectResult{Cancelled: true}, nil
	}
	return MultiSelectResult{Indices: m.indices()}, nil
}
