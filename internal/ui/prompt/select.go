package prompt

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/wtm/internal/ui/styles"
)

// SelectResult holds the result of a selection prompt.
type SelectResult struct {
	Value     string
	Index     int
	Cancelled bool
}

type selectModel struct {
	prompt    string
	list      filterList
	done      bool
	cancelled bool
	selected  int
}

func newSelectModel(prompt string, options []Option) selectModel {
	return selectModel{prompt: prompt, list: newFilterList(options), selected: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "ctrl+p":
		m.list.up()
	case "down", "ctrl+n":
		m.list.down()
	case "enter":
		if idx := m.list.current(); idx >= 0 {
			m.selected = idx
			m.done = true
			return m, tea.Quit
		}
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

func (m selectModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m selectModel) render() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.Bold.Render(m.prompt) + "\n")
	m.list.render(&b, nil)
	b.WriteString(styles.MutedStyle.Render("↑/↓ move • type to filter • enter select • esc cancel"))
	return b.String()
}

// Select shows a fuzzy-filtered list and returns the chosen option.
func Select(prompt string, options []Option) (SelectResult, error) {
	if len(options) == 0 {
		return SelectResult{Index: -1, Cancelled: true}, nil
	}
	final, err := run(newSelectModel(prompt, options))
	if err != nil {
		return SelectResult{}, err
	}
	m := final.(selectModel)
	if m.cancelled || m.selected < 0 || m.selected >= len(options) {
		return SelectResult{Index: -1, Cancelled: true}, nil
	}
	return SelectResult{
		Value: options[m.selected].Label,
		Index: m.selected,
	}, nil
}
