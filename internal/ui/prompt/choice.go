package prompt

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/wtm/internal/ui/styles"
)

// ChoiceResult holds the chosen button.
type ChoiceResult struct {
	Index     int
	Value     string
	Cancelled bool
}

type choiceModel struct {
	prompt    string
	buttons   []string
	cursor    int
	done      bool
	cancelled bool
}

func (m choiceModel) Init() tea.Cmd {
	return nil
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "left", "h", "shift+tab":
		m.cursor = (m.cursor - 1 + len(m.buttons)) % len(m.buttons)
	case "right", "l", "tab":
		m.cursor = (m.cursor + 1) % len(m.buttons)
	case "enter", "space":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	default:
		// first letter of a button selects it
		if t := strings.ToLower(typed(key)); t != "" {
			for i, b := range m.buttons {
				if strings.HasPrefix(strings.ToLower(b), t) {
					m.cursor = i
					m.done = true
					return m, tea.Quit
				}
			}
		}
	}
	return m, nil
}

func (m choiceModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m choiceModel) render() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.prompt)
	b.WriteString("\n")
	for i, label := range m.buttons {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == m.cursor {
			b.WriteString(styles.SelectedStyle.Render("[" + label + "]"))
		} else {
			b.WriteString(styles.MutedStyle.Render(" " + label + " "))
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render("←/→ move • enter choose • esc cancel"))
	return b.String()
}

// Choice shows a row of buttons and returns the one picked.
func Choice(prompt string, buttons ...string) (ChoiceResult, error) {
	if len(buttons) == 0 {
		return ChoiceResult{Cancelled: true}, nil
	}
	final, err := run(choiceModel{prompt: prompt, buttons: buttons})
	if err != nil {
		return ChoiceResult{}, err
	}
	m := final.(choiceModel)
	if m.cancelled {
		return ChoiceResult{Index: -1, Cancelled: true}, nil
	}
	return ChoiceResult{Index: m.cursor, Value: m.buttons[m.cursor]}, nil
}
