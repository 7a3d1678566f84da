package prompt

import (
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/wtm/internal/ui/styles"
)

// ConfirmResult holds the answer to a yes/no question.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	question   string
	defaultYes bool
	answer     *bool
	cancelled  bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) answered(v bool) (tea.Model, tea.Cmd) {
	m.answer = &v
	return m, tea.Quit
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		return m.answered(true)
	case "n", "N":
		return m.answered(false)
	case "enter":
		return m.answered(m.defaultYes)
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m confirmModel) render() string {
	switch {
	case m.cancelled:
		return ""
	case m.answer != nil:
		reply := "No"
		if *m.answer {
			reply = "Yes"
		}
		return m.question + " " + styles.AccentStyle.Render(reply) + "\n"
	}
	hint := "[y/N]"
	if m.defaultYes {
		hint = "[Y/n]"
	}
	return m.question + " " + styles.MutedStyle.Render(hint) + " "
}

// Confirm asks question and waits for y or n. Enter picks defaultYes;
// esc, q and ctrl+c cancel. The answer stays on screen afterwards.
func Confirm(question string, defaultYes bool) (ConfirmResult, error) {
	final, err := run(confirmModel{question: question, defaultYes: defaultYes})
	if err != nil {
		return ConfirmResult{}, err
	}
	m := final.(confirmModel)
	return ConfirmResult{
		Confirmed: m.answer != nil && *m.answer,
		Cancelled: m.cancelled,
	}, nil
}
