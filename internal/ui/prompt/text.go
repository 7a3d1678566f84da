package prompt

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/wtm/internal/ui/styles"
)

// TextInputResult holds the result of a text input prompt.
type TextInputResult struct {
	Value     string
	Cancelled bool
}

type textInputModel struct {
	textInput textinput.Model
	prompt    string
	validate  func(string) error
	err       error
	done      bool
	cancelled bool
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if m.validate != nil {
				if err := m.validate(m.textInput.Value()); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	m.err = nil
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m textInputModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m textInputModel) render() string {
	if m.done {
		return ""
	}
	s := fmt.Sprintf("%s\n%s", m.prompt, m.textInput.View())
	if m.err != nil {
		s += "\n" + styles.ErrorStyle.Render(m.err.Error())
	}
	return s
}

// TextOptions configures a text input prompt.
type TextOptions struct {
	Placeholder string
	Initial     string
	Validate    func(string) error // checked on enter; the error is shown inline
}

func newTextInputModel(prompt string, opts TextOptions) textInputModel {
	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.SetValue(opts.Initial)
	ti.Focus()
	ti.CharLimit = 255
	ti.SetWidth(50)
	return textInputModel{
		textInput: ti,
		prompt:    prompt,
		validate:  opts.Validate,
	}
}

// TextInput shows a text input prompt and returns the user's input.
func TextInput(prompt string, opts TextOptions) (TextInputResult, error) {
	final, err := run(newTextInputModel(prompt, opts))
	if err != nil {
		return TextInputResult{}, err
	}
	m := final.(textInputModel)
	return TextInputResult{
		Value:     m.textInput.Value(),
		Cancelled: m.cancelled,
	}, nil
}
