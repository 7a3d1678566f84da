// Package progress provides progress indication for long-running commands:
// a spinner for open-ended work and a bar for batches over worktrees.
package progress

import (
	"context"
	"fmt"
	"os"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"

	"github.com/raphi011/wtm/internal/ui/styles"
)

type suppressKey struct{}

// Suppress returns a context under which Spin runs its work without
// drawing. Full-screen programs hand it to their background work.
func Suppress(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressKey{}, true)
}

// Suppressed reports whether ctx was returned by Suppress.
func Suppressed(ctx context.Context) bool {
	v, _ := ctx.Value(suppressKey{}).(bool)
	return v
}

// finished is sent once the wrapped work returns
type finished struct{}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    <-chan struct{}
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait)
}

func (m spinnerModel) wait() tea.Msg {
	<-m.done
	return finished{}
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(finished); ok {
		m.message = ""
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m spinnerModel) render() string {
	if m.message == "" {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), styles.MutedStyle.Render(m.message))
}

func newSpinnerModel(message string, done <-chan struct{}) spinnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.PrimaryStyle
	return spinnerModel{spinner: sp, message: message, done: done}
}

// Spin runs fn while a spinner with message animates on stderr and returns
// fn's result. When stderr is not a terminal, or ctx is suppressed, fn
// runs silently.
func Spin[T any](ctx context.Context, message string, fn func(context.Context) (T, error)) (T, error) {
	if Suppressed(ctx) || !isatty.IsTerminal(os.Stderr.Fd()) {
		return fn(ctx)
	}

	done := make(chan struct{})
	p := tea.NewProgram(newSpinnerModel(message, done),
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	exited := make(chan struct{})
	go func() {
		_, _ = p.Run()
		close(exited)
	}()

	v, err := fn(ctx)
	close(done)

	select {
	case <-exited:
	case <-time.After(500 * time.Millisecond):
		p.Quit()
	}
	fmt.Fprint(os.Stderr, "\r\033[K")
	return v, err
}
