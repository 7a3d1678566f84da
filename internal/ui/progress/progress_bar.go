package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"

	"github.com/raphi011/wtm/internal/ui/styles"
)

// stepUpdate moves the bar to a new position
type stepUpdate struct {
	current int
	message string
}

// Bar shows "[████░░░░] 3/8 message" on stderr while a batch runs.
// On a non-terminal stderr it stays silent.
type Bar struct {
	program   *tea.Program
	updateCh  chan stepUpdate
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
	total     int
	current   int
	message   string
}

type barModel struct {
	progress progress.Model
	total    int
	current  int
	message  string
	updateCh chan stepUpdate
}

func (m barModel) Init() tea.Cmd {
	return m.waitForUpdate()
}

func (m barModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updateCh
		if !ok {
			return tea.Quit()
		}
		return update
	}
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepUpdate:
		m.current = msg.current
		m.message = msg.message
		return m, m.waitForUpdate()
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}
}

func (m barModel) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(1, float64(m.current)/float64(m.total))
}

func (m barModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m barModel) render() string {
	if m.message == "" {
		return ""
	}
	counter := styles.MutedStyle.Render(fmt.Sprintf("%d/%d", m.current, m.total))
	return fmt.Sprintf("%s %s %s", m.progress.ViewAs(m.percent()), counter, m.message)
}

// NewBar creates a bar for total steps.
func NewBar(total int, message string) *Bar {
	return &Bar{
		updateCh: make(chan stepUpdate, 10),
		done:     make(chan struct{}),
		total:    total,
		message:  message,
	}
}

// Start begins rendering. It does nothing when stderr is not a terminal.
func (b *Bar) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isRunning || !isatty.IsTerminal(os.Stderr.Fd()) {
		return
	}

	prog := progress.New(
		progress.WithWidth(30),
		progress.WithoutPercentage(),
		progress.WithColors(styles.Primary, styles.Accent),
	)

	model := barModel{
		progress: prog,
		total:    b.total,
		current:  b.current,
		message:  b.message,
		updateCh: b.updateCh,
	}

	// stdout stays clean for piping
	b.program = tea.NewProgram(model,
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	b.isRunning = true

	go func() {
		_, _ = b.program.Run()
		close(b.done)
	}()
}

// Set moves the bar to current and replaces the message.
func (b *Bar) Set(current int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = current
	b.message = message
	if !b.isRunning {
		return
	}

	// drops updates when the channel is full
	select {
	case b.updateCh <- stepUpdate{current: current, message: message}:
	default:
	}
}

// Stop stops rendering and clears the line.
func (b *Bar) Stop() {
	b.mu.Lock()
	if !b.isRunning {
		b.mu.Unlock()
		return
	}
	b.isRunning = false
	// closed under the mutex so Set never sends on a closed channel
	close(b.updateCh)
	b.mu.Unlock()

	if b.program != nil {
		b.program.Quit()
	}

	select {
	case <-b.done:
	case <-time.After(500 * time.Millisecond):
	}

	fmt.Fprint(os.Stderr, "\r\033[K")
}

// Total returns the number of steps.
func (b *Bar) Total() int {
	return b.total
}

// Current returns the last position passed to Set.
func (b *Bar) Current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
