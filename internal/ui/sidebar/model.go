// Package sidebar is the interactive terminal view: tabbed panels of
// tree nodes with keyboard navigation, refreshed by a repository watcher
// and per-panel timers.
package sidebar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"

	"github.com/raphi011/wtm/internal/tree"
	"github.com/raphi011/wtm/internal/ui/progress"
	"github.com/raphi011/wtm/internal/ui/styles"
	"github.com/raphi011/wtm/internal/watch"
)

// Config wires the sidebar to its data.
type Config struct {
	Panels []Panel

	// Status renders the footer status line. Nil hides it.
	Status func(ctx context.Context) string
	// Remove deletes the worktree at path.
	Remove func(ctx context.Context, path string) error
	// Copy writes text to the clipboard. Defaults to atotto/clipboard.
	Copy func(text string) error
	// Events triggers reloads of OnWatch panels. Nil disables auto refresh.
	Events <-chan watch.Event
}

const helpText = "tab panels • j/k move • enter expand • r refresh • s switch • d remove • c copy • q quit"

// maxTooltipLines caps the details area under the list.
const maxTooltipLines = 6

type (
	loadedMsg struct {
		panel int
		nodes []*tree.Node
		err   error
	}
	statusMsg  string
	watchMsg   watch.Event
	tickMsg    struct{ panel int }
	removedMsg struct {
		path string
		err  error
	}
	flashMsg struct {
		text string
		err  bool
	}
)

// Model is the sidebar bubbletea model.
type Model struct {
	ctx    context.Context
	cfg    Config
	panels []*panelState
	active int

	width, height int

	status     string
	flash      string
	flashErr   bool
	confirming string // path pending removal
	switchTo   string
	quitting   bool
}

// New creates a sidebar model. ctx is passed to every loader with spinners
// suppressed, since the sidebar owns the terminal.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Copy == nil {
		cfg.Copy = clipboard.WriteAll
	}
	panels := make([]*panelState, len(cfg.Panels))
	for i, p := range cfg.Panels {
		panels[i] = &panelState{Panel: p, expanded: make(map[string]bool)}
	}
	return Model{ctx: progress.Suppress(ctx), cfg: cfg, panels: panels}
}

// SwitchPath returns the worktree chosen with "s", or "".
func (m Model) SwitchPath() string {
	return m.switchTo
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.statusCmd(), m.waitWatch()}
	for i, p := range m.panels {
		p.loading = true
		cmds = append(cmds, m.loadCmd(i))
		if p.Interval > 0 {
			cmds = append(cmds, tickCmd(i, p.Interval))
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) loadCmd(i int) tea.Cmd {
	load := m.panels[i].Load
	ctx := m.ctx
	return func() tea.Msg {
		nodes, err := load(ctx)
		return loadedMsg{panel: i, nodes: nodes, err: err}
	}
}

func (m Model) statusCmd() tea.Cmd {
	if m.cfg.Status == nil {
		return nil
	}
	status, ctx := m.cfg.Status, m.ctx
	return func() tea.Msg {
		return statusMsg(status(ctx))
	}
}

func (m Model) waitWatch() tea.Cmd {
	ch := m.cfg.Events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return watchMsg(ev)
	}
}

func tickCmd(i int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{panel: i}
	})
}

func (m *Model) reload(i int) tea.Cmd {
	m.panels[i].loading = true
	return m.loadCmd(i)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadedMsg:
		if msg.panel < 0 || msg.panel >= len(m.panels) {
			return m, nil
		}
		p := m.panels[msg.panel]
		p.loading = false
		p.loaded = true
		p.err = msg.err
		if msg.err == nil {
			p.setNodes(msg.nodes)
		}
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case watchMsg:
		var cmds []tea.Cmd
		for i, p := range m.panels {
			if p.OnWatch {
				cmds = append(cmds, m.reload(i))
			}
		}
		cmds = append(cmds, m.statusCmd(), m.waitWatch())
		return m, tea.Batch(cmds...)

	case tickMsg:
		if msg.panel < 0 || msg.panel >= len(m.panels) {
			return m, nil
		}
		return m, tea.Batch(m.reload(msg.panel), tickCmd(msg.panel, m.panels[msg.panel].Interval))

	case removedMsg:
		if msg.err != nil {
			m.flash, m.flashErr = fmt.Sprintf("Failed to remove worktree: %v", msg.err), true
			return m, nil
		}
		m.flash, m.flashErr = "Removed "+msg.path, false
		var cmds []tea.Cmd
		for i := range m.panels {
			cmds = append(cmds, m.reload(i))
		}
		cmds = append(cmds, m.statusCmd())
		return m, tea.Batch(cmds...)

	case flashMsg:
		m.flash, m.flashErr = msg.text, msg.err
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.confirming != "" {
		path := m.confirming
		m.confirming = ""
		switch key {
		case "y", "Y":
			return m, m.removeCmd(path)
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		m.flash, m.flashErr = "Removal cancelled", false
		return m, nil
	}

	if len(m.panels) == 0 {
		if key == "q" || key == "ctrl+c" || key == "esc" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	p := m.panels[m.active]
	m.flash = ""

	switch key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "right", "l":
		m.active = (m.active + 1) % len(m.panels)
	case "shift+tab", "left", "h":
		m.active = (m.active - 1 + len(m.panels)) % len(m.panels)
	case "j", "down":
		p.move(1)
	case "k", "up":
		p.move(-1)
	case "g", "home":
		p.move(-len(p.rows))
	case "G", "end":
		p.move(len(p.rows))
	case "pgdown", "ctrl+d":
		p.move(m.listHeight() / 2)
	case "pgup", "ctrl+u":
		p.move(-m.listHeight() / 2)
	case "enter", "space":
		p.toggle()
	case "r":
		return m, tea.Batch(m.reload(m.active), m.statusCmd())
	case "s":
		if n := p.current(); n != nil && n.Path != "" {
			m.switchTo = n.Path
			m.quitting = true
			return m, tea.Quit
		}
	case "d":
		if n := p.current(); n != nil && n.Kind == "worktree" && n.Path != "" && m.cfg.Remove != nil {
			m.confirming = n.Path
		}
	case "c":
		if n := p.current(); n != nil && n.Path != "" {
			return m, m.copyCmd(n.Path)
		}
	}
	return m, nil
}

func (m Model) removeCmd(path string) tea.Cmd {
	remove, ctx := m.cfg.Remove, m.ctx
	return func() tea.Msg {
		return removedMsg{path: path, err: remove(ctx, path)}
	}
}

func (m Model) copyCmd(path string) tea.Cmd {
	cp := m.cfg.Copy
	return func() tea.Msg {
		if err := cp(path); err != nil {
			return flashMsg{text: "Copy failed: " + err.Error(), err: true}
		}
		return flashMsg{text: "Copied " + path}
	}
}

// listHeight is the number of rows available to the list, or 0 when the
// terminal size is unknown.
func (m Model) listHeight() int {
	if m.height == 0 {
		return 0
	}
	// tabs + blank, blank + tooltip, footer lines
	return max(3, m.height-2-1-maxTooltipLines-3)
}

func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if len(m.panels) > 0 {
		p := m.panels[m.active]
		b.WriteString(m.renderList(p))
		if n := p.current(); n != nil && n.Tooltip != "" {
			b.WriteString("\n")
			lines := strings.Split(n.Tooltip, "\n")
			if len(lines) > maxTooltipLines {
				lines = lines[:maxTooltipLines]
			}
			for _, l := range lines {
				b.WriteString(styles.InfoStyle.Render(m.fit(l)) + "\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) fit(s string) string {
	if m.width <= 0 {
		return s
	}
	return styles.Truncate(s, m.width)
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(m.panels))
	for i, p := range m.panels {
		title := p.Title
		if p.loading {
			title += "…"
		}
		if i == m.active {
			tabs[i] = styles.AccentStyle.Underline(true).Render(title)
		} else {
			tabs[i] = styles.MutedStyle.Render(title)
		}
	}
	return strings.Join(tabs, styles.MutedStyle.Render(" │ "))
}

func (m Model) renderList(p *panelState) string {
	switch {
	case p.err != nil:
		return styles.ErrorStyle.Render(m.fit("Error: "+p.err.Error())) + "\n"
	case !p.loaded:
		return styles.MutedStyle.Render("Loading…") + "\n"
	case len(p.rows) == 0:
		return styles.MutedStyle.Render("Nothing to show") + "\n"
	}

	height := m.listHeight()
	p.scroll(height)
	end := len(p.rows)
	if height > 0 {
		end = min(p.offset+height, len(p.rows))
	}

	var b strings.Builder
	for i := p.offset; i < end; i++ {
		b.WriteString(m.fit(renderRow(p.rows[i], i == p.cursor)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRow(r tree.Row, selected bool) string {
	n := r.Node
	var b strings.Builder
	if selected {
		b.WriteString(styles.SelectedStyle.Render("> "))
	} else {
		b.WriteString("  ")
	}
	b.WriteString(strings.Repeat("  ", r.Depth))
	switch {
	case !n.HasChildren():
		b.WriteString("  ")
	case n.Expanded:
		b.WriteString(styles.MutedStyle.Render("▾ "))
	default:
		b.WriteString(styles.MutedStyle.Render("▸ "))
	}
	if g := styles.ColoredSymbol(n.Icon, n.Color); g != "" {
		b.WriteString(g + " ")
	}
	label := n.Label
	switch {
	case selected:
		label = styles.SelectedStyle.Render(label)
	case n.Kind == "section":
		label = styles.Bold.Render(label)
	}
	b.WriteString(label)
	if n.Description != "" {
		b.WriteString("  " + styles.MutedStyle.Render(n.Description))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	var lines []string
	switch {
	case m.confirming != "":
		lines = append(lines, styles.WarningStyle.Render(m.fit(fmt.Sprintf("Remove worktree %s? [y/N]", m.confirming))))
	case m.flash != "" && m.flashErr:
		lines = append(lines, styles.ErrorStyle.Render(m.fit(m.flash)))
	case m.flash != "":
		lines = append(lines, styles.SuccessStyle.Render(m.fit(m.flash)))
	}
	if m.status != "" {
		lines = append(lines, m.fit(m.status))
	}
	lines = append(lines, styles.MutedStyle.Render(m.fit(helpText)))
	return strings.Join(lines, "\n")
}

// Run shows the sidebar until the user quits. It returns the path chosen
// with "s", or "" when none was.
func Run(ctx context.Context, cfg Config) (string, error) {
	final, err := run(ctx, New(ctx, cfg))
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return final.(Model).SwitchPath(), nil
}
