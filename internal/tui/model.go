// Package tui is the bubbletea front end: it draws the subscribed windows,
// the status bar with vitals and timers, and the command input, and shuttles
// received chunks into the ingestion pipeline.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"mudlark/internal/config"
	"mudlark/internal/highlight"
	"mudlark/internal/netclient"
	"mudlark/internal/pipeline"
	"mudlark/internal/style"
)

// secondaryHeight is the body height of every window except the first, which
// takes the leftover space.
const secondaryHeight = 6

type chunkMsg string

type disconnectedMsg struct{ err error }

type rulesMsg []highlight.Rule

type tickMsg time.Time

// Model is the root bubbletea model.
type Model struct {
	pipe   *pipeline.Pipeline
	client *netclient.Client
	rules  <-chan []highlight.Rule

	windows []string
	focus   int

	input   textinput.Model
	history []string
	histIdx int

	width     int
	height    int
	connected bool
	err       error

	styles *Styles
	keyMap KeyMap
	logger *log.Logger
}

// New builds the root model. The rules channel delivers hot-reloaded
// highlight sets; nil disables reloading.
func New(cfg *config.Config, pipe *pipeline.Pipeline, client *netclient.Client, rules <-chan []highlight.Rule, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()

	windows := make([]string, 0, len(cfg.Windows))
	for _, w := range cfg.Windows {
		windows = append(windows, w.Name)
	}

	return &Model{
		pipe:      pipe,
		client:    client,
		rules:     rules,
		windows:   windows,
		input:     ti,
		connected: true,
		styles:    NewStyles(DefaultTheme()),
		keyMap:    DefaultKeyMap(),
		logger:    logger,
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForChunk(), tick(), textinput.Blink}
	if m.rules != nil {
		cmds = append(cmds, m.waitForRules())
	}
	return tea.Batch(cmds...)
}

func (m *Model) waitForChunk() tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-m.client.Chunks()
		if !ok {
			return disconnectedMsg{err: m.client.Err()}
		}
		return chunkMsg(chunk)
	}
}

func (m *Model) waitForRules() tea.Cmd {
	return func() tea.Msg {
		rules, ok := <-m.rules
		if !ok {
			return nil
		}
		return rulesMsg(rules)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		m.pipe.SetWidth(msg.Width)
		return m, nil

	case chunkMsg:
		m.pipe.Feed(string(msg))
		return m, m.waitForChunk()

	case disconnectedMsg:
		m.connected = false
		m.err = msg.err
		m.pipe.Disconnect()
		m.logger.Info("disconnected", "err", msg.err)
		return m, nil

	case rulesMsg:
		m.pipe.SetRules([]highlight.Rule(msg))
		return m, m.waitForRules()

	case tickMsg:
		// redraw so the roundtime countdown moves
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.focusedBuffer(func(up scroller) { up.ScrollUp(1) })
		return m, nil
	case key.Matches(msg, m.keyMap.ScrollDown):
		m.focusedBuffer(func(up scroller) { up.ScrollDown(1) })
		return m, nil
	case key.Matches(msg, m.keyMap.PageUp):
		m.focusedBuffer(func(up scroller) { up.ScrollUp(m.focusedHeight()) })
		return m, nil
	case key.Matches(msg, m.keyMap.PageDown):
		m.focusedBuffer(func(up scroller) { up.ScrollDown(m.focusedHeight()) })
		return m, nil
	case key.Matches(msg, m.keyMap.ToBottom):
		m.focusedBuffer(func(up scroller) { up.ScrollToBottom() })
		return m, nil

	case key.Matches(msg, m.keyMap.NextWindow):
		if len(m.windows) > 0 {
			m.focus = (m.focus + 1) % len(m.windows)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Send):
		return m, m.sendCommand()

	case msg.Type == tea.KeyUp:
		m.recallHistory(-1)
		return m, nil
	case msg.Type == tea.KeyDown:
		m.recallHistory(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

type scroller interface {
	ScrollUp(int)
	ScrollDown(int)
	ScrollToBottom()
}

func (m *Model) focusedBuffer(f func(scroller)) {
	if len(m.windows) == 0 {
		return
	}
	if buf, ok := m.pipe.Buffer(m.windows[m.focus]); ok {
		f(buf)
	}
}

func (m *Model) sendCommand() tea.Cmd {
	text := m.input.Value()
	m.input.SetValue("")
	if text == "" || !m.connected {
		return nil
	}
	m.history = append(m.history, text)
	m.histIdx = len(m.history)

	// Echo the command into the first window, dimmed.
	if len(m.windows) > 0 {
		if buf, ok := m.pipe.Buffer(m.windows[0]); ok {
			buf.AppendLogical([]style.Span{{Text: "> " + text, Style: style.Style{Fg: "#928374"}}})
		}
	}

	if err := m.client.Send(text); err != nil {
		m.logger.Warn("send failed", "err", err)
		m.err = err
	}
	return nil
}

func (m *Model) recallHistory(delta int) {
	if len(m.history) == 0 {
		return
	}
	m.histIdx += delta
	if m.histIdx < 0 {
		m.histIdx = 0
	}
	if m.histIdx >= len(m.history) {
		m.histIdx = len(m.history)
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[m.histIdx])
	m.input.CursorEnd()
}

// focusedHeight returns the body height of the focused window, for paging.
func (m *Model) focusedHeight() int {
	if m.focus == 0 {
		return m.primaryHeight()
	}
	return secondaryHeight
}

// primaryHeight is the body height left for the first window after the
// status bar, the input line, and the secondary windows took theirs.
func (m *Model) primaryHeight() int {
	h := m.height - 2                          // status bar + input
	h -= (len(m.windows) - 1) * (secondaryHeight + 1) // secondary windows with titles
	h--                                        // own title row
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) View() string {
	if m.width == 0 {
		return "connecting..."
	}

	sections := make([]string, 0, len(m.windows)+2)
	for i, name := range m.windows {
		buf, ok := m.pipe.Buffer(name)
		if !ok {
			continue
		}
		height := secondaryHeight
		if i == 0 {
			height = m.primaryHeight()
		}
		sections = append(sections, m.styles.renderWindow(name, buf, height, i == m.focus))
	}

	if m.connected {
		sections = append(sections, m.styles.renderStatus(m.pipe.State(), time.Now(), m.width))
	} else {
		notice := "disconnected"
		if m.err != nil {
			notice = "disconnected: " + m.err.Error()
		}
		sections = append(sections, m.styles.Disconnect.Render(notice))
	}
	sections = append(sections, m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
