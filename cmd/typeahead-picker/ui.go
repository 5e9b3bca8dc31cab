package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/veldt/typeahead"
	"github.com/veldt/typeahead/model"
)

// debounceInterval is the delay after the last keystroke before the typed
// text is forwarded to the controller.
const debounceInterval = 100 * time.Millisecond

// rowHeight is the synthetic scroll unit for one option row, used to
// translate the cursor position into scroll geometry for the controller.
const rowHeight = 20

// stateMsg carries a controller state snapshot into the Bubble Tea loop.
type stateMsg struct {
	state model.State
}

// debounceMsg fires after the debounce timer expires.
type debounceMsg struct {
	id uint64 // Must match the current debounce counter to be accepted.
}

// stateRelay forwards controller state snapshots to the Bubble Tea program.
// The controller is constructed before the program exists, so the target is
// attached late.
type stateRelay struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *stateRelay) attach(p *tea.Program) {
	r.mu.Lock()
	r.p = p
	r.mu.Unlock()
}

// Render implements typeahead.ListRenderer.
func (r *stateRelay) Render(st model.State) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(stateMsg{state: st})
	}
}

// UI is the Bubble Tea model for the picker.
type UI struct {
	ctrl  *typeahead.Controller
	input textinput.Model

	st     model.State
	cursor int

	debounceID uint64

	width  int
	height int

	cancelled bool
	picked    model.Item
}

// NewUI creates the picker UI around a controller.
func NewUI(ctrl *typeahead.Controller) UI {
	ti := textinput.New()
	ti.Placeholder = "type to search"
	ti.Prompt = "> "
	ti.Focus()
	return UI{ctrl: ctrl, input: ti}
}

// Cancelled reports whether the user dismissed the picker.
func (m UI) Cancelled() bool { return m.cancelled }

// Picked returns the selected option, or nil when cancelled.
func (m UI) Picked() model.Item { return m.picked }

// Init implements tea.Model. Focusing the controller issues the first fetch.
func (m UI) Init() tea.Cmd {
	ctrl := m.ctrl
	return tea.Batch(textinput.Blink, func() tea.Msg {
		ctrl.Focus()
		return nil
	})
}

// Update implements tea.Model.
func (m UI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.st = msg.state
		m.clampCursor()
		return m, nil

	case debounceMsg:
		if msg.id != m.debounceID {
			return m, nil // Stale debounce timer; ignore.
		}
		m.ctrl.SetInput(m.input.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m UI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.cancelled = true
		return m, tea.Quit

	case tea.KeyEnter:
		if m.cursor >= 0 && m.cursor < len(m.st.Options) {
			m.picked = m.st.Options[m.cursor]
			m.ctrl.Select(m.picked)
		}
		return m, tea.Quit

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.KeyDown:
		if m.cursor < len(m.st.Options)-1 {
			m.cursor++
		}
		m.reportScroll()
		return m, nil
	}

	// Everything else edits the search text.
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.cursor = 0
		return m, tea.Batch(cmd, m.startDebounce())
	}
	return m, cmd
}

// startDebounce increments the debounce counter and returns a tea.Tick
// command that fires after debounceInterval.
func (m *UI) startDebounce() tea.Cmd {
	m.debounceID++
	id := m.debounceID
	return tea.Tick(debounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{id: id}
	})
}

// reportScroll translates the cursor position into scroll geometry so the
// controller can decide whether to fetch the next page.
func (m UI) reportScroll() {
	total := float64(len(m.st.Options)) * rowHeight
	visible := float64(m.listHeight()) * rowHeight
	top := float64(m.cursor) * rowHeight
	m.ctrl.ListScrolled(top, visible, total)
}

func (m *UI) clampCursor() {
	if m.cursor >= len(m.st.Options) {
		m.cursor = len(m.st.Options) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// listHeight returns the number of visible option rows (terminal height
// minus input and status lines).
func (m UI) listHeight() int {
	const chrome = 3
	h := m.height - chrome
	if h < 1 {
		h = 10 // Sensible default before the first WindowSizeMsg.
	}
	return h
}

// --- View rendering ---

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m UI) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteRune('\n')
	b.WriteString(m.viewContent())
	b.WriteRune('\n')
	b.WriteString(m.viewStatus())
	return b.String()
}

func (m UI) viewContent() string {
	if m.st.Loading {
		return dimStyle.Render("Loading...")
	}
	if m.st.Err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %s", m.st.Err))
	}
	if len(m.st.Options) == 0 {
		return dimStyle.Render("No matches")
	}
	return m.viewList()
}

func (m UI) viewList() string {
	maxRows := m.listHeight()

	// Keep the cursor visible: scroll the window over the options.
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}
	end := start + maxRows
	if end > len(m.st.Options) {
		end = len(m.st.Options)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		label := m.ctrl.Label(m.st.Options[i])
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + label))
		} else {
			b.WriteString(normalStyle.Render("  " + label))
		}
		if i < end-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func (m UI) viewStatus() string {
	switch {
	case m.st.FetchingNextPage:
		return dimStyle.Render("fetching more...")
	case m.st.HasNextPage:
		return dimStyle.Render(fmt.Sprintf("%d options, more available", len(m.st.Options)))
	default:
		return dimStyle.Render(fmt.Sprintf("%d options", len(m.st.Options)))
	}
}
