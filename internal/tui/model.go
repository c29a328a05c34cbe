// Package tui hosts the notification stack in a terminal using Bubble Tea.
// Bubble Tea's update loop is the stack's owning goroutine: timers and
// IPC requests are delivered to it as messages.
package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/aurora-ide/aurora-notify/internal/config"
	"github.com/aurora-ide/aurora-notify/internal/daemon"
	"github.com/aurora-ide/aurora-notify/internal/eventloop"
	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// frameInterval paces progress bar redraws while cards are on screen.
const frameInterval = 50 * time.Millisecond

// Mode represents the current UI mode.
type Mode int

const (
	ModeStack Mode = iota
	ModeHelp
)

// runMsg carries a callback onto the update loop.
type runMsg func()

// frameMsg requests a redraw.
type frameMsg struct{}

// Model is the main TUI model.
type Model struct {
	cfg    *config.Config
	sched  eventloop.Scheduler
	stack  *stack.Stack
	view   *cardView
	logger *slog.Logger
	sounds daemon.Sounder

	mode Mode
	help help.Model
	keys KeyMap

	// State
	width   int
	height  int
	ready   bool
	hovered string
	pinned  bool
	demo    map[model.Severity]int
}

// New creates a new TUI model. sched must deliver callbacks through the
// program's update loop, see Run.
func New(cfg *config.Config, sched eventloop.Scheduler, logger *slog.Logger) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	view := newCardView(sched, cfg.Timeouts.Exit.Duration())

	// Terminal cards are measured in rows, so the pixel gap does not apply.
	opts := cfg.StackOptions()
	opts.Gap = 1

	return Model{
		cfg:    cfg,
		sched:  sched,
		stack:  stack.New(sched, view, opts, logger),
		view:   view,
		logger: logger,
		mode:   ModeStack,
		help:   help.New(),
		keys:   DefaultKeyMap(),
		demo:   make(map[model.Severity]int),
	}
}

// WithSounder returns a copy of m that plays a sound for every demo
// notification.
func (m Model) WithSounder(s daemon.Sounder) Model {
	m.sounds = s
	return m
}

// Stack returns the stack the model renders. It must only be used from
// the update loop.
func (m Model) Stack() *stack.Stack {
	return m.stack
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	return next, tea.Batch(cmd, next.nextFrame())
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runMsg:
		msg()
		return m, nil

	case frameMsg:
		m.view.ticking = false
		// A card removed under the pointer never reports a leave.
		if m.hovered != "" && m.stack.Card(m.hovered) == nil {
			m = m.hover("")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil
	}

	return m, nil
}

// nextFrame keeps one frame tick in flight while cards are on screen.
func (m Model) nextFrame() tea.Cmd {
	if m.view.ticking || m.stack.Len() == 0 {
		return nil
	}
	m.view.ticking = true
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeStack
		} else {
			m.mode = ModeHelp
		}
		m.help.ShowAll = m.mode == ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Success):
		m.spawn(model.SeveritySuccess)
	case key.Matches(msg, m.keys.Error):
		m.spawn(model.SeverityError)
	case key.Matches(msg, m.keys.Warning):
		m.spawn(model.SeverityWarning)
	case key.Matches(msg, m.keys.Info):
		m.spawn(model.SeverityInfo)
	case key.Matches(msg, m.keys.Rich):
		m.spawnRich()

	case key.Matches(msg, m.keys.Dismiss):
		if newest := m.newest(); newest != nil {
			m.stack.Dismiss(newest.ID)
		}
	case key.Matches(msg, m.keys.Clear):
		m.stack.Clear()
	case key.Matches(msg, m.keys.Expand):
		m.pinned = !m.pinned
		m.stack.SetExpanded(m.wantExpanded())
	}

	return m, nil
}

// newest returns the newest card that is not already leaving.
func (m Model) newest() *stack.Card {
	for _, c := range m.stack.Cards() {
		if c.State() != model.StateExiting {
			return c
		}
	}
	return nil
}

// handleMouse maps pointer motion onto pause, resume and expansion, and
// clicks on a close glyph onto Dismiss.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	hit, onClose := m.hitTest(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		id := ""
		if hit != nil {
			id = hit.ID
		}
		return m.hover(id), nil

	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && onClose {
			m.stack.Dismiss(hit.ID)
		}
	}
	return m, nil
}

// hover moves the pointer onto the card with the given id, or off the
// stack when id is empty.
func (m Model) hover(id string) Model {
	if id == m.hovered {
		return m
	}
	if m.hovered != "" {
		m.stack.Resume(m.hovered)
	}
	m.hovered = id
	if id != "" {
		m.stack.Pause(id)
	}
	m.stack.SetExpanded(m.wantExpanded())
	return m
}

// wantExpanded reports whether the stack should be unpacked: pinned from
// the keyboard, or hovered when expand_on_hover is set.
func (m Model) wantExpanded() bool {
	return m.pinned || (m.hovered != "" && m.cfg.Behavior.ExpandOnHover)
}

// hitTest returns the card under x, y and whether the cell is its close glyph.
func (m Model) hitTest(x, y int) (*stack.Card, bool) {
	for _, p := range m.placements() {
		if p.contains(x, y) {
			return p.card, p.onClose(x, y)
		}
	}
	return nil, false
}

func (m Model) placements() []placement {
	// The bottom row belongs to the key bar.
	return layout(m.stack.Cards(), m.stack.Expanded(), m.stack.Options().Gap, m.height-1, m.width)
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	rows := make([]string, max(m.height-1, 0))
	now := m.sched.Now()
	expanded := m.stack.Expanded()

	for _, p := range m.placements() {
		block := renderSliver(p)
		if p.rows == cardRows {
			block = m.view.renderCard(p, expanded, now)
		}
		pad := strings.Repeat(" ", p.left)
		for i, line := range strings.Split(block, "\n") {
			if row := p.top + i; row >= 0 && row < len(rows) {
				rows[row] = pad + line
			}
		}
	}

	if m.mode == ModeHelp {
		overlay := strings.Split(m.viewHelp(), "\n")
		for i, line := range overlay {
			if i < len(rows) {
				rows[i] = line
			}
		}
	}

	return strings.Join(rows, "\n") + "\n" + m.statusBar()
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	return titleStyle.Render("Keyboard Shortcuts") + "\n" + m.help.View(m.keys) + "\n\n" +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Press ? to return")
}

// statusBar shows the short help and a count of cards, including ones
// hidden beyond the visible cap.
func (m Model) statusBar() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	count := ""
	if n := m.stack.Len(); n > 0 {
		count = " " + plural(n, "card")
		if hidden := n - m.stack.Options().MaxVisible; hidden > 0 {
			count += " (" + plural(hidden, "hidden") + ")"
		}
	}

	bar := m.help.ShortHelpView(m.keys.ShortHelp())
	return truncate(bar+style.Render(count), m.width)
}

func plural(n int, noun string) string {
	s := humanize.Comma(int64(n)) + " " + noun
	if n != 1 && noun == "card" {
		s += "s"
	}
	return s
}
