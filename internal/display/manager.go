package display

import (
	"log/slog"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/aurora-ide/aurora-notify/internal/config"
	"github.com/aurora-ide/aurora-notify/internal/eventloop"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// frameInterval paces fades and progress bar redraws.
const frameInterval = 16 * time.Millisecond

// Manager renders a stack.Stack as layer-shell popups.
// It implements stack.Renderer; all methods run on the GTK main thread.
type Manager struct {
	app     *gtk.Application
	config  *config.Config
	sched   eventloop.Scheduler
	logger  *slog.Logger
	display *gdk.Display

	stack  *stack.Stack
	popups map[string]*Popup
	height int

	// Hover tracking
	hovered  map[string]bool
	collapse eventloop.Timer

	// Frame clock
	ticking  bool
	lastTick time.Time
	stopped  bool
}

// NewManager creates a new display manager. sched must deliver callbacks on
// the GTK main thread, see NewScheduler.
func NewManager(app *gtk.Application, cfg *config.Config, sched eventloop.Scheduler, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	return &Manager{
		app:     app,
		config:  cfg,
		sched:   sched,
		logger:  logger,
		popups:  make(map[string]*Popup),
		hovered: make(map[string]bool),
	}
}

// Bind attaches the stack whose cards the manager renders. Pointer and
// close button events are routed back to it.
func (m *Manager) Bind(st *stack.Stack) {
	m.stack = st
}

// Start checks for a display and applies the colour scheme.
func (m *Manager) Start() error {
	m.display = gdk.DisplayGetDefault()
	if m.display == nil {
		return &DisplayError{Message: "no display available"}
	}
	if m.stack == nil {
		return &DisplayError{Message: "no stack bound"}
	}

	m.applyColorScheme()
	m.logger.Info("display manager started", "position", m.config.Display.Position)
	return nil
}

// Stop closes every popup. Cards stay in the stack.
func (m *Manager) Stop() {
	m.stopped = true
	if m.collapse != nil {
		m.collapse.Stop()
		m.collapse = nil
	}
	for id, p := range m.popups {
		p.Close()
		delete(m.popups, id)
	}
	m.logger.Info("display manager stopped")
}

// UpdateConfig applies new display settings to every popup.
func (m *Manager) UpdateConfig(cfg *config.Config) error {
	m.config = cfg
	m.applyColorScheme()

	if m.stack == nil {
		return nil
	}
	for _, c := range m.stack.Cards() {
		if p, ok := m.popups[c.ID]; ok {
			p.UpdateConfig(cfg)
			p.Sync(c, m.stack.Expanded(), m.sched.Now())
		}
	}
	m.startTicking()
	return nil
}

// Mount creates and presents a popup for a new card.
func (m *Manager) Mount(c *stack.Card) {
	if m.stopped {
		return
	}

	id := c.ID
	p := NewPopup(m.app, c, m.config, m.logger)
	p.OnDismiss(func() {
		if m.stack != nil {
			m.stack.Dismiss(id)
		}
	})
	p.OnHover(func(hovering bool) {
		m.hover(id, hovering)
	})
	m.popups[id] = p

	p.Sync(c, m.expanded(), m.sched.Now())
	p.Present()
	m.startTicking()
}

// Update syncs a popup with its card.
func (m *Manager) Update(c *stack.Card) {
	p, ok := m.popups[c.ID]
	if !ok {
		return
	}
	p.Sync(c, m.expanded(), m.sched.Now())
	m.startTicking()
}

// Exit lets the fade-out started by Update run for timeouts.exit.
func (m *Manager) Exit(c *stack.Card, done func()) {
	if _, ok := m.popups[c.ID]; !ok {
		done()
		return
	}
	m.sched.AfterFunc(m.config.Timeouts.Exit.Duration(), done)
}

// Unmount destroys a card's popup.
func (m *Manager) Unmount(c *stack.Card) {
	p, ok := m.popups[c.ID]
	if !ok {
		return
	}
	p.Close()
	delete(m.popups, c.ID)

	// A popup destroyed under the pointer never sees its leave event.
	if m.hovered[c.ID] {
		delete(m.hovered, c.ID)
		m.scheduleCollapse()
	}
}

// Height returns the configured card height. Cards are fixed size.
func (m *Manager) Height(*stack.Card) int {
	return m.config.Display.CardHeight
}

// Resize records the stack height. Each popup is its own surface, so
// there is no container to resize.
func (m *Manager) Resize(height int) {
	if height == m.height {
		return
	}
	m.height = height
	m.logger.Debug("stack resized", "height", height, "popups", len(m.popups))
}

// Popups returns the number of live popup windows.
func (m *Manager) Popups() int {
	return len(m.popups)
}

func (m *Manager) expanded() bool {
	return m.stack != nil && m.stack.Expanded()
}

// hover pauses the card under the pointer and unpacks the stack while the
// pointer is over any card.
func (m *Manager) hover(id string, hovering bool) {
	if m.stack == nil {
		return
	}

	if hovering {
		m.hovered[id] = true
		if m.collapse != nil {
			m.collapse.Stop()
			m.collapse = nil
		}
		m.stack.Pause(id)
		if m.config.Behavior.ExpandOnHover {
			m.stack.SetExpanded(true)
		}
		return
	}

	delete(m.hovered, id)
	m.stack.Resume(id)
	m.scheduleCollapse()
}

// scheduleCollapse packs the stack once the pointer has been off every
// card for collapseDelay.
func (m *Manager) scheduleCollapse() {
	if len(m.hovered) > 0 || m.collapse != nil || m.stack == nil {
		return
	}
	m.collapse = m.sched.AfterFunc(collapseDelay, func() {
		m.collapse = nil
		if len(m.hovered) == 0 {
			m.stack.SetExpanded(false)
		}
	})
}

// startTicking starts the frame clock if it is not already running.
func (m *Manager) startTicking() {
	if m.ticking || m.stopped {
		return
	}
	m.ticking = true
	m.lastTick = m.sched.Now()
	m.sched.AfterFunc(frameInterval, m.tick)
}

func (m *Manager) tick() {
	now := m.sched.Now()
	dt := now.Sub(m.lastTick)
	m.lastTick = now

	busy := false
	for _, p := range m.popups {
		if p.Tick(now, dt) {
			busy = true
		}
	}

	if !busy || m.stopped {
		m.ticking = false
		return
	}
	m.sched.AfterFunc(frameInterval, m.tick)
}

// applyColorScheme forces libadwaita's palette when the config asks for it.
func (m *Manager) applyColorScheme() {
	scheme := adw.ColorSchemeDefault
	switch config.ColorScheme(m.config.Theme.ColorScheme) {
	case config.ColorSchemeLight:
		scheme = adw.ColorSchemeForceLight
	case config.ColorSchemeDark:
		scheme = adw.ColorSchemeForceDark
	}
	adw.StyleManagerGetDefault().SetColorScheme(scheme)
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
