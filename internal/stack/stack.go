package stack

import (
	"log/slog"
	"time"

	"github.com/aurora-ide/aurora-notify/internal/eventloop"
	"github.com/aurora-ide/aurora-notify/internal/markup"
	"github.com/aurora-ide/aurora-notify/internal/model"
)

// Default option values.
const (
	DefaultMaxVisible = 3
	DefaultGap        = 12
	DefaultDuration   = 5 * time.Second
)

// Options configures a Stack.
type Options struct {
	MaxVisible      int           // Cards drawn at full opacity; the rest stay tracked but hidden
	Gap             int           // Vertical gap between cards, used in the height formula
	DefaultDuration time.Duration // Lifetime when the caller passes none
	PauseOnHover    bool          // Whether Pause and Resume have any effect
}

// DefaultOptions returns the stock options.
func DefaultOptions() Options {
	return Options{
		MaxVisible:      DefaultMaxVisible,
		Gap:             DefaultGap,
		DefaultDuration: DefaultDuration,
		PauseOnHover:    true,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxVisible < 1 {
		o.MaxVisible = DefaultMaxVisible
	}
	if o.Gap < 0 {
		o.Gap = 0
	}
	if o.DefaultDuration <= 0 {
		o.DefaultDuration = DefaultDuration
	}
	return o
}

// Notification is a request to show a card.
type Notification struct {
	ID       string // Optional; generated when empty
	Message  string
	Markup   bool // Message is rich markup rather than plain text
	Severity model.Severity
	Duration time.Duration // Zero or negative selects the default
}

// ClosedFunc is called after a card has been removed from the stack.
type ClosedFunc func(c *Card, reason model.CloseReason)

// Stack owns the ordered set of cards.
type Stack struct {
	opts     Options
	sched    eventloop.Scheduler
	view     Renderer
	logger   *slog.Logger
	onClosed []ClosedFunc

	cards    []*Card // Newest first
	height   int
	expanded bool
}

// New creates a Stack. A nil renderer draws nothing.
func New(sched eventloop.Scheduler, view Renderer, opts Options, logger *slog.Logger) *Stack {
	if logger == nil {
		logger = slog.Default()
	}
	if view == nil {
		view = nopRenderer{}
	}
	return &Stack{
		opts:   opts.withDefaults(),
		sched:  sched,
		view:   view,
		logger: logger,
	}
}

// OnClosed registers a callback invoked whenever a card is removed.
func (s *Stack) OnClosed(fn ClosedFunc) {
	s.onClosed = append(s.onClosed, fn)
}

// Options returns the active options.
func (s *Stack) Options() Options {
	return s.opts
}

// Show adds a plain-text notification and returns its id.
// The message is escaped; use ShowMarkup for rich text.
func (s *Stack) Show(message string, severity model.Severity, duration time.Duration) string {
	return s.Push(Notification{Message: message, Severity: severity, Duration: duration})
}

// ShowMarkup adds a notification whose message is inline markup.
// The markup is sanitised before it reaches the renderer.
func (s *Stack) ShowMarkup(message string, severity model.Severity, duration time.Duration) string {
	return s.Push(Notification{Message: message, Markup: true, Severity: severity, Duration: duration})
}

// Push inserts a new card at the front of the stack and starts its countdown.
// A caller-assigned ID that is already on the stack is replaced with a fresh
// one; the returned id is always the card's.
func (s *Stack) Push(n Notification) string {
	if n.ID != "" && s.find(n.ID) != nil {
		s.logger.Warn("duplicate notification id, assigning a new one", "id", n.ID)
		n.ID = ""
	}
	if n.ID == "" {
		n.ID = model.NewID()
	}
	if n.Duration <= 0 {
		n.Duration = s.opts.DefaultDuration
	}

	msg := markup.Escape(n.Message)
	if n.Markup {
		msg = markup.Sanitize(n.Message)
	}

	now := s.sched.Now()
	c := &Card{
		ID:        n.ID,
		Message:   msg,
		Severity:  n.Severity.Normalize(),
		Total:     n.Duration,
		CreatedAt: now,
		state:     model.StateEntering,
		remaining: n.Duration,
	}

	s.cards = append([]*Card{c}, s.cards...)
	s.reindex()
	s.view.Mount(c)
	s.relayout()

	// The resting style must be applied on a later frame than the one that
	// inserted the card, or the entrance transition never plays.
	s.sched.NextFrame(func() {
		if c.state != model.StateEntering {
			return
		}
		c.state = model.StateVisible
		s.view.Update(c)
	})

	s.startTimer(c)

	s.logger.Debug("notification shown",
		"id", c.ID,
		"severity", c.Severity,
		"duration", c.Total,
		"cards", len(s.cards),
	)
	return c.ID
}

// Pause suspends a card's countdown while the pointer is over it.
func (s *Stack) Pause(id string) {
	if !s.opts.PauseOnHover {
		return
	}
	c := s.find(id)
	if c == nil || c.dismissing {
		return
	}
	if c.state != model.StateEntering && c.state != model.StateVisible {
		return
	}

	s.stopTimer(c)
	c.state = model.StatePaused
	s.view.Update(c)

	s.logger.Debug("notification paused", "id", c.ID, "remaining", c.remaining)
}

// Resume restarts a paused card's countdown with the time it had left.
func (s *Stack) Resume(id string) {
	if !s.opts.PauseOnHover {
		return
	}
	c := s.find(id)
	if c == nil || c.dismissing || c.state != model.StatePaused {
		return
	}

	c.state = model.StateVisible
	s.startTimer(c)

	s.logger.Debug("notification resumed", "id", c.ID, "remaining", c.remaining)
}

// Dismiss closes a card on behalf of the user.
func (s *Stack) Dismiss(id string) {
	if c := s.find(id); c != nil {
		s.dismiss(c, model.CloseReasonDismissed)
	}
}

// Close closes a card programmatically.
func (s *Stack) Close(id string) {
	if c := s.find(id); c != nil {
		s.dismiss(c, model.CloseReasonClosed)
	}
}

// Clear closes every card.
func (s *Stack) Clear() {
	cards := make([]*Card, len(s.cards))
	copy(cards, s.cards)
	for _, c := range cards {
		s.dismiss(c, model.CloseReasonClosed)
	}
}

// Remove takes a card out of the stack immediately, without an exit
// animation. Removing an unknown id is a no-op.
func (s *Stack) Remove(id string) {
	c := s.find(id)
	if c == nil {
		return
	}
	reason := model.CloseReasonClosed
	if c.dismissing {
		reason = c.reason
	}
	s.remove(c, reason)
}

// SetExpanded unpacks or collapses the stack, typically while the pointer
// is over it.
func (s *Stack) SetExpanded(expanded bool) {
	if s.expanded == expanded {
		return
	}
	s.expanded = expanded
	for _, c := range s.cards {
		s.view.Update(c)
	}
}

// Expanded reports whether the stack is unpacked.
func (s *Stack) Expanded() bool {
	return s.expanded
}

// Reconfigure applies new options to the existing stack.
func (s *Stack) Reconfigure(opts Options) {
	s.opts = opts.withDefaults()
	s.reindex()
	for _, c := range s.cards {
		s.view.Update(c)
	}
	s.relayout()
}

// Len returns the number of tracked cards.
func (s *Stack) Len() int {
	return len(s.cards)
}

// Height returns the container height computed by the last layout pass.
func (s *Stack) Height() int {
	return s.height
}

// Card returns the card with the given id, or nil.
func (s *Stack) Card(id string) *Card {
	return s.find(id)
}

// Cards returns the cards newest first.
func (s *Stack) Cards() []*Card {
	cards := make([]*Card, len(s.cards))
	copy(cards, s.cards)
	return cards
}

// Snapshot returns a listing of all cards, newest first.
func (s *Stack) Snapshot() []CardInfo {
	now := s.sched.Now()
	infos := make([]CardInfo, 0, len(s.cards))
	for _, c := range s.cards {
		infos = append(infos, CardInfo{
			ID:        c.ID,
			Severity:  c.Severity,
			Message:   c.Text(),
			State:     c.state.String(),
			Index:     c.index,
			Total:     c.Total,
			Remaining: c.RemainingAt(now),
			CreatedAt: c.CreatedAt,
		})
	}
	return infos
}

// dismiss moves a card into the exiting state. Repeated calls are no-ops.
func (s *Stack) dismiss(c *Card, reason model.CloseReason) {
	if c.dismissing {
		return
	}
	c.dismissing = true
	c.reason = reason

	s.stopTimer(c)
	c.state = model.StateExiting
	s.view.Update(c)

	finished := false
	s.view.Exit(c, func() {
		if finished {
			return
		}
		finished = true
		s.remove(c, c.reason)
	})
}

func (s *Stack) remove(c *Card, reason model.CloseReason) {
	idx := s.indexOf(c)
	if idx < 0 {
		return
	}

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.state = model.StateRemoved
	s.cards = append(s.cards[:idx], s.cards[idx+1:]...)

	s.view.Unmount(c)
	s.reindex()
	for _, other := range s.cards {
		s.view.Update(other)
	}
	s.relayout()

	s.logger.Debug("notification removed", "id", c.ID, "reason", reason.String(), "cards", len(s.cards))

	for _, fn := range s.onClosed {
		fn(c, reason)
	}
}

// startTimer (re)starts the countdown from c.remaining. Any live timer is
// cancelled first so a card never has two pending expiries.
func (s *Stack) startTimer(c *Card) {
	if c.timer != nil {
		c.timer.Stop()
	}

	now := s.sched.Now()
	c.startedAt = now
	c.progress = Progress{
		From:      fraction(c.remaining, c.Total),
		Duration:  c.remaining,
		StartedAt: now,
	}
	c.timer = s.sched.AfterFunc(c.remaining, func() {
		c.timer = nil
		s.dismiss(c, model.CloseReasonExpired)
	})
	s.view.Update(c)
}

// stopTimer cancels the countdown, banks the elapsed time and pins the
// progress bar where it currently is.
func (s *Stack) stopTimer(c *Card) {
	if c.timer == nil {
		return
	}
	c.timer.Stop()
	c.timer = nil

	now := s.sched.Now()
	c.remaining = c.RemainingAt(now)
	c.startedAt = time.Time{}
	c.progress = Progress{From: c.progress.At(now)}
}

func (s *Stack) reindex() {
	for i, c := range s.cards {
		c.index = i
		c.suppressed = i >= s.opts.MaxVisible
	}
}

// relayout recomputes the container height from the newest card:
// first + min(n-1, max-1) * (first + gap).
func (s *Stack) relayout() {
	height := 0
	if n := len(s.cards); n > 0 {
		first := s.view.Height(s.cards[0])
		height = first + min(n-1, s.opts.MaxVisible-1)*(first+s.opts.Gap)
	}
	s.height = height
	s.view.Resize(height)
}

func (s *Stack) find(id string) *Card {
	for _, c := range s.cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Stack) indexOf(c *Card) int {
	for i, other := range s.cards {
		if other == c {
			return i
		}
	}
	return -1
}

func fraction(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 0
	}
	return clamp01(float64(part) / float64(whole))
}
