package stack

import (
	"time"

	"github.com/aurora-ide/aurora-notify/internal/eventloop"
	"github.com/aurora-ide/aurora-notify/internal/markup"
	"github.com/aurora-ide/aurora-notify/internal/model"
)

// Card is a single notification in the stack.
// Exported fields are fixed at creation; state is read through accessors.
type Card struct {
	ID        string
	Message   string // Safe inline markup
	Severity  model.Severity
	Total     time.Duration
	CreatedAt time.Time

	state      model.CardState
	index      int
	suppressed bool

	// Countdown: remaining is what was left when the timer last (re)started
	// at startedAt. While paused, startedAt is zero.
	remaining time.Duration
	startedAt time.Time
	timer     eventloop.Timer

	progress   Progress
	dismissing bool
	reason     model.CloseReason
}

// State returns the lifecycle state.
func (c *Card) State() model.CardState { return c.state }

// Index returns the zero-based stack position (0 is newest).
func (c *Card) Index() int { return c.index }

// Suppressed reports whether the card is beyond the visible cap.
func (c *Card) Suppressed() bool { return c.suppressed }

// Progress returns the current progress bar animation.
func (c *Card) Progress() Progress { return c.progress }

// Text returns the message without markup.
func (c *Card) Text() string { return markup.Plain(c.Message) }

// Remaining returns the countdown as of the last pause or resume edge.
func (c *Card) Remaining() time.Duration { return c.remaining }

// RemainingAt returns the countdown left at now.
func (c *Card) RemainingAt(now time.Time) time.Duration {
	if c.startedAt.IsZero() {
		return c.remaining
	}
	left := c.remaining - now.Sub(c.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Running reports whether the countdown is currently ticking.
func (c *Card) Running() bool {
	return c.timer != nil
}

// Progress describes a linear progress bar animation. The bar shows From at
// StartedAt and shrinks to zero over Duration. A zero Duration is a bar
// pinned at From.
type Progress struct {
	From      float64
	Duration  time.Duration
	StartedAt time.Time
}

// At returns the bar fraction, between 0 and 1, at t.
func (p Progress) At(t time.Time) float64 {
	if p.Duration <= 0 {
		return clamp01(p.From)
	}
	elapsed := t.Sub(p.StartedAt)
	if elapsed <= 0 {
		return clamp01(p.From)
	}
	if elapsed >= p.Duration {
		return 0
	}
	return clamp01(p.From * (1 - float64(elapsed)/float64(p.Duration)))
}

// Frozen reports whether the bar is pinned.
func (p Progress) Frozen() bool {
	return p.Duration <= 0
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// CardInfo is a point-in-time view of a card for listing.
type CardInfo struct {
	ID        string         `json:"id" yaml:"id"`
	Severity  model.Severity `json:"severity" yaml:"severity"`
	Message   string         `json:"message" yaml:"message"`
	State     string         `json:"state" yaml:"state"`
	Index     int            `json:"index" yaml:"index"`
	Total     time.Duration  `json:"total" yaml:"total"`
	Remaining time.Duration  `json:"remaining" yaml:"remaining"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}
