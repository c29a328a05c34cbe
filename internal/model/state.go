package model

// CardState is the lifecycle state of a notification card.
type CardState int

const (
	// StateEntering is the state right after insertion, before the first frame.
	StateEntering CardState = iota
	// StateVisible means the card is at rest and its countdown is running.
	StateVisible
	// StatePaused means the pointer is over the card and the countdown is suspended.
	StatePaused
	// StateExiting means the exit animation is playing.
	StateExiting
	// StateRemoved means the card has left the stack.
	StateRemoved
)

// String returns the string representation of CardState.
func (s CardState) String() string {
	switch s {
	case StateEntering:
		return "entering"
	case StateVisible:
		return "visible"
	case StatePaused:
		return "paused"
	case StateExiting:
		return "exiting"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// CloseReason records why a card left the stack.
// Values follow the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the countdown reached zero.
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user closed the card.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the card was closed programmatically.
	CloseReasonClosed CloseReason = 3
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	default:
		return "unknown"
	}
}
