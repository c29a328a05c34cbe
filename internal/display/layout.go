package display

import (
	"time"

	"github.com/aurora-ide/aurora-notify/internal/model"
)

// CascadeStep is the vertical offset between collapsed cards.
const CascadeStep = 14

// collapseDelay is how long the stack stays unpacked after the pointer
// leaves a card. Moving between cards fires leave before enter.
const collapseDelay = 150 * time.Millisecond

// Offset returns the distance of a card from the anchored screen edge,
// before the configured edge offset is added.
func Offset(index int, expanded bool, cardHeight, gap int) int {
	if index <= 0 {
		return 0
	}
	if expanded {
		return index * (cardHeight + gap)
	}
	return index * CascadeStep
}

// Opacity returns the resting opacity for a card. Cards that are entering
// or leaving rest at zero so the fade has somewhere to go.
func Opacity(state model.CardState, index int, expanded bool) float64 {
	switch state {
	case model.StateEntering, model.StateExiting, model.StateRemoved:
		return 0
	}
	if expanded {
		return 1
	}
	return max(0, 1-0.2*float64(index))
}

// Approach moves current towards target so that a full 0..1 swing takes span.
// A non-positive span snaps to target.
func Approach(current, target float64, dt, span time.Duration) float64 {
	if span <= 0 || dt >= span {
		return target
	}
	step := float64(dt) / float64(span)
	switch {
	case current < target:
		return min(target, current+step)
	case current > target:
		return max(target, current-step)
	default:
		return current
	}
}
