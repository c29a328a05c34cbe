package eventloop

import (
	"sort"
	"time"
)

// Manual is a virtual-time Scheduler. Nothing runs until Advance or Flush
// is called, which makes timer-driven behaviour reproducible in tests.
type Manual struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
	frames []func()
}

type manualTimer struct {
	due     time.Time
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewManual creates a Manual scheduler starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc registers fn to run once the virtual clock reaches now+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{due: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// NextFrame queues fn for the next Flush.
func (m *Manual) NextFrame(fn func()) {
	m.frames = append(m.frames, fn)
}

// Flush runs queued frame callbacks, including ones queued while flushing.
func (m *Manual) Flush() {
	for len(m.frames) > 0 {
		frames := m.frames
		m.frames = nil
		for _, fn := range frames {
			fn()
		}
	}
}

// Advance moves the virtual clock forward by d, firing due timers in order.
// Frames are flushed before the clock moves and after every timer.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	m.Flush()

	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.due
		next.fired = true
		next.fn()
		m.Flush()
	}

	m.now = target
	m.compact()
}

// Pending returns the number of live timers.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(limit time.Time) *manualTimer {
	live := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.stopped && !t.fired && !t.due.After(limit) {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].due.Equal(live[j].due) {
			return live[i].seq < live[j].seq
		}
		return live[i].due.Before(live[j].due)
	})
	return live[0]
}

func (m *Manual) compact() {
	kept := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			kept = append(kept, t)
		}
	}
	m.timers = kept
}
