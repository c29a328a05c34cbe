package eventloop

import (
	"sync/atomic"
	"time"
)

// Timer is a handle to a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Scheduler defers work onto the owning loop.
type Scheduler interface {
	Now() time.Time
	// AfterFunc runs fn on the loop once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
	// NextFrame runs fn on the loop after the current callback returns and
	// the host has had a chance to render.
	NextFrame(fn func())
}

// Realtime is a wall-clock Scheduler that hands callbacks to post.
type Realtime struct {
	post func(func())
}

// NewRealtime creates a Realtime scheduler. post must enqueue fn for
// execution on the loop goroutine and must not block on the loop.
func NewRealtime(post func(func())) *Realtime {
	return &Realtime{post: post}
}

// Now returns the current wall-clock time.
func (r *Realtime) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn on the loop after d.
func (r *Realtime) AfterFunc(d time.Duration, fn func()) Timer {
	t := &realtimeTimer{}
	t.timer = time.AfterFunc(d, func() {
		r.post(func() {
			// The wake-up may already be queued when Stop runs on the loop.
			if !t.done.CompareAndSwap(false, true) {
				return
			}
			fn()
		})
	})
	return t
}

// NextFrame posts fn to the loop.
func (r *Realtime) NextFrame(fn func()) {
	r.post(fn)
}

type realtimeTimer struct {
	timer *time.Timer
	done  atomic.Bool
}

func (t *realtimeTimer) Stop() bool {
	t.timer.Stop()
	return t.done.CompareAndSwap(false, true)
}
