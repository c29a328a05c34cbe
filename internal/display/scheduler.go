package display

import (
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/aurora-ide/aurora-notify/internal/eventloop"
)

// NewScheduler returns a wall-clock scheduler whose callbacks run on the
// GTK main loop.
func NewScheduler() *eventloop.Realtime {
	return eventloop.NewRealtime(func(fn func()) {
		glib.IdleAdd(fn)
	})
}

// Post runs fn on the GTK main loop. It always reports true; callbacks
// queued after the application quits are dropped by GLib.
func Post(fn func()) bool {
	glib.IdleAdd(fn)
	return true
}
