// Package eventloop provides the single-threaded scheduling model the
// notification stack runs on. Every stack mutation happens on one goroutine;
// timers and frame callbacks are delivered back onto that goroutine through a
// post function supplied by the host (a glib idle source, a Bubble Tea
// message, or a Loop).
package eventloop
