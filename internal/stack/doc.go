// Package stack implements the notification stack controller: an ordered
// collection of cards, newest first, each with its own dismiss timer,
// hover pause/resume and exit animation.
//
// A Stack is not safe for concurrent use. All methods, renderer calls and
// scheduler callbacks run on the single goroutine that owns the stack; hosts
// marshal foreign calls onto it (see package eventloop).
package stack
