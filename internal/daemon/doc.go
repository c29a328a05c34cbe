// Package daemon wires the notification stack to the outside world.
// Service is the goroutine-safe handle that D-Bus, the CLI and internal
// events use to reach a stack living on a UI thread. The rest of the
// package ties configuration reloads and self-notifications into it.
package daemon
