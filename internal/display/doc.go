// Package display renders the notification stack as GTK4/libadwaita popup
// windows. Each card gets its own layer-shell surface anchored to the
// configured screen corner; the Manager implements stack.Renderer and turns
// card state changes into window placement, opacity and progress updates.
//
// Everything in this package must run on the GTK main thread.
package display
