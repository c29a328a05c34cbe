// Package dbus exposes the notification stack on the session bus as
// org.aurora.Notifications, and provides the matching client used by the
// command line tool.
package dbus
