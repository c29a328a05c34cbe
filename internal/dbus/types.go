package dbus

import (
	"math"
	"time"

	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

const (
	// Interface is the notification interface name.
	Interface = "org.aurora.Notifications"
	// Path is the notification object path.
	Path = "/org/aurora/Notifications"
	// BusName is the bus name to claim.
	BusName = "org.aurora.Notifications"
)

// ServerInfo is returned by GetServerInformation.
type ServerInfo struct {
	Name    string
	Vendor  string
	Version string
}

// DefaultServerInfo returns the server information for version.
func DefaultServerInfo(version string) ServerInfo {
	return ServerInfo{
		Name:    "aurora-notify",
		Vendor:  "aurora",
		Version: version,
	}
}

// WireCard is the D-Bus representation of a card, signature (ssssiuux).
// Field order is the wire order.
type WireCard struct {
	ID          string
	Severity    string
	Message     string
	State       string
	Index       int32
	TotalMS     uint32
	RemainingMS uint32
	CreatedAt   int64 // Unix milliseconds
}

// ToWire converts a card listing for transport.
func ToWire(info stack.CardInfo) WireCard {
	return WireCard{
		ID:          info.ID,
		Severity:    string(info.Severity),
		Message:     info.Message,
		State:       info.State,
		Index:       int32(info.Index),
		TotalMS:     Millis(info.Total),
		RemainingMS: Millis(info.Remaining),
		CreatedAt:   info.CreatedAt.UnixMilli(),
	}
}

// Info converts a transported card back into a listing.
func (w WireCard) Info() stack.CardInfo {
	return stack.CardInfo{
		ID:        w.ID,
		Severity:  model.ParseSeverity(w.Severity),
		Message:   w.Message,
		State:     w.State,
		Index:     int(w.Index),
		Total:     time.Duration(w.TotalMS) * time.Millisecond,
		Remaining: time.Duration(w.RemainingMS) * time.Millisecond,
		CreatedAt: time.UnixMilli(w.CreatedAt),
	}
}

// Millis converts d to whole milliseconds for a u argument, clamped to the
// uint32 range.
func Millis(d time.Duration) uint32 {
	ms := d.Milliseconds()
	switch {
	case ms <= 0:
		return 0
	case ms > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(ms)
	}
}
