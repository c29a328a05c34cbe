// Package model defines the value types shared by the notification stack,
// its renderers and the IPC surface.
package model

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Severity classifies a notification and drives its icon and accent colour.
type Severity string

// Severity levels.
const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Severities returns all valid severities in display order.
func Severities() []Severity {
	return []Severity{SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo}
}

// ParseSeverity converts a user supplied string into a Severity.
// Unknown or empty values fall back to SeverityInfo.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeveritySuccess:
		return SeveritySuccess
	case SeverityError:
		return SeverityError
	case SeverityWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Normalize returns s if valid, otherwise SeverityInfo.
func (s Severity) Normalize() Severity {
	if s.Valid() {
		return s
	}
	return SeverityInfo
}

// String returns the severity name.
func (s Severity) String() string {
	return string(s)
}

// Title returns the heading shown on a card of this severity.
func (s Severity) Title() string {
	switch s.Normalize() {
	case SeveritySuccess:
		return "Success"
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	default:
		return "Information"
	}
}

// Icon returns the freedesktop icon name for the severity.
func (s Severity) Icon() string {
	switch s.Normalize() {
	case SeveritySuccess:
		return "emblem-ok-symbolic"
	case SeverityError:
		return "dialog-error-symbolic"
	case SeverityWarning:
		return "dialog-warning-symbolic"
	default:
		return "dialog-information-symbolic"
	}
}

// Glyph returns a single-cell symbol for terminal renderers.
func (s Severity) Glyph() string {
	switch s.Normalize() {
	case SeveritySuccess:
		return "✔"
	case SeverityError:
		return "⚡"
	case SeverityWarning:
		return "▲"
	default:
		return "ℹ"
	}
}

// Accent returns the accent colour as a hex string.
func (s Severity) Accent() string {
	switch s.Normalize() {
	case SeveritySuccess:
		return "#27ae60"
	case SeverityError:
		return "#e74c3c"
	case SeverityWarning:
		return "#f39c12"
	default:
		return "#3498db"
	}
}

// NewID returns a new lexically sortable card identifier.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
