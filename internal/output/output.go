// Package output renders card listings for the command line.
package output

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// Formatter formats a card listing for output.
type Formatter interface {
	// Format writes the cards, newest first, to the writer.
	Format(w io.Writer, cards []stack.CardInfo) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatTable FormatType = "table"
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatIDs   FormatType = "ids"
)

// ValidFormats returns all supported format types.
func ValidFormats() []FormatType {
	return []FormatType{FormatTable, FormatPlain, FormatJSON, FormatYAML, FormatIDs}
}

// ParseFormat converts a flag value into a FormatType.
func ParseFormat(s string) (FormatType, error) {
	f := FormatType(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatTable, nil
	}
	if !slices.Contains(ValidFormats(), f) {
		return "", fmt.Errorf("unknown output format %q (valid: %s)", s, joinFormats())
	}
	return f, nil
}

func joinFormats() string {
	names := make([]string, 0, len(ValidFormats()))
	for _, f := range ValidFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template      string    // Custom template for plain format
	MessageMaxLen int       // Maximum message length (0 = unlimited)
	NoHeader      bool      // Omit the table header
	Now           time.Time // Reference time for ages (zero = time.Now)
}

// DefaultFormatterOptions returns sensible defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		MessageMaxLen: 60,
	}
}

func (o FormatterOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatIDs:
		return NewIDsFormatter(), nil
	case FormatPlain:
		return NewPlainFormatter(opts)
	case FormatTable, "":
		return NewTableFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// sanitizeMessage flattens a message onto one line and truncates it.
func sanitizeMessage(msg string, maxLen int) string {
	msg = strings.Join(strings.Fields(msg), " ")
	return truncate(msg, maxLen)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
