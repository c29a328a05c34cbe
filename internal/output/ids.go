package output

import (
	"fmt"
	"io"

	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// IDsFormatter outputs just the card IDs, one per line.
// Useful for piping to other commands (e.g., xargs aurora-notify dismiss).
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes card IDs to the writer, one per line.
func (f *IDsFormatter) Format(w io.Writer, cards []stack.CardInfo) error {
	for _, c := range cards {
		if _, err := fmt.Fprintln(w, c.ID); err != nil {
			return err
		}
	}
	return nil
}
