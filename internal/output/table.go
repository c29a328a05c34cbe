package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// TableFormatter formats cards as a bordered table.
type TableFormatter struct {
	opts FormatterOptions
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(opts FormatterOptions) *TableFormatter {
	return &TableFormatter{opts: opts}
}

// Format writes cards as a table. An empty listing prints nothing.
func (f *TableFormatter) Format(w io.Writer, cards []stack.CardInfo) error {
	if len(cards) == 0 {
		return nil
	}

	now := f.opts.now()
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []string{
			c.ID,
			c.Severity.String(),
			c.State,
			age(c.CreatedAt, now),
			remaining(c.Remaining),
			sanitizeMessage(c.Message, f.opts.MessageMaxLen),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Rows(rows...)
	if !f.opts.NoHeader {
		t = t.Headers("ID", "SEVERITY", "STATE", "AGE", "REMAINING", "MESSAGE")
	}

	_, err := io.WriteString(w, t.String()+"\n")
	return err
}
