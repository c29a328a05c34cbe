package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// PlainFormatter formats cards as plain text, one per line.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// templateData is passed to custom templates.
type templateData struct {
	Index int
	Card  stack.CardInfo
	Age   string
}

// NewPlainFormatter creates a new plain text formatter. A custom template
// that does not parse is an error.
func NewPlainFormatter(opts FormatterOptions) (*PlainFormatter, error) {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs(opts.now())).Parse(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template: %w", err)
		}
		f.template = tmpl
	}

	return f, nil
}

// Format writes cards as plain text.
func (f *PlainFormatter) Format(w io.Writer, cards []stack.CardInfo) error {
	now := f.opts.now()
	for i, c := range cards {
		if err := f.formatCard(w, i+1, c, now); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatCard(w io.Writer, index int, c stack.CardInfo, now time.Time) error {
	if f.template != nil {
		data := templateData{
			Index: index,
			Card:  c,
			Age:   age(c.CreatedAt, now),
		}
		if err := f.template.Execute(w, data); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%d] %s %s", index, c.Severity.Glyph(), c.Severity.Title()))
	sb.WriteString(fmt.Sprintf(" (%s, %s left)", age(c.CreatedAt, now), remaining(c.Remaining)))
	if c.State != "visible" {
		sb.WriteString(" [" + c.State + "]")
	}
	sb.WriteString(": " + sanitizeMessage(c.Message, f.opts.MessageMaxLen) + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// templateFuncs returns template helper functions.
func templateFuncs(now time.Time) template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			return truncate(s, maxLen)
		},
		"age": func(t time.Time) string {
			return age(t, now)
		},
		"remaining": remaining,
		"upper":     strings.ToUpper,
	}
}

// age returns a human-readable age.
func age(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// remaining formats a countdown to tenths of a second.
func remaining(d time.Duration) string {
	return d.Round(100 * time.Millisecond).String()
}
