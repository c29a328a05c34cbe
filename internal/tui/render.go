package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/aurora-ide/aurora-notify/internal/eventloop"
	"github.com/aurora-ide/aurora-notify/internal/markup"
	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

const (
	// cardRows is the height of a fully drawn card: border, header,
	// two message rows, progress bar, border.
	cardRows    = 6
	messageRows = 2

	defaultCardWidth = 48
	minCardWidth     = 24

	// leftMargin is the column the stack is anchored to.
	leftMargin = 1

	closeGlyph = "✕"
)

// cardView implements stack.Renderer for the terminal. Drawing happens in
// Model.View; the renderer keeps per-card widgets and paces exits.
type cardView struct {
	sched eventloop.Scheduler
	exit  time.Duration
	bars  map[string]progress.Model

	height  int
	ticking bool
}

func newCardView(sched eventloop.Scheduler, exit time.Duration) *cardView {
	return &cardView{
		sched: sched,
		exit:  exit,
		bars:  make(map[string]progress.Model),
	}
}

func (v *cardView) Mount(c *stack.Card) {
	v.bars[c.ID] = progress.New(
		progress.WithSolidFill(c.Severity.Accent()),
		progress.WithoutPercentage(),
		progress.WithWidth(defaultCardWidth-4),
	)
}

// Update is a no-op; every frame redraws from the cards themselves.
func (v *cardView) Update(*stack.Card) {}

func (v *cardView) Exit(_ *stack.Card, done func()) {
	v.sched.AfterFunc(v.exit, done)
}

func (v *cardView) Unmount(c *stack.Card) {
	delete(v.bars, c.ID)
}

func (v *cardView) Height(*stack.Card) int {
	return cardRows
}

func (v *cardView) Resize(height int) {
	v.height = height
}

// placement is where a card lands on screen. Collapsed background cards
// are drawn as a single-row sliver.
type placement struct {
	card  *stack.Card
	top   int
	rows  int
	left  int
	width int
}

// contains reports whether the cell x, y is inside the placement.
func (p placement) contains(x, y int) bool {
	return y >= p.top && y < p.top+p.rows && x >= p.left && x < p.left+p.width
}

// onClose reports whether the cell x, y is the card's close glyph.
func (p placement) onClose(x, y int) bool {
	return p.rows == cardRows && y == p.top+1 && x == p.closeColumn()
}

// closeColumn is the screen column of the close glyph: inside the right
// border and padding.
func (p placement) closeColumn() int {
	return p.left + p.width - 3
}

// layout places the visible cards anchored to the bottom-left corner,
// newest at the bottom. bottom is the first row below the stack.
func layout(cards []*stack.Card, expanded bool, gap, bottom, screenWidth int) []placement {
	width := min(defaultCardWidth, screenWidth-2*leftMargin)
	if width < minCardWidth {
		width = minCardWidth
	}

	var out []placement
	for _, c := range cards {
		if c.Suppressed() {
			continue
		}

		p := placement{card: c, rows: cardRows, left: leftMargin, width: width}
		if !expanded && c.Index() > 0 {
			p.rows = 1
			p.left += 2 * c.Index()
			p.width -= 4 * c.Index()
		}
		p.top = bottom - p.rows
		if p.top < 0 || p.width < 4 {
			break
		}
		out = append(out, p)

		bottom = p.top
		if expanded {
			bottom -= gap
		}
	}
	return out
}

// faded reports whether a card is drawn dimmed: it is entering, leaving or
// pushed back in a collapsed stack.
func faded(c *stack.Card, expanded bool) bool {
	switch c.State() {
	case model.StateEntering, model.StateExiting:
		return true
	}
	return !expanded && c.Index() > 0
}

var (
	dimColor  = lipgloss.Color("8")
	ageStyle  = lipgloss.NewStyle().Foreground(dimColor)
	codeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// renderCard draws a full card.
func (v *cardView) renderCard(p placement, expanded bool, now time.Time) string {
	c := p.card
	inner := p.width - 4

	accent := lipgloss.Color(c.Severity.Accent())
	border := lipgloss.Color(c.Severity.Accent())
	if faded(c, expanded) {
		accent = dimColor
		border = dimColor
	}

	// Header: glyph and title on the left, age and close glyph on the right.
	title := lipgloss.NewStyle().Bold(true).Foreground(accent).
		Render(c.Severity.Glyph() + " " + c.Severity.Title())
	if c.State() == model.StatePaused {
		title += ageStyle.Render(" (paused)")
	}
	right := ageStyle.Render(humanize.RelTime(c.CreatedAt, now, "ago", "from now")) + " " + closeGlyph
	fill := max(1, inner-lipgloss.Width(title)-lipgloss.Width(right))
	header := title + strings.Repeat(" ", fill) + right

	body := lipgloss.NewStyle().Width(inner).Render(renderSpans(markup.Spans(c.Message)))
	lines := strings.Split(body, "\n")
	if len(lines) > messageRows {
		lines = lines[:messageRows]
		lines[messageRows-1] = truncate(lines[messageRows-1], inner)
	}
	for len(lines) < messageRows {
		lines = append(lines, "")
	}

	bar, ok := v.bars[c.ID]
	if !ok {
		bar = progress.New(progress.WithSolidFill(c.Severity.Accent()), progress.WithoutPercentage())
	}
	bar.Width = inner
	progressLine := bar.ViewAs(c.Progress().At(now))

	content := strings.Join(append(append([]string{header}, lines...), progressLine), "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(inner + 2).
		Render(content)
}

// renderSliver draws the top edge of a card pushed back in a collapsed stack.
func renderSliver(p placement) string {
	c := p.card
	label := "╭─ " + c.Severity.Glyph() + " " + c.Severity.Title() + " "
	fill := max(0, p.width-lipgloss.Width(label)-1)
	line := truncate(label+strings.Repeat("─", fill)+"╮", p.width)
	return lipgloss.NewStyle().Foreground(dimColor).Render(line)
}

// renderSpans styles markup runs for the terminal.
func renderSpans(spans []markup.Span) string {
	var b strings.Builder
	for _, s := range spans {
		style := lipgloss.NewStyle().
			Bold(s.Bold).
			Italic(s.Italic).
			Underline(s.Underline).
			Strikethrough(s.Strike)
		if s.Code {
			style = style.Inherit(codeStyle)
		}
		b.WriteString(style.Render(s.Text))
	}
	return b.String()
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
