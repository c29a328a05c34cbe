package markup

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// Span is a run of text sharing the same inline style.
type Span struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Code      bool
}

// Spans splits rich markup into styled runs for renderers that cannot
// consume markup directly. The input is sanitised first.
func Spans(s string) []Span {
	var spans []Span
	depth := map[string]int{}

	z := xhtml.NewTokenizer(strings.NewReader(Sanitize(s)))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return spans
		case xhtml.TextToken:
			text := string(z.Text())
			if text == "" {
				continue
			}
			span := Span{
				Text:      text,
				Bold:      depth["b"] > 0,
				Italic:    depth["i"] > 0,
				Underline: depth["u"] > 0,
				Strike:    depth["s"] > 0,
				Code:      depth["tt"] > 0,
			}
			if n := len(spans); n > 0 && sameStyle(spans[n-1], span) {
				spans[n-1].Text += text
				continue
			}
			spans = append(spans, span)
		case xhtml.StartTagToken:
			name, _ := z.TagName()
			depth[string(name)]++
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if depth[string(name)] > 0 {
				depth[string(name)]--
			}
		}
	}
}

func sameStyle(a, b Span) bool {
	return a.Bold == b.Bold &&
		a.Italic == b.Italic &&
		a.Underline == b.Underline &&
		a.Strike == b.Strike &&
		a.Code == b.Code
}
