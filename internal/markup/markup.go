// Package markup turns notification messages into safe inline markup.
//
// Plain messages are escaped. Rich messages are reduced to a small inline
// subset that both Pango and the terminal renderer understand: b, i, u, s,
// tt, small, big, sub and sup. Everything else is dropped while its text
// content is kept, except script and style bodies which are discarded.
package markup

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
)

// allowed maps accepted source tags to the tag emitted in sanitised output.
var allowed = map[string]string{
	"b":      "b",
	"strong": "b",
	"i":      "i",
	"em":     "i",
	"u":      "u",
	"s":      "s",
	"strike": "s",
	"del":    "s",
	"code":   "tt",
	"tt":     "tt",
	"small":  "small",
	"big":    "big",
	"sub":    "sub",
	"sup":    "sup",
}

// Escape returns s with markup-significant characters replaced by entities.
// Invalid UTF-8 is replaced so the result is always valid Pango markup.
func Escape(s string) string {
	return html.EscapeString(validUTF8(s))
}

// Sanitize reduces s to the supported inline subset. Output is always
// well-formed: unclosed tags are closed and stray end tags are ignored.
func Sanitize(s string) string {
	var b strings.Builder
	var open []string
	skip := 0

	z := xhtml.NewTokenizer(strings.NewReader(validUTF8(s)))
	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			for i := len(open) - 1; i >= 0; i-- {
				b.WriteString("</" + open[i] + ">")
			}
			return b.String()

		case xhtml.TextToken:
			if skip == 0 {
				b.WriteString(html.EscapeString(string(z.Text())))
			}

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if isRawText(tag) {
				if tt == xhtml.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if tag == "br" {
				b.WriteString("\n")
				continue
			}
			if canonical, ok := allowed[tag]; ok && tt == xhtml.StartTagToken {
				b.WriteString("<" + canonical + ">")
				open = append(open, canonical)
			}

		case xhtml.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if isRawText(tag) {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 {
				continue
			}
			canonical, ok := allowed[tag]
			if !ok {
				continue
			}
			idx := lastIndex(open, canonical)
			if idx < 0 {
				continue
			}
			for i := len(open) - 1; i >= idx; i-- {
				b.WriteString("</" + open[i] + ">")
			}
			open = open[:idx]
		}
	}
}

// Plain returns the text content of s with tags removed and entities decoded.
func Plain(s string) string {
	var b strings.Builder
	skip := 0

	z := xhtml.NewTokenizer(strings.NewReader(validUTF8(s)))
	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			return b.String()
		case xhtml.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			switch {
			case isRawText(string(name)) && tt == xhtml.StartTagToken:
				skip++
			case string(name) == "br" && skip == 0:
				b.WriteString("\n")
			}
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if isRawText(string(name)) && skip > 0 {
				skip--
			}
		}
	}
}

// validUTF8 replaces invalid byte sequences with U+FFFD. GMarkup rejects
// the whole label otherwise.
func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

func isRawText(tag string) bool {
	return tag == "script" || tag == "style"
}

func lastIndex(stack []string, tag string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == tag {
			return i
		}
	}
	return -1
}
