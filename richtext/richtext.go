// Package richtext renders structured-text blocks from the content API as
// HTML templ components.
package richtext

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/spacetraveling/posts"
)

// Render returns a templ.Component that renders blocks as HTML.
func Render(blocks []posts.Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderHTML(&buf, blocks)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderHTML writes the HTML representation of blocks to buf. Consecutive
// list items are grouped into a single list.
func RenderHTML(buf *bytes.Buffer, blocks []posts.Block) {
	imageCount := 0
	inList := false
	inOrderedList := false

	flushList := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
	}
	flushOrderedList := func() {
		if inOrderedList {
			buf.WriteString("</ol>")
			inOrderedList = false
		}
	}

	for _, b := range blocks {
		switch b.Type {
		case "list-item":
			flushOrderedList()
			if !inList {
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatSpans(b.Text, b.Spans))
			buf.WriteString("</li>")
			continue
		case "o-list-item":
			flushList()
			if !inOrderedList {
				buf.WriteString("<ol>")
				inOrderedList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatSpans(b.Text, b.Spans))
			buf.WriteString("</li>")
			continue
		}

		flushList()
		flushOrderedList()

		switch b.Type {
		case "heading1", "heading2", "heading3", "heading4", "heading5", "heading6":
			tag := "h" + b.Type[len("heading"):]
			buf.WriteString("<" + tag + ">")
			buf.WriteString(FormatSpans(b.Text, b.Spans))
			buf.WriteString("</" + tag + ">")
		case "preformatted":
			buf.WriteString("<pre>")
			buf.WriteString(html.EscapeString(b.Text))
			buf.WriteString("</pre>")
		case "image":
			src := SafeURL(b.URL)
			if src == "" {
				continue
			}
			imageCount++
			loadAttr := `loading="lazy"`
			if imageCount == 1 {
				loadAttr = `fetchpriority="high"`
			}
			buf.WriteString(`<p class="block-img"><img ` + loadAttr + ` src="` + src + `" alt="` + html.EscapeString(b.Alt) + `" decoding="async"/></p>`)
		default:
			buf.WriteString("<p>")
			buf.WriteString(FormatSpans(b.Text, b.Spans))
			buf.WriteString("</p>")
		}
	}
	flushList()
	flushOrderedList()
}

type boundary struct {
	pos   int
	open  bool
	index int
}

// FormatSpans escapes text and wraps the span ranges in their tags. Spans
// index runes. Overlapping spans are closed and reopened so the output
// always nests.
func FormatSpans(text string, spans []posts.Span) string {
	runes := []rune(text)
	n := len(runes)

	var valid []posts.Span
	for _, s := range spans {
		if s.Start < 0 || s.End > n || s.Start >= s.End {
			continue
		}
		if openTag(s) == "" {
			continue
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return html.EscapeString(text)
	}
	// Longer spans open first so they enclose shorter ones starting at the
	// same offset.
	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].Start != valid[j].Start {
			return valid[i].Start < valid[j].Start
		}
		return valid[i].End > valid[j].End
	})

	var b strings.Builder
	var stack []int
	closeSpan := func(idx int) {
		// Pop down to idx, then reopen whatever was above it.
		var reopen []int
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			b.WriteString(closeTag(valid[top]))
			if top == idx {
				break
			}
			reopen = append(reopen, top)
		}
		for i := len(reopen) - 1; i >= 0; i-- {
			b.WriteString(openTag(valid[reopen[i]]))
			stack = append(stack, reopen[i])
		}
	}

	next := 0
	for pos := 0; pos <= n; pos++ {
		// Close spans ending here, innermost first.
		for {
			idx := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if valid[stack[i]].End == pos {
					idx = stack[i]
					break
				}
			}
			if idx < 0 {
				break
			}
			closeSpan(idx)
		}
		for next < len(valid) && valid[next].Start == pos {
			b.WriteString(openTag(valid[next]))
			stack = append(stack, next)
			next++
		}
		if pos < n {
			b.WriteString(html.EscapeString(string(runes[pos])))
		}
	}
	return b.String()
}

func openTag(s posts.Span) string {
	switch s.Type {
	case "strong":
		return "<strong>"
	case "em":
		return "<em>"
	case "hyperlink":
		href := SafeURL(s.URL)
		if href == "" {
			return ""
		}
		attrs := `class="link"`
		if strings.HasPrefix(href, "http") {
			attrs += ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `" ` + attrs + `>`
	default:
		return ""
	}
}

func closeTag(s posts.Span) string {
	switch s.Type {
	case "strong":
		return "</strong>"
	case "em":
		return "</em>"
	default:
		return "</a>"
	}
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
