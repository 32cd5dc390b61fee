package richtext

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/eringen/spacetraveling/posts"
)

func TestFormatSpans(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		spans    []posts.Span
		expected string
	}{
		{"plain", "hello world", nil, "hello world"},
		{"escapes", "a < b & c", nil, "a &lt; b &amp; c"},
		{"strong", "hello world", []posts.Span{{Start: 0, End: 5, Type: "strong"}}, "<strong>hello</strong> world"},
		{"em at end", "hello world", []posts.Span{{Start: 6, End: 11, Type: "em"}}, "hello <em>world</em>"},
		{
			"nested",
			"bold italic text",
			[]posts.Span{{Start: 5, End: 11, Type: "em"}, {Start: 0, End: 16, Type: "strong"}},
			"<strong>bold <em>italic</em> text</strong>",
		},
		{
			"overlapping",
			"abcdefghij",
			[]posts.Span{{Start: 0, End: 5, Type: "strong"}, {Start: 3, End: 8, Type: "em"}},
			"<strong>abc<em>de</em></strong><em>fgh</em>ij",
		},
		{
			"hyperlink",
			"see docs",
			[]posts.Span{{Start: 4, End: 8, Type: "hyperlink", URL: "https://prismic.io/docs"}},
			`see <a href="https://prismic.io/docs" class="link" target="_blank" rel="noopener noreferrer">docs</a>`,
		},
		{
			"relative hyperlink",
			"next",
			[]posts.Span{{Start: 0, End: 4, Type: "hyperlink", URL: "/post/next/"}},
			`<a href="/post/next/" class="link">next</a>`,
		},
		{
			"unsafe hyperlink dropped",
			"click",
			[]posts.Span{{Start: 0, End: 5, Type: "hyperlink", URL: "javascript:alert(1)"}},
			"click",
		},
		{"out of range ignored", "abc", []posts.Span{{Start: 1, End: 9, Type: "strong"}}, "abc"},
		{"unknown type ignored", "abc", []posts.Span{{Start: 0, End: 3, Type: "label"}}, "abc"},
		{"runes", "olá mundo", []posts.Span{{Start: 0, End: 3, Type: "em"}}, "<em>olá</em> mundo"},
	}
	for _, tt := range tests {
		got := FormatSpans(tt.text, tt.spans)
		if got != tt.expected {
			t.Errorf("%s: FormatSpans(%q)\n  got:  %q\n  want: %q", tt.name, tt.text, got, tt.expected)
		}
	}
}

func TestRenderHTMLBlocks(t *testing.T) {
	blocks := []posts.Block{
		{Type: "paragraph", Text: "intro"},
		{Type: "heading3", Text: "Sub"},
		{Type: "list-item", Text: "one"},
		{Type: "list-item", Text: "two"},
		{Type: "o-list-item", Text: "first"},
		{Type: "preformatted", Text: "x := <-ch"},
		{Type: "mystery", Text: "fallback"},
	}
	var buf bytes.Buffer
	RenderHTML(&buf, blocks)
	want := "<p>intro</p><h3>Sub</h3><ul><li>one</li><li>two</li></ul><ol><li>first</li></ol>" +
		"<pre>x := &lt;-ch</pre><p>fallback</p>"
	if got := buf.String(); got != want {
		t.Errorf("RenderHTML\n  got:  %q\n  want: %q", got, want)
	}
}

func TestRenderHTMLClosesTrailingList(t *testing.T) {
	var buf bytes.Buffer
	RenderHTML(&buf, []posts.Block{{Type: "list-item", Text: "only"}})
	if got := buf.String(); got != "<ul><li>only</li></ul>" {
		t.Errorf("RenderHTML = %q", got)
	}
}

func TestRenderHTMLImages(t *testing.T) {
	var buf bytes.Buffer
	RenderHTML(&buf, []posts.Block{
		{Type: "image", URL: "https://images.prismic.io/a.png", Alt: "first"},
		{Type: "image", URL: "https://images.prismic.io/b.png", Alt: "second"},
		{Type: "image", URL: "data:text/html,evil"},
	})
	got := buf.String()
	if !strings.Contains(got, `fetchpriority="high" src="https://images.prismic.io/a.png"`) {
		t.Errorf("first image should be high priority: %q", got)
	}
	if !strings.Contains(got, `loading="lazy" src="https://images.prismic.io/b.png"`) {
		t.Errorf("second image should be lazy: %q", got)
	}
	if strings.Contains(got, "data:") {
		t.Errorf("unsafe image should be dropped: %q", got)
	}
}

func TestRenderComponent(t *testing.T) {
	var buf bytes.Buffer
	err := Render([]posts.Block{{Type: "paragraph", Text: "hi"}}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != "<p>hi</p>" {
		t.Errorf("Render = %q", buf.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com", "https://example.com"},
		{"/relative/path", "/relative/path"},
		{"#anchor", "#anchor"},
		{"mailto:a@b.c", "mailto:a@b.c"},
		{"javascript:alert(1)", ""},
		{"no-scheme", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
