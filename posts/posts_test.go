package posts

import (
	"strings"
	"testing"
)

func summaries(uids ...string) []PostSummary {
	out := make([]PostSummary, len(uids))
	for i, uid := range uids {
		out[i] = PostSummary{UID: uid, Title: strings.ToUpper(uid)}
	}
	return out
}

func uidsOf(c Collection) string {
	var parts []string
	for _, s := range c.Summaries {
		parts = append(parts, s.UID)
	}
	return strings.Join(parts, ",")
}

func TestAppendKeepsArrivalOrder(t *testing.T) {
	c := Seed(PostPage{Results: summaries("a", "b"), NextPage: "/page/2/"})
	c = Append(c, PostPage{Results: summaries("c")})
	if got := uidsOf(c); got != "a,b,c" {
		t.Fatalf("uids = %q, want %q", got, "a,b,c")
	}
}

func TestAppendDoesNotDeduplicate(t *testing.T) {
	c := Seed(PostPage{Results: summaries("a")})
	c = Append(c, PostPage{Results: summaries("a")})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestAppendNilResultsIsEmptyPage(t *testing.T) {
	c := Seed(PostPage{Results: summaries("a")})
	c = Append(c, PostPage{Results: nil})
	if got := uidsOf(c); got != "a" {
		t.Fatalf("uids = %q, want %q", got, "a")
	}

	empty := Append(Collection{}, PostPage{})
	if empty.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", empty.Len())
	}
}

func TestAppendIsAssociative(t *testing.T) {
	base := Collection{Summaries: summaries("x")}
	p1 := PostPage{Results: summaries("a", "b")}
	p2 := PostPage{Results: summaries("c", "d")}

	stepwise := Append(Append(base, p1), p2)
	joined := Append(base, PostPage{Results: append(summaries("a", "b"), summaries("c", "d")...)})

	if uidsOf(stepwise) != uidsOf(joined) {
		t.Fatalf("stepwise %q != joined %q", uidsOf(stepwise), uidsOf(joined))
	}
	if got := uidsOf(stepwise); got != "x,a,b,c,d" {
		t.Fatalf("uids = %q, want %q", got, "x,a,b,c,d")
	}
}

func TestAppendLeavesPreviousCollectionIntact(t *testing.T) {
	base := Collection{Summaries: make([]PostSummary, 1, 8)}
	base.Summaries[0] = PostSummary{UID: "a"}

	first := Append(base, PostPage{Results: summaries("b")})
	second := Append(base, PostPage{Results: summaries("c")})

	if uidsOf(first) != "a,b" {
		t.Errorf("first = %q, want %q", uidsOf(first), "a,b")
	}
	if uidsOf(second) != "a,c" {
		t.Errorf("second = %q, want %q", uidsOf(second), "a,c")
	}
	if base.Len() != 1 {
		t.Errorf("base Len() = %d, want 1", base.Len())
	}
}

func TestHasMore(t *testing.T) {
	tests := []struct {
		name string
		page PostPage
		want bool
	}{
		{"token", PostPage{NextPage: "https://example.cdn.prismic.io/api/v2/documents/search?page=2"}, true},
		{"empty", PostPage{NextPage: ""}, false},
		{"zero value", PostPage{}, false},
	}
	for _, tt := range tests {
		if got := HasMore(tt.page); got != tt.want {
			t.Errorf("%s: HasMore() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func uidOrEmpty(s *PostSummary) string {
	if s == nil {
		return ""
	}
	return s.UID
}

func TestNeighbors(t *testing.T) {
	tests := []struct {
		name       string
		summaries  []PostSummary
		target     string
		wantBefore string
		wantNext   string
	}{
		{"middle", summaries("a", "b", "c", "d"), "c", "b", "d"},
		{"first", summaries("a", "b", "c"), "a", "", "b"},
		{"last", summaries("a", "b", "c"), "c", "b", ""},
		// Before keeps following the scan when the target never shows up.
		{"absent", summaries("a", "b", "c"), "z", "c", ""},
		{"empty", nil, "a", "", ""},
		{"single", summaries("a"), "a", "", ""},
		// The first match latches, so later duplicates do not move Before.
		{"duplicate", summaries("a", "t", "b", "t", "c"), "t", "a", "b"},
	}
	for _, tt := range tests {
		adj := Neighbors(tt.summaries, tt.target)
		if got := uidOrEmpty(adj.Before); got != tt.wantBefore {
			t.Errorf("%s: Before = %q, want %q", tt.name, got, tt.wantBefore)
		}
		if got := uidOrEmpty(adj.Next); got != tt.wantNext {
			t.Errorf("%s: Next = %q, want %q", tt.name, got, tt.wantNext)
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 1},
		{"Intro", 1},
		{"two words", 2},
		{"double  space", 3},
	}
	for _, tt := range tests {
		if got := CountWords(tt.input); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestReadingTime(t *testing.T) {
	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("word ", n))
	}
	tests := []struct {
		name     string
		sections []Section
		want     int
	}{
		{"nil content", nil, 0},
		{"heading only", []Section{{Heading: "Intro", Body: []Block{}}}, 1},
		{"empty heading counts one", []Section{{Heading: ""}}, 1},
		{"exactly 200", []Section{{Heading: "a", Body: []Block{{Text: words(199)}}}}, 1},
		{"250 words", []Section{
			{Heading: "Intro", Body: []Block{{Text: words(99)}}},
			{Heading: "Body text", Body: []Block{{Text: words(100)}, {Text: words(48)}}},
		}, 2},
	}
	for _, tt := range tests {
		if got := ReadingTime(tt.sections); got != tt.want {
			t.Errorf("%s: ReadingTime() = %d, want %d (words %d)", tt.name, got, tt.want, WordCount(tt.sections))
		}
	}
}
