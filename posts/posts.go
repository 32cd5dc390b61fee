// Package posts holds the content types shared by the site, the content API
// client and the views, plus the pure logic that runs over them: the listing
// accumulator, previous/next resolution and reading-time estimation.
package posts

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("post not found")

// PostSummary is the listing-view representation of a post.
type PostSummary struct {
	UID            string
	FirstPublished *time.Time
	LastPublished  *time.Time
	Title          string
	Subtitle       string
	Author         string
}

// Link returns the site path of the post.
func (s PostSummary) Link() string {
	return "/post/" + s.UID + "/"
}

// PostPage is one page of a paged query. An empty NextPage means there are no
// further pages.
type PostPage struct {
	Results  []PostSummary
	NextPage string
}

// Banner is the hero image of a post.
type Banner struct {
	URL string
	Alt string
}

// Span marks inline formatting over rune offsets [Start, End) of a block's text.
type Span struct {
	Start int
	End   int
	Type  string // "strong", "em" or "hyperlink"
	URL   string
}

// Block is one structured-text element of a section body.
type Block struct {
	Type  string // "paragraph", "heading2", "list-item", "preformatted", "image", ...
	Text  string
	Spans []Span
	URL   string
	Alt   string
}

// Section is a heading followed by body blocks.
type Section struct {
	Heading string
	Body    []Block
}

// Post is a full post document.
type Post struct {
	UID            string
	FirstPublished *time.Time
	LastPublished  *time.Time
	Title          string
	Subtitle       string
	Author         string
	Banner         Banner
	Content        []Section
}

// Summary returns the listing representation of p.
func (p Post) Summary() PostSummary {
	return PostSummary{
		UID:            p.UID,
		FirstPublished: p.FirstPublished,
		LastPublished:  p.LastPublished,
		Title:          p.Title,
		Subtitle:       p.Subtitle,
		Author:         p.Author,
	}
}
