package prismic

import (
	"encoding/json"
	"time"

	"github.com/eringen/spacetraveling/posts"
)

// TimeLayout is the timestamp layout used by the content API.
const TimeLayout = "2006-01-02T15:04:05-0700"

// APIInfo is the response of the API root.
type APIInfo struct {
	Refs []Ref `json:"refs"`
}

// Ref is a content release reference.
type Ref struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

// SearchResponse is a page of documents from /documents/search.
type SearchResponse struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         *string    `json:"next_page"`
	PrevPage         *string    `json:"prev_page"`
	Results          []Document `json:"results"`
}

// Document is a raw API document.
type Document struct {
	ID                   string       `json:"id"`
	UID                  string       `json:"uid"`
	Type                 string       `json:"type"`
	FirstPublicationDate *string      `json:"first_publication_date"`
	LastPublicationDate  *string      `json:"last_publication_date"`
	Data                 DocumentData `json:"data"`
}

// DocumentData holds the custom-type fields of a post.
type DocumentData struct {
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Author   string         `json:"author"`
	Banner   BannerField    `json:"banner"`
	Content  []ContentGroup `json:"content"`
}

// BannerField is an image field.
type BannerField struct {
	URL string  `json:"url"`
	Alt *string `json:"alt"`
}

// ContentGroup is one repeatable heading + body group.
type ContentGroup struct {
	Heading string      `json:"heading"`
	Body    []TextBlock `json:"body"`
}

// TextBlock is one structured-text element.
type TextBlock struct {
	Type  string     `json:"type"`
	Text  string     `json:"text"`
	Spans []TextSpan `json:"spans"`
	URL   string     `json:"url,omitempty"`
	Alt   *string    `json:"alt,omitempty"`
}

// TextSpan is inline formatting within a TextBlock.
type TextSpan struct {
	Start int           `json:"start"`
	End   int           `json:"end"`
	Type  string        `json:"type"`
	Data  *HyperlinkRef `json:"data,omitempty"`
}

// HyperlinkRef is the data attached to a hyperlink span.
type HyperlinkRef struct {
	LinkType string `json:"link_type"`
	URL      string `json:"url,omitempty"`
	UID      string `json:"uid,omitempty"`
	Type     string `json:"type,omitempty"`
}

// ParseTime parses an API timestamp. Nil or malformed input yields nil.
func ParseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(TimeLayout, *s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, *s)
		if err != nil {
			return nil
		}
	}
	return &t
}

// FormatTime formats t in the API layout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Summary converts a document into a listing summary.
func (d Document) Summary() posts.PostSummary {
	return posts.PostSummary{
		UID:            d.UID,
		FirstPublished: ParseTime(d.FirstPublicationDate),
		LastPublished:  ParseTime(d.LastPublicationDate),
		Title:          d.Data.Title,
		Subtitle:       d.Data.Subtitle,
		Author:         d.Data.Author,
	}
}

// Post converts a document into a full post.
func (d Document) Post() posts.Post {
	p := posts.Post{
		UID:            d.UID,
		FirstPublished: ParseTime(d.FirstPublicationDate),
		LastPublished:  ParseTime(d.LastPublicationDate),
		Title:          d.Data.Title,
		Subtitle:       d.Data.Subtitle,
		Author:         d.Data.Author,
		Banner:         posts.Banner{URL: d.Data.Banner.URL, Alt: deref(d.Data.Banner.Alt)},
	}
	for _, g := range d.Data.Content {
		sec := posts.Section{Heading: g.Heading}
		for _, b := range g.Body {
			block := posts.Block{Type: b.Type, Text: b.Text, URL: b.URL, Alt: deref(b.Alt)}
			for _, s := range b.Spans {
				span := posts.Span{Start: s.Start, End: s.End, Type: s.Type}
				if s.Data != nil {
					span.URL = s.Data.URL
					if span.URL == "" && s.Data.UID != "" {
						span.URL = "/post/" + s.Data.UID + "/"
					}
				}
				block.Spans = append(block.Spans, span)
			}
			sec.Body = append(sec.Body, block)
		}
		p.Content = append(p.Content, sec)
	}
	return p
}

// PostPage converts a search response into a PostPage.
func (r SearchResponse) PostPage() posts.PostPage {
	page := posts.PostPage{NextPage: deref(r.NextPage)}
	for _, d := range r.Results {
		page.Results = append(page.Results, d.Summary())
	}
	return page
}

// DecodeSearch decodes a search response body.
func DecodeSearch(data []byte) (SearchResponse, error) {
	var r SearchResponse
	err := json.Unmarshal(data, &r)
	return r, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
