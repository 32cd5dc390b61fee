package views

import "github.com/eringen/spacetraveling/posts"

// Site holds site-wide settings every page needs. Handlers build one per
// request so the preview flag reflects the visitor's session.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
	Locale      string
	Preview     bool
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
	Refresh     int // seconds; zero disables the refresh meta tag
}

// Listing is the data behind the home page and the load-more fragments.
type Listing struct {
	Site  Site
	Posts []posts.PostSummary
	// NextFragment is the URL of the next page's fragment; empty when there
	// are no more pages.
	NextFragment string
	// NextPage is the full-page fallback for the same continuation.
	NextPage string
}

// PostView is the data behind a post page.
type PostView struct {
	Site        Site
	Post        posts.Post
	ReadingTime int
	Adjacent    posts.Adjacency
}
