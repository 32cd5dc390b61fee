// Package views renders the blog's pages as templ components.
package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/richtext"
)

var esc = templ.EscapeString[string]

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Layout wraps body in the document shell with header and preview toggle.
func Layout(site Site, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		m := T(site.Locale)
		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " | " + site.Name
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		h.raw(`<!DOCTYPE html><html lang="`, esc(matchLocale(site.Locale).String()), `"><head>`,
			`<meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/>`,
			`<title>`, esc(title), `</title>`)
		if meta.Description != "" {
			h.raw(`<meta name="description" content="`, esc(meta.Description), `"/>`,
				`<meta property="og:description" content="`, esc(meta.Description), `"/>`)
		}
		h.raw(`<meta property="og:title" content="`, esc(title), `"/>`,
			`<meta property="og:type" content="`, esc(ogType), `"/>`)
		if meta.URL != "" {
			h.raw(`<link rel="canonical" href="`, esc(meta.URL), `"/>`,
				`<meta property="og:url" content="`, esc(meta.URL), `"/>`)
		}
		if meta.Refresh > 0 {
			h.raw(fmt.Sprintf(`<meta http-equiv="refresh" content="%d"/>`, meta.Refresh))
		}
		if meta.JSONLD != "" {
			// JSON-LD must not be HTML-escaped; guard against a closing tag.
			h.raw(`<script type="application/ld+json">`, strings.ReplaceAll(meta.JSONLD, "</", `<\/`), `</script>`)
		}
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"/>`,
			`<link rel="stylesheet" href="/public/styles.css"/>`,
			`<script src="/public/loadmore.js" defer></script>`,
			`</head><body><div class="container">`,
			`<header class="header"><a href="/"><img src="/public/logo.svg" alt="logo"/></a></header>`)
		h.component(ctx, body)
		if site.Preview {
			h.raw(`<aside class="preview"><a href="/api/exit-preview">`, esc(m.ExitPreview), `</a></aside>`)
		}
		h.raw(`</div></body></html>`)
		return h.err
	})
}

// PostItems renders listing entries followed by the load-more control, if
// any. It is both the body of the home page list and the fragment returned
// for a continuation.
func PostItems(l Listing) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		m := T(l.Site.Locale)
		for _, p := range l.Posts {
			h.raw(`<article class="post-item"><a href="`, esc(p.Link()), `">`,
				`<p class="title">`, esc(p.Title), `</p>`,
				`<p class="subtitle">`, esc(p.Subtitle), `</p>`,
				`<p class="info"><span class="date">`, esc(FormatDate(p.FirstPublished, l.Site.Locale)), `</span>`,
				`<span class="author">`, esc(p.Author), `</span></p></a></article>`)
		}
		if l.NextFragment != "" {
			h.raw(`<a class="load-more" href="`, esc(l.NextPage), `" data-fragment="`, esc(l.NextFragment), `">`,
				esc(m.LoadMore), `</a>`)
		}
		return h.err
	})
}

// Home renders the listing page.
func Home(l Listing) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="posts" id="posts">`)
		h.component(ctx, PostItems(l))
		h.raw(`</main>`)
		return h.err
	})
	meta := PageMeta{
		Title:       l.Site.Name,
		Description: l.Site.Description,
		URL:         BuildURL(l.Site.URL),
		OGType:      "website",
		JSONLD:      WebsiteJsonLD(l.Site),
	}
	return Layout(l.Site, meta, body)
}

// Post renders a post page.
func Post(v PostView) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		m := T(v.Site.Locale)
		p := v.Post
		if p.Banner.URL != "" {
			h.raw(`<div class="banner"><img src="`, richtext.SafeURL(p.Banner.URL), `" alt="`, esc(p.Banner.Alt), `"/></div>`)
		}
		h.raw(`<main class="post"><h1 class="title">`, esc(p.Title), `</h1>`,
			`<p class="info"><span class="date">`, esc(FormatDate(p.FirstPublished, v.Site.Locale)), `</span>`,
			`<span class="author">`, esc(p.Author), `</span>`,
			`<span class="reading-time">`, esc(fmt.Sprintf(m.ReadingTime, v.ReadingTime)), `</span></p>`)
		if p.LastPublished != nil {
			h.raw(`<time class="edited" datetime="`, esc(p.LastPublished.Format("2006-01-02T15:04")), `">`,
				esc(FormatEdited(p.LastPublished, v.Site.Locale)), `</time>`)
		}
		for _, sec := range p.Content {
			h.raw(`<article><h2>`, esc(sec.Heading), `</h2><div class="post-content">`)
			h.component(ctx, richtext.Render(sec.Body))
			h.raw(`</div></article>`)
		}
		h.raw(`</main>`)
		h.component(ctx, Navigation(v.Site, v.Adjacent))
		return h.err
	})
	meta := PageMeta{
		Title:       v.Post.Title,
		Description: v.Post.Subtitle,
		URL:         BuildURL(v.Site.URL, "post", v.Post.UID),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(v.Site, v.Post),
	}
	return Layout(v.Site, meta, body)
}

// Navigation renders links to the previous and next posts.
func Navigation(site Site, adj posts.Adjacency) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if adj.Before == nil && adj.Next == nil {
			return nil
		}
		h := &htmlWriter{w: w}
		m := T(site.Locale)
		h.raw(`<nav class="post-nav">`)
		if adj.Before != nil {
			h.raw(`<a class="prev" rel="prev" href="`, esc(adj.Before.Link()), `"><span>`, esc(adj.Before.Title),
				`</span><small>`, esc(m.PreviousPost), `</small></a>`)
		}
		if adj.Next != nil {
			h.raw(`<a class="next" rel="next" href="`, esc(adj.Next.Link()), `"><span>`, esc(adj.Next.Title),
				`</span><small>`, esc(m.NextPost), `</small></a>`)
		}
		h.raw(`</nav>`)
		return h.err
	})
}

func message(site Site, class, text string, refresh int) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="`, class, `"><p>`, esc(text), `</p><a href="/">`,
			esc(T(site.Locale).BackHome), `</a></main>`)
		return h.err
	})
	return Layout(site, PageMeta{Title: text, Refresh: refresh}, body)
}

// NotFound renders the failed-to-load state.
func NotFound(site Site) templ.Component {
	return message(site, "not-found", T(site.Locale).LoadFailed, 0)
}

// Loading renders the transient state shown while content is not ready.
// The page refreshes itself after retryAfter seconds.
func Loading(site Site, retryAfter int) templ.Component {
	return message(site, "loading", T(site.Locale).Loading, retryAfter)
}

// ServerError renders the generic failure page.
func ServerError(site Site) templ.Component {
	return message(site, "server-error", T(site.Locale).ServerError, 0)
}
