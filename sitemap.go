package spacetraveling

import (
	"encoding/xml"

	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func buildSitemap(base string, summaries []posts.PostSummary) sitemapURLSet {
	urls := []sitemapURL{
		{Loc: views.BuildURL(base)},
	}
	for _, p := range summaries {
		u := sitemapURL{Loc: views.BuildURL(base, "post", p.UID)}
		if p.LastPublished != nil {
			u.LastMod = p.LastPublished.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}
