package spacetraveling

import (
	"encoding/xml"
	"time"

	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

func buildFeed(cfg SiteConfig, summaries []posts.PostSummary) rssXML {
	items := make([]rssItem, 0, len(summaries))
	for _, p := range summaries {
		pubDate := ""
		if p.FirstPublished != nil {
			pubDate = p.FirstPublished.Format(time.RFC1123Z)
		}
		postURL := views.BuildURL(cfg.URL, "post", p.UID)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Subtitle,
			Author:      p.Author,
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        views.BuildURL(cfg.URL),
			Description: cfg.Description,
			Language:    cfg.Locale,
			Items:       items,
		},
	}
}
