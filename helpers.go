package spacetraveling

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/prismic"
	"github.com/eringen/spacetraveling/views"
)

// fragmentPath is the site-local continuation token handed to the browser
// for page n. It is fetched as-is by the load-more script.
func fragmentPath(n int) string {
	return fmt.Sprintf("/page/%d/posts.html", n)
}

// pagePath is the full-page fallback for the same continuation.
func pagePath(n int) string {
	return fmt.Sprintf("/page/%d/", n)
}

// pathSafeUID reports whether uid can be used as a single path segment in
// the build output.
func pathSafeUID(uid string) bool {
	return uid != "" && uid != "." && uid != ".." && !strings.ContainsAny(uid, `/\`+"\x00")
}

// localTokens maps the API continuation token of page to its site-local
// fragment and page URLs. Both are empty when there is no next page.
func localTokens(page posts.PostPage) (fragment, full string) {
	if !posts.HasMore(page) {
		return "", ""
	}
	n, ok := prismic.PageNumber(page.NextPage)
	if !ok {
		return "", ""
	}
	return fragmentPath(n), pagePath(n)
}

// listing builds the view data for the summaries of col, continuing after last.
func listing(site views.Site, col posts.Collection, last posts.PostPage) views.Listing {
	fragment, full := localTokens(last)
	return views.Listing{
		Site:         site,
		Posts:        col.Summaries,
		NextFragment: fragment,
		NextPage:     full,
	}
}

func (a *App) query(ref string, page int) prismic.Query {
	return prismic.Query{
		DocumentType: a.Config.DocumentType,
		Ref:          ref,
		PageSize:     a.Config.PageSize,
		Page:         page,
		Orderings:    a.Config.Orderings,
	}
}

func (a *App) baseSite() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		Locale:      a.Config.Locale,
	}
}

// site returns the per-request site settings; the preview flag follows the
// visitor's session.
func (a *App) site(c echo.Context) views.Site {
	s := a.baseSite()
	s.Preview = previewRef(c) != ""
	return s
}
