package spacetraveling

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/prismic"
)

func (a *App) handleHome(c echo.Context) error {
	col, page, err := a.firstPage(c.Request().Context(), previewRef(c))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(listing(a.site(c), col, page)))
}

// handlePage renders pages 1..n accumulated, the no-script equivalent of
// pressing "load more" n-1 times.
func (a *App) handlePage(c echo.Context) error {
	n, err := pageParam(c)
	if err != nil {
		return err
	}
	if n == 1 {
		return c.Redirect(http.StatusMovedPermanently, "/")
	}
	col, page, err := a.accumulate(c.Request().Context(), previewRef(c), n)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(listing(a.site(c), col, page)))
}

// handleFragment serves page n's items and the next load-more link, to be
// swapped in place of the link that requested it.
func (a *App) handleFragment(c echo.Context) error {
	n, err := pageParam(c)
	if err != nil {
		return err
	}
	page, err := a.pageN(c.Request().Context(), previewRef(c), n)
	if err != nil {
		return err
	}
	return Render(c, a.Views.PostList(listing(a.site(c), posts.Seed(page), page)))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	ref := previewRef(c)
	summaries, err := a.allSummaries(ctx, ref)
	if err != nil {
		return err
	}
	v, err := a.postView(ctx, a.site(c), ref, c.Param("uid"), summaries)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(v))
}

func (a *App) handlePreview(c echo.Context) error {
	if !a.previewLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many preview requests. Try again later.")
	}
	token := c.QueryParam("token")
	documentID := c.QueryParam("documentId")
	if token == "" || documentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token and documentId are required")
	}
	post, err := a.Content.GetByID(c.Request().Context(), documentID, token)
	if err != nil {
		return err
	}
	if err := setPreviewSession(c, token); err != nil {
		return err
	}
	c.Logger().Infof("preview started for %s", post.UID)
	return c.Redirect(http.StatusTemporaryRedirect, post.Summary().Link())
}

func (a *App) handleExitPreview(c echo.Context) error {
	if err := clearPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, "/")
}

func (a *App) handleSitemap(c echo.Context) error {
	summaries, err := a.allSummaries(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return writeXMLResponse(c, "application/xml; charset=utf-8", buildSitemap(a.Config.URL, summaries))
}

func (a *App) handleFeed(c echo.Context) error {
	summaries, err := a.allSummaries(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return writeXMLResponse(c, "application/rss+xml; charset=utf-8", buildFeed(a.Config, summaries))
}

func pageParam(c echo.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		return 0, posts.ErrNotFound
	}
	return n, nil
}

// httpErrorHandler renders content errors as pages. Errors are never
// retried here; the loading page refreshes itself instead.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	site := a.site(c)

	switch {
	case errors.Is(err, posts.ErrNotFound):
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(site))
		return
	case errors.Is(err, prismic.ErrUnavailable):
		c.Logger().Warnf("content unavailable: %v", err)
		c.Response().Header().Set("Retry-After", strconv.Itoa(a.Config.RetryAfter))
		c.Response().Header().Set("Cache-Control", "no-store")
		_ = RenderStatus(c, http.StatusServiceUnavailable, a.Views.Loading(site, a.Config.RetryAfter))
		return
	}

	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(site))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		c.Response().Header().Set("Cache-Control", "no-store")
		_ = RenderStatus(c, code, a.Views.ServerError(site))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
