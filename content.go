package spacetraveling

import (
	"context"

	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/views"
)

// firstPage fetches page one and seeds the listing accumulator with it.
func (a *App) firstPage(ctx context.Context, ref string) (posts.Collection, posts.PostPage, error) {
	page, err := a.Content.Query(ctx, a.query(ref, 1))
	if err != nil {
		return posts.Collection{}, posts.PostPage{}, err
	}
	return posts.Seed(page), page, nil
}

// accumulate follows continuation tokens from page one until n pages have
// been appended. It fails with posts.ErrNotFound when the listing ends
// before page n.
func (a *App) accumulate(ctx context.Context, ref string, n int) (posts.Collection, posts.PostPage, error) {
	col, page, err := a.firstPage(ctx, ref)
	if err != nil {
		return col, page, err
	}
	for i := 1; i < n; i++ {
		if !posts.HasMore(page) {
			return posts.Collection{}, posts.PostPage{}, posts.ErrNotFound
		}
		if page, err = a.Content.FetchPage(ctx, page.NextPage); err != nil {
			return posts.Collection{}, posts.PostPage{}, err
		}
		col = posts.Append(col, page)
	}
	return col, page, nil
}

// pageN fetches the single page n, as served to the load-more fragment.
func (a *App) pageN(ctx context.Context, ref string, n int) (posts.PostPage, error) {
	page, err := a.Content.Query(ctx, a.query(ref, n))
	if err != nil {
		return posts.PostPage{}, err
	}
	if n > 1 && len(page.Results) == 0 {
		return posts.PostPage{}, posts.ErrNotFound
	}
	return page, nil
}

// postView loads uid and resolves its reading time and neighbors within
// summaries, which must be the full collection in listing order.
func (a *App) postView(ctx context.Context, site views.Site, ref, uid string, summaries []posts.PostSummary) (views.PostView, error) {
	post, err := a.Content.GetByUID(ctx, a.Config.DocumentType, uid, ref)
	if err != nil {
		return views.PostView{}, err
	}
	return views.PostView{
		Site:        site,
		Post:        post,
		ReadingTime: posts.ReadingTime(post.Content),
		Adjacent:    posts.Neighbors(summaries, uid),
	}, nil
}

// allSummaries returns the full collection in listing order.
func (a *App) allSummaries(ctx context.Context, ref string) ([]posts.PostSummary, error) {
	return a.Content.AllSummaries(ctx, a.query(ref, 1))
}
