package spacetraveling

import (
	"context"

	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/prismic"
)

// ContentSource is the content API the site reads from. *prismic.Client
// implements it.
type ContentSource interface {
	Query(ctx context.Context, q prismic.Query) (posts.PostPage, error)
	FetchPage(ctx context.Context, nextPage string) (posts.PostPage, error)
	GetByUID(ctx context.Context, docType, uid, ref string) (posts.Post, error)
	GetByID(ctx context.Context, id, ref string) (posts.Post, error)
	AllSummaries(ctx context.Context, q prismic.Query) ([]posts.PostSummary, error)
}

var _ ContentSource = (*prismic.Client)(nil)
