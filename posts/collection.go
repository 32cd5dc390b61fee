package posts

// Collection is the growing list of summaries behind a listing view. It is
// append-only and keeps arrival order.
type Collection struct {
	Summaries []PostSummary
}

// Seed starts a collection from the first fetched page.
func Seed(page PostPage) Collection {
	return Append(Collection{}, page)
}

// Append returns c with page's results added to the end, in order. A page
// with nil results is treated as empty. c's backing array is never written,
// so earlier collections stay valid.
//
// Append is meant to be driven by one "load more" trigger at a time; callers
// must not overlap calls for the same listing.
func Append(c Collection, page PostPage) Collection {
	out := make([]PostSummary, 0, len(c.Summaries)+len(page.Results))
	out = append(out, c.Summaries...)
	out = append(out, page.Results...)
	return Collection{Summaries: out}
}

// HasMore reports whether page carries a continuation token.
func HasMore(page PostPage) bool {
	return page.NextPage != ""
}

// Len returns the number of summaries collected so far.
func (c Collection) Len() int {
	return len(c.Summaries)
}
