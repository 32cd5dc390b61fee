package posts

// Adjacency holds the posts immediately before and after a target post.
type Adjacency struct {
	Before *PostSummary
	Next   *PostSummary
}

// Neighbors finds the summaries around uid in a single pass. summaries must
// already be ordered by last publication date; Neighbors does not sort.
//
// Before tracks every non-target element until uid is first seen; Next is
// the first non-target element after that. When uid is absent, Before ends
// up as the last element and Next stays nil.
func Neighbors(summaries []PostSummary, uid string) Adjacency {
	var adj Adjacency
	found := false
	for i := range summaries {
		s := &summaries[i]
		switch {
		case s.UID == uid:
			found = true
		case !found:
			adj.Before = s
		case adj.Next == nil:
			adj.Next = s
		}
	}
	return adj
}
