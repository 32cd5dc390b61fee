// Package prismic is a small client for Prismic-style v2 content APIs. It
// covers what the blog needs: the master ref, paged searches over one
// document type, continuation-token fetches and single documents by UID.
package prismic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/spacetraveling/posts"
)

// ErrUnavailable is returned when the content API cannot answer right now:
// timeouts, transport failures and 5xx responses.
var ErrUnavailable = errors.New("prismic: content API unavailable")

// DefaultOrdering sorts documents by last publication date, newest first.
const DefaultOrdering = "[document.last_publication_date desc]"

const maxBodySize = 8 << 20

// Client talks to a single content API repository.
type Client struct {
	endpoint    *url.URL
	accessToken string
	http        *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is copied,
// so later options never modify hc itself. A nil hc is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		cp := *hc
		c.http = &cp
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New creates a Client for the API root at endpoint, e.g.
// "https://my-repo.cdn.prismic.io/api/v2".
func New(endpoint, accessToken string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("prismic: parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("prismic: endpoint must be http or https, got %q", endpoint)
	}
	c := &Client{
		endpoint:    u,
		accessToken: accessToken,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Query describes a paged search over one document type.
type Query struct {
	DocumentType string
	Ref          string // empty means the master ref
	PageSize     int
	Page         int
	Orderings    string
	Fetch        []string
}

// MasterRef returns the ref of the currently published content.
func (c *Client) MasterRef(ctx context.Context) (string, error) {
	var info APIInfo
	if err := c.getJSON(ctx, c.withToken(c.endpoint).String(), &info); err != nil {
		return "", err
	}
	for _, r := range info.Refs {
		if r.IsMasterRef {
			return r.Ref, nil
		}
	}
	return "", fmt.Errorf("prismic: no master ref in API response")
}

// Query runs a paged search and returns one page of summaries. The page's
// NextPage is the API's continuation URL.
func (c *Client) Query(ctx context.Context, q Query) (posts.PostPage, error) {
	resp, err := c.search(ctx, q, at("document.type", q.DocumentType))
	if err != nil {
		return posts.PostPage{}, err
	}
	return resp.PostPage(), nil
}

// FetchPage dereferences a continuation token returned by Query. Tokens that
// point at a different host than the endpoint are rejected.
func (c *Client) FetchPage(ctx context.Context, nextPage string) (posts.PostPage, error) {
	u, err := url.Parse(nextPage)
	if err != nil {
		return posts.PostPage{}, fmt.Errorf("prismic: parse continuation: %w", err)
	}
	if !strings.EqualFold(u.Host, c.endpoint.Host) {
		return posts.PostPage{}, fmt.Errorf("prismic: continuation host %q does not match endpoint", u.Host)
	}
	var resp SearchResponse
	if err := c.getJSON(ctx, c.withToken(u).String(), &resp); err != nil {
		return posts.PostPage{}, err
	}
	return resp.PostPage(), nil
}

// GetByUID fetches one document of docType by its UID.
func (c *Client) GetByUID(ctx context.Context, docType, uid, ref string) (posts.Post, error) {
	q := Query{DocumentType: docType, Ref: ref, PageSize: 1}
	resp, err := c.search(ctx, q, at("my."+docType+".uid", uid))
	if err != nil {
		return posts.Post{}, err
	}
	if len(resp.Results) == 0 {
		return posts.Post{}, posts.ErrNotFound
	}
	return resp.Results[0].Post(), nil
}

// GetByID fetches one document by its API id. Preview links carry ids.
func (c *Client) GetByID(ctx context.Context, id, ref string) (posts.Post, error) {
	resp, err := c.search(ctx, Query{Ref: ref, PageSize: 1}, at("document.id", id))
	if err != nil {
		return posts.Post{}, err
	}
	if len(resp.Results) == 0 {
		return posts.Post{}, posts.ErrNotFound
	}
	return resp.Results[0].Post(), nil
}

// AllSummaries follows continuation tokens from the first page of q and
// returns every summary in API order.
func (c *Client) AllSummaries(ctx context.Context, q Query) ([]posts.PostSummary, error) {
	page, err := c.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	all := posts.Seed(page)
	for posts.HasMore(page) {
		if page, err = c.FetchPage(ctx, page.NextPage); err != nil {
			return nil, err
		}
		all = posts.Append(all, page)
	}
	return all.Summaries, nil
}

// PageNumber extracts the page parameter from a continuation token.
func PageNumber(nextPage string) (int, bool) {
	u, err := url.Parse(nextPage)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

var predicateEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// at builds a single equality predicate. The value is quoted so identifiers
// from request paths cannot break out of the predicate.
func at(field, value string) string {
	return `[[at(` + field + `,"` + predicateEscaper.Replace(value) + `")]]`
}

func (c *Client) search(ctx context.Context, q Query, predicates string) (SearchResponse, error) {
	ref := q.Ref
	if ref == "" {
		var err error
		if ref, err = c.MasterRef(ctx); err != nil {
			return SearchResponse{}, err
		}
	}
	params := url.Values{}
	params.Set("ref", ref)
	params.Set("q", predicates)
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Page > 1 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Orderings != "" {
		params.Set("orderings", q.Orderings)
	}
	if len(q.Fetch) > 0 {
		params.Set("fetch", strings.Join(q.Fetch, ","))
	}

	u := *c.endpoint
	u.Path = strings.TrimRight(u.Path, "/") + "/documents/search"
	u.RawQuery = params.Encode()

	var resp SearchResponse
	if err := c.getJSON(ctx, c.withToken(&u).String(), &resp); err != nil {
		return SearchResponse{}, err
	}
	return resp, nil
}

func (c *Client) withToken(u *url.URL) *url.URL {
	if c.accessToken == "" {
		return u
	}
	out := *u
	params := out.Query()
	if params.Get("access_token") == "" {
		params.Set("access_token", c.accessToken)
		out.RawQuery = params.Encode()
	}
	return &out
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("prismic: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	switch {
	case res.StatusCode == http.StatusNotFound:
		return posts.ErrNotFound
	case res.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
	case res.StatusCode != http.StatusOK:
		return fmt.Errorf("prismic: unexpected status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("prismic: decode response: %w", err)
	}
	return nil
}
