// Package contentapi is a local stand-in for the hosted content API. It
// stores documents in SQLite, serves them over the same search protocol the
// prismic client speaks, and imports them from markdown files.
package contentapi

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/spacetraveling/prismic"
)

// MasterRef is the ref the local API publishes under.
const MasterRef = "master"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	rePredicate        = regexp.MustCompile(`at\(\s*([\w.]+)\s*,\s*"((?:[^"\\]|\\.)*)"\s*\)`)
	predicateUnescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`)
)

// Handler serves the search API from a Store.
type Handler struct {
	store *Store
}

// NewHandler creates a Handler backed by store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the API under /api/v2.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v2", h.handleInfo)
	e.GET("/api/v2/", h.handleInfo)
	e.GET("/api/v2/documents/search", h.handleSearch)
}

func (h *Handler) handleInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, prismic.APIInfo{
		Refs: []prismic.Ref{{ID: "master", Ref: MasterRef, Label: "Master", IsMasterRef: true}},
	})
}

// searchParams is the parsed form of a search request.
type searchParams struct {
	docType  string
	uid      string
	id       string
	order    Order
	desc     bool
	page     int
	pageSize int
}

func parseSearch(v url.Values) (searchParams, error) {
	p := searchParams{order: OrderLastPublication, page: 1, pageSize: defaultPageSize}

	q := v.Get("q")
	if rest := rePredicate.ReplaceAllString(q, ""); strings.Trim(rest, "[], \t\n") != "" {
		return p, echo.NewHTTPError(http.StatusBadRequest, "malformed predicate query")
	}
	for _, m := range rePredicate.FindAllStringSubmatch(q, -1) {
		field, value := m[1], predicateUnescaper.Replace(m[2])
		switch {
		case field == "document.type":
			p.docType = value
		case field == "document.id":
			p.id = value
		case strings.HasPrefix(field, "my.") && strings.HasSuffix(field, ".uid"):
			p.uid = value
			p.docType = strings.TrimSuffix(strings.TrimPrefix(field, "my."), ".uid")
		default:
			return p, echo.NewHTTPError(http.StatusBadRequest, "unsupported predicate field "+field)
		}
	}

	if raw := v.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		p.page = n
	}
	if raw := v.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, echo.NewHTTPError(http.StatusBadRequest, "pageSize must be a positive integer")
		}
		p.pageSize = min(n, maxPageSize)
	}

	if raw := strings.Trim(strings.TrimSpace(v.Get("orderings")), "[]"); raw != "" {
		first := strings.Fields(strings.Split(raw, ",")[0])
		if len(first) == 0 {
			return p, echo.NewHTTPError(http.StatusBadRequest, "empty ordering")
		}
		switch first[0] {
		case "document.last_publication_date":
			p.order = OrderLastPublication
		case "document.first_publication_date":
			p.order = OrderFirstPublication
		default:
			return p, echo.NewHTTPError(http.StatusBadRequest, "unsupported ordering "+first[0])
		}
		p.desc = len(first) > 1 && strings.EqualFold(first[1], "desc")
	}
	return p, nil
}

func (h *Handler) handleSearch(c echo.Context) error {
	if c.QueryParam("ref") == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "ref is required")
	}
	p, err := parseSearch(c.QueryParams())
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if p.uid != "" || p.id != "" {
		var rec Record
		if p.id != "" {
			rec, err = h.store.GetDocument(ctx, p.id)
		} else {
			rec, err = h.store.GetByUID(ctx, p.docType, p.uid)
		}
		resp := prismic.SearchResponse{Page: 1, ResultsPerPage: p.pageSize, TotalPages: 1, Results: []prismic.Document{}}
		switch {
		case IsNotFound(err):
		case err != nil:
			return err
		default:
			resp.Results = append(resp.Results, rec.Document())
		}
		resp.ResultsSize = len(resp.Results)
		resp.TotalResultsSize = len(resp.Results)
		return c.JSON(http.StatusOK, resp)
	}

	total, err := h.store.CountDocuments(ctx, p.docType)
	if err != nil {
		return err
	}
	records, err := h.store.ListDocuments(ctx, p.docType, p.order, p.desc, p.pageSize, (p.page-1)*p.pageSize)
	if err != nil {
		return err
	}

	totalPages := (total + p.pageSize - 1) / p.pageSize
	resp := prismic.SearchResponse{
		Page:             p.page,
		ResultsPerPage:   p.pageSize,
		ResultsSize:      len(records),
		TotalResultsSize: total,
		TotalPages:       totalPages,
		Results:          make([]prismic.Document, 0, len(records)),
	}
	for _, r := range records {
		resp.Results = append(resp.Results, r.Document())
	}
	if p.page < totalPages {
		next := pageURL(c, p.page+1)
		resp.NextPage = &next
	}
	if p.page > 1 {
		prev := pageURL(c, p.page-1)
		resp.PrevPage = &prev
	}
	return c.JSON(http.StatusOK, resp)
}

// pageURL rebuilds the current request URL as an absolute URL for page n.
func pageURL(c echo.Context, n int) string {
	req := c.Request()
	params := req.URL.Query()
	params.Set("page", strconv.Itoa(n))
	params.Del("access_token")
	u := url.URL{
		Scheme:   c.Scheme(),
		Host:     req.Host,
		Path:     req.URL.Path,
		RawQuery: params.Encode(),
	}
	return u.String()
}
