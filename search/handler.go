package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// Searcher runs a query against an index.
type Searcher interface {
	Query(ctx context.Context, q string, limit int) ([]Hit, error)
}

// Limiter decides whether a client may make another request.
type Limiter interface {
	Allow(key string) bool
}

// HandlerOptions configures the search endpoint.
type HandlerOptions struct {
	MinQueryLength int
	MaxResults     int
	Limiter        Limiter // optional
}

// Handler serves the JSON search API.
type Handler struct {
	searcher Searcher
	opts     HandlerOptions
}

// NewHandler creates a search handler over s.
func NewHandler(s Searcher, opts HandlerOptions) *Handler {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 20
	}
	return &Handler{searcher: s, opts: opts}
}

// RegisterRoutes mounts GET /api/search/:query.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/search/:query", h.Search)
}

// Search handles GET /api/search/:query and always answers with a JSON
// array on success.
func (h *Handler) Search(c echo.Context) error {
	if h.opts.Limiter != nil && !h.opts.Limiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
	}
	q := strings.TrimSpace(pathParam(c, "query"))
	if utf8.RuneCountInString(q) < h.opts.MinQueryLength {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": ErrQueryTooShort.Error()})
	}
	hits, err := h.searcher.Query(c.Request().Context(), q, h.opts.MaxResults)
	if err != nil {
		c.Logger().Errorf("search %q: %v", q, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "search failed"})
	}
	if hits == nil {
		hits = []Hit{}
	}
	return c.JSON(http.StatusOK, hits)
}

// pathParam returns the unescaped value of a route parameter. Echo leaves
// parameters escaped when the request path carried encoded separators.
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
