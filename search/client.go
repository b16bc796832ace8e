package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// ResultKind tells which outcome a Result holds.
type ResultKind int

const (
	// Success means one or more hits were found.
	Success ResultKind = iota
	// Empty means the query ran and matched nothing.
	Empty
	// TooShort means the query was rejected before any request was made.
	TooShort
	// Error means the request or response failed.
	Error
)

func (k ResultKind) String() string {
	switch k {
	case Success:
		return "success"
	case Empty:
		return "empty"
	case TooShort:
		return "too_short"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the outcome of a client search. Hits is set only for Success,
// Err only for TooShort and Error.
type Result struct {
	Kind  ResultKind
	Query string
	Hits  []Hit
	Err   error
}

// Client queries a blog's search API.
type Client struct {
	BaseURL        string
	HTTP           *http.Client
	MinQueryLength int
}

// NewClient returns a Client for the site at baseURL.
func NewClient(baseURL string, minQueryLength int) *Client {
	return &Client{
		BaseURL:        strings.TrimSuffix(baseURL, "/"),
		HTTP:           &http.Client{Timeout: 10 * time.Second},
		MinQueryLength: minQueryLength,
	}
}

// Search runs q against the API. Queries shorter than MinQueryLength
// runes are rejected without a request.
func (c *Client) Search(ctx context.Context, q string) Result {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < c.MinQueryLength {
		return Result{Kind: TooShort, Query: q, Err: ErrQueryTooShort}
	}
	hits, err := c.fetch(ctx, q)
	return classify(q, hits, err)
}

// Run queries s directly, with the same length check and outcome
// classification as Client.Search.
func Run(ctx context.Context, s Searcher, q string, minQueryLength, limit int) Result {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < minQueryLength {
		return Result{Kind: TooShort, Query: q, Err: ErrQueryTooShort}
	}
	hits, err := s.Query(ctx, q, limit)
	return classify(q, hits, err)
}

func classify(q string, hits []Hit, err error) Result {
	if err != nil {
		return Result{Kind: Error, Query: q, Err: err}
	}
	if len(hits) == 0 {
		return Result{Kind: Empty, Query: q}
	}
	return Result{Kind: Success, Query: q, Hits: hits}
}

func (c *Client) fetch(ctx context.Context, q string) ([]Hit, error) {
	endpoint := c.BaseURL + "/api/search/" + url.PathEscape(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("search: HTTP %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("search: HTTP %d", resp.StatusCode)
	}
	var hits []Hit
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}
	return hits, nil
}
