// Package tmdb is a thin client for The Movie Database HTTP API. Discovery
// queries (search, popular, trending) degrade to an empty result page on any
// failure so a catalog outage never breaks the request that triggered them.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// ImageBaseURL prefixes poster and backdrop paths for display.
	ImageBaseURL = "https://image.tmdb.org/t/p/w342"
)

var (
	// ErrNotFound means the catalog has no record for the requested id.
	ErrNotFound = errors.New("tmdb: movie not found")

	// ErrUnavailable covers transport failures, timeouts and unexpected
	// statuses, including a missing API key.
	ErrUnavailable = errors.New("tmdb: catalog unavailable")
)

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie is a catalog record as returned by search and details endpoints.
// Search results leave Runtime and Genres empty.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	ReleaseDate  string  `json:"release_date"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Runtime      int     `json:"runtime"`
	VoteAverage  float64 `json:"vote_average"`
	Genres       []Genre `json:"genres"`
}

// Page is one page of catalog results.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithBaseURL points the client at a different endpoint, used by tests.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

// Enabled reports whether an API key is configured. Without one, discovery
// returns empty pages and details fail with ErrUnavailable.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// SearchMovies runs a free-text title search.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) Page {
	return c.pageQuery(ctx, "/search/movie", map[string]string{
		"query":         query,
		"include_adult": "false",
	}, page)
}

// Popular returns the catalog's current popular movies.
func (c *Client) Popular(ctx context.Context, page int) Page {
	return c.pageQuery(ctx, "/movie/popular", nil, page)
}

// Trending returns this week's trending movies.
func (c *Client) Trending(ctx context.Context, page int) Page {
	return c.pageQuery(ctx, "/trending/movie/week", nil, page)
}

// MovieDetails fetches the full record for one movie. Unlike the discovery
// queries it propagates failure: ErrNotFound for an unknown id,
// ErrUnavailable otherwise.
func (c *Client) MovieDetails(ctx context.Context, tmdbID int64) (*Movie, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	var movie Movie
	status, err := c.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), nil, &movie)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	switch {
	case status == http.StatusNotFound:
		return nil, ErrNotFound
	case status != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
	return &movie, nil
}

// pageQuery is the degrading fetch shared by search, popular and trending.
func (c *Client) pageQuery(ctx context.Context, path string, params map[string]string, page int) Page {
	if !c.Enabled() {
		return Page{}
	}
	if params == nil {
		params = map[string]string{}
	}
	if page > 1 {
		params["page"] = strconv.Itoa(page)
	}

	var result Page
	status, err := c.get(ctx, path, params, &result)
	if err != nil {
		slog.Warn("tmdb request failed", "path", path, "error", err)
		return Page{}
	}
	if status != http.StatusOK {
		slog.Warn("tmdb returned non-success status", "path", path, "status", status)
		return Page{}
	}
	if result.Results == nil {
		result.Results = []Movie{}
	}
	return result
}

// get performs an API-key-authenticated GET and decodes the JSON body into v
// when the status is 200. The status code is returned for the caller to
// interpret.
func (c *Client) get(ctx context.Context, path string, params map[string]string, v interface{}) (int, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return 0, fmt.Errorf("failed to build request URL: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	for k, val := range params {
		q.Set(k, val)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}
