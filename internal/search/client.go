package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every provider HTTP request.
	DefaultTimeout = 10 * time.Second

	// CallInterval is the minimum spacing between provider calls, for
	// rate-limit friendliness.
	CallInterval = 300 * time.Millisecond

	// UserAgent identifies the client to providers that ask for one.
	UserAgent = "refcheck/1.0 (citation checker)"

	crossrefBaseURL    = "https://api.crossref.org/works"
	openLibraryBaseURL = "https://openlibrary.org/search.json"
	arxivBaseURL       = "http://export.arxiv.org/api/query"
	googleBooksBaseURL = "https://www.googleapis.com/books/v1/volumes"
)

// Client is a rate-limited HTTP client shared by all providers.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	googleBooksKey string

	// Base URLs are fields so tests can point providers at a local server.
	crossrefURL    string
	openLibraryURL string
	arxivURL       string
	googleBooksURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithGoogleBooksKey sets the Google Books API key. Without a key the
// Google Books tier is skipped entirely.
func WithGoogleBooksKey(key string) ClientOption {
	return func(c *Client) { c.googleBooksKey = key }
}

// WithBaseURLs overrides all provider endpoints (for testing).
func WithBaseURLs(crossref, openLibrary, arxiv, googleBooks string) ClientOption {
	return func(c *Client) {
		c.crossrefURL = crossref
		c.openLibraryURL = openLibrary
		c.arxivURL = arxiv
		c.googleBooksURL = googleBooks
	}
}

// NewClient creates a provider client. The Google Books key is read
// from GOOGLE_BOOKS_API_KEY when not supplied via option.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:     &http.Client{Timeout: DefaultTimeout},
		limiter:        rate.NewLimiter(rate.Every(CallInterval), 1),
		crossrefURL:    crossrefBaseURL,
		openLibraryURL: openLibraryBaseURL,
		arxivURL:       arxivBaseURL,
		googleBooksURL: googleBooksBaseURL,
	}

	if key := os.Getenv("GOOGLE_BOOKS_API_KEY"); key != "" {
		c.googleBooksKey = key
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON performs a rate-limited GET and decodes the JSON body into v.
// Any failure (wait, transport, status, decode) is returned so callers
// can degrade to an empty candidate list.
func (c *Client) getJSON(ctx context.Context, url string, v interface{}) error {
	body, err := c.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// get performs a rate-limited GET and returns the raw body.
func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
