package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/dealscout/backend/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// Client fetches listings for one marketplace from its scraper service. The
// scraper service owns HTML parsing and anti-bot handling; this client only
// speaks its JSON search API and normalizes the raw fields.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	source      domain.Source
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a listing client for one source
func NewClient(source domain.Source, baseURL string, requestsPerSecond int) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		source:      source,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// SetDebug toggles request/response logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// Source returns which marketplace this client serves
func (c *Client) Source() domain.Source {
	return c.source
}

// searchResponse is the scraper service's search payload. Price, rating and
// reviews arrive as scraped — currency symbols, "4.3 out of 5", "1.2K" —
// and are normalized by the mapper.
type searchResponse struct {
	Query    string       `json:"query"`
	Listings []rawListing `json:"listings"`
}

type rawListing struct {
	Title   string `json:"title"`
	Price   string `json:"price"`
	Rating  string `json:"rating"`
	Reviews string `json:"reviews"`
	URL     string `json:"url"`
}

// Search fetches listings for a free-text query. An empty catalog answer is
// an empty slice with a nil error; only transport or upstream failures
// error, wrapped in ErrSourceUnavailable after retries.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Listing, error) {
	params := url.Values{}
	params.Set("q", query)
	reqURL := fmt.Sprintf("%s/api/search?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrSourceUnavailable, err)
		}

		listings, err := c.doSearch(ctx, reqURL)
		if err == nil {
			if c.debug {
				log.Printf("[%s] %d listings for %q", c.source, len(listings), query)
			}
			return listings, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if c.debug {
			log.Printf("[%s] attempt %d failed: %v", c.source, attempt, err)
		}
		if attempt < maxAttempts {
			time.Sleep(exponentialBackoff(attempt))
		}
	}

	return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, c.source, lastErr)
}

func (c *Client) doSearch(ctx context.Context, reqURL string) ([]domain.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "dealscout/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	listings := make([]domain.Listing, 0, len(searchResp.Listings))
	for _, raw := range searchResp.Listings {
		if raw.Title == "" {
			continue
		}
		listings = append(listings, MapListing(raw, c.source))
	}
	return listings, nil
}

// exponentialBackoff returns the wait time before retry attempt+1
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}
