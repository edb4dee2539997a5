package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/dealscout/backend/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// Client talks to a text-embeddings-inference style service that turns a
// batch of texts into fixed-length vectors. One Client is shared by all
// requests; it is read-only after construction and safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new embedding service client. requestsPerSecond
// bounds outbound load on the model server.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond int) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		debug:       false,
	}
}

// SetDebug toggles request/response logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// embedRequest is the wire format of the /embed endpoint
type embedRequest struct {
	Inputs []string `json:"inputs"`
}

// EmbedBatch returns one vector per input text, in input order. All
// failures, including malformed responses, wrap ErrEmbeddingUnavailable so
// callers can apply their fallback policy with a single errors.Is check.
// Transient failures are retried with backoff; retry of a whole failed
// request beyond that is the caller's call.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: empty batch", domain.ErrEmbeddingUnavailable)
	}

	payload, err := json.Marshal(embedRequest{Inputs: texts})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrEmbeddingUnavailable, err)
	}

	endpoint := c.baseURL + "/embed"

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrEmbeddingUnavailable, err)
		}

		vectors, err := c.doEmbed(ctx, endpoint, payload, len(texts))
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if c.debug {
			log.Printf("[EMBED] attempt %d failed: %v", attempt, err)
		}
		if attempt < maxAttempts {
			time.Sleep(exponentialBackoff(attempt))
		}
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, lastErr)
}

func (c *Client) doEmbed(ctx context.Context, endpoint string, payload []byte, want int) ([][]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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

	var vectors [][]float64
	if err := json.Unmarshal(body, &vectors); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(vectors) != want {
		return nil, fmt.Errorf("got %d vectors for %d inputs", len(vectors), want)
	}
	return vectors, nil
}

// exponentialBackoff returns the wait time before retry attempt+1
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}
