// Package scryfall is a minimal client for the public Scryfall card API,
// covering the two endpoints the deck builder needs: full-text card search
// and the symbology listing.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production Scryfall API root.
	DefaultBaseURL = "https://api.scryfall.com"

	defaultUserAgent = "counterspell/1.0"
	requestTimeout   = 30 * time.Second

	// Scryfall asks for at most 10 requests per second.
	rateLimitDelay = 100 * time.Millisecond

	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client talks to the Scryfall API with rate limiting and retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient returns a client for the given API root. Empty arguments fall
// back to the production URL, the default User-Agent and a 30s timeout.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:  userAgent,
	}
}

// SearchCards runs a full-text search and returns the first page of results.
func (c *Client) SearchCards(ctx context.Context, query string) (*SearchResult, error) {
	u := fmt.Sprintf("%s/cards/search?q=%s", c.baseURL, url.QueryEscape(query))

	var result SearchResult
	if err := c.get(ctx, u, &result); err != nil {
		return nil, fmt.Errorf("search cards %q: %w", query, err)
	}
	return &result, nil
}

// ListSymbols fetches the symbology listing and reduces it to a map from
// cost token (e.g. "{U}") to SVG asset URI.
func (c *Client) ListSymbols(ctx context.Context) (SymbolMap, error) {
	u := c.baseURL + "/symbology"

	var list SymbolList
	if err := c.get(ctx, u, &list); err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}

	symbols := make(SymbolMap, len(list.Data))
	for _, s := range list.Data {
		symbols[s.Symbol] = s.SVGURI
	}
	return symbols, nil
}

// get performs a GET request with rate limiting, retrying network errors
// and 429s with exponential backoff.
func (c *Client) get(ctx context.Context, url string, result any) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				if err := sleep(ctx, backoff); err != nil {
					return err
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("read response: %w", readErr)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			if attempt < maxRetries {
				wait := backoff
				if ra := resp.Header.Get("Retry-After"); ra != "" {
					if d, err := time.ParseDuration(ra + "s"); err == nil {
						wait = d
					}
				}
				if err := sleep(ctx, wait); err != nil {
					return err
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return lastErr

		default:
			var apiErr APIError
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
				return &apiErr
			}
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
