package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	UserAgent = "jurisdiction-links/1.0 (github.com/pfrederiksen/jurisdiction-links)"
	Timeout   = 30 * time.Second

	// RequestInterval is the minimum spacing between requests to the site
	RequestInterval = 500 * time.Millisecond

	maxErrorBody = 4096
)

// Fetcher performs paced HTTP GET requests
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher creates a Fetcher. A nil client gets the default 30s timeout and a
// nil limiter spaces requests by RequestInterval.
func NewFetcher(client *http.Client, limiter *rate.Limiter) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: Timeout}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(RequestInterval), 1)
	}
	return &Fetcher{
		client:  client,
		limiter: limiter,
	}
}

// Fetch returns the body of url as text. Any transport failure or non-2xx status
// is returned as a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("waiting for rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	return string(b), nil
}
