package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPFetcher does a single bounded GET per call, no retries.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewHTTPFetcher builds a fetcher whose every request is bounded by timeout.
func NewHTTPFetcher(timeout time.Duration, userAgent string, maxBytes int64) *HTTPFetcher {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
}
