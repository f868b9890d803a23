package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"topowatch/internal/domain"
)

// maxPayload bounds a single snapshot body
const maxPayload = 64 << 20

// HTTPFetcher reads snapshots with a GET against base URL + path
type HTTPFetcher struct {
	client *http.Client
	url    string
}

// NewHTTPFetcher creates a fetcher for baseURL joined with path
func NewHTTPFetcher(baseURL, path string, timeout time.Duration) (*HTTPFetcher, error) {
	target, err := url.JoinPath(baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q + %q: %w", baseURL, path, err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		url:    target,
	}, nil
}

// Name returns the endpoint URL
func (f *HTTPFetcher) Name() string {
	return f.url
}

// Type returns AdapterTypeHTTP
func (f *HTTPFetcher) Type() AdapterType {
	return AdapterTypeHTTP
}

// Fetch performs one GET and returns the body
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrFetchFailure, f.url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailure, err)
	}
	if len(body) > maxPayload {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", domain.ErrFetchFailure, maxPayload)
	}
	return body, nil
}
