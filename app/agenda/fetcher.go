package agenda

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetcherInterface retrieves the raw agenda page for a (year, week).
type FetcherInterface interface {
	Fetch(ctx context.Context, year, weekNumber int) ([]byte, error)
}

var _ FetcherInterface = (*Fetcher)(nil)

// Fetcher loads conference-week pages from the Bundestag site.
type Fetcher struct {
	httpClient *http.Client
	url        string
	userAgent  string
}

func NewFetcher(httpClient *http.Client, url, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		url:        url,
		userAgent:  userAgent,
	}
}

// Fetch returns the raw agenda markup. A non-2xx response yields an
// *UpstreamError; the caller decides whether to surface or skip it.
func (f *Fetcher) Fetch(ctx context.Context, year, weekNumber int) ([]byte, error) {
	url := fmt.Sprintf("%s?year=%d&week=%d", f.url, year, weekNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch agenda page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
