// Package feed holds the HTTP plumbing shared by the upstream statistics clients.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
)

// maxBodyPreview bounds the body quoted in error messages.
const maxBodyPreview = 200

// Fetcher performs GET requests and decodes JSON responses.
type Fetcher struct {
	httpClient *http.Client
	headers    http.Header
	metrics    *metrics.Recorder
}

// NewFetcher creates a fetcher; headers are sent with every request.
func NewFetcher(timeout time.Duration, headers http.Header, recorder *metrics.Recorder) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		headers:    headers.Clone(),
		metrics:    recorder,
	}
}

// GetJSON fetches url and decodes the body into v. name labels the request in metrics.
func (f *Fetcher) GetJSON(ctx context.Context, name, url string, v any) (err error) {
	defer func() { f.metrics.FeedRequest(name, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, vals := range f.headers {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s API error: status=%d, body=%s", name, resp.StatusCode, preview(body))
	}
	if len(body) > 0 && body[0] == '<' {
		return fmt.Errorf("%s returned HTML instead of JSON: %s", name, preview(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s response: %w (body: %s)", name, err, preview(body))
	}
	return nil
}

func preview(body []byte) string {
	if len(body) > maxBodyPreview {
		return string(body[:maxBodyPreview])
	}
	return string(body)
}
