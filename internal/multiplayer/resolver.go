package multiplayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPResolver resolves playback links through the scraping endpoint:
// POST {url} with { "page_url": "..." }, expecting { "video_links": [...] }.
type HTTPResolver struct {
	url  string
	http *http.Client
}

// NewHTTPResolver returns a resolver posting to url. If httpClient is nil a
// client with a 20 second timeout is used; scraping is slow.
func NewHTTPResolver(url string, httpClient *http.Client) *HTTPResolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTTPResolver{url: url, http: httpClient}
}

// Resolve implements Resolver.
func (r *HTTPResolver) Resolve(ctx context.Context, pageURL string) ([]string, error) {
	payload, err := json.Marshal(map[string]string{"page_url": pageURL})
	if err != nil {
		return nil, fmt.Errorf("encode scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape request: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		VideoLinks []string `json:"video_links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode scrape response: %w", err)
	}
	return body.VideoLinks, nil
}
