package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"
)

// rawVideo mirrors one record of the backend feed. Numeric fields arrive as
// either JSON numbers or display strings, so they are decoded loosely and
// normalized afterwards.
type rawVideo struct {
	ID                 any      `json:"id"`
	Title              string   `json:"title"`
	Duration           string   `json:"duration"`
	Category           string   `json:"category"`
	CategoryLabel      string   `json:"categoryLabel"`
	Views              any      `json:"views"`
	Visits             any      `json:"visits"`
	TotalViews         any      `json:"total_views"`
	TotalVotes         any      `json:"total_votes"`
	GoodVotes          any      `json:"good_votes"`
	BadVotes           any      `json:"bad_votes"`
	URL                string   `json:"url"`
	AvailableQualities []string `json:"available_qualities"`
	Thumbnail          string   `json:"thumbnail"`
	PreviewSrc         string   `json:"preview_src"`
	PageURL            string   `json:"page_url"`
	PageURLAlt         string   `json:"pageUrl"`
}

// defaultRatingPercent is assumed for records with no votes at all.
const defaultRatingPercent = 70.0

var qualityToken = regexp.MustCompile(`(360p|480p|720p|1080p)`)

// normalize converts a raw feed record into a Video. It returns ok=false for
// records that must not enter the catalog: missing id or a placeholder
// thumbnail.
func normalize(raw rawVideo) (Video, bool) {
	id := idString(raw.ID)
	if id == "" {
		return Video{}, false
	}

	totalVotes := parseCount(raw.TotalVotes)
	goodVotes := parseCount(raw.GoodVotes)
	badVotes := parseCount(raw.BadVotes)

	views := parseCount(raw.Views)
	if views == 0 {
		views = parseCount(raw.Visits)
	}
	if views == 0 {
		views = parseCount(raw.TotalViews)
	}
	if views == 0 {
		views = totalVotes
	}

	rating := defaultRatingPercent
	if totalVotes > 0 {
		rating = float64(goodVotes) / float64(totalVotes) * 100
		if rating > 100 {
			rating = 100
		}
	}

	thumb := raw.Thumbnail
	if thumb == "" {
		thumb = raw.PreviewSrc
	}

	pageURL := raw.PageURL
	if pageURL == "" {
		pageURL = raw.PageURLAlt
	}

	v := Video{
		ID:              id,
		Title:           raw.Title,
		Category:        raw.Category,
		CategoryLabel:   raw.CategoryLabel,
		DurationSeconds: parseDurationSeconds(raw.Duration),
		Views:           views,
		TotalVotes:      totalVotes,
		GoodVotes:       goodVotes,
		BadVotes:        badVotes,
		RatingPercent:   rating,
		Thumbnail:       thumb,
		PageURL:         pageURL,
		Sources:         buildSources(raw),
	}

	if !v.Displayable() {
		return Video{}, false
	}
	return v, true
}

// buildSources derives the per-quality playback list. When the feed lists
// available qualities, the quality token inside the base URL is substituted
// for each one; otherwise the base URL is the single source.
func buildSources(raw rawVideo) []Source {
	if raw.URL == "" {
		return nil
	}
	if len(raw.AvailableQualities) == 0 {
		return []Source{{Quality: "base", URL: raw.URL}}
	}
	sources := make([]Source, 0, len(raw.AvailableQualities))
	for _, q := range raw.AvailableQualities {
		sources = append(sources, Source{
			Quality: q,
			URL:     qualityToken.ReplaceAllString(raw.URL, q),
		})
	}
	return sources
}

// normalizeAll converts a raw record list, dropping records that fail
// normalization.
func normalizeAll(raws []rawVideo) []Video {
	videos := make([]Video, 0, len(raws))
	for _, raw := range raws {
		if v, ok := normalize(raw); ok {
			videos = append(videos, v)
		}
	}
	return videos
}

// decodeFeed accepts either a flat JSON array of records or an
// object-of-arrays keyed by category, flattened in key-insertion-independent
// order.
func decodeFeed(data []byte) ([]rawVideo, error) {
	var flat []rawVideo
	if err := json.Unmarshal(data, &flat); err == nil {
		return flat, nil
	}

	var grouped map[string][]rawVideo
	if err := json.Unmarshal(data, &grouped); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	var all []rawVideo
	for category, raws := range grouped {
		for _, raw := range raws {
			if raw.Category == "" {
				raw.Category = category
			}
			all = append(all, raw)
		}
	}
	return all, nil
}

// LoadBundle reads a static JSON feed from disk and returns the normalized
// records.
func LoadBundle(path string) ([]Video, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	raws, err := decodeFeed(data)
	if err != nil {
		return nil, err
	}
	return normalizeAll(raws), nil
}

// Client fetches catalog pages from the backend video API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a backend client. If httpClient is nil a client with a
// 15 second timeout is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// pageResponse mirrors the backend's paginated reply.
type pageResponse struct {
	Videos []rawVideo `json:"videos"`
	Total  int        `json:"total"`
}

// FetchPage retrieves one page of records, optionally restricted to a
// category, and returns the normalized videos plus the backend's total count.
func (c *Client) FetchPage(ctx context.Context, page, size int, category string) ([]Video, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if category != "" {
		q.Set("category", category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/videos?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch videos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("fetch videos: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	var pr pageResponse
	if err := json.Unmarshal(body, &pr); err == nil && pr.Videos != nil {
		return normalizeAll(pr.Videos), pr.Total, nil
	}

	// Some deployments return the grouped feed directly.
	raws, err := decodeFeed(body)
	if err != nil {
		return nil, 0, err
	}
	videos := normalizeAll(raws)
	return videos, len(videos), nil
}
