package catalog

import "strings"

// Video is an immutable record from a catalog snapshot.
// Engagement fields are normalized to plain numbers at ingestion time;
// the raw backend feed carries them as display strings ("8.1k", "10,695 votes").
type Video struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	CategoryLabel   string   `json:"categoryLabel,omitempty"`
	DurationSeconds int      `json:"durationSeconds"`
	Views           int64    `json:"views"`
	TotalVotes      int64    `json:"totalVotes"`
	GoodVotes       int64    `json:"goodVotes"`
	BadVotes        int64    `json:"badVotes"`
	RatingPercent   float64  `json:"ratingPercentage"`
	Thumbnail       string   `json:"thumbnail,omitempty"`
	PageURL         string   `json:"pageUrl,omitempty"`
	Sources         []Source `json:"sources,omitempty"`
}

// Source is a playable rendition of a video at a given quality.
type Source struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// Category pairs a backend category key with its human-readable label.
type Category struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// placeholderMarkers are substrings identifying stock placeholder thumbnails.
// Records carrying one of these are not displayable and never enter a snapshot.
var placeholderMarkers = []string{"w3", "placeholder", "default"}

// Displayable reports whether the record has a usable thumbnail: present,
// non-empty, and not matching a known placeholder pattern.
func (v Video) Displayable() bool {
	if v.Thumbnail == "" {
		return false
	}
	thumb := strings.ToLower(v.Thumbnail)
	for _, marker := range placeholderMarkers {
		if strings.Contains(thumb, marker) {
			return false
		}
	}
	return true
}

// Minutes returns the video duration in fractional minutes.
func (v Video) Minutes() float64 {
	return float64(v.DurationSeconds) / 60
}
