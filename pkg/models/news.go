package models

import "time"

// NewsItem is one externally sourced headline with attribution.
type NewsItem struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// NewsSummaryItem is one row of the user-facing news digest. Live items come
// from the shared headline cache; the rest are deterministic stub rows.
type NewsSummaryItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	Source  string `json:"source"`
	URL     string `json:"url,omitempty"`
	Live    bool   `json:"live"`
}
