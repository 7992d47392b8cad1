package domain

import "time"

// Mention is a time reference extracted from a feed entry
type Mention struct {
	ID          int64     `json:"id"`
	FeedURL     string    `json:"feed_url"`
	EntryID     string    `json:"entry_id"`
	Title       string    `json:"title"`
	Link        string    `json:"link,omitempty"`
	Time        string    `json:"time"`
	Kind        string    `json:"kind"`
	Day         string    `json:"day,omitempty"`
	Snippet     string    `json:"snippet,omitempty"` // text around the time reference
	Published   time.Time `json:"published"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// MentionFilter narrows mention queries, zero values mean no filtering
type MentionFilter struct {
	FeedURL string
	Kind    string
	Limit   int
}

// Run records one poll of a feed
type Run struct {
	ID        int64         `json:"id"`
	FeedURL   string        `json:"feed_url"`
	Total     int           `json:"total"`     // entries in the feed
	Matched   int           `json:"matched"`   // entries passing the title-or-content check
	Extracted int           `json:"extracted"` // spans extracted
	Added     int           `json:"added"`     // mentions not seen before
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
