package domain

import "time"

// Feed is a fetched syndication feed
type Feed struct {
	Title   string
	URL     string
	Entries []Entry
}

// Entry is one item of a feed. Title and Content are the text searched for time references.
type Entry struct {
	ID        string
	Title     string
	Content   string
	Link      string
	Published time.Time
}
