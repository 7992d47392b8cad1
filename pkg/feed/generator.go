package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/feedtime/pkg/domain"
)

// Generator creates RSS feeds from extracted mentions
type Generator struct {
	baseURL string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GenerateRSS creates an RSS 2.0 feed with one item per mention.
// Items keep the order of mentions, kind filters the self link only.
func (g *Generator) GenerateRSS(mentions []domain.Mention, kind string) (string, error) {
	title := "Feedtime - all time references"
	selfLink := g.baseURL + "/rss"
	if kind != "" {
		title = fmt.Sprintf("Feedtime - %s time references", kind)
		selfLink = fmt.Sprintf("%s/rss?kind=%s", g.baseURL, kind)
	}

	rssItems := make([]*RSSItem, 0, len(mentions))
	for _, m := range mentions {
		rssItems = append(rssItems, g.convertToRSSItem(m))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "Feed entries mentioning a time of day",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output), nil
}

// convertToRSSItem converts a mention to an RSS item
func (g *Generator) convertToRSSItem(m domain.Mention) *RSSItem {
	desc := "Time: " + m.Time
	if m.Day != "" {
		desc += ", " + m.Day
	}
	if m.Snippet != "" {
		desc += "\n\n" + m.Snippet
	}

	pub := m.Published
	if pub.IsZero() {
		pub = m.ExtractedAt
	}

	categories := []string{m.Kind}
	if m.Day != "" {
		categories = append(categories, m.Day)
	}

	return &RSSItem{
		Title:       fmt.Sprintf("[%s] %s", m.Time, m.Title),
		Link:        m.Link,
		GUID:        RSSGUID{Value: m.FeedURL + "#" + m.EntryID},
		Description: desc,
		PubDate:     pub.Format(time.RFC1123Z),
		Categories:  categories,
	}
}
