package feed

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/umputun/feedtime/pkg/domain"
)

// ParserConfig defines parser behavior
type ParserConfig struct {
	Timeout     time.Duration // per-request timeout
	UserAgent   string
	MinInterval time.Duration // minimal pause between requests, 0 for no limit
	StripHTML   bool          // convert entry content from HTML to plain text
}

// Parser fetches and parses RSS/Atom feeds
type Parser struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	stripHTML bool
}

// NewParser creates a new feed parser
func NewParser(cfg ParserConfig) *Parser {
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	return &Parser{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
		stripHTML: cfg.StripHTML,
	}
}

// Parse fetches and parses a feed from the given URL
func (p *Parser) Parse(ctx context.Context, url string) (*domain.Feed, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limit: %w", err)
	}

	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	result := &domain.Feed{
		Title:   feed.Title,
		URL:     url,
		Entries: make([]domain.Entry, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		entry := domain.Entry{
			Title:   item.Title,
			Link:    item.Link,
			Content: item.Content,
		}

		// atom summary or rss description when there is no full content
		if entry.Content == "" {
			entry.Content = item.Description
		}
		if p.stripHTML {
			entry.Content = plainText(entry.Content)
		}

		switch {
		case item.GUID != "":
			entry.ID = item.GUID
		case item.Link != "":
			entry.ID = item.Link
		default:
			entry.ID = fmt.Sprintf("%s-%s", feed.Title, item.Title)
		}

		if item.PublishedParsed != nil {
			entry.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.Published = *item.UpdatedParsed
		}

		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// reddit and some other hosts answer 429 to default go user agents
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/atom+xml,application/rss+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.9,es;q=0.8",
}
