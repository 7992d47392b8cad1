package scheduler

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/feedtime/pkg/domain"
	"github.com/umputun/feedtime/pkg/feed"
	"github.com/umputun/feedtime/pkg/timeref"
)

// Report is the outcome of a single feed poll
type Report struct {
	Run      domain.Run
	Mentions []domain.Mention // extracted in entry order, including already stored ones
}

// FeedProcessor polls feeds and turns entries with time references into stored mentions.
// It fetches each feed with retries, runs the matcher over its entries, persists new
// mentions and records a run per feed. Stores are optional, nil skips persistence.
type FeedProcessor struct {
	parser       Parser
	mentions     MentionStore
	runs         RunStore
	matcher      *timeref.Matcher
	maxWorkers   int
	snippetWidth int
	retryFunc    func(ctx context.Context, operation func() error) error
	now          func() time.Time
}

// FeedProcessorConfig holds configuration for FeedProcessor
type FeedProcessorConfig struct {
	Parser       Parser
	MentionStore MentionStore
	RunStore     RunStore
	Matcher      *timeref.Matcher
	MaxWorkers   int
	SnippetWidth int
	RetryFunc    func(ctx context.Context, operation func() error) error
}

// NewFeedProcessor creates a new feed processor. Parser and Matcher are required.
func NewFeedProcessor(cfg FeedProcessorConfig) *FeedProcessor {
	res := &FeedProcessor{
		parser:       cfg.Parser,
		mentions:     cfg.MentionStore,
		runs:         cfg.RunStore,
		matcher:      cfg.Matcher,
		maxWorkers:   cfg.MaxWorkers,
		snippetWidth: cfg.SnippetWidth,
		retryFunc:    cfg.RetryFunc,
		now:          time.Now,
	}
	if res.maxWorkers <= 0 {
		res.maxWorkers = 1
	}
	if res.retryFunc == nil {
		res.retryFunc = func(_ context.Context, op func() error) error { return op() }
	}
	return res
}

// UpdateAllFeeds polls all urls concurrently, limited by maxWorkers.
// Reports are returned in the order of urls.
func (fp *FeedProcessor) UpdateAllFeeds(ctx context.Context, urls []string) []Report {
	lgr.Printf("[INFO] updating %d feeds", len(urls))

	reports := make([]Report, len(urls))
	var g errgroup.Group
	g.SetLimit(fp.maxWorkers)
	for i, u := range urls {
		g.Go(func() error {
			reports[i] = fp.UpdateFeed(ctx, u)
			return nil
		})
	}
	_ = g.Wait() // workers report failures in runs, never return errors

	added := 0
	for _, r := range reports {
		added += r.Run.Added
	}
	lgr.Printf("[INFO] feed update completed, %d new mentions", added)
	return reports
}

// UpdateFeed fetches a single feed, extracts time references and stores them
func (fp *FeedProcessor) UpdateFeed(ctx context.Context, url string) (rep Report) {
	lgr.Printf("[DEBUG] updating feed: %s", url)
	started := fp.now()
	rep = Report{Run: domain.Run{FeedURL: url, StartedAt: started}}

	defer func() {
		rep.Run.Duration = fp.now().Sub(started)
		fp.saveRun(ctx, &rep.Run)
	}()

	var parsed *domain.Feed
	err := fp.retryFunc(ctx, func() error {
		var parseErr error
		parsed, parseErr = fp.parser.Parse(ctx, url)
		return parseErr
	})
	if err != nil {
		lgr.Printf("[WARN] failed to parse feed %s: %v", url, err)
		rep.Run.Error = err.Error()
		return rep
	}

	res := fp.matcher.Collect(parsed.Entries)
	rep.Mentions = fp.toMentions(url, res)
	rep.Run.Total, rep.Run.Matched, rep.Run.Extracted = res.Total, res.Matched, len(res.Matches)

	if fp.mentions != nil && len(rep.Mentions) > 0 {
		added, err := fp.mentions.SaveMentions(ctx, rep.Mentions)
		if err != nil {
			lgr.Printf("[WARN] failed to save mentions for feed %s: %v", url, err)
			rep.Run.Error = err.Error()
			return rep
		}
		rep.Run.Added = added
	}

	if rep.Run.Added > 0 {
		lgr.Printf("[INFO] added %d new mentions from feed %s", rep.Run.Added, url)
	}
	lgr.Printf("[DEBUG] feed %s: %d entries, %d matched, %d extracted", url, res.Total, res.Matched, len(res.Matches))
	return rep
}

// saveRun records the run, failures are logged only
func (fp *FeedProcessor) saveRun(ctx context.Context, run *domain.Run) {
	if fp.runs == nil {
		return
	}
	if err := fp.runs.SaveRun(ctx, run); err != nil {
		lgr.Printf("[WARN] failed to save run for feed %s: %v", run.FeedURL, err)
	}
}

// toMentions converts extraction results to mentions. Day and snippet are taken from the
// same joined title and content the time reference was found in.
func (fp *FeedProcessor) toMentions(url string, res timeref.Result) []domain.Mention {
	now := fp.now()
	mentions := make([]domain.Mention, 0, len(res.Matches))
	for _, em := range res.Matches {
		text := em.Entry.Title + em.Entry.Content
		mentions = append(mentions, domain.Mention{
			FeedURL:     url,
			EntryID:     em.Entry.ID,
			Title:       em.Entry.Title,
			Link:        em.Entry.Link,
			Time:        em.Match.Text,
			Kind:        string(em.Match.Kind),
			Day:         fp.matcher.Day(text),
			Snippet:     feed.Snippet(text, em.Match.Start, em.Match.End, fp.snippetWidth),
			Published:   em.Entry.Published,
			ExtractedAt: now,
		})
	}
	return mentions
}
