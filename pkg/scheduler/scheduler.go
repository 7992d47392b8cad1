// Package scheduler polls configured feeds and stores the time references found in them
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/feedtime/pkg/domain"
	"github.com/umputun/feedtime/pkg/timeref"
)

//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . Parser
//go:generate moq -out mocks/mention_store.go -pkg mocks -skip-ensure -fmt goimports . MentionStore
//go:generate moq -out mocks/run_store.go -pkg mocks -skip-ensure -fmt goimports . RunStore

// Parser interface for feed parsing
type Parser interface {
	Parse(ctx context.Context, url string) (*domain.Feed, error)
}

// MentionStore persists mentions, returns the number of new ones
type MentionStore interface {
	SaveMentions(ctx context.Context, mentions []domain.Mention) (int, error)
}

// RunStore records feed polls
type RunStore interface {
	SaveRun(ctx context.Context, run *domain.Run) error
}

// Config holds scheduler configuration
type Config struct {
	Feeds          []string
	UpdateInterval time.Duration
	MaxWorkers     int
	Retries        int           // fetch attempts per feed and poll
	RetryDelay     time.Duration // initial backoff between attempts
	SnippetWidth   int
}

// Scheduler manages periodic feed polls
type Scheduler struct {
	processor      *FeedProcessor
	feeds          []string
	updateInterval time.Duration

	passMu sync.Mutex // one poll pass at a time
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler instance
func NewScheduler(parser Parser, mentions MentionStore, runs RunStore, matcher *timeref.Matcher, cfg Config) *Scheduler {
	if cfg.UpdateInterval == 0 {
		cfg.UpdateInterval = 5 * time.Minute
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 5
	}
	if cfg.Retries == 0 {
		cfg.Retries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}

	retrier := repeater.NewBackoff(cfg.Retries, cfg.RetryDelay, repeater.WithMaxDelay(30*time.Second))
	return &Scheduler{
		processor: NewFeedProcessor(FeedProcessorConfig{
			Parser:       parser,
			MentionStore: mentions,
			RunStore:     runs,
			Matcher:      matcher,
			MaxWorkers:   cfg.MaxWorkers,
			SnippetWidth: cfg.SnippetWidth,
			RetryFunc: func(ctx context.Context, op func() error) error {
				return retrier.Do(ctx, op)
			},
		}),
		feeds:          cfg.Feeds,
		updateInterval: cfg.UpdateInterval,
	}
}

// Start begins periodic polling, the first pass runs immediately
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.feedUpdateWorker(ctx)

	lgr.Printf("[INFO] scheduler started with update interval %v for %d feeds", s.updateInterval, len(s.feeds))
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// UpdateNow runs one poll pass over all feeds and waits for it.
// A pass already in progress is waited for first.
func (s *Scheduler) UpdateNow(ctx context.Context) []Report {
	s.passMu.Lock()
	defer s.passMu.Unlock()
	return s.processor.UpdateAllFeeds(ctx, s.feeds)
}

// Feeds returns the polled feed urls
func (s *Scheduler) Feeds() []string {
	res := make([]string, len(s.feeds))
	copy(res, s.feeds)
	return res
}

// feedUpdateWorker periodically updates all feeds
func (s *Scheduler) feedUpdateWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	// run immediately on start
	s.UpdateNow(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.UpdateNow(ctx)
		}
	}
}
