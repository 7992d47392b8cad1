package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedtime/pkg/domain"
	"github.com/umputun/feedtime/pkg/scheduler/mocks"
	"github.com/umputun/feedtime/pkg/timeref"
)

var testPublished = time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)

func testFeed(url string) *domain.Feed {
	return &domain.Feed{
		Title: "lfg",
		URL:   url,
		Entries: []domain.Entry{
			{ID: "t3_1", Title: "Raid on Saturday!", Content: "starts 9:30 pm EST, bring pots",
				Link: "https://example.com/1", Published: testPublished},
			{ID: "t3_2", Title: "LFG", Content: "anyone?"},
			{ID: "t3_3", Title: "Weekly 8 pm pacific"},
		},
	}
}

func newTestProcessor(t *testing.T, parser Parser, mentions MentionStore, runs RunStore) *FeedProcessor {
	t.Helper()
	fp := NewFeedProcessor(FeedProcessorConfig{
		Parser:       parser,
		MentionStore: mentions,
		RunStore:     runs,
		Matcher:      timeref.MustNew(),
		MaxWorkers:   2,
		SnippetWidth: 80,
	})
	fp.now = func() time.Time { return testPublished.Add(time.Hour) }
	return fp
}

func TestFeedProcessor_UpdateFeed(t *testing.T) {
	parser := &mocks.ParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.Feed, error) { return testFeed(url), nil },
	}
	mentionStore := &mocks.MentionStoreMock{
		SaveMentionsFunc: func(ctx context.Context, mentions []domain.Mention) (int, error) { return 1, nil },
	}
	runStore := &mocks.RunStoreMock{
		SaveRunFunc: func(ctx context.Context, run *domain.Run) error { run.ID = 42; return nil },
	}

	fp := newTestProcessor(t, parser, mentionStore, runStore)
	rep := fp.UpdateFeed(context.Background(), "https://example.com/rss")

	require.Len(t, parser.ParseCalls(), 1)
	assert.Equal(t, "https://example.com/rss", parser.ParseCalls()[0].URL)

	require.Len(t, rep.Mentions, 2)
	m := rep.Mentions[0]
	assert.Equal(t, "https://example.com/rss", m.FeedURL)
	assert.Equal(t, "t3_1", m.EntryID)
	assert.Equal(t, "Raid on Saturday!", m.Title)
	assert.Equal(t, "https://example.com/1", m.Link)
	assert.Equal(t, "9:30 pm EST", m.Time)
	assert.Equal(t, "absolute", m.Kind)
	assert.Equal(t, "Saturday", m.Day)
	assert.Equal(t, "Raid on Saturday!starts 9:30 pm EST, bring pots", m.Snippet)
	assert.Equal(t, testPublished, m.Published)
	assert.Equal(t, testPublished.Add(time.Hour), m.ExtractedAt)

	assert.Equal(t, "t3_3", rep.Mentions[1].EntryID)
	assert.Equal(t, "8 pm pacific", rep.Mentions[1].Time)
	assert.Equal(t, "relative", rep.Mentions[1].Kind)
	assert.Empty(t, rep.Mentions[1].Day)

	require.Len(t, mentionStore.SaveMentionsCalls(), 1)
	assert.Equal(t, rep.Mentions, mentionStore.SaveMentionsCalls()[0].Mentions)

	assert.Equal(t, domain.Run{ID: 42, FeedURL: "https://example.com/rss", Total: 3, Matched: 2, Extracted: 2, Added: 1,
		StartedAt: testPublished.Add(time.Hour)}, rep.Run)
	require.Len(t, runStore.SaveRunCalls(), 1)
	assert.Equal(t, rep.Run, *runStore.SaveRunCalls()[0].Run)
}

func TestFeedProcessor_UpdateFeed_ParseError(t *testing.T) {
	parser := &mocks.ParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.Feed, error) {
			return nil, errors.New("fetch feed: unexpected status code: 429")
		},
	}
	mentionStore := &mocks.MentionStoreMock{}
	runStore := &mocks.RunStoreMock{SaveRunFunc: func(ctx context.Context, run *domain.Run) error { return nil }}

	fp := newTestProcessor(t, parser, mentionStore, runStore)
	attempts := 0
	fp.retryFunc = func(ctx context.Context, op func() error) error {
		var err error
		for range 3 {
			attempts++
			if err = op(); err == nil {
				return nil
			}
		}
		return err
	}

	rep := fp.UpdateFeed(context.Background(), "https://example.com/rss")
	assert.Equal(t, 3, attempts)
	assert.Len(t, parser.ParseCalls(), 3)
	assert.Empty(t, rep.Mentions)
	assert.Equal(t, "fetch feed: unexpected status code: 429", rep.Run.Error)
	assert.Empty(t, mentionStore.SaveMentionsCalls())
	require.Len(t, runStore.SaveRunCalls(), 1)
	assert.Equal(t, "fetch feed: unexpected status code: 429", runStore.SaveRunCalls()[0].Run.Error)
}

func TestFeedProcessor_UpdateFeed_SaveError(t *testing.T) {
	parser := &mocks.ParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.Feed, error) { return testFeed(url), nil },
	}
	mentionStore := &mocks.MentionStoreMock{
		SaveMentionsFunc: func(ctx context.Context, mentions []domain.Mention) (int, error) {
			return 0, errors.New("save mentions: database is locked")
		},
	}
	runStore := &mocks.RunStoreMock{
		SaveRunFunc: func(ctx context.Context, run *domain.Run) error { return errors.New("disk full") },
	}

	fp := newTestProcessor(t, parser, mentionStore, runStore)
	rep := fp.UpdateFeed(context.Background(), "https://example.com/rss")
	assert.Len(t, rep.Mentions, 2, "extraction results kept")
	assert.Equal(t, 2, rep.Run.Extracted)
	assert.Zero(t, rep.Run.Added)
	assert.Equal(t, "save mentions: database is locked", rep.Run.Error)
	assert.Len(t, runStore.SaveRunCalls(), 1, "run save failure is logged only")
}

func TestFeedProcessor_UpdateFeed_NoStores(t *testing.T) {
	parser := &mocks.ParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.Feed, error) { return testFeed(url), nil },
	}
	fp := newTestProcessor(t, parser, nil, nil)
	rep := fp.UpdateFeed(context.Background(), "https://example.com/rss")
	require.Len(t, rep.Mentions, 2)
	assert.Empty(t, rep.Run.Error)
	assert.Zero(t, rep.Run.Added)
	assert.Zero(t, rep.Run.ID)
}

func TestFeedProcessor_UpdateFeed_NothingFound(t *testing.T) {
	parser := &mocks.ParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.Feed, error) {
			return &domain.Feed{URL: url, Entries: []domain.Entry{{ID: "1", Title: "LFG", Content: "anyone?"}}}, nil
		},
	}
	mentionStore := &mocks.MentionStoreMock{}
	fp := newTestProcessor(t, parser, mentionStore, nil)
	rep := fp.UpdateFeed(context.Background(), "https://example.com/rss")
	assert.NotNil(t, rep.Mentions)
	assert.Empty(t, rep.Mentions)
	assert.Equal(t, 1, rep.Run.Total)
	assert.Empty(t, mentionStore.SaveMentionsCalls(), "nothing to save")
}

func TestFeedProcessor_UpdateAllFeeds(t *testing.T) {
	parser := &mocks.ParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.Feed, error) {
			if url == "https://bad.example.com/rss" {
				return nil, errors.New("parse feed: EOF")
			}
			time.Sleep(10 * time.Millisecond)
			return testFeed(url), nil
		},
	}
	mentionStore := &mocks.MentionStoreMock{
		SaveMentionsFunc: func(ctx context.Context, mentions []domain.Mention) (int, error) { return len(mentions), nil },
	}

	fp := newTestProcessor(t, parser, mentionStore, nil)
	urls := make([]string, 0, 5)
	for i := range 4 {
		urls = append(urls, fmt.Sprintf("https://example.com/%d/rss", i))
	}
	urls = append(urls, "https://bad.example.com/rss")

	reports := fp.UpdateAllFeeds(context.Background(), urls)
	require.Len(t, reports, 5)
	for i, u := range urls {
		assert.Equal(t, u, reports[i].Run.FeedURL)
	}
	for _, r := range reports[:4] {
		assert.Equal(t, 2, r.Run.Added)
		assert.Empty(t, r.Run.Error)
	}
	assert.Equal(t, "parse feed: EOF", reports[4].Run.Error)
	assert.Len(t, parser.ParseCalls(), 5)
	assert.Len(t, mentionStore.SaveMentionsCalls(), 4)
}
