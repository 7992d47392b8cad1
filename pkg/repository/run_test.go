package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedtime/pkg/domain"
)

func TestRunRepository(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	first := &domain.Run{FeedURL: "https://a.com/rss", Total: 25, Matched: 4, Extracted: 3, Added: 3,
		StartedAt: started, Duration: 1500 * time.Millisecond}
	require.NoError(t, repos.Run.SaveRun(ctx, first))
	assert.NotZero(t, first.ID)

	second := &domain.Run{FeedURL: "https://b.com/rss", Error: "fetch feed: unexpected status code: 429",
		StartedAt: started.Add(time.Minute), Duration: 20 * time.Millisecond}
	require.NoError(t, repos.Run.SaveRun(ctx, second))
	assert.Greater(t, second.ID, first.ID)

	runs, err := repos.Run.GetRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, "fetch feed: unexpected status code: 429", runs[0].Error)
	assert.Equal(t, 20*time.Millisecond, runs[0].Duration)

	got := runs[1]
	assert.Equal(t, "https://a.com/rss", got.FeedURL)
	assert.Equal(t, 25, got.Total)
	assert.Equal(t, 4, got.Matched)
	assert.Equal(t, 3, got.Extracted)
	assert.Equal(t, 3, got.Added)
	assert.Empty(t, got.Error)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.WithinDuration(t, started, got.StartedAt, time.Second)

	runs, err = repos.Run.GetRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second.ID, runs[0].ID)

	runs, err = repos.Run.GetRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2, "non-positive limit uses default")
}
