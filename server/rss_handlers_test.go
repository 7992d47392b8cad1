package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedtime/pkg/domain"
	"github.com/umputun/feedtime/server/mocks"
)

func TestServer_rssHandler(t *testing.T) {
	mentions := &mocks.MentionStoreMock{
		GetMentionsFunc: func(ctx context.Context, filter domain.MentionFilter) ([]domain.Mention, error) {
			return []domain.Mention{{ID: 1, FeedURL: "https://a.com/rss", EntryID: "t3_1", Title: "raid night",
				Link: "https://a.com/1", Time: "9:30 pm EST", Kind: "absolute",
				Published: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}}, nil
		},
	}
	srv := newTestServer(mentions, nil, nil)

	t.Run("all", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/rss", http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))

		body := w.Body.String()
		assert.Contains(t, body, `<title>Feedtime - all time references</title>`)
		assert.Contains(t, body, `<link>https://feedtime.example.com/</link>`)
		assert.Contains(t, body, `<title>[9:30 pm EST] raid night</title>`)
		assert.Contains(t, body, `<guid isPermaLink="false">https://a.com/rss#t3_1</guid>`)
	})

	t.Run("kind filter", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/rss?kind=absolute&feed=https://a.com/rss", http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `<title>Feedtime - absolute time references</title>`)

		calls := mentions.GetMentionsCalls()
		require.NotEmpty(t, calls)
		assert.Equal(t, domain.MentionFilter{FeedURL: "https://a.com/rss", Kind: "absolute", Limit: 100}, calls[len(calls)-1].Filter)
	})

	t.Run("bad kind", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/rss?kind=weekly", http.NoBody))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store error", func(t *testing.T) {
		failing := &mocks.MentionStoreMock{
			GetMentionsFunc: func(ctx context.Context, filter domain.MentionFilter) ([]domain.Mention, error) {
				return nil, errors.New("db closed")
			},
		}
		w := httptest.NewRecorder()
		newTestServer(failing, nil, nil).router.ServeHTTP(w, httptest.NewRequest("GET", "/rss", http.NoBody))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to generate RSS feed")
	})
}
