package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedtime/pkg/domain"
	"github.com/umputun/feedtime/pkg/scheduler"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>LFG</title>
  <link>https://example.com</link>
  <item>
    <guid>t3_1</guid>
    <title>raid night</title>
    <link>https://example.com/1</link>
    <description>starts 9:30 pm EST on Friday</description>
  </item>
  <item>
    <guid>t3_2</guid>
    <title>looking for group</title>
    <link>https://example.com/2</link>
    <description>anyone around?</description>
  </item>
</channel>
</rss>`

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testRSS))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: writeConfig(t, "invalid: yaml: content: [")}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidFeed(t *testing.T) {
	err := run(context.Background(), Opts{Feeds: []string{"ftp://example.com/rss"}, Once: true}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid feed")
}

func TestRun_Once(t *testing.T) {
	ts := feedServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := run(ctx, Opts{Feeds: []string{ts.URL}, Once: true}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "9:30 pm EST")
	assert.Contains(t, out.String(), "raid night")
	assert.NotContains(t, out.String(), "looking for group")
	assert.Contains(t, out.String(), ts.URL+": 2 entries, 1 matched, 1 extracted")
}

func TestRun_OnceAllFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	cfgPath := writeConfig(t, fmt.Sprintf("schedule:\n  retries: 1\nfeeds:\n  - url: %s\n", ts.URL))
	var out bytes.Buffer
	err := run(context.Background(), Opts{Config: cfgPath, Once: true}, &out)
	require.Error(t, err)
	assert.Equal(t, "all feeds failed", err.Error())
	assert.Contains(t, out.String(), "unexpected status code: 429")
}

func TestRun_ServerStartStop(t *testing.T) {
	ts := feedServer(t)

	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfgPath := writeConfig(t, fmt.Sprintf(`server:
  listen: "127.0.0.1:%d"
database:
  dsn: "file:%s?mode=rwc&_txlock=immediate"
schedule:
  retries: 1
feeds:
  - url: %s
    name: test
`, port, dbPath, ts.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, Opts{Config: cfgPath}, &bytes.Buffer{}) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "server did not start")

	// the first poll runs right after start
	var mentions []domain.Mention
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/v1/mentions")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		mentions = nil
		return json.NewDecoder(resp.Body).Decode(&mentions) == nil && len(mentions) == 1
	}, 5*time.Second, 50*time.Millisecond, "mentions not stored")

	assert.Equal(t, "9:30 pm EST", mentions[0].Time)
	assert.Equal(t, "Friday", mentions[0].Day)
	assert.Equal(t, "t3_1", mentions[0].EntryID)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig(Opts{})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://old.reddit.com/r/lfg/new/.rss"}, cfg.FeedURLs())
		assert.False(t, cfg.Extraction.IgnoreCase)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := loadConfig(Opts{
			Feeds:      []string{"https://a.com/rss", "https://b.com/rss"},
			IgnoreCase: true,
			Listen:     ":9090",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.com/rss", "https://b.com/rss"}, cfg.FeedURLs())
		assert.True(t, cfg.Extraction.IgnoreCase)
		assert.Equal(t, ":9090", cfg.Server.Listen)
	})

	t.Run("duplicate feed", func(t *testing.T) {
		_, err := loadConfig(Opts{Feeds: []string{"https://a.com/rss", "https://a.com/rss"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate url")
	})
}

func TestNewMatcher(t *testing.T) {
	cfg, err := loadConfig(Opts{})
	require.NoError(t, err)

	m, err := newMatcher(cfg)
	require.NoError(t, err)
	assert.True(t, m.Contains("starts 9 pm est"))
	assert.False(t, m.Contains("starts 9 Pm Est"))

	cfg.Extraction.IgnoreCase = true
	m, err = newMatcher(cfg)
	require.NoError(t, err)
	assert.True(t, m.Contains("starts 9 Pm Est"))
}

func TestPrintReports(t *testing.T) {
	reports := []scheduler.Report{
		{
			Run: domain.Run{FeedURL: "https://a.com/rss", Total: 3, Matched: 2, Extracted: 1},
			Mentions: []domain.Mention{
				{Title: "raid", Time: "8 pm EST", Kind: "relative"},
			},
		},
		{Run: domain.Run{FeedURL: "https://b.com/rss", Error: "fetch feed: boom"}},
	}

	var out bytes.Buffer
	require.NoError(t, printReports(&out, reports))
	assert.Contains(t, out.String(), "8 pm EST")
	assert.Contains(t, out.String(), "relative\traid")
	assert.Contains(t, out.String(), "https://a.com/rss: 3 entries, 2 matched, 1 extracted")
	assert.Contains(t, out.String(), "https://b.com/rss: fetch feed: boom")

	require.NoError(t, printReports(&out, nil))
	require.Error(t, printReports(&out, reports[1:]))
}
