package timeref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedtime/pkg/domain"
)

func TestMatcher_Extract(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	tests := []struct {
		name    string
		entry   domain.Entry
		want    string
		wantHit bool
	}{
		{name: "plain", entry: domain.Entry{Content: "11:30"}, want: "11:30", wantHit: true},
		{name: "pm", entry: domain.Entry{Content: "11:30 pm"}, want: "11:30 pm", wantHit: true},
		{name: "dotted pm", entry: domain.Entry{Content: "11:30 p.m."}, want: "11:30 p.m.", wantHit: true},
		{name: "zone", entry: domain.Entry{Content: "11:30 gmt"}, want: "11:30 gmt", wantHit: true},
		{name: "seconds", entry: domain.Entry{Content: "11:30:25 gmt"}, want: "11:30:25 gmt", wantHit: true},
		{name: "sentence", entry: domain.Entry{Content: "extract date 11:30 gmt from full string"}, want: "11:30 gmt", wantHit: true},
		{name: "title first", entry: domain.Entry{Title: "raid 8 pm EST", Content: "or 9:30 pm EST"}, want: "8 pm EST", wantHit: true},
		{name: "title only", entry: domain.Entry{Title: "[PC] raid 21:00 CET", Content: "bring pots"}, want: "21:00 CET", wantHit: true},
		{name: "joined without separator", entry: domain.Entry{Title: "starts 11", Content: "am est"}, want: "11am est", wantHit: true},
		{name: "nothing", entry: domain.Entry{Title: "LFG", Content: "anyone?"}, wantHit: false},
		{name: "empty", entry: domain.Entry{}, wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Extract(tt.entry)
			assert.Equal(t, tt.wantHit, ok)
			assert.Equal(t, tt.want, got)

			// same result on repeated calls
			again, ok2 := m.Extract(tt.entry)
			assert.Equal(t, ok, ok2)
			assert.Equal(t, got, again)
		})
	}
}

func TestMatcher_Collect(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	entries := []domain.Entry{
		{ID: "1", Title: "raid tonight 9:30 pm EST", Content: "need healer"},
		{ID: "2", Title: "looking for group", Content: "anyone around?"},
		{ID: "3", Title: "Weekly run", Content: "starts 8 pm pacific"},
		{ID: "4", Title: "starts 11", Content: "am est"},
		{ID: "5", Title: "Signup is EST", Content: "ablished"},
	}

	res := m.Collect(entries)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 3, res.Matched, "entries 1, 3 and 5 pass the title-or-content check")
	require.Len(t, res.Matches, 2)
	assert.Equal(t, []string{"9:30 pm EST", "8 pm pacific"}, res.Times())

	assert.Equal(t, "1", res.Matches[0].Entry.ID)
	assert.Equal(t, KindAbsolute, res.Matches[0].Match.Kind)
	assert.Equal(t, "3", res.Matches[1].Entry.ID)
	assert.Equal(t, KindRelative, res.Matches[1].Match.Kind)
	assert.LessOrEqual(t, len(res.Matches), res.Matched)

	t.Run("seam entry is skipped although extraction would find it", func(t *testing.T) {
		assert.False(t, m.Contains(entries[3].Title))
		assert.False(t, m.Contains(entries[3].Content))
		got, ok := m.Extract(entries[3])
		assert.True(t, ok)
		assert.Equal(t, "11am est", got)
	})

	t.Run("joined text can lose a boundary match", func(t *testing.T) {
		assert.True(t, m.Contains(entries[4].Title))
		_, ok := m.Extract(entries[4])
		assert.False(t, ok)
	})

	t.Run("no entries", func(t *testing.T) {
		res := m.Collect(nil)
		assert.Equal(t, 0, res.Total)
		assert.Equal(t, 0, res.Matched)
		assert.Empty(t, res.Matches)
		assert.NotNil(t, res.Times())
		assert.Empty(t, res.Times())
	})

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, res, m.Collect(entries))
	})
}
