package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedtime/pkg/domain"
)

const defaultMentionsLimit = 100

// MentionRepository handles mention-related database operations
type MentionRepository struct {
	db *sqlx.DB
}

// mentionSQL represents a mention for SQL operations
type mentionSQL struct {
	ID          int64      `db:"id"`
	FeedURL     string     `db:"feed_url"`
	EntryID     string     `db:"entry_id"`
	Title       string     `db:"title"`
	Link        string     `db:"link"`
	Time        string     `db:"time_text"`
	Kind        string     `db:"kind"`
	Day         string     `db:"day"`
	Snippet     string     `db:"snippet"`
	Published   *time.Time `db:"published"`
	ExtractedAt time.Time  `db:"extracted_at"`
}

// NewMentionRepository creates a new mention repository
func NewMentionRepository(db *sqlx.DB) *MentionRepository {
	return &MentionRepository{db: db}
}

// SaveMentions inserts mentions in a single transaction and returns the number of new rows.
// A mention for an already stored (feed_url, entry_id) pair is skipped, the first extraction wins.
func (r *MentionRepository) SaveMentions(ctx context.Context, mentions []domain.Mention) (int, error) {
	if len(mentions) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO mentions (
			feed_url, entry_id, title, link, time_text, kind, day, snippet, published, extracted_at
		) VALUES (
			:feed_url, :entry_id, :title, :link, :time_text, :kind, :day, :snippet, :published, :extracted_at
		)
		ON CONFLICT(feed_url, entry_id) DO NOTHING
	`

	var added int
	err := withLockRetry(ctx, func() error {
		added = 0
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("begin transaction: %w", err)}
		}
		defer tx.Rollback() //nolint:errcheck // no-op after commit

		for _, m := range mentions {
			res, err := tx.NamedExecContext(ctx, query, toMentionSQL(m))
			if err != nil {
				if isLockError(err) {
					return err // retry
				}
				return &criticalError{err: fmt.Errorf("insert mention %s: %w", m.EntryID, err)}
			}
			n, err := res.RowsAffected()
			if err != nil {
				return &criticalError{err: fmt.Errorf("get rows affected: %w", err)}
			}
			added += int(n)
		}

		if err := tx.Commit(); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("commit: %w", err)}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save mentions: %w", err)
	}
	return added, nil
}

// GetMentions returns the most recently stored mentions matching the filter
func (r *MentionRepository) GetMentions(ctx context.Context, filter domain.MentionFilter) ([]domain.Mention, error) {
	var where []string
	var args []any
	if filter.FeedURL != "" {
		where = append(where, "feed_url = ?")
		args = append(args, filter.FeedURL)
	}
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, filter.Kind)
	}

	query := "SELECT * FROM mentions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultMentionsLimit
	}
	args = append(args, limit)

	var rows []mentionSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get mentions: %w", err)
	}

	res := make([]domain.Mention, len(rows))
	for i, row := range rows {
		res[i] = row.toDomain()
	}
	return res, nil
}

// CountMentions returns the total number of stored mentions
func (r *MentionRepository) CountMentions(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM mentions"); err != nil {
		return 0, fmt.Errorf("count mentions: %w", err)
	}
	return count, nil
}

func toMentionSQL(m domain.Mention) mentionSQL {
	res := mentionSQL{
		FeedURL:     m.FeedURL,
		EntryID:     m.EntryID,
		Title:       m.Title,
		Link:        m.Link,
		Time:        m.Time,
		Kind:        m.Kind,
		Day:         m.Day,
		Snippet:     m.Snippet,
		ExtractedAt: m.ExtractedAt,
	}
	if !m.Published.IsZero() {
		pub := m.Published
		res.Published = &pub
	}
	if res.ExtractedAt.IsZero() {
		res.ExtractedAt = time.Now()
	}
	return res
}

func (m mentionSQL) toDomain() domain.Mention {
	res := domain.Mention{
		ID:          m.ID,
		FeedURL:     m.FeedURL,
		EntryID:     m.EntryID,
		Title:       m.Title,
		Link:        m.Link,
		Time:        m.Time,
		Kind:        m.Kind,
		Day:         m.Day,
		Snippet:     m.Snippet,
		ExtractedAt: m.ExtractedAt,
	}
	if m.Published != nil {
		res.Published = *m.Published
	}
	return res
}
