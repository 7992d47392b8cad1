package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedtime/pkg/domain"
)

// RunRepository keeps per-feed poll diagnostics
type RunRepository struct {
	db *sqlx.DB
}

type runSQL struct {
	ID         int64     `db:"id"`
	FeedURL    string    `db:"feed_url"`
	Total      int       `db:"total"`
	Matched    int       `db:"matched"`
	Extracted  int       `db:"extracted"`
	Added      int       `db:"added"`
	Error      string    `db:"error"`
	StartedAt  time.Time `db:"started_at"`
	DurationMs int64     `db:"duration_ms"`
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun records a poll and sets its ID
func (r *RunRepository) SaveRun(ctx context.Context, run *domain.Run) error {
	row := runSQL{
		FeedURL:    run.FeedURL,
		Total:      run.Total,
		Matched:    run.Matched,
		Extracted:  run.Extracted,
		Added:      run.Added,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		DurationMs: run.Duration.Milliseconds(),
	}

	query := `
		INSERT INTO runs (feed_url, total, matched, extracted, added, error, started_at, duration_ms)
		VALUES (:feed_url, :total, :matched, :extracted, :added, :error, :started_at, :duration_ms)
	`
	return withLockRetry(ctx, func() error {
		res, err := r.db.NamedExecContext(ctx, query, row)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("save run: %w", err)}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get insert id: %w", err)}
		}
		run.ID = id
		return nil
	})
}

// GetRuns returns up to limit most recent runs, newest first
func (r *RunRepository) GetRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []runSQL
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM runs ORDER BY id DESC LIMIT ?", limit); err != nil {
		return nil, fmt.Errorf("get runs: %w", err)
	}

	res := make([]domain.Run, len(rows))
	for i, row := range rows {
		res[i] = domain.Run{
			ID:        row.ID,
			FeedURL:   row.FeedURL,
			Total:     row.Total,
			Matched:   row.Matched,
			Extracted: row.Extracted,
			Added:     row.Added,
			Error:     row.Error,
			StartedAt: row.StartedAt,
			Duration:  time.Duration(row.DurationMs) * time.Millisecond,
		}
	}
	return res, nil
}
