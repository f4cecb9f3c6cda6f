// Package ratelimit counts calls per key in Postgres so a limit holds across
// every API replica sharing the database.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
)

// DB interface for database operations
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Quota is a fixed window counter. A limit of zero or less disables it.
type Quota struct {
	db     DB
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewQuota creates a quota allowing limit calls per window for each key.
func NewQuota(db DB, limit int, window time.Duration) *Quota {
	return &Quota{
		db:     db,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records one call for key and returns domain.ErrRateLimitExceeded
// once the window's count passes the limit.
func (q *Quota) Allow(ctx context.Context, key string) error {
	if q.limit <= 0 {
		return nil
	}

	now := q.now()

	// A window that has ended restarts at one instead of incrementing.
	query := `
		INSERT INTO rate_limit_counters (key, count, window_end)
		VALUES ($1, 1, $2)
		ON CONFLICT (key)
		DO UPDATE SET
			count = CASE
				WHEN rate_limit_counters.window_end <= $3 THEN 1
				ELSE rate_limit_counters.count + 1
			END,
			window_end = CASE
				WHEN rate_limit_counters.window_end <= $3 THEN $2
				ELSE rate_limit_counters.window_end
			END
		RETURNING count
	`

	var count int
	if err := q.db.QueryRow(ctx, query, key, now.Add(q.window), now).Scan(&count); err != nil {
		return fmt.Errorf("check quota: %w", err)
	}

	if count > q.limit {
		return domain.ErrRateLimitExceeded.WithError(
			fmt.Errorf("%s: %d/%d calls in window", key, count, q.limit))
	}
	return nil
}

// Count returns the calls recorded for key in the current window.
func (q *Quota) Count(ctx context.Context, key string) (int, error) {
	query := `
		SELECT count
		FROM rate_limit_counters
		WHERE key = $1 AND window_end > $2
	`

	var count int
	err := q.db.QueryRow(ctx, query, key, q.now()).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read quota: %w", err)
	}
	return count, nil
}

// Reset clears the counter for key.
func (q *Quota) Reset(ctx context.Context, key string) error {
	_, err := q.db.Exec(ctx, `DELETE FROM rate_limit_counters WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("reset quota: %w", err)
	}
	return nil
}

// CleanupExpired removes counters whose window ended over an hour ago.
func (q *Quota) CleanupExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM rate_limit_counters WHERE window_end < $1`
	result, err := q.db.Exec(ctx, query, q.now().Add(-time.Hour))
	if err != nil {
		return 0, fmt.Errorf("cleanup quotas: %w", err)
	}
	return result.RowsAffected(), nil
}
