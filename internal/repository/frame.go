package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
)

const frameColumns = `id, name, src, styles, recommended_for, reasoning, created_at`

// FrameRepository stores the glasses catalog in the frames table.
type FrameRepository struct {
	db PgxPool
}

// NewFrameRepository creates a new frame repository
func NewFrameRepository(db PgxPool) *FrameRepository {
	return &FrameRepository{db: db}
}

// List returns every frame, newest first.
func (r *FrameRepository) List(ctx context.Context) ([]domain.Frame, error) {
	query := `SELECT ` + frameColumns + ` FROM frames ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	defer rows.Close()

	frames := make([]domain.Frame, 0)
	for rows.Next() {
		frame, err := scanFrame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		frames = append(frames, *frame)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate frames: %w", err)
	}

	return frames, nil
}

// Get returns the frame with the given id or domain.ErrFrameNotFound.
func (r *FrameRepository) Get(ctx context.Context, id string) (*domain.Frame, error) {
	query := `SELECT ` + frameColumns + ` FROM frames WHERE id = $1`

	frame, err := scanFrame(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFrameNotFound
		}
		return nil, fmt.Errorf("get frame: %w", err)
	}

	return frame, nil
}

// Upsert inserts or replaces frames by id in a single transaction and
// returns how many were written. created_at is kept on update.
func (r *FrameRepository) Upsert(ctx context.Context, frames []domain.Frame) (int, error) {
	if len(frames) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO frames (id, name, src, styles, recommended_for, reasoning, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    src = EXCLUDED.src,
		    styles = EXCLUDED.styles,
		    recommended_for = EXCLUDED.recommended_for,
		    reasoning = EXCLUDED.reasoning,
		    updated_at = NOW()
	`

	now := time.Now().UTC()
	for _, f := range frames {
		styles, err := marshalStrings(f.Styles)
		if err != nil {
			return 0, fmt.Errorf("encode styles for %s: %w", f.ID, err)
		}
		recommended, err := marshalStrings(f.RecommendedFor)
		if err != nil {
			return 0, fmt.Errorf("encode recommended_for for %s: %w", f.ID, err)
		}

		createdAt := now
		if f.CreatedAt != nil {
			createdAt = *f.CreatedAt
		}

		if _, err := tx.Exec(ctx, query, f.ID, f.Name, f.Src, styles, recommended, f.Reasoning, createdAt); err != nil {
			return 0, fmt.Errorf("upsert frame %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return len(frames), nil
}

// Delete removes a frame and returns the number of rows deleted.
func (r *FrameRepository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM frames WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete frame: %w", err)
	}
	return result.RowsAffected(), nil
}

func scanFrame(row pgx.Row) (*domain.Frame, error) {
	var (
		f           domain.Frame
		styles      []byte
		recommended []byte
		createdAt   time.Time
	)

	if err := row.Scan(&f.ID, &f.Name, &f.Src, &styles, &recommended, &f.Reasoning, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if f.Styles, err = unmarshalStrings(styles); err != nil {
		return nil, fmt.Errorf("decode styles: %w", err)
	}
	if f.RecommendedFor, err = unmarshalStrings(recommended); err != nil {
		return nil, fmt.Errorf("decode recommended_for: %w", err)
	}
	f.CreatedAt = &createdAt

	return &f, nil
}
