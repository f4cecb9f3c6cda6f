package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
)

// PgxPool is the subset of *pgxpool.Pool the repositories use. pgxmock
// pools satisfy it too.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// FrameRepositoryInterface defines operations for catalog data access
type FrameRepositoryInterface interface {
	List(ctx context.Context) ([]domain.Frame, error)
	Get(ctx context.Context, id string) (*domain.Frame, error)
	Upsert(ctx context.Context, frames []domain.Frame) (int, error)
	Delete(ctx context.Context, id string) (int64, error)
}
