package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/stitchstyle/internal/db"
)

// WithTx exposes withTx to the external test package.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(q *db.Queries) error) error {
	_, err := withTx(ctx, pool, db.New(pool), func(q *db.Queries) (struct{}, error) {
		return struct{}{}, fn(q)
	})
	return err
}
