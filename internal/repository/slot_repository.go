package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/stitchstyle/internal/db"
	"github.com/nikolayk812/stitchstyle/internal/port"
)

type slotRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewSlots(pool *pgxpool.Pool) port.SlotRepository {
	return &slotRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewSlotsWithTx(tx pgx.Tx) port.SlotRepository {
	return &slotRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *slotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("key is empty")
	}

	slot, err := r.q.GetSlot(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("q.GetSlot: %w", err)
	}

	return slot.Value, true, nil
}

func (r *slotRepository) Set(ctx context.Context, key string, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if err := q.UpsertSlot(ctx, db.UpsertSlotParams{Key: key, Value: value}); err != nil {
			return struct{}{}, fmt.Errorf("q.UpsertSlot: %w", err)
		}
		return struct{}{}, nil
	})

	return err
}

func (r *slotRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := r.q.DeleteSlot(ctx, key); err != nil {
		return fmt.Errorf("q.DeleteSlot: %w", err)
	}

	return nil
}
