package db

import (
	"context"
)

const deleteSlot = `-- name: DeleteSlot :execrows
DELETE
FROM slots
WHERE key = $1
`

func (q *Queries) DeleteSlot(ctx context.Context, key string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSlot, key)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getSlot = `-- name: GetSlot :one
SELECT key, value, updated_at
FROM slots
WHERE key = $1
`

func (q *Queries) GetSlot(ctx context.Context, key string) (Slot, error) {
	row := q.db.QueryRow(ctx, getSlot, key)
	var i Slot
	err := row.Scan(&i.Key, &i.Value, &i.UpdatedAt)
	return i, err
}

const upsertSlot = `-- name: UpsertSlot :exec
INSERT INTO slots (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
    SET value      = EXCLUDED.value,
        updated_at = now()
`

type UpsertSlotParams struct {
	Key   string
	Value string
}

func (q *Queries) UpsertSlot(ctx context.Context, arg UpsertSlotParams) error {
	_, err := q.db.Exec(ctx, upsertSlot, arg.Key, arg.Value)
	return err
}
